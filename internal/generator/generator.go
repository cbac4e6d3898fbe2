// Package generator builds synthetic profile corpora.
package generator

import (
	"fmt"
	"math/rand"

	"github.com/verte-zerg/segstat/internal/model"
)

var (
	plans     = []string{"free", "trial", "pro"}
	planBias  = []float64{5, 2, 1}
	countries = []string{"FI", "SE", "DE", "US", "JP"}
	browsers  = []string{"Firefox", "Chrome", "Safari", "Edge"}
	events    = []string{"login", "search", "export", "share", "invite", "upgrade"}
)

// eventRate is the chance a user of each plan triggers an event at all.
var eventRate = map[string][]float64{
	"login":   {0.9, 0.95, 0.98},
	"search":  {0.5, 0.6, 0.8},
	"export":  {0.05, 0.2, 0.7},
	"share":   {0.2, 0.25, 0.3},
	"invite":  {0.02, 0.1, 0.4},
	"upgrade": {0.01, 0.3, 0.05},
}

// Generator produces deterministic synthetic profiles.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with seed.
func New(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Profiles generates n profiles. Plan drives event likelihood so segments
// built on plan show real differences.
func (g *Generator) Profiles(n int) []model.Profile {
	out := make([]model.Profile, 0, n)
	for i := 0; i < n; i++ {
		planIdx := g.weighted(planBias)
		p := model.Profile{
			UID:    model.UserID(fmt.Sprintf("user-%05d", i)),
			Events: map[string][]model.HourCount{},
			Properties: map[string][]string{
				"plan":    {plans[planIdx]},
				"country": {countries[g.rnd.Intn(len(countries))]},
				"browser": {browsers[g.rnd.Intn(len(browsers))]},
			},
		}
		for _, ev := range events {
			if g.rnd.Float64() > eventRate[ev][planIdx] {
				continue
			}
			p.Events[ev] = g.hours(1 + planIdx*2)
		}
		out = append(out, p)
	}
	return out
}

func (g *Generator) hours(intensity int) []model.HourCount {
	buckets := 1 + g.rnd.Intn(intensity+1)
	hours := make([]model.HourCount, 0, buckets)
	hour := int64(g.rnd.Intn(24 * 30))
	for i := 0; i < buckets; i++ {
		hours = append(hours, model.HourCount{Hour: hour, Count: 1 + g.rnd.Intn(intensity)})
		hour += int64(1 + g.rnd.Intn(48))
	}
	return hours
}

func (g *Generator) weighted(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := g.rnd.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r <= acc {
			return i
		}
	}
	return len(weights) - 1
}
