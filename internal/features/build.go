package features

import (
	"sort"
	"strings"

	"github.com/verte-zerg/segstat/internal/model"
)

// BuildResult carries the index and the number of profiles skipped.
type BuildResult struct {
	Index   *Index
	Skipped int
}

// Build extracts event and property features from profiles.
func Build(profiles []model.Profile, cfg model.FeatureConfig) BuildResult {
	ix := NewIndex()
	skipped := 0
	for _, p := range profiles {
		uid := model.UserID(strings.TrimSpace(string(p.UID)))
		if uid == "" {
			skipped++
			continue
		}
		for event, hours := range p.Events {
			ix.Add(model.EventKey(EventClass(hours, cfg.Cutoff), event), uid)
		}
		for name, values := range p.Properties {
			seen := make(map[string]struct{}, len(values))
			for _, v := range values {
				v = truncate(v, cfg.MaxValueLen)
				if _, ok := seen[v]; ok {
					continue
				}
				seen[v] = struct{}{}
				ix.Add(model.PropertyKey(name, v), uid)
			}
		}
	}
	return BuildResult{Index: ix, Skipped: skipped}
}

// EventClass sums hourly counts in hour order and classifies the total
// against cutoff. Summing stops once cutoff is reached.
func EventClass(hours []model.HourCount, cutoff int) model.FrequencyClass {
	ordered := make([]model.HourCount, len(hours))
	copy(ordered, hours)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Hour < ordered[j].Hour })
	sum := 0
	for _, h := range ordered {
		sum += h.Count
		if sum >= cutoff {
			return model.ClassHigh
		}
	}
	return model.ClassLow
}

func truncate(value string, maxLen int) string {
	if maxLen <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= maxLen {
		return value
	}
	return string(runes[:maxLen])
}
