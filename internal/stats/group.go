// Package stats computes frequency and differential statistics over a
// feature index and assembles them into ranked report widgets.
package stats

import (
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/verte-zerg/segstat/internal/model"
)

// Source is the feature index consumed by the engine.
type Source interface {
	Keys() []model.FeatureKey
	Holders(key model.FeatureKey) model.UserSet
	Universe() model.UserSet
}

// Counter is implemented by sources that can count holders within a user
// set faster than a generic intersection.
type Counter interface {
	CountIn(key model.FeatureKey, users model.UserSet) int
}

func countIn(src Source, key model.FeatureKey, users model.UserSet) int {
	if c, ok := src.(Counter); ok {
		return c.CountIn(key, users)
	}
	return src.Holders(key).IntersectCount(users)
}

// Group is an attribute group: keys sharing one structural prefix.
type Group struct {
	Key   string
	Label string
	Keys  []model.FeatureKey
}

// GroupKey returns the structural prefix of k: "e" for events, "p"+name for properties.
func GroupKey(k model.FeatureKey) string {
	if k.Kind == model.KindEvent {
		return "e"
	}
	return "p" + k.Name
}

// GroupLabel returns the display label of the group k belongs to.
func GroupLabel(k model.FeatureKey) string {
	if k.Kind == model.KindEvent {
		return "Event"
	}
	return capitalize(k.Name)
}

// GroupKeys partitions keys into attribute groups ordered by group key.
func GroupKeys(keys []model.FeatureKey) []Group {
	type entry struct {
		group string
		enc   string
		key   model.FeatureKey
	}
	entries := make([]entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, entry{group: GroupKey(k), enc: k.String(), key: k})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].group == entries[j].group {
			return entries[i].enc < entries[j].enc
		}
		return entries[i].group < entries[j].group
	})

	var groups []Group
	for _, e := range entries {
		if n := len(groups); n > 0 && groups[n-1].Key == e.group {
			groups[n-1].Keys = append(groups[n-1].Keys, e.key)
			continue
		}
		groups = append(groups, Group{
			Key:   e.group,
			Label: GroupLabel(e.key),
			Keys:  []model.FeatureKey{e.key},
		})
	}
	return groups
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
