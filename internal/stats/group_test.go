package stats

import (
	"testing"

	"github.com/verte-zerg/segstat/internal/features"
	"github.com/verte-zerg/segstat/internal/model"
)

func TestGroupKeysPartitionsEveryKeyOnce(t *testing.T) {
	raw := []string{"pcountry:FI", "ehlogin", "pbrowser:Firefox", "ellogin", "pcountry:SE", "ehsearch", "pbrowser:Chrome"}
	keys := make([]model.FeatureKey, 0, len(raw))
	for _, r := range raw {
		k, err := features.ParseKey(r)
		if err != nil {
			t.Fatalf("parse %q: %v", r, err)
		}
		keys = append(keys, k)
	}

	groups := GroupKeys(keys)
	seen := map[model.FeatureKey]int{}
	for _, g := range groups {
		for _, k := range g.Keys {
			seen[k]++
			if GroupKey(k) != g.Key {
				t.Fatalf("key %s in wrong group %s", k, g.Key)
			}
		}
	}
	if len(seen) != len(keys) {
		t.Fatalf("expected %d keys, got %d", len(keys), len(seen))
	}
	for k, n := range seen {
		if n != 1 {
			t.Fatalf("key %s appears %d times", k, n)
		}
	}

	labels := make([]string, 0, len(groups))
	for _, g := range groups {
		labels = append(labels, g.Label)
	}
	want := []string{"Event", "Browser", "Country"}
	if len(labels) != len(want) {
		t.Fatalf("unexpected groups: %v", labels)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("unexpected group order: %v", labels)
		}
	}
	if got := groups[0].Keys[0].String(); got != "ehlogin" {
		t.Fatalf("expected keys sorted within group, got %s first", got)
	}
}

func TestGroupLabelCapitalizes(t *testing.T) {
	if got := GroupLabel(model.PropertyKey("äpp version", "1")); got != "Äpp version" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := GroupLabel(model.EventKey(model.ClassLow, "x")); got != "Event" {
		t.Fatalf("unexpected event label %q", got)
	}
}
