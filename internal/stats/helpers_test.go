package stats

import (
	"fmt"
	"testing"

	"github.com/verte-zerg/segstat/internal/features"
	"github.com/verte-zerg/segstat/internal/model"
)

func newIndex(t *testing.T, entries map[string][]model.UserID) *features.Index {
	t.Helper()
	ix := features.NewIndex()
	for raw, ids := range entries {
		k, err := features.ParseKey(raw)
		if err != nil {
			t.Fatalf("parse key %q: %v", raw, err)
		}
		for _, id := range ids {
			ix.Add(k, id)
		}
	}
	return ix
}

func userRange(from, to int) []model.UserID {
	ids := make([]model.UserID, 0, to-from)
	for i := from; i < to; i++ {
		ids = append(ids, model.UserID(fmt.Sprintf("u%04d", i)))
	}
	return ids
}

func concat(parts ...[]model.UserID) []model.UserID {
	var out []model.UserID
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func groupFor(t *testing.T, src Source, key string) Group {
	t.Helper()
	for _, g := range GroupKeys(src.Keys()) {
		if g.Key == key {
			return g
		}
	}
	t.Fatalf("group %q not found", key)
	return Group{}
}
