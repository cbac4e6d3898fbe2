package generator

import (
	"reflect"
	"testing"
)

func TestProfilesDeterministic(t *testing.T) {
	a := New(7).Profiles(50)
	b := New(7).Profiles(50)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical corpora for identical seeds")
	}
	if len(a) != 50 {
		t.Fatalf("expected 50 profiles, got %d", len(a))
	}
	for _, p := range a {
		if p.UID == "" {
			t.Fatalf("expected uid")
		}
		if len(p.Properties["plan"]) != 1 {
			t.Fatalf("expected one plan for %s", p.UID)
		}
	}
}

func TestWeightedStaysInRange(t *testing.T) {
	g := New(1)
	for i := 0; i < 1000; i++ {
		if idx := g.weighted([]float64{1, 0, 3}); idx < 0 || idx > 2 || idx == 1 {
			t.Fatalf("unexpected index %d", idx)
		}
	}
}
