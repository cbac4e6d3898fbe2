package stats

import (
	"errors"
	"fmt"
	"testing"

	"github.com/verte-zerg/segstat/internal/model"
)

func TestFrequencyTableSumsCollidingValues(t *testing.T) {
	ix := newIndex(t, map[string][]model.UserID{
		"ehlogin":  {"u1", "u2", "u3"},
		"ellogin":  {"u3", "u4"},
		"ehsearch": {"u1"},
	})
	g := groupFor(t, ix, "e")
	counts := ValueCounts(ix, g)
	if counts["login"] != 5 {
		t.Fatalf("expected additive count 5 for login, got %d", counts["login"])
	}

	table, ok, err := FrequencyTable(ix, g, len(ix.Universe()), model.DefaultReportConfig())
	if err != nil || !ok {
		t.Fatalf("frequency table: ok=%v err=%v", ok, err)
	}
	if table.Salience != 5 {
		t.Fatalf("expected salience 5, got %v", table.Salience)
	}
	first := table.Table.Rows[0]
	if first["value"].Label != "login" || first["count"].Label != "5" || first["percentage"].Label != "125.0%" {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if first["value"].Background != "rgba(70, 130, 180, 0.80)" {
		t.Fatalf("expected clamped background, got %q", first["value"].Background)
	}
	second := table.Table.Rows[1]
	if second["value"].Label != "search" || second["percentage"].Label != "25.0%" {
		t.Fatalf("unexpected second row: %+v", second)
	}
}

func TestFrequencyTableBoundedByTopN(t *testing.T) {
	entries := map[string][]model.UserID{}
	for i := 0; i < 15; i++ {
		entries[fmt.Sprintf("pcity:c%02d", i)] = userRange(0, i+1)
	}
	ix := newIndex(t, entries)
	cfg := model.DefaultReportConfig()
	table, ok, err := FrequencyTable(ix, groupFor(t, ix, "pcity"), len(ix.Universe()), cfg)
	if err != nil || !ok {
		t.Fatalf("frequency table: ok=%v err=%v", ok, err)
	}
	if len(table.Table.Rows) != cfg.TopN {
		t.Fatalf("expected %d rows, got %d", cfg.TopN, len(table.Table.Rows))
	}
	if table.Table.Rows[0]["value"].Label != "c14" {
		t.Fatalf("expected most common value first, got %+v", table.Table.Rows[0])
	}
}

func TestFrequencyTableEmptyGroup(t *testing.T) {
	ix := newIndex(t, nil)
	_, _, err := FrequencyTable(ix, Group{Key: "px", Label: "X"}, 10, model.DefaultReportConfig())
	if !errors.Is(err, ErrEmptyGroup) {
		t.Fatalf("expected ErrEmptyGroup, got %v", err)
	}
}

func TestFrequencyTableZeroUsers(t *testing.T) {
	ix := newIndex(t, map[string][]model.UserID{"pa:b": {"u1"}})
	_, ok, err := FrequencyTable(ix, groupFor(t, ix, "pa"), 0, model.DefaultReportConfig())
	if err != nil || ok {
		t.Fatalf("expected no table without error, ok=%v err=%v", ok, err)
	}
}
