package stats

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/segstat/internal/model"
	"github.com/verte-zerg/segstat/internal/widget"
)

// DefaultBaselineLabel names the rest of the population in single-segment mode.
const DefaultBaselineLabel = "all other users"

// UnsupportedSegmentCountError is returned for comparisons with zero or
// more than two segments.
type UnsupportedSegmentCountError struct {
	Count int
}

func (e *UnsupportedSegmentCountError) Error() string {
	return fmt.Sprintf("unsupported segment count %d: compare one or two segments", e.Count)
}

// SegmentInfo selects comparison mode. Segment names are the display labels.
type SegmentInfo struct {
	Segments []model.Segment
}

// BuildReport runs the engine over src. A nil info produces the
// single-population frequency report.
func BuildReport(src Source, info *SegmentInfo, cfg model.ReportConfig) ([]widget.Widget, error) {
	groups := GroupKeys(src.Keys())
	universe := src.Universe()

	var header widget.TextWidget
	var build func(Group) (ReportTable, bool, error)
	if info == nil {
		header = statsHeader(len(universe))
		build = func(g Group) (ReportTable, bool, error) {
			return FrequencyTable(src, g, len(universe), cfg)
		}
	} else {
		switch len(info.Segments) {
		case 1:
			seg := restrict(info.Segments[0].Users, universe)
			label := info.Segments[0].Name
			header = comparisonHeader(label, DefaultBaselineLabel, false)
			build = func(g Group) (ReportTable, bool, error) {
				sel := DiffAll(src, g, seg, cfg)
				if sel.Empty() {
					return ReportTable{}, false, nil
				}
				return DiffTable(g, sel, label, DefaultBaselineLabel), true, nil
			}
		case 2:
			first := restrict(info.Segments[0].Users, universe)
			second := restrict(info.Segments[1].Users, universe)
			l1, l2 := info.Segments[0].Name, info.Segments[1].Name
			header = comparisonHeader(l1, l2, true)
			build = func(g Group) (ReportTable, bool, error) {
				sel := DiffTwo(src, g, first, second, cfg)
				if sel.Empty() {
					return ReportTable{}, false, nil
				}
				return DiffTable(g, sel, l1, l2), true, nil
			}
		default:
			return nil, &UnsupportedSegmentCountError{Count: len(info.Segments)}
		}
	}

	tables, err := buildTables(groups, cfg.Workers, build)
	if err != nil {
		return nil, err
	}
	return Assemble(header, tables, cfg.MaxTables), nil
}

// Assemble orders tables by salience, truncates to maxTables, and appends a
// notice when tables were dropped.
func Assemble(header widget.TextWidget, tables []ReportTable, maxTables int) []widget.Widget {
	sorted := make([]ReportTable, len(tables))
	copy(sorted, tables)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Salience != b.Salience {
			return a.Salience > b.Salience
		}
		if a.Table.Label != b.Table.Label {
			return a.Table.Label < b.Table.Label
		}
		return a.GroupKey < b.GroupKey
	})

	total := len(sorted)
	truncated := maxTables > 0 && total > maxTables
	if truncated {
		sorted = sorted[:maxTables]
	}

	out := make([]widget.Widget, 0, len(sorted)+2)
	out = append(out, header)
	for _, t := range sorted {
		out = append(out, t.Table)
	}
	if truncated {
		out = append(out, widget.TextWidget{
			Size: widget.Size{12, 1},
			Text: fmt.Sprintf("Showing only the %d most characteristic properties out of %d properties in total.", maxTables, total),
		})
	}
	return out
}

func buildTables(groups []Group, workers int, build func(Group) (ReportTable, bool, error)) ([]ReportTable, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]*ReportTable, len(groups))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, grp := range groups {
		g.Go(func() error {
			table, ok, err := build(grp)
			if err != nil {
				return fmt.Errorf("failed to build table for %s: %w", grp.Label, err)
			}
			if ok {
				results[i] = &table
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	tables := make([]ReportTable, 0, len(results))
	for _, t := range results {
		if t != nil {
			tables = append(tables, *t)
		}
	}
	return tables, nil
}

func restrict(users, universe model.UserSet) model.UserSet {
	out := make(model.UserSet, len(users))
	for id := range users {
		if universe.Has(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

func statsHeader(numUsers int) widget.TextWidget {
	return widget.TextWidget{
		Size: widget.Size{12, 2},
		Head: "Most common events and properties",
		Text: fmt.Sprintf("Share of all %s users holding each value. Add a segment to compare it against everyone else.", humanize.Comma(int64(numUsers))),
	}
}

func comparisonHeader(primary, baseline string, twoSegments bool) widget.TextWidget {
	legend := fmt.Sprintf("Green values are more common in %s, red values are more common among %s.", primary, baseline)
	if twoSegments {
		legend = fmt.Sprintf("Blue values are more common in %s, orange values are more common in %s.", primary, baseline)
	}
	return widget.TextWidget{
		Size: widget.Size{12, 2},
		Head: fmt.Sprintf("%s vs. %s", primary, baseline),
		Text: legend + " Diff is the difference in percentage points.",
	}
}
