package stats

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/verte-zerg/segstat/internal/features"
	"github.com/verte-zerg/segstat/internal/model"
	"github.com/verte-zerg/segstat/internal/widget"
)

// MinUsers is the holder count a feature must exceed to be compared:
// max(floor, DiffLimit * smallest segment size).
func MinUsers(cfg model.ReportConfig, sizes ...int) float64 {
	if len(sizes) == 0 {
		return float64(cfg.MinUsersFloor)
	}
	smallest := sizes[0]
	for _, s := range sizes[1:] {
		if s < smallest {
			smallest = s
		}
	}
	return math.Max(float64(cfg.MinUsersFloor), cfg.DiffLimit*float64(smallest))
}

// DiffAll compares segment against the rest of the population. segment
// must already be restricted to the source universe. The baseline ratio
// is (holders outside the segment) / (users outside the segment).
func DiffAll(src Source, group Group, segment model.UserSet, cfg model.ReportConfig) Selection {
	segSize := len(segment)
	restSize := len(src.Universe()) - segSize
	sel := NewDiffSelector(cfg.DiffTopN)
	if segSize == 0 || restSize <= 0 {
		return sel.Selection()
	}
	minUsers := MinUsers(cfg, segSize)
	for _, k := range group.Keys {
		t := len(src.Holders(k))
		if float64(t) <= minUsers {
			continue
		}
		s := countIn(src, k, segment)
		sr := float64(s) / float64(segSize)
		tr := float64(t-s) / float64(restSize)
		d := sr - tr
		p := TwoProportionPValue(s, segSize, t-s, restSize)
		if !significant(d, p, cfg) {
			continue
		}
		color := widget.Positive.Scale(d)
		if d < 0 {
			color = widget.Negative.Scale(-d)
		}
		sel.Push(model.DiffRow{
			Diff:          d,
			Key:           k,
			RatioPrimary:  sr,
			RatioBaseline: tr,
			CountPrimary:  s,
			CountBaseline: t - s,
			PValue:        p,
			Color:         color,
		})
	}
	return sel.Selection()
}

// DiffTwo compares two segments. Membership is tested independently, so a
// user in both segments counts in both.
func DiffTwo(src Source, group Group, first, second model.UserSet, cfg model.ReportConfig) Selection {
	size1, size2 := len(first), len(second)
	sel := NewDiffSelector(cfg.DiffTopN)
	if size1 == 0 || size2 == 0 {
		return sel.Selection()
	}
	minUsers := MinUsers(cfg, size1, size2)
	for _, k := range group.Keys {
		if float64(len(src.Holders(k))) <= minUsers {
			continue
		}
		s1 := countIn(src, k, first)
		s2 := countIn(src, k, second)
		r1 := float64(s1) / float64(size1)
		r2 := float64(s2) / float64(size2)
		d := r1 - r2
		p := TwoProportionPValue(s1, size1, s2, size2)
		if !significant(d, p, cfg) {
			continue
		}
		color := widget.First.Scale(r1)
		if d < 0 {
			color = widget.Second.Scale(r2)
		}
		sel.Push(model.DiffRow{
			Diff:          d,
			Key:           k,
			RatioPrimary:  r1,
			RatioBaseline: r2,
			CountPrimary:  s1,
			CountBaseline: s2,
			PValue:        p,
			Color:         color,
		})
	}
	return sel.Selection()
}

func significant(d, p float64, cfg model.ReportConfig) bool {
	if math.Abs(d) <= cfg.DiffLimit {
		return false
	}
	if cfg.MaxPValue > 0 && p > cfg.MaxPValue {
		return false
	}
	return true
}

// TwoProportionPValue is the two-sided pooled z-test p-value for x1/n1 vs x2/n2.
func TwoProportionPValue(x1, n1, x2, n2 int) float64 {
	if n1 <= 0 || n2 <= 0 {
		return 1
	}
	p1 := float64(x1) / float64(n1)
	p2 := float64(x2) / float64(n2)
	pooled := float64(x1+x2) / float64(n1+n2)
	se := math.Sqrt(pooled * (1 - pooled) * (1/float64(n1) + 1/float64(n2)))
	if se == 0 {
		if p1 == p2 {
			return 1
		}
		return 0
	}
	z := math.Abs(p1-p2) / se
	return 2 * distuv.UnitNormal.Survival(z)
}

// DiffTable renders a selection for group. primary and baseline label the
// two compared populations.
func DiffTable(group Group, sel Selection, primary, baseline string) ReportTable {
	rows := make([]widget.Row, 0, len(sel.Head)+len(sel.Tail))
	for _, r := range sel.Rows() {
		rows = append(rows, widget.Row{
			"value":          {Label: features.DisplayLabel(r.Key), Background: r.Color},
			"diff":           {Label: fmt.Sprintf("%.1f", r.Diff*100), Background: r.Color},
			"primary_pct":    {Label: formatPercent(r.RatioPrimary)},
			"primary_count":  {Label: humanize.Comma(int64(r.CountPrimary))},
			"baseline_pct":   {Label: formatPercent(r.RatioBaseline)},
			"baseline_count": {Label: humanize.Comma(int64(r.CountBaseline))},
		})
	}
	table := widget.TableWidget{
		Size:       widget.Size{6, len(rows) + 1},
		Label:      group.Label,
		FixedWidth: true,
		Columns: []widget.Column{
			{Name: "value", Label: group.Label},
			{Name: "diff", Label: "Diff", Width: 60, CellType: "number"},
			{Name: "primary_pct", Label: primary + " %", Width: 90, CellType: "number"},
			{Name: "primary_count", Label: primary, Width: 90, CellType: "number"},
			{Name: "baseline_pct", Label: baseline + " %", Width: 90, CellType: "number"},
			{Name: "baseline_count", Label: baseline, Width: 90, CellType: "number"},
		},
		Rows: rows,
	}
	return ReportTable{Salience: sel.Salience(), GroupKey: group.Key, Table: table}
}
