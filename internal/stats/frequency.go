package stats

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/verte-zerg/segstat/internal/features"
	"github.com/verte-zerg/segstat/internal/model"
	"github.com/verte-zerg/segstat/internal/widget"
)

// ErrEmptyGroup is returned when a group without keys reaches a table builder.
var ErrEmptyGroup = errors.New("attribute group has no feature keys")

// ReportTable pairs a rendered table with the score used to rank it.
type ReportTable struct {
	Salience float64
	GroupKey string
	Table    widget.TableWidget
}

// ValueCounts sums holder-set sizes per display value. Both frequency
// classes of an event collapse into one value, so a user may be counted twice.
func ValueCounts(src Source, group Group) map[string]int {
	counts := make(map[string]int, len(group.Keys))
	for _, k := range group.Keys {
		counts[features.DisplayValue(k)] += len(src.Holders(k))
	}
	return counts
}

// FrequencyTable ranks the most common values of group across numUsers
// users. ok is false when numUsers is zero.
func FrequencyTable(src Source, group Group, numUsers int, cfg model.ReportConfig) (ReportTable, bool, error) {
	if len(group.Keys) == 0 {
		return ReportTable{}, false, fmt.Errorf("%s: %w", group.Label, ErrEmptyGroup)
	}
	if numUsers <= 0 {
		return ReportTable{}, false, nil
	}
	top := topValues(ValueCounts(src, group), cfg.TopN)
	if len(top) == 0 {
		return ReportTable{}, false, fmt.Errorf("%s: %w", group.Label, ErrEmptyGroup)
	}

	rows := make([]widget.Row, 0, len(top))
	for _, vc := range top {
		ratio := float64(vc.count) / float64(numUsers)
		bg := widget.Neutral.Scale(ratio)
		rows = append(rows, widget.Row{
			"value":      {Label: vc.value, Background: bg},
			"percentage": {Label: formatPercent(ratio), Background: bg},
			"count":      {Label: strconv.Itoa(vc.count), Background: bg},
		})
	}
	table := widget.TableWidget{
		Size:  widget.Size{4, len(rows) + 1},
		Label: group.Label,
		Columns: []widget.Column{
			{Name: "value", Label: group.Label},
			{Name: "percentage", Label: "Users %", Width: 80, CellType: "number"},
			{Name: "count", Label: "Users", Width: 80, CellType: "number"},
		},
		Rows: rows,
	}
	return ReportTable{Salience: float64(top[0].count), GroupKey: group.Key, Table: table}, true, nil
}

func formatPercent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}
