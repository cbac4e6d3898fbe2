package stats

import (
	"fmt"

	"github.com/dustin/go-humanize"
	mstats "github.com/montanaflynn/stats"

	"github.com/verte-zerg/segstat/internal/widget"
)

// IndexSummary describes the shape of a feature index.
type IndexSummary struct {
	Users         int
	Features      int
	Groups        int
	MeanHolders   float64
	MedianHolders float64
	P90Holders    float64
	MaxHolders    float64
}

// Describe computes holder-count statistics across all features of src.
func Describe(src Source) (IndexSummary, error) {
	keys := src.Keys()
	summary := IndexSummary{
		Users:    len(src.Universe()),
		Features: len(keys),
		Groups:   len(GroupKeys(keys)),
	}
	if len(keys) == 0 {
		return summary, nil
	}
	holders := make(mstats.Float64Data, 0, len(keys))
	for _, k := range keys {
		holders = append(holders, float64(len(src.Holders(k))))
	}

	var err error
	if summary.MeanHolders, err = holders.Mean(); err != nil {
		return IndexSummary{}, fmt.Errorf("failed to compute mean: %w", err)
	}
	if summary.MedianHolders, err = holders.Median(); err != nil {
		return IndexSummary{}, fmt.Errorf("failed to compute median: %w", err)
	}
	if summary.P90Holders, err = holders.Percentile(90); err != nil {
		return IndexSummary{}, fmt.Errorf("failed to compute p90: %w", err)
	}
	if summary.MaxHolders, err = holders.Max(); err != nil {
		return IndexSummary{}, fmt.Errorf("failed to compute max: %w", err)
	}
	return summary, nil
}

// SummaryWidget renders s as a text widget.
func SummaryWidget(s IndexSummary) widget.TextWidget {
	return widget.TextWidget{
		Size: widget.Size{12, 2},
		Head: "Feature index",
		Text: fmt.Sprintf(
			"%s users, %s features in %d groups. Users per feature: mean %.1f, median %.1f, p90 %.1f, max %.0f.",
			humanize.Comma(int64(s.Users)),
			humanize.Comma(int64(s.Features)),
			s.Groups,
			s.MeanHolders,
			s.MedianHolders,
			s.P90Holders,
			s.MaxHolders,
		),
	}
}
