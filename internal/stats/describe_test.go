package stats

import (
	"strings"
	"testing"

	"github.com/verte-zerg/segstat/internal/model"
)

func TestDescribe(t *testing.T) {
	ix := newIndex(t, map[string][]model.UserID{
		"ehlogin":    {"u1"},
		"ellogin":    {"u2", "u3"},
		"pcountry:a": {"u1", "u2", "u3"},
		"pcountry:b": {"u1", "u2", "u3", "u4"},
	})
	s, err := Describe(ix)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if s.Users != 4 || s.Features != 4 || s.Groups != 2 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.MeanHolders != 2.5 || s.MedianHolders != 2.5 || s.MaxHolders != 4 {
		t.Fatalf("unexpected holder stats: %+v", s)
	}
	if !strings.Contains(SummaryWidget(s).Text, "4 features in 2 groups") {
		t.Fatalf("unexpected summary text: %q", SummaryWidget(s).Text)
	}
}

func TestDescribeEmptyIndex(t *testing.T) {
	s, err := Describe(newIndex(t, nil))
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if s.Features != 0 || s.MeanHolders != 0 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}
