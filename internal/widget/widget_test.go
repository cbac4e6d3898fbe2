package widget

import (
	"bytes"
	"strings"
	"testing"
)

func TestScaleClampsIntensity(t *testing.T) {
	if got := Positive.Scale(0.95); got != "rgba(44, 160, 44, 0.80)" {
		t.Fatalf("unexpected clamped color: %q", got)
	}
	if got := Negative.Scale(-0.2); got != "rgba(214, 39, 40, 0.00)" {
		t.Fatalf("unexpected negative clamp: %q", got)
	}
}

func TestParseRGBA(t *testing.T) {
	c, a, ok := ParseRGBA(First.Scale(0.25))
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if c != First || a != 0.25 {
		t.Fatalf("unexpected parse result: %+v %v", c, a)
	}
	if _, _, ok := ParseRGBA("blue"); ok {
		t.Fatalf("expected parse failure")
	}
}

func TestWriteJSONIsStable(t *testing.T) {
	widgets := []Widget{
		TextWidget{Size: Size{12, 1}, Text: "hello"},
		TableWidget{
			Size:    Size{4, 4},
			Label:   "Event",
			Columns: []Column{{Name: "value", Label: "Value"}, {Name: "count", Label: "Users", CellType: "number"}},
			Rows:    []Row{{"value": {Label: "login"}, "count": {Label: "3"}}},
		},
	}
	var a, b bytes.Buffer
	if err := WriteJSON(&a, widgets); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if err := WriteJSON(&b, widgets); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if a.String() != b.String() {
		t.Fatalf("expected identical output")
	}
	if !strings.Contains(a.String(), `"cell_type": "number"`) {
		t.Fatalf("expected cell_type column field in %s", a.String())
	}
	if !strings.Contains(a.String(), `"type": "table"`) {
		t.Fatalf("expected table envelope in %s", a.String())
	}
}
