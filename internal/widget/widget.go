// Package widget defines the report widgets handed to the rendering layer.
package widget

import (
	"encoding/json"
	"fmt"
	"io"
)

// Size is a widget's grid footprint as (columns, rows).
type Size [2]int

// Widget is a TextWidget or a TableWidget.
type Widget interface {
	Kind() string
}

// TextWidget carries a header, caption, or notice.
type TextWidget struct {
	Size  Size   `json:"size"`
	Label string `json:"label,omitempty"`
	Head  string `json:"head,omitempty"`
	Text  string `json:"text"`
}

// Kind implements Widget.
func (TextWidget) Kind() string { return "text" }

// Column describes one table column.
type Column struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Width    int    `json:"width,omitempty"`
	CellType string `json:"cell_type,omitempty"`
}

// Cell is one rendered table cell.
type Cell struct {
	Label      string `json:"label"`
	Background string `json:"background,omitempty"`
}

// Row maps column names to cells.
type Row map[string]Cell

// TableWidget is a titled table of ranked rows.
type TableWidget struct {
	Size       Size     `json:"size"`
	Label      string   `json:"label"`
	FixedWidth bool     `json:"fixed_width,omitempty"`
	Columns    []Column `json:"columns"`
	Rows       []Row    `json:"rows"`
}

// Kind implements Widget.
func (TableWidget) Kind() string { return "table" }

type envelope struct {
	Type string `json:"type"`
	Data Widget `json:"data"`
}

// WriteJSON encodes widgets as a JSON array of {type, data} objects.
func WriteJSON(w io.Writer, widgets []Widget) error {
	out := make([]envelope, 0, len(widgets))
	for _, wd := range widgets {
		out = append(out, envelope{Type: wd.Kind(), Data: wd})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode widgets: %w", err)
	}
	return nil
}
