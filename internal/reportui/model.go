// Package reportui provides a Bubble Tea pager over report widgets.
package reportui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/segstat/internal/render"
	"github.com/verte-zerg/segstat/internal/widget"
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

type page struct {
	title   string
	widgets []widget.Widget
}

// Model implements the Bubble Tea report pager. The first page holds the
// text widgets; every table gets a page of its own.
type Model struct {
	pages    []page
	active   int
	viewport viewport.Model
	color    bool
	errMsg   string

	width  int
	height int
}

// NewModel builds a pager over widgets.
func NewModel(widgets []widget.Widget, color bool) *Model {
	return &Model{
		pages:    paginate(widgets),
		viewport: viewport.New(0, 0),
		color:    color,
	}
}

func paginate(widgets []widget.Widget) []page {
	overview := page{title: "Overview"}
	var tables []page
	for _, wd := range widgets {
		if t, ok := wd.(widget.TableWidget); ok {
			tables = append(tables, page{title: t.Label, widgets: []widget.Widget{t}})
			continue
		}
		overview.widgets = append(overview.widgets, wd)
	}
	return append([]page{overview}, tables...)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderPage()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.movePage(-1)
			return m, nil
		case "right", "l":
			m.movePage(1)
			return m, nil
		case "g", "home":
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderNav(), m.width, headerHeight)
	body := fitLines(m.viewport.View(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = lipgloss.Height(activeNavStyle.Render("X"))
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.viewport.Width = m.width
	m.viewport.Height = bodyHeight
}

func (m *Model) movePage(delta int) {
	count := len(m.pages)
	if count == 0 {
		return
	}
	m.active = (m.active + delta + count) % count
	m.renderPage()
	m.viewport.GotoTop()
}

func (m *Model) renderPage() {
	var buf bytes.Buffer
	err := render.Write(&buf, m.pages[m.active].widgets, render.Options{Width: m.width, Color: m.color})
	if err != nil {
		m.errMsg = err.Error()
	} else {
		m.errMsg = ""
	}
	m.viewport.SetContent(buf.String())
}

func (m *Model) renderNav() string {
	p := m.pages[m.active]
	return activeNavStyle.Render(fmt.Sprintf("%d/%d  %s", m.active+1, len(m.pages), p.title))
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Top/bottom: g/G  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
