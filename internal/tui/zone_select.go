package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ishaan812/spendlog/internal/zones"
)

var ErrSelectionCancelled = errors.New("zone selection cancelled")

const defaultVisibleZones = 10

// ZoneSelection is the result of the zone picker.
type ZoneSelection struct {
	Zone      zones.ZoneEntry
	Cancelled bool
}

type zoneItem struct {
	zone zones.ZoneEntry
	rank string // empty for suggestions
}

// ZoneSelectModel is the Bubbletea model for picking a zone by search.
type ZoneSelectModel struct {
	catalog *zones.Catalog
	current string
	input   textinput.Model
	items   []zoneItem
	cursor  int
	visible int

	width  int
	height int

	result ZoneSelection
	done   bool
}

// NewZoneSelectModel creates a picker over catalog. current is highlighted
// when it appears in the list.
func NewZoneSelectModel(catalog *zones.Catalog, current, query string) ZoneSelectModel {
	ti := textinput.New()
	ti.Placeholder = "city or region, e.g. dhaka"
	ti.Prompt = "> "
	ti.SetValue(query)
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 40

	m := ZoneSelectModel{
		catalog: catalog,
		current: current,
		input:   ti,
		visible: defaultVisibleZones,
	}
	m.refresh()
	return m
}

type zoneKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Quit  key.Binding
}

// Letter keys are left to the search input.
var zoneKeys = zoneKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "move down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "choose"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "cancel"),
	),
}

func (m *ZoneSelectModel) refresh() {
	query := m.input.Value()
	m.items = nil
	if strings.TrimSpace(query) == "" {
		for _, z := range zones.Suggestions(m.catalog, 0) {
			m.items = append(m.items, zoneItem{zone: z})
		}
	} else {
		for _, r := range zones.Search(query, m.catalog, 0) {
			m.items = append(m.items, zoneItem{zone: r.Zone, rank: r.Rank.String()})
		}
	}
	if m.cursor >= len(m.items) {
		m.cursor = max(len(m.items)-1, 0)
	}
}

func (m ZoneSelectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ZoneSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// title, input, help and padding take roughly eight lines
		m.visible = max(msg.Height-8, 3)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, zoneKeys.Quit):
			m.result.Cancelled = true
			m.done = true
			return m, tea.Quit

		case key.Matches(msg, zoneKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, zoneKeys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, zoneKeys.Enter):
			if len(m.items) == 0 {
				return m, nil
			}
			m.result.Zone = m.items[m.cursor].zone
			m.done = true
			return m, tea.Quit
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.cursor = 0
		m.refresh()
	}
	return m, cmd
}

func (m ZoneSelectModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Choose a timezone"))
	b.WriteString("\n")
	b.WriteString(inputStyle.Render(m.input.View()))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(dimStyle.Render("  No matching zones."))
		b.WriteString("\n")
	}

	start := 0
	if m.cursor >= m.visible {
		start = m.cursor - m.visible + 1
	}
	end := min(start+m.visible, len(m.items))
	for i := start; i < end; i++ {
		item := m.items[i]
		cursor := "  "
		if m.cursor == i {
			cursor = "▸ "
		}

		label := item.zone.Display()
		if item.zone.Identifier == m.current {
			label = currentStyle.Render(label + " (current)")
		}
		line := cursor + label
		if item.rank != "" {
			line += " " + rankStyle.Render(item.rank)
		}

		if m.cursor == i {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(normalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	if end < len(m.items) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  … %d more", len(m.items)-end)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("type to search • ↑/↓: navigate • enter: choose • esc: cancel"))
	b.WriteString("\n")
	return b.String()
}

// Result returns the selection result
func (m ZoneSelectModel) Result() ZoneSelection {
	return m.result
}

// Done returns whether selection is complete
func (m ZoneSelectModel) Done() bool {
	return m.done
}

// RunZoneSelection runs the interactive zone picker.
func RunZoneSelection(catalog *zones.Catalog, current, query string) (*zones.ZoneEntry, error) {
	model := NewZoneSelectModel(catalog, current, query)

	p := tea.NewProgram(model)
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	result := finalModel.(ZoneSelectModel).Result()
	if result.Cancelled {
		return nil, ErrSelectionCancelled
	}
	return &result.Zone, nil
}
