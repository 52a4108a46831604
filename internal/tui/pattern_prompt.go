package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrPromptCancelled = errors.New("prompt cancelled")

// PreviewFunc renders a sample timestamp with the pattern typed so far.
type PreviewFunc func(pattern string) (string, error)

// PatternPromptModel edits a custom timestamp pattern with a live preview.
type PatternPromptModel struct {
	title    string
	help     string
	input    textinput.Model
	preview  PreviewFunc
	value    string
	done     bool
	canceled bool

	sample    string
	errorText string
}

func NewPatternPromptModel(title, help, initial string, preview PreviewFunc) PatternPromptModel {
	ti := textinput.New()
	ti.Placeholder = "%Y-%m-%d %H:%M"
	ti.Prompt = "> "
	ti.SetValue(initial)
	ti.Focus()
	ti.CharLimit = 128
	ti.Width = 50

	m := PatternPromptModel{
		title:   title,
		help:    help,
		input:   ti,
		preview: preview,
	}
	m.refresh()
	return m
}

func (m *PatternPromptModel) refresh() {
	m.sample, m.errorText = "", ""
	if m.preview == nil {
		return
	}
	out, err := m.preview(m.input.Value())
	if err != nil {
		m.errorText = err.Error()
		return
	}
	m.sample = out
}

func (m PatternPromptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m PatternPromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			m.done = true
			return m, tea.Quit
		case "enter":
			if strings.TrimSpace(m.input.Value()) == "" {
				m.errorText = "Pattern is required."
				return m, nil
			}
			if m.errorText != "" {
				return m, nil
			}
			m.value = m.input.Value()
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refresh()
	return m, cmd
}

func (m PatternPromptModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(inputStyle.Render(m.input.View()))
	b.WriteString("\n\n")
	switch {
	case m.errorText != "":
		b.WriteString(errorStyle.Render("  " + m.errorText))
	case m.sample != "":
		b.WriteString(dimStyle.Render("  Preview: "))
		b.WriteString(previewStyle.Render(m.sample))
	}
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(m.help))
	b.WriteString("\n")
	return b.String()
}

// Value is the accepted pattern; empty until enter is pressed on a valid one.
func (m PatternPromptModel) Value() string {
	return m.value
}

// RunPatternPrompt asks for a timestamp pattern, previewing it as it is typed.
func RunPatternPrompt(title, help, initial string, preview PreviewFunc) (string, error) {
	model := NewPatternPromptModel(title, help, initial, preview)
	p := tea.NewProgram(model)
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}
	result := finalModel.(PatternPromptModel)
	if result.canceled {
		return "", ErrPromptCancelled
	}
	return result.value, nil
}
