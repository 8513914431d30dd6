package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"deebee/internal/media"
	"deebee/internal/pipeline"
)

var (
	pickerTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	pickerCursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	pickerSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	pickerHelpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type pickerKeys struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Skip   key.Binding
	Stop   key.Binding
}

func defaultPickerKeys() pickerKeys {
	return pickerKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Skip:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "skip")),
		Stop:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "stop")),
	}
}

func (k pickerKeys) help() string {
	var parts []string
	for _, b := range []key.Binding{k.Up, k.Down, k.Select, k.Skip, k.Stop} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

// pickerModel is the bubbletea model behind TUIChooser.
type pickerModel struct {
	file     string
	matches  []media.Metadata
	cursor   int
	keys     pickerKeys
	decision pipeline.Decision
	done     bool
}

func newPickerModel(file string, matches []media.Metadata) pickerModel {
	return pickerModel{
		file:     file,
		matches:  matches,
		keys:     defaultPickerKeys(),
		decision: pipeline.StopRun(),
	}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.matches)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Select):
		if len(m.matches) == 0 {
			m.decision = pipeline.SkipFile()
		} else {
			m.decision = pipeline.Selected(m.cursor)
		}
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Skip):
		m.decision = pipeline.SkipFile()
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Stop):
		m.decision = pipeline.StopRun()
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m pickerModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render("Select a match for "+filepath.Base(m.file)) + "\n\n")
	for i, match := range m.matches {
		line := fmt.Sprintf("%2d. %s", i+1, match.DisplayText())
		if i == m.cursor {
			b.WriteString(pickerCursorStyle.Render("> ") + pickerSelectedStyle.Render(line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("\n" + pickerHelpStyle.Render(m.keys.help()) + "\n")
	return b.String()
}

// TUIChooser picks matches from an inline terminal list.
type TUIChooser struct {
	in  io.Reader
	out io.Writer
}

// NewTUIChooser returns a picker reading keys from in and drawing to out.
func NewTUIChooser(in io.Reader, out io.Writer) *TUIChooser {
	return &TUIChooser{in: in, out: out}
}

// Choose implements pipeline.Chooser.
func (c *TUIChooser) Choose(ctx context.Context, file string, matches []media.Metadata) (pipeline.Decision, error) {
	p := tea.NewProgram(newPickerModel(file, matches),
		tea.WithInput(c.in),
		tea.WithOutput(c.out),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, tea.ErrProgramKilled) {
			return pipeline.StopRun(), ctx.Err()
		}
		return pipeline.Decision{}, fmt.Errorf("running picker: %w", err)
	}

	m, ok := final.(pickerModel)
	if !ok {
		return pipeline.Decision{}, fmt.Errorf("unexpected picker model %T", final)
	}
	return m.decision, nil
}
