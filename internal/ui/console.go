package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"deebee/internal/pipeline"
)

// Console writes pipeline progress as styled lines.
type Console struct {
	out     io.Writer
	info    lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
	header  lipgloss.Style
	border  lipgloss.Style
}

// NewConsole returns a reporter writing to out. Colour is dropped when
// color is false.
func NewConsole(out io.Writer, color bool) *Console {
	c := &Console{out: out}
	if !color {
		return c
	}
	r := lipgloss.NewRenderer(out)
	c.info = r.NewStyle().Foreground(lipgloss.Color("39"))
	c.success = r.NewStyle().Foreground(lipgloss.Color("42"))
	c.warn = r.NewStyle().Foreground(lipgloss.Color("214"))
	c.err = r.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	c.header = r.NewStyle().Bold(true)
	c.border = r.NewStyle().Foreground(lipgloss.Color("241"))
	return c
}

func (c *Console) Info(format string, args ...any)    { c.line(c.info, format, args...) }
func (c *Console) Success(format string, args ...any) { c.line(c.success, format, args...) }
func (c *Console) Warn(format string, args ...any)    { c.line(c.warn, format, args...) }
func (c *Console) Error(format string, args ...any)   { c.line(c.err, format, args...) }

func (c *Console) line(style lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(c.out, style.Render(fmt.Sprintf(format, args...)))
}

// Summary prints the end-of-run counters.
func (c *Console) Summary(stats pipeline.RunStats) {
	rows := [][]string{
		{"files", fmt.Sprint(stats.Total)},
		{"processed", fmt.Sprint(stats.Processed())},
		{"renamed", fmt.Sprint(stats.Renamed)},
		{"would rename", fmt.Sprint(stats.DryRun)},
		{"adjusted", fmt.Sprint(stats.Adjusted)},
		{"skipped", fmt.Sprint(stats.Skipped)},
		{"no matches", fmt.Sprint(stats.NoMatches)},
		{"already named", fmt.Sprint(stats.AlreadyNamed)},
		{"failed", fmt.Sprint(stats.Failed)},
	}
	fmt.Fprintln(c.out, c.Table([]string{"Result", "Count"}, rows))
	if stats.Stopped {
		c.Warn("Run stopped before all files were processed.")
	}
}

// Table renders rows under headers with a rounded border.
func (c *Console) Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(c.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return c.header.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	return strings.TrimRight(t.String(), "\n")
}

var _ pipeline.Reporter = (*Console)(nil)
