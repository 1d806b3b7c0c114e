package commands

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/facto/internal/ui/style"
)

// palette holds the styles of one output stream.
type palette struct {
	ok   lipgloss.Style
	warn lipgloss.Style
	fail lipgloss.Style
	id   lipgloss.Style
	dim  lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	return palette{
		ok:   r.NewStyle().Foreground(style.Green),
		warn: r.NewStyle().Foreground(style.Yellow),
		fail: r.NewStyle().Foreground(style.Red),
		id:   r.NewStyle().Foreground(style.Iris).Bold(true),
		dim:  r.NewStyle().Foreground(style.Slate),
	}
}

// firstLine shortens a multi-line handle to its first line.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}

func maxWidth(values []string) int {
	w := 0
	for _, v := range values {
		w = max(w, lipgloss.Width(v))
	}
	return w
}
