package presenter

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// ConsoleSink writes each alert as one colored line.
type ConsoleSink struct {
	w        io.Writer
	renderer *lipgloss.Renderer
	prefix   lipgloss.Style
}

// NewConsoleSink creates a sink writing to w, or stdout when w is nil.
// Color output follows the terminal capabilities detected for w.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	r := lipgloss.NewRenderer(w)
	return &ConsoleSink{
		w:        w,
		renderer: r,
		prefix:   r.NewStyle().Bold(true),
	}
}

// Present renders a in its configured color.
func (s *ConsoleSink) Present(ctx context.Context, a Alert) error {
	style := s.renderer.NewStyle()
	if a.Color != "" {
		style = style.Foreground(lipgloss.Color(a.Color))
	}
	line := style.Render(a.Message)
	if a.Source == SourceSystem {
		line = s.prefix.Render("[hiscorewatch]") + " " + line
	}
	if _, err := fmt.Fprintln(s.w, line); err != nil {
		return fmt.Errorf("write alert: %w", err)
	}
	return nil
}
