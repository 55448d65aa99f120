// Package report renders harness results for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/radekholy24/dnf-extra-tests/internal/harness"
)

// Theme defines the styles and icons used for rendering.
type Theme struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Pass    string
	Fail    string
}

// DefaultTheme returns the colored theme used on terminals.
func DefaultTheme() Theme {
	return Theme{
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),  // green
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // red
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("242")), // gray
		Bold:    lipgloss.NewStyle().Bold(true),
		Pass:    "✓",
		Fail:    "✗",
	}
}

// PlainTheme returns an uncolored ASCII theme for piped output.
func PlainTheme() Theme {
	return Theme{
		Success: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle(),
		Bold:    lipgloss.NewStyle(),
		Pass:    "PASS",
		Fail:    "FAIL",
	}
}

// Renderer writes harness results grouped by feature and scenario.
type Renderer struct {
	theme Theme
}

// New creates a renderer with the given theme.
func New(theme Theme) *Renderer {
	return &Renderer{theme: theme}
}

// Render writes the results and returns the number of failed checks.
func (r *Renderer) Render(w io.Writer, results []harness.Result) int {
	failed := 0
	var feature, sc string
	var elapsed time.Duration

	for _, result := range results {
		if result.Feature != feature {
			feature = result.Feature
			fmt.Fprintln(w, r.theme.Bold.Render(feature))
			sc = ""
		}
		if result.Scenario != sc {
			sc = result.Scenario
			fmt.Fprintf(w, "  %s\n", sc)
		}

		elapsed += result.Duration
		if result.Passed() {
			fmt.Fprintf(w, "    %s %s %s\n",
				r.theme.Success.Render(r.theme.Pass),
				result.Check,
				r.theme.Muted.Render(formatDuration(result.Duration)))
			continue
		}
		failed++
		fmt.Fprintf(w, "    %s %s: %v\n",
			r.theme.Error.Render(r.theme.Fail),
			result.Check,
			result.Err)
	}

	fmt.Fprintln(w, r.summary(len(results), failed, elapsed))
	return failed
}

func (r *Renderer) summary(total, failed int, elapsed time.Duration) string {
	var sb strings.Builder
	sb.WriteString("\n")
	if failed == 0 {
		sb.WriteString(r.theme.Success.Render(
			fmt.Sprintf("%d checks passed", total)))
	} else {
		sb.WriteString(r.theme.Error.Render(
			fmt.Sprintf("%d of %d checks failed", failed, total)))
	}
	sb.WriteString(r.theme.Muted.Render(" in " + formatDuration(elapsed)))
	return sb.String()
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second / 10).String()
}
