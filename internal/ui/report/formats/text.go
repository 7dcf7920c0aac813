package formats

import (
	"bufio"
	"ccheck/internal/engine/report"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	findingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24"))

	totalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))
)

type TextOptions struct {
	// Styled colours headers and findings. Only set it for terminals.
	Styled bool
}

// WriteText prints every rule section of rep: a title line, one line per
// diagnostic, "Total: N" and the rule's summary if it has one.
func WriteText(w io.Writer, rep report.Report, opts TextOptions) error {
	render := func(style lipgloss.Style, text string) string {
		if !opts.Styled {
			return text
		}
		return style.Render(text)
	}

	bw := bufio.NewWriter(w)
	for _, res := range rep.Results {
		fmt.Fprintf(bw, "\n%s\n", render(titleStyle, res.Title+":"))
		for _, d := range res.Diagnostics {
			fmt.Fprintln(bw, render(findingStyle, d.Message))
		}
		fmt.Fprintln(bw, render(totalStyle, fmt.Sprintf("Total: %d", res.Total)))
		if res.Summary != "" {
			fmt.Fprintln(bw, render(totalStyle, res.Summary))
		}
	}
	return bw.Flush()
}
