package flows

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/animus-coder/readmeart/internal/catalog"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Bold(true)
	ruleWidth  = 50
)

func banner(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintln(w, strings.Repeat("=", ruleWidth))
}

func rule(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", ruleWidth))
}

// displayModelInfo prints the descriptor of the model that produced a result.
func displayModelInfo(w io.Writer, m catalog.Model) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Selected Model:"), m.Name)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Model ID:"), m.ID)
	fmt.Fprintf(w, "%s %s tokens\n", labelStyle.Render("Context Length:"), humanize.Comma(int64(m.ContextLength)))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Tokenizer:"), m.Tokenizer)
	if desc := m.ShortDescription(); desc != "" {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Description:"), desc)
	}
	fmt.Fprintln(w, "Pricing: FREE!")
	fmt.Fprintln(w)
}

// displayEntry prints one catalog entry for the models listing.
func displayEntry(w io.Writer, e catalog.Entry) {
	fmt.Fprintf(w, "\n%s (%s)\n", labelStyle.Render(e.Name), e.ID)
	if e.Publisher != "" {
		fmt.Fprintf(w, "   Publisher: %s\n", e.Publisher)
	}
	if e.Summary != "" {
		fmt.Fprintf(w, "   Summary: %s\n", e.Summary)
	}
	if e.Registry != "" {
		fmt.Fprintf(w, "   Registry: %s\n", e.Registry)
	}
	if e.Version != "" {
		fmt.Fprintf(w, "   Version: %s\n", e.Version)
	}
	if e.Limits != nil {
		if e.Limits.MaxInputTokens > 0 {
			fmt.Fprintf(w, "   Max Input Tokens: %s\n", humanize.Comma(int64(e.Limits.MaxInputTokens)))
		}
		if e.Limits.MaxOutputTokens > 0 {
			fmt.Fprintf(w, "   Max Output Tokens: %s\n", humanize.Comma(int64(e.Limits.MaxOutputTokens)))
		}
	}
	if len(e.Tags) > 0 {
		fmt.Fprintf(w, "   Tags: %s\n", strings.Join(e.Tags, ", "))
	}
	if len(e.Capabilities) > 0 {
		fmt.Fprintf(w, "   Capabilities: %s\n", strings.Join(e.Capabilities, ", "))
	}
	if e.HTMLURL != "" {
		fmt.Fprintf(w, "   URL: %s\n", e.HTMLURL)
	}
}
