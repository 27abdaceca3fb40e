package render

import (
	"fmt"
	"io"
	"strings"

	"market-pulse/internal/interfaces"
	"market-pulse/internal/types"
)

const NoMatchMessage = "No direct company match found for this news item."

// TextRenderer writes styled, human-readable output
type TextRenderer struct {
	w      io.Writer
	styles Styles
}

var _ interfaces.Display = (*TextRenderer)(nil)

func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w, styles: NewStyles(w)}
}

func (t *TextRenderer) Header(q types.FeedQuery) error {
	_, err := fmt.Fprintf(t.w, "%s\n%s\n\n",
		t.styles.Banner.Render("Market Pulse"),
		t.styles.Muted.Render(fmt.Sprintf("Showing latest finance & stock market news from Google News (last %s) for %q.", q.When, q.Text)),
	)
	return err
}

func (t *TextRenderer) Item(r types.Result) error {
	s := t.styles
	var b strings.Builder

	b.WriteString(s.Title.Render(r.Headline.Title) + "\n")
	if r.Headline.Link != "" {
		b.WriteString(s.Link.Render(r.Headline.Link) + "\n")
	}
	if meta := publishedLine(r.Headline); meta != "" {
		b.WriteString(s.Muted.Render(meta) + "\n")
	}
	if summary := PlainText(r.Headline.Summary); summary != "" {
		b.WriteString(s.Body.Render(summary) + "\n")
	}

	if r.Match != nil {
		b.WriteString(s.Company.Render("Detected Company: "+CompanyLine(r.Match)) + "\n")
	}

	switch r.Status {
	case types.StatusMatched:
		if r.Fundamentals != nil {
			b.WriteString(s.Box.Render(t.fundamentals(r.Fundamentals)) + "\n")
		}
	case types.StatusSoftFailure:
		b.WriteString(s.Error.Render(r.Message) + "\n")
	case types.StatusUnavailable:
		b.WriteString(s.Info.Render(r.Message) + "\n")
	case types.StatusNoMatch:
		b.WriteString(s.Info.Render(NoMatchMessage) + "\n")
	}

	b.WriteString(s.Divider.Render(strings.Repeat("─", 60)) + "\n")
	_, err := io.WriteString(t.w, b.String())
	return err
}

func (t *TextRenderer) fundamentals(rec *types.FundamentalsRecord) string {
	fields := rec.Fields()
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, t.styles.Label.Render(f.Label+":")+" "+f.Value)
	}
	return strings.Join(lines, "\n")
}

func (t *TextRenderer) Warning(msg string) error {
	_, err := fmt.Fprintln(t.w, t.styles.Warning.Render(msg))
	return err
}

func (t *TextRenderer) Footer(s types.RunSummary) error {
	if s.Headlines == 0 {
		return nil
	}
	_, err := fmt.Fprintln(t.w, t.styles.Muted.Render(fmt.Sprintf(
		"%d headlines: %d matched, %d no match, %d rate limited, %d unavailable",
		s.Headlines, s.Matched, s.NoMatch, s.SoftFailures, s.Unavailable,
	)))
	return err
}

// CompanyLine renders "Name (TICKER) — Region", omitting an absent region
func CompanyLine(m *types.CompanyMatch) string {
	line := fmt.Sprintf("%s (%s)", m.DisplayName, m.Ticker)
	if m.Region != "" {
		line += " — " + m.Region
	}
	return line
}

func publishedLine(h types.Headline) string {
	var parts []string
	if h.PublishedAt != nil {
		parts = append(parts, "Published: "+h.PublishedAt.Format("2006-01-02 15:04"))
	}
	if h.Source != "" {
		parts = append(parts, "Source: "+h.Source)
	}
	return strings.Join(parts, "  ")
}
