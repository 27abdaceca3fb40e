package render

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText strips markup from a feed summary and collapses whitespace.
// Input that does not parse is returned with whitespace collapsed.
func PlainText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(html), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
