package render

import (
	"encoding/json"
	"io"

	"market-pulse/internal/interfaces"
	"market-pulse/internal/types"
)

type jsonDocument struct {
	Query   types.FeedQuery  `json:"query"`
	Results []types.Result   `json:"results"`
	Warning string           `json:"warning,omitempty"`
	Summary types.RunSummary `json:"summary"`
}

// JSONRenderer buffers the pass and writes one document on Footer
type JSONRenderer struct {
	w   io.Writer
	doc jsonDocument
}

var _ interfaces.Display = (*JSONRenderer)(nil)

func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{w: w}
}

func (j *JSONRenderer) Header(q types.FeedQuery) error {
	j.doc = jsonDocument{Query: q, Results: []types.Result{}}
	return nil
}

func (j *JSONRenderer) Item(r types.Result) error {
	r.Headline.Summary = PlainText(r.Headline.Summary)
	j.doc.Results = append(j.doc.Results, r)
	return nil
}

func (j *JSONRenderer) Warning(msg string) error {
	j.doc.Warning = msg
	return nil
}

func (j *JSONRenderer) Footer(s types.RunSummary) error {
	j.doc.Summary = s
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(j.doc)
}
