package interfaces

import "market-pulse/internal/types"

// Display is the output surface for one display pass.
// Header is called first and Footer last; between them come either
// Items in feed order or a single Warning.
type Display interface {
	Header(q types.FeedQuery) error
	Item(r types.Result) error
	Warning(msg string) error
	Footer(s types.RunSummary) error
}
