package resolver

import (
	"context"
	"iter"
	"regexp"
	"strings"
)

// A capital letter followed by lowercase letters approximates a proper noun.
var properNoun = regexp.MustCompile(`[A-Z][a-z]+`)

// Extractor turns headline text into upper-cased ticker candidates
type Extractor struct {
	minLength int
	stopwords map[string]bool
}

// NewExtractor keeps tokens of at least minLength letters that are not stopwords
func NewExtractor(minLength int, stopwords []string) *Extractor {
	sw := make(map[string]bool, len(stopwords))
	for _, w := range stopwords {
		sw[strings.ToUpper(strings.TrimSpace(w))] = true
	}
	return &Extractor{minLength: minLength, stopwords: sw}
}

// Extract returns candidates in first-seen order without duplicates
func (e *Extractor) Extract(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, tok := range properNoun.FindAllString(text, -1) {
		if len(tok) < e.minLength {
			continue
		}
		c := strings.ToUpper(tok)
		if seen[c] || e.stopwords[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// ExtractCandidates applies only the length filter
func ExtractCandidates(text string, minLength int) []string {
	return NewExtractor(minLength, nil).Extract(text)
}

// Symbols yields CANDIDATE+suffix for every candidate, suffixes varying fastest
func Symbols(candidates, suffixes []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, c := range candidates {
			for _, s := range suffixes {
				if !yield(c + strings.ToUpper(s)) {
					return
				}
			}
		}
	}
}

// firstMatch pulls symbols until try accepts one. Nothing after the accepted
// symbol is pulled, and a cancelled ctx ends the search.
func firstMatch[T any](ctx context.Context, seq iter.Seq[string], try func(context.Context, string) (T, bool)) (string, T, bool) {
	for sym := range seq {
		if ctx.Err() != nil {
			break
		}
		if v, ok := try(ctx, sym); ok {
			return sym, v, true
		}
	}
	var zero T
	return "", zero, false
}
