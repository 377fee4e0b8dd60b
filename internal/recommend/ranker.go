package recommend

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"studyhub/internal/document"
)

const (
	// MinScore is the relevance floor. Matches at or below it are dropped.
	MinScore = 0.2
	// MaxResults caps the number of matches returned by Rank.
	MaxResults = 5
	// SnippetLength is the number of characters of content kept in a snippet.
	SnippetLength = 120

	snippetEllipsis = "..."
)

// ScoredMatch is a candidate document scored against a target.
type ScoredMatch struct {
	DocumentID string
	Title      string
	Similarity float64
	Snippet    string
}

// Rank scores candidates against target and returns the best matches, best first.
// A target without a usable embedding yields no matches.
func Rank(target document.Document, candidates []document.Document) []ScoredMatch {
	if !target.Usable() {
		return []ScoredMatch{}
	}

	matches := make([]ScoredMatch, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == target.ID || c.OwnerID != target.OwnerID || !c.Usable() {
			continue
		}
		score := CosineSimilarity(target.Embedding, c.Embedding)
		if math.IsNaN(score) || score <= MinScore {
			continue
		}
		matches = append(matches, ScoredMatch{
			DocumentID: c.ID,
			Title:      c.Title,
			Similarity: score,
			Snippet:    Snippet(c.Content),
		})
	}

	// Stable so that equal scores keep repository order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > MaxResults {
		matches = matches[:MaxResults]
	}
	return matches
}

// Snippet returns the first SnippetLength characters of content, trimmed,
// with an ellipsis appended when content was longer.
func Snippet(content string) string {
	if utf8.RuneCountInString(content) <= SnippetLength {
		return strings.TrimSpace(content)
	}

	n := 0
	for i := range content {
		if n == SnippetLength {
			return strings.TrimSpace(content[:i]) + snippetEllipsis
		}
		n++
	}
	return strings.TrimSpace(content)
}
