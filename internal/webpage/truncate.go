package webpage

import (
	"strings"
	"unicode/utf8"
)

// TruncationMarker is appended to any text shortened by TruncateAtBoundary.
const TruncationMarker = "[Content truncated...]"

const (
	// minRetainedFraction guards paragraph and sentence cuts: a boundary
	// below this share of the budget discards too much to be worth it.
	minRetainedFraction = 0.7
	// minWordFraction is the stricter guard for word-boundary cuts.
	minWordFraction = 0.8
)

// TruncateAtBoundary bounds text to roughly maxChars characters, preferring
// to cut at a paragraph, then sentence, then word boundary before falling
// back to a hard cut. The budget is a target, not a hard cap: the trimmed
// result plus the truncation marker may slightly exceed it.
func TruncateAtBoundary(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	truncated := string(runes[:maxChars])

	// Paragraph boundary.
	if i := strings.LastIndex(truncated, "\n\n"); i != -1 && retained(truncated, i, maxChars, minRetainedFraction) {
		return strings.TrimSpace(truncated[:i]) + "\n\n" + TruncationMarker
	}

	// Sentence boundary: rightmost of ". ", "! ", "? ", cut after the
	// punctuation mark.
	last := -1
	for _, sep := range []string{". ", "! ", "? "} {
		if i := strings.LastIndex(truncated, sep); i > last {
			last = i
		}
	}
	if last != -1 && retained(truncated, last, maxChars, minRetainedFraction) {
		return strings.TrimSpace(truncated[:last+1]) + "\n\n" + TruncationMarker
	}

	// Word boundary.
	if i := strings.LastIndex(truncated, " "); i != -1 && retained(truncated, i, maxChars, minWordFraction) {
		return strings.TrimSpace(truncated[:i]) + "...\n\n" + TruncationMarker
	}

	// Hard cut.
	return strings.TrimSpace(truncated) + "...\n\n" + TruncationMarker
}

// retained reports whether the boundary at byte offset i keeps at least
// fraction of the maxChars character budget.
func retained(text string, i, maxChars int, fraction float64) bool {
	return float64(utf8.RuneCountInString(text[:i])) >= fraction*float64(maxChars)
}
