package utils

import (
	"strings"
	"unicode"
)

// EstimateTokens approximates the token count of mixed Korean/English text.
// Hangul is roughly 2 characters per token, Latin roughly 4. This is a
// character-count heuristic, not a real tokenizer.
func EstimateTokens(text string) int {
	hangul := 0
	other := 0
	for _, r := range text {
		if unicode.Is(unicode.Hangul, r) {
			hangul++
		} else {
			other++
		}
	}
	return hangul/2 + other/4 + 1
}

// TruncateToTokenBudget cuts text so its estimated token count stays under
// budget, breaking at a rune boundary.
func TruncateToTokenBudget(text string, budget int) string {
	if budget <= 0 || EstimateTokens(text) <= budget {
		return text
	}

	runes := []rune(text)
	// Binary search for the longest prefix under budget
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if EstimateTokens(string(runes[:mid])) <= budget {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return string(runes[:lo])
}

// StripLeadingSymbols drops a leading run of emoji/symbols/punctuation so
// titles like "📌 회의록" sort by their first real character. Mirrors the
// regexp_replace used in the title-sort query.
func StripLeadingSymbols(title string) string {
	return strings.TrimLeftFunc(title, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
