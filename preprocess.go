package mirasdk

import (
	"html"
	"strings"
	"unicode"
)

// PreprocessedInput is the normalized form of one user utterance.
type PreprocessedInput struct {
	Sanitized string   `json:"sanitized"` // trimmed, HTML-escaped original casing
	Cleaned   string   `json:"cleaned"`   // trimmed, lowercased
	Tokens    []string `json:"tokens"`
	WordCount int      `json:"word_count"`
}

// Preprocess case-folds, trims and tokenizes text on whitespace and
// punctuation. Empty input yields an empty token slice.
func Preprocess(text string) PreprocessedInput {
	trimmed := strings.TrimSpace(text)
	cleaned := strings.ToLower(trimmed)
	tokens := strings.FieldsFunc(cleaned, isTokenSeparator)
	if tokens == nil {
		tokens = []string{}
	}
	return PreprocessedInput{
		Sanitized: html.EscapeString(trimmed),
		Cleaned:   cleaned,
		Tokens:    tokens,
		WordCount: len(tokens),
	}
}

func isTokenSeparator(r rune) bool {
	// Hyphens stay inside tokens so reduplicated words ("bener-bener") survive.
	if r == '-' || r == '\'' {
		return false
	}
	return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// normalize is the shared case-fold + trim step used by every matcher.
func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// containsFold reports whether kw occurs in text, ignoring case.
func containsFold(text, kw string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(kw))
}
