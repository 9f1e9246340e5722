package persona

import "unicode/utf8"

// RuneCount returns the number of runes in a string.
func RuneCount(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate cuts s to at most max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	if max <= 0 || RuneCount(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
