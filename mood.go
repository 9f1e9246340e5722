package mirasdk

import "fmt"

// Mood is the session-level persona disposition.
type Mood string

const (
	MoodChill      Mood = "chill"
	MoodPlayful    Mood = "playful"
	MoodReflective Mood = "reflective"
)

// AllMoods lists every valid mood in tie-break order.
var AllMoods = []Mood{MoodChill, MoodPlayful, MoodReflective}

// Valid reports whether m belongs to the closed mood set.
func (m Mood) Valid() bool {
	switch m {
	case MoodChill, MoodPlayful, MoodReflective:
		return true
	}
	return false
}

// ParseMood converts a string into a Mood.
func ParseMood(s string) (Mood, error) {
	m := Mood(normalize(s))
	if !m.Valid() {
		return "", fmt.Errorf("unknown mood %q", s)
	}
	return m, nil
}

// ClassifyMood is the stateless classifier: reflective triggers win over
// playful triggers, and no match resets to chill. The previous mood is
// never consulted.
func ClassifyMood(text string, lexicon *Lexicon) Mood {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	lower := normalize(text)
	if _, ok := firstContained(lower, lexicon.ReflectiveTriggers); ok {
		return MoodReflective
	}
	if _, ok := firstContained(lower, lexicon.PlayfulTriggers); ok {
		return MoodPlayful
	}
	return MoodChill
}

// TransitionMood is the legacy hysteresis variant used by the accelerated
// backend. From chill, strong sentiment forces a move and otherwise the
// keyword mood is adopted. Non-chill moods are held until sentiment pushes
// back across the opposite threshold.
func TransitionMood(current, detected Mood, score float64) Mood {
	switch current {
	case MoodPlayful:
		if score < -2 {
			return MoodChill
		}
		if detected == MoodReflective {
			return MoodReflective
		}
		return MoodPlayful
	case MoodReflective:
		if score > 2 {
			return MoodChill
		}
		return MoodReflective
	default:
		if score < -3 {
			return MoodReflective
		}
		if score > 3 {
			return MoodPlayful
		}
		if detected.Valid() {
			return detected
		}
		return MoodChill
	}
}

// DominantMood returns the most frequent mood in counts. Ties resolve in
// AllMoods order; an empty tally is chill.
func DominantMood(counts map[Mood]int) Mood {
	best := MoodChill
	bestCount := 0
	for _, m := range AllMoods {
		if counts[m] > bestCount {
			best = m
			bestCount = counts[m]
		}
	}
	return best
}
