package mirasdk

const (
	trendWindow     = 5
	trendMinEntries = 3
)

// MoodTrendline summarizes the recent mood history.
type MoodTrendline struct {
	Trend           Emotion `json:"trend"`
	AvgIntensity    float64 `json:"avg_intensity"`
	DominantEmotion Emotion `json:"dominant_emotion"`
}

// CalculateMoodTrendline derives a trendline from the newest five entries.
// It returns false when fewer than three entries exist.
func CalculateMoodTrendline(history []MoodHistoryEntry) (*MoodTrendline, bool) {
	if len(history) < trendMinEntries {
		return nil, false
	}
	window := history
	if len(window) > trendWindow {
		window = window[len(window)-trendWindow:]
	}

	sum := 0.0
	counts := make(map[Emotion]int, 3)
	order := make([]Emotion, 0, 3)
	for _, e := range window {
		sum += e.Intensity
		if _, seen := counts[e.Emotion]; !seen {
			order = append(order, e.Emotion)
		}
		counts[e.Emotion]++
	}
	avg := sum / float64(len(window))

	// Strict > keeps the first-encountered emotion on ties.
	dominant := order[0]
	for _, em := range order[1:] {
		if counts[em] > counts[dominant] {
			dominant = em
		}
	}

	trend := EmotionNeutral
	switch {
	case avg > 0.6:
		trend = EmotionPositive
	case avg < 0.3:
		trend = EmotionNegative
	}

	return &MoodTrendline{
		Trend:           trend,
		AvgIntensity:    avg,
		DominantEmotion: dominant,
	}, true
}
