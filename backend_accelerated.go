package mirasdk

import (
	"fmt"
	"html"
	"math"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ──────────────────────────────────────────────
// AcceleratedBackend: weighted dictionary, mood cache, hysteresis
// ──────────────────────────────────────────────

// AcceleratedConfig tunes the accelerated backend.
type AcceleratedConfig struct {
	CacheSize int // keyword-mood cache entries, default 1024
	Humanizer HumanizerConfig
}

// DefaultAcceleratedConfig returns production defaults.
func DefaultAcceleratedConfig() AcceleratedConfig {
	return AcceleratedConfig{
		CacheSize: 1024,
		Humanizer: DefaultHumanizerConfig(),
	}
}

// AcceleratedBackend scores whole tokens against a weighted dictionary,
// memoizes keyword moods and applies the legacy hysteresis transition.
// One instance may be shared between engines; the cache is guarded.
type AcceleratedBackend struct {
	lexicon   *Lexicon
	humanizer *Humanizer
	cacheSize int

	mu     sync.Mutex
	cache  map[uint64]Mood
	closed bool
}

// NewAcceleratedBackend validates the lexicon and builds the backend.
// It returns ErrBackendUnavailable when the lexicon cannot drive it.
func NewAcceleratedBackend(lexicon *Lexicon, rng RandSource, config ...AcceleratedConfig) (*AcceleratedBackend, error) {
	cfg := DefaultAcceleratedConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 1024
	}
	if len(cfg.Humanizer.Replacements) == 0 {
		cfg.Humanizer = DefaultHumanizerConfig()
	}
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	if err := lexicon.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return &AcceleratedBackend{
		lexicon:   lexicon,
		humanizer: NewHumanizer(rng, cfg.Humanizer),
		cacheSize: cfg.CacheSize,
		cache:     make(map[uint64]Mood),
	}, nil
}

func (a *AcceleratedBackend) Name() string { return "accelerated" }

func (a *AcceleratedBackend) checkOpen() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrBackendUnavailable
	}
	return nil
}

// Preprocess escapes HTML and splits on whitespace only.
func (a *AcceleratedBackend) Preprocess(text string) (PreprocessedInput, error) {
	if err := a.checkOpen(); err != nil {
		return PreprocessedInput{}, err
	}
	trimmed := strings.TrimSpace(text)
	cleaned := strings.ToLower(trimmed)
	tokens := strings.Fields(cleaned)
	if tokens == nil {
		tokens = []string{}
	}
	return PreprocessedInput{
		Sanitized: html.EscapeString(trimmed),
		Cleaned:   cleaned,
		Tokens:    tokens,
		WordCount: len(tokens),
	}, nil
}

// rawScore sums dictionary weights over whitespace tokens. Repeated tokens
// count every time; each word is reported once as a factor.
func (a *AcceleratedBackend) rawScore(lower string) (float64, []string) {
	score := 0
	factors := []string{}
	seen := make(map[string]bool)
	for _, tok := range strings.Fields(lower) {
		w, ok := a.lexicon.Weighted[tok]
		if !ok {
			continue
		}
		score += w
		if seen[tok] {
			continue
		}
		seen[tok] = true
		if w > 0 {
			factors = append(factors, "positive: "+tok)
		} else if w < 0 {
			factors = append(factors, "negative: "+tok)
		}
	}
	return float64(score), factors
}

func (a *AcceleratedBackend) Score(text string) (SentimentResult, error) {
	if err := a.checkOpen(); err != nil {
		return SentimentResult{}, err
	}
	lower := normalize(text)
	base, factors := a.rawScore(lower)
	return applyModifiers(base, lower, a.lexicon, factors), nil
}

// DetectMood classifies by sentiment first, then by cached keyword mood,
// and runs the result through TransitionMood against current.
func (a *AcceleratedBackend) DetectMood(text string, current Mood, sentiment SentimentResult) (Mood, error) {
	if err := a.checkOpen(); err != nil {
		return "", err
	}
	lower := normalize(text)
	detected := a.keywordMood(lower)
	switch {
	case sentiment.FinalScore < -2:
		detected = MoodReflective
	case sentiment.FinalScore > 2:
		detected = MoodPlayful
	}
	if !current.Valid() {
		current = MoodChill
	}
	return TransitionMood(current, detected, sentiment.FinalScore), nil
}

func (a *AcceleratedBackend) keywordMood(lower string) Mood {
	key := xxhash.Sum64String(lower)
	a.mu.Lock()
	if m, ok := a.cache[key]; ok {
		a.mu.Unlock()
		return m
	}
	a.mu.Unlock()

	m := ClassifyMood(lower, a.lexicon)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return m
	}
	if len(a.cache) >= a.cacheSize {
		a.cache = make(map[uint64]Mood)
	}
	a.cache[key] = m
	return m
}

// CacheLen returns the number of memoized keyword moods.
func (a *AcceleratedBackend) CacheLen() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.cache)
}

// DetectExpression fuses the dictionary score with keyword hit counts.
func (a *AcceleratedBackend) DetectExpression(text string) (ExpressionBlend, error) {
	if err := a.checkOpen(); err != nil {
		return ExpressionBlend{}, err
	}
	lower := normalize(text)
	score, _ := a.rawScore(lower)

	hits := map[ExpressionID]int{
		ExpressionHappy:     countContained(lower, a.lexicon.HappyExpression),
		ExpressionSad:       countContained(lower, a.lexicon.SadExpression),
		ExpressionSurprised: countContained(lower, a.lexicon.SurprisedExpression),
	}
	order := []ExpressionID{ExpressionHappy, ExpressionSad, ExpressionSurprised}

	primary := ExpressionNeutral
	switch {
	case score >= 3:
		primary = ExpressionHappy
	case score <= -3:
		primary = ExpressionSad
	default:
		for _, id := range order {
			if hits[id] > 0 {
				primary = id
				break
			}
		}
	}
	if primary == ExpressionNeutral {
		return NeutralBlend(), nil
	}

	secondary := primary
	best := 0
	for _, id := range order {
		if id != primary && hits[id] > best {
			secondary, best = id, hits[id]
		}
	}

	magnitude := math.Min(math.Abs(score)/intensityNormalizer, 1.0)
	intensity := 0.2 + 0.6*magnitude + math.Min(0.15*float64(hits[primary]), 0.45)

	confidence := 0.55 + 0.1*float64(hits[primary])
	if (primary == ExpressionHappy && score > 0) || (primary == ExpressionSad && score < 0) {
		confidence += 0.25
	}
	return NewExpressionBlend(primary, secondary, intensity, confidence), nil
}

func (a *AcceleratedBackend) Humanize(text string) (string, error) {
	if err := a.checkOpen(); err != nil {
		return "", err
	}
	return cleanupWhitespace(a.humanizer.Humanize(text)), nil
}

// Close drops the cache; later calls return ErrBackendUnavailable.
func (a *AcceleratedBackend) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	a.cache = nil
	return nil
}
