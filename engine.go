package mirasdk

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.uber.org/atomic"

	"github.com/cyberFlowTech/mira-sdk-go/persona"
)

// ──────────────────────────────────────────────
// Engine: per-session mood & emotion state
// ──────────────────────────────────────────────

// ErrEmptyInput is returned by callers that require a non-blank utterance.
var ErrEmptyInput = errors.New("empty input")

// EngineConfig controls one session engine.
type EngineConfig struct {
	Namespace          string // persistence namespace, default "default"
	FlushEvery         int    // persist every N mood updates, default 10
	EmotionHistorySize int    // default 10
	MoodHistorySize    int    // default 50
	PersistedHistory   int    // entries kept in the stored profile, default 20
	SnippetRunes       int    // archived text length, default 50
	MaxDisplayMessages int    // chat messages kept for the backend, default 20

	Persona *persona.PersonaSpec // nil uses the built-in persona
	// Lexicon and Humanizer drive the portable fallback; they should match
	// the primary backend. Nil / empty use the defaults.
	Lexicon   *Lexicon
	Humanizer HumanizerConfig
	Rand    RandSource           // offline responses and riddles; nil = deterministic
	Now     func() time.Time
}

// DefaultEngineConfig returns production defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Namespace:          "default",
		FlushEvery:         10,
		EmotionHistorySize: defaultEmotionHistorySize,
		MoodHistorySize:    defaultMoodHistorySize,
		PersistedHistory:   defaultPersistedHistory,
		SnippetRunes:       50,
		MaxDisplayMessages: 20,
		Now:                time.Now,
	}
}

func (c *EngineConfig) fillDefaults() {
	d := DefaultEngineConfig()
	if c.Namespace == "" {
		c.Namespace = d.Namespace
	}
	if c.FlushEvery <= 0 {
		c.FlushEvery = d.FlushEvery
	}
	if c.EmotionHistorySize <= 0 {
		c.EmotionHistorySize = d.EmotionHistorySize
	}
	if c.MoodHistorySize <= 0 {
		c.MoodHistorySize = d.MoodHistorySize
	}
	if c.PersistedHistory <= 0 {
		c.PersistedHistory = d.PersistedHistory
	}
	if c.SnippetRunes <= 0 {
		c.SnippetRunes = d.SnippetRunes
	}
	if c.MaxDisplayMessages <= 0 {
		c.MaxDisplayMessages = d.MaxDisplayMessages
	}
	if c.Now == nil {
		c.Now = d.Now
	}
}

// Analysis is the outcome of one utterance.
type Analysis struct {
	Input        PreprocessedInput `json:"input"`
	Sentiment    SentimentResult   `json:"sentiment"`
	Mood         Mood              `json:"mood"`
	PreviousMood Mood              `json:"previous_mood"`
	Expression   ExpressionBlend   `json:"expression"`
	Trigger      TriggerTier       `json:"trigger"`
	Trendline    *MoodTrendline    `json:"trendline,omitempty"`
	SystemPrompt string            `json:"system_prompt"`
	Backend      string            `json:"backend"`
	Fallbacks    []string          `json:"fallbacks,omitempty"` // operations served by the portable path
}

// Engine owns one conversation session. It is not safe for concurrent
// analysis of the same session; CurrentBlend, TriggerTier and
// UpdateCount may be polled from other goroutines.
type Engine struct {
	backend   AnalysisBackend
	portable  *PortableBackend
	persister *ProfilePersister
	prompt    *PromptBuilder
	config    EngineConfig
	started   time.Time

	mood       Mood
	intensity  float64
	emotions   *Ring[EmotionHistoryEntry]
	moods      *Ring[MoodHistoryEntry]
	moodCounts map[Mood]int
	messages   []ChatMessage

	blend   atomic.Pointer[ExpressionBlend]
	level   atomic.Float64
	updates atomic.Int64
}

// NewEngine creates a session engine. A nil backend selects the portable
// backend; a nil persister keeps the session in memory only.
func NewEngine(backend AnalysisBackend, persister *ProfilePersister, config ...EngineConfig) (*Engine, error) {
	cfg := DefaultEngineConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	cfg.fillDefaults()

	prompt, err := NewPromptBuilder(cfg.Persona)
	if err != nil {
		return nil, fmt.Errorf("mood engine: %w", err)
	}
	portable := NewPortableBackend(cfg.Lexicon, cfg.Rand, cfg.Humanizer)
	if backend == nil {
		backend = portable
	}
	return &Engine{
		backend:    backend,
		portable:   portable,
		persister:  persister,
		prompt:     prompt,
		config:     cfg,
		started:    cfg.Now(),
		mood:       MoodChill,
		emotions:   NewRing[EmotionHistoryEntry](cfg.EmotionHistorySize),
		moods:      NewRing[MoodHistoryEntry](cfg.MoodHistorySize),
		moodCounts: make(map[Mood]int),
	}, nil
}

// Backend returns the selected analysis backend.
func (e *Engine) Backend() AnalysisBackend { return e.backend }

// withFallback runs primary and serves the portable result when it errors
// or panics.
func withFallback[T any](op string, primary func() (T, error), portable func() T, used *[]string) T {
	v, err := safeCall(op, primary)
	if err == nil {
		return v
	}
	log.Printf("[MoodEngine] accelerated %s failed: %v; using portable path", op, err)
	*used = append(*used, op)
	return portable()
}

// Analyze scores text, advances the mood state and caches the expression
// blend. Every value is computed before session state is touched.
func (e *Engine) Analyze(text string) *Analysis {
	var fallbacks []string
	p := e.portable

	input := withFallback("preprocess",
		func() (PreprocessedInput, error) { return e.backend.Preprocess(text) },
		func() PreprocessedInput { return Preprocess(text) }, &fallbacks)

	sentiment := withFallback("score",
		func() (SentimentResult, error) { return e.backend.Score(text) },
		func() SentimentResult { return p.scorer.Score(text) }, &fallbacks)

	mood := withFallback("mood",
		func() (Mood, error) {
			m, err := e.backend.DetectMood(text, e.mood, sentiment)
			if err == nil && !m.Valid() {
				err = fmt.Errorf("invalid mood %q", m)
			}
			return m, err
		},
		func() Mood { return ClassifyMood(text, p.lexicon) }, &fallbacks)

	expr := withFallback("expression",
		func() (ExpressionBlend, error) { return e.backend.DetectExpression(text) },
		func() ExpressionBlend { return DetectExpressionFallback(text, p.lexicon) }, &fallbacks)
	expr = NewExpressionBlend(expr.Primary, expr.Secondary, expr.Intensity, expr.Confidence)

	now := e.config.Now()
	previous := e.mood

	e.emotions.Push(EmotionHistoryEntry{
		TextSnippet:    truncateRunes(text, e.config.SnippetRunes),
		Emotion:        sentiment.PrimaryEmotion,
		Score:          sentiment.FinalScore,
		Intensity:      sentiment.Intensity,
		ContextFactors: sentiment.ContextFactors,
		Timestamp:      now,
	})
	e.recordMood(mood, sentiment, now)
	e.blend.Store(&expr)

	trend, _ := e.CalculateMoodTrendline()
	return &Analysis{
		Input:        input,
		Sentiment:    sentiment,
		Mood:         mood,
		PreviousMood: previous,
		Expression:   expr,
		Trigger:      TriggerFor(sentiment.Intensity),
		Trendline:    trend,
		SystemPrompt: e.BuildSystemPrompt(),
		Backend:      e.backend.Name(),
		Fallbacks:    fallbacks,
	}
}

func (e *Engine) recordMood(mood Mood, sentiment SentimentResult, now time.Time) {
	e.mood = mood
	e.intensity = sentiment.Intensity
	e.level.Store(sentiment.Intensity)
	e.moodCounts[mood]++
	e.moods.Push(MoodHistoryEntry{
		Mood:      mood,
		Emotion:   sentiment.PrimaryEmotion,
		Intensity: sentiment.Intensity,
		Timestamp: now,
	})

	n := e.updates.Inc()
	if e.persister != nil && n%int64(e.config.FlushEvery) == 0 {
		e.persister.SaveAsync(e.config.Namespace, e.Profile())
	}
}

// CurrentMood returns the session mood.
func (e *Engine) CurrentMood() Mood { return e.mood }

// CurrentBlend returns the latest expression blend, neutral before the
// first utterance.
func (e *Engine) CurrentBlend() ExpressionBlend {
	if b := e.blend.Load(); b != nil {
		return *b
	}
	return NeutralBlend()
}

// TriggerTier derives the animation tier from the latest intensity.
func (e *Engine) TriggerTier() TriggerTier { return TriggerFor(e.level.Load()) }

// UpdateCount returns the number of mood updates so far.
func (e *Engine) UpdateCount() int64 { return e.updates.Load() }

// EmotionHistory returns the archived emotions, oldest first.
func (e *Engine) EmotionHistory() []EmotionHistoryEntry { return e.emotions.Slice() }

// MoodHistory returns the in-memory mood history, oldest first.
func (e *Engine) MoodHistory() []MoodHistoryEntry { return e.moods.Slice() }

// DominantMood returns the most frequent mood of the session.
func (e *Engine) DominantMood() Mood { return DominantMood(e.moodCounts) }

// CalculateMoodTrendline returns false with fewer than three mood updates.
func (e *Engine) CalculateMoodTrendline() (*MoodTrendline, bool) {
	return CalculateMoodTrendline(e.moods.Last(trendWindow))
}

// BuildSystemPrompt renders the persona core plus the current mood section.
func (e *Engine) BuildSystemPrompt() string {
	trend, _ := e.CalculateMoodTrendline()
	ctx := PromptContext{
		Mood:           e.mood,
		Intensity:      e.intensity,
		RecentEmotions: e.emotions.Last(promptRecentEmotions),
		Trendline:      trend,
	}
	if e.moods.Len() > 0 {
		ctx.DominantMood = e.DominantMood()
	}
	return e.prompt.Build(ctx)
}

// Humanize de-formalizes a generated reply.
func (e *Engine) Humanize(text string) string {
	var ignored []string
	return withFallback("humanize",
		func() (string, error) { return e.backend.Humanize(text) },
		func() string { return e.portable.humanizer.Humanize(text) }, &ignored)
}

// OfflineResponse returns the canned text for a failed backend call.
func (e *Engine) OfflineResponse() string { return OfflineResponse(e.config.Rand) }

// Riddle returns a mini-game riddle.
func (e *Engine) Riddle() Riddle { return PickRiddle(e.config.Rand) }

// Profile snapshots the session for persistence.
func (e *Engine) Profile() MoodProfile {
	trend, _ := e.CalculateMoodTrendline()
	now := e.config.Now()
	return MoodProfile{
		History:         e.moods.Last(e.config.PersistedHistory),
		Trendline:       trend,
		DominantMood:    e.DominantMood(),
		SessionLengthMs: now.Sub(e.started).Milliseconds(),
		LastUpdated:     now,
	}
}

// Restore seeds the session from the stored profile. It reports whether a
// profile was applied; any failure leaves the session empty.
func (e *Engine) Restore(ctx context.Context) bool {
	if e.persister == nil {
		return false
	}
	profile, ok := e.persister.Load(ctx, e.config.Namespace)
	if !ok {
		return false
	}
	e.moods.Reset()
	e.moodCounts = make(map[Mood]int)
	for _, h := range profile.History {
		e.moods.Push(h)
		e.moodCounts[h.Mood]++
	}
	if n := len(profile.History); n > 0 {
		last := profile.History[n-1]
		e.mood = last.Mood
		e.intensity = last.Intensity
		e.level.Store(last.Intensity)
	}
	log.Printf("[MoodEngine] Restored profile for ns=%s (%d entries)", e.config.Namespace, len(profile.History))
	return true
}

// Close writes a final profile snapshot behind any queued flushes and
// releases the backend.
func (e *Engine) Close(ctx context.Context) error {
	if e.persister != nil && e.updates.Load() > 0 {
		if err := e.persister.SaveOrdered(ctx, e.config.Namespace, e.Profile()); err != nil {
			log.Printf("[MoodEngine] Final flush failed for ns=%s: %v", e.config.Namespace, err)
		}
	}
	return e.backend.Close()
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
