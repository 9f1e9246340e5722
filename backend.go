package mirasdk

import (
	"errors"
	"fmt"
	"log"
	"strings"
)

// ──────────────────────────────────────────────
// AnalysisBackend: strategy shared by the accelerated and portable paths
// ──────────────────────────────────────────────

// ErrBackendUnavailable is returned when a backend cannot serve calls.
var ErrBackendUnavailable = errors.New("analysis backend unavailable")

// AnalysisBackend is one implementation of the analysis pipeline. Both
// implementations return the same shapes; their values may differ.
type AnalysisBackend interface {
	Name() string
	Preprocess(text string) (PreprocessedInput, error)
	Score(text string) (SentimentResult, error)
	// DetectMood returns the next mood. Implementations may ignore current.
	DetectMood(text string, current Mood, sentiment SentimentResult) (Mood, error)
	DetectExpression(text string) (ExpressionBlend, error)
	Humanize(text string) (string, error)
	Close() error
}

// BackendOptions configures SelectBackend.
type BackendOptions struct {
	Accelerated bool
	Lexicon     *Lexicon
	Rand        RandSource
	Humanizer   HumanizerConfig
}

// SelectBackend detects at runtime whether the accelerated backend can be
// built and falls back to the portable backend when it cannot.
func SelectBackend(opts BackendOptions) AnalysisBackend {
	if opts.Lexicon == nil {
		opts.Lexicon = DefaultLexicon()
	}
	if opts.Accelerated {
		acc, err := NewAcceleratedBackend(opts.Lexicon, opts.Rand, AcceleratedConfig{Humanizer: opts.Humanizer})
		if err == nil {
			return acc
		}
		log.Printf("[MoodEngine] accelerated backend unavailable: %v; using portable path", err)
	}
	return NewPortableBackend(opts.Lexicon, opts.Rand, opts.Humanizer)
}

// ──────────────────────────────────────────────
// PortableBackend: always-available reference implementation
// ──────────────────────────────────────────────

// PortableBackend runs the plain keyword algorithms. It never fails.
type PortableBackend struct {
	lexicon   *Lexicon
	scorer    *SentimentScorer
	humanizer *Humanizer
}

// NewPortableBackend creates the portable backend. A nil lexicon uses
// DefaultLexicon; an empty humanizer config uses DefaultHumanizerConfig.
func NewPortableBackend(lexicon *Lexicon, rng RandSource, humanizer ...HumanizerConfig) *PortableBackend {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &PortableBackend{
		lexicon:   lexicon,
		scorer:    NewSentimentScorer(lexicon),
		humanizer: NewHumanizer(rng, humanizerConfigOrDefault(humanizer)),
	}
}

func humanizerConfigOrDefault(cfgs []HumanizerConfig) HumanizerConfig {
	if len(cfgs) > 0 && len(cfgs[0].Replacements) > 0 {
		return cfgs[0]
	}
	return DefaultHumanizerConfig()
}

func (p *PortableBackend) Name() string { return "portable" }

func (p *PortableBackend) Preprocess(text string) (PreprocessedInput, error) {
	return Preprocess(text), nil
}

func (p *PortableBackend) Score(text string) (SentimentResult, error) {
	return p.scorer.Score(text), nil
}

// DetectMood is stateless: current and sentiment are ignored.
func (p *PortableBackend) DetectMood(text string, _ Mood, _ SentimentResult) (Mood, error) {
	return ClassifyMood(text, p.lexicon), nil
}

func (p *PortableBackend) DetectExpression(text string) (ExpressionBlend, error) {
	return DetectExpressionFallback(text, p.lexicon), nil
}

func (p *PortableBackend) Humanize(text string) (string, error) {
	return p.humanizer.Humanize(text), nil
}

func (p *PortableBackend) Close() error { return nil }

// Humanizer exposes the compiled humanizer (used for contract checks).
func (p *PortableBackend) Humanizer() *Humanizer { return p.humanizer }

// safeCall runs fn and converts a panic into an error.
func safeCall[T any](op string, fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panic: %v", op, r)
		}
	}()
	return fn()
}

func cleanupWhitespace(s string) string {
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}
