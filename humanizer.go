package mirasdk

import (
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// ──────────────────────────────────────────────
// Response Humanizer: formal→casual post-processing
// ──────────────────────────────────────────────

// RandSource is the randomness the humanizer and offline responses draw
// from. *rand.Rand satisfies it; tests inject a fixed source.
type RandSource interface {
	Float64() float64
	Intn(n int) int
}

// NewRandSource returns a time-seeded source that is safe for concurrent use.
func NewRandSource() RandSource {
	return &lockedRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// PhraseReplacement is one formal→casual substitution.
type PhraseReplacement struct {
	Formal string `yaml:"formal" json:"formal"`
	Casual string `yaml:"casual" json:"casual"`
}

// HumanizerConfig controls response humanization.
type HumanizerConfig struct {
	Replacements      []PhraseReplacement // applied in order, case-insensitive
	MaxSentences      int                 // default 3, 0=disabled
	FillerProbability float64             // default 0.1
	Fillers           []string
}

// DefaultHumanizerConfig returns the built-in Indonesian casual style.
func DefaultHumanizerConfig() HumanizerConfig {
	return HumanizerConfig{
		Replacements: []PhraseReplacement{
			{"Saya memahami", "Aku ngerti"},
			{"Saya mengerti", "Iya paham"},
			{"Apakah ada", "Ada"},
			{"Terima kasih telah", "Oke sip"},
			{"Saya akan", "Aku bakal"},
			{"Saya bisa", "Aku bisa"},
			{"Maaf jika", "Sorry kalau"},
			{"Silakan", "Coba"},
			{"Mohon", "Tolong"},
		},
		MaxSentences:      3,
		FillerProbability: 0.1,
		// No sentence delimiters here, the sentence cap must survive the prefix.
		Fillers: []string{"hmm, ", "eh iya, ", "btw, ", "oh iya, "},
	}
}

// minReplacePasses is the floor of the substitution loop bound. A pass can
// expose a new formal phrase ("Apakah Apakah ada" → "Apakah Ada"), so the
// bound also grows with the input length.
const minReplacePasses = 8

type compiledReplacement struct {
	re     *regexp.Regexp
	casual string
}

// Humanizer de-formalizes generated replies.
type Humanizer struct {
	config HumanizerConfig
	rules  []compiledReplacement
	rng    RandSource
}

// NewHumanizer compiles the replacement table. A nil rng disables fillers.
func NewHumanizer(rng RandSource, config ...HumanizerConfig) *Humanizer {
	cfg := DefaultHumanizerConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	rules := make([]compiledReplacement, 0, len(cfg.Replacements))
	for _, r := range cfg.Replacements {
		if r.Formal == "" {
			continue
		}
		rules = append(rules, compiledReplacement{
			re:     regexp.MustCompile("(?i)" + regexp.QuoteMeta(r.Formal)),
			casual: r.Casual,
		})
	}
	return &Humanizer{config: cfg, rules: rules, rng: rng}
}

// Humanize replaces formal phrases, keeps at most MaxSentences sentences
// and occasionally prepends a filler.
func (h *Humanizer) Humanize(text string) string {
	result := h.ReplaceFormal(text)
	result = TruncateSentences(result, h.config.MaxSentences)

	if h.rng != nil && len(h.config.Fillers) > 0 && h.rng.Float64() < h.config.FillerProbability {
		result = h.config.Fillers[h.rng.Intn(len(h.config.Fillers))] + result
	}
	return strings.TrimSpace(result)
}

// ReplaceFormal applies the substitution table until no formal phrase is left.
func (h *Humanizer) ReplaceFormal(text string) string {
	result := text
	limit := minReplacePasses + utf8.RuneCountInString(text)
	for pass := 0; pass < limit; pass++ {
		changed := false
		for _, r := range h.rules {
			if r.re.MatchString(result) {
				result = r.re.ReplaceAllLiteralString(result, r.casual)
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return result
}

// ContainsFormal reports whether any configured formal phrase remains.
func (h *Humanizer) ContainsFormal(text string) bool {
	for _, r := range h.rules {
		if r.re.MatchString(text) {
			return true
		}
	}
	return false
}

// TruncateSentences keeps the first max sentence segments delimited by
// '.', '!' or '?'. Text with max or fewer segments is returned unchanged.
func TruncateSentences(text string, max int) string {
	if max <= 0 {
		return text
	}
	segments := SplitSentences(text)
	if len(segments) <= max {
		return text
	}
	kept := make([]string, max)
	for i, s := range segments[:max] {
		kept[i] = strings.TrimSpace(s)
	}
	return strings.Join(kept, ". ") + "."
}

// SplitSentences splits on sentence delimiters and drops blank segments.
func SplitSentences(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
