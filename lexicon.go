package mirasdk

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ──────────────────────────────────────────────
// Lexicon: keyword sets shared by both analysis backends
// ──────────────────────────────────────────────

// Lexicon holds every keyword set the analysis backends match against.
// Slices are ordered so context factors come out in a stable order.
type Lexicon struct {
	Positive     []string `yaml:"positive"`
	Negative     []string `yaml:"negative"`
	Intensifiers []string `yaml:"intensifiers"`
	Negations    []string `yaml:"negations"`

	ReflectiveTriggers []string `yaml:"reflective_triggers"`
	PlayfulTriggers    []string `yaml:"playful_triggers"`

	HappyExpression     []string `yaml:"happy_expression"`
	SadExpression       []string `yaml:"sad_expression"`
	SurprisedExpression []string `yaml:"surprised_expression"`

	// Weighted is the per-token dictionary used by the accelerated backend.
	Weighted map[string]int `yaml:"weighted"`
}

// DefaultLexicon returns the built-in Indonesian chat lexicon.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Positive: []string{
			"senang", "happy", "haha", "wkwk", "lucu",
			"mantap", "seru", "asik", "keren", "gokil",
		},
		Negative: []string{
			"sedih", "galau", "stress", "capek", "lelah",
			"bingung", "takut", "khawatir", "down", "nangis",
		},
		Intensifiers: []string{"banget", "bgt", "sangat", "parah", "sekali", "really", "very"},
		// "tak" is left out on purpose: it is a prefix of "takut".
		Negations: []string{"tidak", "gak", "ngga", "bukan", "jangan", "not", "never"},

		ReflectiveTriggers: []string{
			"sedih", "galau", "stress", "capek", "lelah", "bingung",
			"takut", "khawatir", "depresi", "putus", "gagal", "susah",
		},
		PlayfulTriggers: []string{
			"lucu", "haha", "wkwk", "joke", "bercanda", "main",
			"game", "seru", "asik", "tebak", "cerita",
		},

		HappyExpression:     []string{"senang", "haha", "wkwk", "lucu", "mantap", "seru"},
		SadExpression:       []string{"sedih", "galau", "down", "nangis"},
		SurprisedExpression: []string{"wow", "gila", "astaga", "serius", "beneran"},

		Weighted: map[string]int{
			"senang": 2, "happy": 2, "haha": 1, "wkwk": 1, "lucu": 1,
			"mantap": 2, "seru": 1, "asik": 1, "keren": 1, "gokil": 1,
			"sedih": -2, "galau": -2, "stress": -2, "capek": -1, "lelah": -1,
			"bingung": -1, "takut": -2, "khawatir": -1, "down": -2, "nangis": -2,
		},
	}
}

// LoadLexicon reads a YAML lexicon file and merges it over DefaultLexicon.
// Sets present in the file replace the default set entirely.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	var override Lexicon
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	lex := DefaultLexicon()
	lex.merge(&override)
	return lex, nil
}

func (l *Lexicon) merge(o *Lexicon) {
	replace := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = append([]string(nil), src...)
		}
	}
	replace(&l.Positive, o.Positive)
	replace(&l.Negative, o.Negative)
	replace(&l.Intensifiers, o.Intensifiers)
	replace(&l.Negations, o.Negations)
	replace(&l.ReflectiveTriggers, o.ReflectiveTriggers)
	replace(&l.PlayfulTriggers, o.PlayfulTriggers)
	replace(&l.HappyExpression, o.HappyExpression)
	replace(&l.SadExpression, o.SadExpression)
	replace(&l.SurprisedExpression, o.SurprisedExpression)
	if len(o.Weighted) > 0 {
		l.Weighted = make(map[string]int, len(o.Weighted))
		for k, v := range o.Weighted {
			l.Weighted[k] = v
		}
	}
}

// Validate reports whether the lexicon can drive the accelerated backend.
func (l *Lexicon) Validate() error {
	if l == nil {
		return fmt.Errorf("lexicon is nil")
	}
	if len(l.Weighted) == 0 {
		return fmt.Errorf("weighted dictionary is empty")
	}
	if len(l.ReflectiveTriggers) == 0 || len(l.PlayfulTriggers) == 0 {
		return fmt.Errorf("mood trigger sets must not be empty")
	}
	return nil
}

// firstContained returns the first keyword that appears in text.
func firstContained(text string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		if kw != "" && containsFold(text, kw) {
			return kw, true
		}
	}
	return "", false
}

// countContained returns how many keywords appear in text.
func countContained(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if kw != "" && containsFold(text, kw) {
			n++
		}
	}
	return n
}
