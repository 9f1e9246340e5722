package mirasdk

import (
	"fmt"
	"math"
)

// ──────────────────────────────────────────────
// Sentiment Scorer: bag-of-keywords lexicon scoring
// ──────────────────────────────────────────────

// Emotion is the per-utterance sentiment class.
type Emotion string

const (
	EmotionPositive Emotion = "positive"
	EmotionNegative Emotion = "negative"
	EmotionNeutral  Emotion = "neutral"
)

const (
	keywordWeight       = 2.0
	intensifierFactor   = 1.5
	emotionThreshold    = 2.0
	intensityNormalizer = 5.0
)

// SentimentResult is the scorer output for one utterance.
type SentimentResult struct {
	BaseScore      float64  `json:"base_score"`
	FinalScore     float64  `json:"final_score"`
	PrimaryEmotion Emotion  `json:"primary_emotion"`
	Intensity      float64  `json:"intensity"` // 0.0-1.0
	ContextFactors []string `json:"context_factors"`
}

// SentimentScorer scores text against a positive and a negative keyword set.
// It holds no mutable state: identical text always yields an identical result.
type SentimentScorer struct {
	lexicon *Lexicon
}

// NewSentimentScorer creates a scorer. A nil lexicon uses DefaultLexicon.
func NewSentimentScorer(lexicon *Lexicon) *SentimentScorer {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &SentimentScorer{lexicon: lexicon}
}

// Score runs the lexicon, intensifier and negation rules over text.
// Every keyword contributes at most once, regardless of repetitions.
func (s *SentimentScorer) Score(text string) SentimentResult {
	lower := normalize(text)
	score := 0.0
	factors := []string{}

	for _, kw := range s.lexicon.Positive {
		if kw != "" && containsFold(lower, kw) {
			score += keywordWeight
			factors = append(factors, "positive: "+kw)
		}
	}
	for _, kw := range s.lexicon.Negative {
		if kw != "" && containsFold(lower, kw) {
			score -= keywordWeight
			factors = append(factors, "negative: "+kw)
		}
	}
	return applyModifiers(score, lower, s.lexicon, factors)
}

// applyModifiers applies the intensifier and negation rules to a raw score
// and classifies the result. Shared by both backends so they agree on shape.
func applyModifiers(base float64, lower string, lex *Lexicon, factors []string) SentimentResult {
	score := base
	if kw, ok := firstContained(lower, lex.Intensifiers); ok {
		score *= intensifierFactor
		factors = append(factors, fmt.Sprintf("intensifier: %s (x%.1f)", kw, intensifierFactor))
	}
	if _, ok := firstContained(lower, lex.Negations); ok {
		score = -score
		factors = append(factors, "negation detected")
	}
	// Avoid reporting -0 for a negated empty score.
	if score == 0 {
		score = 0
	}
	return SentimentResult{
		BaseScore:      base,
		FinalScore:     score,
		PrimaryEmotion: classifyEmotion(score),
		Intensity:      scoreIntensity(score),
		ContextFactors: factors,
	}
}

func classifyEmotion(score float64) Emotion {
	switch {
	case score > emotionThreshold:
		return EmotionPositive
	case score < -emotionThreshold:
		return EmotionNegative
	default:
		return EmotionNeutral
	}
}

func scoreIntensity(score float64) float64 {
	return math.Min(math.Abs(score)/intensityNormalizer, 1.0)
}
