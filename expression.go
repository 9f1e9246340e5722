package mirasdk

import "strings"

// ──────────────────────────────────────────────
// Expression Mapper & Blender: avatar animation poses
// ──────────────────────────────────────────────

// ExpressionID is a discrete avatar pose.
type ExpressionID string

const (
	ExpressionNeutral   ExpressionID = "neutral"
	ExpressionHappy     ExpressionID = "happy"
	ExpressionSad       ExpressionID = "sad"
	ExpressionSurprised ExpressionID = "surprised"
)

// Fallback constants for keyword-only detection.
const (
	fallbackSadIntensity       = 0.8
	fallbackHappyIntensity     = 0.7
	fallbackSurprisedIntensity = 0.6
	fallbackNeutralIntensity   = 0.5
	fallbackNeutralConfidence  = 0.6
	fallbackKeywordConfidence  = 0.75
)

// ExpressionBlend drives one avatar animation transition.
type ExpressionBlend struct {
	Primary       ExpressionID `json:"primary"`
	Secondary     ExpressionID `json:"secondary"`
	Intensity     float64      `json:"intensity"`
	Confidence    float64      `json:"confidence"`
	BlendStrength float64      `json:"blend_strength"`
}

// NewExpressionBlend clamps intensity and confidence into [0,1] and
// derives BlendStrength.
func NewExpressionBlend(primary, secondary ExpressionID, intensity, confidence float64) ExpressionBlend {
	intensity = clamp01(intensity)
	confidence = clamp01(confidence)
	if secondary == "" {
		secondary = primary
	}
	return ExpressionBlend{
		Primary:       primary,
		Secondary:     secondary,
		Intensity:     intensity,
		Confidence:    confidence,
		BlendStrength: intensity * confidence,
	}
}

// NeutralBlend is the resting pose.
func NeutralBlend() ExpressionBlend {
	return NewExpressionBlend(ExpressionNeutral, ExpressionNeutral, fallbackNeutralIntensity, fallbackNeutralConfidence)
}

// MapExpression maps an emotion or mood category onto an expression id.
// Unknown categories map to neutral.
func MapExpression(category string) ExpressionID {
	c := normalize(category)
	switch {
	case c == "playful" || c == "happy" || c == "positive" || strings.HasPrefix(c, "positive_"):
		return ExpressionHappy
	case c == "reflective" || c == "sad" || c == "negative" || strings.HasPrefix(c, "negative_"):
		return ExpressionSad
	case c == "curious" || c == "confused" || c == "surprised":
		return ExpressionSurprised
	default:
		return ExpressionNeutral
	}
}

// DetectExpressionFallback is the keyword-containment detector. Keyword
// sets are checked in happy, sad, surprised order; secondary mirrors
// primary.
func DetectExpressionFallback(text string, lexicon *Lexicon) ExpressionBlend {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	lower := normalize(text)
	candidates := []struct {
		id        ExpressionID
		keywords  []string
		intensity float64
	}{
		{ExpressionHappy, lexicon.HappyExpression, fallbackHappyIntensity},
		{ExpressionSad, lexicon.SadExpression, fallbackSadIntensity},
		{ExpressionSurprised, lexicon.SurprisedExpression, fallbackSurprisedIntensity},
	}
	for _, c := range candidates {
		if _, ok := firstContained(lower, c.keywords); ok {
			return NewExpressionBlend(c.id, c.id, c.intensity, fallbackKeywordConfidence)
		}
	}
	return NeutralBlend()
}

// ExpressionFrame is one interpolation step between two poses.
type ExpressionFrame struct {
	From       ExpressionID `json:"from"`
	To         ExpressionID `json:"to"`
	FromWeight float64      `json:"from_weight"`
	ToWeight   float64      `json:"to_weight"`
	Dominant   ExpressionID `json:"dominant"`
}

// InterpolateExpression blends linearly from one pose to another. Weights
// are continuous in progress; the dominant pose flips at the midpoint.
func InterpolateExpression(from, to ExpressionID, progress float64) ExpressionFrame {
	p := clamp01(progress)
	dominant := from
	if p >= 0.5 {
		dominant = to
	}
	return ExpressionFrame{From: from, To: to, FromWeight: 1 - p, ToWeight: p, Dominant: dominant}
}

// Weight returns the weight an id carries in the frame.
func (f ExpressionFrame) Weight(id ExpressionID) float64 {
	w := 0.0
	if f.From == id {
		w += f.FromWeight
	}
	if f.To == id {
		w += f.ToWeight
	}
	return w
}

// TriggerTier is the coarse animation trigger strength.
type TriggerTier string

const (
	TriggerSubtle TriggerTier = "subtle"
	TriggerMedium TriggerTier = "medium"
	TriggerStrong TriggerTier = "strong"
)

// TriggerFor buckets an intensity into a trigger tier.
func TriggerFor(intensity float64) TriggerTier {
	switch {
	case intensity > 0.8:
		return TriggerStrong
	case intensity > 0.5:
		return TriggerMedium
	default:
		return TriggerSubtle
	}
}

func clamp01(v float64) float64 {
	if v != v { // NaN
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
