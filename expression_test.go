package mirasdk

import (
	"math"
	"testing"
)

func TestMapExpression(t *testing.T) {
	tests := map[string]ExpressionID{
		"chill":          ExpressionNeutral,
		"neutral":        ExpressionNeutral,
		"default":        ExpressionNeutral,
		"something-else": ExpressionNeutral,
		"playful":        ExpressionHappy,
		"happy":          ExpressionHappy,
		"positive_high":  ExpressionHappy,
		"reflective":     ExpressionSad,
		"sad":            ExpressionSad,
		"negative_low":   ExpressionSad,
		"curious":        ExpressionSurprised,
		"confused":       ExpressionSurprised,
		"Surprised":      ExpressionSurprised,
	}
	for in, want := range tests {
		if got := MapExpression(in); got != want {
			t.Errorf("%q: expected %s, got %s", in, want, got)
		}
	}
}

func TestDetectExpressionFallback(t *testing.T) {
	tests := []struct {
		text      string
		primary   ExpressionID
		intensity float64
		conf      float64
	}{
		{"aku lagi stress banget dan sedih", ExpressionSad, 0.8, 0.75},
		{"wkwk lucu banget main game yuk", ExpressionHappy, 0.7, 0.75},
		{"wow beneran?", ExpressionSurprised, 0.6, 0.75},
		{"oke", ExpressionNeutral, 0.5, 0.6},
	}
	for _, tt := range tests {
		b := DetectExpressionFallback(tt.text, nil)
		if b.Primary != tt.primary || b.Secondary != tt.primary {
			t.Errorf("%q: expected %s/%s, got %s/%s", tt.text, tt.primary, tt.primary, b.Primary, b.Secondary)
		}
		if b.Intensity != tt.intensity || b.Confidence != tt.conf {
			t.Errorf("%q: expected %v/%v, got %v/%v", tt.text, tt.intensity, tt.conf, b.Intensity, b.Confidence)
		}
		if math.Abs(b.BlendStrength-tt.intensity*tt.conf) > 1e-9 {
			t.Errorf("%q: blend strength %v != intensity*confidence", tt.text, b.BlendStrength)
		}
	}
}

func TestNewExpressionBlend_Clamps(t *testing.T) {
	cases := [][2]float64{{-1, 2}, {1.7, -0.3}, {math.NaN(), 0.5}, {math.Inf(1), math.Inf(-1)}}
	for _, c := range cases {
		b := NewExpressionBlend(ExpressionHappy, "", c[0], c[1])
		for _, v := range []float64{b.Intensity, b.Confidence, b.BlendStrength} {
			if v < 0 || v > 1 || math.IsNaN(v) {
				t.Fatalf("value out of [0,1] for input %v: %+v", c, b)
			}
		}
		if b.Secondary != ExpressionHappy {
			t.Fatalf("empty secondary should mirror primary, got %s", b.Secondary)
		}
	}
}

func TestInterpolateExpression(t *testing.T) {
	start := InterpolateExpression(ExpressionNeutral, ExpressionHappy, 0)
	if start.Weight(ExpressionNeutral) != 1 || start.Dominant != ExpressionNeutral {
		t.Fatalf("progress 0 should be the from pose, got %+v", start)
	}
	end := InterpolateExpression(ExpressionNeutral, ExpressionHappy, 1)
	if end.Weight(ExpressionHappy) != 1 || end.Dominant != ExpressionHappy {
		t.Fatalf("progress 1 should be the to pose, got %+v", end)
	}

	// continuity: small steps move weights by small amounts
	prev := InterpolateExpression(ExpressionSad, ExpressionHappy, 0)
	for i := 1; i <= 100; i++ {
		f := InterpolateExpression(ExpressionSad, ExpressionHappy, float64(i)/100)
		if math.Abs(f.ToWeight-prev.ToWeight) > 0.0100001 {
			t.Fatalf("discontinuity at step %d: %v -> %v", i, prev.ToWeight, f.ToWeight)
		}
		if math.Abs(f.FromWeight+f.ToWeight-1) > 1e-9 {
			t.Fatalf("weights must sum to 1, got %+v", f)
		}
		prev = f
	}

	clamped := InterpolateExpression(ExpressionSad, ExpressionHappy, 3)
	if clamped.ToWeight != 1 {
		t.Fatalf("progress should clamp to 1, got %v", clamped.ToWeight)
	}
	same := InterpolateExpression(ExpressionSad, ExpressionSad, 0.3)
	if same.Weight(ExpressionSad) != 1 {
		t.Fatalf("identical poses should carry full weight, got %v", same.Weight(ExpressionSad))
	}
}

func TestTriggerFor(t *testing.T) {
	tests := map[float64]TriggerTier{
		0:    TriggerSubtle,
		0.5:  TriggerSubtle,
		0.51: TriggerMedium,
		0.8:  TriggerMedium,
		0.81: TriggerStrong,
		1:    TriggerStrong,
	}
	for in, want := range tests {
		if got := TriggerFor(in); got != want {
			t.Errorf("%v: expected %s, got %s", in, want, got)
		}
	}
}
