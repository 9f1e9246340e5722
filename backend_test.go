package mirasdk

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

// ═══════════════════════════════════════════════
// Accelerated backend
// ═══════════════════════════════════════════════

func newAccelerated(t *testing.T) *AcceleratedBackend {
	t.Helper()
	a, err := NewAcceleratedBackend(nil, nil)
	if err != nil {
		t.Fatalf("accelerated backend: %v", err)
	}
	return a
}

func TestAccelerated_Scenarios(t *testing.T) {
	a := newAccelerated(t)

	tests := []struct {
		text       string
		emotion    Emotion
		mood       Mood
		expression ExpressionID
	}{
		{"aku lagi stress banget dan sedih", EmotionNegative, MoodReflective, ExpressionSad},
		{"wkwk lucu banget main game yuk", EmotionPositive, MoodPlayful, ExpressionHappy},
		{"oke", EmotionNeutral, MoodChill, ExpressionNeutral},
	}
	for _, tt := range tests {
		s, err := a.Score(tt.text)
		if err != nil {
			t.Fatalf("score: %v", err)
		}
		if s.PrimaryEmotion != tt.emotion {
			t.Errorf("%q: expected %s, got %s (score %v)", tt.text, tt.emotion, s.PrimaryEmotion, s.FinalScore)
		}
		m, err := a.DetectMood(tt.text, MoodChill, s)
		if err != nil {
			t.Fatalf("mood: %v", err)
		}
		if m != tt.mood {
			t.Errorf("%q: expected mood %s, got %s", tt.text, tt.mood, m)
		}
		b, err := a.DetectExpression(tt.text)
		if err != nil {
			t.Fatalf("expression: %v", err)
		}
		if b.Primary != tt.expression {
			t.Errorf("%q: expected expression %s, got %s", tt.text, tt.expression, b.Primary)
		}
	}
}

func TestAccelerated_WholeTokenMatch(t *testing.T) {
	a := newAccelerated(t)
	// "happyness" contains "happy" but is not the token.
	s, _ := a.Score("happyness")
	if s.BaseScore != 0 {
		t.Fatalf("expected no dictionary hit, got %v", s.BaseScore)
	}
	s, _ = a.Score("happy happy")
	if s.BaseScore != 4 {
		t.Fatalf("repeated tokens should add up, got %v", s.BaseScore)
	}
	if len(s.ContextFactors) != 1 {
		t.Fatalf("repeated token should be reported once, got %v", s.ContextFactors)
	}
}

func TestAccelerated_HysteresisHoldsMood(t *testing.T) {
	a := newAccelerated(t)
	s, _ := a.Score("oke")
	m, _ := a.DetectMood("oke", MoodReflective, s)
	if m != MoodReflective {
		t.Fatalf("reflective should be held on neutral input, got %s", m)
	}
}

func TestAccelerated_MoodCache(t *testing.T) {
	a, err := NewAcceleratedBackend(nil, nil, AcceleratedConfig{CacheSize: 2})
	if err != nil {
		t.Fatal(err)
	}
	neutral := SentimentResult{}
	a.DetectMood("satu", MoodChill, neutral)
	a.DetectMood("satu", MoodChill, neutral)
	if a.CacheLen() != 1 {
		t.Fatalf("expected 1 cached entry, got %d", a.CacheLen())
	}
	a.DetectMood("dua", MoodChill, neutral)
	a.DetectMood("tiga", MoodChill, neutral)
	if a.CacheLen() > 2 {
		t.Fatalf("cache exceeded its size: %d", a.CacheLen())
	}
}

func TestAccelerated_ExpressionBounds(t *testing.T) {
	a := newAccelerated(t)
	inputs := []string{
		"", "wow", "senang senang senang mantap mantap haha wkwk lucu seru",
		"sedih galau down nangis sedih galau", "astaga wow gila serius beneran",
	}
	for _, in := range inputs {
		b, err := a.DetectExpression(in)
		if err != nil {
			t.Fatal(err)
		}
		for _, v := range []float64{b.Intensity, b.Confidence, b.BlendStrength} {
			if v < 0 || v > 1 {
				t.Fatalf("%q: value out of range: %+v", in, b)
			}
		}
	}
}

func TestAccelerated_SecondaryIsNextBest(t *testing.T) {
	a := newAccelerated(t)
	b, _ := a.DetectExpression("sedih tapi wow")
	if b.Primary != ExpressionSad || b.Secondary != ExpressionSurprised {
		t.Fatalf("expected sad/surprised, got %s/%s", b.Primary, b.Secondary)
	}
}

func TestAccelerated_ClosedFails(t *testing.T) {
	a := newAccelerated(t)
	a.Close()
	if _, err := a.Score("halo"); !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
	if _, err := a.Humanize("halo"); !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestAccelerated_CacheWriteAfterClose(t *testing.T) {
	a := newAccelerated(t)
	a.Close()
	// A caller that passed checkOpen before Close still reaches the cache.
	if m := a.keywordMood("aku galau"); m != MoodReflective {
		t.Fatalf("expected reflective, got %s", m)
	}
	if a.CacheLen() != 0 {
		t.Fatalf("closed backend must not cache, got %d entries", a.CacheLen())
	}
}

func TestAccelerated_ConcurrentCloseDoesNotPanic(t *testing.T) {
	a := newAccelerated(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				a.keywordMood(fmt.Sprintf("wkwk %d %d", i, j))
			}
		}(i)
	}
	a.Close()
	wg.Wait()
}

// ═══════════════════════════════════════════════
// Selection
// ═══════════════════════════════════════════════

func TestSelectBackend(t *testing.T) {
	if b := SelectBackend(BackendOptions{Accelerated: true}); b.Name() != "accelerated" {
		t.Fatalf("expected accelerated, got %s", b.Name())
	}
	if b := SelectBackend(BackendOptions{}); b.Name() != "portable" {
		t.Fatalf("expected portable, got %s", b.Name())
	}
	broken := DefaultLexicon()
	broken.Weighted = nil
	if b := SelectBackend(BackendOptions{Accelerated: true, Lexicon: broken}); b.Name() != "portable" {
		t.Fatalf("expected fallback to portable, got %s", b.Name())
	}
}

func TestPortable_AgreesOnShape(t *testing.T) {
	p := NewPortableBackend(nil, nil)
	a := newAccelerated(t)
	for _, text := range []string{"aku lagi stress banget dan sedih", "wkwk lucu banget main game yuk", "oke"} {
		ps, _ := p.Score(text)
		as, _ := a.Score(text)
		if ps.PrimaryEmotion != as.PrimaryEmotion {
			t.Errorf("%q: portable %s vs accelerated %s", text, ps.PrimaryEmotion, as.PrimaryEmotion)
		}
		pm, _ := p.DetectMood(text, MoodChill, ps)
		am, _ := a.DetectMood(text, MoodChill, as)
		if !pm.Valid() || !am.Valid() {
			t.Errorf("%q: invalid moods %s %s", text, pm, am)
		}
	}
}

func TestLoadLexicon_Merge(t *testing.T) {
	path := t.TempDir() + "/lex.yaml"
	body := "positive: [\"mantul\"]\nweighted:\n  mantul: 2\n"
	if err := writeTestFile(path, body); err != nil {
		t.Fatal(err)
	}
	lex, err := LoadLexicon(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(lex.Positive) != 1 || lex.Positive[0] != "mantul" {
		t.Fatalf("positive set should be replaced, got %v", lex.Positive)
	}
	if len(lex.Negative) == 0 {
		t.Fatal("unset sets keep their defaults")
	}
	if r := NewSentimentScorer(lex).Score("mantul"); r.BaseScore != 2 {
		t.Fatalf("expected custom keyword to score, got %v", r.BaseScore)
	}
}
