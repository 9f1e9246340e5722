package mirasdk

import (
	"math/rand"
	"strings"
	"testing"
)

// fixedRand always returns the same draw.
type fixedRand struct {
	f float64
	i int
}

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) Intn(n int) int   { return r.i % n }

func TestHumanize_ReplacesAndTruncates(t *testing.T) {
	h := NewHumanizer(fixedRand{f: 0.99})
	out := h.Humanize("Saya memahami perasaanmu. Silakan cerita. Mohon sabar ya. Ini kalimat keempat!")
	want := "Aku ngerti perasaanmu. Coba cerita. Tolong sabar ya."
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestHumanize_FillerWhenDrawBelowProbability(t *testing.T) {
	h := NewHumanizer(fixedRand{f: 0.05, i: 2})
	out := h.Humanize("Saya bisa bantu")
	if out != "btw, Aku bisa bantu" {
		t.Fatalf("expected filler prefix, got %q", out)
	}
}

func TestHumanize_NilRandNeverAddsFiller(t *testing.T) {
	h := NewHumanizer(nil)
	for i := 0; i < 20; i++ {
		if out := h.Humanize("oke"); out != "oke" {
			t.Fatalf("expected unchanged text, got %q", out)
		}
	}
}

func TestHumanize_CaseInsensitiveGlobal(t *testing.T) {
	h := NewHumanizer(nil)
	out := h.ReplaceFormal("SAYA AKAN datang. saya akan pulang.")
	if out != "Aku bakal datang. Aku bakal pulang." {
		t.Fatalf("unexpected replacement %q", out)
	}
}

func TestHumanize_OverlappingPhrases(t *testing.T) {
	h := NewHumanizer(nil)
	out := h.ReplaceFormal("Apakah Apakah ada kabar?")
	if h.ContainsFormal(out) {
		t.Fatalf("formal phrase survived: %q", out)
	}
}

func TestHumanize_DeeplyStackedPhrases(t *testing.T) {
	h := NewHumanizer(nil)
	for _, n := range []int{9, 10, 40} {
		in := strings.Repeat("Apakah ", n) + "ada"
		out := h.Humanize(in)
		if h.ContainsFormal(out) {
			t.Fatalf("formal phrase survived %d stacked prefixes: %q", n, out)
		}
		if out != "Ada" {
			t.Fatalf("expected %q, got %q", "Ada", out)
		}
	}
}

func TestHumanize_ContractHolds(t *testing.T) {
	inputs := []string{
		"",
		"Saya memahami. Saya mengerti! Apakah ada lagi? Terima kasih telah cerita. Saya akan bantu.",
		"Maaf jika aku salah... Mohon maaf. Silakan lanjut!!! Saya bisa kok",
		"Apakah Apakah ada?",
		"satu. dua. tiga. empat. lima.",
		"tanpa titik sama sekali",
	}
	rng := rand.New(rand.NewSource(7))
	h := NewHumanizer(rng)
	for i := 0; i < 200; i++ {
		in := inputs[i%len(inputs)]
		out := h.Humanize(in)
		if h.ContainsFormal(out) {
			t.Fatalf("formal phrase in %q (from %q)", out, in)
		}
		if n := len(SplitSentences(out)); n > 3 {
			t.Fatalf("expected at most 3 sentences, got %d in %q", n, out)
		}
	}
}

func TestTruncateSentences(t *testing.T) {
	if got := TruncateSentences("a. b. c", 3); got != "a. b. c" {
		t.Fatalf("short text must be unchanged, got %q", got)
	}
	if got := TruncateSentences("a! b? c. d.", 2); got != "a. b." {
		t.Fatalf("expected %q, got %q", "a. b.", got)
	}
	if got := TruncateSentences("a. b. c. d", 0); got != "a. b. c. d" {
		t.Fatalf("max 0 disables truncation, got %q", got)
	}
}

func TestNewRandSource_Concurrent(t *testing.T) {
	rng := NewRandSource()
	done := make(chan struct{})
	for g := 0; g < 4; g++ {
		go func() {
			for i := 0; i < 100; i++ {
				if v := rng.Intn(5); v < 0 || v >= 5 {
					t.Errorf("out of range: %d", v)
				}
			}
			done <- struct{}{}
		}()
	}
	for g := 0; g < 4; g++ {
		<-done
	}
}
