package persona

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	if _, _, err := Normalize(&PersonaSpec{}); err == nil {
		t.Fatal("expected error for missing name")
	}

	in := &PersonaSpec{
		Name:    "Rara",
		Style:   "poet",
		Locale:  "en-US",
		Hobbies: []string{"a", "b", "c", "d", "e", "f", "g"},
		Age:     -3,
	}
	out, warnings, err := Normalize(in)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out.Style != "friend" || len(out.Hobbies) != 5 || out.Age != 0 {
		t.Fatalf("unexpected normalized spec: %+v", out)
	}
	if len(warnings) != 3 {
		t.Fatalf("expected 3 warnings (locale, hobbies, style), got %+v", warnings)
	}
	if in.Style != "poet" || len(in.Hobbies) != 7 {
		t.Fatal("input spec must not be mutated")
	}
}

func TestAssemblePrompt_Mira(t *testing.T) {
	spec, _, err := Normalize(MiraSpec())
	if err != nil {
		t.Fatal(err)
	}
	out := AssemblePrompt(spec, GetTemplate(spec.Style), 0)
	for _, want := range []string{
		"# MIRA - Personality Core",
		"## Identitas & Background",
		"- Nama: MIRA (tapi kadang orang panggil \"Mir\")",
		"### DON'T: Jangan Kayak AI/Customer Service",
		"\"Saya memahami...\" → Ganti:",
		"### Mode: Reflective",
		"Triggered by: curhat, galau, deep questions.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in\n%s", want, out)
		}
	}
	if RuneCount(out) > DefaultMaxPromptChars {
		t.Fatalf("prompt over budget: %d", RuneCount(out))
	}
}

func TestAssemblePrompt_TrimsIdentityFirst(t *testing.T) {
	spec := MiraSpec()
	spec.Personality = strings.Repeat("panjang ", 100)
	full := AssemblePrompt(spec, FriendTemplate, 100000)
	if !strings.Contains(full, "## Identitas & Background") {
		t.Fatal("identity expected with a large budget")
	}

	budget := RuneCount(full) - 10
	trimmed := AssemblePrompt(spec, FriendTemplate, budget)
	if strings.Contains(trimmed, "## Identitas & Background") {
		t.Fatal("identity should be dropped first")
	}
	if RuneCount(trimmed) > budget {
		t.Fatalf("trimmed prompt over budget: %d > %d", RuneCount(trimmed), budget)
	}

	tiny := AssemblePrompt(spec, FriendTemplate, 50)
	if RuneCount(tiny) != 50 {
		t.Fatalf("expected hard cut at 50 runes, got %d", RuneCount(tiny))
	}
}

func TestTemplateMode(t *testing.T) {
	if m := FriendTemplate.Mode("playful"); m.Vibe != "Lagi fun mode, boleh receh" {
		t.Fatalf("unexpected playful vibe %q", m.Vibe)
	}
	if m := ListenerTemplate.Mode("unknown"); m.Mood != "chill" {
		t.Fatalf("unknown mood should fall back to the first mode, got %s", m.Mood)
	}
	if GetTemplate("missing") != FriendTemplate {
		t.Fatal("unknown style should return the friend template")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("halo", 10); got != "halo" {
		t.Fatalf("short text changed: %q", got)
	}
	if got := Truncate("héllo dunia", 5); got != "héllo..." {
		t.Fatalf("expected rune-safe cut, got %q", got)
	}
}
