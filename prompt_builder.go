package mirasdk

import (
	"fmt"
	"log"
	"strings"

	"github.com/cyberFlowTech/mira-sdk-go/persona"
)

// ──────────────────────────────────────────────
// Dynamic Prompt Builder: mood-aware system instruction
// ──────────────────────────────────────────────

const (
	promptRecentEmotions = 3
	promptSnippetRunes   = 40
)

// Emotional context tiers.
const (
	contextStrong = "User lagi ngerasain emosi yang kuat banget. Validasi perasaannya dulu, jangan bercanda berlebihan, jawab pelan-pelan."
	contextMedium = "Emosi user cukup kerasa. Tunjukin kalau kamu peka, sesuaikan energi sama dia."
	contextCalm   = "User lagi santai. Ngobrol biasa aja, boleh ringan."
)

// PromptContext is everything the dynamic instruction depends on.
type PromptContext struct {
	Mood           Mood
	Intensity      float64
	RecentEmotions []EmotionHistoryEntry // newest last; only the last 3 render
	Trendline      *MoodTrendline        // nil when there is not enough history
	DominantMood   Mood                  // optional session-wide mood
}

// PromptBuilder prefixes the persona core to the per-turn mood section.
type PromptBuilder struct {
	base string
	tpl  *persona.Template
}

// NewPromptBuilder assembles the static persona prompt once. A nil spec
// uses the built-in persona.
func NewPromptBuilder(spec *persona.PersonaSpec) (*PromptBuilder, error) {
	if spec == nil {
		spec = persona.MiraSpec()
	}
	normalized, warnings, err := persona.Normalize(spec)
	if err != nil {
		return nil, fmt.Errorf("normalize persona: %w", err)
	}
	for _, w := range warnings {
		log.Printf("[PromptBuilder] persona %s: %s", w.Field, w.Message)
	}
	tpl := persona.GetTemplate(normalized.Style)
	return &PromptBuilder{
		base: persona.AssemblePrompt(normalized, tpl, 0),
		tpl:  tpl,
	}, nil
}

// Base returns the static persona prompt.
func (b *PromptBuilder) Base() string { return b.base }

// Build returns the full system instruction for one turn.
func (b *PromptBuilder) Build(ctx PromptContext) string {
	return b.base + "\n\n" + BuildDynamicPrompt(b.tpl, ctx)
}

// BuildDynamicPrompt renders the mood section. It is a pure function of ctx.
func BuildDynamicPrompt(tpl *persona.Template, ctx PromptContext) string {
	if tpl == nil {
		tpl = persona.FriendTemplate
	}
	mood := ctx.Mood
	if !mood.Valid() {
		mood = MoodChill
	}
	mode := tpl.Mode(string(mood))

	var b strings.Builder
	fmt.Fprintf(&b, "## Mood Sekarang\nMood: %s\n[Current vibe: %s]", mood, mode.Vibe)

	fmt.Fprintf(&b, "\n\n## Konteks Emosional\n%s", emotionalContext(ctx.Intensity))

	recent := ctx.RecentEmotions
	if len(recent) > promptRecentEmotions {
		recent = recent[len(recent)-promptRecentEmotions:]
	}
	if len(recent) > 0 {
		b.WriteString("\n\n## Emosi Terakhir User")
		for _, e := range recent {
			fmt.Fprintf(&b, "\n- [%s %.2f] \"%s\"", e.Emotion, e.Intensity, persona.Truncate(e.TextSnippet, promptSnippetRunes))
		}
	}

	if ctx.Trendline != nil {
		fmt.Fprintf(&b, "\n\n## Tren Mood\nTren: %s (rata-rata intensitas %.2f, emosi dominan: %s)",
			ctx.Trendline.Trend, ctx.Trendline.AvgIntensity, ctx.Trendline.DominantEmotion)
	}

	if ctx.DominantMood.Valid() {
		fmt.Fprintf(&b, "\n[Session dominant mood: %s]", ctx.DominantMood)
	}
	return b.String()
}

func emotionalContext(intensity float64) string {
	switch {
	case intensity > 0.8:
		return contextStrong
	case intensity > 0.5:
		return contextMedium
	default:
		return contextCalm
	}
}
