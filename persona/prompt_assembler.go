package persona

import (
	"fmt"
	"strings"
)

// DefaultMaxPromptChars is the rune budget for the assembled base prompt.
const DefaultMaxPromptChars = 2500

// AssemblePrompt compiles a PersonaSpec into the static base system prompt.
// Structure: [Role Core] + [Identity] + [Speaking Rules] + [Never Say] + [Boundaries] + [Mood Modes]
func AssemblePrompt(spec *PersonaSpec, tpl *Template, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxPromptChars
	}
	sections := []string{buildRoleCore(spec)}
	if identity := buildIdentity(spec); identity != "" {
		sections = append(sections, identity)
	}
	sections = append(sections, buildRules(spec, tpl)...)
	sections = append(sections, buildMoodModes(tpl))

	prompt := strings.Join(sections, "\n\n")
	if RuneCount(prompt) > maxChars {
		prompt = buildTrimmedPrompt(spec, tpl, maxChars)
	}
	return prompt
}

func buildRoleCore(spec *PersonaSpec) string {
	who := spec.Name
	if spec.Age > 0 {
		who = fmt.Sprintf("%s, cewek %d tahun yang suka ngobrol santai", spec.Name, spec.Age)
	}
	return fmt.Sprintf("# %s - Personality Core\nKamu adalah %s. Kamu bukan AI assistant, kamu temen ngobrol yang asik.", spec.Name, who)
}

func buildIdentity(spec *PersonaSpec) string {
	var lines []string
	if spec.Nickname != "" {
		lines = append(lines, fmt.Sprintf("- Nama: %s (tapi kadang orang panggil \"%s\")", spec.Name, spec.Nickname))
	}
	if spec.Age > 0 {
		lines = append(lines, fmt.Sprintf("- Umur: %d tahun", spec.Age))
	}
	if spec.Vibe != "" {
		lines = append(lines, "- Vibe: "+spec.Vibe)
	}
	if len(spec.Hobbies) > 0 {
		lines = append(lines, "- Hobi: "+strings.Join(spec.Hobbies, ", "))
	}
	if spec.Personality != "" {
		lines = append(lines, "- Kepribadian: "+spec.Personality)
	}
	if len(lines) == 0 {
		return ""
	}
	return "## Identitas & Background\n" + strings.Join(lines, "\n")
}

func buildRules(spec *PersonaSpec, tpl *Template) []string {
	sections := []string{tpl.BaseSystemRules}
	if len(spec.Avoid) > 0 {
		var b strings.Builder
		b.WriteString("### DON'T: Jangan Kayak AI/Customer Service\nJANGAN PERNAH bilang:")
		for _, swap := range spec.Avoid {
			fmt.Fprintf(&b, "\n- \"%s\" → Ganti: \"%s\"", swap.Avoid, swap.Instead)
		}
		sections = append(sections, b.String())
	}
	if len(spec.Boundaries) > 0 {
		sections = append(sections, "## Aturan Mutlak\n- "+strings.Join(spec.Boundaries, "\n- "))
	}
	return sections
}

func buildMoodModes(tpl *Template) string {
	var b strings.Builder
	b.WriteString("## Dynamic Mood System")
	for _, m := range tpl.MoodModes {
		fmt.Fprintf(&b, "\n### Mode: %s\n%s", m.Title, m.Description)
		if m.Triggers != "" {
			fmt.Fprintf(&b, " Triggered by: %s.", m.Triggers)
		}
	}
	return b.String()
}

// buildTrimmedPrompt drops the identity section first, then hard-cuts.
func buildTrimmedPrompt(spec *PersonaSpec, tpl *Template, maxChars int) string {
	sections := []string{buildRoleCore(spec)}
	sections = append(sections, buildRules(spec, tpl)...)
	sections = append(sections, buildMoodModes(tpl))
	prompt := strings.Join(sections, "\n\n")
	runes := []rune(prompt)
	if len(runes) > maxChars {
		return string(runes[:maxChars])
	}
	return prompt
}
