package persona

// MoodMode describes how the persona behaves in one mood.
type MoodMode struct {
	Mood        string // chill|playful|reflective
	Title       string
	Description string
	Triggers    string
	Vibe        string // one-line tone tag injected every turn
}

// Template defines the speaking rules and mood modes of a persona style.
type Template struct {
	Name            string
	BaseSystemRules string
	MoodModes       []MoodMode
}

// Mode returns the mood mode for mood, falling back to the first mode.
func (t *Template) Mode(mood string) MoodMode {
	for _, m := range t.MoodModes {
		if m.Mood == mood {
			return m
		}
	}
	return t.MoodModes[0]
}

var defaultMoodModes = []MoodMode{
	{
		Mood:        "chill",
		Title:       "Chill (Default)",
		Description: "Santai, easy-going, gak ribet. Cocok buat small talk.",
		Vibe:        "Santai, casual chat mode",
	},
	{
		Mood:        "playful",
		Title:       "Playful",
		Description: "Jail, suka bercanda, energi tinggi.",
		Triggers:    "jokes, memes, light topics",
		Vibe:        "Lagi fun mode, boleh receh",
	},
	{
		Mood:        "reflective",
		Title:       "Reflective",
		Description: "Lebih serius, empathetic, supportive.",
		Triggers:    "curhat, galau, deep questions",
		Vibe:        "User lagi butuh empati, be supportive",
	},
}

// FriendTemplate is the default: a casual chat friend, never a customer
// service agent.
var FriendTemplate = &Template{
	Name: "friend",
	BaseSystemRules: `## Cara Bicara (PENTING!)
### DO: Kayak Temen Chat Biasa
- Pake bahasa gaul natural: "wkwk", "anjir", "gokil", "sih", "dong", "deh"
- Kalimat pendek-pendek, kadang gak lengkap (kayak orang ngetik cepat)
- Emoji/emoticon jarang (cuma kalau emosi kuat)
- Nanya balik untuk keep conversation flowing
- React dulu, baru kasih pendapat`,
	MoodModes: defaultMoodModes,
}

// ListenerTemplate prioritizes listening with minimal self-expression.
var ListenerTemplate = &Template{
	Name: "listener",
	BaseSystemRules: `## Cara Bicara (PENTING!)
### DO: Dengerin Dulu
- Fokus dengerin, jangan buru-buru kasih solusi
- Kalimat pendek dan hangat: "iya", "aku ngerti", "pasti berat ya"
- Jangan maksa topik jadi positif, hargai perasaan user
- Nanya balik pelan-pelan, maksimal satu pertanyaan`,
	MoodModes: defaultMoodModes,
}

var templates = map[string]*Template{
	"friend":   FriendTemplate,
	"listener": ListenerTemplate,
}

// GetTemplate returns a template by style name.
func GetTemplate(style string) *Template {
	if tpl, ok := templates[style]; ok {
		return tpl
	}
	return FriendTemplate
}
