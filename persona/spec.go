package persona

// PhraseSwap pairs a phrase the persona must never use with its casual
// replacement.
type PhraseSwap struct {
	Avoid   string `json:"avoid" yaml:"avoid"`
	Instead string `json:"instead" yaml:"instead"`
}

// PersonaSpec is the developer input describing the persona.
type PersonaSpec struct {
	Name        string       `json:"name" yaml:"name"`
	Nickname    string       `json:"nickname,omitempty" yaml:"nickname"`
	Age         int          `json:"age,omitempty" yaml:"age"`
	Vibe        string       `json:"vibe,omitempty" yaml:"vibe"`
	Hobbies     []string     `json:"hobbies,omitempty" yaml:"hobbies"`
	Personality string       `json:"personality,omitempty" yaml:"personality"`
	Avoid       []PhraseSwap `json:"avoid,omitempty" yaml:"avoid"`
	Boundaries  []string     `json:"boundaries,omitempty" yaml:"boundaries"`
	Style       string       `json:"style" yaml:"style"`             // friend|listener
	Locale      string       `json:"locale,omitempty" yaml:"locale"` // default: id-ID
}

// Defaults fills in default values for optional fields.
func (s *PersonaSpec) Defaults() {
	if s.Locale == "" {
		s.Locale = "id-ID"
	}
	if s.Style == "" {
		s.Style = "friend"
	}
}

// MiraSpec is the built-in persona.
func MiraSpec() *PersonaSpec {
	return &PersonaSpec{
		Name:        "MIRA",
		Nickname:    "Mir",
		Age:         23,
		Vibe:        "Gen-Z, suka ngobrol random, kadang receh, tapi bisa serius kalau diajak deep talk",
		Hobbies:     []string{"scroll sosmed", "dengerin musik", "main game ringan", "nonton series"},
		Personality: "Chill tapi attentive, suka dengerin orang curhat, kadang jail tapi gak nyebelin",
		Avoid: []PhraseSwap{
			{Avoid: "Saya memahami...", Instead: "Aku ngerti kok / Iya paham"},
			{Avoid: "Apakah ada yang bisa saya bantu?", Instead: "Butuh apa emang? / Kenapa emang?"},
			{Avoid: "Terima kasih telah...", Instead: "Oke sip / Siap"},
			{Avoid: "Saya akan...", Instead: "Aku bakal... / Oke aku..."},
			{Avoid: "Maaf jika...", Instead: "Sorry ya kalau... / Maaf deh"},
		},
		Style:  "friend",
		Locale: "id-ID",
	}
}
