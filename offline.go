package mirasdk

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultOfflineResponse is returned when no random source is available.
const DefaultOfflineResponse = "Ups, connection error nih. Coba lagi ya?"

var offlineResponses = []string{
	"Haha, jaringan lagi lelet nih. Ceritain apa aja dulu deh!",
	"Ups, APIku ngambek. Ngobrol apa lagi ya?",
	"Aduh, offline mode dulu ya. Kamu lagi apa?",
	"Wah koneksi lg jelek. Tapi aku tetep dengerin kok!",
	"Error nih, tapi gas aja cerita. Ntar aku sambung lagi",
}

// OfflineResponse returns canned text shown when the language-model
// backend fails.
func OfflineResponse(rng RandSource) string {
	if rng == nil {
		return DefaultOfflineResponse
	}
	return offlineResponses[rng.Intn(len(offlineResponses))]
}

// Riddle is a mini-game question.
type Riddle struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

var riddles = []Riddle{
	{"Aku selalu ada di depan, tapi tak pernah jadi yang pertama. Apa aku?", "hidung"},
	{"Aku bulat, bisa nyanyi, tapi bukan penyanyi. Apa aku?", "cd"},
	{"Apa yang naik tapi gak pernah turun?", "umur"},
	{"Aku punya ekor tapi bukan binatang. Apa aku?", "koin"},
	{"Dibanting ga marah, malah seneng. Apa itu?", "bola"},
}

// PickRiddle returns a riddle; the first one when rng is nil.
func PickRiddle(rng RandSource) Riddle {
	if rng == nil {
		return riddles[0]
	}
	return riddles[rng.Intn(len(riddles))]
}

// CheckRiddle reports whether guess matches the answer, ignoring case
// and surrounding whitespace.
func CheckRiddle(r Riddle, guess string) bool {
	return normalize(guess) == normalize(r.Answer)
}

const maxTopics = 5

// ExtractTopics returns up to five of the most frequent words longer than
// three bytes. Ties keep first-appearance order.
func ExtractTopics(messages []string) []string {
	words := strings.Fields(strings.ToLower(strings.Join(messages, " ")))
	freq := make(map[string]int)
	var order []string
	for _, w := range words {
		if len(w) <= 3 {
			continue
		}
		if freq[w] == 0 {
			order = append(order, w)
		}
		freq[w]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})
	if len(order) > maxTopics {
		order = order[:maxTopics]
	}
	if order == nil {
		return []string{}
	}
	return order
}

// BuildConversationContext renders alternating user/persona lines,
// starting with the user.
func BuildConversationContext(messages []string, personaName string) string {
	if personaName == "" {
		personaName = "MIRA"
	}
	var b strings.Builder
	for i, msg := range messages {
		role := "User"
		if i%2 == 1 {
			role = personaName
		}
		fmt.Fprintf(&b, "%s: %s\n", role, msg)
	}
	return b.String()
}
