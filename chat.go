package mirasdk

import (
	"context"
	"log"

	"github.com/cyberFlowTech/mira-sdk-go/persona"
)

// ──────────────────────────────────────────────
// Chat turn: system prompt + display messages → external backend
// ──────────────────────────────────────────────

// ChatMessage is one entry of the message list sent to the backend.
type ChatMessage struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

// ChatBackend generates a reply from a message list. Retries and
// timeouts are the backend's concern.
type ChatBackend interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// ChatBackendFunc adapts a function to ChatBackend.
type ChatBackendFunc func(ctx context.Context, messages []ChatMessage) (string, error)

func (f ChatBackendFunc) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	return f(ctx, messages)
}

// Reply is the outcome of one chat turn.
type Reply struct {
	Text     string    `json:"text"`
	Offline  bool      `json:"offline"` // Text is a canned offline response
	Analysis *Analysis `json:"analysis"`
	Err      error     `json:"-"` // backend error, if any
}

// Respond analyzes text, asks backend for a reply and humanizes it. A nil
// or failing backend yields an offline response; Respond never fails.
func (e *Engine) Respond(ctx context.Context, backend ChatBackend, text string) *Reply {
	analysis := e.Analyze(text)

	messages := make([]ChatMessage, 0, len(e.messages)+2)
	messages = append(messages, ChatMessage{Role: "system", Content: analysis.SystemPrompt})
	messages = append(messages, e.messages...)
	messages = append(messages, ChatMessage{Role: "user", Content: text})

	reply := &Reply{Analysis: analysis}
	var raw string
	var err error
	if backend == nil {
		err = ErrBackendUnavailable
	} else {
		raw, err = safeCall("chat", func() (string, error) { return backend.Complete(ctx, messages) })
	}
	if err != nil {
		log.Printf("[MoodEngine] Chat backend failed: %v; sending offline response", err)
		reply.Text = e.OfflineResponse()
		reply.Offline = true
		reply.Err = err
	} else {
		reply.Text = e.Humanize(raw)
	}

	e.appendMessages(
		ChatMessage{Role: "user", Content: text},
		ChatMessage{Role: "assistant", Content: reply.Text},
	)
	return reply
}

func (e *Engine) appendMessages(msgs ...ChatMessage) {
	e.messages = append(e.messages, msgs...)
	if over := len(e.messages) - e.config.MaxDisplayMessages; over > 0 {
		e.messages = append([]ChatMessage(nil), e.messages[over:]...)
	}
}

// Messages returns the display message sequence, oldest first.
func (e *Engine) Messages() []ChatMessage {
	out := make([]ChatMessage, len(e.messages))
	copy(out, e.messages)
	return out
}

// ConversationContext renders the display messages as User/persona lines.
func (e *Engine) ConversationContext() string {
	texts := make([]string, 0, len(e.messages))
	for _, m := range e.messages {
		texts = append(texts, m.Content)
	}
	return BuildConversationContext(texts, e.personaName())
}

// Topics returns the most frequent words of the display messages.
func (e *Engine) Topics() []string {
	texts := make([]string, 0, len(e.messages))
	for _, m := range e.messages {
		texts = append(texts, m.Content)
	}
	return ExtractTopics(texts)
}

func (e *Engine) personaName() string {
	if e.config.Persona != nil && e.config.Persona.Name != "" {
		return e.config.Persona.Name
	}
	return persona.MiraSpec().Name
}
