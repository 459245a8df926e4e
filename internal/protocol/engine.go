package protocol

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/PratikJH153/OrbitAI/internal/conversation"
)

var log = logrus.WithField("component", "protocol")

// Completer issues a single chat-completion request and returns the raw
// model output. Implementations are expected to bias the model toward JSON
// output; the decode ladder tolerates non-compliance regardless.
type Completer interface {
	Complete(ctx context.Context, messages []conversation.Message) (string, error)
}

// Engine turns a user utterance plus dialogue history into a structured
// assistant reply. It never mutates session state and never returns an
// error: hosted-service failures collapse to a canned fallback reply.
type Engine struct {
	completer   Completer
	studentName string
}

func NewEngine(completer Completer, studentName string) *Engine {
	return &Engine{completer: completer, studentName: studentName}
}

// Generate builds the request as system instruction + history + new user
// message, issues one completion call, and decodes the result. The caller
// is responsible for filtering blank utterances; history may be empty.
func (e *Engine) Generate(ctx context.Context, utterance string, history []conversation.Message) Reply {
	messages := make([]conversation.Message, 0, len(history)+2)
	messages = append(messages, conversation.Message{
		Role:    conversation.RoleSystem,
		Content: SystemPrompt(e.studentName),
	})
	messages = append(messages, history...)
	messages = append(messages, conversation.Message{
		Role:    conversation.RoleUser,
		Content: utterance,
	})

	raw, err := e.completer.Complete(ctx, messages)
	if err != nil {
		log.Printf("completion failed: %v", err)
		return ServiceErrorReply()
	}
	return Decode(raw)
}
