package turn

import (
	"strings"

	"github.com/PratikJH153/OrbitAI/internal/protocol"
)

// Intent is one (predicate, responder) pair. Intents short-circuit the
// protocol engine for topics the application answers with prepared content.
type Intent struct {
	Name  string
	Match func(text string) bool
	Reply func() protocol.Reply
}

// IntentTable is an ordered list of intents; the first match wins.
type IntentTable struct {
	intents []Intent
}

func NewIntentTable(intents ...Intent) *IntentTable {
	return &IntentTable{intents: intents}
}

// Resolve returns the reply of the first matching intent, if any.
func (t *IntentTable) Resolve(text string) (protocol.Reply, bool) {
	if t == nil {
		return protocol.Reply{}, false
	}
	for _, in := range t.intents {
		if in.Match(text) {
			return in.Reply(), true
		}
	}
	return protocol.Reply{}, false
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// DefaultIntents carries the demo topics the app answers itself: the
// circular-motion explainer with prepared resources, and the "show me the
// problem" request.
func DefaultIntents() *IntentTable {
	return NewIntentTable(
		Intent{
			Name: "circular-motion",
			Match: func(text string) bool {
				t := strings.ToLower(text)
				return containsAny(t, "centrifugal", "centripetal", "circular motion", "spinning force")
			},
			Reply: func() protocol.Reply {
				return protocol.Reply{
					Text: "Centrifugal force is a fictitious force that appears to act on objects moving in a circular path. " +
						"It's what you feel pushing you outward when you're in a car that's making a turn. " +
						"Let me show you some visuals to help explain this concept.",
					Actions: &protocol.Actions{ShowResources: true},
				}
			},
		},
		Intent{
			Name: "show-problem",
			Match: func(text string) bool {
				t := strings.ToLower(text)
				return containsAny(t, "see", "look") && strings.Contains(t, "problem")
			},
			Reply: func() protocol.Reply {
				return protocol.Reply{
					Text:    "I can see your problem. This is about projectile motion. Let me analyze it for you.",
					Actions: &protocol.Actions{ShowProblem: true},
				}
			},
		},
	)
}
