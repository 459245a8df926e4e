package conversation

import "sync"

// Message roles, matching the hosted chat-completion API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry in the dialogue history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Log is the ordered, append-only dialogue history for a session.
// The turn controller is the only writer; readers get snapshots.
type Log struct {
	mu       sync.RWMutex
	messages []Message
}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) AppendUser(content string) {
	l.append(Message{Role: RoleUser, Content: content})
}

func (l *Log) AppendAssistant(content string) {
	l.append(Message{Role: RoleAssistant, Content: content})
}

func (l *Log) append(m Message) {
	l.mu.Lock()
	l.messages = append(l.messages, m)
	l.mu.Unlock()
}

// Messages returns a copy of the history in insertion order.
func (l *Log) Messages() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// Reset discards the history wholesale. Used on session end.
func (l *Log) Reset() {
	l.mu.Lock()
	l.messages = nil
	l.mu.Unlock()
}
