// Package chat drives the live agent simulator: an in-memory conversation
// log fed by a request/response call against the chatbot backend.
package chat

import (
	"sync"

	"github.com/inmo24x7/backoffice/internal/metrics"
)

// Greeting seeds every simulator session.
const Greeting = "¡Hola! Soy tu agente IA. ¿En qué puedo ayudarte hoy?"

// Role identifies the author of a log entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one simulator log entry.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Log is the append-only conversation log for one simulator session. It
// lives in memory only and resets with the process.
type Log struct {
	mu          sync.RWMutex
	messages    []Message
	subscribers map[chan Message]struct{}
}

// NewLog creates a log seeded with the fixed greeting.
func NewLog() *Log {
	return &Log{
		messages:    []Message{{Role: RoleAssistant, Content: Greeting}},
		subscribers: make(map[chan Message]struct{}),
	}
}

// Append adds one entry and fans it out to subscribers. Slow subscribers
// drop entries rather than block the sender.
func (l *Log) Append(role Role, content string) Message {
	msg := Message{Role: role, Content: content}
	metrics.ChatMessages.WithLabelValues(string(role)).Inc()

	l.mu.Lock()
	l.messages = append(l.messages, msg)
	for ch := range l.subscribers {
		select {
		case ch <- msg:
		default:
		}
	}
	l.mu.Unlock()

	return msg
}

// Messages returns a copy of the full log.
func (l *Log) Messages() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Message(nil), l.messages...)
}

// Subscribe registers a live feed of appended entries. The cancel function
// must be called when done; the channel is closed by cancel.
func (l *Log) Subscribe() (<-chan Message, func()) {
	ch := make(chan Message, 32)

	l.mu.Lock()
	l.subscribers[ch] = struct{}{}
	l.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subscribers, ch)
			l.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}
