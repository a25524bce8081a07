package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
)

// ErrBusy means a send is already in flight; the simulator allows one
// outstanding send at a time.
var ErrBusy = errors.New("chat: a send is already in flight")

// Fixed simulator strings, matching what the product shows its admins.
const (
	fallbackReply   = "Lo siento, no pude procesar tu mensaje. Intenta nuevamente."
	handoffNotice   = "🔔 Se ha activado el handoff. Un agente humano te contactará pronto."
	transportNotice = "Error al conectar con el servidor. Verifica que el backend esté funcionando."
	coercionNotice  = "Mensaje recibido"
	busyNotice      = "Espera la respuesta anterior antes de enviar otro mensaje."
)

// DefaultConversationID is the simulator's default test conversation.
const DefaultConversationID = "test-user-123"

// Bridge folds backend replies into the simulator log.
type Bridge struct {
	messenger Messenger
	log       *Log
	logger    *zap.Logger
	inFlight  atomic.Bool
}

// NewBridge builds the simulator bridge.
func NewBridge(messenger Messenger, log *Log, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{messenger: messenger, log: log, logger: logger}
}

// Log exposes the conversation log.
func (b *Bridge) Log() *Log {
	return b.log
}

// Send relays one user message. Whitespace-only input is a no-op with no
// network call. The user entry is appended before the request goes out, so
// the log always shows the outgoing message first. A concurrent call while
// one send is outstanding returns ErrBusy. Transport failures land in the
// log as a fixed error entry; Send itself only errors on ErrBusy.
func (b *Bridge) Send(ctx context.Context, conversationID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if conversationID == "" {
		conversationID = DefaultConversationID
	}

	if !b.inFlight.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer b.inFlight.Store(false)

	b.log.Append(RoleUser, text)

	reply, err := b.messenger.SendMessage(ctx, conversationID, text)
	if err != nil {
		b.logger.Warn("simulator send failed", zap.Error(err))
		b.log.Append(RoleAssistant, transportNotice)
		return nil
	}

	if len(reply.Messages) == 0 {
		b.log.Append(RoleAssistant, fallbackReply)
	} else {
		for _, raw := range reply.Messages {
			b.log.Append(RoleAssistant, coerceContent(raw))
		}
	}

	if reply.Handoff {
		b.log.Append(RoleAssistant, handoffNotice)
	}
	return nil
}

// coerceContent turns one reply item into display text: the item itself if
// it is a string, else its "text" field, else "content", else a fixed notice.
func coerceContent(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj struct {
		Text    string `json:"text"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Text != "" {
			return obj.Text
		}
		if obj.Content != "" {
			return obj.Content
		}
	}
	return coercionNotice
}
