// Package notify holds the routing preferences for captured-lead
// notifications. The panel toggles delivery channels on and off; actual
// delivery is handled by the chatbot backend, which reads this routing
// state.
package notify

import (
	"fmt"
	"strings"
	"sync"
)

// Channel names one notification destination.
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelEmail    Channel = "email"
	ChannelCalendar Channel = "calendar"
)

// DefaultWhatsAppNumber pre-fills the WhatsApp destination.
const DefaultWhatsAppNumber = "+54 9 11"

// ErrUnknownChannel is returned for a channel name the panel does not offer.
var ErrUnknownChannel = fmt.Errorf("notify: unknown channel")

// Routing is a point-in-time copy of the preferences.
type Routing struct {
	WhatsApp       bool   `json:"whatsapp"`
	Email          bool   `json:"email"`
	Calendar       bool   `json:"calendar"`
	WhatsAppNumber string `json:"whatsappNumber"`
}

// Preferences is the mutex-guarded registry behind the notification panel.
// WhatsApp starts enabled with a placeholder number; the rest start off.
type Preferences struct {
	mu             sync.RWMutex
	enabled        map[Channel]bool
	whatsappNumber string
}

// NewPreferences builds the registry with its default routing.
func NewPreferences() *Preferences {
	return &Preferences{
		enabled: map[Channel]bool{
			ChannelWhatsApp: true,
			ChannelEmail:    false,
			ChannelCalendar: false,
		},
		whatsappNumber: DefaultWhatsAppNumber,
	}
}

// Toggle flips one channel and returns its new state.
func (p *Preferences) Toggle(ch Channel) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cur, ok := p.enabled[ch]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownChannel, ch)
	}
	p.enabled[ch] = !cur
	return !cur, nil
}

// Set forces one channel to the given state.
func (p *Preferences) Set(ch Channel, on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.enabled[ch]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownChannel, ch)
	}
	p.enabled[ch] = on
	return nil
}

// SetWhatsAppNumber updates the WhatsApp destination. Leading and trailing
// whitespace is dropped; an empty result keeps the previous number.
func (p *Preferences) SetWhatsAppNumber(number string) {
	number = strings.TrimSpace(number)
	if number == "" {
		return
	}
	p.mu.Lock()
	p.whatsappNumber = number
	p.mu.Unlock()
}

// Enabled reports whether a channel is switched on.
func (p *Preferences) Enabled(ch Channel) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.enabled[ch]
}

// Snapshot returns the current routing state.
func (p *Preferences) Snapshot() Routing {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Routing{
		WhatsApp:       p.enabled[ChannelWhatsApp],
		Email:          p.enabled[ChannelEmail],
		Calendar:       p.enabled[ChannelCalendar],
		WhatsAppNumber: p.whatsappNumber,
	}
}

// Apply replaces the full routing state in one call, used by the panel's
// save action. The number is cleaned the same way SetWhatsAppNumber does.
func (p *Preferences) Apply(r Routing) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled[ChannelWhatsApp] = r.WhatsApp
	p.enabled[ChannelEmail] = r.Email
	p.enabled[ChannelCalendar] = r.Calendar
	if n := strings.TrimSpace(r.WhatsAppNumber); n != "" {
		p.whatsappNumber = n
	}
}
