package auth

import "sync"

// broadcaster fans auth events out to registered handlers.
type broadcaster struct {
	mu   sync.Mutex
	subs map[int]func(Event)
	next int
}

func (b *broadcaster) subscribe(fn func(Event)) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs == nil {
		b.subs = make(map[int]func(Event))
	}
	id := b.next
	b.next++
	b.subs[id] = fn

	return &subscription{cancel: func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}}
}

func (b *broadcaster) publish(evt Event) {
	b.mu.Lock()
	handlers := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		handlers = append(handlers, fn)
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(evt)
	}
}

type subscription struct {
	once   sync.Once
	cancel func()
}

func (s *subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

// noopSubscription backs the stub provider's inert change stream.
type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}
