package notify

import (
	"sync"

	"neighborly/pkg/types"
)

// Broker is the push subscription surface for notifications. Clients
// subscribe per recipient; the dispatcher publishes after persisting rows.
// Delivery is best-effort and in-process; a client that is not subscribed
// simply reads the rows on its next poll.
type Broker struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]func(*types.Notification)
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[int]func(*types.Notification)),
	}
}

// Subscribe registers a handler for a recipient's notifications and returns
// an unsubscribe func. Handlers run on the publisher's goroutine, so they
// must not block.
func (b *Broker) Subscribe(recipientID string, onEvent func(*types.Notification)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID

	if b.subs[recipientID] == nil {
		b.subs[recipientID] = make(map[int]func(*types.Notification))
	}
	b.subs[recipientID][id] = onEvent

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		delete(b.subs[recipientID], id)
		if len(b.subs[recipientID]) == 0 {
			delete(b.subs, recipientID)
		}
	}
}

func (b *Broker) Publish(notification *types.Notification) {
	b.mu.RLock()
	handlers := make([]func(*types.Notification), 0, len(b.subs[notification.RecipientID]))
	for _, h := range b.subs[notification.RecipientID] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(notification)
	}
}
