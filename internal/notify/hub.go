package notify

import (
	"github.com/ethereum/go-ethereum/event"
)

// Hub fans a notification channel out to any number of subscribers. Delivery
// to subscribers is synchronous: a slow subscriber holds back the others, the
// same as event.Feed.
type Hub struct {
	feed  event.FeedOf[Notification]
	scope event.SubscriptionScope
	done  chan struct{}
}

// NewHub starts forwarding src to subscribers until src is closed.
func NewHub(src <-chan Notification) *Hub {
	h := &Hub{done: make(chan struct{})}
	go h.run(src)
	return h
}

func (h *Hub) run(src <-chan Notification) {
	defer close(h.done)
	defer h.scope.Close()
	for n := range src {
		h.feed.Send(n)
	}
}

// Subscribe registers ch. Notifications published after the call are sent to
// ch until the subscription is unsubscribed or the source closes, at which
// point the subscription's Err channel is closed.
func (h *Hub) Subscribe(ch chan<- Notification) event.Subscription {
	sub := h.feed.Subscribe(ch)
	if tracked := h.scope.Track(sub); tracked != nil {
		return tracked
	}
	// Source already closed.
	sub.Unsubscribe()
	return event.NewSubscription(func(<-chan struct{}) error { return nil })
}

// Done is closed once the source channel is closed and drained.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}
