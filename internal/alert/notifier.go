package alert

import "github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/observable"

// Notifier broadcasts the "itinerary data finished loading" signal.
type Notifier struct {
	count *observable.Value[uint64]
}

// NewNotifier returns a Notifier with no subscribers.
func NewNotifier() *Notifier {
	return &Notifier{count: observable.New[uint64](0)}
}

// Broadcast notifies every subscriber synchronously.
func (n *Notifier) Broadcast() {
	n.count.Set(n.count.Get() + 1)
}

// Subscribe registers fn and returns its unsubscribe function.
func (n *Notifier) Subscribe(fn func()) (unsubscribe func()) {
	return n.count.Subscribe(func(uint64) { fn() })
}

// Count returns how many broadcasts have been sent.
func (n *Notifier) Count() uint64 {
	return n.count.Get()
}
