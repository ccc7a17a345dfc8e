package store

import (
	"github.com/kvlink/redkit/command"
	"github.com/kvlink/redkit/resp"
)

// WatchResult is the change event delivered to a subscription when a
// watched key is mutated.
type WatchResult struct {
	Key       string
	Operation command.Operation
	Before    resp.Type
	After     resp.Type
}

// Encode serializes a WatchResult as the 4-element Array SPEC_FULL.md §3
// describes: key (SimpleString), operation (Integer), before (Type or
// Null), after (Type).
func (w WatchResult) Encode() resp.Type {
	return resp.NewArray(
		resp.SanitizedSimpleString(w.Key),
		resp.NewInteger(int64(w.Operation)),
		w.Before,
		w.After,
	)
}

// subscriptionQueueCapacity bounds the per-subscription personal queue a
// forwarding goroutine drains (SPEC_FULL.md's generalization of §9's
// "single long-lived task per subscription" redesign note).
const subscriptionQueueCapacity = 32

// Subscription is a registration created by WATCH: a key, the (currently
// unenforced — see SPEC_FULL.md §9 item 2) operation filter, and a
// dedicated forwarding goroutine that drains a personal event queue into
// the owning connection's outbound channel.
//
// Subscriptions are never removed once created (SPEC_FULL.md §3,
// "Subscription lifecycle"); a dead connection's forwarding goroutine
// simply stops once its done channel fires, leaving an inert Subscription
// behind in the registry.
type Subscription struct {
	key   string
	op    command.Operation
	queue chan WatchResult
}

func newSubscription(key string, op command.Operation, sink chan<- resp.Type, done <-chan struct{}) *Subscription {
	s := &Subscription{
		key:   key,
		op:    op,
		queue: make(chan WatchResult, subscriptionQueueCapacity),
	}
	go s.forward(sink, done)
	return s
}

// forward is the subscription's long-lived task: it never spawns per
// event (the thing §9 asks to redesign away), it just drains its own
// queue for as long as the owning connection is alive.
func (s *Subscription) forward(sink chan<- resp.Type, done <-chan struct{}) {
	for {
		select {
		case ev := <-s.queue:
			select {
			case sink <- ev.Encode():
			case <-done:
				return
			}
		case <-done:
			return
		}
	}
}

// enqueue hands an event to the subscription's personal queue without
// blocking the caller (typically DB.notify, which must not stall a
// SET waiting on a slow or dead watcher). A full queue drops the event —
// the watcher is already arbitrarily behind and tolerating dropped or
// failed sends is the documented behavior (SPEC_FULL.md §5 cancellation).
func (s *Subscription) enqueue(ev WatchResult) {
	select {
	case s.queue <- ev:
	default:
	}
}
