package event

import (
	"log/slog"
	"sync"

	"github.com/sasha-s/go-deadlock"
)

type HandlerFunc func(raw any)

// Bus fans controller notifications out to subscribers. Each handler runs on
// its own goroutine so the tick never blocks on a slow subscriber.
type Bus struct {
	mu       deadlock.RWMutex
	handlers map[string][]HandlerFunc

	waitMu   deadlock.Mutex
	idle     *sync.Cond
	inflight int
}

func NewBus() *Bus {
	b := &Bus{
		handlers: make(map[string][]HandlerFunc),
	}
	b.idle = sync.NewCond(&b.waitMu)
	return b
}

func (b *Bus) Subscribe(eventName string, handler HandlerFunc) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

func (b *Bus) Publish(eventName string, evt any) {
	b.mu.RLock()
	handlers := make([]HandlerFunc, len(b.handlers[eventName]))
	copy(handlers, b.handlers[eventName])
	b.mu.RUnlock()
	if len(handlers) == 0 {
		return
	}

	b.track(len(handlers))
	for _, handler := range handlers {
		go func(h HandlerFunc) {
			defer b.track(-1)
			defer func() {
				if r := recover(); r != nil {
					slog.Error("Event handler panicked", "event", eventName, "panic", r)
				}
			}()
			h(evt)
		}(handler)
	}
}

// Wait blocks until every handler started by an earlier Publish has returned.
func (b *Bus) Wait() {
	b.waitMu.Lock()
	defer b.waitMu.Unlock()
	for b.inflight > 0 {
		b.idle.Wait()
	}
}

func (b *Bus) track(delta int) {
	b.waitMu.Lock()
	defer b.waitMu.Unlock()
	b.inflight += delta
	if b.inflight == 0 {
		b.idle.Broadcast()
	}
}

func (b *Bus) SubscriberCount(eventName string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventName])
}
