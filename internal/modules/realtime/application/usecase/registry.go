package usecase

import (
	"log/slog"
	"sync"

	"github.com/abdelrahmanseada/Car-Parking/internal/modules/realtime/application/port"
	"github.com/abdelrahmanseada/Car-Parking/internal/modules/realtime/domain"
)

// Registry fans incoming events out to in-process subscribers. Subscribers
// key on an entity name, or on the empty string to receive everything.
type Registry struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]port.Handler
}

func NewRegistry() *Registry {
	return &Registry{subs: make(map[string]map[int]port.Handler)}
}

// Subscribe registers fn for events about entity. An empty entity
// subscribes to every event. The returned function cancels the
// subscription and is safe to call more than once.
func (r *Registry) Subscribe(entity string, fn port.Handler) func() {
	if fn == nil {
		return func() {}
	}

	r.mu.Lock()
	r.nextID++
	id := r.nextID
	if r.subs[entity] == nil {
		r.subs[entity] = make(map[int]port.Handler)
	}
	r.subs[entity][id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		handlers, ok := r.subs[entity]
		if !ok {
			return
		}
		delete(handlers, id)
		if len(handlers) == 0 {
			delete(r.subs, entity)
		}
	}
}

// Dispatch delivers event to the entity's subscribers and to catch-all
// subscribers. Handlers run on the caller's goroutine; a panic in one
// handler is logged and must not starve the rest.
func (r *Registry) Dispatch(event domain.Event) {
	r.mu.RLock()
	handlers := make([]port.Handler, 0, len(r.subs[event.Entity])+len(r.subs[""]))
	for _, fn := range r.subs[event.Entity] {
		handlers = append(handlers, fn)
	}
	if event.Entity != "" {
		for _, fn := range r.subs[""] {
			handlers = append(handlers, fn)
		}
	}
	r.mu.RUnlock()

	for _, fn := range handlers {
		deliver(fn, event)
	}
}

func deliver(fn port.Handler, event domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("event handler panic", slog.String("topic", event.Topic()), slog.Any("error", r))
		}
	}()
	fn(event)
}
