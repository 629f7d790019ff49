package core

// Observers is a list of typed event subscribers.
// Presentation adapters subscribe; the simulation emits synchronously from
// inside the tick, so handlers must not call back into the emitter.
type Observers[E any] struct {
	handlers []func(E)
}

// Subscribe registers a handler. A nil handler is ignored.
func (o *Observers[E]) Subscribe(fn func(E)) {
	if fn == nil {
		return
	}
	o.handlers = append(o.handlers, fn)
}

// Emit delivers an event to every handler in subscription order.
func (o *Observers[E]) Emit(e E) {
	for _, fn := range o.handlers {
		fn(e)
	}
}

// Len returns the number of subscribed handlers.
func (o *Observers[E]) Len() int {
	return len(o.handlers)
}
