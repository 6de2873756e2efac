package event

// Event is anything that can be published on the bus.
type Event interface {
	EventName() string
}

// EventHandler consumes published events.
type EventHandler interface {
	Handle(event Event)
}

// HandlerFunc adapts a plain function to the EventHandler interface.
type HandlerFunc func(event Event)

func (f HandlerFunc) Handle(event Event) {
	f(event)
}
