// Package event provides the synchronous publish/subscribe channel that
// decouples geometry mutation from repaint and panel refresh.
package event

import "sync"

// Type identifies different editor events.
type Type int

const (
	PointerReleased Type = iota
	ViewerRepaintQueued
	BoundsPanelRepaintQueued
	SlotControlRepaintQueued
	EnginesPanelRepaintQueued
	BaysPanelRepaintQueued
	CenterPanelRepaintQueued
	PointAddConfirmed
	PointRemoveConfirmed
	BoundInsertedConfirmed
	PointSelectedConfirmed
	LaunchBayAddConfirmed
	LaunchBayRemoveConfirmed
	HistoryChanged
	LayoutLoaded
	SettingsChanged
)

var typeNames = map[Type]string{
	PointerReleased:           "PointerReleased",
	ViewerRepaintQueued:       "ViewerRepaintQueued",
	BoundsPanelRepaintQueued:  "BoundsPanelRepaintQueued",
	SlotControlRepaintQueued:  "SlotControlRepaintQueued",
	EnginesPanelRepaintQueued: "EnginesPanelRepaintQueued",
	BaysPanelRepaintQueued:    "BaysPanelRepaintQueued",
	CenterPanelRepaintQueued:  "CenterPanelRepaintQueued",
	PointAddConfirmed:         "PointAddConfirmed",
	PointRemoveConfirmed:      "PointRemoveConfirmed",
	BoundInsertedConfirmed:    "BoundInsertedConfirmed",
	PointSelectedConfirmed:    "PointSelectedConfirmed",
	LaunchBayAddConfirmed:     "LaunchBayAddConfirmed",
	LaunchBayRemoveConfirmed:  "LaunchBayRemoveConfirmed",
	HistoryChanged:            "HistoryChanged",
	LayoutLoaded:              "LayoutLoaded",
	SettingsChanged:           "SettingsChanged",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Event is a typed notification with an optional payload.
type Event struct {
	Type Type
	Data interface{}
}

// Listener is called when a matching event is published.
type Listener func(e Event)

// Handle identifies a subscription for Unsubscribe.
type Handle uint64

type subscription struct {
	handle   Handle
	all      bool
	typ      Type
	listener Listener
	active   bool
}

// Bus delivers events synchronously on the publishing goroutine, invoking
// listeners in subscription order. Listeners may publish further events and
// may unsubscribe any handle, including their own, during delivery.
type Bus struct {
	mu   sync.Mutex
	subs []*subscription
	next Handle
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a listener for one event type.
func (b *Bus) Subscribe(t Type, l Listener) Handle {
	return b.add(&subscription{typ: t, listener: l})
}

// SubscribeAll registers a listener that receives every event.
func (b *Bus) SubscribeAll(l Listener) Handle {
	return b.add(&subscription{all: true, listener: l})
}

func (b *Bus) add(s *subscription) Handle {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	s.handle = b.next
	s.active = true
	b.subs = append(b.subs, s)
	return s.handle
}

// Unsubscribe removes a subscription. Unknown handles are ignored.
func (b *Bus) Unsubscribe(h Handle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.handle == h {
			s.active = false
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers e to every matching listener subscribed at the time of
// the call.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	snapshot := make([]*subscription, len(b.subs))
	copy(snapshot, b.subs)
	b.mu.Unlock()

	for _, s := range snapshot {
		if !s.all && s.typ != e.Type {
			continue
		}
		// Removed by an earlier listener of this same delivery
		b.mu.Lock()
		active := s.active
		b.mu.Unlock()
		if !active {
			continue
		}
		s.listener(e)
	}
}

// Emit is shorthand for publishing an event built from its parts.
func (b *Bus) Emit(t Type, data interface{}) {
	b.Publish(Event{Type: t, Data: data})
}

// Len returns the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
