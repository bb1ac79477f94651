package tide

// EventSink is the interface for optional ECS integration.
// When set on a World, world events are forwarded to the sink.
type EventSink interface {
	EmitEvent(event Event)
}

// EventKind identifies what happened in a World event.
type EventKind uint8

const (
	EventReveal EventKind = iota
	EventReset
	EventExplore
	EventExploreReady
	EventReturn
	EventBubbleSpawn
	EventBubbleHover
)

var eventKindNames = [...]string{
	EventReveal:       "reveal",
	EventReset:        "reset",
	EventExplore:      "explore",
	EventExploreReady: "exploreReady",
	EventReturn:       "return",
	EventBubbleSpawn:  "bubbleSpawn",
	EventBubbleHover:  "bubbleHover",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "unknown"
}

// Event carries world event data for ECS bridges.
type Event struct {
	Kind EventKind
	// Time is the world clock when the event was emitted.
	Time float64
	// State is the sequencer state after the transition.
	State State
	// Bubble fields (valid for EventBubbleSpawn and EventBubbleHover).
	BubbleID uint64
	Position Vec3
}

// SetEventSink sets the optional event bridge. Nil disables forwarding.
func (w *World) SetEventSink(sink EventSink) {
	w.sink = sink
}

func (w *World) emit(ev Event) {
	if w.sink == nil {
		return
	}
	ev.Time = w.clock
	ev.State = w.Sequencer.State()
	w.sink.EmitEvent(ev)
}

// relay wraps the user's callbacks so every sequencer transition is also
// emitted to the sink. User callbacks run first.
func (w *World) relay(cb Callbacks) Callbacks {
	return Callbacks{
		OnReveal:       w.emitter(EventReveal, cb.OnReveal),
		OnReset:        w.emitter(EventReset, cb.OnReset),
		OnExplore:      w.emitter(EventExplore, cb.OnExplore),
		OnExploreReady: w.emitter(EventExploreReady, cb.OnExploreReady),
		OnReturn:       w.emitter(EventReturn, cb.OnReturn),
	}
}

func (w *World) emitter(kind EventKind, next func()) func() {
	return func() {
		if next != nil {
			next()
		}
		w.emit(Event{Kind: kind})
	}
}
