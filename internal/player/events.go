package player

// EventKind identifies a locomotion event.
type EventKind int

const (
	EventLaneChanged EventKind = iota
	EventJumped
	EventLanded
	EventFastFall
	EventSlideStarted
	EventSlideEnded
	EventCrashed
)

func (k EventKind) String() string {
	switch k {
	case EventLaneChanged:
		return "lane_changed"
	case EventJumped:
		return "jumped"
	case EventLanded:
		return "landed"
	case EventFastFall:
		return "fast_fall"
	case EventSlideStarted:
		return "slide_started"
	case EventSlideEnded:
		return "slide_ended"
	case EventCrashed:
		return "crashed"
	default:
		return "unknown"
	}
}

// Event is emitted on locomotion transitions. Presentation layers use it
// to drive animation and sound cues.
type Event struct {
	Kind     EventKind
	Lane     int      // set for EventLaneChanged
	Movement Movement // state after the transition, where relevant
}
