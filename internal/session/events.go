package session

// EventKind identifies a session event.
type EventKind int

const (
	EventStateChanged EventKind = iota
	EventCoins
	EventRunOver
	EventWarning
)

// Event is emitted on session transitions.
type Event struct {
	Kind         EventKind
	State        GameState
	Prev         GameState // set for EventStateChanged
	Score        int
	Coins        int
	NewHighscore bool
	Err          error // set for EventWarning
}
