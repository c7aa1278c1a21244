package entity

// State is the lifecycle of a single page load. Settled is terminal.
type State int32

const (
	StateIdle State = iota
	StatePending
	StateSettled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateSettled:
		return "settled"
	default:
		return "unknown"
	}
}
