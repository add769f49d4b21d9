package engine

type Command int

const (
	CommandNone Command = iota
	MoveLeft
	MoveRight
	SoftDrop
	Rotate
	HardDrop
)

var commandNames = map[Command]string{
	CommandNone: "none",
	MoveLeft:    "move-left",
	MoveRight:   "move-right",
	SoftDrop:    "soft-drop",
	Rotate:      "rotate",
	HardDrop:    "hard-drop",
}

func (c Command) String() string {
	if s, ok := commandNames[c]; ok {
		return s
	}
	return "unknown"
}

type EventKind int

const (
	EventLocked EventKind = iota + 1
	EventCleared
	EventLevelUp
	EventGameOver
)

func (k EventKind) String() string {
	switch k {
	case EventLocked:
		return "locked"
	case EventCleared:
		return "cleared"
	case EventLevelUp:
		return "level-up"
	case EventGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// Event records a transition an observer may want to announce. Score and
// Level are the values after the transition.
type Event struct {
	Kind  EventKind
	Lines int
	Score int
	Level int
}
