package round

import (
	"github.com/zeusync/deskcheck/internal/core/spatial"
	"github.com/zeusync/deskcheck/internal/desk/object"
)

// Presentation is a timeline. It reports completion by publishing an
// EventStopped event whose source is its ID on TopicPresentation; stopping a
// playing presentation also reports completion.
type Presentation interface {
	ID() string
	Play()
	Stop()
	SetTime(seconds float64)
}

// Group is one of the mutually exclusive presentation root groups.
type Group uint8

const (
	GroupEntry Group = iota
	GroupSuccess
	GroupFail
)

func (g Group) String() string {
	switch g {
	case GroupEntry:
		return "entry"
	case GroupSuccess:
		return "success"
	default:
		return "fail"
	}
}

// Visibility toggles presentation root groups.
type Visibility interface {
	SetGroupActive(g Group, active bool)
}

// Audio fires one-shot cues.
type Audio interface {
	MachineStart()
	Eject()
	FailSting()
	ButtonClick()
}

// ScoreDisplay shows the tally after every update.
type ScoreDisplay interface {
	ShowScore(correct, mistakes int)
}

// Spawner creates trial objects at the mount point and takes them back when
// the desk is cleared.
type Spawner interface {
	Spawn(mount spatial.Transform) (*object.Object, error)
	Recycle(o *object.Object)
}

// Recorder persists consumed decisions.
type Recorder interface {
	Record(o Outcome) error
}

// Event bus topics and types used by the sequencer.
const (
	TopicPresentation = "presentation"
	EventStopped      = "presentation.stopped"

	TopicDesk         = "desk"
	EventPhaseChanged = "round.phase"
	EventSpawned      = "round.spawned"
	EventDecided      = "round.decided"
)

// PhaseChange is the payload of EventPhaseChanged.
type PhaseChange struct {
	Round int   `json:"round"`
	From  Phase `json:"from"`
	To    Phase `json:"to"`
}
