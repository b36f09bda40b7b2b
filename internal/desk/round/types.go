package round

import (
	"fmt"
	"time"
)

// Decision is the binary verdict the player submits through a decision surface.
type Decision uint8

const (
	Accept Decision = iota
	Reject
)

func (d Decision) String() string {
	switch d {
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	default:
		return fmt.Sprintf("decision(%d)", uint8(d))
	}
}

func (d Decision) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Decision) UnmarshalText(b []byte) error {
	v, err := ParseDecision(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDecision accepts "accept" or "reject".
func ParseDecision(s string) (Decision, error) {
	switch s {
	case "accept":
		return Accept, nil
	case "reject":
		return Reject, nil
	default:
		return 0, fmt.Errorf("unknown decision %q", s)
	}
}

// Phase is the sequencer state.
type Phase uint8

const (
	PhaseIdle Phase = iota // not started or stopped
	PhaseEntry
	PhaseAwaitingDecision
	PhaseResolvingSuccess
	PhaseResolvingFail
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseEntry:
		return "entry"
	case PhaseAwaitingDecision:
		return "awaiting_decision"
	case PhaseResolvingSuccess:
		return "resolving_success"
	case PhaseResolvingFail:
		return "resolving_fail"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Judge reports whether decision d is correct for an object with the given
// validity: accept valid objects, reject invalid ones.
func Judge(d Decision, valid bool) bool {
	return (d == Accept) == valid
}

// Tally is the running score.
type Tally struct {
	Correct  int `json:"correct"`
	Mistakes int `json:"mistakes"`
}

// Score increments exactly one counter.
func (t Tally) Score(correct bool) Tally {
	if correct {
		t.Correct++
	} else {
		t.Mistakes++
	}
	return t
}

// Outcome describes one consumed decision.
type Outcome struct {
	Round    int       `json:"round"`
	ObjectID string    `json:"object_id,omitempty"`
	Decision Decision  `json:"decision"`
	Valid    bool      `json:"valid"`
	Correct  bool      `json:"correct"`
	Tally    Tally     `json:"tally"`
	At       time.Time `json:"at"`
}
