package sim

import (
	"sync"

	"github.com/zeusync/deskcheck/internal/core/observability/log"
	"github.com/zeusync/deskcheck/internal/desk/round"
)

var (
	_ round.Visibility = (*Groups)(nil)
	_ round.Audio      = (*Audio)(nil)
)

// Groups tracks which presentation root groups are visible.
type Groups struct {
	active map[round.Group]bool
}

func NewGroups() *Groups { return &Groups{active: make(map[round.Group]bool)} }

func (g *Groups) SetGroupActive(gr round.Group, active bool) { g.active[gr] = active }

func (g *Groups) Active(gr round.Group) bool { return g.active[gr] }

// Visible returns the active group, if exactly one is active.
func (g *Groups) Visible() (round.Group, bool) {
	var found []round.Group
	for _, gr := range []round.Group{round.GroupEntry, round.GroupSuccess, round.GroupFail} {
		if g.active[gr] {
			found = append(found, gr)
		}
	}
	if len(found) != 1 {
		return 0, false
	}
	return found[0], true
}

// Cue names an audio one-shot.
type Cue string

const (
	CueMachineStart Cue = "machine_start"
	CueEject        Cue = "eject"
	CueFailSting    Cue = "fail_sting"
	CueButtonClick  Cue = "button_click"
)

// Audio logs cues and counts them. Play, when set, is called for every cue.
type Audio struct {
	mu     sync.Mutex
	counts map[Cue]int
	log    log.Log
	Play   func(Cue)
}

func NewAudio(logger log.Log) *Audio {
	return &Audio{counts: make(map[Cue]int), log: log.OrNop(logger).Named("audio")}
}

func (a *Audio) MachineStart() { a.cue(CueMachineStart) }
func (a *Audio) Eject()        { a.cue(CueEject) }
func (a *Audio) FailSting()    { a.cue(CueFailSting) }
func (a *Audio) ButtonClick()  { a.cue(CueButtonClick) }

func (a *Audio) Count(c Cue) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counts[c]
}

func (a *Audio) cue(c Cue) {
	a.mu.Lock()
	a.counts[c]++
	a.mu.Unlock()
	a.log.Debug("cue", log.String("cue", string(c)))
	if a.Play != nil {
		a.Play(c)
	}
}
