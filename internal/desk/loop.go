package desk

import "github.com/zeusync/deskcheck/internal/core/systems"

// Loop owns one desk with its systems and clock. It is driven from a single
// goroutine, either the window's update callback or a batch worker.
type Loop struct {
	clock   *systems.Clock
	manager *systems.Manager
	desk    *Desk
}

func NewLoop(clock *systems.Clock, manager *systems.Manager, d *Desk) *Loop {
	return &Loop{clock: clock, manager: manager, desk: d}
}

func (l *Loop) Desk() *Desk               { return l.desk }
func (l *Loop) Clock() *systems.Clock     { return l.clock }
func (l *Loop) Manager() *systems.Manager { return l.manager }

// Start begins the first round.
func (l *Loop) Start() { l.desk.Start() }

// Step advances one presented frame of frameDelta seconds.
func (l *Loop) Step(frameDelta float64) {
	l.clock.Advance(l.manager, frameDelta)
}
