package systems

import "time"

// System is a unit of game logic driven by the tick loop.
//
// FixedUpdate runs zero or more times per frame at the fixed simulation step;
// Update runs once per presented frame with the variable frame delta. Both
// run on the loop goroutine and must not block.
type System interface {
	Name() string
	Priority() Priority

	FixedUpdate(fixedDeltaTime float64) error
	Update(deltaTime float64) error
}

// Priority defines execution order; higher runs first.
type Priority uint16

// System priorities
const (
	PriorityLowest  Priority = 200
	PriorityLow     Priority = 500
	PriorityNormal  Priority = 600
	PriorityHigh    Priority = 1000
	PriorityHighest Priority = 1300
)

// ExecutionPhase tells which pass a system was running in when it failed.
type ExecutionPhase uint8

const (
	PhaseFixedUpdate ExecutionPhase = iota
	PhaseUpdate
)

func (p ExecutionPhase) String() string {
	if p == PhaseFixedUpdate {
		return "fixed_update"
	}
	return "update"
}

// Metrics provides runtime metrics for a system
type Metrics struct {
	ExecutionCount       uint64
	TotalExecutionTime   time.Duration
	AverageExecutionTime time.Duration
	MaxExecutionTime     time.Duration
	ErrorCount           uint64
	LastError            error
}
