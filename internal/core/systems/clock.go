package systems

// ClockConfig sets the fixed simulation step.
type ClockConfig struct {
	FixedStep   float64 `yaml:"fixed_step"`    // seconds
	MaxSubSteps int     `yaml:"max_sub_steps"` // fixed steps allowed per frame
}

func DefaultClockConfig() ClockConfig {
	return ClockConfig{FixedStep: 1.0 / 50, MaxSubSteps: 5}
}

// Clock turns variable frame deltas into fixed simulation steps followed by
// one variable update, the way a real-time engine loop does.
type Clock struct {
	cfg         ClockConfig
	accumulator float64
	total       float64
	frames      int64
	fixedSteps  int64
}

func NewClock(cfg ClockConfig) *Clock {
	if cfg.FixedStep <= 0 {
		cfg.FixedStep = DefaultClockConfig().FixedStep
	}
	if cfg.MaxSubSteps <= 0 {
		cfg.MaxSubSteps = DefaultClockConfig().MaxSubSteps
	}
	return &Clock{cfg: cfg}
}

// Advance runs the fixed steps owed for frameDelta and then one Update. Time
// beyond MaxSubSteps is dropped so a long stall cannot spiral.
func (c *Clock) Advance(m *Manager, frameDelta float64) {
	if frameDelta < 0 {
		frameDelta = 0
	}
	c.accumulator += frameDelta
	steps := 0
	for c.accumulator >= c.cfg.FixedStep && steps < c.cfg.MaxSubSteps {
		m.FixedUpdate(c.cfg.FixedStep)
		c.accumulator -= c.cfg.FixedStep
		steps++
		c.fixedSteps++
	}
	if steps == c.cfg.MaxSubSteps && c.accumulator >= c.cfg.FixedStep {
		c.accumulator = 0
	}
	m.Update(frameDelta)
	c.total += frameDelta
	c.frames++
}

func (c *Clock) TotalTime() float64      { return c.total }
func (c *Clock) FrameCount() int64       { return c.frames }
func (c *Clock) FixedStepCount() int64   { return c.fixedSteps }
func (c *Clock) FixedDeltaTime() float64 { return c.cfg.FixedStep }
