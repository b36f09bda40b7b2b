package systems

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/zeusync/deskcheck/internal/core/observability/log"
)

var (
	ErrSystemExists   = errors.New("system already registered")
	ErrSystemNotFound = errors.New("system not found")
)

// Manager runs registered systems in priority order. It is not safe for
// concurrent use; the loop owns it.
type Manager struct {
	systems []System
	metrics map[string]*Metrics
	onError func(name string, phase ExecutionPhase, err error)
	log     log.Log
}

func NewManager(logger log.Log) *Manager {
	return &Manager{
		metrics: make(map[string]*Metrics),
		log:     log.OrNop(logger),
	}
}

// OnSystemError installs a callback for errors returned by systems. Errors
// never stop the loop.
func (m *Manager) OnSystemError(fn func(name string, phase ExecutionPhase, err error)) {
	m.onError = fn
}

func (m *Manager) RegisterSystem(s System) error {
	if _, ok := m.metrics[s.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrSystemExists, s.Name())
	}
	m.systems = append(m.systems, s)
	m.metrics[s.Name()] = &Metrics{}
	sort.SliceStable(m.systems, func(i, j int) bool {
		return m.systems[i].Priority() > m.systems[j].Priority()
	})
	return nil
}

func (m *Manager) UnregisterSystem(name string) error {
	for i, s := range m.systems {
		if s.Name() == name {
			m.systems = append(m.systems[:i], m.systems[i+1:]...)
			delete(m.metrics, name)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrSystemNotFound, name)
}

// GetExecutionOrder lists system names in the order they run.
func (m *Manager) GetExecutionOrder() []string {
	out := make([]string, len(m.systems))
	for i, s := range m.systems {
		out[i] = s.Name()
	}
	return out
}

func (m *Manager) GetSystemMetrics(name string) (Metrics, bool) {
	mt, ok := m.metrics[name]
	if !ok {
		return Metrics{}, false
	}
	return *mt, true
}

func (m *Manager) FixedUpdate(fixedDeltaTime float64) {
	for _, s := range m.systems {
		m.run(s, PhaseFixedUpdate, func() error { return s.FixedUpdate(fixedDeltaTime) })
	}
}

func (m *Manager) Update(deltaTime float64) {
	for _, s := range m.systems {
		m.run(s, PhaseUpdate, func() error { return s.Update(deltaTime) })
	}
}

func (m *Manager) run(s System, phase ExecutionPhase, fn func() error) {
	start := time.Now()
	err := fn()
	took := time.Since(start)

	mt := m.metrics[s.Name()]
	mt.ExecutionCount++
	mt.TotalExecutionTime += took
	mt.AverageExecutionTime = mt.TotalExecutionTime / time.Duration(mt.ExecutionCount)
	if took > mt.MaxExecutionTime {
		mt.MaxExecutionTime = took
	}
	if err == nil {
		return
	}
	mt.ErrorCount++
	mt.LastError = err
	m.log.Warn("system failed",
		log.String("system", s.Name()),
		log.Stringer("phase", phase),
		log.Error(err))
	if m.onError != nil {
		m.onError(s.Name(), phase, err)
	}
}
