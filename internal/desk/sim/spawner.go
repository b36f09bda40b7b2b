package sim

import (
	"errors"
	"fmt"

	"github.com/zeusync/deskcheck/internal/core/observability/log"
	"github.com/zeusync/deskcheck/internal/core/spatial"
	"github.com/zeusync/deskcheck/internal/desk/object"
	"github.com/zeusync/deskcheck/internal/desk/round"
	"github.com/zeusync/deskcheck/internal/desk/trial"
)

var _ round.Spawner = (*Spawner)(nil)

type CardConfig struct {
	// Extents are the half sizes of the card lying flat.
	Extents spatial.Vec3 `yaml:"extents"`
	Mass    float64      `yaml:"mass"`
}

func DefaultCardConfig() CardConfig {
	return CardConfig{Extents: spatial.Vec3{0.0428, 0.001, 0.027}, Mass: 1}
}

func (c CardConfig) Validate() error {
	if c.Extents.X() <= 0 || c.Extents.Y() <= 0 || c.Extents.Z() <= 0 || c.Mass <= 0 {
		return errors.New("sim: card extents and mass must be positive")
	}
	return nil
}

// Spawner deals a trial for every card it makes and registers the card with
// the scene and the world. Recycled bodies are reused.
type Spawner struct {
	cfg    CardConfig
	dealer *trial.Dealer
	scene  *Scene
	world  *World
	log    log.Log

	count  int
	pool   []*Body
	trials map[*object.Object]trial.Trial
}

func NewSpawner(cfg CardConfig, dealer *trial.Dealer, scene *Scene, world *World, logger log.Log) *Spawner {
	return &Spawner{
		cfg:    cfg,
		dealer: dealer,
		scene:  scene,
		world:  world,
		log:    log.OrNop(logger).Named("spawner"),
		trials: make(map[*object.Object]trial.Trial),
	}
}

func (s *Spawner) Spawn(mount spatial.Transform) (*object.Object, error) {
	if s.dealer == nil {
		return nil, errors.New("spawner has no dealer")
	}
	s.count++
	tr := s.dealer.Deal(s.count)

	var body *Body
	if n := len(s.pool); n > 0 {
		body = s.pool[n-1]
		s.pool = s.pool[:n-1]
		body.Teleport(mount)
	} else {
		body = NewBody(mount, s.cfg.Mass, s.cfg.Extents.Y())
	}
	body.SetUseGravity(true)
	body.SetKinematic(false)
	body.SetConstraints(object.ConstraintsNone)

	card := object.New(
		object.WithName(fmt.Sprintf("card-%03d", s.count)),
		object.WithBody(body),
		object.WithValidity(tr.Valid()),
		object.WithBounds(spatial.Box{Extents: s.cfg.Extents}),
	)
	if s.scene != nil {
		s.scene.AddObject(card, s.cfg.Extents)
	}
	if s.world != nil {
		s.world.Add(body)
	}
	s.trials[card] = tr
	s.log.Debug("spawn", log.String("card", card.Name()), log.Stringer("faults", tr.Faults))
	return card, nil
}

func (s *Spawner) Recycle(o *object.Object) {
	if _, ok := s.trials[o]; !ok {
		return
	}
	delete(s.trials, o)
	if s.scene != nil {
		s.scene.RemoveObject(o)
	}
	if body, ok := o.Body().(*Body); ok {
		if s.world != nil {
			s.world.Remove(body)
		}
		s.pool = append(s.pool, body)
	}
	s.log.Debug("recycle", log.String("card", o.Name()))
}

// Trial reports the hidden trial of a live card.
func (s *Spawner) Trial(o *object.Object) (trial.Trial, bool) {
	tr, ok := s.trials[o]
	return tr, ok
}

// Live is the number of cards spawned and not yet recycled.
func (s *Spawner) Live() int { return len(s.trials) }
