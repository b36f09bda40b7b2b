package injector

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/zeusync/deskcheck/internal/autopilot"
	"github.com/zeusync/deskcheck/internal/config"
	"github.com/zeusync/deskcheck/internal/core/observability/log"
	"github.com/zeusync/deskcheck/internal/ledger"
)

// BatchBuilder makes autopilot sessions from cfg. Session i deals cards from
// seed cfg.Trial.Seed+i. With a store, every session is recorded under its
// own ledger session.
func BatchBuilder(cfg config.Config, store *ledger.Store, logger log.Log) autopilot.Builder {
	logger = log.OrNop(logger)
	return func(_ context.Context, i int) (*autopilot.Session, error) {
		c := cfg
		c.Trial.Seed = cfg.Trial.Seed + uint64(i)
		c.Autopilot.Seed = cfg.Autopilot.Seed + uint64(i)

		id := uuid.NewString()
		var extras Extras
		if store != nil {
			sess, err := store.NewSession(fmt.Sprintf("autopilot-%d", i), c.Trial.Seed)
			if err != nil {
				return nil, err
			}
			id = sess.ID
			extras.Recorder = store.Recorder(sess.ID)
		}

		h, err := InitializeHeadless(c, extras, logger.With(log.Int("session", i)))
		if err != nil {
			return nil, err
		}
		return &autopilot.Session{
			ID:     id,
			Seed:   c.Trial.Seed,
			Loop:   h.Game.Loop,
			Player: h.Player,
		}, nil
	}
}
