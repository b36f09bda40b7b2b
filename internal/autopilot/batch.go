package autopilot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zeusync/deskcheck/internal/core/observability/log"
	"github.com/zeusync/deskcheck/internal/desk"
	"github.com/zeusync/deskcheck/internal/desk/round"
	"github.com/zeusync/deskcheck/pkg/concurrent"
)

var ErrStalled = errors.New("autopilot: session stalled")

// Session is one headless desk ready to run. Close, when set, is called once
// the session ends.
type Session struct {
	ID     string
	Seed   uint64
	Loop   *desk.Loop
	Player *Player
	Close  func() error
}

// Builder makes the desk for session index i.
type Builder func(ctx context.Context, i int) (*Session, error)

type Result struct {
	Index   int           `json:"index"`
	ID      string        `json:"id"`
	Seed    uint64        `json:"seed"`
	Rounds  int           `json:"rounds"`
	Tally   round.Tally   `json:"tally"`
	Wrong   int           `json:"wrong"`
	Frames  int           `json:"frames"`
	SimTime float64       `json:"sim_time"`
	Elapsed time.Duration `json:"elapsed"`
}

// Totals sums the tallies of a batch.
func Totals(results []Result) round.Tally {
	var t round.Tally
	for _, r := range results {
		t.Correct += r.Tally.Correct
		t.Mistakes += r.Tally.Mistakes
	}
	return t
}

// RunBatch builds and plays cfg.Sessions desks, at most cfg.Concurrency at
// a time. Each desk runs on its own goroutine and is never shared.
func RunBatch(ctx context.Context, cfg Config, build Builder, logger log.Log) ([]Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := log.OrNop(logger).Named("autopilot")
	return concurrent.Map(ctx, cfg.Sessions, cfg.Concurrency, func(ctx context.Context, i int) (Result, error) {
		s, err := build(ctx, i)
		if err != nil {
			return Result{Index: i}, fmt.Errorf("build session %d: %w", i, err)
		}
		res, err := play(ctx, cfg, s)
		res.Index = i
		if s.Close != nil {
			if cerr := s.Close(); cerr != nil {
				l.Warn("session close failed", log.Int("session", i), log.Error(cerr))
			}
		}
		if err != nil {
			return res, fmt.Errorf("session %d: %w", i, err)
		}
		l.Info("session done",
			log.Int("session", i),
			log.Int("correct", res.Tally.Correct),
			log.Int("mistakes", res.Tally.Mistakes),
			log.Int("frames", res.Frames))
		return res, nil
	})
}

func play(ctx context.Context, cfg Config, s *Session) (Result, error) {
	start := time.Now()
	seq := s.Loop.Desk().Sequencer()
	res := Result{ID: s.ID, Seed: s.Seed}
	maxFrames := cfg.Rounds * cfg.MaxRoundFrames

	s.Loop.Start()
	defer seq.Stop()
	for decided(seq.Tally()) < cfg.Rounds {
		if res.Frames%256 == 0 {
			if err := ctx.Err(); err != nil {
				return fill(res, s, start), err
			}
		}
		if res.Frames >= maxFrames {
			return fill(res, s, start), fmt.Errorf("%w after %d frames in round %d", ErrStalled, res.Frames, seq.Round())
		}
		s.Loop.Step(cfg.FrameDelta)
		res.Frames++
	}
	return fill(res, s, start), nil
}

func fill(res Result, s *Session, start time.Time) Result {
	seq := s.Loop.Desk().Sequencer()
	res.Rounds = decided(seq.Tally())
	res.Tally = seq.Tally()
	res.SimTime = s.Loop.Clock().TotalTime()
	res.Elapsed = time.Since(start)
	if s.Player != nil {
		res.Wrong = s.Player.Wrong()
	}
	return res
}

func decided(t round.Tally) int { return t.Correct + t.Mistakes }
