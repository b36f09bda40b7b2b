package autopilot_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/deskcheck/internal/autopilot"
	"github.com/zeusync/deskcheck/internal/config"
	"github.com/zeusync/deskcheck/internal/desk/round"
	"github.com/zeusync/deskcheck/internal/injector"
	"github.com/zeusync/deskcheck/internal/ledger"
)

func batchConfig() config.Config {
	cfg := config.Default()
	cfg.Autopilot.Sessions = 2
	cfg.Autopilot.Rounds = 3
	cfg.Autopilot.Concurrency = 2
	return cfg
}

func TestPerfectPlayer(t *testing.T) {
	cfg := batchConfig()
	results, err := autopilot.RunBatch(context.Background(), cfg.Autopilot, injector.BatchBuilder(cfg, nil, nil), nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, uint64(i), r.Seed)
		assert.Equal(t, 3, r.Rounds)
		assert.Equal(t, round.Tally{Correct: 3}, r.Tally)
		assert.Zero(t, r.Wrong)
		assert.NotEmpty(t, r.ID)
		assert.Positive(t, r.Frames)
	}
	assert.Equal(t, round.Tally{Correct: 6}, autopilot.Totals(results))
}

func TestAlwaysWrongPlayer(t *testing.T) {
	cfg := batchConfig()
	cfg.Autopilot.MistakeRate = 1
	cfg.Autopilot.Handle = false
	results, err := autopilot.RunBatch(context.Background(), cfg.Autopilot, injector.BatchBuilder(cfg, nil, nil), nil)
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, round.Tally{Mistakes: 3}, r.Tally)
		assert.Equal(t, 3, r.Wrong)
	}
}

func TestBatchRecordsToLedger(t *testing.T) {
	store, err := ledger.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cfg := batchConfig()
	cfg.Autopilot.Handle = false
	results, err := autopilot.RunBatch(context.Background(), cfg.Autopilot, injector.BatchBuilder(cfg, store, nil), nil)
	require.NoError(t, err)

	for _, r := range results {
		sum, err := store.Summary(r.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, sum.Decisions)
		assert.Equal(t, r.Tally.Correct, sum.Correct)
		decisions, err := store.Decisions(r.ID)
		require.NoError(t, err)
		require.Len(t, decisions, 3)
		assert.Equal(t, 1, decisions[0].Round)
	}
}

func TestStalledSession(t *testing.T) {
	cfg := batchConfig()
	cfg.Autopilot.Sessions = 1
	cfg.Autopilot.Rounds = 1
	cfg.Autopilot.MaxRoundFrames = 1
	_, err := autopilot.RunBatch(context.Background(), cfg.Autopilot, injector.BatchBuilder(cfg, nil, nil), nil)
	require.ErrorIs(t, err, autopilot.ErrStalled)
}

func TestBuildFailure(t *testing.T) {
	cfg := batchConfig()
	boom := errors.New("boom")
	build := func(context.Context, int) (*autopilot.Session, error) { return nil, boom }
	_, err := autopilot.RunBatch(context.Background(), cfg.Autopilot, build, nil)
	require.ErrorIs(t, err, boom)
}

func TestCancelledBatch(t *testing.T) {
	cfg := batchConfig()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := autopilot.RunBatch(ctx, cfg.Autopilot, injector.BatchBuilder(cfg, nil, nil), nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestInvalidBatchConfig(t *testing.T) {
	cfg := autopilot.DefaultConfig()
	cfg.Sessions = 0
	_, err := autopilot.RunBatch(context.Background(), cfg, nil, nil)
	require.Error(t, err)
}
