package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPurger struct {
	calls atomic.Int32
	err   error
}

func (c *countingPurger) PurgeExpired(ctx context.Context) (int64, error) {
	c.calls.Add(1)
	return 1, c.err
}

func TestRunOnce(t *testing.T) {
	p := &countingPurger{err: errors.New("db down")}
	NewOTPPurge(p, "").RunOnce(context.Background())
	assert.Equal(t, int32(1), p.calls.Load())
}

func TestStart_InvalidSpec(t *testing.T) {
	err := NewOTPPurge(&countingPurger{}, "not a spec").Start(context.Background())
	require.Error(t, err)
}

func TestStart_RunsOnSchedule(t *testing.T) {
	p := &countingPurger{}
	j := NewOTPPurge(p, "@every 1s")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, j.Start(ctx))
	require.Eventually(t, func() bool { return p.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
	j.Stop()
}
