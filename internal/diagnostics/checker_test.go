package diagnostics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCachesResultWithinTTL(t *testing.T) {
	c := NewChecker(time.Second)
	c.SetCacheTTL(time.Minute)

	calls := 0
	c.Register("always-ok", func(ctx context.Context) error {
		calls++
		return nil
	})

	for i := 0; i < 3; i++ {
		_, err := c.Run(context.Background(), "always-ok")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, calls)
}

func TestRunReturnsErrorForUnknownCheck(t *testing.T) {
	c := NewChecker(time.Second)
	_, err := c.Run(context.Background(), "nope")
	assert.Error(t, err)
}

func TestOverallStatusReflectsWorstCheck(t *testing.T) {
	c := NewChecker(time.Second)
	c.Register("ok", func(ctx context.Context) error { return nil })
	c.Register("bad", func(ctx context.Context) error { return errors.New("boom") })

	assert.Equal(t, StatusUnhealthy, c.OverallStatus(context.Background()))
}

func TestOverallStatusHealthyWithNoChecks(t *testing.T) {
	c := NewChecker(time.Second)
	assert.Equal(t, StatusHealthy, c.OverallStatus(context.Background()))
}

func TestDiagnoseAggregatesAllChecks(t *testing.T) {
	c := NewChecker(time.Second)
	c.Register("ok", func(ctx context.Context) error { return nil })
	c.Register("bad", func(ctx context.Context) error { return errors.New("boom") })

	report := c.Diagnose(context.Background())
	assert.Len(t, report.Checks, 2)
	assert.Equal(t, StatusUnhealthy, report.Status)
}
