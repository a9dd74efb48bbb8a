package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestPer(t *testing.T) {
	assert.Equal(t, rate.Every(500*time.Millisecond), Per(2, time.Second))
	assert.Equal(t, rate.Every(100*time.Millisecond), Per(10, time.Second))
}

func TestMultiSortsByLimit(t *testing.T) {
	fast := rate.NewLimiter(rate.Limit(10), 10)
	slow := rate.NewLimiter(rate.Limit(1), 1)

	m := Multi(fast, slow)
	// 组合后最严格的限速器排在最前
	assert.Equal(t, rate.Limit(1), m.Limit())
}

func TestMultiWaitCanceled(t *testing.T) {
	l := rate.NewLimiter(rate.Every(time.Hour), 0)
	m := Multi(l)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, m.Wait(ctx))
}
