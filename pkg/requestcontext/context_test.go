package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccessors(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))
	assert.Empty(t, Caller(ctx))

	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ctx = WithRequestID(ctx, "req-123")
	ctx = WithCaller(ctx, "intake")
	ctx = WithTime(ctx, fixed)

	assert.Equal(t, "req-123", RequestID(ctx))
	assert.Equal(t, "intake", Caller(ctx))
	assert.Equal(t, fixed, Now(ctx))
}

func TestNow_FallsBackToWallClock(t *testing.T) {
	assert.WithinDuration(t, time.Now(), Now(context.Background()), time.Second)
}
