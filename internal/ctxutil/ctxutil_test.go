package ctxutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestActorID(t *testing.T) {
	ctx := context.Background()
	_, ok := ActorID(ctx)
	require.False(t, ok)

	ctx = WithActorID(ctx, 42)
	id, ok := ActorID(ctx)
	require.True(t, ok)
	require.Equal(t, int64(42), id)
}

func TestWithDBTimeoutRespectsNearerParentDeadline(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	ctx, cancel2 := WithDBTimeout(parent)
	defer cancel2()

	dl, ok := ctx.Deadline()
	require.True(t, ok)
	require.LessOrEqual(t, time.Until(dl), 50*time.Millisecond)
}

func TestWithDBTimeoutDefault(t *testing.T) {
	ctx, cancel := WithDBTimeout(context.Background())
	defer cancel()

	dl, ok := ctx.Deadline()
	require.True(t, ok)
	require.Greater(t, time.Until(dl), DefaultDBTimeout-time.Second)
}
