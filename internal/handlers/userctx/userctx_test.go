package userctx

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestUserCtx(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		id := uuid.New()

		got, ok := FromContext(New(context.Background(), id))

		require.True(t, ok)
		require.Equal(t, id, got)
	})

	t.Run("empty context", func(t *testing.T) {
		got, ok := FromContext(context.Background())

		require.False(t, ok)
		require.Equal(t, uuid.Nil, got)
	})
}
