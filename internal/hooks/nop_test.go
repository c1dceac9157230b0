package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tawzi/types"
)

func TestNewNop(t *testing.T) {
	hooks := NewNop()
	ctx := context.Background()

	require.NoError(t, hooks.OnRunCompleted(ctx, types.Result{}))
	require.NoError(t, hooks.OnFinalSaved(ctx, types.FinalRecord{Version: 1}))
	require.NoError(t, hooks.OnOverride(ctx, types.Assignment{SchoolCode: "S1"}))
}

func TestWithDefaults(t *testing.T) {
	ctx := context.Background()

	t.Run("nil hooks", func(t *testing.T) {
		hooks := WithDefaults(nil)

		require.NoError(t, hooks.OnRunCompleted(ctx, types.Result{}))
		require.NoError(t, hooks.OnFinalSaved(ctx, types.FinalRecord{}))
		require.NoError(t, hooks.OnOverride(ctx, types.Assignment{}))
	})

	t.Run("keeps caller callbacks", func(t *testing.T) {
		errSaved := errors.New("saved")
		hooks := WithDefaults(&types.Hooks{
			OnFinalSaved: func(context.Context, types.FinalRecord) error { return errSaved },
		})

		require.ErrorIs(t, hooks.OnFinalSaved(ctx, types.FinalRecord{}), errSaved)
		require.NoError(t, hooks.OnRunCompleted(ctx, types.Result{}))
		require.NoError(t, hooks.OnOverride(ctx, types.Assignment{}))
	})
}
