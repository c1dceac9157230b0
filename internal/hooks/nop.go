// Package hooks provides default Distributor hook implementations.
package hooks

import (
	"context"

	"github.com/arloliu/tawzi/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements hook callbacks.
var (
	_ func(context.Context, types.Result) error      = (*NopHooks)(nil).OnRunCompleted
	_ func(context.Context, types.FinalRecord) error = (*NopHooks)(nil).OnFinalSaved
	_ func(context.Context, types.Assignment) error  = (*NopHooks)(nil).OnOverride
)

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - types.Hooks: Hooks with no-op implementations
func NewNop() types.Hooks {
	h := &NopHooks{}

	return types.Hooks{
		OnRunCompleted: h.OnRunCompleted,
		OnFinalSaved:   h.OnFinalSaved,
		OnOverride:     h.OnOverride,
	}
}

// WithDefaults returns a copy of h where every nil callback is a no-op.
//
// Parameters:
//   - h: Caller hooks, may be nil
//
// Returns:
//   - types.Hooks: Hooks without nil callbacks
func WithDefaults(h *types.Hooks) types.Hooks {
	out := NewNop()
	if h == nil {
		return out
	}
	if h.OnRunCompleted != nil {
		out.OnRunCompleted = h.OnRunCompleted
	}
	if h.OnFinalSaved != nil {
		out.OnFinalSaved = h.OnFinalSaved
	}
	if h.OnOverride != nil {
		out.OnOverride = h.OnOverride
	}

	return out
}

// OnRunCompleted is a no-op implementation.
func (h *NopHooks) OnRunCompleted(ctx context.Context, res types.Result) error {
	return nil
}

// OnFinalSaved is a no-op implementation.
func (h *NopHooks) OnFinalSaved(ctx context.Context, rec types.FinalRecord) error {
	return nil
}

// OnOverride is a no-op implementation.
func (h *NopHooks) OnOverride(ctx context.Context, entry types.Assignment) error {
	return nil
}
