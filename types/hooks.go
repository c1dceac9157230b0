package types

import "context"

// Hooks defines callbacks for Distributor events.
//
// All hooks are optional and run synchronously on the calling goroutine
// after the event. Hook errors are logged and never fail the operation that
// triggered them.
//
// Example:
//
//	hooks := &tawzi.Hooks{
//	    OnRunCompleted: func(ctx context.Context, res tawzi.Result) error {
//	        return notifyAdmins(ctx, res.Log.Warnings())
//	    },
//	}
type Hooks struct {
	// OnRunCompleted is called after a successful run with its result.
	OnRunCompleted func(ctx context.Context, res Result) error

	// OnFinalSaved is called after a final list was stored.
	OnFinalSaved func(ctx context.Context, rec FinalRecord) error

	// OnOverride is called after OverrideStored saved a manual override,
	// with the updated entry.
	OnOverride func(ctx context.Context, entry Assignment) error
}
