package tawzi

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arloliu/tawzi/internal/engine"
	"github.com/arloliu/tawzi/internal/hash"
	"github.com/arloliu/tawzi/internal/hooks"
	"github.com/arloliu/tawzi/internal/logging"
	"github.com/arloliu/tawzi/internal/metrics"
	"github.com/arloliu/tawzi/strategy"
	"github.com/arloliu/tawzi/types"
)

// Distributor runs supervisor distributions.
//
// Each Run builds its own engine, load tracker and random source, so a
// Distributor is safe for concurrent use. Runs sharing a source injected
// with WithRand are serialized.
type Distributor struct {
	cfg      Config
	strategy BalanceStrategy
	metrics  MetricsCollector
	logger   Logger
	hooks    Hooks
	runID    func() string

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewDistributor creates a new distributor.
//
// Parameters:
//   - cfg: Configuration; defaults are applied in place before validation
//   - opts: Optional dependencies (WithStrategy, WithLogger, WithMetrics, WithHooks, WithRand)
//
// Returns:
//   - *Distributor: Distributor ready to run
//   - error: ErrInvalidConfig when cfg is nil or invalid
//
// Example:
//
//	cfg := tawzi.DefaultConfig()
//	d, err := tawzi.NewDistributor(&cfg, tawzi.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	res, err := d.Run(ctx, snap)
func NewDistributor(cfg *Config, opts ...Option) (*Distributor, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}

	SetDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	options := &distributorOptions{}
	for _, opt := range opts {
		opt(options)
	}

	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logging.NewNop()
	}

	cfg.ValidateWithWarnings(loggerInstance)

	balance := options.strategy
	if balance == nil {
		var err error
		balance, err = strategy.ByName(cfg.Balance.Strategy,
			strategy.WithTotalWeight(cfg.Balance.TotalWeight),
			strategy.WithStageWeight(cfg.Balance.StageWeight),
			strategy.WithTypeWeight(cfg.Balance.TypeWeight),
			strategy.WithSpecialtyPenalty(cfg.Balance.SpecialtyPenalty),
			strategy.WithLogger(loggerInstance),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	runID := options.runID
	if runID == nil {
		runID = uuid.NewString
	}

	return &Distributor{
		cfg:      *cfg,
		strategy: balance,
		metrics:  metricsCollector,
		logger:   loggerInstance,
		hooks:    hooks.WithDefaults(options.hooks),
		runID:    runID,
		rng:      options.rng,
	}, nil
}

// Config returns a copy of the effective configuration.
func (d *Distributor) Config() Config {
	return d.cfg
}

// Run computes the final assignment list for a snapshot.
//
// The snapshot is never modified. Non-fatal problems (unresolved wishes,
// exhausted capacity, stale locks) are entries of Result.Log, not errors.
//
// Parameters:
//   - ctx: Context checked before the run starts
//   - snap: Input snapshot; Previous carries the prior run's final list
//
// Returns:
//   - Result: Final list, run log and statistics with RunID, Seed and Fingerprint set
//   - error: ErrNoSchools for an empty school set (the Result still carries the log),
//     or the context error
func (d *Distributor) Run(ctx context.Context, snap Snapshot) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	fingerprint := hash.Fingerprint(snap)

	rng, seed, release := d.random(fingerprint)
	defer release()

	eng, err := engine.New(engine.Config{
		LoadLimit:   d.cfg.LoadLimit,
		WishRounds:  d.cfg.WishRounds,
		JitterRange: d.cfg.Balance.JitterRange,
	}, d.strategy, rng, d.logger)
	if err != nil {
		return Result{}, err
	}

	res, err := eng.Run(snap)
	res.RunID = d.runID()
	res.Seed = seed
	res.Fingerprint = fingerprint

	d.recordRun(res, err, time.Since(start))

	if err != nil {
		d.logger.Warn("distribution aborted", "runID", res.RunID, "error", err)

		return res, err
	}

	d.logger.Debug("distribution run finished",
		"runID", res.RunID,
		"seed", seed,
		"fingerprint", fingerprint,
		"duration", time.Since(start),
	)

	if err := d.hooks.OnRunCompleted(ctx, res); err != nil {
		d.logger.Warn("OnRunCompleted hook failed", "runID", res.RunID, "error", err)
	}

	return res, nil
}

// random returns the source for one run, the seed it was built from and a
// release function that must be called when the run ends.
func (d *Distributor) random(fingerprint uint64) (*rand.Rand, uint64, func()) {
	if d.rng != nil {
		d.rngMu.Lock()

		return d.rng, 0, d.rngMu.Unlock
	}

	seed := d.cfg.Seed
	if seed == 0 && d.cfg.SeedFromSnapshot {
		seed = fingerprint
	}
	for seed == 0 {
		seed = rand.Uint64()
	}

	return engine.NewRand(seed), seed, func() {}
}

func (d *Distributor) recordRun(res Result, runErr error, elapsed time.Duration) {
	d.metrics.RecordRunDuration(elapsed.Seconds())
	d.metrics.RecordRun(runErr == nil)

	warnings := make(map[LogKind]int)
	for _, e := range res.Log.Warnings() {
		warnings[e.Kind]++
	}
	for kind, n := range warnings {
		d.metrics.RecordWarnings(string(kind), n)
	}

	if runErr != nil {
		return
	}

	for m := MethodUnassigned; m <= MethodLocked; m++ {
		d.metrics.RecordAssignments(m.String(), res.Stats.ByMethod[m.String()])
	}
	d.metrics.RecordCoverage(res.Stats.Coverage())
	d.metrics.RecordUnassigned(res.Stats.Schools - res.Stats.Assigned())
}

// Override sets or clears the supervisor of one school in a final list.
//
// A non-empty name produces a locked entry that future runs carry forward
// unchanged. An empty name clears the entry (locked-cleared), which future
// runs recompute.
//
// Parameters:
//   - final: Current final list, never modified
//   - supervisors: Supervisor records used to resolve the name
//   - schoolCode: Target school
//   - supervisorName: Exact supervisor name, or "" to clear
//
// Returns:
//   - []Assignment: Updated copy of the final list
//   - error: ErrSchoolNotFound or ErrSupervisorNotFound
func (d *Distributor) Override(final []Assignment, supervisors []Supervisor, schoolCode, supervisorName string) ([]Assignment, error) {
	out, err := engine.Override(final, supervisors, schoolCode, supervisorName)
	if err != nil {
		return nil, err
	}

	d.logger.Info("manual override applied", "school", schoolCode, "supervisor", supervisorName)

	return out, nil
}

// OverrideStored applies Override to the latest stored final list and
// saves the result as a new record with an empty RunID.
//
// Parameters:
//   - ctx: Context for store operations
//   - store: Final list store
//   - supervisors: Supervisor records used to resolve the name
//   - schoolCode: Target school
//   - supervisorName: Exact supervisor name, or "" to clear
//
// Returns:
//   - FinalRecord: Saved record
//   - error: ErrStoreRequired, store errors, or Override errors
func (d *Distributor) OverrideStored(ctx context.Context, store AssignmentStore, supervisors []Supervisor, schoolCode, supervisorName string) (FinalRecord, error) {
	if store == nil {
		return FinalRecord{}, ErrStoreRequired
	}

	latest, err := store.LoadFinal(ctx)
	if err != nil {
		return FinalRecord{}, fmt.Errorf("failed to load final list: %w", err)
	}

	updated, err := d.Override(latest.Assignments, supervisors, schoolCode, supervisorName)
	if err != nil {
		return FinalRecord{}, err
	}

	saved, err := store.SaveFinal(ctx, FinalRecord{Assignments: updated})
	if err != nil {
		return FinalRecord{}, fmt.Errorf("failed to save final list: %w", err)
	}

	d.savedHook(ctx, saved)
	for _, a := range updated {
		if a.SchoolCode != schoolCode {
			continue
		}
		if err := d.hooks.OnOverride(ctx, a); err != nil {
			d.logger.Warn("OnOverride hook failed", "school", schoolCode, "error", err)
		}

		break
	}

	return saved, nil
}

// Redistribute loads a snapshot, runs it and stores the final list.
//
// When the snapshot carries no previous final list, the store's latest
// record is used instead so that locks survive between runs.
//
// Parameters:
//   - ctx: Context for the source and store operations
//   - src: Snapshot source
//   - store: Final list store
//
// Returns:
//   - Result: Run result
//   - FinalRecord: Saved record (Version set by the store)
//   - error: ErrSnapshotSourceRequired, ErrStoreRequired, load, run or save errors
func (d *Distributor) Redistribute(ctx context.Context, src SnapshotSource, store AssignmentStore) (Result, FinalRecord, error) {
	if src == nil {
		return Result{}, FinalRecord{}, ErrSnapshotSourceRequired
	}
	if store == nil {
		return Result{}, FinalRecord{}, ErrStoreRequired
	}

	snap, err := src.LoadSnapshot(ctx)
	if err != nil {
		return Result{}, FinalRecord{}, fmt.Errorf("failed to load snapshot: %w", err)
	}

	if len(snap.Previous) == 0 {
		latest, err := store.LoadFinal(ctx)
		switch {
		case err == nil:
			snap.Previous = latest.Assignments
			d.logger.Debug("using stored final list", "version", latest.Version, "runID", latest.RunID)
		case errors.Is(err, types.ErrNoFinalRecord):
		default:
			return Result{}, FinalRecord{}, fmt.Errorf("failed to load final list: %w", err)
		}
	}

	res, err := d.Run(ctx, snap)
	if err != nil {
		return res, FinalRecord{}, err
	}

	saved, err := store.SaveFinal(ctx, FinalRecord{RunID: res.RunID, Assignments: res.Assignments})
	if err != nil {
		return res, FinalRecord{}, fmt.Errorf("failed to save final list: %w", err)
	}

	d.logger.Info("final list stored", "runID", res.RunID, "version", saved.Version)
	d.savedHook(ctx, saved)

	return res, saved, nil
}

func (d *Distributor) savedHook(ctx context.Context, rec FinalRecord) {
	if err := d.hooks.OnFinalSaved(ctx, rec); err != nil {
		d.logger.Warn("OnFinalSaved hook failed", "version", rec.Version, "error", err)
	}
}
