package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/arloliu/tawzi/internal/logging"
	"github.com/arloliu/tawzi/types"
)

// Config holds the engine parameters of one run.
type Config struct {
	// LoadLimit is the maximum number of schools per supervisor.
	LoadLimit int

	// WishRounds is the number of wish ranks considered in pass 2.
	WishRounds int

	// JitterRange bounds the uniform tie-break noise added to pass 3 scores.
	JitterRange float64
}

// DefaultConfig returns the engine defaults: one school per supervisor,
// all four wish ranks and a jitter range of 50.
func DefaultConfig() Config {
	return Config{
		LoadLimit:   1,
		WishRounds:  types.MaxWishRank,
		JitterRange: 50,
	}
}

// pcgStream decorrelates the two PCG words derived from one seed.
const pcgStream = 0x9e3779b97f4a7c15

// NewRand returns the PCG random source used for a seeded run.
//
// The same seed always yields the same sequence, so a run is reproducible
// from the seed recorded in its result.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^pcgStream))
}

// Engine runs the distribution passes over a snapshot.
//
// An Engine is bound to one random source and must not be used from more
// than one goroutine at a time. Callers that run concurrently build one
// Engine per run.
type Engine struct {
	cfg      Config
	strategy types.BalanceStrategy
	rng      *rand.Rand
	logger   types.Logger
}

// New creates an engine.
//
// Parameters:
//   - cfg: Engine parameters; zero LoadLimit or WishRounds fall back to defaults
//   - strategy: Pass 3 scoring strategy (required)
//   - rng: Random source for shuffles and jitter (required)
//   - logger: Logger for decisions, nil means no logging
//
// Returns:
//   - *Engine: Engine ready to run
//   - error: Non-nil when strategy or rng is missing
func New(cfg Config, strategy types.BalanceStrategy, rng *rand.Rand, logger types.Logger) (*Engine, error) {
	if strategy == nil {
		return nil, errors.New("engine: balance strategy is required")
	}
	if rng == nil {
		return nil, errors.New("engine: random source is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	def := DefaultConfig()
	if cfg.LoadLimit <= 0 {
		cfg.LoadLimit = def.LoadLimit
	}
	if cfg.WishRounds <= 0 || cfg.WishRounds > types.MaxWishRank {
		cfg.WishRounds = def.WishRounds
	}
	if cfg.JitterRange < 0 {
		cfg.JitterRange = 0
	}

	return &Engine{
		cfg:      cfg,
		strategy: strategy,
		rng:      rng,
		logger:   logger,
	}, nil
}

// Run computes the final assignment list for the snapshot.
//
// The returned Result carries the assignments in school input order, the run
// log and the run statistics. RunID, Seed and Fingerprint are left for the
// caller to fill.
//
// Parameters:
//   - snap: Input snapshot, never modified
//
// Returns:
//   - types.Result: Final list, log and stats
//   - error: ErrNoSchools when the snapshot has no schools
func (e *Engine) Run(snap types.Snapshot) (types.Result, error) {
	r := newRun(e, snap)

	if len(snap.Schools) == 0 {
		r.record(types.KindInvalidInput, 0, 0, "", "", "no schools to distribute")

		return types.Result{Log: r.log, Stats: r.stats()}, types.ErrNoSchools
	}

	r.record(types.KindInfo, 0, 0, "", "", fmt.Sprintf("active supervisors: %d of %d", len(r.active), len(snap.Supervisors)))
	if len(r.active) == 0 {
		r.record(types.KindInfo, 0, 0, "", "", "no active supervisors, every school stays unassigned")
	}

	r.passFixed()
	r.coverage[0] = r.assignedCount()

	r.passWishes()
	r.coverage[1] = r.assignedCount()

	r.passBalance()
	r.coverage[2] = r.assignedCount()

	stats := r.stats()
	r.record(types.KindInfo, 0, 0, "", "", fmt.Sprintf("distribution complete: %d of %d schools assigned", stats.Assigned(), stats.Schools))
	e.logger.Info("distribution complete",
		"schools", stats.Schools,
		"assigned", stats.Assigned(),
		"active_supervisors", stats.ActiveSupervisors,
		"warnings", len(r.log.Warnings()),
	)

	return types.Result{
		Assignments: r.final,
		Log:         r.log,
		Stats:       stats,
	}, nil
}
