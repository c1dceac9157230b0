package tawzi

import "math/rand/v2"

// Option configures a Distributor with optional dependencies.
type Option func(*distributorOptions)

// distributorOptions holds optional Distributor configuration.
type distributorOptions struct {
	strategy BalanceStrategy
	metrics  MetricsCollector
	logger   Logger
	hooks    *Hooks
	rng      *rand.Rand
	runID    func() string
}

// WithStrategy sets a custom fallback scoring strategy.
//
// When unset the strategy named by Config.Balance.Strategy is built from
// the configured weights.
//
// Parameters:
//   - s: BalanceStrategy implementation
//
// Returns:
//   - Option: Functional option for NewDistributor
//
// Example:
//
//	s := strategy.NewLoadOnly()
//	d, err := tawzi.NewDistributor(&cfg, tawzi.WithStrategy(s))
func WithStrategy(s BalanceStrategy) Option {
	return func(o *distributorOptions) {
		o.strategy = s
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewDistributor
//
// Example:
//
//	collector := metrics.NewPrometheus(prometheus.DefaultRegisterer, "")
//	d, err := tawzi.NewDistributor(&cfg, tawzi.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *distributorOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewDistributor
//
// Example:
//
//	logger := logging.NewSlog(slog.Default())
//	d, err := tawzi.NewDistributor(&cfg, tawzi.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *distributorOptions) {
		o.logger = logger
	}
}

// WithHooks sets event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for NewDistributor
//
// Example:
//
//	hooks := &tawzi.Hooks{
//	    OnFinalSaved: func(ctx context.Context, rec tawzi.FinalRecord) error {
//	        return publishVersion(ctx, rec.Version)
//	    },
//	}
//	d, err := tawzi.NewDistributor(&cfg, tawzi.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *distributorOptions) {
		o.hooks = hooks
	}
}

// WithRand sets the random source used by every run.
//
// It takes precedence over Config.Seed. Runs sharing one source are
// serialized and Result.Seed is reported as 0.
//
// Parameters:
//   - rng: Random source
//
// Returns:
//   - Option: Functional option for NewDistributor
//
// Example:
//
//	rng := rand.New(rand.NewPCG(1, 2))
//	d, err := tawzi.NewDistributor(&cfg, tawzi.WithRand(rng))
func WithRand(rng *rand.Rand) Option {
	return func(o *distributorOptions) {
		o.rng = rng
	}
}

// WithRunIDGenerator replaces the uuid v4 run ID generator.
//
// Parameters:
//   - fn: Function returning a new run ID
//
// Returns:
//   - Option: Functional option for NewDistributor
func WithRunIDGenerator(fn func() string) Option {
	return func(o *distributorOptions) {
		o.runID = fn
	}
}
