package tawzi

import (
	"fmt"
	"os"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/tawzi/strategy"
	"github.com/arloliu/tawzi/types"
)

// BalanceConfig controls the fallback pass.
//
// The fairness score of a candidate is
//
//	total*TotalWeight + stage*StageWeight + type*TypeWeight (+ SpecialtyPenalty on mismatch)
//
// plus a uniform jitter in [0, JitterRange). Lower wins.
//
// A zero weight or jitter means unset and SetDefaults replaces it, so a
// weight cannot be switched off through Config. Use a very small positive
// value, or inject a strategy with WithStrategy.
type BalanceConfig struct {
	// Strategy selects the scoring strategy ("fairness" or "load-only").
	// Empty selects "fairness".
	Strategy string `yaml:"strategy"`

	// TotalWeight is the weight of the candidate's total load.
	TotalWeight float64 `yaml:"totalWeight"`

	// StageWeight is the weight of the candidate's load in the school's stage.
	// Zero selects the default.
	StageWeight float64 `yaml:"stageWeight"`

	// TypeWeight is the weight of the candidate's load in the school's type.
	// Zero selects the default.
	TypeWeight float64 `yaml:"typeWeight"`

	// SpecialtyPenalty is added when the candidate's guidance differs from the school's.
	SpecialtyPenalty float64 `yaml:"specialtyPenalty"`

	// JitterRange bounds the random tie-break noise. Zero selects the default.
	// Must stay below SpecialtyPenalty (fairness) or TotalWeight (load-only)
	// so that noise never beats a specialty match or a load difference.
	JitterRange float64 `yaml:"jitterRange"`
}

// StoreConfig configures the NATS KV final list store.
type StoreConfig struct {
	// Bucket is the JetStream KV bucket name.
	Bucket string `yaml:"bucket"`

	// Key is the KV key holding the latest final list.
	Key string `yaml:"key"`

	// History is the number of revisions kept by the bucket (1..64).
	History uint8 `yaml:"history"`

	// OperationTimeout bounds each KV operation.
	OperationTimeout time.Duration `yaml:"operationTimeout"`
}

// Config is the configuration for the Distributor.
//
// Zero values are replaced by defaults in SetDefaults, so a partial YAML
// document only needs the fields it changes.
type Config struct {
	// LoadLimit is the maximum number of schools per supervisor.
	// Locks carried from the previous run may exceed it; nothing else does.
	LoadLimit int `yaml:"loadLimit"`

	// WishRounds is the number of wish ranks honored (1..4).
	WishRounds int `yaml:"wishRounds"`

	// Seed fixes the random source for reproducible runs. 0 means unset.
	Seed uint64 `yaml:"seed"`

	// SeedFromSnapshot derives the seed from the snapshot fingerprint when
	// Seed is unset, so identical input always yields the identical result.
	SeedFromSnapshot bool `yaml:"seedFromSnapshot"`

	// Balance controls the fallback pass.
	Balance BalanceConfig `yaml:"balance"`

	// Store controls the NATS KV store.
	Store StoreConfig `yaml:"store"`
}

// DefaultConfig returns a Config with the production defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		LoadLimit:  1,
		WishRounds: types.MaxWishRank,
		Balance: BalanceConfig{
			Strategy:         strategy.NameFairness,
			TotalWeight:      strategy.DefaultTotalWeight,
			StageWeight:      strategy.DefaultStageWeight,
			TypeWeight:       strategy.DefaultTypeWeight,
			SpecialtyPenalty: strategy.DefaultSpecialtyPenalty,
			JitterRange:      50,
		},
		Store: StoreConfig{
			Bucket:           "tawzi-final",
			Key:              "final.latest",
			History:          10,
			OperationTimeout: 5 * time.Second,
		},
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.LoadLimit == 0 {
		cfg.LoadLimit = defaults.LoadLimit
	}
	if cfg.WishRounds == 0 {
		cfg.WishRounds = defaults.WishRounds
	}
	if cfg.Balance.Strategy == "" {
		cfg.Balance.Strategy = defaults.Balance.Strategy
	}
	if cfg.Balance.TotalWeight == 0 {
		cfg.Balance.TotalWeight = defaults.Balance.TotalWeight
	}
	if cfg.Balance.StageWeight == 0 {
		cfg.Balance.StageWeight = defaults.Balance.StageWeight
	}
	if cfg.Balance.TypeWeight == 0 {
		cfg.Balance.TypeWeight = defaults.Balance.TypeWeight
	}
	if cfg.Balance.SpecialtyPenalty == 0 {
		cfg.Balance.SpecialtyPenalty = defaults.Balance.SpecialtyPenalty
	}
	if cfg.Balance.JitterRange == 0 {
		cfg.Balance.JitterRange = defaults.Balance.JitterRange
	}
	if cfg.Store.Bucket == "" {
		cfg.Store.Bucket = defaults.Store.Bucket
	}
	if cfg.Store.Key == "" {
		cfg.Store.Key = defaults.Store.Key
	}
	if cfg.Store.History == 0 {
		cfg.Store.History = defaults.Store.History
	}
	if cfg.Store.OperationTimeout == 0 {
		cfg.Store.OperationTimeout = defaults.Store.OperationTimeout
	}
}

// Validate checks configuration constraints and returns an error for invalid values.
//
// Hard Validation Rules:
//   - LoadLimit >= 1
//   - 1 <= WishRounds <= 4
//   - Balance weights and JitterRange are not negative
//   - JitterRange < SpecialtyPenalty for the fairness strategy
//   - JitterRange < TotalWeight for the load-only strategy
//   - Balance.Strategy names a built-in strategy
//   - 1 <= Store.History <= 64 and Store.OperationTimeout > 0
//
// Returns:
//   - error: ErrInvalidConfig wrapped with the violated rule, nil if valid
func (cfg *Config) Validate() error {
	if cfg.LoadLimit < 1 {
		return fmt.Errorf("%w: LoadLimit must be >= 1, got %d", ErrInvalidConfig, cfg.LoadLimit)
	}

	if cfg.WishRounds < 1 || cfg.WishRounds > types.MaxWishRank {
		return fmt.Errorf("%w: WishRounds must be in 1..%d, got %d", ErrInvalidConfig, types.MaxWishRank, cfg.WishRounds)
	}

	b := cfg.Balance
	if b.TotalWeight < 0 || b.StageWeight < 0 || b.TypeWeight < 0 || b.SpecialtyPenalty < 0 {
		return fmt.Errorf("%w: balance weights must not be negative", ErrInvalidConfig)
	}
	if b.JitterRange < 0 {
		return fmt.Errorf("%w: JitterRange must not be negative, got %v", ErrInvalidConfig, b.JitterRange)
	}

	switch b.Strategy {
	case strategy.NameFairness:
		if b.JitterRange >= b.SpecialtyPenalty {
			return fmt.Errorf(
				"%w: JitterRange (%v) must be < SpecialtyPenalty (%v) so noise never overrides specialty",
				ErrInvalidConfig, b.JitterRange, b.SpecialtyPenalty,
			)
		}
	case strategy.NameLoadOnly:
		if b.JitterRange >= b.TotalWeight {
			return fmt.Errorf(
				"%w: JitterRange (%v) must be < TotalWeight (%v) so noise never overrides load",
				ErrInvalidConfig, b.JitterRange, b.TotalWeight,
			)
		}
	default:
		return fmt.Errorf("%w: unknown balance strategy %q", ErrInvalidConfig, b.Strategy)
	}

	if cfg.Store.History < 1 || cfg.Store.History > jetstream.KeyValueMaxHistory {
		return fmt.Errorf("%w: Store.History must be in 1..%d, got %d", ErrInvalidConfig, jetstream.KeyValueMaxHistory, cfg.Store.History)
	}
	if cfg.Store.OperationTimeout <= 0 {
		return fmt.Errorf("%w: Store.OperationTimeout must be > 0, got %v", ErrInvalidConfig, cfg.Store.OperationTimeout)
	}

	return nil
}

// ValidateWithWarnings checks configuration and logs warnings for non-recommended values.
//
// This is called after Validate() in NewDistributor() to provide operator guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	if cfg.LoadLimit > 1 {
		logger.Warn(
			"LoadLimit above 1 lets one supervisor cover several schools",
			"loadLimit", cfg.LoadLimit,
			"recommended", 1,
		)
	}

	if cfg.Seed != 0 && cfg.SeedFromSnapshot {
		logger.Warn(
			"Seed and SeedFromSnapshot are both set, the explicit seed wins",
			"seed", cfg.Seed,
		)
	}

	if cfg.Balance.Strategy == strategy.NameFairness && cfg.Balance.JitterRange > cfg.Balance.TotalWeight {
		logger.Warn(
			"JitterRange exceeds TotalWeight, noise may override load balancing",
			"jitterRange", cfg.Balance.JitterRange,
			"totalWeight", cfg.Balance.TotalWeight,
		)
	}
}

// LoadConfig reads a YAML configuration file, applies defaults and validates it.
//
// Parameters:
//   - path: Path to the YAML document
//
// Returns:
//   - Config: Loaded configuration
//   - error: Read, parse or validation error
//
// Example:
//
//	cfg, err := tawzi.LoadConfig("tawzi.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// TestConfig returns a configuration with a fixed seed for reproducible tests.
//
// Returns:
//   - Config: Default configuration with Seed set
//
// Example:
//
//	cfg := tawzi.TestConfig()
//	d, err := tawzi.NewDistributor(&cfg)
func TestConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.Store.OperationTimeout = time.Second

	return cfg
}
