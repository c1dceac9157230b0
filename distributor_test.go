package tawzi

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/tawzi/internal/engine"
	"github.com/arloliu/tawzi/internal/hash"
	"github.com/arloliu/tawzi/internal/metrics"
	"github.com/arloliu/tawzi/source"
	"github.com/arloliu/tawzi/store"
	"github.com/arloliu/tawzi/strategy"
	tawzitest "github.com/arloliu/tawzi/testing"
	"github.com/arloliu/tawzi/types"
)

// sampleSnapshot has one wish and two schools whose specialty matches
// exactly one active supervisor each, so the result is seed independent.
func sampleSnapshot() Snapshot {
	return Snapshot{
		Schools: []School{
			{Code: "S1", Name: "Al Noor", Stage: "primary", Type: "general", GuidanceCode: "G1"},
			{Code: "S2", Name: "Al Amal", Stage: "middle", Type: "general", GuidanceCode: "G2"},
			{Code: "S3", Name: "Al Fajr", Stage: "secondary", Type: "private"},
		},
		Supervisors: []Supervisor{
			{Code: "A", Name: "Ahmad", GuidanceCode: "G1"},
			{Code: "B", Name: "Basma", GuidanceCode: "G2"},
			{Code: "C", Name: "Dalia", GuidanceCode: "G3"},
			{Code: "D", Name: "Omar", GuidanceCode: "G1", Status: "غير متاح"},
		},
		Guidance: []Guidance{{Code: "G1", Name: "Arabic"}, {Code: "G2", Name: "Science"}, {Code: "G3", Name: "Math"}},
		Wishes:   []Wish{{SupervisorCode: "C", Choices: [types.MaxWishRank]string{"S3"}}},
	}
}

func newTestDistributor(t *testing.T, cfg Config, opts ...Option) *Distributor {
	t.Helper()

	opts = append([]Option{WithLogger(tawzitest.NewTestLogger(t))}, opts...)
	d, err := NewDistributor(&cfg, opts...)
	require.NoError(t, err)

	return d
}

func byCode(final []Assignment) map[string]Assignment {
	out := make(map[string]Assignment, len(final))
	for _, a := range final {
		out[a.SchoolCode] = a
	}

	return out
}

func TestNewDistributor(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewDistributor(nil)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.WishRounds = 9

		_, err := NewDistributor(&cfg)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("applies defaults in place", func(t *testing.T) {
		cfg := Config{}
		d, err := NewDistributor(&cfg)
		require.NoError(t, err)

		require.Equal(t, DefaultConfig(), cfg)
		require.Equal(t, cfg, d.Config())
	})

	t.Run("builds the configured strategy", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Balance.Strategy = strategy.NameLoadOnly

		d := newTestDistributor(t, cfg)
		require.IsType(t, &strategy.LoadOnly{}, d.strategy)
	})

	t.Run("custom strategy wins over config", func(t *testing.T) {
		custom := strategy.NewFairnessBalanced(strategy.WithSpecialtyPenalty(9000))

		d := newTestDistributor(t, DefaultConfig(), WithStrategy(custom))
		require.Same(t, custom, d.strategy)
	})
}

func TestDistributor_Run(t *testing.T) {
	t.Run("assigns every school and fills run metadata", func(t *testing.T) {
		d := newTestDistributor(t, TestConfig())
		snap := sampleSnapshot()

		res, err := d.Run(context.Background(), snap)
		require.NoError(t, err)

		got := byCode(res.Assignments)
		require.Equal(t, MethodWish1, got["S3"].Method)
		require.Equal(t, "C", got["S3"].SupervisorCode)
		require.Equal(t, "G3", got["S3"].GuidanceCode)
		require.True(t, got["S3"].GuidanceBackfilled)

		require.Equal(t, MethodBalancedSpecialty, got["S1"].Method)
		require.Equal(t, "A", got["S1"].SupervisorCode)
		require.Equal(t, MethodBalancedSpecialty, got["S2"].Method)
		require.Equal(t, "B", got["S2"].SupervisorCode)

		_, err = uuid.Parse(res.RunID)
		require.NoError(t, err)
		require.Equal(t, uint64(42), res.Seed)
		require.Equal(t, hash.Fingerprint(snap), res.Fingerprint)
		require.Equal(t, [3]int{0, 1, 3}, res.Stats.PassCoverage)
		require.Equal(t, 3, res.Stats.ActiveSupervisors)
		require.Equal(t, 1, res.Stats.LatestWishes)
		require.Empty(t, res.Log.Warnings())
	})

	t.Run("same seed gives same result", func(t *testing.T) {
		snap := sampleSnapshot()
		snap.Schools = append(snap.Schools,
			School{Code: "S4", Stage: "primary", Type: "general"},
			School{Code: "S5", Stage: "primary", Type: "general"},
		)
		snap.Supervisors = append(snap.Supervisors,
			Supervisor{Code: "E", Name: "Eman"},
			Supervisor{Code: "F", Name: "Fadi"},
			Supervisor{Code: "G", Name: "Ghada"},
		)

		first, err := newTestDistributor(t, TestConfig()).Run(context.Background(), snap)
		require.NoError(t, err)
		second, err := newTestDistributor(t, TestConfig()).Run(context.Background(), snap)
		require.NoError(t, err)

		require.Equal(t, first.Assignments, second.Assignments)
		require.Equal(t, first.Log, second.Log)
		require.NotEqual(t, first.RunID, second.RunID)
	})

	t.Run("seed from snapshot fingerprint", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SeedFromSnapshot = true
		snap := sampleSnapshot()

		res, err := newTestDistributor(t, cfg).Run(context.Background(), snap)
		require.NoError(t, err)
		require.Equal(t, hash.Fingerprint(snap), res.Seed)
	})

	t.Run("fresh seed is recorded", func(t *testing.T) {
		res, err := newTestDistributor(t, DefaultConfig()).Run(context.Background(), sampleSnapshot())
		require.NoError(t, err)
		require.NotZero(t, res.Seed)

		replay := DefaultConfig()
		replay.Seed = res.Seed
		again, err := newTestDistributor(t, replay).Run(context.Background(), sampleSnapshot())
		require.NoError(t, err)
		require.Equal(t, res.Assignments, again.Assignments)
	})

	t.Run("injected random source", func(t *testing.T) {
		d := newTestDistributor(t, TestConfig(), WithRand(engine.NewRand(3)))

		res, err := d.Run(context.Background(), sampleSnapshot())
		require.NoError(t, err)
		require.Zero(t, res.Seed)
	})

	t.Run("custom run id generator", func(t *testing.T) {
		d := newTestDistributor(t, TestConfig(), WithRunIDGenerator(func() string { return "run-1" }))

		res, err := d.Run(context.Background(), sampleSnapshot())
		require.NoError(t, err)
		require.Equal(t, "run-1", res.RunID)
	})

	t.Run("no schools", func(t *testing.T) {
		d := newTestDistributor(t, TestConfig())

		res, err := d.Run(context.Background(), Snapshot{Supervisors: sampleSnapshot().Supervisors})
		require.ErrorIs(t, err, ErrNoSchools)
		require.Empty(t, res.Assignments)
		require.Len(t, res.Log.Filter(types.KindInvalidInput), 1)
		require.NotEmpty(t, res.RunID)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newTestDistributor(t, TestConfig()).Run(ctx, sampleSnapshot())
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("input snapshot is not modified", func(t *testing.T) {
		snap := sampleSnapshot()
		before := snap.Clone()

		_, err := newTestDistributor(t, TestConfig()).Run(context.Background(), snap)
		require.NoError(t, err)
		require.Equal(t, before, snap)
	})
}

func TestDistributor_ConcurrentRuns(t *testing.T) {
	d := newTestDistributor(t, TestConfig())
	snap := sampleSnapshot()

	want, err := d.Run(context.Background(), snap)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]Assignment, 8)
	errs := make([]error, len(results))
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := d.Run(context.Background(), snap)
			results[i], errs[i] = res.Assignments, err
		}()
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		require.Equal(t, want.Assignments, results[i])
	}
}

func TestDistributor_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	d := newTestDistributor(t, TestConfig(), WithMetrics(metrics.NewPrometheus(reg, "")))

	_, err := d.Run(context.Background(), sampleSnapshot())
	require.NoError(t, err)
	_, err = d.Run(context.Background(), Snapshot{})
	require.ErrorIs(t, err, ErrNoSchools)

	count := func(name string) int {
		n, err := testutil.GatherAndCount(reg, name)
		require.NoError(t, err)

		return n
	}

	// One series per method tag.
	require.Equal(t, 11, count("tawzi_distribution_assignments"))
	// success and aborted
	require.Equal(t, 2, count("tawzi_distribution_runs_total"))
	require.Equal(t, 1, count("tawzi_distribution_warnings_total"))
	require.Equal(t, 1, count("tawzi_distribution_coverage_ratio"))
}

func TestDistributor_Override(t *testing.T) {
	d := newTestDistributor(t, TestConfig())
	snap := sampleSnapshot()

	res, err := d.Run(context.Background(), snap)
	require.NoError(t, err)

	t.Run("locks a supervisor", func(t *testing.T) {
		out, err := d.Override(res.Assignments, snap.Supervisors, "S1", "Dalia")
		require.NoError(t, err)

		got := byCode(out)["S1"]
		require.Equal(t, MethodLocked, got.Method)
		require.Equal(t, "C", got.SupervisorCode)
		require.Equal(t, "G1", got.GuidanceCode)
		require.Equal(t, MethodBalancedSpecialty, byCode(res.Assignments)["S1"].Method)
	})

	t.Run("clears a supervisor", func(t *testing.T) {
		out, err := d.Override(res.Assignments, snap.Supervisors, "S3", "")
		require.NoError(t, err)

		got := byCode(out)["S3"]
		require.Equal(t, MethodLockedCleared, got.Method)
		require.Empty(t, got.SupervisorCode)
		require.Empty(t, got.GuidanceCode)
		require.False(t, got.GuidanceBackfilled)
	})

	t.Run("unknown school and supervisor", func(t *testing.T) {
		_, err := d.Override(res.Assignments, snap.Supervisors, "S9", "Dalia")
		require.ErrorIs(t, err, ErrSchoolNotFound)

		_, err = d.Override(res.Assignments, snap.Supervisors, "S1", "Nobody")
		require.ErrorIs(t, err, ErrSupervisorNotFound)
	})
}

func TestDistributor_Redistribute(t *testing.T) {
	ctx := context.Background()

	t.Run("requires source and store", func(t *testing.T) {
		d := newTestDistributor(t, TestConfig())

		_, _, err := d.Redistribute(ctx, nil, store.NewMemory())
		require.ErrorIs(t, err, ErrSnapshotSourceRequired)

		_, _, err = d.Redistribute(ctx, source.NewStatic(sampleSnapshot()), nil)
		require.ErrorIs(t, err, ErrStoreRequired)

		_, err = d.OverrideStored(ctx, nil, nil, "S1", "")
		require.ErrorIs(t, err, ErrStoreRequired)
	})

	t.Run("stored locks survive the next run", func(t *testing.T) {
		d := newTestDistributor(t, TestConfig())
		snap := sampleSnapshot()
		src := source.NewStatic(snap)
		st := store.NewMemory()

		res, saved, err := d.Redistribute(ctx, src, st)
		require.NoError(t, err)
		require.Equal(t, int64(1), saved.Version)
		require.Equal(t, res.RunID, saved.RunID)
		require.Equal(t, res.Assignments, saved.Assignments)

		edited, err := d.OverrideStored(ctx, st, snap.Supervisors, "S1", "Basma")
		require.NoError(t, err)
		require.Equal(t, int64(2), edited.Version)
		require.Empty(t, edited.RunID)

		res, saved, err = d.Redistribute(ctx, src, st)
		require.NoError(t, err)
		require.Equal(t, int64(3), saved.Version)

		got := byCode(res.Assignments)
		require.Equal(t, MethodLocked, got["S1"].Method)
		require.Equal(t, "B", got["S1"].SupervisorCode)
		require.Equal(t, MethodBalancedGeneral, got["S2"].Method)
		require.Equal(t, "A", got["S2"].SupervisorCode)
		require.Equal(t, MethodWish1, got["S3"].Method)
	})

	t.Run("snapshot previous list takes precedence", func(t *testing.T) {
		d := newTestDistributor(t, TestConfig())
		st := store.NewMemory()

		_, err := st.SaveFinal(ctx, FinalRecord{Assignments: []Assignment{
			{SchoolCode: "S2", SupervisorCode: "C", SupervisorName: "Dalia", Method: MethodLocked},
		}})
		require.NoError(t, err)

		snap := sampleSnapshot()
		snap.Previous = []Assignment{{SchoolCode: "S1", SupervisorCode: "B", SupervisorName: "Basma", Method: MethodLocked}}

		res, _, err := d.Redistribute(ctx, source.NewStatic(snap), st)
		require.NoError(t, err)

		got := byCode(res.Assignments)
		require.Equal(t, MethodLocked, got["S1"].Method)
		require.NotEqual(t, MethodLocked, got["S2"].Method)
	})

	t.Run("nats kv store", func(t *testing.T) {
		_, nc := tawzitest.StartEmbeddedNATS(t)
		st, err := store.NewNATSKV(tawzitest.NewJetStream(t, nc))
		require.NoError(t, err)

		d := newTestDistributor(t, TestConfig())
		res, saved, err := d.Redistribute(ctx, source.NewStatic(sampleSnapshot()), st)
		require.NoError(t, err)
		require.Positive(t, saved.Version)

		latest, err := st.LoadFinal(ctx)
		require.NoError(t, err)
		require.Equal(t, res.Assignments, latest.Assignments)
		require.Equal(t, res.RunID, latest.RunID)
	})
}

func TestDistributor_Hooks(t *testing.T) {
	ctx := context.Background()

	var (
		runs      []Result
		saved     []FinalRecord
		overrides []Assignment
	)
	hooks := &Hooks{
		OnRunCompleted: func(_ context.Context, res Result) error {
			runs = append(runs, res)

			return errors.New("hook failures are only logged")
		},
		OnFinalSaved: func(_ context.Context, rec FinalRecord) error {
			saved = append(saved, rec)

			return nil
		},
		OnOverride: func(_ context.Context, entry Assignment) error {
			overrides = append(overrides, entry)

			return nil
		},
	}

	logger := tawzitest.NewRecordingLogger()
	d := newTestDistributor(t, TestConfig(), WithHooks(hooks), WithLogger(logger))
	snap := sampleSnapshot()
	st := store.NewMemory()

	res, rec, err := d.Redistribute(ctx, source.NewStatic(snap), st)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, res.RunID, runs[0].RunID)
	require.Equal(t, []FinalRecord{rec}, saved)
	require.Equal(t, 1, logger.Count("WARN"))

	_, err = d.OverrideStored(ctx, st, snap.Supervisors, "S2", "")
	require.NoError(t, err)
	require.Len(t, saved, 2)
	require.Len(t, overrides, 1)
	require.Equal(t, "S2", overrides[0].SchoolCode)
	require.Equal(t, MethodLockedCleared, overrides[0].Method)

	_, err = d.Run(ctx, Snapshot{})
	require.ErrorIs(t, err, ErrNoSchools)
	require.Len(t, runs, 1)
}
