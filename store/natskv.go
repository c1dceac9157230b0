package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/tawzi/internal/kvutil"
	"github.com/arloliu/tawzi/internal/logging"
	"github.com/arloliu/tawzi/internal/metrics"
	"github.com/arloliu/tawzi/internal/natsutil"
	"github.com/arloliu/tawzi/types"
)

const (
	// DefaultBucket is the KV bucket holding final lists.
	DefaultBucket = "tawzi-final"

	// DefaultKey is the key of the latest final list.
	DefaultKey = "final.latest"

	// DefaultHistory is the number of revisions the bucket keeps.
	DefaultHistory = 10

	defaultOperationTimeout = 5 * time.Second
)

// NATSKV stores final lists in a NATS JetStream KeyValue bucket.
//
// Each save is a JSON document under one key; the KV revision is the record
// version. The bucket is created on first use.
type NATSKV struct {
	js      jetstream.JetStream
	bucket  string
	key     string
	history uint8
	timeout time.Duration
	retry   kvutil.Retry
	logger  types.Logger
	metrics types.StoreMetrics

	mu sync.Mutex
	kv jetstream.KeyValue
}

var _ types.AssignmentStore = (*NATSKV)(nil)

// NATSKVOption configures a NATSKV store.
type NATSKVOption func(*NATSKV)

// WithBucket sets the bucket name (default: "tawzi-final").
func WithBucket(bucket string) NATSKVOption {
	return func(s *NATSKV) {
		s.bucket = bucket
	}
}

// WithKey sets the key of the final list (default: "final.latest").
func WithKey(key string) NATSKVOption {
	return func(s *NATSKV) {
		s.key = key
	}
}

// WithHistory sets how many revisions the bucket keeps (1..64, default: 10).
func WithHistory(n uint8) NATSKVOption {
	return func(s *NATSKV) {
		s.history = n
	}
}

// WithOperationTimeout bounds every KV call (default: 5s).
func WithOperationTimeout(d time.Duration) NATSKVOption {
	return func(s *NATSKV) {
		s.timeout = d
	}
}

// WithRetry sets the retry policy of bucket creation.
func WithRetry(r kvutil.Retry) NATSKVOption {
	return func(s *NATSKV) {
		s.retry = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger types.Logger) NATSKVOption {
	return func(s *NATSKV) {
		s.logger = logger
	}
}

// WithMetrics sets the collector receiving store operation latencies.
func WithMetrics(m types.StoreMetrics) NATSKVOption {
	return func(s *NATSKV) {
		s.metrics = m
	}
}

// NewNATSKV creates a JetStream KV backed store.
//
// Parameters:
//   - js: JetStream context
//   - opts: Optional configuration (WithBucket, WithKey, WithHistory, WithOperationTimeout, WithRetry, WithLogger, WithMetrics)
//
// Returns:
//   - *NATSKV: Store ready to use; the bucket is created lazily
//   - error: Non-nil when js is nil or the options are invalid
//
// Example:
//
//	nc, _ := nats.Connect(url)
//	js, _ := jetstream.New(nc)
//	st, err := store.NewNATSKV(js, store.WithBucket("exam-2026"))
func NewNATSKV(js jetstream.JetStream, opts ...NATSKVOption) (*NATSKV, error) {
	if js == nil {
		return nil, errors.New("jetstream context is required")
	}

	s := &NATSKV{
		js:      js,
		bucket:  DefaultBucket,
		key:     DefaultKey,
		history: DefaultHistory,
		timeout: defaultOperationTimeout,
		logger:  logging.NewNop(),
		metrics: metrics.NewNop(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.metrics == nil {
		s.metrics = metrics.NewNop()
	}
	if s.bucket == "" || s.key == "" {
		return nil, fmt.Errorf("%w: bucket and key must not be empty", types.ErrInvalidConfig)
	}
	if s.history < 1 || s.history > jetstream.KeyValueMaxHistory {
		return nil, fmt.Errorf("%w: history must be within 1..%d", types.ErrInvalidConfig, jetstream.KeyValueMaxHistory)
	}
	if s.timeout <= 0 {
		s.timeout = defaultOperationTimeout
	}

	return s, nil
}

// SaveFinal writes rec as the new latest revision.
//
// Returns:
//   - types.FinalRecord: Stored record with Version set to the KV revision
//   - error: types.ErrStoreFailed or types.ErrStoreUnavailable wrapping the cause
func (s *NATSKV) SaveFinal(ctx context.Context, rec types.FinalRecord) (types.FinalRecord, error) {
	start := time.Now()
	stored, err := s.save(ctx, rec)
	s.metrics.RecordStoreOperation("save", time.Since(start).Seconds(), err == nil)
	if err != nil {
		s.logger.Error("failed to save final list", "bucket", s.bucket, "key", s.key, "error", err)

		return types.FinalRecord{}, err
	}

	s.logger.Info("final list saved", "bucket", s.bucket, "version", stored.Version, "run_id", stored.RunID)

	return stored, nil
}

func (s *NATSKV) save(ctx context.Context, rec types.FinalRecord) (types.FinalRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	kv, err := s.bucketKV(ctx)
	if err != nil {
		return types.FinalRecord{}, err
	}

	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now().UTC()
	}
	rec.Version = 0
	data, err := json.Marshal(rec)
	if err != nil {
		return types.FinalRecord{}, fmt.Errorf("%w: encode: %w", types.ErrStoreFailed, err)
	}

	rev, err := kv.Put(ctx, s.key, data)
	if err != nil {
		return types.FinalRecord{}, natsutil.Classify("put "+s.key, err)
	}

	rec.Version = int64(rev) //nolint:gosec // KV revisions stay far below MaxInt64
	rec.Assignments = slices.Clone(rec.Assignments)

	return rec, nil
}

// LoadFinal reads the latest revision.
//
// Returns:
//   - types.FinalRecord: Latest record
//   - error: types.ErrNoFinalRecord when the key does not exist
func (s *NATSKV) LoadFinal(ctx context.Context) (types.FinalRecord, error) {
	start := time.Now()
	rec, err := s.load(ctx)
	s.metrics.RecordStoreOperation("load", time.Since(start).Seconds(), err == nil || errors.Is(err, types.ErrNoFinalRecord))

	return rec, err
}

func (s *NATSKV) load(ctx context.Context) (types.FinalRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	kv, err := s.bucketKV(ctx)
	if err != nil {
		return types.FinalRecord{}, err
	}

	entry, err := kv.Get(ctx, s.key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return types.FinalRecord{}, fmt.Errorf("%w: %s/%s", types.ErrNoFinalRecord, s.bucket, s.key)
	}
	if err != nil {
		return types.FinalRecord{}, natsutil.Classify("get "+s.key, err)
	}

	return decodeEntry(entry)
}

// History returns the revisions kept by the bucket, oldest first.
//
// Returns:
//   - []types.FinalRecord: Kept revisions
//   - error: types.ErrNoFinalRecord when the key does not exist
func (s *NATSKV) History(ctx context.Context) ([]types.FinalRecord, error) {
	start := time.Now()
	recs, err := s.historyRecords(ctx)
	s.metrics.RecordStoreOperation("history", time.Since(start).Seconds(), err == nil || errors.Is(err, types.ErrNoFinalRecord))

	return recs, err
}

func (s *NATSKV) historyRecords(ctx context.Context) ([]types.FinalRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	kv, err := s.bucketKV(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := kv.History(ctx, s.key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s/%s", types.ErrNoFinalRecord, s.bucket, s.key)
	}
	if err != nil {
		return nil, natsutil.Classify("history "+s.key, err)
	}

	out := make([]types.FinalRecord, 0, len(entries))
	for _, entry := range entries {
		if entry.Operation() != jetstream.KeyValuePut {
			continue
		}
		rec, err := decodeEntry(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	return out, nil
}

// bucketKV returns the bucket handle, creating the bucket on first use.
func (s *NATSKV) bucketKV(ctx context.Context) (jetstream.KeyValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.kv != nil {
		return s.kv, nil
	}

	kv, err := kvutil.EnsureBucket(ctx, s.js, jetstream.KeyValueConfig{
		Bucket:      s.bucket,
		Description: "tawzi final assignment lists",
		History:     s.history,
	}, s.retry)
	if err != nil {
		return nil, natsutil.Classify("ensure bucket "+s.bucket, err)
	}
	s.kv = kv

	return kv, nil
}

func decodeEntry(entry jetstream.KeyValueEntry) (types.FinalRecord, error) {
	var rec types.FinalRecord
	if err := json.Unmarshal(entry.Value(), &rec); err != nil {
		return types.FinalRecord{}, fmt.Errorf("%w: decode revision %d: %w", types.ErrStoreFailed, entry.Revision(), err)
	}
	rec.Version = int64(entry.Revision()) //nolint:gosec // KV revisions stay far below MaxInt64

	return rec, nil
}
