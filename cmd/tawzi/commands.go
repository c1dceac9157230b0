package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/tawzi"
	"github.com/arloliu/tawzi/ingest"
	"github.com/arloliu/tawzi/internal/logging"
	"github.com/arloliu/tawzi/internal/metrics"
	"github.com/arloliu/tawzi/source"
	"github.com/arloliu/tawzi/store"
	"github.com/arloliu/tawzi/types"
)

var (
	// errUsage reports a flag error already printed by the flag set.
	errUsage = errors.New("usage error")

	// errHelp reports that -h was requested and the usage was printed.
	errHelp = errors.New("help requested")
)

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}

		return errUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(fs.Output(), "unexpected arguments: %v\n", fs.Args())

		return errUsage
	}

	return nil
}

func newLogger(level string, w io.Writer) (types.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	return logging.NewText(w, lvl), nil
}

func runCommand(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to the YAML configuration (defaults when empty)")
	snapshotPath := fs.String("snapshot", "", "path to the YAML snapshot (required)")
	previousPath := fs.String("previous", "", "previous result whose locks are carried when the snapshot has no final table")
	seed := fs.Uint64("seed", 0, "random seed, overrides the configuration when non-zero")
	outPath := fs.String("out", "", "output file (stdout when empty)")
	format := fs.String("format", formatYAML, "output format: yaml or json")
	natsURL := fs.String("nats-url", os.Getenv(envNATSURL), "NATS server URL; stores the final list in JetStream KV when set")
	metricsFile := fs.String("metrics-file", "", "write Prometheus metrics in text format to this file")
	logLevel := fs.String("log-level", os.Getenv(envLogLevel), "log level: debug, info, warn or error")
	strict := fs.Bool("strict", false, "fail when any snapshot row is invalid")
	trace := fs.Bool("trace", false, "print the run log to stderr")

	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *snapshotPath == "" {
		fmt.Fprintln(stderr, "-snapshot is required")
		fs.Usage()

		return errUsage
	}
	if err := checkFormat(*format, formatYAML, formatJSON); err != nil {
		return err
	}

	logger, err := newLogger(*logLevel, stderr)
	if err != nil {
		return err
	}

	cfg := tawzi.DefaultConfig()
	if *configPath != "" {
		if cfg, err = tawzi.LoadConfig(*configPath); err != nil {
			return err
		}
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	opts := []tawzi.Option{tawzi.WithLogger(logger)}

	var reg *prometheus.Registry
	var collector types.MetricsCollector = metrics.NewNop()
	if *metricsFile != "" {
		reg = prometheus.NewRegistry()
		collector = metrics.NewPrometheus(reg, "")
		opts = append(opts, tawzi.WithMetrics(collector))
	}

	d, err := tawzi.NewDistributor(&cfg, opts...)
	if err != nil {
		return err
	}

	yamlSource := source.NewYAMLFile(*snapshotPath, source.WithIngester(
		ingest.New(ingest.WithStrict(*strict), ingest.WithLogger(logger)),
	))
	src := &previousSource{inner: yamlSource, path: *previousPath}

	var res tawzi.Result
	if *natsURL != "" {
		st, closeStore, err := openNATSStore(*natsURL, cfg.Store, logger, collector)
		if err != nil {
			return err
		}
		defer closeStore()

		var saved tawzi.FinalRecord
		res, saved, err = d.Redistribute(ctx, src, st)
		if err != nil {
			return err
		}
		logger.Info("final list saved to NATS KV", "bucket", cfg.Store.Bucket, "version", saved.Version)
	} else {
		snap, err := src.LoadSnapshot(ctx)
		if err != nil {
			return err
		}
		if res, err = d.Run(ctx, snap); err != nil {
			return err
		}
	}

	for _, issue := range yamlSource.Issues() {
		logger.Warn("snapshot issue", "issue", issue.String())
	}

	if *trace {
		for _, line := range res.Log.Lines() {
			fmt.Fprintln(stderr, line)
		}
	}

	if reg != nil {
		if err := prometheus.WriteToTextfile(*metricsFile, reg); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	return writeDocument(*outPath, *format, stdout, res)
}

// previousSource fills Snapshot.Previous from a result file when the
// snapshot itself carries no final table.
type previousSource struct {
	inner types.SnapshotSource
	path  string
}

var _ types.SnapshotSource = (*previousSource)(nil)

func (s *previousSource) LoadSnapshot(ctx context.Context) (types.Snapshot, error) {
	snap, err := s.inner.LoadSnapshot(ctx)
	if err != nil {
		return types.Snapshot{}, err
	}
	if s.path == "" || len(snap.Previous) > 0 {
		return snap, nil
	}

	doc, err := readFinal(s.path)
	if err != nil {
		return types.Snapshot{}, err
	}
	snap.Previous = doc.Assignments

	return snap, nil
}

func openNATSStore(url string, cfg tawzi.StoreConfig, logger types.Logger, collector types.StoreMetrics) (*store.NATSKV, func(), error) {
	nc, err := nats.Connect(url, nats.Name("tawzi"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()

		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	st, err := store.NewNATSKV(js,
		store.WithBucket(cfg.Bucket),
		store.WithKey(cfg.Key),
		store.WithHistory(cfg.History),
		store.WithOperationTimeout(cfg.OperationTimeout),
		store.WithLogger(logger),
		store.WithMetrics(collector),
	)
	if err != nil {
		nc.Close()

		return nil, nil, err
	}

	return st, nc.Close, nil
}

func overrideCommand(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("override", flag.ContinueOnError)
	fs.SetOutput(stderr)
	snapshotPath := fs.String("snapshot", "", "path to the YAML snapshot providing supervisors (required)")
	finalPath := fs.String("final", "", "result file holding the final list (ignored with -nats-url)")
	school := fs.String("school", "", "school code (required)")
	supervisor := fs.String("supervisor", "", "exact supervisor name, empty clears the school")
	outPath := fs.String("out", "", "output file (stdout when empty)")
	format := fs.String("format", formatYAML, "output format: yaml or json")
	natsURL := fs.String("nats-url", os.Getenv(envNATSURL), "NATS server URL; edits the stored final list when set")
	configPath := fs.String("config", "", "path to the YAML configuration (store settings)")
	logLevel := fs.String("log-level", os.Getenv(envLogLevel), "log level: debug, info, warn or error")

	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *snapshotPath == "" || *school == "" || (*finalPath == "" && *natsURL == "") {
		fmt.Fprintln(stderr, "-snapshot, -school and one of -final or -nats-url are required")
		fs.Usage()

		return errUsage
	}
	if err := checkFormat(*format, formatYAML, formatJSON); err != nil {
		return err
	}

	logger, err := newLogger(*logLevel, stderr)
	if err != nil {
		return err
	}

	cfg := tawzi.DefaultConfig()
	if *configPath != "" {
		if cfg, err = tawzi.LoadConfig(*configPath); err != nil {
			return err
		}
	}

	d, err := tawzi.NewDistributor(&cfg, tawzi.WithLogger(logger))
	if err != nil {
		return err
	}

	snap, err := source.NewYAMLFile(*snapshotPath).LoadSnapshot(ctx)
	if err != nil {
		return err
	}

	if *natsURL != "" {
		st, closeStore, err := openNATSStore(*natsURL, cfg.Store, logger, metrics.NewNop())
		if err != nil {
			return err
		}
		defer closeStore()

		saved, err := d.OverrideStored(ctx, st, snap.Supervisors, *school, *supervisor)
		if err != nil {
			return err
		}

		return writeDocument(*outPath, *format, stdout, finalDocument{
			Version:     saved.Version,
			Assignments: saved.Assignments,
		})
	}

	doc, err := readFinal(*finalPath)
	if err != nil {
		return err
	}

	updated, err := d.Override(doc.Assignments, snap.Supervisors, *school, *supervisor)
	if err != nil {
		return err
	}

	return writeDocument(*outPath, *format, stdout, finalDocument{Assignments: updated})
}

func reportCommand(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	snapshotPath := fs.String("snapshot", "", "path to the YAML snapshot (required)")
	finalPath := fs.String("final", "", "result file holding the final list (snapshot final table when empty)")
	limit := fs.Int("limit", 1, "load limit used by the over-capacity section")
	format := fs.String("format", formatText, "output format: text, yaml or json")

	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *snapshotPath == "" {
		fmt.Fprintln(stderr, "-snapshot is required")
		fs.Usage()

		return errUsage
	}
	if err := checkFormat(*format, formatText, formatYAML, formatJSON); err != nil {
		return err
	}

	snap, err := source.NewYAMLFile(*snapshotPath).LoadSnapshot(ctx)
	if err != nil {
		return err
	}

	final := snap.Previous
	if *finalPath != "" {
		doc, err := readFinal(*finalPath)
		if err != nil {
			return err
		}
		final = doc.Assignments
	}

	rep := buildReport(snap, final, *limit)
	if *format == formatText {
		return writeReportText(stdout, snap, rep)
	}

	return writeDocument("", *format, stdout, rep)
}
