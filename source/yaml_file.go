package source

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/tawzi/ingest"
	"github.com/arloliu/tawzi/types"
)

// YAMLFile reads raw sheet tables from a YAML document.
//
// The document has one sequence of string maps per table:
//
//	schools:
//	  - "كود المدرسة": "S1"
//	    "اسم المدرسة": "Al Nour"
//	supervisors:
//	  - "كود الموجه": "A"
//	    "اسم الموجه": "Alice"
//	guidance: []
//	wishes: []
//	mandatory: []
//	final: []
//
// The file is read again on every LoadSnapshot call.
type YAMLFile struct {
	path     string
	ingester *ingest.Ingester

	mu     sync.Mutex
	issues []ingest.Issue
}

var _ types.SnapshotSource = (*YAMLFile)(nil)

// YAMLFileOption configures a YAMLFile source.
type YAMLFileOption func(*YAMLFile)

// WithIngester sets the ingester used to convert the raw tables.
func WithIngester(in *ingest.Ingester) YAMLFileOption {
	return func(f *YAMLFile) {
		f.ingester = in
	}
}

// NewYAMLFile creates a source backed by the YAML file at path.
//
// Parameters:
//   - path: Path of the YAML document
//   - opts: Optional configuration (WithIngester)
//
// Returns:
//   - *YAMLFile: Initialized source
func NewYAMLFile(path string, opts ...YAMLFileOption) *YAMLFile {
	f := &YAMLFile{path: path}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if f.ingester == nil {
		f.ingester = ingest.New()
	}

	return f
}

// LoadSnapshot reads and ingests the file.
//
// Returns:
//   - types.Snapshot: Ingested snapshot
//   - error: Read, decode or strict ingestion error
func (f *YAMLFile) LoadSnapshot(ctx context.Context) (types.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return types.Snapshot{}, err
	}

	raw, err := ReadRaw(f.path)
	if err != nil {
		return types.Snapshot{}, err
	}

	snap, issues, err := f.ingester.Snapshot(raw)

	f.mu.Lock()
	f.issues = issues
	f.mu.Unlock()

	if err != nil {
		return types.Snapshot{}, fmt.Errorf("ingest %s: %w", f.path, err)
	}

	return snap, nil
}

// Issues returns the ingestion issues of the last LoadSnapshot call.
func (f *YAMLFile) Issues() []ingest.Issue {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]ingest.Issue(nil), f.issues...)
}

// ReadRaw decodes the raw tables of a YAML document.
//
// Parameters:
//   - path: Path of the YAML document
//
// Returns:
//   - ingest.RawSnapshot: Decoded tables
//   - error: Read or decode error
func ReadRaw(path string) (ingest.RawSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ingest.RawSnapshot{}, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var raw ingest.RawSnapshot
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return ingest.RawSnapshot{}, fmt.Errorf("failed to parse snapshot file: %w", err)
	}

	return raw, nil
}
