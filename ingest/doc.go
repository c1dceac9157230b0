// Package ingest turns raw spreadsheet rows into typed snapshot records.
//
// Rows are maps from header to cell value, as exported by the school
// sheets. Header lookup ignores case, whitespace and the separators
// "_", "-" and ".", and accepts the Arabic and English spellings used by
// the sheets, so "كود المدرسة", "كود_المدرسة" and "School Code" all resolve
// the school code.
//
// Invalid rows are dropped and reported as Issues; a caller that wants the
// run to stop on bad input enables strict mode:
//
//	in := ingest.New(ingest.WithStrict(true))
//	snap, issues, err := in.Snapshot(raw)
//
// The engine never looks at raw rows. Everything it needs is resolved here
// once, before a run starts.
package ingest
