package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	tawzitest "github.com/arloliu/tawzi/testing"
	"github.com/arloliu/tawzi/types"
)

const cliSnapshot = `
schools:
  - "كود المدرسة": "S1"
    "اسم المدرسة": "Al Nour"
    "كود التوجيه": "G1"
    "كود الموجه": "A"
  - "كود المدرسة": "S2"
    "اسم المدرسة": "Al Amal"
    "كود التوجيه": "G2"
  - "كود المدرسة": "S3"
    "اسم المدرسة": "Al Fajr"
supervisors:
  - "كود الموجه": "A"
    "اسم الموجه": "Alice"
    "كود التوجيه": "G1"
  - "كود الموجه": "B"
    "اسم الموجه": "Bob"
    "كود التوجيه": "G2"
  - "كود الموجه": "C"
    "اسم الموجه": "Carol"
    "الحالة": "غير نشط"
guidance:
  - "كود التوجيه": "G1"
    "التوجيه": "Arabic"
wishes:
  - "كود الموجه": "B"
    "رغبة 1": "S2"
`

func writeSnapshot(t *testing.T) (string, string) {
	t.Helper()
	t.Setenv(envNATSURL, "")
	t.Setenv(envLogLevel, "")

	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cliSnapshot), 0o600))

	return dir, path
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func finalByCode(t *testing.T, path string) map[string]types.Assignment {
	t.Helper()

	doc, err := readFinal(path)
	require.NoError(t, err)

	out := make(map[string]types.Assignment, len(doc.Assignments))
	for _, a := range doc.Assignments {
		out[a.SchoolCode] = a
	}

	return out
}

func TestRun_Dispatch(t *testing.T) {
	code, _, stderr := execute(t)
	require.Equal(t, 2, code)
	require.Contains(t, stderr, "Commands:")

	code, stdout, _ := execute(t, "help")
	require.Equal(t, 0, code)
	require.Contains(t, stdout, "override")

	code, _, stderr = execute(t, "shuffle")
	require.Equal(t, 2, code)
	require.Contains(t, stderr, `unknown command "shuffle"`)

	code, _, _ = execute(t, "run", "-h")
	require.Equal(t, 0, code)

	code, _, stderr = execute(t, "run")
	require.Equal(t, 2, code)
	require.Contains(t, stderr, "-snapshot is required")
}

func TestRunCommand(t *testing.T) {
	dir, snapshot := writeSnapshot(t)

	t.Run("writes the final list and metrics", func(t *testing.T) {
		out := filepath.Join(dir, "result.yaml")
		metricsFile := filepath.Join(dir, "metrics.prom")

		code, _, stderr := execute(t, "run", "-snapshot", snapshot, "-seed", "7", "-out", out, "-metrics-file", metricsFile, "-trace")
		require.Equal(t, 0, code, stderr)
		require.Contains(t, stderr, "[capacity-exhausted]")

		got := finalByCode(t, out)
		require.Equal(t, types.MethodWish1, got["S2"].Method)
		require.Equal(t, "B", got["S2"].SupervisorCode)
		require.Equal(t, types.MethodFixed, got["S1"].Method)
		require.Equal(t, "A", got["S1"].SupervisorCode)
		require.Equal(t, types.MethodUnassigned, got["S3"].Method)

		metrics, err := os.ReadFile(metricsFile)
		require.NoError(t, err)
		require.Contains(t, string(metrics), "tawzi_distribution_runs_total")
	})

	t.Run("json to stdout", func(t *testing.T) {
		code, stdout, stderr := execute(t, "run", "-snapshot", snapshot, "-seed", "7", "-format", "json")
		require.Equal(t, 0, code, stderr)

		var res types.Result
		require.NoError(t, json.Unmarshal([]byte(stdout), &res))
		require.Len(t, res.Assignments, 3)
		require.Equal(t, uint64(7), res.Seed)
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		code, _, stderr := execute(t, "run", "-snapshot", snapshot, "-format", "csv")
		require.Equal(t, 1, code)
		require.Contains(t, stderr, `unknown format "csv"`)
	})

	t.Run("missing snapshot file", func(t *testing.T) {
		code, _, stderr := execute(t, "run", "-snapshot", filepath.Join(dir, "absent.yaml"))
		require.Equal(t, 1, code)
		require.Contains(t, stderr, "failed to read snapshot file")
	})
}

func TestOverrideAndPrevious(t *testing.T) {
	dir, snapshot := writeSnapshot(t)
	first := filepath.Join(dir, "first.yaml")
	edited := filepath.Join(dir, "edited.yaml")
	second := filepath.Join(dir, "second.yaml")

	code, _, stderr := execute(t, "run", "-snapshot", snapshot, "-seed", "3", "-out", first)
	require.Equal(t, 0, code, stderr)

	code, _, stderr = execute(t, "override", "-snapshot", snapshot, "-final", first, "-school", "S3", "-supervisor", "Carol", "-out", edited)
	require.Equal(t, 0, code, stderr)

	got := finalByCode(t, edited)
	require.Equal(t, types.MethodLocked, got["S3"].Method)
	require.Equal(t, "C", got["S3"].SupervisorCode)

	code, _, stderr = execute(t, "override", "-snapshot", snapshot, "-final", first, "-school", "S9", "-supervisor", "Carol")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "school not found")

	code, _, stderr = execute(t, "run", "-snapshot", snapshot, "-seed", "3", "-previous", edited, "-out", second)
	require.Equal(t, 0, code, stderr)

	got = finalByCode(t, second)
	require.Equal(t, types.MethodLocked, got["S3"].Method)
	require.Equal(t, "Carol", got["S3"].SupervisorName)

	t.Run("report lists the inactive holder", func(t *testing.T) {
		code, stdout, stderr := execute(t, "report", "-snapshot", snapshot, "-final", second)
		require.Equal(t, 0, code, stderr)
		require.Contains(t, stdout, "schools: 3, assigned: 3 (100%)")
		require.Contains(t, stdout, "problem schools: 1")
		require.Contains(t, stdout, "S3 Al Fajr [-] inactive-supervisor (Carol)")
	})

	t.Run("report as yaml", func(t *testing.T) {
		code, stdout, stderr := execute(t, "report", "-snapshot", snapshot, "-final", first, "-format", "yaml")
		require.Equal(t, 0, code, stderr)
		require.Contains(t, stdout, "coveragePercent: 67")
		require.Contains(t, stdout, "reason: unassigned")
	})
}

func TestRunCommand_NATS(t *testing.T) {
	_, snapshot := writeSnapshot(t)
	srv, _ := tawzitest.StartEmbeddedNATS(t)
	url := srv.ClientURL()

	code, _, stderr := execute(t, "run", "-snapshot", snapshot, "-seed", "5", "-nats-url", url)
	require.Equal(t, 0, code, stderr)

	code, stdout, stderr := execute(t, "override", "-snapshot", snapshot, "-school", "S1", "-nats-url", url, "-format", "json")
	require.Equal(t, 0, code, stderr)

	var doc finalDocument
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	require.Greater(t, doc.Version, int64(1))

	cleared := false
	for _, a := range doc.Assignments {
		if a.SchoolCode == "S1" {
			cleared = a.Method == types.MethodLockedCleared
		}
	}
	require.True(t, cleared)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, loadEnv(filepath.Join(dir, "absent.env")))

	t.Setenv("TAWZI_ENV_PROBE", "")
	require.NoError(t, os.Unsetenv("TAWZI_ENV_PROBE"))

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("TAWZI_ENV_PROBE=debug\n"), 0o600))
	require.NoError(t, loadEnv(path))
	require.Equal(t, "debug", os.Getenv("TAWZI_ENV_PROBE"))
}
