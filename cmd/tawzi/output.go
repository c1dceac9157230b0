package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/tawzi/report"
	"github.com/arloliu/tawzi/types"
)

const (
	formatText = "text"
	formatYAML = "yaml"
	formatJSON = "json"
)

func checkFormat(format string, allowed ...string) error {
	if !slices.Contains(allowed, format) {
		return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(allowed, ", "))
	}

	return nil
}

// finalDocument is the on-disk shape of a final list. A full run result
// decodes into it as well; the extra fields are ignored.
type finalDocument struct {
	RunID       string             `json:"runId,omitempty" yaml:"runId,omitempty"`
	Version     int64              `json:"version,omitempty" yaml:"version,omitempty"`
	Assignments []types.Assignment `json:"assignments" yaml:"assignments"`
}

// readFinal decodes a final list written by run or override. JSON is a
// subset of YAML, so either format is accepted.
func readFinal(path string) (finalDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return finalDocument{}, fmt.Errorf("failed to read final list: %w", err)
	}

	var doc finalDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return finalDocument{}, fmt.Errorf("failed to parse final list %s: %w", path, err)
	}

	return doc, nil
}

func writeDocument(path, format string, stdout io.Writer, v any) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case formatJSON:
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	default:
		data, err = yaml.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	if path == "" {
		_, err = stdout.Write(data)

		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

type reportDocument struct {
	Summary               report.Summary     `json:"summary" yaml:"summary"`
	UnassignedSupervisors []types.Supervisor `json:"unassignedSupervisors" yaml:"unassignedSupervisors"`
	Problems              []report.Problem   `json:"problems" yaml:"problems"`
	OverCapacity          []report.Load      `json:"overCapacity" yaml:"overCapacity"`
}

func buildReport(snap types.Snapshot, final []types.Assignment, limit int) reportDocument {
	return reportDocument{
		Summary:               report.Summarize(snap, final),
		UnassignedSupervisors: report.UnassignedSupervisors(snap.Supervisors, final),
		Problems:              report.ProblemSchools(snap.Supervisors, final),
		OverCapacity:          report.OverCapacity(final, limit),
	}
}

func writeReportText(w io.Writer, snap types.Snapshot, rep reportDocument) error {
	var b strings.Builder

	s := rep.Summary
	fmt.Fprintf(&b, "schools: %d, assigned: %d (%d%%)\n", s.Schools, s.Assigned, s.CoveragePercent)
	fmt.Fprintf(&b, "supervisors: %d active of %d, wishes: %d\n", s.ActiveSupervisors, s.TotalSupervisors, s.Wishes)

	methods := make([]string, 0, len(s.ByMethod))
	for m := range s.ByMethod {
		methods = append(methods, m)
	}
	slices.Sort(methods)
	for _, m := range methods {
		fmt.Fprintf(&b, "  %-20s %d\n", m, s.ByMethod[m])
	}

	fmt.Fprintf(&b, "\nunassigned supervisors: %d\n", len(rep.UnassignedSupervisors))
	for _, sup := range rep.UnassignedSupervisors {
		fmt.Fprintf(&b, "  %s %s [%s]\n", sup.Code, sup.Name, report.GuidanceName(snap.Guidance, sup.GuidanceCode))
	}

	fmt.Fprintf(&b, "\nproblem schools: %d\n", len(rep.Problems))
	for _, p := range rep.Problems {
		a := p.Assignment
		fmt.Fprintf(&b, "  %s %s [%s] %s", a.SchoolCode, a.SchoolName, report.GuidanceName(snap.Guidance, a.GuidanceCode), p.Reason)
		if a.SupervisorName != "" {
			fmt.Fprintf(&b, " (%s)", a.SupervisorName)
		}
		b.WriteByte('\n')
	}

	if len(rep.OverCapacity) > 0 {
		fmt.Fprintf(&b, "\nover capacity: %d\n", len(rep.OverCapacity))
		for _, l := range rep.OverCapacity {
			fmt.Fprintf(&b, "  %s %s: %s\n", l.SupervisorCode, l.SupervisorName, strings.Join(l.Schools, ", "))
		}
	}

	_, err := io.WriteString(w, b.String())

	return err
}
