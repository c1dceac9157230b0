package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/arloliu/tawzi/internal/logging"
	"github.com/arloliu/tawzi/types"
)

// Row is one raw sheet row keyed by header.
type Row map[string]string

// RawSnapshot holds the raw tables of one snapshot.
//
// Mandatory is the administrators' table of pinned supervisors; it is
// applied on top of any mandatory column of the schools table. Final is the
// previous run's exported final list.
type RawSnapshot struct {
	Schools     []Row `json:"schools" yaml:"schools"`
	Supervisors []Row `json:"supervisors" yaml:"supervisors"`
	Guidance    []Row `json:"guidance" yaml:"guidance"`
	Wishes      []Row `json:"wishes" yaml:"wishes"`
	Mandatory   []Row `json:"mandatory,omitempty" yaml:"mandatory,omitempty"`
	Final       []Row `json:"final,omitempty" yaml:"final,omitempty"`
}

// Ingester converts raw tables into a typed snapshot.
//
// An Ingester is safe for concurrent use.
type Ingester struct {
	validate *validator.Validate
	strict   bool
	logger   types.Logger
}

// Option configures an Ingester.
type Option func(*Ingester)

// WithStrict makes Snapshot fail when any issue is found.
func WithStrict(strict bool) Option {
	return func(in *Ingester) {
		in.strict = strict
	}
}

// WithLogger sets the logger used to report issues.
func WithLogger(logger types.Logger) Option {
	return func(in *Ingester) {
		in.logger = logger
	}
}

// New creates an Ingester.
//
// Parameters:
//   - opts: Optional configuration (WithStrict, WithLogger)
//
// Returns:
//   - *Ingester: Ready-to-use ingester
func New(opts ...Option) *Ingester {
	in := &Ingester{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logging.NewNop(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(in)
		}
	}

	if in.logger == nil {
		in.logger = logging.NewNop()
	}

	return in
}

var defaultIngester = New()

// Snapshot ingests raw tables with a default, non-strict Ingester.
func Snapshot(raw RawSnapshot) (types.Snapshot, []Issue, error) {
	return defaultIngester.Snapshot(raw)
}

// Snapshot converts raw tables into a typed snapshot.
//
// Rows failing validation are dropped. Rows with recoverable problems, such
// as a wish naming the same school twice, are kept. Both are reported.
//
// Parameters:
//   - raw: Raw tables
//
// Returns:
//   - types.Snapshot: Typed records in input order
//   - []Issue: Dropped or partially understood rows
//   - error: ErrInvalidRecord in strict mode when issues were found
func (in *Ingester) Snapshot(raw RawSnapshot) (types.Snapshot, []Issue, error) {
	c := &collector{Ingester: in}

	snap := types.Snapshot{
		Schools:     c.schools(raw.Schools),
		Supervisors: c.supervisors(raw.Supervisors),
		Guidance:    c.guidance(raw.Guidance),
		Wishes:      c.wishes(raw.Wishes),
	}
	c.applyMandatory(snap.Schools, raw.Mandatory)
	snap.Previous = c.final(raw.Final, snap.Schools)

	for _, issue := range c.issues {
		in.logger.Warn("ingest issue", "table", issue.Table, "row", issue.Row, "field", issue.Field, "message", issue.Message)
	}

	if in.strict && len(c.issues) > 0 {
		return snap, c.issues, fmt.Errorf("%w: %d issues, first: %s", types.ErrInvalidRecord, len(c.issues), c.issues[0])
	}

	return snap, c.issues, nil
}

// collector accumulates issues while the tables are converted.
type collector struct {
	*Ingester
	issues []Issue
}

func (c *collector) report(table string, row int, field, msg string, dropped bool) {
	c.issues = append(c.issues, Issue{Table: table, Row: row, Field: field, Message: msg, Dropped: dropped})
}

// valid runs the struct validator and reports every failed field.
func (c *collector) valid(table string, row int, rec any) bool {
	err := c.validate.Struct(rec)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			c.report(table, row, fe.Field(), "failed "+fe.Tag()+" validation", true)
		}

		return false
	}

	c.report(table, row, "", err.Error(), true)

	return false
}

func (c *collector) schools(rows []Row) []types.School {
	out := make([]types.School, 0, len(rows))
	seen := make(map[string]int, len(rows))
	for i, row := range rows {
		f := indexRow(row)
		s := types.School{
			Code:                    f.get(schoolCodeHeaders...),
			Name:                    f.get(schoolNameHeaders...),
			Stage:                   f.get(stageHeaders...),
			Type:                    f.get(typeHeaders...),
			GuidanceCode:            normalizeCode(f.get(guidanceCodeHeaders...)),
			FixedSupervisorCode:     normalizeCode(f.get(supervisorCodeHeaders...)),
			MandatorySupervisorName: f.get(mandatoryHeaders...),
		}
		if !c.valid(TableSchools, i+1, s) {
			continue
		}
		if first, dup := seen[s.Code]; dup {
			c.report(TableSchools, i+1, "Code", fmt.Sprintf("duplicate school code %q, first seen on row %d", s.Code, first), true)

			continue
		}
		seen[s.Code] = i + 1
		out = append(out, s)
	}

	return out
}

func (c *collector) supervisors(rows []Row) []types.Supervisor {
	out := make([]types.Supervisor, 0, len(rows))
	seen := make(map[string]int, len(rows))
	for i, row := range rows {
		f := indexRow(row)
		s := types.Supervisor{
			Code:         normalizeCode(f.get(supervisorCodeHeaders...)),
			Name:         f.get(supervisorNameHeaders...),
			GuidanceCode: normalizeCode(f.get(guidanceCodeHeaders...)),
			Status:       f.get(statusHeaders...),
		}
		if !c.valid(TableSupervisors, i+1, s) {
			continue
		}
		if first, dup := seen[s.Code]; dup {
			c.report(TableSupervisors, i+1, "Code", fmt.Sprintf("duplicate supervisor code %q, first seen on row %d", s.Code, first), true)

			continue
		}
		seen[s.Code] = i + 1
		out = append(out, s)
	}

	return out
}

func (c *collector) guidance(rows []Row) []types.Guidance {
	out := make([]types.Guidance, 0, len(rows))
	for i, row := range rows {
		f := indexRow(row)
		g := types.Guidance{
			Code: normalizeCode(f.get(guidanceKeyHeaders...)),
			Name: f.get(guidanceNameHeaders...),
		}
		if g.Code == "" && g.Name != "" {
			// Some sheets only carry the name column, which then doubles as the code.
			g.Code = g.Name
		}
		if !c.valid(TableGuidance, i+1, g) {
			continue
		}
		out = append(out, g)
	}

	return out
}

func (c *collector) wishes(rows []Row) []types.Wish {
	out := make([]types.Wish, 0, len(rows))
	for i, row := range rows {
		f := indexRow(row)
		w := types.Wish{SupervisorCode: normalizeCode(f.get(supervisorCodeHeaders...))}
		for rank := 1; rank <= types.MaxWishRank; rank++ {
			w.Choices[rank-1] = normalizeCode(f.get(wishHeaders(rank)...))
		}
		if !c.valid(TableWishes, i+1, w) {
			continue
		}
		if dups := w.DuplicateChoices(); len(dups) > 0 {
			c.report(TableWishes, i+1, "Choices", "school chosen more than once: "+strings.Join(dups, ", "), false)
		}
		out = append(out, w)
	}

	return out
}

// applyMandatory pins the supervisors of the mandatory table onto schools.
func (c *collector) applyMandatory(schools []types.School, rows []Row) {
	if len(rows) == 0 {
		return
	}

	idx := make(map[string]int, len(schools))
	for i, s := range schools {
		idx[s.Code] = i
	}

	for i, row := range rows {
		f := indexRow(row)
		code := f.get(schoolCodeHeaders...)
		name := f.get(mandatoryNameHeaders...)
		if code == "" {
			c.report(TableMandatory, i+1, "SchoolCode", "missing school code", true)

			continue
		}

		j, ok := idx[code]
		if !ok {
			c.report(TableMandatory, i+1, "SchoolCode", fmt.Sprintf("unknown school %q", code), true)

			continue
		}
		schools[j].MandatorySupervisorName = name
	}
}

// final parses the previous run's final list.
//
// GuidanceBackfilled is derived by comparing the stored guidance with the
// school's own code, since the exported sheet does not keep the flag.
func (c *collector) final(rows []Row, schools []types.School) []types.Assignment {
	if len(rows) == 0 {
		return nil
	}

	own := make(map[string]string, len(schools))
	for _, s := range schools {
		own[s.Code] = s.GuidanceCode
	}

	out := make([]types.Assignment, 0, len(rows))
	for i, row := range rows {
		f := indexRow(row)
		a := types.Assignment{
			SchoolCode:     f.get(schoolCodeHeaders...),
			SchoolName:     f.get(schoolNameHeaders...),
			Stage:          f.get(stageHeaders...),
			Type:           f.get(typeHeaders...),
			SupervisorName: f.get(supervisorNameHeaders...),
			SupervisorCode: normalizeCode(f.get(supervisorCodeHeaders...)),
			GuidanceCode:   normalizeCode(f.get(guidanceCodeHeaders...)),
		}
		if !c.valid(TableFinal, i+1, a) {
			continue
		}

		method, err := types.ParseMethod(f.get(methodHeaders...))
		if err != nil {
			c.report(TableFinal, i+1, "Method", err.Error(), false)
		}
		a.Method = method

		if schoolGuidance, ok := own[a.SchoolCode]; ok && schoolGuidance == "" && a.GuidanceCode != "" {
			a.GuidanceBackfilled = true
		}
		out = append(out, a)
	}

	return out
}
