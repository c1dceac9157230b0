package ingest

import "fmt"

// Table names used in issues.
const (
	TableSchools     = "schools"
	TableSupervisors = "supervisors"
	TableGuidance    = "guidance"
	TableWishes      = "wishes"
	TableMandatory   = "mandatory"
	TableFinal       = "final"
)

// Issue describes a row that was dropped or only partially understood.
type Issue struct {
	// Table is the raw table the row came from.
	Table string `json:"table" yaml:"table"`

	// Row is the 1-based row number within the table.
	Row int `json:"row" yaml:"row"`

	// Field is the offending field, empty for row-level issues.
	Field string `json:"field,omitempty" yaml:"field,omitempty"`

	Message string `json:"message" yaml:"message"`

	// Dropped reports whether the row was left out of the snapshot.
	Dropped bool `json:"dropped" yaml:"dropped"`
}

// String renders the issue as "table row N: field: message".
func (i Issue) String() string {
	if i.Field == "" {
		return fmt.Sprintf("%s row %d: %s", i.Table, i.Row, i.Message)
	}

	return fmt.Sprintf("%s row %d: %s: %s", i.Table, i.Row, i.Field, i.Message)
}
