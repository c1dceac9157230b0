package ingest

import (
	"slices"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Header aliases per field, first match with a non-empty value wins.
var (
	schoolCodeHeaders     = []string{"كود المدرسة", "school code", "school_code"}
	schoolNameHeaders     = []string{"اسم المدرسة", "school name", "school"}
	stageHeaders          = []string{"المرحلة", "stage"}
	typeHeaders           = []string{"النوعية", "type", "school type"}
	guidanceCodeHeaders   = []string{"كود التوجيه", "التوجيه", "guidance code", "guidance"}
	supervisorCodeHeaders = []string{"كود الموجه", "supervisor code"}
	supervisorNameHeaders = []string{"اسم الموجه", "supervisor name", "supervisor"}
	statusHeaders         = []string{"الحالة", "متاح", "نشط", "status"}
	mandatoryHeaders      = []string{"الموجه المكلّف", "الموجه المكلف", "mandatory supervisor", "mandatory"}
	methodHeaders         = []string{"آلية التوزيع", "method"}

	// The mandatory table names the supervisor under either header.
	mandatoryNameHeaders = slices.Concat(mandatoryHeaders, supervisorNameHeaders)

	guidanceKeyHeaders  = []string{"كود التوجيه", "guidance code", "code"}
	guidanceNameHeaders = []string{"التوجيه", "اسم التوجيه", "guidance name", "name"}
)

// wishHeaders returns the accepted spellings of the rank-th wish column.
func wishHeaders(rank int) []string {
	n := strconv.Itoa(rank)

	return []string{"رغبة " + n, "رغبة" + n, "wish " + n, "wish" + n, "الرغبة " + n}
}

// emptyCodes are placeholder values the sheets use for "no code".
var emptyCodes = map[string]struct{}{
	"0":         {},
	"-":         {},
	"undefined": {},
	"null":      {},
}

// NormalizeHeader returns the lookup key of a header.
//
// The header is NFC-normalized, case-folded and stripped of whitespace and
// the separators "_", "-" and ".".
func NormalizeHeader(h string) string {
	folded := cases.Fold().String(norm.NFC.String(h))

	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' || r == '-' || r == '.' {
			return -1
		}

		return r
	}, folded)
}

// normalizeValue trims a cell and brings it to NFC so that names and codes
// typed on different keyboards compare equal.
func normalizeValue(v string) string {
	return strings.TrimSpace(norm.NFC.String(v))
}

// normalizeCode is normalizeValue plus placeholder removal.
func normalizeCode(v string) string {
	v = normalizeValue(v)
	if _, ok := emptyCodes[strings.ToLower(v)]; ok {
		return ""
	}

	return v
}

// fields is a row indexed by normalized header.
type fields map[string]string

func indexRow(row Row) fields {
	f := make(fields, len(row))
	for k, v := range row {
		key := NormalizeHeader(k)
		// Two headers that normalize to the same key keep the non-empty value.
		if prev, ok := f[key]; ok && prev != "" {
			continue
		}
		f[key] = normalizeValue(v)
	}

	return f
}

// get returns the first non-empty value among the header aliases.
func (f fields) get(aliases ...string) string {
	for _, a := range aliases {
		if v := f[NormalizeHeader(a)]; v != "" {
			return v
		}
	}

	return ""
}
