package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Method records how an assignment was produced.
//
// Methods form a provenance order used to reason about which source of an
// assignment wins:
//
//	Locked > Mandatory > Fixed > Wish1 > Wish2 > Wish3 > Wish4 >
//	BalancedSpecialty > BalancedGeneral > LockedCleared > Unassigned
//
// The zero value is MethodUnassigned.
type Method int

const (
	// MethodUnassigned marks a school that no pass could fill.
	MethodUnassigned Method = iota

	// MethodLockedCleared marks a school whose assignment was cleared by an
	// administrator. It is not carried forward into the next run.
	MethodLockedCleared

	// MethodBalancedGeneral is a fallback assignment to a supervisor of another specialty.
	MethodBalancedGeneral

	// MethodBalancedSpecialty is a fallback assignment to a supervisor of the school's specialty.
	MethodBalancedSpecialty

	// MethodWish4 satisfies a supervisor's 4th choice.
	MethodWish4

	// MethodWish3 satisfies a supervisor's 3rd choice.
	MethodWish3

	// MethodWish2 satisfies a supervisor's 2nd choice.
	MethodWish2

	// MethodWish1 satisfies a supervisor's 1st choice.
	MethodWish1

	// MethodFixed comes from the supervisor code carried by the school record itself.
	MethodFixed

	// MethodMandatory comes from the school's mandatory supervisor name.
	MethodMandatory

	// MethodLocked is an administrative override that survives recomputation.
	MethodLocked
)

// MaxWishRank is the number of ranked choices a wish can carry.
const MaxWishRank = 4

// WishMethod returns the method for a satisfied choice of the given rank (1-based).
//
// Parameters:
//   - rank: Wish rank in 1..MaxWishRank
//
// Returns:
//   - Method: MethodWish1..MethodWish4, or MethodUnassigned for an out-of-range rank
func WishMethod(rank int) Method {
	if rank < 1 || rank > MaxWishRank {
		return MethodUnassigned
	}

	return MethodWish1 - Method(rank-1)
}

// Priority returns the provenance rank of the method. Higher wins.
func (m Method) Priority() int {
	return int(m)
}

// Outranks reports whether m has strictly higher provenance than other.
func (m Method) Outranks(other Method) bool {
	return m.Priority() > other.Priority()
}

// IsAssigned reports whether the method carries a supervisor.
func (m Method) IsAssigned() bool {
	return m != MethodUnassigned && m != MethodLockedCleared
}

// WishRank returns the 1-based rank for a wish method, or 0 for other methods.
func (m Method) WishRank() int {
	if m < MethodWish4 || m > MethodWish1 {
		return 0
	}

	return int(MethodWish1-m) + 1
}

// String returns the canonical tag of the method.
func (m Method) String() string {
	switch m {
	case MethodUnassigned:
		return "unassigned"
	case MethodLockedCleared:
		return "locked-cleared"
	case MethodBalancedGeneral:
		return "balanced-general"
	case MethodBalancedSpecialty:
		return "balanced-specialty"
	case MethodWish1, MethodWish2, MethodWish3, MethodWish4:
		return "wish-" + strconv.Itoa(m.WishRank())
	case MethodFixed:
		return "fixed"
	case MethodMandatory:
		return "mandatory"
	case MethodLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// legacyLabels maps the labels written by the spreadsheet tool to methods.
var legacyLabels = map[string]Method{
	"تلقائي":               MethodUnassigned,
	"تعديل إداري":          MethodLocked,
	"تعديل إداري (إلغاء)":  MethodLockedCleared,
	"تكليف إداري (إجباري)": MethodMandatory,
	"تكليف إداري (الملف)":  MethodFixed,
	"توزيع ذكي (تخصص)":     MethodBalancedSpecialty,
	"توزيع ذكي (عام)":      MethodBalancedGeneral,
	"رغبة 1":               MethodWish1,
	"رغبة 2":               MethodWish2,
	"رغبة 3":               MethodWish3,
	"رغبة 4":               MethodWish4,
}

// ParseMethod parses a canonical tag or a legacy label into a Method.
//
// An empty string parses as MethodUnassigned.
//
// Parameters:
//   - s: Tag such as "wish-2" or a legacy label such as "رغبة 2"
//
// Returns:
//   - Method: Parsed method
//   - error: Non-nil when the tag is not recognized
func ParseMethod(s string) (Method, error) {
	tag := strings.TrimSpace(s)
	if tag == "" {
		return MethodUnassigned, nil
	}

	if m, ok := legacyLabels[tag]; ok {
		return m, nil
	}

	switch strings.ToLower(tag) {
	case "unassigned":
		return MethodUnassigned, nil
	case "locked-cleared":
		return MethodLockedCleared, nil
	case "balanced-general":
		return MethodBalancedGeneral, nil
	case "balanced-specialty":
		return MethodBalancedSpecialty, nil
	case "fixed":
		return MethodFixed, nil
	case "mandatory":
		return MethodMandatory, nil
	case "locked":
		return MethodLocked, nil
	}

	if rest, ok := strings.CutPrefix(strings.ToLower(tag), "wish-"); ok {
		rank, err := strconv.Atoi(rest)
		if err == nil && rank >= 1 && rank <= MaxWishRank {
			return WishMethod(rank), nil
		}
	}

	return MethodUnassigned, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed

	return nil
}
