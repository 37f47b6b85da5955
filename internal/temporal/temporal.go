package temporal

import (
	"fmt"
	"strings"
	"time"
)

// DefaultDateLayout is the canonical date form used everywhere in skybook:
// fingerprints, watermarks, and every cell the syncer writes.
const DefaultDateLayout = "2006-01-02"

// sourceTimestampLayout is how the club database renders DateFlown when the
// driver hands us a string instead of a time.Time.
const sourceTimestampLayout = "2006-01-02 15:04:05"

// DateLayouts is the ranked list of date layouts a member logbook may use.
//
// Order is load-bearing: ambiguous strings such as "01/02/03" resolve to
// whichever layout matches first, not to a locale guess. The list mirrors
// the layouts observed in deployed logbooks; do not sort it.
var DateLayouts = []string{
	// ISO
	"2006-01-02",
	"2006.01.02",
	"2006/01/02",
	// European / UK numeric
	"02.01.2006",
	"02.01.06",
	"01/02/2006", // US slash layout filed here historically; position matters
	"02-01-06",
	"02-01-2006",
	"02/01/06",
	"02/01/2006",
	// Short month name
	"02 Jan 2006",
	"02-Jan-2006",
	"02/Jan/2006",
	"02 Jan 06",
	"02-Jan-06",
	"02/Jan/06",
	// Full month name
	"02 January 2006",
	"02-January-2006",
	"02/January/2006",
	"02 January 06",
	"02-January-06",
	"02/January/06",
	// US
	"01-02-2006",
	"01-02-06",
	"Jan 02 2006",
	"January 02 2006",
	"01/02/06",
	"January 02 06",
}

// clockLayouts are tried in order when a time-of-day cell arrives as text.
var clockLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM", // 3:52 PM
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ClockPolicy decides what Clock does with a string no layout accepts.
type ClockPolicy int

const (
	// ClockPassThrough returns the raw string unchanged. This is the
	// historical behavior: one garbled cell must not abort a whole
	// member's sync, and the raw text still participates in fingerprints
	// consistently on both the read and write side.
	ClockPassThrough ClockPolicy = iota

	// ClockStrict returns an UnparseableValueError instead.
	ClockStrict
)

// UnparseableValueError reports a date or time value no known layout accepts.
type UnparseableValueError struct {
	Kind string // "date" or "clock"
	Raw  string
}

func (e *UnparseableValueError) Error() string {
	return fmt.Sprintf("unparseable %s value %q", e.Kind, e.Raw)
}

// DetectDateLayout infers which layout an existing logbook uses for its date
// column. The ranked layout list is walked and the first layout that parses
// every non-empty sample wins, so one unambiguous cell ("13/05/2024") pins
// the layout for the ambiguous ones ("03/05/2024") regardless of which row
// happens to come first. When no layout covers all samples (a garbled cell,
// a hand-edited oddball) the requirement relaxes to the first sample any
// layout accepts, and if nothing parses at all, DefaultDateLayout is
// returned.
func DetectDateLayout(samples []string) string {
	trimmed := make([]string, 0, len(samples))
	for _, s := range samples {
		if s = strings.TrimSpace(s); s != "" {
			trimmed = append(trimmed, s)
		}
	}
	if len(trimmed) == 0 {
		return DefaultDateLayout
	}
	for _, layout := range DateLayouts {
		if parsesAll(layout, trimmed) {
			return layout
		}
	}
	for _, s := range trimmed {
		for _, layout := range DateLayouts {
			if _, err := time.Parse(layout, s); err == nil {
				return layout
			}
		}
	}
	return DefaultDateLayout
}

func parsesAll(layout string, samples []string) bool {
	for _, s := range samples {
		if _, err := time.Parse(layout, s); err != nil {
			return false
		}
	}
	return true
}

// CanonicalDate normalizes a date cell of unknown provenance to YYYY-MM-DD.
//
// Native times format directly. Strings are tried against the ranked layout
// list, then RFC 3339. A string nothing accepts is returned unchanged so
// that fingerprints built from it stay stable between runs.
func CanonicalDate(v any) string {
	switch d := v.(type) {
	case time.Time:
		return d.Format(DefaultDateLayout)
	case *time.Time:
		if d == nil {
			return ""
		}
		return d.Format(DefaultDateLayout)
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range DateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format(DefaultDateLayout)
			}
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.Format(DefaultDateLayout)
		}
		return d
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// CanonicalDateIn normalizes a date cell from a ledger whose date layout
// is already known, trying that layout before the ranked list.
//
// The layout-first order matters for ambiguous numeric strings: "03/05/2024"
// means May 3rd in a ledger detected as "02/01/2006", but the ranked list
// alone would resolve it through the US slash layout to March 5th. Cells the
// layout rejects (older rows written under a different convention) still
// fall back to the full list.
func CanonicalDateIn(v any, layout string) string {
	if s, ok := v.(string); ok && layout != "" {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t.Format(DefaultDateLayout)
		}
	}
	return CanonicalDate(v)
}

// NormalizeDate converts a source-table date value to YYYY-MM-DD.
//
// The club database hands dates over either as native times or as full
// timestamp strings; layout is tried first for callers that re-read ledger
// content, then the fixed source timestamp form.
func NormalizeDate(v any, layout string) (string, error) {
	switch d := v.(type) {
	case time.Time:
		return d.Format(DefaultDateLayout), nil
	case string:
		s := strings.TrimSpace(d)
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DefaultDateLayout), nil
		}
		if t, err := time.Parse(sourceTimestampLayout, s); err == nil {
			return t.Format(DefaultDateLayout), nil
		}
		return d, &UnparseableValueError{Kind: "date", Raw: d}
	case nil:
		return "", &UnparseableValueError{Kind: "date", Raw: ""}
	default:
		return "", &UnparseableValueError{Kind: "date", Raw: fmt.Sprint(v)}
	}
}

// Clock normalizes a time-of-day value to HH:MM.
//
// nil and empty input mean "no time recorded" and yield "". Native times
// format directly. Strings are tried against clockLayouts and finally
// RFC 3339. What happens to a string nothing accepts is the policy's call.
func Clock(v any, policy ClockPolicy) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case time.Time:
		return t.Format("15:04"), nil
	case *time.Time:
		if t == nil {
			return "", nil
		}
		return t.Format("15:04"), nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return "", nil
		}
		for _, layout := range clockLayouts {
			if p, err := time.Parse(layout, s); err == nil {
				return p.Format("15:04"), nil
			}
		}
		if p, err := time.Parse(time.RFC3339, s); err == nil {
			return p.Format("15:04"), nil
		}
		if policy == ClockStrict {
			return "", &UnparseableValueError{Kind: "clock", Raw: t}
		}
		return t, nil
	default:
		if policy == ClockStrict {
			return "", &UnparseableValueError{Kind: "clock", Raw: fmt.Sprint(v)}
		}
		return fmt.Sprint(v), nil
	}
}
