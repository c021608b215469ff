package models

import (
	"fmt"
	"time"

	"fiscaldesk/pkg/domain"
)

// The active-membership predicate is the single source of truth for
// "currently serving". Every report, export, and risk calculation goes
// through one of the two forms below, never a hand-rolled variant, since
// subtly different copies (e.g. one that forgets the termination check) are
// the primary correctness hazard in this system.
//
// A membership is active on a given day iff:
//   - it has no termination date, or its termination date is strictly after
//     today (a termination recorded for today already takes effect); AND
//   - it has no scheduled end, or its scheduled end is on or after today
//     (the member serves through the scheduled end day).

// IsActive is the in-memory form of the predicate.
func (m *Membership) IsActive(today time.Time) bool {
	d := domain.Truncate(today)
	if m.TerminatedOn != nil && !m.TerminatedOn.After(d) {
		return false
	}
	if m.ScheduledEnd != nil && m.ScheduledEnd.Before(d) {
		return false
	}
	return true
}

// ActiveFilterSQL is the composable query form of the predicate, pushed down
// into bulk retrieval. alias prefixes the membership columns ("" for none).
// The fragment takes a single positional date argument; callers splice it
// into WHERE clauses and bind "today" via ActiveFilterArgs.
//
// Both forms are covered by the same test grid so they cannot drift apart.
func ActiveFilterSQL(alias string, argPos int) string {
	p := ""
	if alias != "" {
		p = alias + "."
	}
	return fmt.Sprintf(
		"((%[1]sterminated_on IS NULL OR %[1]sterminated_on > $%[2]d) AND (%[1]sscheduled_end IS NULL OR %[1]sscheduled_end >= $%[2]d))",
		p, argPos,
	)
}

// ActiveFilterArgs returns the bind arguments matching ActiveFilterSQL.
func ActiveFilterArgs(today time.Time) []any {
	return []any{domain.Truncate(today)}
}
