// Package risk holds the pure classification rules for deadlines and
// continuous-tenure duration. Both are stateless maps from a day count to a
// severity tier; they are deliberately separate classifiers with separate
// thresholds and must not be conflated.
package risk

// DeadlineTier classifies how close a scheduled end date is.
type DeadlineTier string

const (
	DeadlineCritical DeadlineTier = "critical"
	DeadlineWarning  DeadlineTier = "warning"
	DeadlineNormal   DeadlineTier = "normal"
)

// ClassifyDeadline maps days remaining until a deadline to a severity tier:
// critical at 7 days or fewer (overdue counts stay critical, not a separate
// category), warning between 8 and 15, normal beyond.
func ClassifyDeadline(daysRemaining int) DeadlineTier {
	switch {
	case daysRemaining <= 7:
		return DeadlineCritical
	case daysRemaining <= 15:
		return DeadlineWarning
	default:
		return DeadlineNormal
	}
}

// TenureTier classifies how long an agent has continuously held a role,
// flagging stagnation for rotation planning.
type TenureTier string

const (
	TenureHigh   TenureTier = "high"
	TenureMedium TenureTier = "medium"
	TenureLow    TenureTier = "low"
)

// ClassifyTenure maps total continuous days in a role to a rotation-risk
// tier: high beyond two years (730 days), medium beyond one year (365),
// low otherwise.
func ClassifyTenure(totalDays int) TenureTier {
	switch {
	case totalDays > 730:
		return TenureHigh
	case totalDays > 365:
		return TenureMedium
	default:
		return TenureLow
	}
}
