package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"fiscaldesk/pkg/domain"
	dErrors "fiscaldesk/pkg/domain-errors"
)

// QualificationValidityDays is the mandatory-training validity window: a
// management course covers an agent for 365 days from its date.
const QualificationValidityDays = 365

// QualificationStatus classifies an agent's mandatory-training standing.
type QualificationStatus string

const (
	// QualificationNoCourse means no course was ever recorded; irregular.
	QualificationNoCourse QualificationStatus = "no_course"
	// QualificationExpired means the recorded course is 365 or more days
	// old; irregular.
	QualificationExpired QualificationStatus = "expired"
	// QualificationCurrent means the recorded course is still valid.
	QualificationCurrent QualificationStatus = "current"
)

// Irregular reports whether the status blocks compliant service.
func (q QualificationStatus) Irregular() bool {
	return q != QualificationCurrent
}

// Agent is an individual who can serve on oversight committees.
//
// Invariants:
//   - FullName, WarName and Registration are non-empty
//   - Registration is unique (store-enforced)
//   - RankID references the agent's current rank; the rank held at
//     designation time is snapshotted on the membership, not here
type Agent struct {
	ID           domain.AgentID `json:"id"`
	FullName     string         `json:"full_name"`
	WarName      string         `json:"war_name"`
	RankID       domain.RankID  `json:"rank_id"`
	Registration string         `json:"registration"`
	NationalID   string         `json:"national_id,omitempty"`
	// LastCourseDate is the date of the last mandatory management course,
	// nil when no course was ever recorded.
	LastCourseDate *time.Time `json:"last_course_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Validate enforces the agent invariants before any save.
func (a *Agent) Validate() error {
	if strings.TrimSpace(a.FullName) == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "agent full name cannot be empty")
	}
	if strings.TrimSpace(a.WarName) == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "agent war name cannot be empty")
	}
	if strings.TrimSpace(a.Registration) == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "agent registration cannot be empty")
	}
	if a.RankID == domain.RankID(uuid.Nil) {
		return dErrors.New(dErrors.CodeInvariantViolation, "agent must reference a current rank")
	}
	return nil
}

// Qualification classifies the agent's training standing as of today.
// An agent with no recorded course is always irregular. A course taken
// exactly 365 days ago is already expired; 364 days ago is still current.
func (a *Agent) Qualification(today time.Time) QualificationStatus {
	if a.LastCourseDate == nil {
		return QualificationNoCourse
	}
	if domain.DaysBetween(*a.LastCourseDate, today) >= QualificationValidityDays {
		return QualificationExpired
	}
	return QualificationCurrent
}

// QualificationExpired reports whether the agent is irregular as of today.
func (a *Agent) QualificationExpired(today time.Time) bool {
	return a.Qualification(today).Irregular()
}

// QualificationExpiresOn returns the course validity date, or nil when no
// course was ever recorded.
func (a *Agent) QualificationExpiresOn() *time.Time {
	if a.LastCourseDate == nil {
		return nil
	}
	d := domain.AddDays(*a.LastCourseDate, QualificationValidityDays)
	return &d
}
