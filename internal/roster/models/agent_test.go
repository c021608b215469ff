package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fiscaldesk/pkg/domain"
	dErrors "fiscaldesk/pkg/domain-errors"
)

func TestAgentQualification(t *testing.T) {
	today := domain.Date(2024, 8, 1)

	t.Run("no course recorded is always irregular", func(t *testing.T) {
		a := &Agent{}
		assert.Equal(t, QualificationNoCourse, a.Qualification(today))
		assert.True(t, a.QualificationExpired(today))
		assert.Nil(t, a.QualificationExpiresOn())
	})

	t.Run("course exactly 365 days old is expired", func(t *testing.T) {
		a := &Agent{LastCourseDate: domain.DatePtr(2023, 8, 2)}
		assert.Equal(t, 365, domain.DaysBetween(*a.LastCourseDate, today))
		assert.Equal(t, QualificationExpired, a.Qualification(today))
		assert.True(t, a.QualificationExpired(today))
	})

	t.Run("course 364 days old is current", func(t *testing.T) {
		a := &Agent{LastCourseDate: domain.DatePtr(2023, 8, 3)}
		assert.Equal(t, 364, domain.DaysBetween(*a.LastCourseDate, today))
		assert.Equal(t, QualificationCurrent, a.Qualification(today))
		assert.False(t, a.QualificationExpired(today))
	})

	t.Run("expiry date is course date plus 365 days", func(t *testing.T) {
		a := &Agent{LastCourseDate: domain.DatePtr(2024, 1, 10)}
		expires := a.QualificationExpiresOn()
		assert.NotNil(t, expires)
		assert.Equal(t, domain.Date(2025, 1, 9), *expires)
	})
}

func TestAgentValidate(t *testing.T) {
	base := func() *Agent {
		return &Agent{
			ID:           domain.NewAgentID(),
			FullName:     "Maria Silva",
			WarName:      "Silva",
			RankID:       domain.NewRankID(),
			Registration: "1234567",
		}
	}

	t.Run("valid agent passes", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("missing fields are invariant violations", func(t *testing.T) {
		for _, mutate := range []func(*Agent){
			func(a *Agent) { a.FullName = " " },
			func(a *Agent) { a.WarName = "" },
			func(a *Agent) { a.Registration = "" },
			func(a *Agent) { a.RankID = domain.RankID{} },
		} {
			a := base()
			mutate(a)
			err := a.Validate()
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		}
	})
}
