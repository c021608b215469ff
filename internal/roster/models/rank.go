// Package models defines the personnel reference entities: ranks, agents,
// companies, and roles. These are reference data, created and edited
// administratively, never deleted while referenced by dependent records
// (the stores enforce referential protection).
package models

import (
	"strings"
	"time"

	"fiscaldesk/pkg/domain"
	dErrors "fiscaldesk/pkg/domain-errors"
)

// Rank is a military/organizational grade.
//
// Invariants:
//   - Abbreviation is non-empty and unique (store-enforced)
//   - SeniorityOrder sorts listings only; lower values are senior
//
// A rank cannot be deleted while any agent holds it or any membership
// snapshot references it.
type Rank struct {
	ID             domain.RankID `json:"id"`
	Abbreviation   string        `json:"abbreviation"`
	Description    string        `json:"description"`
	SeniorityOrder int           `json:"seniority_order"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Validate enforces the rank invariants before any save.
func (r *Rank) Validate() error {
	if strings.TrimSpace(r.Abbreviation) == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "rank abbreviation cannot be empty")
	}
	return nil
}

// NewRank constructs a rank with a fresh ID.
func NewRank(abbreviation, description string, seniorityOrder int, now time.Time) (*Rank, error) {
	r := &Rank{
		ID:             domain.NewRankID(),
		Abbreviation:   strings.TrimSpace(abbreviation),
		Description:    description,
		SeniorityOrder: seniorityOrder,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}
