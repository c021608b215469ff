// Package tenure resolves the continuous-tenure origin of a membership:
// the earliest start date of an unbroken chain of renewed designations for
// the same (committee, agent, role) triple. Renewals chained back-to-back
// count as one tenure for seniority and rotation-risk purposes.
package tenure

import (
	"context"
	"errors"
	"fmt"
	"time"

	oversight "fiscaldesk/internal/oversight/models"
	"fiscaldesk/pkg/domain"
	dErrors "fiscaldesk/pkg/domain-errors"
	"fiscaldesk/pkg/platform/sentinel"
)

// maxChainLinks bounds the backward walk. Each step strictly decreases the
// reference date so cycles are impossible, but a bound keeps a corrupted
// dataset from turning one request into an unbounded query loop.
const maxChainLinks = 512

// PredecessorFinder looks up the membership, if any, on the same
// (committee, agent, role) triple whose scheduled end OR termination date
// falls exactly on endingOn. Returns sentinel.ErrNotFound when the chain
// has no earlier link.
type PredecessorFinder interface {
	FindPredecessor(ctx context.Context, committeeID domain.CommitteeID, agentID domain.AgentID, roleID domain.RoleID, endingOn time.Time) (*oversight.Membership, error)
}

// Resolution is the derived tenure of one active membership.
type Resolution struct {
	// Origin is the resolved start of the unbroken chain. Equals the
	// membership's own start date when it has no predecessor.
	Origin time.Time `json:"origin"`
	// Links counts predecessors found behind the starting membership.
	Links int `json:"links"`
	// TotalDays elapsed from origin to today.
	TotalDays int `json:"total_days"`
	// Years and Months split TotalDays with 365-day years and 30-day
	// months. Integer division, a display heuristic, not calendar math.
	Years  int `json:"years"`
	Months int `json:"months"`
}

// Formatted renders the duration the way roster listings show it,
// e.g. "1y 2m (427 days)".
func (r Resolution) Formatted() string {
	return fmt.Sprintf("%dy %dm (%d days)", r.Years, r.Months, r.TotalDays)
}

// Resolve walks backward from m through chained designations. Consecutive
// links are continuous when the previous membership's scheduled end or
// termination date equals exactly one day before the next one's start; any
// wider gap breaks the chain. One lookup per link, O(chain length) queries,
// acceptable at the volumes this system targets (hundreds of memberships).
func Resolve(ctx context.Context, store PredecessorFinder, m *oversight.Membership, today time.Time) (Resolution, error) {
	origin := domain.Truncate(m.StartDate)
	links := 0

	for links < maxChainLinks {
		prev, err := store.FindPredecessor(ctx, m.CommitteeID, m.AgentID, m.RoleID, domain.AddDays(origin, -1))
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				break
			}
			return Resolution{}, dErrors.Wrap(err, dErrors.CodeInternal, "tenure chain lookup failed")
		}
		origin = domain.Truncate(prev.StartDate)
		links++
	}
	if links == maxChainLinks {
		return Resolution{}, dErrors.Newf(dErrors.CodeInternal, "tenure chain exceeds %d links", maxChainLinks)
	}

	totalDays := domain.DaysBetween(origin, today)
	return Resolution{
		Origin:    origin,
		Links:     links,
		TotalDays: totalDays,
		Years:     totalDays / 365,
		Months:    (totalDays % 365) / 30,
	}, nil
}
