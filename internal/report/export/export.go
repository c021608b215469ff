// Package export renders the oversight reports as CSV downloads. Rows are
// assembled as flat records and written through a gota dataframe, which
// handles quoting and the header line.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"

	"fiscaldesk/internal/report/service"
	"fiscaldesk/internal/store"
)

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

// writeRows renders the records through a dataframe; with no records it
// still emits the header line so the download is a valid, empty report.
func writeRows(w io.Writer, records any, header []string, count int) error {
	if count == 0 {
		_, err := fmt.Fprintln(w, strings.Join(header, ","))
		return err
	}
	df := dataframe.LoadStructs(records)
	if df.Err != nil {
		return fmt.Errorf("build export frame: %w", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

type expirationRow struct {
	Contract      string `dataframe:"contract"`
	Company       string `dataframe:"company"`
	Agent         string `dataframe:"agent"`
	Rank          string `dataframe:"rank"`
	Role          string `dataframe:"role"`
	ScheduledEnd  string `dataframe:"scheduled_end"`
	DaysRemaining int    `dataframe:"days_remaining"`
	Tier          string `dataframe:"tier"`
}

var expirationHeader = []string{
	"contract", "company", "agent", "rank", "role",
	"scheduled_end", "days_remaining", "tier",
}

// Expirations writes the deadline report: every active designation with a
// scheduled end, its remaining days and risk tier, soonest first.
func Expirations(w io.Writer, entries []service.ExpirationEntry) error {
	rows := make([]expirationRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, expirationRow{
			Contract:      e.ContractNumber,
			Company:       e.CompanyName,
			Agent:         e.AgentWarName,
			Rank:          e.RankAbbreviation,
			Role:          e.RoleTitle,
			ScheduledEnd:  formatDate(e.ScheduledEnd),
			DaysRemaining: e.DaysRemaining,
			Tier:          string(e.Tier),
		})
	}
	return writeRows(w, rows, expirationHeader, len(rows))
}

type auditRow struct {
	Contract     string `dataframe:"contract"`
	Company      string `dataframe:"company"`
	Committee    string `dataframe:"committee"`
	Agent        string `dataframe:"agent"`
	Rank         string `dataframe:"rank"`
	Role         string `dataframe:"role"`
	StartDate    string `dataframe:"start_date"`
	ScheduledEnd string `dataframe:"scheduled_end"`
	Observation  string `dataframe:"observation"`
}

var auditHeader = []string{
	"contract", "company", "committee", "agent", "rank", "role",
	"start_date", "scheduled_end", "observation",
}

// AuditRoster writes the full oversight picture: one row per active
// membership on the active committees of contracts still in force, plus one
// row per uncovered contract so the gaps show up in the same sheet the
// auditors read.
func AuditRoster(w io.Writer, details []*store.MembershipDetail, uncovered []service.UncoveredContract) error {
	rows := make([]auditRow, 0, len(details)+len(uncovered))
	for _, d := range details {
		rows = append(rows, auditRow{
			Contract:     d.ContractNumber,
			Company:      d.CompanyName,
			Committee:    string(d.CommitteeKind),
			Agent:        d.AgentWarName,
			Rank:         d.RankAbbreviation,
			Role:         d.RoleTitle,
			StartDate:    formatDate(d.Membership.StartDate),
			ScheduledEnd: formatDatePtr(d.Membership.ScheduledEnd),
		})
	}
	for _, u := range uncovered {
		rows = append(rows, auditRow{
			Contract:    u.Number,
			Observation: u.Reason,
		})
	}
	return writeRows(w, rows, auditHeader, len(rows))
}

type qualificationRow struct {
	Agent        string `dataframe:"agent"`
	Registration string `dataframe:"registration"`
	Status       string `dataframe:"status"`
	CourseDate   string `dataframe:"course_date"`
	ExpiresOn    string `dataframe:"expires_on"`
}

var qualificationHeader = []string{"agent", "registration", "status", "course_date", "expires_on"}

// Qualification writes the training standing of every actively serving
// agent.
func Qualification(w io.Writer, entries []service.QualificationEntry) error {
	rows := make([]qualificationRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, qualificationRow{
			Agent:        e.WarName,
			Registration: e.Registration,
			Status:       string(e.Status),
			CourseDate:   formatDatePtr(e.CourseDate),
			ExpiresOn:    formatDatePtr(e.ExpiresOn),
		})
	}
	return writeRows(w, rows, qualificationHeader, len(rows))
}
