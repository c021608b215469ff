package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oversight "fiscaldesk/internal/oversight/models"
	"fiscaldesk/internal/oversight/risk"
	"fiscaldesk/internal/report/service"
	roster "fiscaldesk/internal/roster/models"
	"fiscaldesk/internal/store"
	"fiscaldesk/pkg/domain"
)

func parseCSV(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExpirations(t *testing.T) {
	entries := []service.ExpirationEntry{
		{
			ContractNumber: "CT-2024/001", CompanyName: "Vendor, Ltd",
			AgentWarName: "Barros", RankAbbreviation: "MAJ", RoleTitle: "Inspector",
			ScheduledEnd: domain.Date(2024, 8, 8), DaysRemaining: 7,
			Tier: risk.DeadlineCritical,
		},
		{
			ContractNumber: "CT-2024/002", CompanyName: "Other SA",
			AgentWarName: "Lima", RankAbbreviation: "CAP", RoleTitle: "Member",
			ScheduledEnd: domain.Date(2024, 12, 1), DaysRemaining: 122,
			Tier: risk.DeadlineNormal,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Expirations(&buf, entries))

	records := parseCSV(t, &buf)
	require.Len(t, records, 3)
	assert.Equal(t,
		[]string{"contract", "company", "agent", "rank", "role", "scheduled_end", "days_remaining", "tier"},
		records[0])
	assert.Equal(t,
		[]string{"CT-2024/001", "Vendor, Ltd", "Barros", "MAJ", "Inspector", "2024-08-08", "7", "critical"},
		records[1])
	assert.Equal(t, "normal", records[2][7])
}

func TestExpirationsEmptyStillWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Expirations(&buf, nil))

	records := parseCSV(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t,
		[]string{"contract", "company", "agent", "rank", "role", "scheduled_end", "days_remaining", "tier"},
		records[0])
}

func TestAuditRosterIncludesUncoveredContracts(t *testing.T) {
	end := domain.Date(2024, 12, 31)
	details := []*store.MembershipDetail{
		{
			Membership: oversight.Membership{
				StartDate:    domain.Date(2024, 1, 1),
				ScheduledEnd: &end,
			},
			AgentWarName:     "Andrade",
			RankAbbreviation: "MAJ",
			RoleTitle:        "Inspector",
			CommitteeKind:    domain.CommitteeKindInspection,
			ContractNumber:   "CT-2024/001",
			CompanyName:      "Vendor Ltd",
		},
	}
	uncovered := []service.UncoveredContract{
		{Number: "CT-2024/009", Reason: "no inspection committee"},
	}

	var buf bytes.Buffer
	require.NoError(t, AuditRoster(&buf, details, uncovered))

	records := parseCSV(t, &buf)
	require.Len(t, records, 3)

	assert.Equal(t, "CT-2024/001", records[1][0])
	assert.Equal(t, "Andrade", records[1][3])
	assert.Equal(t, "2024-01-01", records[1][6])
	assert.Equal(t, "2024-12-31", records[1][7])

	// Gap rows carry the contract and the reason, nothing else.
	assert.Equal(t, "CT-2024/009", records[2][0])
	assert.Equal(t, "", records[2][3])
	assert.Equal(t, "no inspection committee", records[2][8])
}

func TestQualification(t *testing.T) {
	course := domain.Date(2023, 8, 1)
	expires := domain.Date(2024, 7, 31)
	entries := []service.QualificationEntry{
		{
			WarName: "Costa", Registration: "100002",
			Status: roster.QualificationExpired, CourseDate: &course, ExpiresOn: &expires,
		},
		{
			WarName: "Moreira", Registration: "100003",
			Status: roster.QualificationNoCourse,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Qualification(&buf, entries))

	records := parseCSV(t, &buf)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Costa", "100002", "expired", "2023-08-01", "2024-07-31"}, records[1])
	assert.Equal(t, []string{"Moreira", "100003", "no_course", "", ""}, records[2])
}
