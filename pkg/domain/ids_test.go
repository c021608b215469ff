package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "fiscaldesk/pkg/domain-errors"
)

// TestParseID_Invariants validates the parsing invariant:
// IDs must be valid, non-empty, non-nil UUIDs.
func TestParseID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseAgentID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseAgentID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseAgentID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseAgentID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, AgentID(valid), id)
	})
}

func TestParseEnums(t *testing.T) {
	t.Run("contract types", func(t *testing.T) {
		ct, err := ParseContractType("expense")
		require.NoError(t, err)
		assert.Equal(t, ContractTypeExpense, ct)

		_, err = ParseContractType("loan")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

		_, err = ParseContractType("")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("committee kinds", func(t *testing.T) {
		k, err := ParseCommitteeKind("receiving")
		require.NoError(t, err)
		assert.Equal(t, CommitteeKindReceiving, k)

		_, err = ParseCommitteeKind("steering")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestDateHelpers(t *testing.T) {
	t.Run("DaysBetween ignores time of day", func(t *testing.T) {
		a := time.Date(2024, 1, 1, 23, 50, 0, 0, time.UTC)
		b := time.Date(2024, 1, 2, 0, 10, 0, 0, time.UTC)
		assert.Equal(t, 1, DaysBetween(a, b))
		assert.Equal(t, -1, DaysBetween(b, a))
	})

	t.Run("AddDays crosses month boundaries", func(t *testing.T) {
		assert.Equal(t, Date(2024, 3, 1), AddDays(Date(2024, 2, 29), 1))
		assert.Equal(t, Date(2023, 12, 31), AddDays(Date(2024, 1, 1), -1))
	})

	t.Run("scenario from the audit roster: Jan 1 to Aug 1 2024", func(t *testing.T) {
		assert.Equal(t, 213, DaysBetween(Date(2024, 1, 1), Date(2024, 8, 1)))
	})
}
