package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fiscaldesk/pkg/domain"
	dErrors "fiscaldesk/pkg/domain-errors"
)

func validContract() *Contract {
	return &Contract{
		ID:          domain.NewContractID(),
		Number:      "042/2024",
		Type:        domain.ContractTypeExpense,
		Description: "Facility maintenance services",
		CompanyID:   domain.NewCompanyID(),
		ValidFrom:   domain.Date(2024, 1, 1),
		ValidUntil:  domain.Date(2024, 12, 31),
		TotalValue:  150000,
	}
}

func TestContractValidate(t *testing.T) {
	t.Run("valid contract passes", func(t *testing.T) {
		assert.NoError(t, validContract().Validate())
	})

	t.Run("validity end before start is rejected", func(t *testing.T) {
		c := validContract()
		c.ValidUntil = domain.Date(2023, 12, 31)
		err := c.Validate()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("single-day validity is allowed", func(t *testing.T) {
		c := validContract()
		c.ValidUntil = c.ValidFrom
		assert.NoError(t, c.Validate())
	})

	t.Run("empty number is rejected", func(t *testing.T) {
		c := validContract()
		c.Number = "  "
		err := c.Validate()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		c := validContract()
		c.Type = "loan"
		err := c.Validate()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestContractExpired(t *testing.T) {
	c := validContract()
	assert.False(t, c.Expired(domain.Date(2024, 12, 31)))
	assert.True(t, c.Expired(domain.Date(2025, 1, 1)))
}

func TestCommitteeValidityExpired(t *testing.T) {
	t.Run("open-ended committee never expires", func(t *testing.T) {
		c := &Committee{}
		assert.False(t, c.ValidityExpired(domain.Date(2030, 1, 1)))
	})

	t.Run("end date strictly before today expires", func(t *testing.T) {
		c := &Committee{EndDate: domain.DatePtr(2024, 6, 30)}
		assert.False(t, c.ValidityExpired(domain.Date(2024, 6, 30)))
		assert.True(t, c.ValidityExpired(domain.Date(2024, 7, 1)))
	})
}
