package domain

import dErrors "fiscaldesk/pkg/domain-errors"

// ContractType distinguishes expense contracts from revenue contracts.
type ContractType string

const (
	ContractTypeExpense ContractType = "expense"
	ContractTypeRevenue ContractType = "revenue"
)

var validContractTypes = map[ContractType]bool{
	ContractTypeExpense: true,
	ContractTypeRevenue: true,
}

// ParseContractType constructs a ContractType from external input.
func ParseContractType(s string) (ContractType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "contract type cannot be empty")
	}
	t := ContractType(s)
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "contract type must be 'expense' or 'revenue'")
	}
	return t, nil
}

func (t ContractType) IsValid() bool  { return validContractTypes[t] }
func (t ContractType) String() string { return string(t) }

// CommitteeKind distinguishes the two oversight bodies a contract can carry.
type CommitteeKind string

const (
	CommitteeKindInspection CommitteeKind = "inspection"
	CommitteeKindReceiving  CommitteeKind = "receiving"
)

var validCommitteeKinds = map[CommitteeKind]bool{
	CommitteeKindInspection: true,
	CommitteeKindReceiving:  true,
}

// ParseCommitteeKind constructs a CommitteeKind from external input.
func ParseCommitteeKind(s string) (CommitteeKind, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "committee kind cannot be empty")
	}
	k := CommitteeKind(s)
	if !k.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "committee kind must be 'inspection' or 'receiving'")
	}
	return k, nil
}

func (k CommitteeKind) IsValid() bool  { return validCommitteeKinds[k] }
func (k CommitteeKind) String() string { return string(k) }
