// Package domain provides shared value types for the oversight domain:
// typed record identifiers, enumerations, and civil-date helpers.
//
// IDs are distinct types over uuid.UUID so the compiler rejects mixups
// between, say, an AgentID and a RoleID. Construct them via the Parse*
// functions at trust boundaries; direct casting bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "fiscaldesk/pkg/domain-errors"
)

type (
	// RankID identifies a military/organizational grade.
	RankID uuid.UUID
	// AgentID identifies a person who can serve on committees.
	AgentID uuid.UUID
	// CompanyID identifies a contracted vendor.
	CompanyID uuid.UUID
	// RoleID identifies a designation type (inspector, president, ...).
	RoleID uuid.UUID
	// ContractID identifies a procurement contract.
	ContractID uuid.UUID
	// CommitteeID identifies one oversight body attached to a contract.
	CommitteeID uuid.UUID
	// MembershipID identifies one timed designation of an agent to a
	// role on a committee.
	MembershipID uuid.UUID
)

// parseLenientUUID backs text unmarshaling; unlike parseUUID it treats an
// empty string or the nil UUID as the zero value.
func parseLenientUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	return u, nil
}

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}

// ParseRankID constructs a RankID from external input.
func ParseRankID(s string) (RankID, error) {
	u, err := parseUUID(s)
	return RankID(u), err
}

// ParseAgentID constructs an AgentID from external input.
func ParseAgentID(s string) (AgentID, error) {
	u, err := parseUUID(s)
	return AgentID(u), err
}

// ParseCompanyID constructs a CompanyID from external input.
func ParseCompanyID(s string) (CompanyID, error) {
	u, err := parseUUID(s)
	return CompanyID(u), err
}

// ParseRoleID constructs a RoleID from external input.
func ParseRoleID(s string) (RoleID, error) {
	u, err := parseUUID(s)
	return RoleID(u), err
}

// ParseContractID constructs a ContractID from external input.
func ParseContractID(s string) (ContractID, error) {
	u, err := parseUUID(s)
	return ContractID(u), err
}

// ParseCommitteeID constructs a CommitteeID from external input.
func ParseCommitteeID(s string) (CommitteeID, error) {
	u, err := parseUUID(s)
	return CommitteeID(u), err
}

// ParseMembershipID constructs a MembershipID from external input.
func ParseMembershipID(s string) (MembershipID, error) {
	u, err := parseUUID(s)
	return MembershipID(u), err
}

func (id RankID) String() string       { return uuid.UUID(id).String() }
func (id AgentID) String() string      { return uuid.UUID(id).String() }
func (id CompanyID) String() string    { return uuid.UUID(id).String() }
func (id RoleID) String() string       { return uuid.UUID(id).String() }
func (id ContractID) String() string   { return uuid.UUID(id).String() }
func (id CommitteeID) String() string  { return uuid.UUID(id).String() }
func (id MembershipID) String() string { return uuid.UUID(id).String() }

// Text marshaling renders IDs in canonical UUID form, so JSON bodies carry
// strings rather than raw byte arrays. Unmarshaling accepts the zero UUID:
// drafts (a prefilled membership, say) round-trip with unset references, and
// model validation rejects missing ones. Path parameters still go through
// the strict Parse helpers.

func (id RankID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }
func (id AgentID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id CompanyID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id RoleID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }
func (id ContractID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id CommitteeID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id MembershipID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *RankID) UnmarshalText(b []byte) error {
	u, err := parseLenientUUID(string(b))
	if err != nil {
		return err
	}
	*id = RankID(u)
	return nil
}

func (id *AgentID) UnmarshalText(b []byte) error {
	u, err := parseLenientUUID(string(b))
	if err != nil {
		return err
	}
	*id = AgentID(u)
	return nil
}

func (id *CompanyID) UnmarshalText(b []byte) error {
	u, err := parseLenientUUID(string(b))
	if err != nil {
		return err
	}
	*id = CompanyID(u)
	return nil
}

func (id *RoleID) UnmarshalText(b []byte) error {
	u, err := parseLenientUUID(string(b))
	if err != nil {
		return err
	}
	*id = RoleID(u)
	return nil
}

func (id *ContractID) UnmarshalText(b []byte) error {
	u, err := parseLenientUUID(string(b))
	if err != nil {
		return err
	}
	*id = ContractID(u)
	return nil
}

func (id *CommitteeID) UnmarshalText(b []byte) error {
	u, err := parseLenientUUID(string(b))
	if err != nil {
		return err
	}
	*id = CommitteeID(u)
	return nil
}

func (id *MembershipID) UnmarshalText(b []byte) error {
	u, err := parseLenientUUID(string(b))
	if err != nil {
		return err
	}
	*id = MembershipID(u)
	return nil
}

// NewRankID allocates a fresh random RankID.
func NewRankID() RankID { return RankID(uuid.New()) }

// NewAgentID allocates a fresh random AgentID.
func NewAgentID() AgentID { return AgentID(uuid.New()) }

// NewCompanyID allocates a fresh random CompanyID.
func NewCompanyID() CompanyID { return CompanyID(uuid.New()) }

// NewRoleID allocates a fresh random RoleID.
func NewRoleID() RoleID { return RoleID(uuid.New()) }

// NewContractID allocates a fresh random ContractID.
func NewContractID() ContractID { return ContractID(uuid.New()) }

// NewCommitteeID allocates a fresh random CommitteeID.
func NewCommitteeID() CommitteeID { return CommitteeID(uuid.New()) }

// NewMembershipID allocates a fresh random MembershipID.
func NewMembershipID() MembershipID { return MembershipID(uuid.New()) }
