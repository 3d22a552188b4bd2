package enums

import "fmt"

// CoverageStatus is the moderated state of a vendor's claim on a service
// area. A row is live for matching only while ACTIVE.
type CoverageStatus string

const (
	CoverageStatusPending  CoverageStatus = "pending"
	CoverageStatusActive   CoverageStatus = "active"
	CoverageStatusRejected CoverageStatus = "rejected"
)

var validCoverageStatuses = []CoverageStatus{
	CoverageStatusPending,
	CoverageStatusActive,
	CoverageStatusRejected,
}

// String implements fmt.Stringer.
func (s CoverageStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CoverageStatus.
func (s CoverageStatus) IsValid() bool {
	for _, candidate := range validCoverageStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCoverageStatus converts raw input into a CoverageStatus.
func ParseCoverageStatus(value string) (CoverageStatus, error) {
	for _, candidate := range validCoverageStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid coverage status %q", value)
}

// CoverageAction is an admin transition applied to a coverage row.
type CoverageAction string

const (
	CoverageActionActivate   CoverageAction = "activate"
	CoverageActionReject     CoverageAction = "reject"
	CoverageActionDeactivate CoverageAction = "deactivate"
	CoverageActionReconsider CoverageAction = "reconsider"
)

var validCoverageActions = []CoverageAction{
	CoverageActionActivate,
	CoverageActionReject,
	CoverageActionDeactivate,
	CoverageActionReconsider,
}

// String implements fmt.Stringer.
func (a CoverageAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known CoverageAction.
func (a CoverageAction) IsValid() bool {
	for _, candidate := range validCoverageActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseCoverageAction converts raw input into a CoverageAction. Unknown
// actions are a validation concern for callers, never a silent no-op.
func ParseCoverageAction(value string) (CoverageAction, error) {
	for _, candidate := range validCoverageActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid coverage action %q", value)
}
