package enums

import "fmt"

// VendorStatus represents the canonical vendor_status enum in Postgres. Only
// APPROVED vendors participate in matching.
type VendorStatus string

const (
	VendorStatusPending    VendorStatus = "pending"
	VendorStatusApproved   VendorStatus = "approved"
	VendorStatusSuspended  VendorStatus = "suspended"
	VendorStatusTerminated VendorStatus = "terminated"
)

var validVendorStatuses = []VendorStatus{
	VendorStatusPending,
	VendorStatusApproved,
	VendorStatusSuspended,
	VendorStatusTerminated,
}

// String implements fmt.Stringer.
func (s VendorStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known VendorStatus.
func (s VendorStatus) IsValid() bool {
	for _, candidate := range validVendorStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseVendorStatus converts raw input into a VendorStatus.
func ParseVendorStatus(value string) (VendorStatus, error) {
	for _, candidate := range validVendorStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vendor status %q", value)
}

// CoverageMethod records how a vendor's pincode set was last assigned.
type CoverageMethod string

const (
	CoverageMethodPincodeList CoverageMethod = "pincode_list"
	CoverageMethodRadius      CoverageMethod = "radius"
)

var validCoverageMethods = []CoverageMethod{
	CoverageMethodPincodeList,
	CoverageMethodRadius,
}

// String implements fmt.Stringer.
func (m CoverageMethod) String() string {
	return string(m)
}

// IsValid reports whether the value is a known CoverageMethod.
func (m CoverageMethod) IsValid() bool {
	for _, candidate := range validCoverageMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseCoverageMethod converts raw input into a CoverageMethod.
func ParseCoverageMethod(value string) (CoverageMethod, error) {
	for _, candidate := range validCoverageMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid coverage method %q", value)
}
