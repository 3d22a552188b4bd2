package enums

import "fmt"

// LocationResultType tags one candidate returned by location search.
type LocationResultType string

const (
	LocationResultArea     LocationResultType = "area"
	LocationResultCity     LocationResultType = "city"
	LocationResultExternal LocationResultType = "external"
)

var validLocationResultTypes = []LocationResultType{
	LocationResultArea,
	LocationResultCity,
	LocationResultExternal,
}

// String implements fmt.Stringer.
func (t LocationResultType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known LocationResultType.
func (t LocationResultType) IsValid() bool {
	for _, candidate := range validLocationResultTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseLocationResultType converts raw input into a LocationResultType.
func ParseLocationResultType(value string) (LocationResultType, error) {
	for _, candidate := range validLocationResultTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid location result type %q", value)
}
