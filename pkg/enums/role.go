package enums

import "fmt"

// ActorRole is the authenticated caller's role.
type ActorRole string

const (
	ActorRoleAdmin  ActorRole = "admin"
	ActorRoleVendor ActorRole = "vendor"
)

func (r ActorRole) String() string {
	return string(r)
}

func (r ActorRole) IsValid() bool {
	switch r {
	case ActorRoleAdmin, ActorRoleVendor:
		return true
	default:
		return false
	}
}

func ParseActorRole(value string) (ActorRole, error) {
	role := ActorRole(value)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid actor role %q", value)
	}
	return role, nil
}
