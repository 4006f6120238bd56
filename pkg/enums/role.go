package enums

import "fmt"

// Role distinguishes buyer sessions from vendor sessions.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleVendor Role = "vendor"
)

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	return r == RoleBuyer || r == RoleVendor
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleBuyer:
		return RoleBuyer, nil
	case RoleVendor:
		return RoleVendor, nil
	default:
		return "", fmt.Errorf("invalid role %q", value)
	}
}
