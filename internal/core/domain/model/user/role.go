package user

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Role decides which side of the marketplace an account acts on.
type Role int

const (
	UnknownRole Role = iota
	Driver
	Customer
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		UnknownRole: "UNKNOWN",
		Driver:      "DRIVER",
		Customer:    "CUSTOMER",
	}
}

func (r Role) Validate() error {
	if r != Driver && r != Customer {
		return errs.NewValueIsInvalidErrorWithCause("role is invalid", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "UNKNOWN"
}

// ParseRole accepts the names returned by String.
func ParseRole(s string) (Role, error) {
	for role, name := range getRoleStrings() {
		if name == s && role != UnknownRole {
			return role, nil
		}
	}
	return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role is invalid", fmt.Errorf("%q is not a valid role", s))
}
