package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/pkg/guard"
)

var ErrRegisterUserCommandIsNotConstructed = errors.New(
	"RegisterUserCommand must be created via NewRegisterUserCommand constructor",
)

// RegisterUserCommand creates a customer or driver account. Credentials are
// handled outside this service.
type RegisterUserCommand struct {
	userID   kernel.UUID
	role     user.Role
	name     string
	email    string
	phone    string
	photoRef string

	guard guard.ConstructorGuard
}

func NewRegisterUserCommand(
	userID kernel.UUID,
	role user.Role,
	name, email, phone, photoRef string,
) (RegisterUserCommand, error) {
	cmd := RegisterUserCommand{
		name:     strings.TrimSpace(name),
		email:    strings.TrimSpace(email),
		phone:    strings.TrimSpace(phone),
		photoRef: strings.TrimSpace(photoRef),
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		userID.Validate(),
		role.Validate(),
	); err != nil {
		return RegisterUserCommand{}, err
	}
	cmd.userID = userID
	cmd.role = role

	return cmd, nil
}

func (c RegisterUserCommand) Validate() error {
	return c.guard.Validate(ErrRegisterUserCommandIsNotConstructed)
}

func (c RegisterUserCommand) UserID() kernel.UUID { return c.userID }
func (c RegisterUserCommand) Role() user.Role     { return c.role }
func (c RegisterUserCommand) Name() string        { return c.name }
func (c RegisterUserCommand) Email() string       { return c.email }
func (c RegisterUserCommand) Phone() string       { return c.phone }
func (c RegisterUserCommand) PhotoRef() string    { return c.photoRef }
