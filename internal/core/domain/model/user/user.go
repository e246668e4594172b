package user

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	ErrUserIsNotConstructed = errors.New("User must be created via NewUser constructor")
	ErrNameIsRequired       = errs.NewValueIsRequiredError("name")
	ErrEmailIsRequired      = errs.NewValueIsRequiredError("email")
)

// User is an account in the directory. Customers link a processor customer
// record; drivers link a connected account that can receive transfers.
type User struct {
	id    kernel.UUID
	role  Role
	name  string
	email string
	phone string
	// photoRef is the stored reference photo used for driver face matching
	photoRef string
	// paymentAccountID is the processor customer id or connected account id
	paymentAccountID string
	// paymentAccountReady is set once the connected account can receive transfers
	paymentAccountReady bool
	guard               guard.ConstructorGuard
}

func NewUser(id kernel.UUID, role Role, name, email, phone string) (*User, error) {
	u := &User{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		u.setID(id),
		u.setRole(role),
		u.setName(name),
		u.setEmail(email),
	); err != nil {
		return nil, err
	}
	u.phone = strings.TrimSpace(phone)

	return u, nil
}

func RestoreUser(
	id kernel.UUID,
	role Role,
	name, email, phone, photoRef, paymentAccountID string,
	paymentAccountReady bool,
) (*User, error) {
	u, err := NewUser(id, role, name, email, phone)
	if err != nil {
		return nil, err
	}
	u.photoRef = photoRef
	u.paymentAccountID = paymentAccountID
	u.paymentAccountReady = paymentAccountReady
	return u, nil
}

func (u *User) Validate() error {
	if u == nil {
		return ErrUserIsNotConstructed
	}
	return u.guard.Validate(ErrUserIsNotConstructed)
}

func (u *User) ID() kernel.UUID {
	return u.id
}

func (u *User) Role() Role {
	return u.role
}

func (u *User) IsDriver() bool {
	return u.role == Driver
}

func (u *User) IsCustomer() bool {
	return u.role == Customer
}

func (u *User) Name() string {
	return u.name
}

func (u *User) Email() string {
	return u.email
}

func (u *User) Phone() string {
	return u.phone
}

func (u *User) PhotoRef() string {
	return u.photoRef
}

// PaymentAccountID returns ok=false until an account has been provisioned.
func (u *User) PaymentAccountID() (string, bool) {
	return u.paymentAccountID, u.paymentAccountID != ""
}

func (u *User) PaymentAccountReady() bool {
	return u.paymentAccountReady
}

// SetPhoto replaces the driver reference photo.
func (u *User) SetPhoto(ref string) error {
	if !u.IsDriver() {
		return errs.NewAuthorizationError("upload a driver photo", u.id.String())
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return errs.NewValueIsRequiredError("photo")
	}
	u.photoRef = ref
	return nil
}

// LinkPaymentAccount records the processor-side account. Linking a second,
// different account is rejected.
func (u *User) LinkPaymentAccount(accountID string) error {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return errs.NewValueIsRequiredError("payment account")
	}
	if u.paymentAccountID != "" && u.paymentAccountID != accountID {
		return errs.NewIllegalTransitionError("link payment account", "a different payment account is already linked")
	}
	u.paymentAccountID = accountID
	if u.IsCustomer() {
		u.paymentAccountReady = true
	}
	return nil
}

// MarkPaymentAccountReady is called once the processor confirms onboarding.
func (u *User) MarkPaymentAccountReady() error {
	if u.paymentAccountID == "" {
		return errs.NewIllegalTransitionError("confirm payment account", "no payment account is linked")
	}
	u.paymentAccountReady = true
	return nil
}

func (u *User) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	u.id = id
	return nil
}

func (u *User) setRole(role Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	u.role = role
	return nil
}

func (u *User) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	u.name = name
	return nil
}

func (u *User) setEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return ErrEmailIsRequired
	}
	if !strings.Contains(email, "@") {
		return errs.NewValueIsInvalidErrorWithCause("email", errors.New("missing @"))
	}
	u.email = email
	return nil
}
