package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrVerifyDriverImageCommandIsNotConstructed = errors.New(
	"VerifyDriverImageCommand must be created via NewVerifyDriverImageCommand constructor",
)

// VerifyDriverImageCommand carries a photo the assigned driver just took.
type VerifyDriverImageCommand struct {
	jobID    kernel.UUID
	driverID kernel.UUID
	imageRef string

	guard guard.ConstructorGuard
}

func NewVerifyDriverImageCommand(jobID, driverID kernel.UUID, imageRef string) (VerifyDriverImageCommand, error) {
	imageRef = strings.TrimSpace(imageRef)
	var imageErr error
	if imageRef == "" {
		imageErr = errs.NewValueIsRequiredError("image")
	}
	if err := errors.Join(jobID.Validate(), driverID.Validate(), imageErr); err != nil {
		return VerifyDriverImageCommand{}, err
	}
	return VerifyDriverImageCommand{
		jobID:    jobID,
		driverID: driverID,
		imageRef: imageRef,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c VerifyDriverImageCommand) Validate() error {
	return c.guard.Validate(ErrVerifyDriverImageCommandIsNotConstructed)
}

func (c VerifyDriverImageCommand) JobID() kernel.UUID    { return c.jobID }
func (c VerifyDriverImageCommand) DriverID() kernel.UUID { return c.driverID }
func (c VerifyDriverImageCommand) ImageRef() string      { return c.imageRef }
