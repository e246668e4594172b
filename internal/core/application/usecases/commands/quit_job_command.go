package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrQuitJobCommandIsNotConstructed = errors.New(
	"QuitJobCommand must be created via NewQuitJobCommand constructor",
)

// QuitJobCommand cancels an in-progress job on behalf of its driver.
type QuitJobCommand struct {
	jobID    kernel.UUID
	driverID kernel.UUID
	reason   string

	guard guard.ConstructorGuard
}

func NewQuitJobCommand(jobID, driverID kernel.UUID, reason string) (QuitJobCommand, error) {
	reason = strings.TrimSpace(reason)
	var reasonErr error
	if reason == "" {
		reasonErr = job.ErrQuitReasonIsRequired
	}
	if err := errors.Join(jobID.Validate(), driverID.Validate(), reasonErr); err != nil {
		return QuitJobCommand{}, err
	}
	return QuitJobCommand{
		jobID:    jobID,
		driverID: driverID,
		reason:   reason,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c QuitJobCommand) Validate() error {
	return c.guard.Validate(ErrQuitJobCommandIsNotConstructed)
}

func (c QuitJobCommand) JobID() kernel.UUID    { return c.jobID }
func (c QuitJobCommand) DriverID() kernel.UUID { return c.driverID }
func (c QuitJobCommand) Reason() string        { return c.reason }
