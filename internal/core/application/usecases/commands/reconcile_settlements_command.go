package commands

import (
	"errors"
	"time"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

const DefaultReconcileBatchSize = 100

var ErrReconcileSettlementsCommandIsNotConstructed = errors.New(
	"ReconcileSettlementsCommand must be created via NewReconcileSettlementsCommand constructor",
)

// ReconcileSettlementsCommand looks at deductions left PENDING for longer
// than minAge and at completed deductions nobody transferred.
type ReconcileSettlementsCommand struct {
	minAge    time.Duration
	batchSize int

	guard guard.ConstructorGuard
}

func NewReconcileSettlementsCommand(minAge time.Duration, batchSize int) (ReconcileSettlementsCommand, error) {
	if minAge < 0 {
		return ReconcileSettlementsCommand{}, errs.NewValueIsOutOfRangeError("minAge", minAge, 0, "unbounded")
	}
	if batchSize <= 0 {
		batchSize = DefaultReconcileBatchSize
	}
	return ReconcileSettlementsCommand{
		minAge:    minAge,
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ReconcileSettlementsCommand) Validate() error {
	return c.guard.Validate(ErrReconcileSettlementsCommandIsNotConstructed)
}

func (c ReconcileSettlementsCommand) MinAge() time.Duration { return c.minAge }
func (c ReconcileSettlementsCommand) BatchSize() int        { return c.batchSize }
