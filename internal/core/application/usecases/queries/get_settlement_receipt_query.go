package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetSettlementReceiptQueryIsNotConstructed = errors.New(
	"GetSettlementReceiptQuery must be created via NewGetSettlementReceiptQuery constructor",
)

// GetSettlementReceiptQuery renders the money movements of one job for its
// customer (deductions and tips) or its assigned driver (transfers).
type GetSettlementReceiptQuery struct {
	jobID    kernel.UUID
	callerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetSettlementReceiptQuery(jobID, callerID kernel.UUID) (GetSettlementReceiptQuery, error) {
	if err := errors.Join(jobID.Validate(), callerID.Validate()); err != nil {
		return GetSettlementReceiptQuery{}, err
	}
	return GetSettlementReceiptQuery{
		jobID:    jobID,
		callerID: callerID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q GetSettlementReceiptQuery) Validate() error {
	return q.guard.Validate(ErrGetSettlementReceiptQueryIsNotConstructed)
}

func (q GetSettlementReceiptQuery) JobID() kernel.UUID    { return q.jobID }
func (q GetSettlementReceiptQuery) CallerID() kernel.UUID { return q.callerID }

type GetSettlementReceiptQueryResponse struct {
	Document []byte
	FileName string
}
