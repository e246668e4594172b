package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetBalanceQueryHandler struct {
	db        *gorm.DB
	processor ports.PaymentProcessor
	timeout   time.Duration
}

func NewGetBalanceQueryHandler(
	db *gorm.DB,
	processor ports.PaymentProcessor,
	timeout time.Duration,
) GetBalanceQueryHandler {
	return GetBalanceQueryHandler{db: db, processor: processor, timeout: timeout}
}

func (h GetBalanceQueryHandler) Handle(
	ctx context.Context,
	query GetBalanceQuery,
) (GetBalanceQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetBalanceQueryResponse{}, err
	}

	var (
		role       int
		accountRef sql.NullString
	)
	err := h.db.WithContext(ctx).Raw(`
		SELECT role, payment_account_id
		FROM users
		WHERE id = ?
	`, query.DriverID().Bytes()).Row().Scan(&role, &accountRef)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetBalanceQueryResponse{}, errs.NewObjectNotFoundError("user", query.DriverID().String())
		}
		return GetBalanceQueryResponse{}, err
	}
	if user.Role(role) != user.Driver {
		return GetBalanceQueryResponse{}, errs.NewAuthorizationError("read balance", query.DriverID().String())
	}
	if !accountRef.Valid || accountRef.String == "" {
		return GetBalanceQueryResponse{}, nil
	}

	callCtx := ctx
	if h.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	balance, err := h.processor.Balance(callCtx, accountRef.String)
	if err != nil {
		return GetBalanceQueryResponse{}, fmt.Errorf("read processor balance: %w", err)
	}
	return GetBalanceQueryResponse{
		AccountLinked: true,
		Available:     balance.Available,
		Pending:       balance.Pending,
	}, nil
}
