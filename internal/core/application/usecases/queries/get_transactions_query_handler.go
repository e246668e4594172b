package queries

import (
	"context"

	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetTransactionsQueryHandler struct {
	db *gorm.DB
}

func NewGetTransactionsQueryHandler(db *gorm.DB) GetTransactionsQueryHandler {
	return GetTransactionsQueryHandler{db: db}
}

// Handle merges ledger entries and payouts into one timeline.
func (h GetTransactionsQueryHandler) Handle(
	ctx context.Context,
	query GetTransactionsQuery,
) ([]TransactionView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if _, err := loadRole(ctx, h.db, query.UserID()); err != nil {
		return nil, err
	}

	id := query.UserID().Bytes()
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			p.id,
			p.job_id,
			j.order_number,
			p.transaction_type,
			p.amount_cents,
			p.status,
			p.is_tip,
			p.payment_transferred_status,
			p.created_at
		FROM payments p
		LEFT JOIN jobs j ON j.id = p.job_id
		WHERE p.user_id = ?
		UNION ALL
		SELECT
			w.id,
			NULL::uuid,
			NULL::bigint,
			?,
			w.amount_cents,
			-w.status,
			false,
			false,
			w.created_at
		FROM withdraws w
		WHERE w.driver_id = ?
		ORDER BY 9 DESC
	`, id, int(payment.DriverWithdraw), id).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]TransactionView, 0)
	for rows.Next() {
		var (
			view        TransactionView
			entryID     uuid.UUID
			jobID       uuid.NullUUID
			orderNumber *int64
			txType      int
			amountCents int64
			status      int
		)
		if err = rows.Scan(
			&entryID,
			&jobID,
			&orderNumber,
			&txType,
			&amountCents,
			&status,
			&view.IsTip,
			&view.Transferred,
			&view.CreatedAt,
		); err != nil {
			return nil, err
		}

		if view.ID, err = kernel.UUIDFromBytes(entryID[:]); err != nil {
			return nil, err
		}
		if jobID.Valid {
			jid, idErr := kernel.UUIDFromBytes(jobID.UUID[:])
			if idErr != nil {
				return nil, idErr
			}
			view.JobID = &jid
		}
		if orderNumber != nil {
			view.OrderNumber = job.OrderNumber(*orderNumber).String()
		}
		if view.Amount, err = kernel.NewMoney(amountCents); err != nil {
			return nil, err
		}
		view.TransactionType = payment.TransactionType(txType).String()
		view.Status = transactionStatus(status)
		transactions = append(transactions, view)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}

// transactionStatus decodes the status column of the merged timeline.
// Payout statuses travel negated so both enums share one column.
func transactionStatus(status int) string {
	if status < 0 {
		return payment.WithdrawStatus(-status).String()
	}
	return payment.Status(status).String()
}
