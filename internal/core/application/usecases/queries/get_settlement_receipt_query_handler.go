package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetSettlementReceiptQueryHandler struct {
	db       *gorm.DB
	renderer ports.ReceiptRenderer
}

func NewGetSettlementReceiptQueryHandler(
	db *gorm.DB,
	renderer ports.ReceiptRenderer,
) GetSettlementReceiptQueryHandler {
	return GetSettlementReceiptQueryHandler{db: db, renderer: renderer}
}

// Handle builds the caller's side of the settlement and renders it.
// Only completed movements count towards the total.
func (h GetSettlementReceiptQueryHandler) Handle(
	ctx context.Context,
	query GetSettlementReceiptQuery,
) (GetSettlementReceiptQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetSettlementReceiptQueryResponse{}, err
	}

	receipt, partner, err := h.loadHeader(ctx, query.JobID())
	if err != nil {
		return GetSettlementReceiptQueryResponse{}, err
	}

	var (
		recipient kernel.UUID
		txType    payment.TransactionType
	)
	switch caller := query.CallerID(); {
	case receipt.customerID.IsEqual(caller):
		recipient, txType = caller, payment.CustomerDeduction
	case partner != nil && partner.IsEqual(caller):
		recipient, txType = caller, payment.DriverTransfer
	default:
		return GetSettlementReceiptQueryResponse{}, errs.NewAuthorizationError("read receipt", caller.String())
	}

	if receipt.Lines, receipt.Total, err = h.loadLines(ctx, query.JobID(), recipient, txType); err != nil {
		return GetSettlementReceiptQueryResponse{}, err
	}
	receipt.IssuedAt = time.Now().UTC()

	document, fileName, err := h.renderer.Render(ctx, receipt.Receipt)
	if err != nil {
		return GetSettlementReceiptQueryResponse{}, fmt.Errorf("render receipt: %w", err)
	}
	return GetSettlementReceiptQueryResponse{Document: document, FileName: fileName}, nil
}

type receiptHeader struct {
	ports.Receipt
	customerID kernel.UUID
}

func (h GetSettlementReceiptQueryHandler) loadHeader(
	ctx context.Context,
	jobID kernel.UUID,
) (receiptHeader, *kernel.UUID, error) {
	var (
		header       receiptHeader
		orderNumber  int64
		customerID   uuid.UUID
		partner      uuid.NullUUID
		customerName sql.NullString
		driverName   sql.NullString
	)

	err := h.db.WithContext(ctx).Raw(`
		SELECT
			j.order_number,
			j.title,
			j.customer_id,
			j.delivery_partner,
			c.name,
			d.name
		FROM jobs j
		LEFT JOIN users c ON c.id = j.customer_id
		LEFT JOIN users d ON d.id = j.delivery_partner
		WHERE j.id = ?
	`, jobID.Bytes()).Row().Scan(
		&orderNumber,
		&header.Title,
		&customerID,
		&partner,
		&customerName,
		&driverName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return receiptHeader{}, nil, errs.NewObjectNotFoundError("job", jobID.String())
		}
		return receiptHeader{}, nil, err
	}

	header.JobID = jobID
	header.OrderNumber = job.OrderNumber(orderNumber).String()
	header.CustomerName = customerName.String
	header.DriverName = driverName.String
	if header.customerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
		return receiptHeader{}, nil, err
	}

	if !partner.Valid {
		return header, nil, nil
	}
	partnerID, err := kernel.UUIDFromBytes(partner.UUID[:])
	if err != nil {
		return receiptHeader{}, nil, err
	}
	return header, &partnerID, nil
}

func (h GetSettlementReceiptQueryHandler) loadLines(
	ctx context.Context,
	jobID, recipient kernel.UUID,
	txType payment.TransactionType,
) ([]ports.ReceiptLine, kernel.Money, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT amount_cents, is_tip, status, created_at
		FROM payments
		WHERE job_id = ? AND user_id = ? AND transaction_type = ?
		ORDER BY created_at
	`, jobID.Bytes(), recipient.Bytes(), int(txType)).Rows()
	if err != nil {
		return nil, kernel.Money{}, err
	}
	defer rows.Close()

	lines := make([]ports.ReceiptLine, 0)
	var total kernel.Money
	for rows.Next() {
		var (
			line        ports.ReceiptLine
			amountCents int64
			isTip       bool
			status      int
		)
		if err = rows.Scan(&amountCents, &isTip, &status, &line.At); err != nil {
			return nil, kernel.Money{}, err
		}
		if line.Amount, err = kernel.NewMoney(amountCents); err != nil {
			return nil, kernel.Money{}, err
		}
		line.Label = receiptLabel(txType, isTip)
		line.Status = payment.Status(status).String()
		if payment.Status(status) == payment.Completed {
			total = total.Add(line.Amount)
		}
		lines = append(lines, line)
	}
	if err = rows.Err(); err != nil {
		return nil, kernel.Money{}, err
	}
	return lines, total, nil
}

func receiptLabel(txType payment.TransactionType, isTip bool) string {
	switch {
	case isTip:
		return "Tip"
	case txType == payment.DriverTransfer:
		return "Payout for delivery"
	default:
		return "Delivery charge"
	}
}
