// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobSummary is the list view of a job.
type JobSummary struct {
	ID               kernel.UUID
	OrderNumber      string
	CustomerID       kernel.UUID
	Title            string
	PickupAddress    string
	PickupDate       string
	PickupTime       string
	DropOffDate      string
	DropOffTime      string
	Amount           kernel.Money
	Type             string
	DeliveryStatus   string
	DeliveryPartner  *kernel.UUID
	IsAmountDeducted bool
	ApplicantCount   int
	CreatedAt        time.Time
}

const jobSummaryColumns = `
	j.id,
	j.order_number,
	j.customer_id,
	j.title,
	j.pickup_address,
	j.pickup_date,
	j.pickup_time,
	j.drop_off_date,
	j.drop_off_time,
	j.amount_cents,
	j.type,
	j.delivery_status,
	j.delivery_partner,
	j.is_amount_deducted,
	COALESCE(array_length(j.applicants, 1), 0),
	j.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJobSummary(row rowScanner) (JobSummary, error) {
	var (
		summary        JobSummary
		id, customerID uuid.UUID
		partner        uuid.NullUUID
		orderNumber    int64
		amountCents    int64
		jobType        int
		deliveryStatus int
	)

	if err := row.Scan(
		&id,
		&orderNumber,
		&customerID,
		&summary.Title,
		&summary.PickupAddress,
		&summary.PickupDate,
		&summary.PickupTime,
		&summary.DropOffDate,
		&summary.DropOffTime,
		&amountCents,
		&jobType,
		&deliveryStatus,
		&partner,
		&summary.IsAmountDeducted,
		&summary.ApplicantCount,
		&summary.CreatedAt,
	); err != nil {
		return JobSummary{}, err
	}

	var err error
	if summary.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return JobSummary{}, err
	}
	if summary.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
		return JobSummary{}, err
	}
	if summary.Amount, err = kernel.NewMoney(amountCents); err != nil {
		return JobSummary{}, err
	}
	if partner.Valid {
		partnerID, partnerErr := kernel.UUIDFromBytes(partner.UUID[:])
		if partnerErr != nil {
			return JobSummary{}, partnerErr
		}
		summary.DeliveryPartner = &partnerID
	}
	summary.OrderNumber = job.OrderNumber(orderNumber).String()
	summary.Type = job.Type(jobType).String()
	summary.DeliveryStatus = job.DeliveryStatus(deliveryStatus).String()

	return summary, nil
}

func scanJobSummaries(rows *sql.Rows) ([]JobSummary, error) {
	defer rows.Close()

	jobs := make([]JobSummary, 0)
	for rows.Next() {
		summary, err := scanJobSummary(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

// loadRole reads the caller's role from the user directory.
func loadRole(ctx context.Context, db *gorm.DB, userID kernel.UUID) (user.Role, error) {
	var role int
	err := db.WithContext(ctx).Raw(`SELECT role FROM users WHERE id = ?`, userID.Bytes()).Row().Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, errs.NewObjectNotFoundError("user", userID.String())
		}
		return 0, err
	}
	return user.Role(role), nil
}
