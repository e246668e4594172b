package queries

import (
	"context"
	"database/sql"
	"errors"

	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetUserQueryHandler struct {
	db *gorm.DB
}

func NewGetUserQueryHandler(db *gorm.DB) GetUserQueryHandler {
	return GetUserQueryHandler{db: db}
}

func (h GetUserQueryHandler) Handle(ctx context.Context, query GetUserQuery) (GetUserQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetUserQueryResponse{}, err
	}

	var (
		response GetUserQueryResponse
		role     int
		account  sql.NullString
	)
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			u.role,
			u.name,
			u.email,
			u.phone,
			u.photo_ref,
			u.payment_account_id,
			u.payment_account_ready,
			COUNT(r.id),
			COALESCE(AVG(r.rating), 0)
		FROM users u
		LEFT JOIN reviews r ON r.driver_id = u.id
		WHERE u.id = ?
		GROUP BY u.id
	`, query.UserID().Bytes()).Row().Scan(
		&role,
		&response.Name,
		&response.Email,
		&response.Phone,
		&response.PhotoRef,
		&account,
		&response.PaymentAccountReady,
		&response.ReviewCount,
		&response.AverageRating,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetUserQueryResponse{}, errs.NewObjectNotFoundError("user", query.UserID().String())
		}
		return GetUserQueryResponse{}, err
	}

	response.ID = query.UserID()
	response.Role = user.Role(role).String()
	response.PaymentAccountLinked = account.Valid && account.String != ""
	return response, nil
}
