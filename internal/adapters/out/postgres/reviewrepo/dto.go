// Package reviewrepo persists driver reviews.
package reviewrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/review"

	"github.com/google/uuid"
)

type ReviewDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	JobID      uuid.UUID `gorm:"type:uuid;uniqueIndex:ux_reviews_job_driver"`
	DriverID   uuid.UUID `gorm:"type:uuid;uniqueIndex:ux_reviews_job_driver"`
	CustomerID uuid.UUID `gorm:"type:uuid;index"`
	Rating     int       `gorm:"check:chk_reviews_rating,rating BETWEEN 1 AND 5"`
	Text       string
	CreatedAt  time.Time
}

func (ReviewDTO) TableName() string {
	return "reviews"
}

func fromDomain(r *review.Review) ReviewDTO {
	return ReviewDTO{
		ID:         r.ID().Bytes(),
		JobID:      r.JobID().Bytes(),
		DriverID:   r.DriverID().Bytes(),
		CustomerID: r.CustomerID().Bytes(),
		Rating:     r.Rating(),
		Text:       r.Text(),
		CreatedAt:  r.CreatedAt(),
	}
}

func toDomain(dto ReviewDTO) (*review.Review, error) {
	ids := make([]kernel.UUID, 0, 4)
	for _, raw := range []uuid.UUID{dto.ID, dto.JobID, dto.DriverID, dto.CustomerID} {
		id, err := kernel.UUIDFromBytes(raw[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return review.RestoreReview(ids[0], ids[1], ids[2], ids[3], dto.Rating, dto.Text, dto.CreatedAt)
}
