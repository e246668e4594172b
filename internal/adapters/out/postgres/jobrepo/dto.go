// Package jobrepo persists job aggregates together with the drop-offs and
// the quit history they own.
package jobrepo

import (
	"time"

	"marketplace/internal/core/domain/model/job"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// JobDTO is the jobs row. The applicant set is stored inline as a text array
// because it is only ever read and written with its job.
type JobDTO struct {
	ID                   uuid.UUID   `gorm:"type:uuid;primaryKey"`
	OrderNumber          int64       `gorm:"uniqueIndex:ux_jobs_order_number"`
	CustomerID           uuid.UUID   `gorm:"type:uuid;index"`
	Title                string      `gorm:"not null"`
	Pickup               LocationDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	PickupDate           string      `gorm:"type:varchar(10);index"`
	PickupTime           string      `gorm:"type:varchar(5)"`
	DropOffDate          string      `gorm:"type:varchar(10)"`
	DropOffTime          string      `gorm:"type:varchar(5)"`
	AmountCents          int64
	IsAmountDeducted     bool
	Type                 int
	Applicants           pq.StringArray `gorm:"type:text[]"`
	DeliveryPartner      *uuid.UUID     `gorm:"type:uuid;index"`
	PartnerImageVerified bool
	DeliveryStatus       int `gorm:"index"`
	Version              int
	CreatedAt            time.Time
	DropOffs             []DropOffDTO `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`
	Quits                []QuitDTO    `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`
}

func (JobDTO) TableName() string {
	return "jobs"
}

// LocationDTO is an address with optional coordinates.
type LocationDTO struct {
	Address   string
	Latitude  *float64
	Longitude *float64
}

type DropOffDTO struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey"`
	JobID           uuid.UUID   `gorm:"type:uuid;index"`
	Position        int         `gorm:"not null"`
	Location        LocationDTO `gorm:"embedded;embeddedPrefix:location_"`
	ItemCount       int
	WeightKg        float64
	LengthCm        float64
	HeightCm        float64
	Instructions    string
	PickupImageRef  string
	DropOffImageRef string
	DropOffPoint    int
	DropOffDetails  string
	Status          int
	Started         bool
}

func (DropOffDTO) TableName() string {
	return "drop_offs"
}

// QuitDTO is one entry of a job's quit history.
type QuitDTO struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	JobID    uuid.UUID `gorm:"type:uuid;index"`
	DriverID uuid.UUID `gorm:"type:uuid;index"`
	Reason   string
	At       time.Time
}

func (QuitDTO) TableName() string {
	return "job_quits"
}

func locationFromDomain(loc kernel.Location) LocationDTO {
	dto := LocationDTO{Address: loc.Address()}
	if lat, lon, ok := loc.Coordinates(); ok {
		dto.Latitude = &lat
		dto.Longitude = &lon
	}
	return dto
}

func locationToDomain(dto LocationDTO) (kernel.Location, error) {
	if dto.Latitude != nil && dto.Longitude != nil {
		return kernel.NewLocation(dto.Address, *dto.Latitude, *dto.Longitude)
	}
	return kernel.NewAddressLocation(dto.Address)
}

func fromDomain(aggregate *job.Job) JobDTO {
	s := aggregate.Snapshot()

	var partner *uuid.UUID
	if s.DeliveryPartner != nil {
		raw := s.DeliveryPartner.Bytes()
		partner = &raw
	}

	applicants := make(pq.StringArray, 0, len(s.Applicants))
	for _, id := range s.Applicants {
		applicants = append(applicants, id.String())
	}

	dto := JobDTO{
		ID:                   s.ID.Bytes(),
		OrderNumber:          int64(s.OrderNumber),
		CustomerID:           s.CustomerID.Bytes(),
		Title:                s.Title,
		Pickup:               locationFromDomain(s.Pickup),
		PickupDate:           s.Schedule.PickupDate,
		PickupTime:           s.Schedule.PickupTime,
		DropOffDate:          s.Schedule.DropOffDate,
		DropOffTime:          s.Schedule.DropOffTime,
		AmountCents:          s.Amount.Cents(),
		IsAmountDeducted:     s.IsAmountDeducted,
		Type:                 int(s.Type),
		Applicants:           applicants,
		DeliveryPartner:      partner,
		PartnerImageVerified: s.PartnerImageVerified,
		DeliveryStatus:       int(s.DeliveryStatus),
		Version:              s.Version,
		CreatedAt:            s.CreatedAt,
		DropOffs:             make([]DropOffDTO, 0, len(s.DropOffs)),
		Quits:                make([]QuitDTO, 0, len(s.Quits)),
	}

	for _, d := range s.DropOffs {
		dto.DropOffs = append(dto.DropOffs, dropOffFromDomain(dto.ID, d.Snapshot()))
	}
	for _, q := range s.Quits {
		dto.Quits = append(dto.Quits, QuitDTO{
			JobID:    dto.ID,
			DriverID: q.DriverID.Bytes(),
			Reason:   q.Reason,
			At:       q.At,
		})
	}

	return dto
}

func dropOffFromDomain(jobID uuid.UUID, s job.DropOffSnapshot) DropOffDTO {
	return DropOffDTO{
		ID:              s.ID.Bytes(),
		JobID:           jobID,
		Position:        s.Position,
		Location:        locationFromDomain(s.Location),
		ItemCount:       s.Items.Count,
		WeightKg:        s.Items.WeightKg,
		LengthCm:        s.Items.LengthCm,
		HeightCm:        s.Items.HeightCm,
		Instructions:    s.Instructions,
		PickupImageRef:  s.PickupImageRef,
		DropOffImageRef: s.DropOffImageRef,
		DropOffPoint:    int(s.DropOffPoint),
		DropOffDetails:  s.DropOffDetails,
		Status:          int(s.Status),
		Started:         s.Started,
	}
}

func toDomain(dto JobDTO) (*job.Job, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	pickup, err := locationToDomain(dto.Pickup)
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewMoney(dto.AmountCents)
	if err != nil {
		return nil, err
	}
	applicants, err := kernel.UUIDsFromStrings(dto.Applicants)
	if err != nil {
		return nil, err
	}

	var partner *kernel.UUID
	if dto.DeliveryPartner != nil {
		pID, partnerErr := kernel.UUIDFromBytes((*dto.DeliveryPartner)[:])
		if partnerErr != nil {
			return nil, partnerErr
		}
		partner = &pID
	}

	dropOffs := make([]*job.DropOff, 0, len(dto.DropOffs))
	for _, d := range dto.DropOffs {
		dropOff, dropOffErr := dropOffToDomain(d)
		if dropOffErr != nil {
			return nil, dropOffErr
		}
		dropOffs = append(dropOffs, dropOff)
	}

	quits := make([]job.Quit, 0, len(dto.Quits))
	for _, q := range dto.Quits {
		driverID, quitErr := kernel.UUIDFromBytes(q.DriverID[:])
		if quitErr != nil {
			return nil, quitErr
		}
		quits = append(quits, job.Quit{DriverID: driverID, Reason: q.Reason, At: q.At})
	}

	return job.RestoreJob(job.Snapshot{
		ID:          id,
		OrderNumber: job.OrderNumber(dto.OrderNumber),
		CustomerID:  customerID,
		Title:       dto.Title,
		Pickup:      pickup,
		Schedule: job.Schedule{
			PickupDate:  dto.PickupDate,
			PickupTime:  dto.PickupTime,
			DropOffDate: dto.DropOffDate,
			DropOffTime: dto.DropOffTime,
		},
		Amount:               amount,
		IsAmountDeducted:     dto.IsAmountDeducted,
		Type:                 job.Type(dto.Type),
		DropOffs:             dropOffs,
		Applicants:           applicants,
		DeliveryPartner:      partner,
		PartnerImageVerified: dto.PartnerImageVerified,
		DeliveryStatus:       job.DeliveryStatus(dto.DeliveryStatus),
		Quits:                quits,
		Version:              dto.Version,
		CreatedAt:            dto.CreatedAt,
	})
}

func dropOffToDomain(dto DropOffDTO) (*job.DropOff, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	loc, err := locationToDomain(dto.Location)
	if err != nil {
		return nil, err
	}
	return job.RestoreDropOff(job.DropOffSnapshot{
		ID:       id,
		Position: dto.Position,
		Location: loc,
		Items: job.Items{
			Count:    dto.ItemCount,
			WeightKg: dto.WeightKg,
			LengthCm: dto.LengthCm,
			HeightCm: dto.HeightCm,
		},
		Instructions:    dto.Instructions,
		PickupImageRef:  dto.PickupImageRef,
		DropOffImageRef: dto.DropOffImageRef,
		DropOffPoint:    job.DropOffPoint(dto.DropOffPoint),
		DropOffDetails:  dto.DropOffDetails,
		Status:          job.DropOffStatus(dto.Status),
		Started:         dto.Started,
	})
}
