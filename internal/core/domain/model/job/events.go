package job

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

const (
	EventDriverApplied     = "job.driver_applied"
	EventJobAssigned       = "job.assigned"
	EventDropOffAdvanced   = "job.drop_off_advanced"
	EventDeliveryCompleted = "job.delivery_completed"
	EventJobQuit           = "job.quit"
)

type DriverApplied struct {
	JobID       kernel.UUID
	OrderNumber OrderNumber
	CustomerID  kernel.UUID
	DriverID    kernel.UUID
	At          time.Time
}

func (e DriverApplied) EventName() string         { return EventDriverApplied }
func (e DriverApplied) OccurredAt() time.Time     { return e.At }
func (e DriverApplied) Recipients() []kernel.UUID { return []kernel.UUID{e.CustomerID} }

type JobAssigned struct {
	JobID       kernel.UUID
	OrderNumber OrderNumber
	CustomerID  kernel.UUID
	DriverID    kernel.UUID
	// Rejected are the other applicants, who lose the job.
	Rejected []kernel.UUID
	At       time.Time
}

func (e JobAssigned) EventName() string     { return EventJobAssigned }
func (e JobAssigned) OccurredAt() time.Time { return e.At }
func (e JobAssigned) Recipients() []kernel.UUID {
	return append([]kernel.UUID{e.DriverID}, e.Rejected...)
}

type DropOffAdvanced struct {
	JobID       kernel.UUID
	OrderNumber OrderNumber
	CustomerID  kernel.UUID
	DriverID    kernel.UUID
	DropOffID   kernel.UUID
	Status      DropOffStatus
	Message     string
	At          time.Time
}

func (e DropOffAdvanced) EventName() string         { return EventDropOffAdvanced }
func (e DropOffAdvanced) OccurredAt() time.Time     { return e.At }
func (e DropOffAdvanced) Recipients() []kernel.UUID { return []kernel.UUID{e.CustomerID} }

type DeliveryCompleted struct {
	JobID       kernel.UUID
	OrderNumber OrderNumber
	CustomerID  kernel.UUID
	DriverID    kernel.UUID
	Amount      kernel.Money
	At          time.Time
}

func (e DeliveryCompleted) EventName() string     { return EventDeliveryCompleted }
func (e DeliveryCompleted) OccurredAt() time.Time { return e.At }
func (e DeliveryCompleted) Recipients() []kernel.UUID {
	return []kernel.UUID{e.CustomerID, e.DriverID}
}

type JobQuit struct {
	JobID       kernel.UUID
	OrderNumber OrderNumber
	CustomerID  kernel.UUID
	DriverID    kernel.UUID
	Reason      string
	At          time.Time
}

func (e JobQuit) EventName() string         { return EventJobQuit }
func (e JobQuit) OccurredAt() time.Time     { return e.At }
func (e JobQuit) Recipients() []kernel.UUID { return []kernel.UUID{e.CustomerID} }
