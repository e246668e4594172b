// Package job implements the delivery state machine.
//
// A Job is posted by a customer, collects driver applications, and is assigned
// to exactly one of the applicants. The assigned driver then walks each of the
// job's drop-offs through
//
//	OnTheWayToPickup → OnTheWayToDropOff → Completed
//
// Reporting OnTheWayToPickup on a fresh drop-off only marks the leg as started.
// and completes the job once every drop-off is completed. The driver may quit
// an in-progress job instead, which cancels it.
//
// Drop-offs are never addressed outside their job: every change goes through a
// Job method. Transitions record domain events (DriverApplied, JobAssigned,
// DropOffAdvanced, DeliveryCompleted, JobQuit) which the unit of work publishes
// after commit.
package job
