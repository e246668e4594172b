package job

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	ErrJobIsNotConstructed        = errors.New("Job must be created via NewJob constructor")
	ErrTitleIsRequired            = errs.NewValueIsRequiredError("title")
	ErrPickupDateIsRequired       = errs.NewValueIsRequiredError("pickup date")
	ErrDropOffsAreRequired        = errs.NewValueIsRequiredError("drop-offs")
	ErrSingleDropOffJobHasMany    = errs.NewValueIsInvalidErrorWithCause("drop-offs", errors.New("single dropoff job can only have one dropoff location"))
	ErrAmountMustBePositive       = errs.NewValueIsInvalidErrorWithCause("amount", errors.New("amount must be greater than 0"))
	ErrQuitReasonIsRequired       = errs.NewValueIsRequiredError("reason")
	ErrOrderNumberAlreadyAssigned = errs.NewIllegalTransitionError("assign order number", "job already has an order number")
)

// Schedule holds the dates and times customers type in. Dates use YYYY-MM-DD,
// times HH:MM; times are optional.
type Schedule struct {
	PickupDate  string
	PickupTime  string
	DropOffDate string
	DropOffTime string
}

func (s Schedule) Validate() error {
	if strings.TrimSpace(s.PickupDate) == "" {
		return ErrPickupDateIsRequired
	}
	var errList []error
	for name, value := range map[string]string{"pickup date": s.PickupDate, "drop-off date": s.DropOffDate} {
		if value == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, value); err != nil {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(name, err))
		}
	}
	for name, value := range map[string]string{"pickup time": s.PickupTime, "drop-off time": s.DropOffTime} {
		if value == "" {
			continue
		}
		if _, err := time.Parse("15:04", value); err != nil {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(name, err))
		}
	}
	return errors.Join(errList...)
}

// Quit records a driver abandoning the job.
type Quit struct {
	DriverID kernel.UUID
	Reason   string
	At       time.Time
}

// Job is the aggregate root of the delivery state machine. It owns its
// drop-offs, the applicant set and the quit history.
//
// Invariants:
//   - a delivery partner is always one of the applicants
//   - in-progress and delivered jobs have a delivery partner, canceled ones do not
//   - isAmountDeducted only ever goes from false to true
//   - drop-offs only advance forward, one step at a time
type Job struct {
	id               kernel.UUID
	orderNumber      OrderNumber
	customerID       kernel.UUID
	title            string
	pickup           kernel.Location
	schedule         Schedule
	amount           kernel.Money
	isAmountDeducted bool
	jobType          Type
	dropOffs         []*DropOff
	applicants       []kernel.UUID
	deliveryPartner  *kernel.UUID
	// partnerImageVerified is set when the assigned driver passed face matching
	partnerImageVerified bool
	deliveryStatus       DeliveryStatus
	quits                []Quit
	// version is the optimistic concurrency token checked on every write
	version   int
	createdAt time.Time

	kernel.EventRecorder
	guard guard.ConstructorGuard
}

func NewJob(
	id kernel.UUID,
	customerID kernel.UUID,
	title string,
	pickup kernel.Location,
	schedule Schedule,
	jobType Type,
	amount kernel.Money,
	dropOffs []*DropOff,
) (*Job, error) {
	j := &Job{
		deliveryStatus: Open,
		createdAt:      time.Now().UTC(),
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		j.setID(id),
		j.setCustomerID(customerID),
		j.setTitle(title),
		j.setPickup(pickup),
		j.setSchedule(schedule),
		j.setAmount(amount),
		j.setJobType(jobType),
	); err != nil {
		return nil, err
	}
	if err := j.setDropOffs(dropOffs); err != nil {
		return nil, err
	}

	return j, nil
}

// Snapshot carries the persisted state of a job.
type Snapshot struct {
	ID                   kernel.UUID
	OrderNumber          OrderNumber
	CustomerID           kernel.UUID
	Title                string
	Pickup               kernel.Location
	Schedule             Schedule
	Amount               kernel.Money
	IsAmountDeducted     bool
	Type                 Type
	DropOffs             []*DropOff
	Applicants           []kernel.UUID
	DeliveryPartner      *kernel.UUID
	PartnerImageVerified bool
	DeliveryStatus       DeliveryStatus
	Quits                []Quit
	Version              int
	CreatedAt            time.Time
}

func RestoreJob(s Snapshot) (*Job, error) {
	j := &Job{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		j.setID(s.ID),
		j.setCustomerID(s.CustomerID),
		j.setTitle(s.Title),
		j.setPickup(s.Pickup),
		j.setAmount(s.Amount),
		j.setJobType(s.Type),
		s.DeliveryStatus.Validate(),
		s.DeliveryStatus.ValidateCanHavePartner(s.DeliveryPartner != nil),
	); err != nil {
		return nil, err
	}
	if len(s.DropOffs) == 0 {
		return nil, ErrDropOffsAreRequired
	}
	if s.DeliveryPartner != nil && !kernel.ContainsUUID(s.Applicants, *s.DeliveryPartner) {
		return nil, errs.NewValueIsInvalidErrorWithCause("delivery partner", errors.New("delivery partner is not an applicant"))
	}

	j.orderNumber = s.OrderNumber
	j.schedule = s.Schedule
	j.isAmountDeducted = s.IsAmountDeducted
	j.dropOffs = s.DropOffs
	j.applicants = s.Applicants
	j.deliveryPartner = s.DeliveryPartner
	j.partnerImageVerified = s.PartnerImageVerified
	j.deliveryStatus = s.DeliveryStatus
	j.quits = s.Quits
	j.version = s.Version
	j.createdAt = s.CreatedAt

	return j, nil
}

// Snapshot copies the job's state, drop-offs included, for storage.
func (j *Job) Snapshot() Snapshot {
	dropOffs := make([]*DropOff, 0, len(j.dropOffs))
	for _, d := range j.dropOffs {
		copied := *d
		dropOffs = append(dropOffs, &copied)
	}
	var partner *kernel.UUID
	if j.deliveryPartner != nil {
		id := *j.deliveryPartner
		partner = &id
	}
	return Snapshot{
		ID:                   j.id,
		OrderNumber:          j.orderNumber,
		CustomerID:           j.customerID,
		Title:                j.title,
		Pickup:               j.pickup,
		Schedule:             j.schedule,
		Amount:               j.amount,
		IsAmountDeducted:     j.isAmountDeducted,
		Type:                 j.jobType,
		DropOffs:             dropOffs,
		Applicants:           j.Applicants(),
		DeliveryPartner:      partner,
		PartnerImageVerified: j.partnerImageVerified,
		DeliveryStatus:       j.deliveryStatus,
		Quits:                j.Quits(),
		Version:              j.version,
		CreatedAt:            j.createdAt,
	}
}

func (j *Job) Validate() error {
	if j == nil {
		return ErrJobIsNotConstructed
	}
	return j.guard.Validate(ErrJobIsNotConstructed)
}

func (j *Job) IsEqual(other *Job) bool {
	return other != nil && j.id.IsEqual(other.id)
}

func (j *Job) ID() kernel.UUID                { return j.id }
func (j *Job) OrderNumber() OrderNumber       { return j.orderNumber }
func (j *Job) CustomerID() kernel.UUID        { return j.customerID }
func (j *Job) Title() string                  { return j.title }
func (j *Job) Pickup() kernel.Location        { return j.pickup }
func (j *Job) Schedule() Schedule             { return j.schedule }
func (j *Job) Amount() kernel.Money           { return j.amount }
func (j *Job) IsAmountDeducted() bool         { return j.isAmountDeducted }
func (j *Job) Type() Type                     { return j.jobType }
func (j *Job) DeliveryPartner() *kernel.UUID  { return j.deliveryPartner }
func (j *Job) PartnerImageVerified() bool     { return j.partnerImageVerified }
func (j *Job) DeliveryStatus() DeliveryStatus { return j.deliveryStatus }
func (j *Job) Version() int                   { return j.version }
func (j *Job) CreatedAt() time.Time           { return j.createdAt }

func (j *Job) DropOffs() []*DropOff {
	out := make([]*DropOff, len(j.dropOffs))
	copy(out, j.dropOffs)
	return out
}

func (j *Job) Applicants() []kernel.UUID {
	out := make([]kernel.UUID, len(j.applicants))
	copy(out, j.applicants)
	return out
}

func (j *Job) Quits() []Quit {
	out := make([]Quit, len(j.quits))
	copy(out, j.quits)
	return out
}

// HasApplied reports whether the driver is in the applicant set.
func (j *Job) HasApplied(driverID kernel.UUID) bool {
	return kernel.ContainsUUID(j.applicants, driverID)
}

// IsPartner reports whether the user is the currently assigned driver.
func (j *Job) IsPartner(userID kernel.UUID) bool {
	return j.deliveryPartner != nil && j.deliveryPartner.IsEqual(userID)
}

// IsAvailable reports whether the job still appears in the drivers' pool.
func (j *Job) IsAvailable() bool {
	return j.deliveryPartner == nil && j.deliveryStatus == Open
}

// AssignOrderNumber is called once by the store when the job is first saved.
func (j *Job) AssignOrderNumber(n OrderNumber) error {
	if j.orderNumber.IsAssigned() {
		return ErrOrderNumberAlreadyAssigned
	}
	if !n.IsAssigned() {
		return errs.NewValueIsInvalidError("order number")
	}
	j.orderNumber = n
	return nil
}

// AdvanceVersion is called by the store after a successful conditional write.
func (j *Job) AdvanceVersion() {
	j.version++
}

// Apply adds a driver to the applicant set.
func (j *Job) Apply(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if j.deliveryPartner != nil || j.deliveryStatus != Open {
		return errs.NewIllegalTransitionError("apply", "job already has a delivery partner")
	}
	if j.HasApplied(driverID) {
		return errs.NewIllegalTransitionError("apply", "driver has already applied")
	}

	j.applicants = append(j.applicants, driverID)
	j.Record(DriverApplied{
		JobID:       j.id,
		OrderNumber: j.orderNumber,
		CustomerID:  j.customerID,
		DriverID:    driverID,
		At:          time.Now().UTC(),
	})
	return nil
}

// SelectDriver assigns one of the applicants and starts the delivery.
func (j *Job) SelectDriver(customerID, driverID kernel.UUID) error {
	if !j.customerID.IsEqual(customerID) {
		return errs.NewAuthorizationError("select a driver for this job", customerID.String())
	}
	if j.deliveryPartner != nil {
		return errs.NewIllegalTransitionError("select driver", "delivery partner is already assigned")
	}
	if !j.HasApplied(driverID) {
		return errs.NewIllegalTransitionError("select driver", "driver has not applied for this job")
	}
	status, err := j.deliveryStatus.Start()
	if err != nil {
		return err
	}

	partner := driverID
	j.deliveryPartner = &partner
	j.deliveryStatus = status

	rejected := make([]kernel.UUID, 0, len(j.applicants))
	for _, applicant := range j.applicants {
		if !applicant.IsEqual(driverID) {
			rejected = append(rejected, applicant)
		}
	}
	j.Record(JobAssigned{
		JobID:       j.id,
		OrderNumber: j.orderNumber,
		CustomerID:  j.customerID,
		DriverID:    driverID,
		Rejected:    rejected,
		At:          time.Now().UTC(),
	})
	return nil
}

// VerifyPartnerImage marks the assigned driver as having passed face matching.
func (j *Job) VerifyPartnerImage(driverID kernel.UUID) error {
	if !j.IsPartner(driverID) {
		return errs.NewAuthorizationError("verify the driver image for this job", driverID.String())
	}
	if j.deliveryStatus != InProgress {
		return errs.NewIllegalTransitionError("verify driver image", fmt.Sprintf("job is %s", j.deliveryStatus))
	}
	j.partnerImageVerified = true
	return nil
}

// FindDropOff looks a drop-off up by id within this job.
func (j *Job) FindDropOff(dropOffID kernel.UUID) (*DropOff, error) {
	for _, d := range j.dropOffs {
		if d.id.IsEqual(dropOffID) {
			return d, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("drop-off", dropOffID.String())
}

// AdvanceDropOff moves one drop-off to targetStatus and returns the message
// for the status reached.
func (j *Job) AdvanceDropOff(
	driverID kernel.UUID,
	dropOffID kernel.UUID,
	targetStatus DropOffStatus,
	evidence Evidence,
) (string, error) {
	if !j.IsPartner(driverID) {
		return "", errs.NewAuthorizationError("advance drop-offs of this job", driverID.String())
	}
	if j.deliveryStatus != InProgress {
		return "", errs.NewIllegalTransitionError("advance drop-off", fmt.Sprintf("job is %s", j.deliveryStatus))
	}

	dropOff, err := j.FindDropOff(dropOffID)
	if err != nil {
		return "", err
	}

	message, err := dropOff.advance(targetStatus, evidence)
	if err != nil {
		return "", err
	}

	j.Record(DropOffAdvanced{
		JobID:       j.id,
		OrderNumber: j.orderNumber,
		CustomerID:  j.customerID,
		DriverID:    driverID,
		DropOffID:   dropOffID,
		Status:      dropOff.status,
		Message:     message,
		At:          time.Now().UTC(),
	})
	return message, nil
}

// CompleteDelivery marks the job delivered once every drop-off is completed.
func (j *Job) CompleteDelivery(driverID kernel.UUID) error {
	if !j.IsPartner(driverID) {
		return errs.NewAuthorizationError("complete this job", driverID.String())
	}
	for _, d := range j.dropOffs {
		if !d.IsCompleted() {
			return errs.NewIllegalTransitionError("complete delivery",
				fmt.Sprintf("drop-off %s is %s", d.id, d.status))
		}
	}
	status, err := j.deliveryStatus.Deliver()
	if err != nil {
		return err
	}

	j.deliveryStatus = status
	j.Record(DeliveryCompleted{
		JobID:       j.id,
		OrderNumber: j.orderNumber,
		CustomerID:  j.customerID,
		DriverID:    driverID,
		Amount:      j.amount,
		At:          time.Now().UTC(),
	})
	return nil
}

// Quit cancels the job on behalf of its assigned driver. The job is not re-listed.
func (j *Job) Quit(driverID kernel.UUID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrQuitReasonIsRequired
	}
	if !j.IsPartner(driverID) {
		return errs.NewAuthorizationError("quit this job", driverID.String())
	}
	status, err := j.deliveryStatus.Cancel()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	j.quits = append(j.quits, Quit{DriverID: driverID, Reason: reason, At: now})
	j.deliveryPartner = nil
	j.partnerImageVerified = false
	j.deliveryStatus = status
	j.Record(JobQuit{
		JobID:       j.id,
		OrderNumber: j.orderNumber,
		CustomerID:  j.customerID,
		DriverID:    driverID,
		Reason:      reason,
		At:          now,
	})
	return nil
}

// EnsureDelivered fails unless the job reached Delivered.
func (j *Job) EnsureDelivered(action string) error {
	if j.deliveryStatus != Delivered {
		return errs.NewIllegalTransitionError(action, fmt.Sprintf("job is %s", j.deliveryStatus))
	}
	return nil
}

// MarkAmountDeducted flips the deduction flag. It never goes back.
func (j *Job) MarkAmountDeducted() error {
	if j.isAmountDeducted {
		return errs.NewIllegalTransitionError("deduct payment", "amount is already deducted for this job")
	}
	j.isAmountDeducted = true
	return nil
}

func (j *Job) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	j.id = id
	return nil
}

func (j *Job) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	j.customerID = customerID
	return nil
}

func (j *Job) setTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrTitleIsRequired
	}
	j.title = title
	return nil
}

func (j *Job) setPickup(pickup kernel.Location) error {
	if err := pickup.Validate(); err != nil {
		return err
	}
	j.pickup = pickup
	return nil
}

func (j *Job) setSchedule(schedule Schedule) error {
	if err := schedule.Validate(); err != nil {
		return err
	}
	j.schedule = schedule
	return nil
}

func (j *Job) setAmount(amount kernel.Money) error {
	if !amount.IsPositive() {
		return ErrAmountMustBePositive
	}
	j.amount = amount
	return nil
}

func (j *Job) setJobType(jobType Type) error {
	if err := jobType.Validate(); err != nil {
		return err
	}
	j.jobType = jobType
	return nil
}

func (j *Job) setDropOffs(dropOffs []*DropOff) error {
	if len(dropOffs) == 0 {
		return ErrDropOffsAreRequired
	}
	if j.jobType == SingleDropOff && len(dropOffs) > 1 {
		return ErrSingleDropOffJobHasMany
	}
	for i, d := range dropOffs {
		if err := d.Validate(); err != nil {
			return err
		}
		d.position = i
	}
	j.dropOffs = dropOffs
	return nil
}
