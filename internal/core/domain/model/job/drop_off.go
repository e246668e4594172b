package job

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	ErrDropOffIsNotConstructed = errors.New("DropOff must be created via NewDropOff constructor")
	ErrPickupImageIsRequired   = errs.NewIllegalTransitionError(
		"advance drop-off", "a pickup image is required to head to the drop-off")
	ErrDropOffProofIsRequired = errs.NewIllegalTransitionError(
		"advance drop-off", "a drop-off image, drop-off point or drop-off details are required to complete")
)

// Items describes what is carried on a leg.
type Items struct {
	Count    int
	WeightKg float64
	LengthCm float64
	HeightCm float64
}

func (i Items) Validate() error {
	if i.Count < 1 {
		return errs.NewValueIsOutOfRangeError("number of items", i.Count, 1, "unbounded")
	}
	if i.WeightKg < 0 || i.LengthCm < 0 || i.HeightCm < 0 {
		return errs.NewValueIsInvalidError("item dimensions must not be negative")
	}
	return nil
}

// Evidence is the optional proof a driver attaches when advancing a drop-off.
// Nil fields leave the stored value untouched.
type Evidence struct {
	PickupImageRef  *string
	DropOffImageRef *string
	DropOffPoint    *DropOffPoint
	DropOffDetails  *string
}

// ImageRefs lists the non-empty image references carried by the evidence.
func (e Evidence) ImageRefs() []string {
	refs := make([]string, 0, 2)
	if e.PickupImageRef != nil && strings.TrimSpace(*e.PickupImageRef) != "" {
		refs = append(refs, strings.TrimSpace(*e.PickupImageRef))
	}
	if e.DropOffImageRef != nil && strings.TrimSpace(*e.DropOffImageRef) != "" {
		refs = append(refs, strings.TrimSpace(*e.DropOffImageRef))
	}
	return refs
}

// DropOff is one delivery leg. It is owned by its Job and only changes
// through the Job's transition methods.
type DropOff struct {
	id              kernel.UUID
	position        int
	location        kernel.Location
	items           Items
	instructions    string
	pickupImageRef  string
	dropOffImageRef string
	dropOffPoint    DropOffPoint
	dropOffDetails  string
	status          DropOffStatus
	started         bool
	guard           guard.ConstructorGuard
}

func NewDropOff(id kernel.UUID, location kernel.Location, items Items, instructions string) (*DropOff, error) {
	d := &DropOff{
		status: OnTheWayToPickup,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setLocation(location),
		d.setItems(items),
	); err != nil {
		return nil, err
	}
	d.instructions = strings.TrimSpace(instructions)

	return d, nil
}

// DropOffSnapshot carries the persisted state of a drop-off.
type DropOffSnapshot struct {
	ID              kernel.UUID
	Position        int
	Location        kernel.Location
	Items           Items
	Instructions    string
	PickupImageRef  string
	DropOffImageRef string
	DropOffPoint    DropOffPoint
	DropOffDetails  string
	Status          DropOffStatus
	Started         bool
}

func RestoreDropOff(s DropOffSnapshot) (*DropOff, error) {
	d, err := NewDropOff(s.ID, s.Location, s.Items, s.Instructions)
	if err != nil {
		return nil, err
	}
	if err = errors.Join(s.Status.Validate(), s.DropOffPoint.Validate()); err != nil {
		return nil, err
	}
	d.position = s.Position
	d.pickupImageRef = s.PickupImageRef
	d.dropOffImageRef = s.DropOffImageRef
	d.dropOffPoint = s.DropOffPoint
	d.dropOffDetails = s.DropOffDetails
	d.status = s.Status
	d.started = s.Started || s.Status > OnTheWayToPickup
	return d, nil
}

func (d *DropOff) Snapshot() DropOffSnapshot {
	return DropOffSnapshot{
		ID:              d.id,
		Position:        d.position,
		Location:        d.location,
		Items:           d.items,
		Instructions:    d.instructions,
		PickupImageRef:  d.pickupImageRef,
		DropOffImageRef: d.dropOffImageRef,
		DropOffPoint:    d.dropOffPoint,
		DropOffDetails:  d.dropOffDetails,
		Status:          d.status,
		Started:         d.started,
	}
}

func (d *DropOff) Validate() error {
	if d == nil {
		return ErrDropOffIsNotConstructed
	}
	return d.guard.Validate(ErrDropOffIsNotConstructed)
}

func (d *DropOff) ID() kernel.UUID            { return d.id }
func (d *DropOff) Position() int              { return d.position }
func (d *DropOff) Location() kernel.Location  { return d.location }
func (d *DropOff) Items() Items               { return d.items }
func (d *DropOff) Instructions() string       { return d.instructions }
func (d *DropOff) PickupImageRef() string     { return d.pickupImageRef }
func (d *DropOff) DropOffImageRef() string    { return d.dropOffImageRef }
func (d *DropOff) DropOffPoint() DropOffPoint { return d.dropOffPoint }
func (d *DropOff) DropOffDetails() string     { return d.dropOffDetails }
func (d *DropOff) Status() DropOffStatus      { return d.status }
func (d *DropOff) IsCompleted() bool          { return d.status == DropOffCompleted }

// IsStarted reports whether the driver has set off on this leg.
func (d *DropOff) IsStarted() bool { return d.started }

// advance applies the evidence and moves one step forward. On error the
// drop-off is left exactly as it was.
func (d *DropOff) advance(target DropOffStatus, evidence Evidence) (string, error) {
	next, err := d.status.AdvanceTo(target)
	if err != nil {
		return "", err
	}

	candidate := *d
	if err = candidate.applyEvidence(evidence); err != nil {
		return "", err
	}

	switch next {
	case OnTheWayToDropOff:
		if candidate.pickupImageRef == "" {
			return "", ErrPickupImageIsRequired
		}
	case DropOffCompleted:
		if candidate.dropOffImageRef == "" &&
			candidate.dropOffPoint == NoDropOffPoint &&
			candidate.dropOffDetails == "" {
			return "", ErrDropOffProofIsRequired
		}
	}

	candidate.status = next
	candidate.started = true
	*d = candidate
	return next.Message(), nil
}

func (d *DropOff) applyEvidence(e Evidence) error {
	if e.PickupImageRef != nil {
		d.pickupImageRef = strings.TrimSpace(*e.PickupImageRef)
	}
	if e.DropOffImageRef != nil {
		d.dropOffImageRef = strings.TrimSpace(*e.DropOffImageRef)
	}
	if e.DropOffPoint != nil {
		if err := e.DropOffPoint.Validate(); err != nil {
			return err
		}
		d.dropOffPoint = *e.DropOffPoint
	}
	if e.DropOffDetails != nil {
		d.dropOffDetails = strings.TrimSpace(*e.DropOffDetails)
	}
	return nil
}

func (d *DropOff) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *DropOff) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	d.location = location
	return nil
}

func (d *DropOff) setItems(items Items) error {
	if err := items.Validate(); err != nil {
		return err
	}
	d.items = items
	return nil
}
