package kernel

import (
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation or NewAddressLocation constructors")

const (
	latitudeMin  = -90.0
	latitudeMax  = 90.0
	longitudeMin = -180.0
	longitudeMax = 180.0
)

// Location is a pickup or drop-off point: a street address with optional coordinates.
type Location struct { //nolint:recvcheck //using for validation
	address        string
	latitude       float64
	longitude      float64
	hasCoordinates bool
	guard          guard.ConstructorGuard
}

// NewLocation builds a location with coordinates.
func NewLocation(address string, latitude, longitude float64) (Location, error) {
	loc := Location{
		guard:          guard.NewConstructorGuard(),
		hasCoordinates: true,
	}
	if err := errors.Join(
		loc.setAddress(address),
		loc.setLatitude(latitude),
		loc.setLongitude(longitude),
	); err != nil {
		return Location{}, err
	}
	return loc, nil
}

// NewAddressLocation builds a location known only by its address.
func NewAddressLocation(address string) (Location, error) {
	loc := Location{guard: guard.NewConstructorGuard()}
	if err := loc.setAddress(address); err != nil {
		return Location{}, err
	}
	return loc, nil
}

func (l Location) Address() string {
	return l.address
}

// Coordinates returns ok=false when the location was built from an address only.
func (l Location) Coordinates() (latitude, longitude float64, ok bool) {
	return l.latitude, l.longitude, l.hasCoordinates
}

func (l Location) IsEqual(other Location) bool {
	return l.address == other.address &&
		l.hasCoordinates == other.hasCoordinates &&
		l.latitude == other.latitude &&
		l.longitude == other.longitude
}

func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

func (l Location) String() string {
	if !l.hasCoordinates {
		return l.address
	}
	return fmt.Sprintf("%s (%.5f, %.5f)", l.address, l.latitude, l.longitude)
}

func (l *Location) setAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return errs.NewValueIsRequiredError("address")
	}
	l.address = address
	return nil
}

func (l *Location) setLatitude(latitude float64) error {
	if latitude < latitudeMin || latitude > latitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, latitudeMin, latitudeMax)
	}
	l.latitude = latitude
	return nil
}

func (l *Location) setLongitude(longitude float64) error {
	if longitude < longitudeMin || longitude > longitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, longitudeMin, longitudeMax)
	}
	l.longitude = longitude
	return nil
}
