package kernel_test

import (
	"testing"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocation(t *testing.T) {
	testCases := []struct {
		name      string
		address   string
		lat, lng  float64
		wantError error
	}{
		{name: "valid", address: "1 Main St", lat: 40.7, lng: -74.0},
		{name: "blank address", address: "   ", lat: 0, lng: 0, wantError: errs.ErrValueIsRequired},
		{name: "latitude too high", address: "x", lat: 91, lng: 0, wantError: errs.ErrValueIsOutOfRange},
		{name: "longitude too low", address: "x", lat: 0, lng: -181, wantError: errs.ErrValueIsOutOfRange},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			loc, err := kernel.NewLocation(tc.address, tc.lat, tc.lng)
			if tc.wantError != nil {
				require.ErrorIs(t, err, tc.wantError)
				return
			}
			require.NoError(t, err)
			require.NoError(t, loc.Validate())

			lat, lng, ok := loc.Coordinates()
			assert.True(t, ok)
			assert.InDelta(t, tc.lat, lat, 0.0001)
			assert.InDelta(t, tc.lng, lng, 0.0001)
		})
	}
}

func TestNewAddressLocation(t *testing.T) {
	loc, err := kernel.NewAddressLocation("  42 Harbor Rd ")

	require.NoError(t, err)
	assert.Equal(t, "42 Harbor Rd", loc.Address())
	_, _, ok := loc.Coordinates()
	assert.False(t, ok)
	assert.Equal(t, "42 Harbor Rd", loc.String())
}

func TestLocation_ZeroValueIsInvalid(t *testing.T) {
	var loc kernel.Location
	require.ErrorIs(t, loc.Validate(), kernel.ErrLocationIsNotConstructed)
}
