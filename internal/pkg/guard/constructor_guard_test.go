package guard_test

import (
	"errors"
	"testing"

	"marketplace/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTipIsNotConstructed = errors.New("tip command is not constructed")

type tipCommand struct {
	amountCents int64
	guard       guard.ConstructorGuard
}

func newTipCommand(amountCents int64) (tipCommand, error) {
	if amountCents <= 0 {
		return tipCommand{}, errors.New("tip must be positive")
	}
	return tipCommand{amountCents: amountCents, guard: guard.NewConstructorGuard()}, nil
}

func (c tipCommand) Validate() error {
	return c.guard.Validate(errTipIsNotConstructed)
}

func TestConstructorGuard_Validate(t *testing.T) {
	tests := []struct {
		name     string
		guard    guard.ConstructorGuard
		given    error
		expected error
	}{
		{name: "constructed guard with error", guard: guard.NewConstructorGuard(), given: errTipIsNotConstructed},
		{name: "constructed guard without error", guard: guard.NewConstructorGuard()},
		{name: "zero guard returns given error", given: errTipIsNotConstructed, expected: errTipIsNotConstructed},
		{name: "zero guard falls back to default", expected: guard.ErrDefaultConstructorGuard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.guard.Validate(tt.given)

			if tt.expected == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestConstructorGuard_DetectsCommandsBuiltWithoutConstructor(t *testing.T) {
	cmd, err := newTipCommand(500)
	require.NoError(t, err)
	assert.NoError(t, cmd.Validate())

	literal := tipCommand{amountCents: 500}
	assert.ErrorIs(t, literal.Validate(), errTipIsNotConstructed)

	var zero tipCommand
	assert.ErrorIs(t, zero.Validate(), errTipIsNotConstructed)
}

func TestConstructorGuard_SurvivesCopies(t *testing.T) {
	cmd, err := newTipCommand(100)
	require.NoError(t, err)

	copied := cmd
	byValue := func(c tipCommand) error { return c.Validate() }

	assert.NoError(t, copied.Validate())
	assert.NoError(t, byValue(cmd))
}
