package kernel_test

import (
	"testing"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("accepts zero and positive", func(t *testing.T) {
		zero, err := kernel.NewMoney(0)
		require.NoError(t, err)
		assert.True(t, zero.IsZero())

		m, err := kernel.NewMoney(4000)
		require.NoError(t, err)
		assert.True(t, m.IsPositive())
		assert.Equal(t, int64(4000), m.Cents())
	})

	t.Run("rejects negative", func(t *testing.T) {
		_, err := kernel.NewMoney(-1)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestMoneyFromUnits(t *testing.T) {
	m, err := kernel.MoneyFromUnits(40)

	require.NoError(t, err)
	assert.Equal(t, int64(4000), m.Cents())
	assert.Equal(t, "40.00", m.String())
}

func TestMoney_Arithmetic(t *testing.T) {
	a, _ := kernel.NewMoney(4000)
	b, _ := kernel.NewMoney(450)

	assert.Equal(t, int64(4450), a.Add(b).Cents())

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, "35.50", diff.String())

	_, err = b.Sub(a)
	require.Error(t, err)
}
