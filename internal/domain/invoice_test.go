package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckedMul(t *testing.T) {
	got, err := CheckedMul(3, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(3000), got)

	// The largest product that still fits.
	got, err = CheckedMul(math.MaxUint64, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), got)

	_, err = CheckedMul(1<<62, 4)
	assert.ErrorIs(t, err, ErrValueOverflow)

	_, err = CheckedMul(math.MaxUint64, 2)
	assert.ErrorIs(t, err, ErrValueOverflow)
}

func TestRequiredCollateral(t *testing.T) {
	required, err := RequiredCollateral(1000, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(8000), required)

	// 3*3*80/100 = 7.2 truncates toward zero.
	required, err = RequiredCollateral(3, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), required)

	// Notional wraps.
	_, err = RequiredCollateral(1<<62, 4)
	assert.ErrorIs(t, err, ErrValueOverflow)

	// Notional fits but the 80% scaling does not.
	_, err = RequiredCollateral(1<<63, 1)
	assert.ErrorIs(t, err, ErrValueOverflow)
}

func TestRedemptionAmount(t *testing.T) {
	inv := Invoice{TokenPrice: 1000, TokensTotal: 10}
	amount, err := inv.RedemptionAmount()
	require.NoError(t, err)
	assert.Equal(t, uint64(10000), amount)

	inv = Invoice{TokenPrice: 1 << 63, TokensTotal: 2}
	_, err = inv.RedemptionAmount()
	assert.ErrorIs(t, err, ErrValueOverflow)
}
