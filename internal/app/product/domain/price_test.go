package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrice(t *testing.T) {
	t.Run("valid price", func(t *testing.T) {
		price, err := NewPrice(249900, 100)
		require.NoError(t, err)
		assert.Equal(t, "2499.00", price.String())
	})

	t.Run("whole units", func(t *testing.T) {
		price, err := NewPriceFromInt(10000)
		require.NoError(t, err)
		assert.Equal(t, "10000.00", price.String())
		assert.Equal(t, int64(10000), price.Numerator())
		assert.Equal(t, int64(1), price.Denominator())
	})

	t.Run("zero amount", func(t *testing.T) {
		_, err := NewPrice(0, 1)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("negative amount", func(t *testing.T) {
		_, err := NewPrice(-500, 1)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("non-positive denominator", func(t *testing.T) {
		_, err := NewPrice(100, 0)
		assert.ErrorIs(t, err, ErrInvalidPrice)

		_, err = NewPrice(100, -1)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})
}

func TestParsePrice(t *testing.T) {
	t.Run("decimal string", func(t *testing.T) {
		price, err := ParsePrice("2499.99")
		require.NoError(t, err)
		assert.Equal(t, "2499.99", price.String())
	})

	t.Run("whole units", func(t *testing.T) {
		price, err := ParsePrice("1500")
		require.NoError(t, err)
		assert.Equal(t, int64(1500), price.Numerator())
		assert.Equal(t, int64(1), price.Denominator())
	})

	t.Run("round trips through the stored pair", func(t *testing.T) {
		price, err := ParsePrice("10.25")
		require.NoError(t, err)

		stored, err := NewPrice(price.Numerator(), price.Denominator())
		require.NoError(t, err)
		assert.True(t, stored.Equal(price))
	})

	t.Run("not a number", func(t *testing.T) {
		_, err := ParsePrice("abc")
		assert.ErrorIs(t, err, ErrInvalidPrice)

		_, err = ParsePrice("")
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("zero or negative", func(t *testing.T) {
		_, err := ParsePrice("0")
		assert.ErrorIs(t, err, ErrInvalidPrice)

		_, err = ParsePrice("-10.50")
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})
}

func TestPrice_ApplyDiscount(t *testing.T) {
	base, err := NewPriceFromInt(1000)
	require.NoError(t, err)

	t.Run("computes exact discount", func(t *testing.T) {
		discounted, err := base.ApplyDiscount(25)
		require.NoError(t, err)
		assert.Equal(t, "750.00", discounted.String())
	})

	t.Run("zero rate keeps the amount", func(t *testing.T) {
		discounted, err := base.ApplyDiscount(0)
		require.NoError(t, err)
		assert.True(t, discounted.Equal(base))
	})

	t.Run("does not mutate the receiver", func(t *testing.T) {
		_, err := base.ApplyDiscount(50)
		require.NoError(t, err)
		assert.Equal(t, "1000.00", base.String())
	})

	t.Run("fractional result stays exact", func(t *testing.T) {
		odd, err := NewPriceFromInt(999)
		require.NoError(t, err)

		discounted, err := odd.ApplyDiscount(33)
		require.NoError(t, err)
		// 999 * 0.67 = 669.33
		assert.Equal(t, "669.33", discounted.String())
	})

	t.Run("full discount is rejected", func(t *testing.T) {
		_, err := base.ApplyDiscount(100)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("rate out of range", func(t *testing.T) {
		_, err := base.ApplyDiscount(-1)
		assert.ErrorIs(t, err, ErrInvalidDiscountRate)

		_, err = base.ApplyDiscount(101)
		assert.ErrorIs(t, err, ErrInvalidDiscountRate)
	})
}

func TestPrice_Comparisons(t *testing.T) {
	low, err := NewPriceFromInt(100)
	require.NoError(t, err)
	high, err := NewPriceFromInt(200)
	require.NoError(t, err)
	alsoLow, err := NewPrice(10000, 100)
	require.NoError(t, err)

	assert.True(t, high.GreaterThan(low))
	assert.False(t, low.GreaterThan(high))
	assert.True(t, low.LessThan(high))
	assert.False(t, low.LessThan(alsoLow))

	// Equality is by value, independent of representation.
	assert.True(t, low.Equal(alsoLow))
	assert.False(t, low.Equal(high))
}
