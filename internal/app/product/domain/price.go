package domain

import "math/big"

// Price is an immutable monetary amount backed by big.Rat so discount
// arithmetic stays exact. The persistence layer stores it as a
// numerator/denominator pair.
//
// A Price is always strictly positive: construction and every derived
// computation re-validate the amount.
type Price struct {
	amount *big.Rat
}

// NewPrice creates a Price from a numerator/denominator pair.
// Example: NewPrice(249900, 100) represents 2499.00.
func NewPrice(numerator, denominator int64) (Price, error) {
	if denominator <= 0 {
		return Price{}, ErrInvalidPrice
	}
	return newPriceFromRat(big.NewRat(numerator, denominator))
}

// NewPriceFromInt creates a whole-unit Price.
func NewPriceFromInt(amount int64) (Price, error) {
	return NewPrice(amount, 1)
}

// ParsePrice parses a decimal string such as "2499.99" into a Price.
func ParsePrice(value string) (Price, error) {
	amount, ok := new(big.Rat).SetString(value)
	if !ok {
		return Price{}, ErrInvalidPrice.WithDetail("invalid price format: %q", value)
	}
	return newPriceFromRat(amount)
}

func newPriceFromRat(amount *big.Rat) (Price, error) {
	if amount == nil || amount.Sign() <= 0 {
		return Price{}, ErrInvalidPrice
	}
	return Price{amount: new(big.Rat).Set(amount)}, nil
}

// ApplyDiscount returns a new Price reduced by rate percent.
// The result must still be a valid Price, so a 100% discount always fails
// with ErrInvalidPrice: the remaining amount would be zero.
func (p Price) ApplyDiscount(rate int64) (Price, error) {
	if rate < 0 || rate > 100 {
		return Price{}, ErrInvalidDiscountRate
	}
	discount := new(big.Rat).Mul(p.amount, big.NewRat(rate, 100))
	return newPriceFromRat(new(big.Rat).Sub(p.amount, discount))
}

// GreaterThan reports whether p is strictly greater than other.
func (p Price) GreaterThan(other Price) bool {
	return p.amount.Cmp(other.amount) > 0
}

// LessThan reports whether p is strictly less than other.
func (p Price) LessThan(other Price) bool {
	return p.amount.Cmp(other.amount) < 0
}

// Equal reports value equality.
func (p Price) Equal(other Price) bool {
	return p.amount.Cmp(other.amount) == 0
}

// Numerator returns the numerator of the stored rational amount.
func (p Price) Numerator() int64 {
	return p.amount.Num().Int64()
}

// Denominator returns the denominator of the stored rational amount.
func (p Price) Denominator() int64 {
	return p.amount.Denom().Int64()
}

// Float64 returns an approximate float64 representation (display only).
func (p Price) Float64() float64 {
	f, _ := p.amount.Float64()
	return f
}

// String renders the amount with two decimal places.
func (p Price) String() string {
	return p.amount.FloatString(2)
}
