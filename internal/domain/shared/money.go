package shared

import "fmt"

// Money is an amount of ECU denominated in millions. Board-game cash is
// always whole millions, so an int is exact.
type Money int

// NewMoney creates a Money amount, rejecting negative values
func NewMoney(millions int) (Money, error) {
	if millions < 0 {
		return 0, fmt.Errorf("money must be non-negative, got %d", millions)
	}
	return Money(millions), nil
}

// Millions returns the raw amount in millions of ECU
func (m Money) Millions() int {
	return int(m)
}

// Add returns the sum of two amounts
func (m Money) Add(other Money) Money {
	return m + other
}

// Subtract returns m minus other, or an error if the result would be negative
func (m Money) Subtract(other Money) (Money, error) {
	if other > m {
		return 0, fmt.Errorf("insufficient funds: have %s, need %s", m, other)
	}
	return m - other, nil
}

// CanAfford reports whether the amount covers the given cost
func (m Money) CanAfford(cost Money) bool {
	return m >= cost
}

// IsZero reports whether the amount is zero
func (m Money) IsZero() bool {
	return m == 0
}

// String formats the amount the way players see it, e.g. "15M ECU"
func (m Money) String() string {
	return fmt.Sprintf("%dM ECU", int(m))
}
