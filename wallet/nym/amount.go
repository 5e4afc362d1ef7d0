package nym

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Denom is a currency denomination code such as NYM or NYMT
type Denom string

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDenom  = errors.New("invalid denomination")
	ErrDenomMismatch = errors.New("denomination mismatch")
)

// Amount is a decimal currency amount in the major denomination.
// The decimal text is kept as received; the magnitude is used for ordering.
type Amount struct {
	value     string
	denom     Denom
	magnitude *big.Rat
}

// ParseAmount validates a non-negative decimal string and pairs it with a denomination
func ParseAmount(value string, denom string) (Amount, error) {
	if strings.TrimSpace(denom) == "" {
		return Amount{}, fmt.Errorf("%w: empty", ErrInvalidDenom)
	}
	if !isDecimal(value) {
		return Amount{}, fmt.Errorf("%w: %q is not a decimal", ErrInvalidAmount, value)
	}

	r, ok := new(big.Rat).SetString(value)
	if !ok {
		return Amount{}, fmt.Errorf("%w: %q is not a decimal", ErrInvalidAmount, value)
	}

	return Amount{value: value, denom: Denom(denom), magnitude: r}, nil
}

// MustParseAmount is ParseAmount for literals known to be valid
func MustParseAmount(value string, denom string) Amount {
	a, err := ParseAmount(value, denom)
	if err != nil {
		panic(err)
	}
	return a
}

// ZeroAmount returns 0 in the given denomination
func ZeroAmount(denom Denom) Amount {
	return Amount{value: "0", denom: denom, magnitude: new(big.Rat)}
}

func (a Amount) Value() string { return a.value }
func (a Amount) Denom() Denom  { return a.denom }

// String renders "{amount} {denom}"
func (a Amount) String() string {
	return a.value + " " + string(a.denom)
}

// IsZero reports whether the magnitude is zero
func (a Amount) IsZero() bool {
	return a.rat().Sign() == 0
}

// Cmp compares magnitudes and ignores denominations
func (a Amount) Cmp(other Amount) int {
	return a.rat().Cmp(other.rat())
}

// Add sums two amounts of the same denomination.
// The result keeps the larger number of decimal places of the operands.
func (a Amount) Add(other Amount) (Amount, error) {
	if a.denom != other.denom {
		return Amount{}, fmt.Errorf("%w: %s and %s", ErrDenomMismatch, a.denom, other.denom)
	}

	sum := new(big.Rat).Add(a.rat(), other.rat())
	places := max(decimalPlaces(a.value), decimalPlaces(other.value))

	return Amount{value: sum.FloatString(places), denom: a.denom, magnitude: sum}, nil
}

func (a Amount) rat() *big.Rat {
	if a.magnitude == nil {
		return new(big.Rat)
	}
	return a.magnitude
}

// isDecimal accepts digits with at most one dot, e.g. "12", "0.5", "12.", ".5"
func isDecimal(s string) bool {
	digits, dots := 0, 0
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

func decimalPlaces(s string) int {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}
