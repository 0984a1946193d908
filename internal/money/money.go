// Package money represents fixed-point monetary amounts in minor units.
//
// Amounts are stored as int64 cents so arithmetic never loses fractional
// cents. $10.50 is stored as 1050.
package money

import "fmt"

// Amount is a monetary value in minor units (cents).
type Amount int64

// FromCents builds an Amount from a raw cent count.
func FromCents(cents int64) Amount {
	return Amount(cents)
}

// FromDollars builds an Amount from whole dollars.
func FromDollars(dollars int64) Amount {
	return Amount(dollars * 100)
}

// Cents returns the raw minor-unit count.
func (a Amount) Cents() int64 {
	return int64(a)
}

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool {
	return a > 0
}

// Half returns the amount halved, rounding down to the nearest cent.
// Callers that split an amount must pair Half with Remainder so the two
// parts always sum back to the original.
func (a Amount) Half() Amount {
	return a / 2
}

// Remainder returns the amount minus Half, so Half()+Remainder() == a.
func (a Amount) Remainder() Amount {
	return a - a.Half()
}

// BlackjackBonus returns the 3:2 natural-blackjack profit for a bet.
func (a Amount) BlackjackBonus() Amount {
	return a + a.Half()
}

// String formats the amount as a dollar value, e.g. "$10.50" or "-$0.25".
func (a Amount) String() string {
	cents := int64(a)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
