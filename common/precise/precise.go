// Package precise provides exact arithmetic over decimal strings as reported
// by exchange APIs. The empty string means "value not reported" and
// propagates through every operation; it is never treated as zero.
package precise

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RoundingMode selects how RoundToIncrement resolves values that fall
// between increments.
type RoundingMode int

const (
	// Round resolves to the nearest increment, half away from zero
	Round RoundingMode = iota
	// Truncate resolves toward zero
	Truncate
)

var errInvalidIncrement = errors.New("increment must be a positive decimal string")

func parse(s string) (decimal.Decimal, bool, error) {
	if s == "" {
		return decimal.Decimal{}, false, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false, err
	}
	return d, true, nil
}

// StringAdd returns a + b. Either operand empty yields empty.
func StringAdd(a, b string) (string, error) {
	da, okA, err := parse(a)
	if err != nil {
		return "", err
	}
	db, okB, err := parse(b)
	if err != nil {
		return "", err
	}
	if !okA || !okB {
		return "", nil
	}
	return da.Add(db).String(), nil
}

// StringSub returns a - b. Either operand empty yields empty.
func StringSub(a, b string) (string, error) {
	da, okA, err := parse(a)
	if err != nil {
		return "", err
	}
	db, okB, err := parse(b)
	if err != nil {
		return "", err
	}
	if !okA || !okB {
		return "", nil
	}
	return da.Sub(db).String(), nil
}

// StringMul returns a * b. Either operand empty yields empty.
func StringMul(a, b string) (string, error) {
	da, okA, err := parse(a)
	if err != nil {
		return "", err
	}
	db, okB, err := parse(b)
	if err != nil {
		return "", err
	}
	if !okA || !okB {
		return "", nil
	}
	return da.Mul(db).String(), nil
}

// StringDiv returns a / b to 18 places of precision. Either operand empty
// yields empty; division by zero is an error.
func StringDiv(a, b string) (string, error) {
	da, okA, err := parse(a)
	if err != nil {
		return "", err
	}
	db, okB, err := parse(b)
	if err != nil {
		return "", err
	}
	if !okA || !okB {
		return "", nil
	}
	if db.IsZero() {
		return "", errors.New("division by zero")
	}
	return da.DivRound(db, 18).String(), nil
}

// StringMin returns the smaller of a and b. One operand empty yields the
// other; both empty yields empty.
func StringMin(a, b string) (string, error) {
	da, okA, err := parse(a)
	if err != nil {
		return "", err
	}
	db, okB, err := parse(b)
	if err != nil {
		return "", err
	}
	switch {
	case !okA && !okB:
		return "", nil
	case !okA:
		return db.String(), nil
	case !okB:
		return da.String(), nil
	case da.LessThan(db):
		return da.String(), nil
	default:
		return db.String(), nil
	}
}

// ParsePrecision converts a decimal-place count into its increment form, so
// "4" becomes "0.0001". Empty input yields empty.
func ParsePrecision(places string) (string, error) {
	if places == "" {
		return "", nil
	}
	d, err := decimal.NewFromString(places)
	if err != nil {
		return "", err
	}
	if !d.Equal(d.Truncate(0)) {
		return "", fmt.Errorf("precision %q is not an integer", places)
	}
	n := d.IntPart()
	if n < 0 {
		// Negative precision means rounding left of the decimal point.
		return "1" + strings.Repeat("0", int(-n)), nil
	}
	if n == 0 {
		return "1", nil
	}
	return "0." + strings.Repeat("0", int(n-1)) + "1", nil
}

// RoundToIncrement snaps value to a multiple of increment using the supplied
// mode and returns it without trailing zeros. The operation is idempotent:
// applying it to its own output returns the output unchanged. Empty value
// yields empty.
func RoundToIncrement(value, increment string, mode RoundingMode) (string, error) {
	dv, ok, err := parse(value)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	di, ok, err := parse(increment)
	if err != nil {
		return "", err
	}
	if !ok || di.Sign() <= 0 {
		return "", errInvalidIncrement
	}

	steps := dv.Div(di)
	switch mode {
	case Truncate:
		steps = steps.Truncate(0)
	default:
		steps = steps.Round(0)
	}
	return steps.Mul(di).String(), nil
}
