package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Number is a decimal value carried as the exact string the exchange
// reported. The zero value means the field was absent or null, which is
// distinct from "0"; exchange payloads routinely omit fields whose value is
// unknown rather than zero.
type Number string

// UnmarshalJSON deserializes bare numbers, numeric strings and null.
func (n *Number) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*n = ""
		return nil
	}
	if s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	if _, err := decimal.NewFromString(s); err != nil {
		return fmt.Errorf("cannot unmarshal %s into Number: %w", string(data), err)
	}
	*n = Number(s)
	return nil
}

// MarshalJSON serializes the number as a JSON string, preserving the exact
// reported representation.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(`"` + string(n) + `"`), nil
}

// IsSet returns whether the value was reported.
func (n Number) IsSet() bool { return n != "" }

// String returns the reported representation unchanged.
func (n Number) String() string { return string(n) }

// Decimal converts the value for arithmetic. Unset values convert to zero;
// check IsSet first where the distinction matters.
func (n Number) Decimal() decimal.Decimal {
	if n == "" {
		return decimal.Decimal{}
	}
	d, err := decimal.NewFromString(string(n))
	if err != nil {
		return decimal.Decimal{}
	}
	return d
}

// Float64 converts the value for display purposes. Unset values convert to
// zero.
func (n Number) Float64() float64 {
	f, _ := n.Decimal().Float64()
	return f
}
