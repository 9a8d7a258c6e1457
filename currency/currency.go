// Package currency provides currency codes and trading pairs in their
// canonical upper-case form.
package currency

import (
	"errors"
	"strings"
)

// ErrCurrencyPairEmpty is returned when a pair is required but not supplied
var ErrCurrencyPairEmpty = errors.New("currency pair is empty")

// Code is an upper-case currency identifier
type Code string

// EMPTYCODE denotes an unset currency
const EMPTYCODE = Code("")

// NewCode canonicalises a currency identifier
func NewCode(c string) Code {
	return Code(strings.ToUpper(strings.TrimSpace(c)))
}

// String returns the code as a string
func (c Code) String() string { return string(c) }

// IsEmpty returns whether the code is unset
func (c Code) IsEmpty() bool { return c == "" }

// Equal checks two codes for case-insensitive equality
func (c Code) Equal(o Code) bool { return strings.EqualFold(string(c), string(o)) }

// Pair holds the base and quote of a trading pair
type Pair struct {
	Base  Code
	Quote Code
}

// EMPTYPAIR denotes an unset pair
var EMPTYPAIR = Pair{}

// NewPair returns a pair from base and quote identifiers
func NewPair(base, quote string) Pair {
	return Pair{Base: NewCode(base), Quote: NewCode(quote)}
}

// NewPairFromCodes returns a pair from currency codes
func NewPairFromCodes(base, quote Code) Pair {
	return Pair{Base: base, Quote: quote}
}

// String returns the pair in BASE/QUOTE form
func (p Pair) String() string {
	return p.Base.String() + "/" + p.Quote.String()
}

// IsEmpty returns whether either side of the pair is unset
func (p Pair) IsEmpty() bool {
	return p.Base.IsEmpty() || p.Quote.IsEmpty()
}

// Equal checks two pairs for equality
func (p Pair) Equal(o Pair) bool {
	return p.Base.Equal(o.Base) && p.Quote.Equal(o.Quote)
}

// Format joins the pair with a delimiter in the requested case, used when an
// exchange wants its venue-specific pair form, e.g. "btc_usdt".
func (p Pair) Format(delimiter string, upper bool) string {
	s := p.Base.String() + delimiter + p.Quote.String()
	if !upper {
		return strings.ToLower(s)
	}
	return s
}
