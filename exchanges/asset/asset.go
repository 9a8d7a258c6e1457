// Package asset enumerates the market classes an exchange can list.
package asset

import (
	"errors"
	"fmt"
	"strings"
)

// Item stores the asset type
type Item uint8

// Supported asset types
const (
	Empty Item = iota
	Spot
	Margin
	PerpetualSwap
	Futures
	Option
)

// ErrNotSupported is returned when the supplied asset is not supported
var ErrNotSupported = errors.New("unsupported asset type")

// String converts the asset to its readable form
func (a Item) String() string {
	switch a {
	case Spot:
		return "spot"
	case Margin:
		return "margin"
	case PerpetualSwap:
		return "perpetualswap"
	case Futures:
		return "futures"
	case Option:
		return "option"
	default:
		return ""
	}
}

// IsValid returns whether the asset is a recognised non-empty type
func (a Item) IsValid() bool {
	return a >= Spot && a <= Option
}

// IsContract returns whether the asset is a derivative contract
func (a Item) IsContract() bool {
	return a == PerpetualSwap || a == Futures || a == Option
}

// New parses an asset string to its type
func New(input string) (Item, error) {
	switch strings.ToLower(input) {
	case "spot":
		return Spot, nil
	case "margin":
		return Margin, nil
	case "perpetualswap", "swap", "perpetual":
		return PerpetualSwap, nil
	case "futures", "future":
		return Futures, nil
	case "option", "options":
		return Option, nil
	default:
		return Empty, fmt.Errorf("%w: %q", ErrNotSupported, input)
	}
}
