// Package order defines the canonical order representation shared across
// venues.
package order

import (
	"errors"
	"strings"
	"time"

	"github.com/tidemark-labs/goxchange/currency"
	"github.com/tidemark-labs/goxchange/exchanges/asset"
	"github.com/tidemark-labs/goxchange/types"
)

// Validation errors for order submission
var (
	ErrSideIsInvalid       = errors.New("order side is invalid")
	ErrTypeIsInvalid       = errors.New("order type is invalid")
	ErrAmountIsInvalid     = errors.New("order amount is invalid")
	ErrPriceMustBeSetIfLimitOrder = errors.New("price must be set if limit order type is desired")
)

// Side is the buy/sell direction
type Side string

// Order sides
const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Type is the execution style
type Type string

// Order types
const (
	Limit  Type = "limit"
	Market Type = "market"
)

// TimeInForce defines how long an order rests
type TimeInForce string

// Time in force policies
const (
	GoodTillCancel    TimeInForce = "GTC"
	ImmediateOrCancel TimeInForce = "IOC"
	FillOrKill        TimeInForce = "FOK"
	PostOnly          TimeInForce = "GTX"
)

// Status is the canonical life-cycle state. Venue states that do not map
// onto the closed set pass through unchanged so new states surface rather
// than vanish.
type Status string

// Canonical statuses
const (
	Open     Status = "open"
	Closed   Status = "closed"
	Canceled Status = "canceled"
	Rejected Status = "rejected"
	Expired  Status = "expired"
)

// IsCanonical reports whether the status belongs to the closed set
func (s Status) IsCanonical() bool {
	switch s {
	case Open, Closed, Canceled, Rejected, Expired:
		return true
	}
	return false
}

// Detail is a canonical order
type Detail struct {
	Exchange      string
	ID            string
	ClientOrderID string
	Pair          currency.Pair
	AssetType     asset.Item
	Side          Side
	Type          Type
	TimeInForce   TimeInForce
	Status        Status
	Price         types.Number
	TriggerPrice  types.Number
	Average       types.Number
	Amount        types.Number
	Filled        types.Number
	Remaining     types.Number
	Cost          types.Number
	Fee           types.Number
	FeeCurrency   currency.Code
	ReduceOnly    bool
	PostOnlyFlag  bool
	Date          time.Time
	LastUpdated   time.Time
	// Info retains the raw venue payload
	Info any
}

// Submit contains the parameters required to place an order
type Submit struct {
	Pair          currency.Pair
	AssetType     asset.Item
	Side          Side
	Type          Type
	TimeInForce   TimeInForce
	Amount        string
	Price         string
	QuoteAmount   string
	TriggerPrice  string
	StopLoss      string
	TakeProfit    string
	ClientOrderID string
	ReduceOnly    bool
	Margin        bool
	Leverage      int64
}

// Validate checks the submission for structural problems before any request
// is built
func (s *Submit) Validate() error {
	if s.Pair.IsEmpty() {
		return currency.ErrCurrencyPairEmpty
	}
	switch s.Side {
	case Buy, Sell:
	default:
		return ErrSideIsInvalid
	}
	switch s.Type {
	case Limit, Market:
	default:
		return ErrTypeIsInvalid
	}
	if s.Type == Limit && s.Price == "" {
		return ErrPriceMustBeSetIfLimitOrder
	}
	if s.Amount == "" && s.QuoteAmount == "" {
		return ErrAmountIsInvalid
	}
	return nil
}

// ParseSide converts a venue side string
func ParseSide(s string) Side {
	if strings.EqualFold(s, "buy") {
		return Buy
	}
	return Sell
}
