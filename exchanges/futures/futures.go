// Package futures defines canonical derivative-side entities: positions,
// funding rates and leverage tiers.
package futures

import (
	"time"

	"github.com/tidemark-labs/goxchange/currency"
	"github.com/tidemark-labs/goxchange/exchanges/asset"
	"github.com/tidemark-labs/goxchange/types"
)

// MarginMode is the collateral scope of a position
type MarginMode string

// Margin modes
const (
	Cross    MarginMode = "cross"
	Isolated MarginMode = "isolated"
)

// Position is a canonical open derivative position
type Position struct {
	Exchange         string
	Pair             currency.Pair
	AssetType        asset.Item
	Side             string
	Contracts        types.Number
	ContractSize     types.Number
	EntryPrice       types.Number
	Leverage         types.Number
	Collateral       types.Number
	UnrealisedPnL    types.Number
	RealisedPnL      types.Number
	LiquidationPrice types.Number
	MarginMode       MarginMode
	Timestamp        time.Time
	Info             any
}

// FundingRate is the current funding state of a perpetual market
type FundingRate struct {
	Exchange        string
	Pair            currency.Pair
	Rate            types.Number
	FundingTime     time.Time
	NextFundingTime time.Time
	// Interval is the collection cadence, e.g. "8h"
	Interval string
	Info     any
}

// FundingRateHistory is one historical funding observation
type FundingRateHistory struct {
	Pair      currency.Pair
	Rate      types.Number
	Timestamp time.Time
}

// FundingPayment is a funding amount credited or debited to the account
type FundingPayment struct {
	ID        string
	Pair      currency.Pair
	Amount    types.Number
	Currency  currency.Code
	Timestamp time.Time
	Info      any
}

// LeverageTier is one notional bracket of a market's risk ladder
type LeverageTier struct {
	Tier                  int64
	Currency              currency.Code
	MinNotional           types.Number
	MaxNotional           types.Number
	MaintenanceMarginRate types.Number
	MaxLeverage           types.Number
	Info                  any
}
