// Package ticker defines the canonical 24h market snapshot.
package ticker

import (
	"time"

	"github.com/tidemark-labs/goxchange/currency"
	"github.com/tidemark-labs/goxchange/exchanges/asset"
	"github.com/tidemark-labs/goxchange/types"
)

// Price is a canonical ticker. Unreported fields stay unset rather than
// zero; venues differ widely in which statistics they publish.
type Price struct {
	ExchangeName string
	Pair         currency.Pair
	AssetType    asset.Item
	Last         types.Number
	High         types.Number
	Low          types.Number
	Open         types.Number
	Close        types.Number
	Bid          types.Number
	BidSize      types.Number
	Ask          types.Number
	AskSize      types.Number
	Volume       types.Number
	QuoteVolume  types.Number
	// Change is the absolute 24h price change
	Change types.Number
	// Percentage is the 24h change as a percentage, so a venue-reported
	// fractional rate of 0.0015 arrives here as 0.15
	Percentage  types.Number
	MarkPrice   types.Number
	IndexPrice  types.Number
	LastUpdated time.Time
	Info        any
}
