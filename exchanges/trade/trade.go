// Package trade defines the canonical executed-trade representation.
package trade

import (
	"time"

	"github.com/tidemark-labs/goxchange/currency"
	"github.com/tidemark-labs/goxchange/exchanges/asset"
	"github.com/tidemark-labs/goxchange/exchanges/order"
	"github.com/tidemark-labs/goxchange/types"
)

// TakerMaker marks which side of the book the subject was on
type TakerMaker string

// Liquidity roles
const (
	Taker TakerMaker = "taker"
	Maker TakerMaker = "maker"
)

// Data is a canonical trade. Amount is always in base units; contract fills
// reported in contract counts are converted with the market's contract size
// before they land here.
type Data struct {
	Exchange     string
	ID           string
	OrderID      string
	Pair         currency.Pair
	AssetType    asset.Item
	Side         order.Side
	Price        types.Number
	Amount       types.Number
	Cost         types.Number
	Fee          types.Number
	FeeCurrency  currency.Code
	TakerMaker   TakerMaker
	Timestamp    time.Time
	Info         any
}
