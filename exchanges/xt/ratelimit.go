package xt

import (
	"time"

	"github.com/tidemark-labs/goxchange/exchanges/request"
)

// Endpoint functionality for rate limiting
const (
	publicSpotEPL request.EndpointLimit = iota
	publicContractEPL
	privateSpotEPL
	privateContractEPL
	orderPlacementEPL
	walletEPL
)

// GetRateLimits returns the rate limits for the exchange. Order placement
// gets its own bucket so bursts of market-data polling cannot starve
// trading.
func GetRateLimits() request.Limiter {
	return request.EndpointLimits{
		publicSpotEPL:      request.NewRateLimit(time.Second, 20),
		publicContractEPL:  request.NewRateLimit(time.Second, 20),
		privateSpotEPL:     request.NewRateLimit(time.Second, 10),
		privateContractEPL: request.NewRateLimit(time.Second, 10),
		orderPlacementEPL:  request.NewRateLimit(time.Second, 5),
		walletEPL:          request.NewRateLimit(time.Second, 1),
	}
}
