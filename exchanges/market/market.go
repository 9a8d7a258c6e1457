// Package market provides the canonical market and currency descriptors and
// the registry unified operations resolve symbols through.
package market

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tidemark-labs/goxchange/currency"
	"github.com/tidemark-labs/goxchange/exchanges/asset"
	"github.com/tidemark-labs/goxchange/types"
)

// ErrNotLoaded is returned on lookups against a registry that has never
// completed a load
var ErrNotLoaded = errors.New("market registry not loaded")

// ErrMarketNotFound is returned when a symbol or venue id has no entry
var ErrMarketNotFound = errors.New("market not found")

// MinMax bounds an order dimension. Unset bounds mean the venue does not
// publish one.
type MinMax struct {
	Min types.Number
	Max types.Number
}

// Limits holds order size bounds per dimension
type Limits struct {
	Amount   MinMax
	Price    MinMax
	Cost     MinMax
	Leverage MinMax
}

// Precision holds minimal increments per dimension
type Precision struct {
	Amount types.Number
	Price  types.Number
}

// Market is a canonical tradeable instrument descriptor
type Market struct {
	// ID is the venue-native identifier, e.g. "btc_usdt"
	ID string
	// Symbol is the canonical form, e.g. "BTC/USDT", "BTC/USDT:USDT" for a
	// linear swap and "BTC/USD:BTC-240329" for an inverse future
	Symbol string
	Base   currency.Code
	Quote  currency.Code
	Settle currency.Code
	Asset  asset.Item
	// Exactly one of Spot/Margin through Option holds per instrument;
	// Contract, Linear and Inverse qualify the derivative classes
	Spot     bool
	Margin   bool
	Swap     bool
	Future   bool
	Option   bool
	Contract bool
	Linear   bool
	Inverse  bool
	Active   bool
	// ContractSize is base units per contract, unset for spot
	ContractSize types.Number
	Expiry       time.Time
	TakerFee     types.Number
	MakerFee     types.Number
	Precision    Precision
	Limits       Limits
	// Info retains the raw venue listing
	Info any
}

// Network is one chain a currency can move over
type Network struct {
	ID              string
	Name            string
	DepositEnabled  bool
	WithdrawEnabled bool
	WithdrawFee     types.Number
	WithdrawMin     types.Number
}

// Currency is a canonical asset descriptor with its transfer networks
type Currency struct {
	Code            currency.Code
	Name            string
	Precision       types.Number
	Active          bool
	DepositEnabled  bool
	WithdrawEnabled bool
	// WithdrawFee and WithdrawMin aggregate the cheapest/lowest values
	// across networks
	WithdrawFee types.Number
	WithdrawMin types.Number
	Networks    map[string]Network
	Info        any
}

// Loader fetches the full universe of markets and currencies from a venue
type Loader func(ctx context.Context) ([]Market, map[currency.Code]Currency, error)

// Registry indexes markets by canonical symbol and by venue id. A single
// Load is shared by all concurrent callers and lookups never observe a
// half-built index.
type Registry struct {
	mu         sync.RWMutex
	bySymbol   map[string]*Market
	byID       map[string][]*Market
	currencies map[currency.Code]Currency
	loaded     bool

	inflightMu sync.Mutex
	inflight   *loadCall
}

// loadCall lets concurrent loaders share one in-flight fetch. err is written
// before done is closed and only read after it is closed.
type loadCall struct {
	done chan struct{}
	err  error
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Load populates the registry using the supplied loader. Concurrent callers
// while a load is in flight block on that load and share its result instead
// of issuing their own. Reload semantics: a completed registry is replaced
// atomically, so readers see either the old or the new universe.
func (r *Registry) Load(ctx context.Context, load Loader) error {
	r.inflightMu.Lock()
	if call := r.inflight; call != nil {
		r.inflightMu.Unlock()
		select {
		case <-call.done:
			return call.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	call := &loadCall{done: make(chan struct{})}
	r.inflight = call
	r.inflightMu.Unlock()

	markets, currencies, err := load(ctx)
	if err == nil {
		bySymbol := make(map[string]*Market, len(markets))
		byID := make(map[string][]*Market, len(markets))
		for i := range markets {
			m := &markets[i]
			bySymbol[m.Symbol] = m
			byID[m.ID] = append(byID[m.ID], m)
		}
		r.mu.Lock()
		r.bySymbol = bySymbol
		r.byID = byID
		r.currencies = currencies
		r.loaded = true
		r.mu.Unlock()
	}

	call.err = err
	r.inflightMu.Lock()
	r.inflight = nil
	r.inflightMu.Unlock()
	close(call.done)
	return err
}

// IsLoaded returns whether a load has completed successfully
func (r *Registry) IsLoaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// BySymbol resolves a canonical symbol
func (r *Registry) BySymbol(symbol string) (*Market, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.loaded {
		return nil, ErrNotLoaded
	}
	m, ok := r.bySymbol[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMarketNotFound, symbol)
	}
	return m, nil
}

// ByID resolves a venue-native id. Venues reuse ids across market classes
// ("btc_usdt" names both the spot pair and the linear swap), so an asset
// hint disambiguates; with no hint a single match wins and multiple matches
// prefer spot.
func (r *Registry) ByID(id string, hint asset.Item) (*Market, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.loaded {
		return nil, ErrNotLoaded
	}
	matches := r.byID[id]
	switch {
	case len(matches) == 0:
		return nil, fmt.Errorf("%w: id %q", ErrMarketNotFound, id)
	case len(matches) == 1:
		return matches[0], nil
	}
	if hint != asset.Empty {
		for _, m := range matches {
			if m.Asset == hint || (hint.IsContract() && m.Contract) {
				return m, nil
			}
		}
	}
	for _, m := range matches {
		if m.Spot {
			return m, nil
		}
	}
	return matches[0], nil
}

// SafeMarket resolves a venue id, synthesizing a placeholder when the id is
// unknown so normalization never fails on an unlisted instrument. Ids of the
// form base_quote yield a placeholder with a canonical symbol; opaque ids
// pass through as both id and symbol.
func (r *Registry) SafeMarket(id string, hint asset.Item) *Market {
	if m, err := r.ByID(id, hint); err == nil {
		return m
	}
	placeholder := &Market{ID: id, Symbol: id, Asset: hint}
	if parts := strings.Split(id, "_"); len(parts) == 2 {
		placeholder.Base = currency.NewCode(parts[0])
		placeholder.Quote = currency.NewCode(parts[1])
		placeholder.Symbol = placeholder.Base.String() + "/" + placeholder.Quote.String()
		if hint.IsContract() {
			placeholder.Contract = true
			placeholder.Symbol += ":" + placeholder.Quote.String()
			placeholder.Settle = placeholder.Quote
			placeholder.Linear = true
		} else {
			placeholder.Spot = hint == asset.Spot || hint == asset.Empty
		}
	}
	return placeholder
}

// Currencies returns the currency universe from the last completed load
func (r *Registry) Currencies() (map[currency.Code]Currency, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.loaded {
		return nil, ErrNotLoaded
	}
	return r.currencies, nil
}

// Markets returns every market from the last completed load
func (r *Registry) Markets() ([]*Market, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.loaded {
		return nil, ErrNotLoaded
	}
	out := make([]*Market, 0, len(r.bySymbol))
	for _, m := range r.bySymbol {
		out = append(out, m)
	}
	return out, nil
}
