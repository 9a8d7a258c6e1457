package market

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidemark-labs/goxchange/currency"
	"github.com/tidemark-labs/goxchange/exchanges/asset"
)

func testUniverse() []Market {
	return []Market{
		{
			ID:     "btc_usdt",
			Symbol: "BTC/USDT",
			Base:   currency.Code("BTC"),
			Quote:  currency.Code("USDT"),
			Asset:  asset.Spot,
			Spot:   true,
			Active: true,
		},
		{
			ID:           "btc_usdt",
			Symbol:       "BTC/USDT:USDT",
			Base:         currency.Code("BTC"),
			Quote:        currency.Code("USDT"),
			Settle:       currency.Code("USDT"),
			Asset:        asset.PerpetualSwap,
			Swap:         true,
			Contract:     true,
			Linear:       true,
			Active:       true,
			ContractSize: "0.0001",
		},
	}
}

func loadedRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	err := r.Load(context.Background(), func(context.Context) ([]Market, map[currency.Code]Currency, error) {
		return testUniverse(), map[currency.Code]Currency{"BTC": {Code: "BTC"}}, nil
	})
	require.NoError(t, err)
	return r
}

func TestLookupsBeforeLoad(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	_, err := r.BySymbol("BTC/USDT")
	assert.ErrorIs(t, err, ErrNotLoaded)
	_, err = r.ByID("btc_usdt", asset.Spot)
	assert.ErrorIs(t, err, ErrNotLoaded)
	_, err = r.Currencies()
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.False(t, r.IsLoaded())
}

func TestBySymbol(t *testing.T) {
	t.Parallel()
	r := loadedRegistry(t)
	m, err := r.BySymbol("BTC/USDT:USDT")
	require.NoError(t, err)
	assert.True(t, m.Swap)

	_, err = r.BySymbol("ETH/USDT")
	assert.ErrorIs(t, err, ErrMarketNotFound)
}

func TestByIDDisambiguation(t *testing.T) {
	t.Parallel()
	r := loadedRegistry(t)

	m, err := r.ByID("btc_usdt", asset.PerpetualSwap)
	require.NoError(t, err)
	assert.Equal(t, "BTC/USDT:USDT", m.Symbol)

	m, err = r.ByID("btc_usdt", asset.Spot)
	require.NoError(t, err)
	assert.Equal(t, "BTC/USDT", m.Symbol)

	// No hint prefers spot on an ambiguous id
	m, err = r.ByID("btc_usdt", asset.Empty)
	require.NoError(t, err)
	assert.True(t, m.Spot)

	_, err = r.ByID("doge_usdt", asset.Spot)
	assert.ErrorIs(t, err, ErrMarketNotFound)
}

func TestSafeMarketPlaceholder(t *testing.T) {
	t.Parallel()
	r := loadedRegistry(t)

	m := r.SafeMarket("eth_usdt", asset.Spot)
	assert.Equal(t, "ETH/USDT", m.Symbol)
	assert.True(t, m.Spot)
	assert.False(t, m.Active, "placeholders are never active")

	m = r.SafeMarket("eth_usdt", asset.PerpetualSwap)
	assert.Equal(t, "ETH/USDT:USDT", m.Symbol)
	assert.True(t, m.Contract)

	m = r.SafeMarket("weird-id", asset.Spot)
	assert.Equal(t, "weird-id", m.Symbol)

	// Known ids resolve to the real listing
	m = r.SafeMarket("btc_usdt", asset.Spot)
	assert.True(t, m.Active)
}

func TestLoadSingleFlight(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	var calls int32
	release := make(chan struct{})

	loader := func(context.Context) ([]Market, map[currency.Code]Currency, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return testUniverse(), nil, nil
	}

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = r.Load(context.Background(), loader)
		}(i)
	}

	// Give the goroutines time to pile onto the in-flight load
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "concurrent loads must share one fetch")
	for i := range errs {
		assert.NoError(t, errs[i])
	}
	assert.True(t, r.IsLoaded())
}

func TestLoadFailurePropagatesToAllWaiters(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	wantErr := errors.New("venue unavailable")
	err := r.Load(context.Background(), func(context.Context) ([]Market, map[currency.Code]Currency, error) {
		return nil, nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.False(t, r.IsLoaded(), "failed load must not mark the registry loaded")

	// A subsequent load can still succeed
	err = r.Load(context.Background(), func(context.Context) ([]Market, map[currency.Code]Currency, error) {
		return testUniverse(), nil, nil
	})
	require.NoError(t, err)
	assert.True(t, r.IsLoaded())
}
