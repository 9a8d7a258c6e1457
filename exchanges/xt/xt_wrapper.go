package xt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/buger/jsonparser"
	"github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tidemark-labs/goxchange/common"
	"github.com/tidemark-labs/goxchange/common/precise"
	"github.com/tidemark-labs/goxchange/config"
	"github.com/tidemark-labs/goxchange/currency"
	exchange "github.com/tidemark-labs/goxchange/exchanges"
	"github.com/tidemark-labs/goxchange/exchanges/account"
	"github.com/tidemark-labs/goxchange/exchanges/asset"
	"github.com/tidemark-labs/goxchange/exchanges/futures"
	"github.com/tidemark-labs/goxchange/exchanges/market"
	"github.com/tidemark-labs/goxchange/exchanges/order"
	"github.com/tidemark-labs/goxchange/exchanges/request"
	"github.com/tidemark-labs/goxchange/exchanges/ticker"
	"github.com/tidemark-labs/goxchange/exchanges/trade"
	"github.com/tidemark-labs/goxchange/types"
)

// New returns an XT client with defaults applied
func New() *Exchange {
	e := &Exchange{
		registry:   market.NewRegistry(),
		recvWindow: defaultRecvWindow,
	}
	e.Name = "XT"
	e.Enabled = true
	e.API.Endpoints = exchange.NewEndpoints(map[exchange.URL]string{
		exchange.RestSpot:         spotAPIURL,
		exchange.RestUSDTMargined: linearAPIURL,
		exchange.RestCoinMargined: inverseAPIURL,
		exchange.RestUser:         userAPIURL,
	})
	e.Requester = request.New(e.Name,
		common.NewHTTPClientWithTimeout(15*time.Second),
		request.WithLimiter(GetRateLimits()))
	e.log = logrus.WithField("exchange", e.Name)
	return e
}

// Setup applies per-venue configuration
func (e *Exchange) Setup(cfg *config.Exchange) error {
	if cfg == nil {
		return errors.New("nil exchange config")
	}
	e.Enabled = cfg.Enabled
	e.Verbose = cfg.Verbose
	e.adjustForTimeDifference = cfg.AdjustForTimeDifference
	if cfg.RecvWindow != "" {
		e.recvWindow = cfg.RecvWindow
	}
	if cfg.HTTPTimeout > 0 {
		e.Requester = request.New(e.Name,
			common.NewHTTPClientWithTimeout(cfg.HTTPTimeout),
			request.WithLimiter(GetRateLimits()))
	}
	if cfg.API.Key != "" || cfg.API.Secret != "" {
		e.SetCredentials(cfg.API.Key, cfg.API.Secret, cfg.API.SubAccount)
	}
	return nil
}

// FetchTime returns the venue clock
func (e *Exchange) FetchTime(ctx context.Context) (time.Time, error) {
	return e.GetServerTime(ctx)
}

// LoadTimeDifference measures the venue clock delta so signed timestamps
// track the venue rather than the local host
func (e *Exchange) LoadTimeDifference(ctx context.Context) error {
	serverTime, err := e.GetServerTime(ctx)
	if err != nil {
		return err
	}
	atomic.StoreInt64(&e.timeDelta, time.Now().UnixMilli()-serverTime.UnixMilli())
	return nil
}

// LoadMarkets fetches the spot, linear and inverse listings plus currency
// metadata concurrently and populates the registry. Any sub-fetch failure
// fails the composite load; a half universe would silently misroute orders.
func (e *Exchange) LoadMarkets(ctx context.Context, reload bool) error {
	if e.registry.IsLoaded() && !reload {
		return nil
	}
	if e.adjustForTimeDifference {
		if err := e.LoadTimeDifference(ctx); err != nil {
			return err
		}
	}
	return e.registry.Load(ctx, e.fetchMarketUniverse)
}

func (e *Exchange) fetchMarketUniverse(ctx context.Context) ([]market.Market, map[currency.Code]market.Currency, error) {
	var (
		wg         sync.WaitGroup
		spot       *SpotSymbolsData
		linear     []ContractSymbol
		inverse    []ContractSymbol
		currencies *CurrenciesData
		chains     []CurrencyChains
		errs       [5]error
	)

	wg.Add(5)
	go func() { defer wg.Done(); spot, errs[0] = e.GetSpotSymbols(ctx) }()
	go func() { defer wg.Done(); linear, errs[1] = e.GetContractSymbols(ctx, exchange.RestUSDTMargined) }()
	go func() { defer wg.Done(); inverse, errs[2] = e.GetContractSymbols(ctx, exchange.RestCoinMargined) }()
	go func() { defer wg.Done(); currencies, errs[3] = e.GetCurrencies(ctx) }()
	go func() { defer wg.Done(); chains, errs[4] = e.GetSupportedCurrencyChains(ctx) }()
	wg.Wait()

	if err := errors.Join(errs[:]...); err != nil {
		return nil, nil, fmt.Errorf("%s load markets: %w", e.Name, err)
	}

	markets := make([]market.Market, 0, len(spot.Symbols)+len(linear)+len(inverse))
	for i := range spot.Symbols {
		markets = append(markets, e.parseSpotMarket(&spot.Symbols[i]))
	}
	for i := range linear {
		markets = append(markets, e.parseContractMarket(&linear[i], true))
	}
	for i := range inverse {
		markets = append(markets, e.parseContractMarket(&inverse[i], false))
	}
	return markets, e.parseCurrencies(currencies, chains), nil
}

func (e *Exchange) parseSpotMarket(s *SpotSymbol) market.Market {
	base := currency.NewCode(s.BaseCurrency)
	quote := currency.NewCode(s.QuoteCurrency)
	m := market.Market{
		ID:     s.Symbol,
		Symbol: base.String() + "/" + quote.String(),
		Base:   base,
		Quote:  quote,
		Asset:  asset.Spot,
		Spot:   true,
		Active: s.State == "ONLINE" && s.TradingEnabled && s.OpenapiEnabled,
		Info:   s,
	}
	if p, err := precise.ParsePrecision(strconv.FormatInt(s.PricePrecision, 10)); err == nil {
		m.Precision.Price = types.Number(p)
	}
	if p, err := precise.ParsePrecision(strconv.FormatInt(s.QuantityPrecision, 10)); err == nil {
		m.Precision.Amount = types.Number(p)
	}
	for _, f := range s.Filters {
		switch f.Filter {
		case "QUANTITY":
			m.Limits.Amount = market.MinMax{Min: f.Min, Max: f.Max}
		case "QUOTE_QTY":
			m.Limits.Cost = market.MinMax{Min: f.Min, Max: f.Max}
		case "PRICE":
			m.Limits.Price = market.MinMax{Min: f.Min, Max: f.Max}
			if f.TickSize.IsSet() {
				m.Precision.Price = f.TickSize
			}
		}
	}
	return m
}

func (e *Exchange) parseContractMarket(c *ContractSymbol, linear bool) market.Market {
	base := currency.NewCode(c.BaseCoin)
	quote := currency.NewCode(c.QuoteCoin)
	m := market.Market{
		ID:           c.Symbol,
		Base:         base,
		Quote:        quote,
		Contract:     true,
		Linear:       linear,
		Inverse:      !linear,
		Active:       c.IsOpenAPI,
		ContractSize: c.ContractSize,
		TakerFee:     c.TakerFee,
		MakerFee:     c.MakerFee,
		Info:         c,
	}
	if linear {
		m.Settle = quote
	} else {
		m.Settle = base
	}
	m.Symbol = base.String() + "/" + quote.String() + ":" + m.Settle.String()
	if strings.EqualFold(c.ProductType, "perpetual") {
		m.Asset = asset.PerpetualSwap
		m.Swap = true
	} else {
		m.Asset = asset.Futures
		m.Future = true
		m.Expiry = c.DeliveryDate.Time()
		if !m.Expiry.IsZero() {
			m.Symbol += "-" + m.Expiry.UTC().Format("060102")
		}
	}
	if p, err := precise.ParsePrecision(strconv.FormatInt(c.PricePrecision, 10)); err == nil {
		m.Precision.Price = types.Number(p)
	}
	if p, err := precise.ParsePrecision(strconv.FormatInt(c.QuantityPrecision, 10)); err == nil {
		m.Precision.Amount = types.Number(p)
	}
	m.Limits.Amount.Min = c.MinQty
	m.Limits.Cost = market.MinMax{Min: c.MinNotional, Max: c.MaxNotional}
	if c.InitLeverage > 0 {
		m.Limits.Leverage.Max = types.Number(strconv.FormatInt(c.InitLeverage, 10))
	}
	return m
}

func (e *Exchange) parseCurrencies(data *CurrenciesData, chains []CurrencyChains) map[currency.Code]market.Currency {
	out := make(map[currency.Code]market.Currency, len(data.Currencies))
	networks := make(map[currency.Code][]SupportChain, len(chains))
	for i := range chains {
		networks[currency.NewCode(chains[i].Currency)] = chains[i].SupportChains
	}
	for i := range data.Currencies {
		info := &data.Currencies[i]
		code := currency.NewCode(info.Currency)
		c := market.Currency{
			Code:            code,
			Name:            info.FullName,
			Active:          info.DepositStatus.String() == "1" && info.WithdrawStatus.String() == "1",
			DepositEnabled:  info.DepositStatus.String() == "1",
			WithdrawEnabled: info.WithdrawStatus.String() == "1",
			Networks:        make(map[string]market.Network),
			Info:            info,
		}
		if p, err := precise.ParsePrecision(strconv.FormatInt(info.MaxPrecision, 10)); err == nil {
			c.Precision = types.Number(p)
		}
		for _, chain := range networks[code] {
			c.Networks[chain.Chain] = market.Network{
				ID:              chain.Chain,
				Name:            chain.Chain,
				DepositEnabled:  chain.DepositEnabled,
				WithdrawEnabled: chain.WithdrawEnabled,
				WithdrawFee:     chain.WithdrawFeeAmount,
				WithdrawMin:     chain.WithdrawMinAmount,
			}
			// Aggregate the cheapest withdrawal route across networks
			if fee, err := precise.StringMin(c.WithdrawFee.String(), chain.WithdrawFeeAmount.String()); err == nil {
				c.WithdrawFee = types.Number(fee)
			}
			if minAmt, err := precise.StringMin(c.WithdrawMin.String(), chain.WithdrawMinAmount.String()); err == nil {
				c.WithdrawMin = types.Number(minAmt)
			}
		}
		out[code] = c
	}
	return out
}

// FetchCurrencies returns the currency universe with transfer metadata
func (e *Exchange) FetchCurrencies(ctx context.Context) (map[currency.Code]market.Currency, error) {
	if err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	return e.registry.Currencies()
}

// Markets returns the loaded market universe
func (e *Exchange) Markets(ctx context.Context) ([]*market.Market, error) {
	if err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	return e.registry.Markets()
}

func (e *Exchange) marketBySymbol(ctx context.Context, symbol string) (*market.Market, error) {
	if err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	m, err := e.registry.BySymbol(symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", exchange.ErrSymbolNotFound, symbol)
	}
	return m, nil
}

// contractEndpoint picks the REST root serving a derivative market
func contractEndpoint(m *market.Market) exchange.URL {
	if m.Inverse {
		return exchange.RestCoinMargined
	}
	return exchange.RestUSDTMargined
}

func hasKey(raw []byte, key string) bool {
	_, dataType, _, err := jsonparser.Get(raw, key)
	return err == nil && dataType != jsonparser.NotExist
}

// FetchTicker returns the canonical 24h snapshot for one symbol
func (e *Exchange) FetchTicker(ctx context.Context, symbol string) (*ticker.Price, error) {
	m, err := e.marketBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	var raws []json.RawMessage
	if m.Spot {
		raws, err = e.GetSpotTickers(ctx, m.ID)
	} else {
		raws, err = e.GetContractTickers(ctx, contractEndpoint(m), m.ID)
	}
	if err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, fmt.Errorf("%s no ticker returned for %q", e.Name, symbol)
	}
	return e.ParseTicker(raws[0], m)
}

// FetchTickers returns canonical snapshots for a whole market class.
// Contract classes span two REST roots, so both the USDT-margined and the
// coin-margined hosts are polled.
func (e *Exchange) FetchTickers(ctx context.Context, a asset.Item) ([]ticker.Price, error) {
	if err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	var raws []json.RawMessage
	if a.IsContract() {
		linear, linearErr := e.GetContractTickers(ctx, exchange.RestUSDTMargined, "")
		inverse, inverseErr := e.GetContractTickers(ctx, exchange.RestCoinMargined, "")
		if err := errors.Join(linearErr, inverseErr); err != nil {
			return nil, err
		}
		raws = append(linear, inverse...)
	} else {
		var err error
		raws, err = e.GetSpotTickers(ctx, "")
		if err != nil {
			return nil, err
		}
	}
	out := make([]ticker.Price, 0, len(raws))
	for _, raw := range raws {
		p, err := e.ParseTicker(raw, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

// ParseTicker normalizes a raw venue ticker. With no market context the
// payload shape is detected from its keys: only spot tickers carry the
// change-value or book-quantity fields.
func (e *Exchange) ParseTicker(raw json.RawMessage, m *market.Market) (*ticker.Price, error) {
	isSpot := m != nil && m.Spot
	if m == nil {
		isSpot = hasKey(raw, "cv") || hasKey(raw, "aq")
	}

	p := &ticker.Price{ExchangeName: e.Name, Info: json.RawMessage(raw)}
	if isSpot {
		var t spotTicker
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, err
		}
		if m == nil {
			m = e.registry.SafeMarket(t.Symbol, asset.Spot)
		}
		p.Last = t.Close
		p.Open = t.Open
		p.High = t.High
		p.Low = t.Low
		p.Close = t.Close
		p.Bid, p.BidSize = t.BidPrice, t.BidQty
		p.Ask, p.AskSize = t.AskPrice, t.AskQty
		p.Volume = t.Quantity
		p.QuoteVolume = t.Volume
		p.Change = t.ChangeValue
		p.Percentage = fractionToPercentage(t.ChangeRate)
		p.LastUpdated = t.Timestamp.Time()
	} else {
		var t contractTicker
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, err
		}
		if m == nil {
			m = e.registry.SafeMarket(t.Symbol, asset.PerpetualSwap)
		}
		p.Last = t.Close
		p.Open = t.Open
		p.High = t.High
		p.Low = t.Low
		p.Close = t.Close
		p.Bid = t.BidPrice
		p.Ask = t.AskPrice
		p.Volume = t.Volume
		p.QuoteVolume = t.Amount
		p.Percentage = fractionToPercentage(t.ChangeRate)
		p.IndexPrice = t.IndexPrice
		p.MarkPrice = t.MarkPrice
		p.LastUpdated = t.Timestamp.Time()
	}
	p.Pair = currency.NewPairFromCodes(m.Base, m.Quote)
	p.AssetType = m.Asset
	return p, nil
}

// fractionToPercentage converts a venue-reported fractional rate to a
// percentage without a float round trip, so 0.0015 becomes exactly 0.15
func fractionToPercentage(rate types.Number) types.Number {
	if !rate.IsSet() {
		return ""
	}
	pct, err := precise.StringMul(rate.String(), "100")
	if err != nil {
		return ""
	}
	return types.Number(pct)
}

// FetchTrades returns recent public trades for one symbol
func (e *Exchange) FetchTrades(ctx context.Context, symbol string, limit int64) ([]trade.Data, error) {
	m, err := e.marketBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	var raws []json.RawMessage
	if m.Spot {
		raws, err = e.GetSpotRecentTrades(ctx, m.ID, limit)
	} else {
		raws, err = e.GetContractRecentTrades(ctx, contractEndpoint(m), m.ID, limit)
	}
	if err != nil {
		return nil, err
	}
	return e.parseTrades(raws, m)
}

// FetchMyTrades returns the account's fills for one symbol
func (e *Exchange) FetchMyTrades(ctx context.Context, symbol string, limit int64) ([]trade.Data, error) {
	m, err := e.marketBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	vals := url.Values{}
	vals.Set("symbol", m.ID)
	if limit > 0 {
		vals.Set("limit", strconv.FormatInt(limit, 10))
	}
	var raws []json.RawMessage
	if m.Spot {
		vals.Set("bizType", bizTypeFor(m))
		raws, err = e.GetSpotTrades(ctx, vals)
	} else {
		raws, err = e.GetContractTrades(ctx, contractEndpoint(m), vals)
	}
	if err != nil {
		return nil, err
	}
	return e.parseTrades(raws, m)
}

func (e *Exchange) parseTrades(raws []json.RawMessage, m *market.Market) ([]trade.Data, error) {
	out := make([]trade.Data, 0, len(raws))
	for _, raw := range raws {
		t, err := e.ParseTrade(raw, m)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, nil
}

// ParseTrade normalizes a raw venue trade, public or account-side. With no
// market context the class is detected from payload keys: the buyer-maker
// flag, business type and stream order id only appear on spot shapes.
// Contract quantities arrive in contracts and are converted to base units
// with the market's contract size.
func (e *Exchange) ParseTrade(raw json.RawMessage, m *market.Market) (*trade.Data, error) {
	isSpot := m != nil && m.Spot
	if m == nil {
		isSpot = hasKey(raw, "b") || hasKey(raw, "bizType") || hasKey(raw, "oi")
	}

	t := &trade.Data{Exchange: e.Name, Info: json.RawMessage(raw)}

	if isSpot && hasKey(raw, "b") {
		// public spot trade
		var pt spotPublicTrade
		if err := json.Unmarshal(raw, &pt); err != nil {
			return nil, err
		}
		if m == nil {
			return nil, errors.New("spot public trades carry no symbol, market context required")
		}
		t.ID = strconv.FormatInt(pt.ID, 10)
		t.Price = pt.Price
		t.Amount = pt.Quantity
		t.Cost = pt.Value
		t.Timestamp = pt.Timestamp.Time()
		t.TakerMaker = trade.Taker
		if pt.IsBuyerMaker {
			t.Side = order.Sell
		} else {
			t.Side = order.Buy
		}
	} else if !isSpot && hasKey(raw, "m") {
		// public contract trade
		var pt contractPublicTrade
		if err := json.Unmarshal(raw, &pt); err != nil {
			return nil, err
		}
		if m == nil {
			m = e.registry.SafeMarket(pt.Symbol, asset.PerpetualSwap)
		}
		t.Price = pt.Price
		t.Amount = contractsToBase(pt.Amount, m)
		t.Timestamp = pt.Timestamp.Time()
		if pt.Side == "BID" {
			t.Side = order.Buy
		} else {
			t.Side = order.Sell
		}
	} else {
		var mt myTrade
		if err := json.Unmarshal(raw, &mt); err != nil {
			return nil, err
		}
		if m == nil {
			hint := asset.Spot
			if !isSpot {
				hint = asset.PerpetualSwap
			}
			m = e.registry.SafeMarket(mt.Symbol, hint)
		}
		t.ID = firstNonEmpty(mt.TradeID, mt.ExecID)
		t.OrderID = mt.OrderID
		t.Price = mt.Price
		t.Side = order.ParseSide(mt.OrderSide)
		t.Fee = mt.Fee
		t.FeeCurrency = currency.NewCode(firstNonEmpty(mt.FeeCurrency, mt.FeeCoin))
		if tm := strings.ToLower(mt.TakerMaker); tm != "" {
			t.TakerMaker = trade.TakerMaker(tm)
		}
		if ts := mt.Time.Time(); !ts.IsZero() {
			t.Timestamp = ts
		} else {
			t.Timestamp = mt.Timestamp.Time()
		}
		if m.Contract {
			t.Amount = contractsToBase(mt.Quantity, m)
		} else {
			t.Amount = mt.Quantity
			t.Cost = mt.QuoteQty
		}
	}

	if !t.Cost.IsSet() && t.Price.IsSet() && t.Amount.IsSet() {
		if cost, err := precise.StringMul(t.Price.String(), t.Amount.String()); err == nil {
			t.Cost = types.Number(cost)
		}
	}
	t.Pair = currency.NewPairFromCodes(m.Base, m.Quote)
	t.AssetType = m.Asset
	return t, nil
}

// contractsToBase converts a contract count to base units via the market's
// contract size, leaving the count untouched when no size is known
func contractsToBase(contracts types.Number, m *market.Market) types.Number {
	if !contracts.IsSet() || !m.ContractSize.IsSet() {
		return contracts
	}
	amount, err := precise.StringMul(contracts.String(), m.ContractSize.String())
	if err != nil {
		return contracts
	}
	return types.Number(amount)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// bizTypeFor returns the venue business scope for a spot-side market
func bizTypeFor(m *market.Market) string {
	if m != nil && m.Margin {
		return "LEVER"
	}
	return "SPOT"
}

// FetchBalance returns account holdings for a market class. inverse selects
// the coin-margined account for contract classes.
func (e *Exchange) FetchBalance(ctx context.Context, a asset.Item, inverse bool) (*account.Holdings, error) {
	holdings := &account.Holdings{
		Exchange: e.Name,
		Balances: make(map[currency.Code]account.Balance),
	}
	if !a.IsContract() {
		resp, err := e.GetBalances(ctx)
		if err != nil {
			return nil, err
		}
		holdings.Info = resp
		for i := range resp.Assets {
			b := &resp.Assets[i]
			code := currency.NewCode(b.Currency)
			bal := account.Balance{
				Currency: code,
				Free:     b.AvailableAmount,
				Used:     b.FrozenAmount,
				Total:    b.TotalAmount,
			}
			bal.DeriveMissing()
			holdings.Balances[code] = bal
		}
		return holdings, nil
	}

	ep := exchange.RestUSDTMargined
	if inverse {
		ep = exchange.RestCoinMargined
	}
	balances, err := e.GetContractBalances(ctx, ep)
	if err != nil {
		return nil, err
	}
	holdings.Info = balances
	for i := range balances {
		b := &balances[i]
		code := currency.NewCode(b.Coin)
		used := b.OpenOrderMarginFrozen.String()
		// Margin in use spans resting-order freezes plus both margin modes
		for _, component := range []types.Number{b.CrossedMargin, b.IsolatedMargin} {
			sum, err := precise.StringAdd(used, component.String())
			if err == nil && sum != "" {
				used = sum
			}
		}
		bal := account.Balance{
			Currency: code,
			Free:     b.AvailableBalance,
			Used:     types.Number(used),
			Total:    b.WalletBalance,
		}
		bal.DeriveMissing()
		holdings.Balances[code] = bal
	}
	return holdings, nil
}

// SubmitOrder places an order and returns the canonical detail with the
// venue-assigned id. Order state afterwards is whatever the venue reports;
// nothing is simulated locally.
func (e *Exchange) SubmitOrder(ctx context.Context, s *order.Submit) (*order.Detail, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	m, err := e.marketBySymbol(ctx, s.Pair.String()+settleSuffix(s))
	if err != nil {
		m, err = e.marketBySymbol(ctx, s.Pair.String())
		if err != nil {
			// Venue-native ids resolve too, e.g. "btc_usdt"
			m, err = e.registry.ByID(s.Pair.Format("_", false), s.AssetType)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", exchange.ErrSymbolNotFound, s.Pair.String())
			}
		}
	}

	var id string
	if m.Contract {
		id, err = e.submitContractOrder(ctx, s, m)
	} else {
		id, err = e.submitSpotOrder(ctx, s, m)
	}
	if err != nil {
		return nil, err
	}

	// Only the id comes back from the venue; state is left for FetchOrder
	// to observe rather than assumed here
	return &order.Detail{
		Exchange:      e.Name,
		ID:            id,
		ClientOrderID: s.ClientOrderID,
		Pair:          s.Pair,
		AssetType:     m.Asset,
		Side:          s.Side,
		Type:          s.Type,
		Price:         types.Number(s.Price),
		Amount:        types.Number(s.Amount),
		Date:          time.Now(),
	}, nil
}

func settleSuffix(s *order.Submit) string {
	if s.AssetType.IsContract() {
		return ":" + s.Pair.Quote.String()
	}
	return ""
}

func (e *Exchange) submitSpotOrder(ctx context.Context, s *order.Submit, m *market.Market) (string, error) {
	body := map[string]any{
		"symbol":  m.ID,
		"side":    strings.ToUpper(string(s.Side)),
		"type":    strings.ToUpper(string(s.Type)),
		"bizType": bizTypeForSubmit(s),
	}

	tif := s.TimeInForce
	if tif == "" {
		if s.Type == order.Market {
			tif = order.FillOrKill
		} else {
			tif = order.GoodTillCancel
		}
	}
	body["timeInForce"] = string(tif)

	if s.Type == order.Limit {
		body["price"] = s.Price
		body["quantity"] = s.Amount
	} else if s.Side == order.Buy {
		// Market buys are denominated in quote units. Derive the cost from
		// price when only a base amount was supplied.
		quoteQty := s.QuoteAmount
		if quoteQty == "" {
			if s.Price == "" {
				return "", fmt.Errorf("%w: market buy requires a quote amount or a price to derive it", order.ErrAmountIsInvalid)
			}
			var err error
			quoteQty, err = precise.StringMul(s.Amount, s.Price)
			if err != nil {
				return "", err
			}
		}
		if m.Precision.Price.IsSet() {
			rounded, err := precise.RoundToIncrement(quoteQty, m.Precision.Price.String(), precise.Truncate)
			if err == nil {
				quoteQty = rounded
			}
		}
		body["quoteQty"] = quoteQty
	} else {
		body["quantity"] = s.Amount
	}

	if s.ClientOrderID != "" {
		body["clientOrderId"] = s.ClientOrderID
	}
	return e.CreateSpotOrder(ctx, body)
}

func bizTypeForSubmit(s *order.Submit) string {
	if s.Margin {
		return "LEVER"
	}
	return "SPOT"
}

func (e *Exchange) submitContractOrder(ctx context.Context, s *order.Submit, m *market.Market) (string, error) {
	ep := contractEndpoint(m)

	positionSide := "LONG"
	if s.Side == order.Sell {
		positionSide = "SHORT"
	}
	if s.ReduceOnly {
		// Reducing closes the opposite side
		if positionSide == "LONG" {
			positionSide = "SHORT"
		} else {
			positionSide = "LONG"
		}
	}

	if s.StopLoss != "" || s.TakeProfit != "" {
		body := map[string]any{
			"symbol":       m.ID,
			"positionSide": positionSide,
			"origQty":      s.Amount,
		}
		if s.StopLoss != "" {
			body["triggerStopPrice"] = s.StopLoss
		}
		if s.TakeProfit != "" {
			body["triggerProfitPrice"] = s.TakeProfit
		}
		return e.CreateEntrustProfit(ctx, ep, body)
	}

	tif := s.TimeInForce
	if tif == "" {
		if s.Type == order.Market {
			tif = order.FillOrKill
		} else {
			tif = order.GoodTillCancel
		}
	}

	if s.TriggerPrice != "" {
		entrustType := "STOP"
		if s.Type == order.Market {
			entrustType = "STOP_MARKET"
		}
		body := map[string]any{
			"symbol":           m.ID,
			"orderSide":        strings.ToUpper(string(s.Side)),
			"entrustType":      entrustType,
			"positionSide":     positionSide,
			"timeInForce":      string(tif),
			"origQty":          s.Amount,
			"stopPrice":        s.TriggerPrice,
			"triggerPriceType": "LATEST_PRICE",
		}
		if s.Type == order.Limit {
			body["price"] = s.Price
		}
		return e.CreateEntrustPlan(ctx, ep, body)
	}

	body := map[string]any{
		"symbol":       m.ID,
		"orderSide":    strings.ToUpper(string(s.Side)),
		"orderType":    strings.ToUpper(string(s.Type)),
		"positionSide": positionSide,
		"timeInForce":  string(tif),
		"origQty":      s.Amount,
	}
	if s.Type == order.Limit {
		body["price"] = s.Price
	}
	if s.ClientOrderID != "" {
		body["clientOrderId"] = s.ClientOrderID
	}
	return e.CreateContractOrder(ctx, ep, body)
}

// CancelOrder cancels one order on the market serving symbol
func (e *Exchange) CancelOrder(ctx context.Context, symbol, orderID string) error {
	m, err := e.marketBySymbol(ctx, symbol)
	if err != nil {
		return err
	}
	if m.Contract {
		_, err = e.CancelContractOrder(ctx, contractEndpoint(m), orderID)
		return err
	}
	_, err = e.CancelSpotOrder(ctx, orderID)
	return err
}

// CancelAllOrders cancels every resting order for a symbol, or for a whole
// market class when symbol is empty
func (e *Exchange) CancelAllOrders(ctx context.Context, symbol string, a asset.Item) error {
	if symbol != "" {
		m, err := e.marketBySymbol(ctx, symbol)
		if err != nil {
			return err
		}
		if m.Contract {
			return e.CancelAllContractOrders(ctx, contractEndpoint(m), m.ID)
		}
		return e.CancelAllSpotOrders(ctx, m.ID, bizTypeFor(m))
	}
	if a.IsContract() {
		// Orders rest on both contract hosts; skipping one would leave live
		// orders behind a successful return
		return errors.Join(
			e.CancelAllContractOrders(ctx, exchange.RestUSDTMargined, ""),
			e.CancelAllContractOrders(ctx, exchange.RestCoinMargined, ""),
		)
	}
	return e.CancelAllSpotOrders(ctx, "", "SPOT")
}

// FetchOrder returns the canonical detail of one order
func (e *Exchange) FetchOrder(ctx context.Context, symbol, orderID string) (*order.Detail, error) {
	m, err := e.marketBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if m.Contract {
		raw, err = e.GetContractOrder(ctx, contractEndpoint(m), orderID)
	} else {
		raw, err = e.GetSpotOrder(ctx, orderID)
	}
	if err != nil {
		return nil, err
	}
	return e.ParseOrder(raw, m)
}

// FetchOpenOrders returns resting orders. For spot markets this is a single
// request to the open-orders endpoint; no state filtering happens
// client-side.
func (e *Exchange) FetchOpenOrders(ctx context.Context, symbol string, a asset.Item) ([]order.Detail, error) {
	return e.FetchOrdersByStatus(ctx, order.Open, symbol, a)
}

// FetchClosedOrders returns filled orders
func (e *Exchange) FetchClosedOrders(ctx context.Context, symbol string, a asset.Item) ([]order.Detail, error) {
	return e.FetchOrdersByStatus(ctx, order.Closed, symbol, a)
}

// FetchCanceledOrders returns canceled orders
func (e *Exchange) FetchCanceledOrders(ctx context.Context, symbol string, a asset.Item) ([]order.Detail, error) {
	return e.FetchOrdersByStatus(ctx, order.Canceled, symbol, a)
}

// FetchOrdersByStatus returns orders in one canonical state. Open spot
// orders come from the dedicated open-orders endpoint in one request;
// everything else maps the status onto the venue's history state filter.
func (e *Exchange) FetchOrdersByStatus(ctx context.Context, status order.Status, symbol string, a asset.Item) ([]order.Detail, error) {
	if err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}

	var m *market.Market
	if symbol != "" {
		var err error
		m, err = e.marketBySymbol(ctx, symbol)
		if err != nil {
			return nil, err
		}
	}

	var (
		raws []json.RawMessage
		err  error
	)
	contract := a.IsContract() || (m != nil && m.Contract)
	if !contract {
		if status == order.Open {
			id := ""
			if m != nil {
				id = m.ID
			}
			raws, err = e.GetSpotOpenOrders(ctx, id, bizTypeFor(m))
		} else {
			vals := url.Values{}
			vals.Set("bizType", bizTypeFor(m))
			vals.Set("state", spotHistoryState(status))
			if m != nil {
				vals.Set("symbol", m.ID)
			}
			raws, err = e.GetSpotOrderHistory(ctx, vals)
		}
	} else {
		ep := exchange.RestUSDTMargined
		if m != nil {
			ep = contractEndpoint(m)
		}
		vals := url.Values{}
		vals.Set("state", spotHistoryState(status))
		if m != nil {
			vals.Set("symbol", m.ID)
		}
		raws, err = e.GetContractOrders(ctx, ep, vals)
	}
	if err != nil {
		return nil, err
	}

	out := make([]order.Detail, 0, len(raws))
	for _, raw := range raws {
		d, err := e.ParseOrder(raw, m)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

// spotHistoryState maps a canonical status onto the venue state filter
func spotHistoryState(status order.Status) string {
	switch status {
	case order.Closed:
		return "FILLED"
	case order.Canceled:
		return "CANCELED"
	default:
		return "NEW"
	}
}

// FetchTriggerOrders returns trigger (plan) orders for a contract market
func (e *Exchange) FetchTriggerOrders(ctx context.Context, symbol string, status order.Status) ([]order.Detail, error) {
	m, err := e.marketBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	vals := url.Values{}
	vals.Set("symbol", m.ID)
	vals.Set("state", triggerState(status))
	raws, err := e.GetEntrustPlans(ctx, contractEndpoint(m), vals)
	if err != nil {
		return nil, err
	}
	out := make([]order.Detail, 0, len(raws))
	for _, raw := range raws {
		d, err := e.ParseOrder(raw, m)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

func triggerState(status order.Status) string {
	switch status {
	case order.Closed:
		return "TRIGGERED"
	case order.Canceled:
		return "USER_REVOCATION"
	default:
		return "NOT_TRIGGERED"
	}
}

// ParseOrder normalizes a raw venue order: plain spot or contract orders,
// trigger plans and stop-profit entrusts. With no market context the class
// is detected from payload keys; only contract shapes carry a position
// side or entrust ids.
func (e *Exchange) ParseOrder(raw json.RawMessage, m *market.Market) (*order.Detail, error) {
	switch {
	case hasKey(raw, "entrustId"):
		return e.parseEntrustPlan(raw, m)
	case hasKey(raw, "profitId"):
		return e.parseEntrustProfit(raw, m)
	}

	contract := m != nil && m.Contract
	if m == nil {
		contract = hasKey(raw, "positionSide")
	}
	if contract {
		return e.parseContractOrder(raw, m)
	}
	return e.parseSpotOrder(raw, m)
}

func (e *Exchange) parseSpotOrder(raw json.RawMessage, m *market.Market) (*order.Detail, error) {
	var o spotOrder
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, err
	}
	if m == nil {
		m = e.registry.SafeMarket(o.Symbol, asset.Spot)
	}
	d := &order.Detail{
		Exchange:      e.Name,
		ID:            o.OrderID,
		ClientOrderID: o.ClientOrderID,
		Pair:          currency.NewPairFromCodes(m.Base, m.Quote),
		AssetType:     m.Asset,
		Side:          order.ParseSide(o.Side),
		Type:          order.Type(strings.ToLower(o.Type)),
		TimeInForce:   order.TimeInForce(o.TimeInForce),
		Status:        e.parseOrderStatus(o.State),
		Price:         o.Price,
		Average:       o.AvgPrice,
		Amount:        o.OrigQty,
		Filled:        o.ExecutedQty,
		Remaining:     o.LeavingQty,
		Fee:           o.Fee,
		FeeCurrency:   currency.NewCode(o.FeeCurrency),
		Date:          o.Time.Time(),
		LastUpdated:   o.UpdatedTime.Time(),
		Info:          json.RawMessage(raw),
	}
	// The venue omits cost on spot orders; derive it from the fill
	if d.Filled.IsSet() && d.Average.IsSet() {
		if cost, err := precise.StringMul(d.Filled.String(), d.Average.String()); err == nil {
			d.Cost = types.Number(cost)
		}
	}
	return d, nil
}

func (e *Exchange) parseContractOrder(raw json.RawMessage, m *market.Market) (*order.Detail, error) {
	var o contractOrder
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, err
	}
	if m == nil {
		m = e.registry.SafeMarket(o.Symbol, asset.PerpetualSwap)
	}
	return &order.Detail{
		Exchange:      e.Name,
		ID:            o.OrderID,
		ClientOrderID: o.ClientOrderID,
		Pair:          currency.NewPairFromCodes(m.Base, m.Quote),
		AssetType:     m.Asset,
		Side:          order.ParseSide(o.OrderSide),
		Type:          order.Type(strings.ToLower(o.OrderType)),
		TimeInForce:   order.TimeInForce(o.TimeInForce),
		Status:        e.parseOrderStatus(o.State),
		Price:         o.Price,
		Average:       o.AvgPrice,
		Amount:        contractsToBase(o.OrigQty, m),
		Filled:        contractsToBase(o.ExecutedQty, m),
		ReduceOnly:    o.ClosePosition,
		Date:          o.CreatedTime.Time(),
		LastUpdated:   o.UpdatedTime.Time(),
		Info:          json.RawMessage(raw),
	}, nil
}

func (e *Exchange) parseEntrustPlan(raw json.RawMessage, m *market.Market) (*order.Detail, error) {
	var o entrustPlan
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, err
	}
	if m == nil {
		m = e.registry.SafeMarket(o.Symbol, asset.PerpetualSwap)
	}
	typ := order.Limit
	if strings.EqualFold(o.EntrustType, "STOP_MARKET") {
		typ = order.Market
	}
	return &order.Detail{
		Exchange:     e.Name,
		ID:           o.EntrustID,
		Pair:         currency.NewPairFromCodes(m.Base, m.Quote),
		AssetType:    m.Asset,
		Side:         order.ParseSide(o.OrderSide),
		Type:         typ,
		TimeInForce:  order.TimeInForce(o.TimeInForce),
		Status:       e.parseOrderStatus(o.State),
		Price:        o.Price,
		TriggerPrice: o.StopPrice,
		Amount:       contractsToBase(o.OrigQty, m),
		Date:         o.CreatedTime.Time(),
		Info:         json.RawMessage(raw),
	}, nil
}

func (e *Exchange) parseEntrustProfit(raw json.RawMessage, m *market.Market) (*order.Detail, error) {
	var o entrustProfit
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, err
	}
	if m == nil {
		m = e.registry.SafeMarket(o.Symbol, asset.PerpetualSwap)
	}
	trigger := o.TriggerStopPrice
	if !trigger.IsSet() {
		trigger = o.TriggerProfitPrice
	}
	return &order.Detail{
		Exchange:     e.Name,
		ID:           o.ProfitID,
		Pair:         currency.NewPairFromCodes(m.Base, m.Quote),
		AssetType:    m.Asset,
		Status:       e.parseOrderStatus(o.State),
		TriggerPrice: trigger,
		Amount:       contractsToBase(o.OrigQty, m),
		Date:         o.CreatedTime.Time(),
		Info:         json.RawMessage(raw),
	}, nil
}

// parseOrderStatus maps a venue state onto the canonical set. Unknown
// states pass through untouched and are logged so new venue states surface
// in operation rather than vanishing.
func (e *Exchange) parseOrderStatus(state string) order.Status {
	if state == "" {
		return ""
	}
	if mapped, ok := orderStatuses[state]; ok {
		return order.Status(mapped)
	}
	e.log.WithField("state", state).Warn("unmapped order state")
	return order.Status(state)
}

// FetchPositions returns open derivative positions. inverse selects the
// coin-margined account.
func (e *Exchange) FetchPositions(ctx context.Context, inverse bool, symbol string) ([]futures.Position, error) {
	if err := e.LoadMarkets(ctx, false); err != nil {
		return nil, err
	}
	ep := exchange.RestUSDTMargined
	hint := asset.PerpetualSwap
	id := ""
	if symbol != "" {
		m, err := e.marketBySymbol(ctx, symbol)
		if err != nil {
			return nil, err
		}
		ep = contractEndpoint(m)
		id = m.ID
	} else if inverse {
		ep = exchange.RestCoinMargined
	}
	raw, err := e.GetContractPositions(ctx, ep, id)
	if err != nil {
		return nil, err
	}
	out := make([]futures.Position, 0, len(raw))
	for i := range raw {
		out = append(out, *e.parsePosition(&raw[i], hint))
	}
	return out, nil
}

func (e *Exchange) parsePosition(p *ContractPosition, hint asset.Item) *futures.Position {
	m := e.registry.SafeMarket(p.Symbol, hint)
	mode := futures.Isolated
	if strings.EqualFold(p.PositionType, "CROSSED") {
		mode = futures.Cross
	}
	return &futures.Position{
		Exchange:     e.Name,
		Pair:         currency.NewPairFromCodes(m.Base, m.Quote),
		AssetType:    m.Asset,
		Side:         strings.ToLower(p.PositionSide),
		Contracts:    p.PositionSize,
		ContractSize: m.ContractSize,
		EntryPrice:   p.EntryPrice,
		Leverage:     p.Leverage,
		Collateral:   p.IsolatedMargin,
		RealisedPnL:  p.RealizedProfit,
		MarginMode:   mode,
		Info:         p,
	}
}

// FetchFundingRate returns the current funding state of a perpetual market
func (e *Exchange) FetchFundingRate(ctx context.Context, symbol string) (*futures.FundingRate, error) {
	m, err := e.marketBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if !m.Swap {
		return nil, fmt.Errorf("%w: funding applies to perpetual markets only", asset.ErrNotSupported)
	}
	raw, err := e.GetContractFundingRate(ctx, contractEndpoint(m), m.ID)
	if err != nil {
		return nil, err
	}
	fr := &futures.FundingRate{
		Exchange:        e.Name,
		Pair:            currency.NewPairFromCodes(m.Base, m.Quote),
		Rate:            raw.FundingRate,
		NextFundingTime: raw.NextCollectionTime.Time(),
		Info:            raw,
	}
	if raw.CollectionInternal > 0 {
		fr.Interval = strconv.FormatInt(raw.CollectionInternal, 10) + "h"
	}
	return fr, nil
}

// FetchFundingRateHistory returns historical funding observations
func (e *Exchange) FetchFundingRateHistory(ctx context.Context, symbol string, limit int64) ([]futures.FundingRateHistory, error) {
	m, err := e.marketBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	records, err := e.GetContractFundingRateHistory(ctx, contractEndpoint(m), m.ID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]futures.FundingRateHistory, 0, len(records))
	for _, r := range records {
		out = append(out, futures.FundingRateHistory{
			Pair:      currency.NewPairFromCodes(m.Base, m.Quote),
			Rate:      r.FundingRate,
			Timestamp: r.CreatedTime.Time(),
		})
	}
	return out, nil
}

// FetchFundingHistory returns the account's funding payments
func (e *Exchange) FetchFundingHistory(ctx context.Context, symbol string) ([]futures.FundingPayment, error) {
	m, err := e.marketBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	vals := url.Values{}
	vals.Set("symbol", m.ID)
	records, err := e.GetFundingPayments(ctx, contractEndpoint(m), vals)
	if err != nil {
		return nil, err
	}
	out := make([]futures.FundingPayment, 0, len(records))
	for i := range records {
		r := &records[i]
		out = append(out, futures.FundingPayment{
			ID:        strconv.FormatInt(r.ID, 10),
			Pair:      currency.NewPairFromCodes(m.Base, m.Quote),
			Amount:    r.Cast,
			Currency:  currency.NewCode(r.Coin),
			Timestamp: r.CreatedTime.Time(),
			Info:      r,
		})
	}
	return out, nil
}

// FetchLeverageTiers returns the risk ladder of a contract market. Each
// tier's floor is the previous tier's notional cap.
func (e *Exchange) FetchLeverageTiers(ctx context.Context, symbol string) ([]futures.LeverageTier, error) {
	m, err := e.marketBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	groups, err := e.GetLeverageBrackets(ctx, contractEndpoint(m), m.ID)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		if groups[i].Symbol != m.ID {
			continue
		}
		return e.parseLeverageTiers(&groups[i], m), nil
	}
	return nil, fmt.Errorf("%s no leverage brackets for %q", e.Name, symbol)
}

func (e *Exchange) parseLeverageTiers(group *LeverageBracketGroup, m *market.Market) []futures.LeverageTier {
	tiers := make([]futures.LeverageTier, 0, len(group.LeverageBrackets))
	floor := types.Number("0")
	for i := range group.LeverageBrackets {
		b := &group.LeverageBrackets[i]
		tiers = append(tiers, futures.LeverageTier{
			Tier:                  b.Bracket,
			Currency:              m.Settle,
			MinNotional:           floor,
			MaxNotional:           b.MaxNominalValue,
			MaintenanceMarginRate: b.MaintMarginRate,
			MaxLeverage:           b.MaxLeverage,
			Info:                  b,
		})
		floor = b.MaxNominalValue
	}
	return tiers
}

// SetLeverage adjusts position leverage on both sides of a contract market
func (e *Exchange) SetLeverage(ctx context.Context, symbol string, leverage int64) error {
	m, err := e.marketBySymbol(ctx, symbol)
	if err != nil {
		return err
	}
	if !m.Contract {
		return fmt.Errorf("%w: leverage applies to contract markets only", asset.ErrNotSupported)
	}
	ep := contractEndpoint(m)
	for _, side := range []string{"LONG", "SHORT"} {
		if err := e.AdjustLeverage(ctx, ep, m.ID, side, leverage); err != nil {
			return err
		}
	}
	return nil
}

// FetchDeposits returns canonical deposit records
func (e *Exchange) FetchDeposits(ctx context.Context, code currency.Code) ([]account.Transaction, error) {
	vals := url.Values{}
	if !code.IsEmpty() {
		vals.Set("currency", strings.ToLower(code.String()))
	}
	records, err := e.GetDepositHistory(ctx, vals)
	if err != nil {
		return nil, err
	}
	return e.parseTransactions(records), nil
}

// FetchWithdrawals returns canonical withdrawal records
func (e *Exchange) FetchWithdrawals(ctx context.Context, code currency.Code) ([]account.Transaction, error) {
	vals := url.Values{}
	if !code.IsEmpty() {
		vals.Set("currency", strings.ToLower(code.String()))
	}
	records, err := e.GetWithdrawalHistory(ctx, vals)
	if err != nil {
		return nil, err
	}
	return e.parseTransactions(records), nil
}

func (e *Exchange) parseTransactions(records []transactionRecord) []account.Transaction {
	out := make([]account.Transaction, 0, len(records))
	for i := range records {
		out = append(out, *e.parseTransaction(&records[i]))
	}
	return out
}

// parseTransaction normalizes a transfer row. Only deposits report the
// originating address, which discriminates the two shapes.
func (e *Exchange) parseTransaction(r *transactionRecord) *account.Transaction {
	direction := account.Withdraw
	if r.FromAddr != "" {
		direction = account.Deposit
	}
	return &account.Transaction{
		ID:            strconv.FormatInt(r.ID, 10),
		TxID:          r.TransactionID,
		Type:          direction,
		Currency:      currency.NewCode(r.Currency),
		Network:       r.Chain,
		Amount:        r.Amount,
		Fee:           r.Fee,
		Status:        e.parseTransactionStatus(r.Status),
		Address:       r.Address,
		AddressFrom:   r.FromAddr,
		Tag:           r.Memo,
		Confirmations: r.Confirmations,
		Timestamp:     r.CreatedTime.Time(),
		Info:          r,
	}
}

func (e *Exchange) parseTransactionStatus(status string) account.TransferStatus {
	if mapped, ok := transactionStatuses[status]; ok {
		return account.TransferStatus(mapped)
	}
	if status != "" {
		e.log.WithField("status", status).Warn("unmapped transaction status")
	}
	return account.TransferStatus(status)
}

// Withdraw requests an on-chain withdrawal and returns the venue record id
func (e *Exchange) Withdraw(ctx context.Context, code currency.Code, chain, address, tag, amount string) (string, error) {
	body := map[string]any{
		"currency": strings.ToLower(code.String()),
		"chain":    chain,
		"address":  address,
		"amount":   amount,
	}
	if tag != "" {
		body["memo"] = tag
	}
	return e.SubmitWithdrawal(ctx, body)
}

// FetchDepositAddress returns the funding address for a currency network
func (e *Exchange) FetchDepositAddress(ctx context.Context, code currency.Code, chain string) (*account.DepositAddress, error) {
	raw, err := e.GetDepositAddress(ctx, strings.ToLower(code.String()), chain)
	if err != nil {
		return nil, err
	}
	return &account.DepositAddress{
		Currency: code,
		Network:  chain,
		Address:  raw.Address,
		Tag:      raw.Memo,
	}, nil
}

// transferScopes are the account scopes balance can move between
var transferScopes = []string{"SPOT", "LEVER", "FINANCE", "FUTURES_U", "FUTURES_C"}

// Transfer moves balance between account scopes. A fresh uuid keys the
// transfer so venue-side retries stay idempotent.
func (e *Exchange) Transfer(ctx context.Context, code currency.Code, amount, from, to string) (*account.TransferResponse, error) {
	for _, scope := range []string{from, to} {
		if !common.StringSliceContains(transferScopes, scope) {
			return nil, fmt.Errorf("%w: unknown transfer scope %q", exchange.ErrBadRequest, scope)
		}
	}
	bizID, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	body := map[string]any{
		"bizId":    bizID.String(),
		"currency": strings.ToLower(code.String()),
		"amount":   amount,
		"from":     from,
		"to":       to,
	}
	id, err := e.BalanceTransfer(ctx, body)
	if err != nil {
		return nil, err
	}
	return &account.TransferResponse{
		ID:        id,
		Currency:  code,
		Amount:    types.Number(amount),
		From:      from,
		To:        to,
		Timestamp: time.Now(),
	}, nil
}

// FetchLedger returns derivative account activity. inverse selects the
// coin-margined account.
func (e *Exchange) FetchLedger(ctx context.Context, inverse bool, code currency.Code) ([]account.LedgerEntry, error) {
	ep := exchange.RestUSDTMargined
	if inverse {
		ep = exchange.RestCoinMargined
	}
	vals := url.Values{}
	if !code.IsEmpty() {
		vals.Set("coin", strings.ToLower(code.String()))
	}
	records, err := e.GetBalanceBills(ctx, ep, vals)
	if err != nil {
		return nil, err
	}
	out := make([]account.LedgerEntry, 0, len(records))
	for i := range records {
		out = append(out, *e.parseLedgerEntry(&records[i]))
	}
	return out, nil
}

func (e *Exchange) parseLedgerEntry(r *billRecord) *account.LedgerEntry {
	entryType := r.Type
	if mapped, ok := ledgerTypes[r.Type]; ok {
		entryType = mapped
	}
	return &account.LedgerEntry{
		ID:        r.ID,
		Currency:  currency.NewCode(r.Coin),
		Amount:    r.Amount,
		Balance:   r.AfterAmount,
		Type:      entryType,
		Direction: strings.ToLower(r.Side),
		Timestamp: r.CreatedTime.Time(),
		Info:      r,
	}
}
