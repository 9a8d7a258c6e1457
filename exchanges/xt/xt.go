// Package xt implements the XT venue: request signing, typed endpoint
// methods and normalization onto the canonical entities.
package xt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tidemark-labs/goxchange/common"
	"github.com/tidemark-labs/goxchange/common/crypto"
	exchange "github.com/tidemark-labs/goxchange/exchanges"
	"github.com/tidemark-labs/goxchange/exchanges/account"
	"github.com/tidemark-labs/goxchange/exchanges/market"
	"github.com/tidemark-labs/goxchange/exchanges/nonce"
	"github.com/tidemark-labs/goxchange/exchanges/request"
)

// Exchange implements the XT venue
type Exchange struct {
	exchange.Base

	registry *market.Registry

	// timestampSrc issues the millisecond timestamps signed into requests;
	// it never repeats a value across concurrent signers
	timestampSrc nonce.Nonce

	// timeDelta is the local clock minus the venue clock in milliseconds,
	// accessed atomically
	timeDelta int64

	recvWindow              string
	adjustForTimeDifference bool

	log *logrus.Entry
}

// nonce returns a fresh millisecond timestamp adjusted by the measured venue
// clock delta
func (e *Exchange) nonce() int64 {
	return e.timestampSrc.GetInc().Int64() - atomic.LoadInt64(&e.timeDelta)
}

const (
	apiVersion = "v4"

	spotAPIURL    = "https://sapi.xt.com"
	linearAPIURL  = "https://fapi.xt.com"
	inverseAPIURL = "https://dapi.xt.com"
	userAPIURL    = "https://api.xt.com"

	defaultRecvWindow = "5000"

	// brokerID tags order flow for venue-side attribution. The bytes must
	// stay stable; the venue matches them verbatim.
	brokerID = "goxchange"
)

// Order-creation payload paths that carry the attribution tag
const (
	spotOrderPath          = "order"
	contractOrderPath      = "future/trade/v1/order/create"
	contractPlanPath       = "future/trade/v1/entrust/create-plan"
	contractProfitPath     = "future/trade/v1/entrust/create-profit"
	contractBatchOrderPath = "future/trade/v1/order/create-batch"
)

// SendHTTPRequest sends a request to one of the venue's REST roots,
// signing it when authenticated. Spot and user hosts prefix the version
// ("/v4", public calls "/v4/public"); contract hosts take the path as-is.
// For bodyless requests the query is percent-encoded onto the URL, while
// the spot signature covers the raw key-sorted form. The response envelope
// is checked regardless of HTTP status and classified failures are returned
// as *exchange.Error values.
func (e *Exchange) SendHTTPRequest(ctx context.Context, ep exchange.URL, epl request.EndpointLimit, method, path string, query url.Values, body map[string]any, authenticated bool, result any) error {
	root, err := e.API.Endpoints.GetURL(ep)
	if err != nil {
		return err
	}

	spotStyle := ep == exchange.RestSpot || ep == exchange.RestUser

	var payloadPath string
	switch {
	case !spotStyle:
		payloadPath = "/" + path
	case authenticated:
		payloadPath = "/" + apiVersion + "/" + path
	default:
		payloadPath = "/" + apiVersion + "/public/" + path
	}

	var creds *account.Credentials
	if authenticated {
		creds, err = e.GetCredentials(ctx)
		if err != nil {
			return err
		}
	}

	resp := response{}
	item := func() (*request.Item, error) {
		headers := map[string]string{"Content-Type": "application/json"}
		endpoint := root + payloadPath

		var bodyBytes []byte
		if body != nil {
			toMarshal := body
			if tagged := orderMediaField(payloadPath); tagged != "" {
				// Decorate a copy; the caller keeps ownership of its map
				toMarshal = make(map[string]any, len(body)+1)
				for k, v := range body {
					toMarshal[k] = v
				}
				toMarshal[tagged] = brokerID
			}
			var err error
			bodyBytes, err = json.Marshal(toMarshal)
			if err != nil {
				return nil, err
			}
		}

		encoded := ""
		if len(query) > 0 {
			encoded = query.Encode()
		}

		if authenticated {
			timestamp := strconv.FormatInt(e.nonce(), 10)
			var payload strings.Builder
			if spotStyle {
				payload.WriteString("xt-validate-algorithms=HmacSHA256&xt-validate-appkey=" + creds.Key +
					"&xt-validate-recvwindow=" + e.recvWindow + "&xt-validate-timestamp=" + timestamp)
				if body == nil {
					payload.WriteString("#" + method + "#" + payloadPath)
					if encoded != "" {
						endpoint = common.EncodeURLValues(endpoint, query)
						// The signature covers the raw key-sorted pairs, not
						// the percent-encoded query
						payload.WriteString("#" + common.SortedRawEncode(query))
					}
				} else {
					payload.WriteString("#" + method + "#" + payloadPath + "#" + string(bodyBytes))
				}
				headers["xt-validate-algorithms"] = "HmacSHA256"
				headers["xt-validate-recvwindow"] = e.recvWindow
			} else {
				// Contract signatures omit the HTTP method
				payload.WriteString("xt-validate-appkey=" + creds.Key + "&xt-validate-timestamp=" + timestamp)
				if body == nil {
					payload.WriteString("#" + payloadPath)
					if encoded != "" {
						endpoint = common.EncodeURLValues(endpoint, query)
						payload.WriteString("#" + encoded)
					}
				} else {
					payload.WriteString("#" + payloadPath + "#" + string(bodyBytes))
				}
			}

			hmac, err := crypto.GetHMAC(crypto.HashSHA256, []byte(payload.String()), []byte(creds.Secret))
			if err != nil {
				return nil, err
			}
			headers["xt-validate-appkey"] = creds.Key
			headers["xt-validate-timestamp"] = timestamp
			headers["xt-validate-signature"] = crypto.HexEncodeToString(hmac)
		} else if encoded != "" {
			endpoint = common.EncodeURLValues(endpoint, query)
		}

		it := &request.Item{
			Method:  method,
			Path:    endpoint,
			Headers: headers,
			Result:  &resp,
			Verbose: e.Verbose,
		}
		if bodyBytes != nil {
			it.Body = bytes.NewReader(bodyBytes)
		}
		return it, nil
	}

	if err := e.Requester.SendPayload(ctx, epl, item); err != nil {
		var httpErr *request.HTTPError
		if errors.As(err, &httpErr) {
			return e.classifyHTTPFailure(httpErr)
		}
		return classifyTransportFailure(err)
	}

	if err := e.envelopeError(&resp); err != nil {
		return err
	}
	if result != nil && len(resp.Result) > 0 && !bytes.Equal(resp.Result, []byte("null")) {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("%s unmarshal result: %w", e.Name, err)
		}
	}
	return nil
}

// orderMediaField returns the attribution field name for order-creation
// payloads, or empty for everything else. Contract endpoints use
// "clientMedia", the spot order endpoint "media".
func orderMediaField(payloadPath string) string {
	switch strings.TrimPrefix(payloadPath, "/"+apiVersion+"/") {
	case spotOrderPath:
		return "media"
	}
	switch strings.TrimPrefix(payloadPath, "/") {
	case contractOrderPath, contractPlanPath, contractProfitPath, contractBatchOrderPath:
		return "clientMedia"
	}
	return ""
}

// envelopeError inspects the response envelope and classifies a failure.
// Success means the upper-cased msgInfo (contract) or mc (spot) equals
// SUCCESS; anything else is a venue failure even on HTTP 200.
func (e *Exchange) envelopeError(resp *response) error {
	status := resp.MsgInfo
	if status == "" {
		status = resp.MC
	}
	if status == "" || strings.ToUpper(status) == "SUCCESS" {
		return nil
	}

	code := resp.MC
	message := resp.MsgInfo
	if resp.Error != nil {
		if resp.Error.Code != "" {
			code = resp.Error.Code
		}
		if resp.Error.Msg != "" {
			message = resp.Error.Msg
		}
	}
	raw, _ := json.Marshal(resp)
	return e.classifyError(code, message, raw)
}

// classifyError resolves a venue code/message pair onto the shared failure
// taxonomy: exact code match first, then broad message substring match,
// falling back to the generic exchange error.
func (e *Exchange) classifyError(code, message string, raw []byte) error {
	if kind, ok := errorCodes[code]; ok {
		return exchange.NewError(e.Name, code, message, raw, kind)
	}
	for fragment, kind := range broadMessages {
		if strings.Contains(message, fragment) {
			return exchange.NewError(e.Name, code, message, raw, kind)
		}
	}
	return exchange.NewError(e.Name, code, message, raw, exchange.ErrExchange)
}

// classifyHTTPFailure handles responses outside the 2xx range. The venue
// frequently returns its regular failure envelope with transport status
// codes, so the body is parsed before falling back to status
// classification.
func (e *Exchange) classifyHTTPFailure(httpErr *request.HTTPError) error {
	var resp response
	if err := json.Unmarshal(httpErr.Body, &resp); err == nil {
		if envErr := e.envelopeError(&resp); envErr != nil {
			return envErr
		}
	}
	return e.classifyError(strconv.Itoa(httpErr.Status), http.StatusText(httpErr.Status), httpErr.Body)
}

// classifyTransportFailure wraps failures that never produced a usable
// response. Timeouts get their own kind because the operation's outcome is
// unknown; other transport failures are network errors. Caller-initiated
// cancellation passes through untouched.
func classifyTransportFailure(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, os.ErrDeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %w", exchange.ErrRequestTimeout, err)
	case errors.Is(err, context.Canceled):
		return err
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.Is(err, request.ErrFailedToRetryRequest) {
		return fmt.Errorf("%w: %w", exchange.ErrNetwork, err)
	}
	return err
}

// errorCodes maps venue failure codes onto taxonomy kinds
var errorCodes = map[string]error{
	"400": exchange.ErrNetwork,
	"404": exchange.ErrExchange,
	"429": exchange.ErrRateLimit,
	"500": exchange.ErrExchange,
	"502": exchange.ErrExchange,
	"503": exchange.ErrOnMaintenance,

	"AUTH_001": exchange.ErrAuthentication,
	"AUTH_002": exchange.ErrAuthentication,
	"AUTH_003": exchange.ErrAuthentication,
	"AUTH_004": exchange.ErrAuthentication,
	"AUTH_005": exchange.ErrAuthentication,
	"AUTH_006": exchange.ErrAuthentication,
	"AUTH_007": exchange.ErrAuthentication,
	"AUTH_101": exchange.ErrAuthentication,
	"AUTH_102": exchange.ErrAuthentication,
	"AUTH_103": exchange.ErrAuthentication,
	"AUTH_104": exchange.ErrAuthentication,
	"AUTH_105": exchange.ErrAuthentication,
	"AUTH_106": exchange.ErrPermissionDenied,

	"SYMBOL_001": exchange.ErrBadSymbol,
	"SYMBOL_002": exchange.ErrBadSymbol,
	"SYMBOL_003": exchange.ErrBadSymbol,
	"SYMBOL_004": exchange.ErrBadSymbol,
	"SYMBOL_005": exchange.ErrBadSymbol,

	"ORDER_001":   exchange.ErrInvalidOrder,
	"ORDER_002":   exchange.ErrInsufficientFunds,
	"ORDER_003":   exchange.ErrInvalidOrder,
	"ORDER_004":   exchange.ErrInvalidOrder,
	"ORDER_005":   exchange.ErrInvalidOrder,
	"ORDER_006":   exchange.ErrInvalidOrder,
	"ORDER_007":   exchange.ErrPermissionDenied,
	"ORDER_F0101": exchange.ErrInvalidOrder,
	"ORDER_F0102": exchange.ErrInvalidOrder,
	"ORDER_F0103": exchange.ErrInvalidOrder,
	"ORDER_F0201": exchange.ErrInvalidOrder,
	"ORDER_F0202": exchange.ErrInvalidOrder,
	"ORDER_F0203": exchange.ErrInvalidOrder,
	"ORDER_F0301": exchange.ErrInvalidOrder,
	"ORDER_F0401": exchange.ErrInvalidOrder,
	"ORDER_F0501": exchange.ErrInvalidOrder,
	"ORDER_F0502": exchange.ErrInvalidOrder,
	"ORDER_F0601": exchange.ErrInvalidOrder,

	"COMMON_001": exchange.ErrExchange,
	"COMMON_002": exchange.ErrExchange,
	"COMMON_003": exchange.ErrBadRequest,

	"CURRENCY_001": exchange.ErrBadRequest,

	"DEPOSIT_001": exchange.ErrBadRequest,
	"DEPOSIT_002": exchange.ErrPermissionDenied,
	"DEPOSIT_003": exchange.ErrBadRequest,
	"DEPOSIT_004": exchange.ErrBadRequest,
	"DEPOSIT_005": exchange.ErrBadRequest,
	"DEPOSIT_006": exchange.ErrBadRequest,
	"DEPOSIT_007": exchange.ErrBadRequest,
	"DEPOSIT_008": exchange.ErrBadRequest,

	"WITHDRAW_001": exchange.ErrBadRequest,
	"WITHDRAW_002": exchange.ErrBadRequest,
	"WITHDRAW_003": exchange.ErrPermissionDenied,
	"WITHDRAW_004": exchange.ErrBadRequest,
	"WITHDRAW_005": exchange.ErrBadRequest,
	"WITHDRAW_006": exchange.ErrBadRequest,
	"WITHDRAW_008": exchange.ErrPermissionDenied,
	"WITHDRAW_009": exchange.ErrPermissionDenied,
	"WITHDRAW_010": exchange.ErrBadRequest,
	"WITHDRAW_011": exchange.ErrInsufficientFunds,
	"WITHDRAW_012": exchange.ErrPermissionDenied,
	"WITHDRAW_013": exchange.ErrPermissionDenied,
	"WITHDRAW_014": exchange.ErrBadRequest,
	"WITHDRAW_015": exchange.ErrBadRequest,
	"WITHDRAW_016": exchange.ErrBadRequest,
	"WITHDRAW_017": exchange.ErrBadRequest,
	"WITHDRAW_018": exchange.ErrBadRequest,
	"WITHDRAW_019": exchange.ErrBadRequest,
	"WITHDRAW_020": exchange.ErrPermissionDenied,
	"WITHDRAW_021": exchange.ErrPermissionDenied,
	"WITHDRAW_022": exchange.ErrBadRequest,
	"WITHDRAW_023": exchange.ErrBadRequest,
	"WITHDRAW_024": exchange.ErrBadRequest,
	"WITHDRAW_025": exchange.ErrBadRequest,

	"FUND_001": exchange.ErrBadRequest,
	"FUND_002": exchange.ErrInsufficientFunds,
	"FUND_003": exchange.ErrBadRequest,
	"FUND_004": exchange.ErrExchange,
	"FUND_005": exchange.ErrPermissionDenied,
	"FUND_014": exchange.ErrBadRequest,
	"FUND_015": exchange.ErrBadRequest,
	"FUND_016": exchange.ErrBadRequest,
	"FUND_017": exchange.ErrBadRequest,
	"FUND_018": exchange.ErrBadRequest,
	"FUND_019": exchange.ErrBadRequest,
	"FUND_020": exchange.ErrBadRequest,
	"FUND_021": exchange.ErrBadRequest,
	"FUND_022": exchange.ErrBadRequest,
	"FUND_044": exchange.ErrBadRequest,

	"TRANSFER_001": exchange.ErrBadRequest,
	"TRANSFER_002": exchange.ErrInsufficientFunds,
	"TRANSFER_003": exchange.ErrBadRequest,
	"TRANSFER_004": exchange.ErrPermissionDenied,
	"TRANSFER_005": exchange.ErrPermissionDenied,
	"TRANSFER_006": exchange.ErrPermissionDenied,
	"TRANSFER_007": exchange.ErrRequestTimeout,
	"TRANSFER_008": exchange.ErrBadRequest,
	"TRANSFER_009": exchange.ErrBadRequest,
	"TRANSFER_010": exchange.ErrPermissionDenied,
	"TRANSFER_011": exchange.ErrPermissionDenied,
	"TRANSFER_012": exchange.ErrPermissionDenied,

	"symbol_not_support_trading_via_api": exchange.ErrBadSymbol,
	"open_order_min_nominal_value_limit": exchange.ErrInvalidOrder,
}

// broadMessages maps message fragments onto taxonomy kinds for failures
// whose codes are not in the exact table
var broadMessages = map[string]error{
	"The symbol does not support trading via API":          exchange.ErrBadSymbol,
	"Exceeds the minimum notional value of a single order": exchange.ErrInvalidOrder,
}

// GetServerTime returns the venue clock
func (e *Exchange) GetServerTime(ctx context.Context) (time.Time, error) {
	var result ServerTime
	err := e.SendHTTPRequest(ctx, exchange.RestSpot, publicSpotEPL, http.MethodGet, "time", nil, nil, false, &result)
	return result.ServerTime.Time(), err
}

// GetSpotSymbols returns the spot listing universe
func (e *Exchange) GetSpotSymbols(ctx context.Context) (*SpotSymbolsData, error) {
	var result SpotSymbolsData
	err := e.SendHTTPRequest(ctx, exchange.RestSpot, publicSpotEPL, http.MethodGet, "symbol", nil, nil, false, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetCurrencies returns currency metadata
func (e *Exchange) GetCurrencies(ctx context.Context) (*CurrenciesData, error) {
	var result CurrenciesData
	err := e.SendHTTPRequest(ctx, exchange.RestSpot, publicSpotEPL, http.MethodGet, "currencies", nil, nil, false, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetSupportedCurrencyChains returns per-currency transfer networks
func (e *Exchange) GetSupportedCurrencyChains(ctx context.Context) ([]CurrencyChains, error) {
	var result []CurrencyChains
	err := e.SendHTTPRequest(ctx, exchange.RestSpot, publicSpotEPL, http.MethodGet, "wallet/support/currency", nil, nil, false, &result)
	return result, err
}

// GetSpotTickers returns raw 24h spot tickers, all symbols when symbol is
// empty
func (e *Exchange) GetSpotTickers(ctx context.Context, symbol string) ([]json.RawMessage, error) {
	vals := url.Values{}
	if symbol != "" {
		vals.Set("symbol", symbol)
	}
	var result []json.RawMessage
	err := e.SendHTTPRequest(ctx, exchange.RestSpot, publicSpotEPL, http.MethodGet, "ticker/24h", vals, nil, false, &result)
	return result, err
}

// GetSpotRecentTrades returns raw recent public spot trades
func (e *Exchange) GetSpotRecentTrades(ctx context.Context, symbol string, limit int64) ([]json.RawMessage, error) {
	vals := url.Values{}
	vals.Set("symbol", symbol)
	if limit > 0 {
		vals.Set("limit", strconv.FormatInt(limit, 10))
	}
	var result []json.RawMessage
	err := e.SendHTTPRequest(ctx, exchange.RestSpot, publicSpotEPL, http.MethodGet, "trade/recent", vals, nil, false, &result)
	return result, err
}

// GetContractSymbols returns the derivative listing universe for a contract
// host
func (e *Exchange) GetContractSymbols(ctx context.Context, ep exchange.URL) ([]ContractSymbol, error) {
	var result []ContractSymbol
	err := e.SendHTTPRequest(ctx, ep, publicContractEPL, http.MethodGet, "future/market/v1/public/symbol/list", nil, nil, false, &result)
	return result, err
}

// GetContractTickers returns raw aggregate derivative tickers, all symbols
// when symbol is empty
func (e *Exchange) GetContractTickers(ctx context.Context, ep exchange.URL, symbol string) ([]json.RawMessage, error) {
	if symbol != "" {
		vals := url.Values{}
		vals.Set("symbol", symbol)
		var single json.RawMessage
		err := e.SendHTTPRequest(ctx, ep, publicContractEPL, http.MethodGet, "future/market/v1/public/q/agg-ticker", vals, nil, false, &single)
		if err != nil {
			return nil, err
		}
		return []json.RawMessage{single}, nil
	}
	var result []json.RawMessage
	err := e.SendHTTPRequest(ctx, ep, publicContractEPL, http.MethodGet, "future/market/v1/public/q/agg-tickers", nil, nil, false, &result)
	return result, err
}

// GetContractRecentTrades returns raw recent public derivative trades
func (e *Exchange) GetContractRecentTrades(ctx context.Context, ep exchange.URL, symbol string, num int64) ([]json.RawMessage, error) {
	vals := url.Values{}
	vals.Set("symbol", symbol)
	if num > 0 {
		vals.Set("num", strconv.FormatInt(num, 10))
	}
	var result []json.RawMessage
	err := e.SendHTTPRequest(ctx, ep, publicContractEPL, http.MethodGet, "future/market/v1/public/q/deal", vals, nil, false, &result)
	return result, err
}

// GetContractFundingRate returns the current funding state of a symbol
func (e *Exchange) GetContractFundingRate(ctx context.Context, ep exchange.URL, symbol string) (*ContractFundingRate, error) {
	vals := url.Values{}
	vals.Set("symbol", symbol)
	var result ContractFundingRate
	err := e.SendHTTPRequest(ctx, ep, publicContractEPL, http.MethodGet, "future/market/v1/public/q/funding-rate", vals, nil, false, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetContractFundingRateHistory returns historical funding observations
func (e *Exchange) GetContractFundingRateHistory(ctx context.Context, ep exchange.URL, symbol string, limit int64) ([]FundingRateRecord, error) {
	vals := url.Values{}
	vals.Set("symbol", symbol)
	if limit > 0 {
		vals.Set("limit", strconv.FormatInt(limit, 10))
	}
	var pg page
	err := e.SendHTTPRequest(ctx, ep, publicContractEPL, http.MethodGet, "future/market/v1/public/q/funding-rate-record", vals, nil, false, &pg)
	if err != nil {
		return nil, err
	}
	var records []FundingRateRecord
	if len(pg.Items) > 0 {
		err = json.Unmarshal(pg.Items, &records)
	}
	return records, err
}

// GetLeverageBrackets returns the risk ladders, one group per symbol
func (e *Exchange) GetLeverageBrackets(ctx context.Context, ep exchange.URL, symbol string) ([]LeverageBracketGroup, error) {
	if symbol != "" {
		vals := url.Values{}
		vals.Set("symbol", symbol)
		var single LeverageBracketGroup
		err := e.SendHTTPRequest(ctx, ep, publicContractEPL, http.MethodGet, "future/market/v1/public/leverage/bracket/detail", vals, nil, false, &single)
		if err != nil {
			return nil, err
		}
		return []LeverageBracketGroup{single}, nil
	}
	var result []LeverageBracketGroup
	err := e.SendHTTPRequest(ctx, ep, publicContractEPL, http.MethodGet, "future/market/v1/public/leverage/bracket/list", nil, nil, false, &result)
	return result, err
}

// GetBalances returns spot account holdings
func (e *Exchange) GetBalances(ctx context.Context) (*SpotBalances, error) {
	var result SpotBalances
	err := e.SendHTTPRequest(ctx, exchange.RestSpot, privateSpotEPL, http.MethodGet, "balances", nil, nil, true, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateSpotOrder places a spot order. The payload carries the attribution
// tag under "media".
func (e *Exchange) CreateSpotOrder(ctx context.Context, body map[string]any) (string, error) {
	var result struct {
		OrderID string `json:"orderId"`
	}
	err := e.SendHTTPRequest(ctx, exchange.RestSpot, orderPlacementEPL, http.MethodPost, "order", nil, body, true, &result)
	return result.OrderID, err
}

// GetSpotOrder returns one raw spot order by id
func (e *Exchange) GetSpotOrder(ctx context.Context, orderID string) (json.RawMessage, error) {
	var result json.RawMessage
	err := e.SendHTTPRequest(ctx, exchange.RestSpot, privateSpotEPL, http.MethodGet, "order/"+orderID, nil, nil, true, &result)
	return result, err
}

// CancelSpotOrder cancels one spot order by id
func (e *Exchange) CancelSpotOrder(ctx context.Context, orderID string) (string, error) {
	var result struct {
		CancelID string `json:"cancelId"`
	}
	err := e.SendHTTPRequest(ctx, exchange.RestSpot, privateSpotEPL, http.MethodDelete, "order/"+orderID, nil, nil, true, &result)
	return result.CancelID, err
}

// CancelAllSpotOrders cancels all resting spot orders, optionally scoped to
// a symbol
func (e *Exchange) CancelAllSpotOrders(ctx context.Context, symbol, bizType string) error {
	body := map[string]any{"bizType": bizType}
	if symbol != "" {
		body["symbol"] = symbol
	}
	return e.SendHTTPRequest(ctx, exchange.RestSpot, privateSpotEPL, http.MethodDelete, "open-order", nil, body, true, nil)
}

// GetSpotOpenOrders returns raw resting spot orders
func (e *Exchange) GetSpotOpenOrders(ctx context.Context, symbol, bizType string) ([]json.RawMessage, error) {
	vals := url.Values{}
	vals.Set("bizType", bizType)
	if symbol != "" {
		vals.Set("symbol", symbol)
	}
	var result []json.RawMessage
	err := e.SendHTTPRequest(ctx, exchange.RestSpot, privateSpotEPL, http.MethodGet, "open-order", vals, nil, true, &result)
	return result, err
}

// GetSpotOrderHistory returns raw historical spot orders filtered by state
func (e *Exchange) GetSpotOrderHistory(ctx context.Context, vals url.Values) ([]json.RawMessage, error) {
	var raw json.RawMessage
	err := e.SendHTTPRequest(ctx, exchange.RestSpot, privateSpotEPL, http.MethodGet, "history-order", vals, nil, true, &raw)
	if err != nil {
		return nil, err
	}
	return decodeList(raw)
}

// GetSpotTrades returns the account's raw spot fills
func (e *Exchange) GetSpotTrades(ctx context.Context, vals url.Values) ([]json.RawMessage, error) {
	var raw json.RawMessage
	err := e.SendHTTPRequest(ctx, exchange.RestSpot, privateSpotEPL, http.MethodGet, "trade", vals, nil, true, &raw)
	if err != nil {
		return nil, err
	}
	return decodeList(raw)
}

// GetDepositAddress returns the funding address for a currency on a network
func (e *Exchange) GetDepositAddress(ctx context.Context, currency, chain string) (*DepositAddressData, error) {
	vals := url.Values{}
	vals.Set("currency", currency)
	vals.Set("chain", chain)
	var result DepositAddressData
	err := e.SendHTTPRequest(ctx, exchange.RestSpot, walletEPL, http.MethodGet, "deposit/address", vals, nil, true, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetDepositHistory returns raw deposit rows
func (e *Exchange) GetDepositHistory(ctx context.Context, vals url.Values) ([]transactionRecord, error) {
	var pg page
	err := e.SendHTTPRequest(ctx, exchange.RestSpot, walletEPL, http.MethodGet, "deposit/history", vals, nil, true, &pg)
	if err != nil {
		return nil, err
	}
	var records []transactionRecord
	if len(pg.Items) > 0 {
		err = json.Unmarshal(pg.Items, &records)
	}
	return records, err
}

// GetWithdrawalHistory returns raw withdrawal rows
func (e *Exchange) GetWithdrawalHistory(ctx context.Context, vals url.Values) ([]transactionRecord, error) {
	var pg page
	err := e.SendHTTPRequest(ctx, exchange.RestSpot, walletEPL, http.MethodGet, "withdraw/history", vals, nil, true, &pg)
	if err != nil {
		return nil, err
	}
	var records []transactionRecord
	if len(pg.Items) > 0 {
		err = json.Unmarshal(pg.Items, &records)
	}
	return records, err
}

// SubmitWithdrawal requests an on-chain withdrawal and returns the venue id
func (e *Exchange) SubmitWithdrawal(ctx context.Context, body map[string]any) (string, error) {
	var result struct {
		ID int64 `json:"id"`
	}
	err := e.SendHTTPRequest(ctx, exchange.RestSpot, walletEPL, http.MethodPost, "withdraw", nil, body, true, &result)
	return strconv.FormatInt(result.ID, 10), err
}

// BalanceTransfer moves funds between account scopes and returns the
// transfer id
func (e *Exchange) BalanceTransfer(ctx context.Context, body map[string]any) (string, error) {
	var result json.RawMessage
	err := e.SendHTTPRequest(ctx, exchange.RestSpot, walletEPL, http.MethodPost, "balance/transfer", nil, body, true, &result)
	if err != nil {
		return "", err
	}
	return strings.Trim(string(result), `"`), nil
}

// GetWsToken issues a websocket listen token for the private stream
func (e *Exchange) GetWsToken(ctx context.Context) (*WsToken, error) {
	var result WsToken
	err := e.SendHTTPRequest(ctx, exchange.RestSpot, privateSpotEPL, http.MethodPost, "ws-token", nil, nil, true, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateContractOrder places a derivative order. The payload carries the
// attribution tag under "clientMedia". The result is the order id.
func (e *Exchange) CreateContractOrder(ctx context.Context, ep exchange.URL, body map[string]any) (string, error) {
	var result json.RawMessage
	err := e.SendHTTPRequest(ctx, ep, orderPlacementEPL, http.MethodPost, contractOrderPath, nil, body, true, &result)
	if err != nil {
		return "", err
	}
	return strings.Trim(string(result), `"`), nil
}

// CreateEntrustPlan places a trigger order and returns the entrust id
func (e *Exchange) CreateEntrustPlan(ctx context.Context, ep exchange.URL, body map[string]any) (string, error) {
	var result json.RawMessage
	err := e.SendHTTPRequest(ctx, ep, orderPlacementEPL, http.MethodPost, contractPlanPath, nil, body, true, &result)
	if err != nil {
		return "", err
	}
	return strings.Trim(string(result), `"`), nil
}

// CreateEntrustProfit places a stop-loss/take-profit order and returns the
// profit id
func (e *Exchange) CreateEntrustProfit(ctx context.Context, ep exchange.URL, body map[string]any) (string, error) {
	var result json.RawMessage
	err := e.SendHTTPRequest(ctx, ep, orderPlacementEPL, http.MethodPost, contractProfitPath, nil, body, true, &result)
	if err != nil {
		return "", err
	}
	return strings.Trim(string(result), `"`), nil
}

// CancelContractOrder cancels one derivative order by id
func (e *Exchange) CancelContractOrder(ctx context.Context, ep exchange.URL, orderID string) (string, error) {
	body := map[string]any{"orderId": orderID}
	var result json.RawMessage
	err := e.SendHTTPRequest(ctx, ep, privateContractEPL, http.MethodPost, "future/trade/v1/order/cancel", nil, body, true, &result)
	if err != nil {
		return "", err
	}
	return strings.Trim(string(result), `"`), nil
}

// CancelAllContractOrders cancels all resting derivative orders, optionally
// scoped to a symbol
func (e *Exchange) CancelAllContractOrders(ctx context.Context, ep exchange.URL, symbol string) error {
	body := map[string]any{}
	if symbol != "" {
		body["symbol"] = symbol
	}
	return e.SendHTTPRequest(ctx, ep, privateContractEPL, http.MethodPost, "future/trade/v1/order/cancel-all", nil, body, true, nil)
}

// GetContractOrder returns one raw derivative order by id
func (e *Exchange) GetContractOrder(ctx context.Context, ep exchange.URL, orderID string) (json.RawMessage, error) {
	vals := url.Values{}
	vals.Set("orderId", orderID)
	var result json.RawMessage
	err := e.SendHTTPRequest(ctx, ep, privateContractEPL, http.MethodGet, "future/trade/v1/order/detail", vals, nil, true, &result)
	return result, err
}

// GetContractOrders returns raw derivative orders filtered by state
func (e *Exchange) GetContractOrders(ctx context.Context, ep exchange.URL, vals url.Values) ([]json.RawMessage, error) {
	return e.contractPage(ctx, ep, "future/trade/v1/order/list", vals)
}

// GetEntrustPlans returns raw trigger orders filtered by state
func (e *Exchange) GetEntrustPlans(ctx context.Context, ep exchange.URL, vals url.Values) ([]json.RawMessage, error) {
	return e.contractPage(ctx, ep, "future/trade/v1/entrust/plan-list", vals)
}

// GetEntrustProfits returns raw stop-loss/take-profit orders
func (e *Exchange) GetEntrustProfits(ctx context.Context, ep exchange.URL, vals url.Values) ([]json.RawMessage, error) {
	return e.contractPage(ctx, ep, "future/trade/v1/entrust/profit-list", vals)
}

// GetContractTrades returns the account's raw derivative fills
func (e *Exchange) GetContractTrades(ctx context.Context, ep exchange.URL, vals url.Values) ([]json.RawMessage, error) {
	return e.contractPage(ctx, ep, "future/trade/v1/order/trade-list", vals)
}

func (e *Exchange) contractPage(ctx context.Context, ep exchange.URL, path string, vals url.Values) ([]json.RawMessage, error) {
	var pg page
	err := e.SendHTTPRequest(ctx, ep, privateContractEPL, http.MethodGet, path, vals, nil, true, &pg)
	if err != nil {
		return nil, err
	}
	if len(pg.Items) == 0 {
		return nil, nil
	}
	var items []json.RawMessage
	err = json.Unmarshal(pg.Items, &items)
	return items, err
}

// GetContractBalances returns derivative account holdings
func (e *Exchange) GetContractBalances(ctx context.Context, ep exchange.URL) ([]ContractBalance, error) {
	var result []ContractBalance
	err := e.SendHTTPRequest(ctx, ep, privateContractEPL, http.MethodGet, "future/user/v1/balance/list", nil, nil, true, &result)
	return result, err
}

// GetContractPositions returns open derivative positions
func (e *Exchange) GetContractPositions(ctx context.Context, ep exchange.URL, symbol string) ([]ContractPosition, error) {
	vals := url.Values{}
	if symbol != "" {
		vals.Set("symbol", symbol)
	}
	var result []ContractPosition
	err := e.SendHTTPRequest(ctx, ep, privateContractEPL, http.MethodGet, "future/user/v1/position/list", vals, nil, true, &result)
	return result, err
}

// GetFundingPayments returns the account's funding credits and debits
func (e *Exchange) GetFundingPayments(ctx context.Context, ep exchange.URL, vals url.Values) ([]FundingPaymentRecord, error) {
	var pg page
	err := e.SendHTTPRequest(ctx, ep, privateContractEPL, http.MethodGet, "future/user/v1/balance/funding-rate-list", vals, nil, true, &pg)
	if err != nil {
		return nil, err
	}
	var records []FundingPaymentRecord
	if len(pg.Items) > 0 {
		err = json.Unmarshal(pg.Items, &records)
	}
	return records, err
}

// GetBalanceBills returns derivative account ledger rows
func (e *Exchange) GetBalanceBills(ctx context.Context, ep exchange.URL, vals url.Values) ([]billRecord, error) {
	var pg page
	err := e.SendHTTPRequest(ctx, ep, privateContractEPL, http.MethodGet, "future/user/v1/balance/bills", vals, nil, true, &pg)
	if err != nil {
		return nil, err
	}
	var records []billRecord
	if len(pg.Items) > 0 {
		err = json.Unmarshal(pg.Items, &records)
	}
	return records, err
}

// AdjustLeverage changes position leverage for a symbol side
func (e *Exchange) AdjustLeverage(ctx context.Context, ep exchange.URL, symbol, positionSide string, leverage int64) error {
	body := map[string]any{
		"symbol":       symbol,
		"positionSide": positionSide,
		"leverage":     leverage,
	}
	return e.SendHTTPRequest(ctx, ep, privateContractEPL, http.MethodPost, "future/user/v1/position/adjust-leverage", nil, body, true, nil)
}

// decodeList accepts either a bare JSON array or a cursor page with an
// items array; the venue uses both shapes for list results
func decodeList(raw json.RawMessage) ([]json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}
	var pg page
	if err := json.Unmarshal(raw, &pg); err != nil {
		return nil, err
	}
	if len(pg.Items) == 0 {
		return nil, nil
	}
	err := json.Unmarshal(pg.Items, &items)
	return items, err
}
