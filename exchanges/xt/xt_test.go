package xt

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidemark-labs/goxchange/common/crypto"
	exchange "github.com/tidemark-labs/goxchange/exchanges"
)

const (
	testKey    = "test-key"
	testSecret = "test-secret"
)

func spotEnvelope(result string) string {
	return `{"rc":0,"mc":"SUCCESS","ma":[],"result":` + result + `}`
}

func contractEnvelope(result string) string {
	return `{"returnCode":0,"msgInfo":"success","error":null,"result":` + result + `}`
}

// testExchange points every REST root at the supplied handler
func testExchange(t *testing.T, handler http.Handler) *Exchange {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	e := New()
	for _, ep := range []exchange.URL{exchange.RestSpot, exchange.RestUSDTMargined, exchange.RestCoinMargined, exchange.RestUser} {
		e.API.Endpoints.SetRunningURL(ep, srv.URL)
	}
	e.SetCredentials(testKey, testSecret, "")
	return e
}

func signPayload(t *testing.T, payload string) string {
	t.Helper()
	mac, err := crypto.GetHMAC(crypto.HashSHA256, []byte(payload), []byte(testSecret))
	require.NoError(t, err)
	return crypto.HexEncodeToString(mac)
}

func TestSpotQuerySigning(t *testing.T) {
	var got *http.Request
	e := testExchange(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Write([]byte(spotEnvelope(`[]`)))
	}))

	_, err := e.GetSpotOpenOrders(context.Background(), "btc_usdt", "SPOT")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "/v4/open-order", got.URL.Path)
	assert.Equal(t, "bizType=SPOT&symbol=btc_usdt", got.URL.RawQuery)
	assert.Equal(t, testKey, got.Header.Get("xt-validate-appkey"))
	assert.Equal(t, "HmacSHA256", got.Header.Get("xt-validate-algorithms"))
	assert.Equal(t, defaultRecvWindow, got.Header.Get("xt-validate-recvwindow"))

	ts := got.Header.Get("xt-validate-timestamp")
	require.NotEmpty(t, ts)
	payload := "xt-validate-algorithms=HmacSHA256&xt-validate-appkey=" + testKey +
		"&xt-validate-recvwindow=" + defaultRecvWindow + "&xt-validate-timestamp=" + ts +
		"#GET#/v4/open-order#bizType=SPOT&symbol=btc_usdt"
	assert.Equal(t, signPayload(t, payload), got.Header.Get("xt-validate-signature"))

	// A different secret must not reproduce the signature
	other, err := crypto.GetHMAC(crypto.HashSHA256, []byte(payload), []byte("other-secret"))
	require.NoError(t, err)
	assert.NotEqual(t, crypto.HexEncodeToString(other), got.Header.Get("xt-validate-signature"))
}

func TestSpotBodySigningAndMediaTag(t *testing.T) {
	var (
		got  *http.Request
		body []byte
	)
	e := testExchange(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		body, _ = io.ReadAll(r.Body)
		w.Write([]byte(spotEnvelope(`{"orderId":"6216559590087220004"}`)))
	}))

	callerBody := map[string]any{
		"symbol": "btc_usdt",
		"side":   "BUY",
		"type":   "LIMIT",
	}
	id, err := e.CreateSpotOrder(context.Background(), callerBody)
	require.NoError(t, err)
	assert.Equal(t, "6216559590087220004", id)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, brokerID, decoded["media"], "spot order payloads carry the attribution tag")
	assert.NotContains(t, callerBody, "media", "decoration happens on a copy, not the caller's map")

	ts := got.Header.Get("xt-validate-timestamp")
	payload := "xt-validate-algorithms=HmacSHA256&xt-validate-appkey=" + testKey +
		"&xt-validate-recvwindow=" + defaultRecvWindow + "&xt-validate-timestamp=" + ts +
		"#POST#/v4/order#" + string(body)
	assert.Equal(t, signPayload(t, payload), got.Header.Get("xt-validate-signature"))
}

func TestSpotBodylessPostSigning(t *testing.T) {
	var got *http.Request
	e := testExchange(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Write([]byte(spotEnvelope(`{"accessToken":"a","refreshToken":"b"}`)))
	}))

	tok, err := e.GetWsToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", tok.AccessToken)

	// POST with no body signs like a GET: no body segment at all
	ts := got.Header.Get("xt-validate-timestamp")
	payload := "xt-validate-algorithms=HmacSHA256&xt-validate-appkey=" + testKey +
		"&xt-validate-recvwindow=" + defaultRecvWindow + "&xt-validate-timestamp=" + ts +
		"#POST#/v4/ws-token"
	assert.Equal(t, signPayload(t, payload), got.Header.Get("xt-validate-signature"))
}

func TestContractSigningOmitsMethod(t *testing.T) {
	var (
		got  *http.Request
		body []byte
	)
	e := testExchange(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		body, _ = io.ReadAll(r.Body)
		w.Write([]byte(contractEnvelope(`"331906"`)))
	}))

	id, err := e.CreateContractOrder(context.Background(), exchange.RestUSDTMargined, map[string]any{
		"symbol":    "btc_usdt",
		"orderSide": "BUY",
	})
	require.NoError(t, err)
	assert.Equal(t, "331906", id)

	assert.Equal(t, "/future/trade/v1/order/create", got.URL.Path)
	assert.Empty(t, got.Header.Get("xt-validate-algorithms"), "contract requests carry no algorithm header")
	assert.Empty(t, got.Header.Get("xt-validate-recvwindow"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, brokerID, decoded["clientMedia"])

	ts := got.Header.Get("xt-validate-timestamp")
	payload := "xt-validate-appkey=" + testKey + "&xt-validate-timestamp=" + ts +
		"#/future/trade/v1/order/create#" + string(body)
	assert.Equal(t, signPayload(t, payload), got.Header.Get("xt-validate-signature"))
}

func TestContractQuerySigning(t *testing.T) {
	var got *http.Request
	e := testExchange(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Write([]byte(contractEnvelope(`[]`)))
	}))

	_, err := e.GetContractPositions(context.Background(), exchange.RestUSDTMargined, "btc_usdt")
	require.NoError(t, err)

	ts := got.Header.Get("xt-validate-timestamp")
	payload := "xt-validate-appkey=" + testKey + "&xt-validate-timestamp=" + ts +
		"#/future/user/v1/position/list#symbol=btc_usdt"
	assert.Equal(t, signPayload(t, payload), got.Header.Get("xt-validate-signature"))
}

func TestPublicRequestsUnsigned(t *testing.T) {
	var got *http.Request
	e := testExchange(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Write([]byte(spotEnvelope(`{"serverTime":1662102810000}`)))
	}))

	st, err := e.GetServerTime(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1662102810000), st.UnixMilli())

	assert.Equal(t, "/v4/public/time", got.URL.Path)
	assert.Empty(t, got.Header.Get("xt-validate-appkey"))
	assert.Empty(t, got.Header.Get("xt-validate-signature"))
}

func TestAuthenticatedPreflightWithoutCredentials(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
	}))
	t.Cleanup(srv.Close)

	e := New()
	e.API.Endpoints.SetRunningURL(exchange.RestSpot, srv.URL)

	_, err := e.GetBalances(context.Background())
	assert.ErrorIs(t, err, exchange.ErrCredentialsUnset)
	assert.ErrorIs(t, err, exchange.ErrAuthentication)
	assert.Zero(t, atomic.LoadInt64(&hits), "no request may be sent when signing is impossible")
}

func TestEnvelopeClassification(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{
			name:    "spot auth failure",
			body:    `{"rc":1,"mc":"AUTH_103","ma":[],"result":null}`,
			wantErr: exchange.ErrAuthentication,
		},
		{
			name:    "spot bad symbol",
			body:    `{"rc":1,"mc":"SYMBOL_001","ma":[],"result":null}`,
			wantErr: exchange.ErrBadSymbol,
		},
		{
			name:    "contract insufficient funds",
			body:    `{"returnCode":1,"msgInfo":"failure","error":{"code":"ORDER_002","msg":"insufficient balance"},"result":null}`,
			wantErr: exchange.ErrInsufficientFunds,
		},
		{
			name:    "broad message match",
			body:    `{"returnCode":1,"msgInfo":"failure","error":{"code":"XXX","msg":"The symbol does not support trading via API"},"result":null}`,
			wantErr: exchange.ErrBadSymbol,
		},
		{
			name:    "unknown code falls back to generic",
			body:    `{"rc":1,"mc":"SOMETHING_NEW","ma":[],"result":null}`,
			wantErr: exchange.ErrExchange,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := testExchange(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			_, err := e.GetServerTime(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)

			var venueErr *exchange.Error
			require.ErrorAs(t, err, &venueErr)
			assert.Equal(t, "XT", venueErr.Exchange)
		})
	}
}

func TestHTTPFailureClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "bad request maps to network",
			status:  http.StatusBadRequest,
			body:    "bad request",
			wantErr: exchange.ErrNetwork,
		},
		{
			name:    "not found maps to exchange",
			status:  http.StatusNotFound,
			body:    "not found",
			wantErr: exchange.ErrExchange,
		},
		{
			name:    "failure envelope inside transport error wins",
			status:  http.StatusBadRequest,
			body:    `{"rc":1,"mc":"AUTH_103","ma":[],"result":null}`,
			wantErr: exchange.ErrAuthentication,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := testExchange(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			_, err := e.GetServerTime(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTransportFailureClassification(t *testing.T) {
	t.Run("client timeout", func(t *testing.T) {
		e := testExchange(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()
		_, err := e.GetServerTime(ctx)
		assert.ErrorIs(t, err, exchange.ErrRequestTimeout)
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()
		e := New()
		e.API.Endpoints.SetRunningURL(exchange.RestSpot, srv.URL)
		_, err := e.GetServerTime(context.Background())
		assert.ErrorIs(t, err, exchange.ErrNetwork)
	})

	t.Run("caller cancellation passes through", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		e := testExchange(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		_, err := e.GetServerTime(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, exchange.ErrNetwork)
	})
}

func TestOrderMediaField(t *testing.T) {
	assert.Equal(t, "media", orderMediaField("/v4/order"))
	assert.Equal(t, "clientMedia", orderMediaField("/future/trade/v1/order/create"))
	assert.Equal(t, "clientMedia", orderMediaField("/future/trade/v1/entrust/create-plan"))
	assert.Equal(t, "clientMedia", orderMediaField("/future/trade/v1/entrust/create-profit"))
	assert.Empty(t, orderMediaField("/v4/withdraw"))
	assert.Empty(t, orderMediaField("/future/trade/v1/order/cancel"))
}

func TestDecodeList(t *testing.T) {
	bare, err := decodeList(json.RawMessage(`[{"a":1},{"b":2}]`))
	require.NoError(t, err)
	assert.Len(t, bare, 2)

	paged, err := decodeList(json.RawMessage(`{"hasNext":false,"items":[{"a":1}]}`))
	require.NoError(t, err)
	assert.Len(t, paged, 1)

	empty, err := decodeList(nil)
	require.NoError(t, err)
	assert.Nil(t, empty)
}
