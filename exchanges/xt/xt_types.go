package xt

import (
	"encoding/json"

	"github.com/tidemark-labs/goxchange/types"
)

// response is the venue envelope. Spot hosts report rc/mc/ma, contract
// hosts returnCode/msgInfo/error; both may appear with any HTTP status.
//
//	{"rc":1,"mc":"AUTH_103","ma":[],"result":null}
//	{"returnCode":1,"msgInfo":"failure","error":{"code":"403","msg":"invalid signature"},"result":null}
type response struct {
	RC         *int64          `json:"rc"`
	MC         string          `json:"mc"`
	ReturnCode *int64          `json:"returnCode"`
	MsgInfo    string          `json:"msgInfo"`
	Error      *responseError  `json:"error"`
	Result     json.RawMessage `json:"result"`
}

type responseError struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// page wraps cursor-style list results
type page struct {
	HasPrev bool            `json:"hasPrev"`
	HasNext bool            `json:"hasNext"`
	Items   json.RawMessage `json:"items"`
}

// ServerTime holds the reported venue clock
type ServerTime struct {
	ServerTime types.Time `json:"serverTime"`
}

// SymbolFilter bounds one dimension of a spot symbol
type SymbolFilter struct {
	Filter   string       `json:"filter"`
	Min      types.Number `json:"min"`
	Max      types.Number `json:"max"`
	TickSize types.Number `json:"tickSize"`
}

// SpotSymbol is a raw spot listing
type SpotSymbol struct {
	ID                     int64          `json:"id"`
	Symbol                 string         `json:"symbol"`
	State                  string         `json:"state"`
	TradingEnabled         bool           `json:"tradingEnabled"`
	OpenapiEnabled         bool           `json:"openapiEnabled"`
	BaseCurrency           string         `json:"baseCurrency"`
	BaseCurrencyPrecision  int64          `json:"baseCurrencyPrecision"`
	QuoteCurrency          string         `json:"quoteCurrency"`
	QuoteCurrencyPrecision int64          `json:"quoteCurrencyPrecision"`
	PricePrecision         int64          `json:"pricePrecision"`
	QuantityPrecision      int64          `json:"quantityPrecision"`
	OrderTypes             []string       `json:"orderTypes"`
	TimeInForces           []string       `json:"timeInForces"`
	Filters                []SymbolFilter `json:"filters"`
}

// SpotSymbolsData wraps the spot symbol universe
type SpotSymbolsData struct {
	Time    types.Time   `json:"time"`
	Version string       `json:"version"`
	Symbols []SpotSymbol `json:"symbols"`
}

// ContractSymbol is a raw derivative listing
type ContractSymbol struct {
	ID                int64        `json:"id"`
	Symbol            string       `json:"symbol"`
	Pair              string       `json:"pair"`
	ContractType      string       `json:"contractType"`
	ProductType       string       `json:"productType"`
	UnderlyingType    string       `json:"underlyingType"`
	ContractSize      types.Number `json:"contractSize"`
	TradeSwitch       bool         `json:"tradeSwitch"`
	IsOpenAPI         bool         `json:"isOpenApi"`
	State             int64        `json:"state"`
	InitLeverage      int64        `json:"initLeverage"`
	BaseCoin          string       `json:"baseCoin"`
	QuoteCoin         string       `json:"quoteCoin"`
	BaseCoinPrecision int64        `json:"baseCoinPrecision"`
	QuantityPrecision int64        `json:"quantityPrecision"`
	PricePrecision    int64        `json:"pricePrecision"`
	SupportOrderType  []string     `json:"supportOrderType"`
	MinQty            types.Number `json:"minQty"`
	MinNotional       types.Number `json:"minNotional"`
	MaxNotional       types.Number `json:"maxNotional"`
	MakerFee          types.Number `json:"makerFee"`
	TakerFee          types.Number `json:"takerFee"`
	MinStepPrice      types.Number `json:"minStepPrice"`
	DeliveryDate      types.Time   `json:"deliveryDate"`
	DeliveryPrice     types.Number `json:"deliveryPrice"`
	OnboardDate       types.Time   `json:"onboardDate"`
}

// CurrencyInfo is a raw currency descriptor from the currencies listing
type CurrencyInfo struct {
	ID             int64        `json:"id"`
	Currency       string       `json:"currency"`
	FullName       string       `json:"fullName"`
	MaxPrecision   int64        `json:"maxPrecision"`
	DepositStatus  types.Number `json:"depositStatus"`
	WithdrawStatus types.Number `json:"withdrawStatus"`
}

// CurrenciesData wraps the currency universe
type CurrenciesData struct {
	Time       types.Time     `json:"time"`
	Version    string         `json:"version"`
	Currencies []CurrencyInfo `json:"currencies"`
}

// SupportChain is one transfer network of a currency
type SupportChain struct {
	Chain             string       `json:"chain"`
	DepositEnabled    bool         `json:"depositEnabled"`
	WithdrawEnabled   bool         `json:"withdrawEnabled"`
	WithdrawFeeAmount types.Number `json:"withdrawFeeAmount"`
	WithdrawMinAmount types.Number `json:"withdrawMinAmount"`
	DepositFeeRate    types.Number `json:"depositFeeRate"`
}

// CurrencyChains maps a currency to its transfer networks
type CurrencyChains struct {
	Currency      string         `json:"currency"`
	SupportChains []SupportChain `json:"supportChains"`
}

// spotTicker is a raw 24h spot ticker
//
//	{"s":"btc_usdt","t":1678172693931,"cv":"34.00","cr":"0.0015","o":"22398.05","l":"22323.72","h":"22600.50","c":"22432.05","q":"7962.256931","v":"178675209.47"}
type spotTicker struct {
	Symbol        string       `json:"s"`
	Timestamp     types.Time   `json:"t"`
	ChangeValue   types.Number `json:"cv"`
	ChangeRate    types.Number `json:"cr"`
	Open          types.Number `json:"o"`
	Low           types.Number `json:"l"`
	High          types.Number `json:"h"`
	Close         types.Number `json:"c"`
	Quantity      types.Number `json:"q"`
	Volume        types.Number `json:"v"`
	AskPrice      types.Number `json:"ap"`
	AskQty        types.Number `json:"aq"`
	BidPrice      types.Number `json:"bp"`
	BidQty        types.Number `json:"bq"`
}

// contractTicker is a raw derivative aggregate ticker
//
//	{"t":1678172693931,"s":"btc_usdt","c":"22432","h":"22600","l":"22323","a":"178675209","v":"7962","o":"22398","r":"0.0015","i":"22430","m":"22431","bp":"22431","ap":"22433"}
type contractTicker struct {
	Timestamp   types.Time   `json:"t"`
	Symbol      string       `json:"s"`
	Close       types.Number `json:"c"`
	High        types.Number `json:"h"`
	Low         types.Number `json:"l"`
	Amount      types.Number `json:"a"`
	Volume      types.Number `json:"v"`
	Open        types.Number `json:"o"`
	ChangeRate  types.Number `json:"r"`
	IndexPrice  types.Number `json:"i"`
	MarkPrice   types.Number `json:"m"`
	BidPrice    types.Number `json:"bp"`
	AskPrice    types.Number `json:"ap"`
}

// spotPublicTrade is a raw public spot trade
//
//	{"i":203530723141917063,"t":1678227505815,"p":"22038.81","q":"0.000978","v":"21.55395618","b":true}
type spotPublicTrade struct {
	ID           int64        `json:"i"`
	Timestamp    types.Time   `json:"t"`
	Price        types.Number `json:"p"`
	Quantity     types.Number `json:"q"`
	Value        types.Number `json:"v"`
	IsBuyerMaker bool         `json:"b"`
}

// contractPublicTrade is a raw public derivative trade
//
//	{"t":1678227683897,"s":"btc_usdt","p":"22031","a":"1067","m":"BID"}
type contractPublicTrade struct {
	Timestamp types.Time   `json:"t"`
	Symbol    string       `json:"s"`
	Price     types.Number `json:"p"`
	Amount    types.Number `json:"a"`
	Side      string       `json:"m"`
}

// myTrade is a raw account fill, covering both the spot and contract shapes
type myTrade struct {
	Symbol       string       `json:"symbol"`
	TradeID      string       `json:"tradeId"`
	OrderID      string       `json:"orderId"`
	ExecID       string       `json:"execId"`
	OrderSide    string       `json:"orderSide"`
	OrderType    string       `json:"orderType"`
	BizType      string       `json:"bizType"`
	Time         types.Time   `json:"time"`
	Timestamp    types.Time   `json:"timestamp"`
	Price        types.Number `json:"price"`
	Quantity     types.Number `json:"quantity"`
	QuoteQty     types.Number `json:"quoteQty"`
	Fee          types.Number `json:"fee"`
	FeeCurrency  string       `json:"feeCurrency"`
	FeeCoin      string       `json:"feeCoin"`
	TakerMaker   string       `json:"takerMaker"`
	PositionSide string       `json:"positionSide"`
}

// SpotBalance is one currency holding on the spot account
type SpotBalance struct {
	Currency        string       `json:"currency"`
	CurrencyID      int64        `json:"currencyId"`
	FrozenAmount    types.Number `json:"frozenAmount"`
	AvailableAmount types.Number `json:"availableAmount"`
	TotalAmount     types.Number `json:"totalAmount"`
}

// SpotBalances wraps the spot account holdings
type SpotBalances struct {
	TotalUsdtAmount types.Number  `json:"totalUsdtAmount"`
	TotalBtcAmount  types.Number  `json:"totalBtcAmount"`
	Assets          []SpotBalance `json:"assets"`
}

// ContractBalance is one coin holding on a derivative account
type ContractBalance struct {
	Coin                  string       `json:"coin"`
	WalletBalance         types.Number `json:"walletBalance"`
	OpenOrderMarginFrozen types.Number `json:"openOrderMarginFrozen"`
	IsolatedMargin        types.Number `json:"isolatedMargin"`
	CrossedMargin         types.Number `json:"crossedMargin"`
	AvailableBalance      types.Number `json:"availableBalance"`
	Bonus                 types.Number `json:"bonus"`
	Coupon                types.Number `json:"coupon"`
}

// spotOrder is a raw spot order
type spotOrder struct {
	Symbol        string       `json:"symbol"`
	OrderID       string       `json:"orderId"`
	ClientOrderID string       `json:"clientOrderId"`
	BaseCurrency  string       `json:"baseCurrency"`
	QuoteCurrency string       `json:"quoteCurrency"`
	Side          string       `json:"side"`
	Type          string       `json:"type"`
	TimeInForce   string       `json:"timeInForce"`
	BizType       string       `json:"bizType"`
	Price         types.Number `json:"price"`
	OrigQty       types.Number `json:"origQty"`
	OrigQuoteQty  types.Number `json:"origQuoteQty"`
	ExecutedQty   types.Number `json:"executedQty"`
	LeavingQty    types.Number `json:"leavingQty"`
	AvgPrice      types.Number `json:"avgPrice"`
	Fee           types.Number `json:"fee"`
	FeeCurrency   string       `json:"feeCurrency"`
	State         string       `json:"state"`
	Time          types.Time   `json:"time"`
	UpdatedTime   types.Time   `json:"updatedTime"`
}

// contractOrder is a raw derivative order
type contractOrder struct {
	OrderID            string       `json:"orderId"`
	ClientOrderID      string       `json:"clientOrderId"`
	Symbol             string       `json:"symbol"`
	OrderType          string       `json:"orderType"`
	OrderSide          string       `json:"orderSide"`
	PositionSide       string       `json:"positionSide"`
	TimeInForce        string       `json:"timeInForce"`
	ClosePosition      bool         `json:"closePosition"`
	Price              types.Number `json:"price"`
	OrigQty            types.Number `json:"origQty"`
	AvgPrice           types.Number `json:"avgPrice"`
	ExecutedQty        types.Number `json:"executedQty"`
	MarginFrozen       types.Number `json:"marginFrozen"`
	TriggerProfitPrice types.Number `json:"triggerProfitPrice"`
	TriggerStopPrice   types.Number `json:"triggerStopPrice"`
	State              string       `json:"state"`
	CreatedTime        types.Time   `json:"createdTime"`
	UpdatedTime        types.Time   `json:"updatedTime"`
}

// entrustPlan is a raw trigger order
type entrustPlan struct {
	EntrustID        string       `json:"entrustId"`
	Symbol           string       `json:"symbol"`
	EntrustType      string       `json:"entrustType"`
	OrderSide        string       `json:"orderSide"`
	PositionSide     string       `json:"positionSide"`
	TimeInForce      string       `json:"timeInForce"`
	ClosePosition    bool         `json:"closePosition"`
	Price            types.Number `json:"price"`
	OrigQty          types.Number `json:"origQty"`
	StopPrice        types.Number `json:"stopPrice"`
	TriggerPriceType string       `json:"triggerPriceType"`
	State            string       `json:"state"`
	MarketType       string       `json:"marketType"`
	CreatedTime      types.Time   `json:"createdTime"`
}

// entrustProfit is a raw stop-loss/take-profit order
type entrustProfit struct {
	ProfitID           string       `json:"profitId"`
	Symbol             string       `json:"symbol"`
	PositionSide       string       `json:"positionSide"`
	OrigQty            types.Number `json:"origQty"`
	TriggerProfitPrice types.Number `json:"triggerProfitPrice"`
	TriggerStopPrice   types.Number `json:"triggerStopPrice"`
	EntryPrice         types.Number `json:"entryPrice"`
	PositionSize       types.Number `json:"positionSize"`
	IsolatedMargin     types.Number `json:"isolatedMargin"`
	State              string       `json:"state"`
	CreatedTime        types.Time   `json:"createdTime"`
}

// ContractPosition is a raw open derivative position
type ContractPosition struct {
	Symbol                string       `json:"symbol"`
	ContractType          string       `json:"contractType"`
	PositionType          string       `json:"positionType"`
	PositionSide          string       `json:"positionSide"`
	PositionSize          types.Number `json:"positionSize"`
	AvailableCloseSize    types.Number `json:"availableCloseSize"`
	EntryPrice            types.Number `json:"entryPrice"`
	OpenOrderMarginFrozen types.Number `json:"openOrderMarginFrozen"`
	IsolatedMargin        types.Number `json:"isolatedMargin"`
	RealizedProfit        types.Number `json:"realizedProfit"`
	Leverage              types.Number `json:"leverage"`
	AutoMargin            bool         `json:"autoMargin"`
}

// ContractFundingRate is the current funding state of one symbol
type ContractFundingRate struct {
	Symbol             string       `json:"symbol"`
	FundingRate        types.Number `json:"fundingRate"`
	CollectionInternal int64        `json:"collectionInternal"`
	NextCollectionTime types.Time   `json:"nextCollectionTime"`
}

// FundingRateRecord is one historical funding observation
type FundingRateRecord struct {
	Symbol      string       `json:"symbol"`
	FundingRate types.Number `json:"fundingRate"`
	CreatedTime types.Time   `json:"createdTime"`
}

// FundingPaymentRecord is one account funding credit or debit
type FundingPaymentRecord struct {
	ID           int64        `json:"id"`
	Symbol       string       `json:"symbol"`
	Cast         types.Number `json:"cast"`
	Coin         string       `json:"coin"`
	PositionSide string       `json:"positionSide"`
	CreatedTime  types.Time   `json:"createdTime"`
}

// LeverageBracket is one rung of a market's risk ladder
type LeverageBracket struct {
	Bracket         int64        `json:"bracket"`
	MaxNominalValue types.Number `json:"maxNominalValue"`
	MaintMarginRate types.Number `json:"maintMarginRate"`
	MaxLeverage     types.Number `json:"maxLeverage"`
	MinLeverage     types.Number `json:"minLeverage"`
}

// LeverageBracketGroup groups the ladder per symbol
type LeverageBracketGroup struct {
	Symbol           string            `json:"symbol"`
	LeverageBrackets []LeverageBracket `json:"leverageBrackets"`
}

// transactionRecord is a raw deposit or withdrawal row. Deposits report
// fromAddr, withdrawals do not.
type transactionRecord struct {
	ID            int64        `json:"id"`
	Currency      string       `json:"currency"`
	Chain         string       `json:"chain"`
	Memo          string       `json:"memo"`
	Status        string       `json:"status"`
	Amount        types.Number `json:"amount"`
	Fee           types.Number `json:"fee"`
	Confirmations int64        `json:"confirmations"`
	TransactionID string       `json:"transactionId"`
	Address       string       `json:"address"`
	FromAddr      string       `json:"fromAddr"`
	CreatedTime   types.Time   `json:"createdTime"`
}

// billRecord is one account ledger row
type billRecord struct {
	ID          string       `json:"id"`
	Coin        string       `json:"coin"`
	Symbol      string       `json:"symbol"`
	Type        string       `json:"type"`
	Amount      types.Number `json:"amount"`
	Side        string       `json:"side"`
	AfterAmount types.Number `json:"afterAmount"`
	CreatedTime types.Time   `json:"createdTime"`
}

// DepositAddressData is a venue-issued funding address
type DepositAddressData struct {
	Address string `json:"address"`
	Memo    string `json:"memo"`
}

// WsToken is a websocket listen token issued for the account stream
type WsToken struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// orderStatuses maps venue order states onto the canonical set. Unmapped
// states pass through untouched.
var orderStatuses = map[string]string{
	"NEW":                  "open",
	"PARTIALLY_FILLED":     "open",
	"UNFINISHED":           "open",
	"NOT_TRIGGERED":        "open",
	"TRIGGERING":           "open",
	"FILLED":               "closed",
	"TRIGGERED":            "closed",
	"CANCELED":             "canceled",
	"USER_REVOCATION":      "canceled",
	"REJECTED":             "rejected",
	"PLATFORM_REVOCATION":  "rejected",
	"EXPIRED":              "expired",
	"HISTORY":              "expired",
}

// transactionStatuses maps venue transfer states onto the canonical set
var transactionStatuses = map[string]string{
	"SUBMIT":  "pending",
	"REVIEW":  "pending",
	"AUDITED": "pending",
	"PENDING": "pending",
	"CANCEL":  "canceled",
	"FAIL":    "failed",
	"SUCCESS": "ok",
}

// ledgerTypes maps venue bill types onto canonical ledger entry types
var ledgerTypes = map[string]string{
	"EXCHANGE":           "transfer",
	"CLOSE_POSITION":     "trade",
	"TAKE_OVER":          "trade",
	"MERGE":              "trade",
	"QIANG_PING_MANAGER": "fee",
	"FUND":               "fee",
	"FEE":                "fee",
	"ADL":                "auto-deleveraging",
}
