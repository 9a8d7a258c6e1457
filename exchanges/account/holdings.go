// Package account provides credentials plus the canonical account-side
// entities: balances, deposit/withdrawal transactions and ledger entries.
package account

import (
	"time"

	"github.com/tidemark-labs/goxchange/common/precise"
	"github.com/tidemark-labs/goxchange/currency"
	"github.com/tidemark-labs/goxchange/types"
)

// Balance is the canonical holding for a single currency. Fields are carried
// as types.Number so a venue that omits a component stays distinguishable
// from one that reports zero.
type Balance struct {
	Currency currency.Code
	Free     types.Number
	Used     types.Number
	Total    types.Number
}

// DeriveMissing fills whichever of Free, Used or Total the venue omitted
// using the relation total = free + used. With fewer than two components
// reported the balance is left as-is.
func (b *Balance) DeriveMissing() {
	switch {
	case !b.Total.IsSet() && b.Free.IsSet() && b.Used.IsSet():
		if v, err := precise.StringAdd(b.Free.String(), b.Used.String()); err == nil {
			b.Total = types.Number(v)
		}
	case !b.Free.IsSet() && b.Total.IsSet() && b.Used.IsSet():
		if v, err := precise.StringSub(b.Total.String(), b.Used.String()); err == nil {
			b.Free = types.Number(v)
		}
	case !b.Used.IsSet() && b.Total.IsSet() && b.Free.IsSet():
		if v, err := precise.StringSub(b.Total.String(), b.Free.String()); err == nil {
			b.Used = types.Number(v)
		}
	}
}

// Holdings maps currency codes to their balances for one account scope
type Holdings struct {
	Exchange string
	Balances map[currency.Code]Balance
	// Info retains the raw venue payload
	Info any
}

// TransferStatus is the canonical state of a deposit or withdrawal
type TransferStatus string

// Transfer states
const (
	TransferPending  TransferStatus = "pending"
	TransferOK       TransferStatus = "ok"
	TransferCanceled TransferStatus = "canceled"
	TransferFailed   TransferStatus = "failed"
)

// TransferDirection discriminates deposits from withdrawals
type TransferDirection string

// Transfer directions
const (
	Deposit  TransferDirection = "deposit"
	Withdraw TransferDirection = "withdrawal"
)

// Transaction is a canonical on-chain deposit or withdrawal
type Transaction struct {
	ID            string
	TxID          string
	Type          TransferDirection
	Currency      currency.Code
	Network       string
	Amount        types.Number
	Fee           types.Number
	Status        TransferStatus
	Address       string
	AddressFrom   string
	Tag           string
	Confirmations int64
	Timestamp     time.Time
	Info          any
}

// LedgerEntry is one row of account activity
type LedgerEntry struct {
	ID        string
	Currency  currency.Code
	Amount    types.Number
	Balance   types.Number
	Type      string
	Direction string
	Timestamp time.Time
	Info      any
}

// DepositAddress is a venue-issued funding address
type DepositAddress struct {
	Currency currency.Code
	Network  string
	Address  string
	Tag      string
}

// TransferResponse reports an internal balance movement between account
// scopes
type TransferResponse struct {
	ID        string
	Currency  currency.Code
	Amount    types.Number
	From      string
	To        string
	Timestamp time.Time
}
