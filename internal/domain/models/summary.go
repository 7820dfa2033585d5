package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountSummary is the result of aggregating an account's transactions
// over an optional posting window.
//
// Fields:
//   - Credits: sum of positive amounts.
//   - Debits: sum of negative amounts (zero or negative).
//   - Net: Credits + Debits.
//   - FirstPosted/LastPosted: posting bounds of the rows that matched.
type AccountSummary struct {
	AccountID    string
	Transactions int64
	Credits      decimal.Decimal
	Debits       decimal.Decimal
	Net          decimal.Decimal
	FirstPosted  time.Time
	LastPosted   time.Time
}
