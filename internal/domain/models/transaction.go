package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single <STMTTRN> block of an OFX/QFX statement
// after its date and amount tokens have been normalised.
//
// Field origin:
//  1. AccountID   <- <ACCTID> of the enclosing statement
//  2. FITID       <- <FITID>
//  3. Type        <- <TRNTYPE> (DEBIT, CREDIT, POS, ...)
//  4. PostedAt    <- <DTPOSTED>
//  5. UserDate    <- <DTUSER> (optional, zero when absent)
//  6. Amount      <- <TRNAMT>
//  7. Currency    <- <CURDEF> of the enclosing statement
//  8. Name        <- <NAME>
//  9. Memo        <- <MEMO>
//  10. SourceFile <- file the row was ingested from
type Transaction struct {
	AccountID  string
	FITID      string
	Type       string
	PostedAt   time.Time
	UserDate   time.Time
	Amount     decimal.Decimal
	Currency   string
	Name       string
	Memo       string
	SourceFile string
}
