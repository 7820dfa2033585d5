package dto

import "time"

// SummaryResponse represents the JSON structure returned by the
// GET /api/v1/accounts/{id}/summary endpoint.
//
// Money fields are decimal strings so no precision is lost in transit.
type SummaryResponse struct {
	AccountID    string    `json:"account_id" example:"1234567890"`             // Account the summary covers
	Transactions int64     `json:"transactions" example:"42"`                   // Number of matching transactions
	Credits      string    `json:"credits" example:"2225000.01"`                // Sum of positive amounts
	Debits       string    `json:"debits" example:"-1000.01"`                   // Sum of negative amounts
	Net          string    `json:"net" example:"2224000"`                       // Credits + Debits
	FirstPosted  time.Time `json:"first_posted" example:"2008-10-05T00:00:00Z"` // Earliest posting in range
	LastPosted   time.Time `json:"last_posted" example:"2008-10-31T00:00:00Z"`  // Latest posting in range
}
