package dto

import "time"

// NormalizeRequest is the body of POST /api/v1/normalize.
type NormalizeRequest struct {
	Dates        []string `json:"dates" example:"20081005132200.124[-5:EST]"`
	Amounts      []string `json:"amounts" example:"1.000,01"`
	IgnoreErrors bool     `json:"ignore_errors"`
}

// DateResult is the outcome for one date token. Value is null for blank
// tokens and for construction errors suppressed by ignore_errors.
type DateResult struct {
	Input      string     `json:"input"`
	Value      *time.Time `json:"value"`
	ZoneName   string     `json:"zone_name,omitempty" example:"EST"`
	ZoneOffset *int       `json:"zone_offset_hours,omitempty" example:"-5"`
	Error      string     `json:"error,omitempty" example:"format"`
	Detail     string     `json:"detail,omitempty"`
}

// AmountResult is the outcome for one amount token.
type AmountResult struct {
	Input      string `json:"input" example:"1.000,01"`
	Value      string `json:"value" example:"1000.01"`
	Convention string `json:"convention" example:"european"`
}

// NormalizeResponse mirrors the request order of dates and amounts.
type NormalizeResponse struct {
	Dates   []DateResult   `json:"dates"`
	Amounts []AmountResult `json:"amounts"`
}
