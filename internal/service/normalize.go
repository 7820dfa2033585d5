package service

import (
	"errors"
	"time"

	"github.com/guttosm/ofxpulse/internal/domain/dto"
	"github.com/guttosm/ofxpulse/internal/ofx"
)

// Error kinds reported in dto.DateResult.Error.
const (
	DateErrorFormat       = "format"
	DateErrorConstruction = "construction"
)

// NormalizeService turns raw OFX date and amount tokens into canonical values.
type NormalizeService interface {
	Normalize(req dto.NormalizeRequest) dto.NormalizeResponse
	ParseDate(s string) (*time.Time, error)
}

type normalizeService struct {
	parser *ofx.DateTimeParser[time.Time]
}

// NewNormalizeService wraps parser; a nil parser selects the UTC default.
func NewNormalizeService(parser *ofx.DateTimeParser[time.Time]) NormalizeService {
	if parser == nil {
		parser = ofx.NewDateTimeParser[time.Time](nil)
	}
	return &normalizeService{parser: parser}
}

// ParseDate parses one token strictly; blank input yields nil, nil.
func (s *normalizeService) ParseDate(v string) (*time.Time, error) {
	return s.parser.Parse(v, false)
}

// Normalize processes every token independently. A bad date never aborts
// the batch; its failure is reported on its own result.
func (s *normalizeService) Normalize(req dto.NormalizeRequest) dto.NormalizeResponse {
	out := dto.NormalizeResponse{
		Dates:   make([]dto.DateResult, 0, len(req.Dates)),
		Amounts: make([]dto.AmountResult, 0, len(req.Amounts)),
	}
	for _, d := range req.Dates {
		out.Dates = append(out.Dates, s.normalizeDate(d, req.IgnoreErrors))
	}
	for _, a := range req.Amounts {
		out.Amounts = append(out.Amounts, dto.AmountResult{
			Input:      a,
			Value:      ofx.ParseAmount(a).String(),
			Convention: ofx.ClassifyAmount(a).String(),
		})
	}
	return out
}

func (s *normalizeService) normalizeDate(in string, ignoreErrors bool) dto.DateResult {
	res := dto.DateResult{Input: in}

	v, err := s.parser.Parse(in, ignoreErrors)
	if errors.Is(err, ofx.ErrFormat) {
		res.Error = DateErrorFormat
		res.Detail = err.Error()
		return res
	}
	if err != nil {
		res.Error = DateErrorConstruction
		res.Detail = err.Error()
	}
	res.Value = v

	// blank input has no fields to report
	if f, mErr := ofx.MatchDateTime(in); mErr == nil && f.Zone != nil {
		offset := f.Zone.OffsetHours
		res.ZoneName = f.Zone.Name
		res.ZoneOffset = &offset
	}
	return res
}
