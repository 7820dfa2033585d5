package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/ofxpulse/internal/domain/dto"
	"github.com/guttosm/ofxpulse/internal/middleware"
	"github.com/guttosm/ofxpulse/internal/ofx"
	"github.com/guttosm/ofxpulse/internal/service"
)

// maxNormalizeTokens caps dates+amounts accepted by one normalize call.
const maxNormalizeTokens = 1000

// Handler provides HTTP handlers for statement normalisation and account
// summary endpoints.
//
// Responsibilities:
//   - Validate incoming path, query and body parameters
//   - Delegate to the service layer
//   - Translate results into response DTOs with appropriate HTTP status codes
type Handler struct {
	summary   service.SummaryService
	normalize service.NormalizeService
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - summary: account summary queries.
//   - normalize: OFX token parsing, also used for the summary's from/to bounds.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(summary service.SummaryService, normalize service.NormalizeService) *Handler {
	return &Handler{summary: summary, normalize: normalize}
}

// Normalize handles POST /api/v1/normalize requests.
//
// Every token is processed independently: a malformed date is reported on
// its own result and does not fail the request.
//
// Normalize godoc
// @Summary      Normalize OFX tokens
// @Description  Parses OFX date tokens (YYYYMMDD[HHMMSS][.XXX][[gmt offset:tz]]) and US or European formatted amounts
// @Tags         normalize
// @Accept       json
// @Produce      json
// @Param        request  body      dto.NormalizeRequest   true  "Tokens to normalize"
// @Success      200      {object}  dto.NormalizeResponse  "Success"
// @Failure      400      {object}  dto.ErrorResponse      "Bad Request"
// @Router       /api/v1/normalize [post]
func (h *Handler) Normalize(c *gin.Context) {
	var req dto.NormalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body", err))
		return
	}
	n := len(req.Dates) + len(req.Amounts)
	if n == 0 {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("dates or amounts are required", nil))
		return
	}
	if n > maxNormalizeTokens {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("too many tokens, limit is 1000", nil))
		return
	}

	c.JSON(http.StatusOK, h.normalize.Normalize(req))
}

// GetAccountSummary handles GET /api/v1/accounts/:id/summary requests.
//
// Query Parameters:
//   - from (string, optional): lower posting bound as an OFX date token.
//   - to (string, optional): upper posting bound as an OFX date token;
//     a date without HHMMSS covers that whole day.
//
// Responses:
//   - 200 OK: SummaryResponse.
//   - 400 Bad Request: invalid bound or from after to.
//   - 404 Not Found: no transactions for the account in the window.
//   - 500 Internal Server Error: repository failure.
//
// GetAccountSummary godoc
// @Summary      Get account summary
// @Description  Returns count, credits, debits and net for an account over an optional posting window
// @Tags         accounts
// @Produce      json
// @Param        id    path      string  true   "Account ID" example(1234567890)
// @Param        from  query     string  false  "Lower bound, OFX date" example(20081001)
// @Param        to    query     string  false  "Upper bound, OFX date; YYYYMMDD alone covers the whole day" example(20081031)
// @Success      200   {object}  dto.SummaryResponse  "Success"
// @Failure      400   {object}  dto.ErrorResponse    "Bad Request"
// @Failure      404   {object}  dto.ErrorResponse    "Not Found"
// @Failure      500   {object}  dto.ErrorResponse    "Internal Error"
// @Router       /api/v1/accounts/{id}/summary [get]
func (h *Handler) GetAccountSummary(c *gin.Context) {
	accountID := strings.TrimSpace(c.Param("id"))
	if accountID == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("account id is required", nil))
		return
	}

	from, ok := h.bound(c, "from")
	if !ok {
		return
	}
	to, ok := h.bound(c, "to")
	if !ok {
		return
	}
	if to != nil && isDateOnly(c.Query("to")) {
		end := endOfDay(*to)
		to = &end
	}

	sum, err := h.summary.GetSummary(c.Request.Context(), accountID, from, to)
	if errors.Is(err, service.ErrInvalidRange) {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid range", err))
		return
	}
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to fetch summary", err)
		return
	}
	if sum == nil {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("no data found", nil))
		return
	}

	c.JSON(http.StatusOK, dto.SummaryResponse{
		AccountID:    sum.AccountID,
		Transactions: sum.Transactions,
		Credits:      sum.Credits.String(),
		Debits:       sum.Debits.String(),
		Net:          sum.Net.String(),
		FirstPosted:  sum.FirstPosted.UTC(),
		LastPosted:   sum.LastPosted.UTC(),
	})
}

// bound parses an optional OFX date query parameter. It writes a 400 and
// returns ok=false when the token is present but unusable.
func (h *Handler) bound(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	v, err := h.normalize.ParseDate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid "+name+", expected YYYYMMDD[HHMMSS]", err))
		return nil, false
	}
	return v, true
}

// isDateOnly reports whether an OFX date token carries no HHMMSS part.
func isDateOnly(raw string) bool {
	f, err := ofx.MatchDateTime(raw)
	return err == nil && !f.HasTime
}

// endOfDay returns the last microsecond of t's calendar day, the finest
// resolution Postgres stores.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location()).Add(-time.Microsecond)
}
