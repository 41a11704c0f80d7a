package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/triviahq/gameshow-system/internal/api/metrics"
	"github.com/triviahq/gameshow-system/internal/core/domain"
	"github.com/triviahq/gameshow-system/internal/core/ports"
)

// GameHandler handles HTTP requests for game-session operations.
type GameHandler struct {
	service ports.GameService
}

func NewGameHandler(service ports.GameService) *GameHandler {
	return &GameHandler{service: service}
}

// RecordAttempt handles POST /v1/attempts.
//
// @Summary      Record a contestant attempt
// @Tags         game
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      recordAttemptRequest  true  "Attempt details"
// @Success      201   {object}  attemptResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/attempts [post]
func (h *GameHandler) RecordAttempt(c echo.Context) error {
	userID, _, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req recordAttemptRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	attempt, err := h.service.RecordAttempt(c.Request().Context(), ports.RecordAttemptInput{
		SeasonID:       req.SeasonID,
		CardID:         req.CardID,
		ContestantName: req.ContestantName,
		Correct:        *req.Correct,
		RecordedBy:     userID,
	})
	if err != nil {
		metrics.AttemptsErrorsTotal.WithLabelValues(errorReason(err)).Inc()
		return err
	}

	metrics.AttemptsRecordedTotal.WithLabelValues(outcomeLabel(attempt.Correct)).Inc()
	return c.JSON(http.StatusCreated, toAttemptResponse(*attempt))
}

// History handles GET /v1/attempts.
//
// @Summary      List attempt history
// @Tags         game
// @Produce      json
// @Security     BearerAuth
// @Param        season_id   query     string  false  "Filter by season"
// @Param        card_id     query     string  false  "Filter by card"
// @Param        contestant  query     string  false  "Filter by contestant name (exact match)"
// @Param        page        query     int     false  "Page number (1-based)"
// @Param        limit       query     int     false  "Page size (max 100)"
// @Success      200  {object}  historyResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/attempts [get]
func (h *GameHandler) History(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.GetAttemptHistory(c.Request().Context(), ports.AttemptFilter{
		SeasonID:       c.QueryParam("season_id"),
		CardID:         c.QueryParam("card_id"),
		ContestantName: c.QueryParam("contestant"),
		Page:           page,
		Limit:          limit,
	})
	if err != nil {
		return err
	}

	items := make([]attemptResponse, len(result.Items))
	for i, a := range result.Items {
		items[i] = toAttemptResponse(a)
	}

	return c.JSON(http.StatusOK, historyResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Performance handles GET /v1/contestants/:name/performance.
//
// @Summary      Get a contestant's performance summary
// @Tags         game
// @Produce      json
// @Security     BearerAuth
// @Param        name       path      string  true   "Contestant name (exact match)"
// @Param        season_id  query     string  false  "Restrict to one season"
// @Success      200  {object}  performanceResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/contestants/{name}/performance [get]
func (h *GameHandler) Performance(c echo.Context) error {
	summary, err := h.service.GetContestantPerformance(
		c.Request().Context(),
		c.Param("name"),
		c.QueryParam("season_id"),
	)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, performanceResponse{
		ContestantName: summary.ContestantName,
		SeasonID:       summary.SeasonID,
		Attempts:       summary.Attempts,
		Correct:        summary.Correct,
		Incorrect:      summary.Incorrect,
		Accuracy:       summary.Accuracy,
		LongestStreak:  summary.LongestStreak,
		ByCard:         toCardBreakdownResponses(summary.ByCard),
	})
}

// SeasonStats handles GET /v1/seasons/:id/stats.
//
// @Summary      Get aggregate stats for one season
// @Tags         game
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Season id"
// @Success      200  {object}  seasonStatsResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/seasons/{id}/stats [get]
func (h *GameHandler) SeasonStats(c echo.Context) error {
	result, err := h.service.GetSeasonGameStats(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, seasonStatsResponse{
		SeasonID:    result.SeasonID,
		Attempts:    result.Attempts,
		Correct:     result.Correct,
		Incorrect:   result.Incorrect,
		Accuracy:    result.Accuracy,
		Contestants: result.Contestants,
		ByCard:      toCardBreakdownResponses(result.ByCard),
		ComputedAt:  result.ComputedAt,
	})
}

// ResetDeck handles POST /v1/seasons/:id/deck/reset.
//
// @Summary      Reset a season's deck to the full card set
// @Tags         game
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Season id"
// @Success      200  {object}  deckStateResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/seasons/{id}/deck/reset [post]
func (h *GameHandler) ResetDeck(c echo.Context) error {
	userID, _, err := ctxSession(c)
	if err != nil {
		return err
	}

	deck, err := h.service.ResetDeck(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}

	metrics.DeckResetsTotal.WithLabelValues(deck.SeasonID).Inc()
	return c.JSON(http.StatusOK, toDeckResponse(deck))
}

// GetDeck handles GET /v1/seasons/:id/deck.
//
// @Summary      Get a season's current deck state
// @Tags         game
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Season id"
// @Success      200  {object}  deckStateResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/seasons/{id}/deck [get]
func (h *GameHandler) GetDeck(c echo.Context) error {
	deck, err := h.service.GetDeck(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if deck == nil {
		return echo.NewHTTPError(http.StatusNotFound, "deck has not been reset yet")
	}
	return c.JSON(http.StatusOK, toDeckResponse(deck))
}

// --- mappers ---

func toAttemptResponse(a domain.Attempt) attemptResponse {
	return attemptResponse{
		ID:             a.ID,
		SeasonID:       a.SeasonID,
		CardID:         a.CardID,
		ContestantName: a.ContestantName,
		Correct:        a.Correct,
		RecordedBy:     a.RecordedBy,
		RecordedAt:     a.RecordedAt,
	}
}

func toDeckResponse(d *domain.DeckState) deckStateResponse {
	return deckStateResponse{
		SeasonID:  d.SeasonID,
		Cursor:    d.Cursor,
		Remaining: d.Remaining,
		ResetBy:   d.ResetBy,
		ResetAt:   d.ResetAt,
	}
}

func toCardBreakdownResponses(in []ports.CardBreakdown) []cardBreakdownResponse {
	out := make([]cardBreakdownResponse, len(in))
	for i, cb := range in {
		out[i] = cardBreakdownResponse{
			CardID:    cb.CardID,
			Attempts:  cb.Attempts,
			Correct:   cb.Correct,
			Incorrect: cb.Incorrect,
		}
	}
	return out
}

func outcomeLabel(correct bool) string {
	if correct {
		return "correct"
	}
	return "incorrect"
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCardAssociation):
		return "invalid_association"
	case errors.Is(err, domain.ErrSeasonNotFound):
		return "season_not_found"
	case errors.Is(err, domain.ErrAttemptRecording):
		return "validation_failed"
	default:
		return "append_failed"
	}
}
