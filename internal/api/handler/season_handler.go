package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/triviahq/gameshow-system/internal/core/domain"
	"github.com/triviahq/gameshow-system/internal/core/ports"
)

// SeasonHandler is a thin passthrough over the season repository: seasons
// and cards exist in the core only as foreign keys for attempts and decks.
type SeasonHandler struct {
	seasons ports.SeasonRepository
}

func NewSeasonHandler(seasons ports.SeasonRepository) *SeasonHandler {
	return &SeasonHandler{seasons: seasons}
}

type createSeasonRequest struct {
	Name   string `json:"name"   validate:"required"`
	Number int    `json:"number" validate:"required,gte=1"`
}

type addCardRequest struct {
	ID       string `json:"id"       validate:"required"`
	Prompt   string `json:"prompt"   validate:"required"`
	Answer   string `json:"answer"   validate:"required"`
	Category string `json:"category"`
}

// Create handles POST /v1/seasons.
//
// @Summary      Create a season
// @Tags         seasons
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSeasonRequest  true  "Season details"
// @Success      201   {object}  domain.Season
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/seasons [post]
func (h *SeasonHandler) Create(c echo.Context) error {
	var req createSeasonRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	season, err := h.seasons.Create(c.Request().Context(), &domain.Season{
		Name:   req.Name,
		Number: req.Number,
		Cards:  []domain.Card{},
	})
	if err != nil {
		return domain.Infra("create season", err)
	}

	return c.JSON(http.StatusCreated, season)
}

// AddCard handles POST /v1/seasons/:id/cards.
//
// @Summary      Add a card to a season
// @Tags         seasons
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Season id"
// @Param        body  body      addCardRequest  true  "Card details"
// @Success      201   {object}  domain.Season
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/seasons/{id}/cards [post]
func (h *SeasonHandler) AddCard(c echo.Context) error {
	var req addCardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	season, err := h.seasons.AddCard(c.Request().Context(), c.Param("id"), domain.Card{
		ID:       req.ID,
		Prompt:   req.Prompt,
		Answer:   req.Answer,
		Category: req.Category,
	})
	if err != nil {
		return domain.Infra("add card", err)
	}

	return c.JSON(http.StatusCreated, season)
}

// List handles GET /v1/seasons.
//
// @Summary      List seasons
// @Tags         seasons
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Season
// @Failure      401  {object}  errorResponse
// @Router       /v1/seasons [get]
func (h *SeasonHandler) List(c echo.Context) error {
	seasons, err := h.seasons.List(c.Request().Context())
	if err != nil {
		return domain.Infra("list seasons", err)
	}
	return c.JSON(http.StatusOK, seasons)
}

// Get handles GET /v1/seasons/:id.
//
// @Summary      Get a season by id
// @Tags         seasons
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Season id"
// @Success      200  {object}  domain.Season
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/seasons/{id} [get]
func (h *SeasonHandler) Get(c echo.Context) error {
	season, err := h.seasons.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return domain.Infra("find season", err)
	}
	return c.JSON(http.StatusOK, season)
}
