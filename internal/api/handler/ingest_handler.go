package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/triviahq/gameshow-system/internal/core/ports"
)

// AttemptDispatcher is the interface the handler uses to enqueue attempts
// for asynchronous recording.
type AttemptDispatcher interface {
	Enqueue(input ports.RecordAttemptInput)
	EnqueueBatch(inputs []ports.RecordAttemptInput)
}

// IngestHandler handles bulk attempt ingestion from scoring consoles. The
// single-attempt endpoint stays synchronous; this path trades immediate
// results for throughput and per-season ordering.
type IngestHandler struct {
	dispatcher AttemptDispatcher
}

func NewIngestHandler(dispatcher AttemptDispatcher) *IngestHandler {
	return &IngestHandler{dispatcher: dispatcher}
}

// ReceiveBatch handles POST /v1/attempts/batch: validates the batch,
// enqueues it, and returns 202.
//
// @Summary      Ingest a batch of attempts
// @Tags         game
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      []recordAttemptRequest  true  "Array of attempts"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/attempts/batch [post]
func (h *IngestHandler) ReceiveBatch(c echo.Context) error {
	userID, _, err := ctxSession(c)
	if err != nil {
		return err
	}

	var reqs []recordAttemptRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch cannot be empty")
	}

	inputs := make([]ports.RecordAttemptInput, 0, len(reqs))
	for i, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("attempt[%d]: %s", i, err.Error()))
		}
		inputs = append(inputs, ports.RecordAttemptInput{
			SeasonID:       req.SeasonID,
			CardID:         req.CardID,
			ContestantName: req.ContestantName,
			Correct:        *req.Correct,
			RecordedBy:     userID,
		})
	}

	h.dispatcher.EnqueueBatch(inputs)
	return c.JSON(http.StatusAccepted, acceptedResponse{
		Message: "attempts accepted",
		Count:   len(inputs),
	})
}
