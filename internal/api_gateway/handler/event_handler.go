package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/payments-engine/internal/api_gateway/middleware"
	"github.com/payments-engine/internal/api_gateway/service"
	"github.com/payments-engine/internal/domain/transaction"
)

var errInvalidAmount = errors.New("amount must be a decimal number")

// EventHandler accepts single events for the stream processor
type EventHandler struct {
	eventService service.EventService
	logger       *slog.Logger
}

func NewEventHandler(logger *slog.Logger, eventService service.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		logger:       logger,
	}
}

// Submit validates the event shape and publishes it. The engine's verdict is
// not known yet, so success is 202 Accepted.
func (h *EventHandler) Submit(c *gin.Context) {
	var req SubmitEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	event, err := req.toEvent()
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	eventID, err := h.eventService.SubmitEvent(c.Request.Context(), event, middleware.GetCorrelationID(c))
	if err != nil {
		h.logger.Error("Failed to submit event", "error", err)
		RespondInternalError(c)
		return
	}

	RespondAccepted(c, EventAcceptedResponse{
		EventID: eventID.String(),
		Status:  "ACCEPTED",
	})
}

func (r SubmitEventRequest) toEvent() (transaction.Event, error) {
	t, err := transaction.ParseType(r.Type)
	if err != nil {
		return transaction.Event{}, err
	}

	event := transaction.Event{Type: t, Client: *r.Client, Tx: *r.Tx}
	if r.Amount != nil {
		amount, err := transaction.ParseAmount(*r.Amount)
		if errors.Is(err, transaction.ErrAmountOutOfRange) {
			return transaction.Event{}, err
		}
		if err != nil {
			return transaction.Event{}, errInvalidAmount
		}
		event.Amount = &amount
	}

	if !event.FormatValid() {
		return transaction.Event{}, transaction.ErrInconsistentAmount
	}
	return event, nil
}
