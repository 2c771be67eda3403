package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/rms/internal/errors"
	"github.com/stwalsh4118/rms/internal/models"
	"github.com/stwalsh4118/rms/internal/services"
)

// ReminderHandler lets an admin trigger the due-rent e-mail sweep.
type ReminderHandler struct {
	reminders services.ReminderService
	now       func() time.Time
}

// NewReminderHandler creates a new ReminderHandler instance.
func NewReminderHandler(reminders services.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminders: reminders, now: time.Now}
}

// SendDueRentResponse reports how many reminders went out.
type SendDueRentResponse struct {
	Date string `json:"date"`
	Sent int    `json:"sent"`
}

// SendDueRent handles POST /api/v1/admin/send-due-rent. The optional date
// query parameter (YYYY-MM-DD) defaults to today.
func (h *ReminderHandler) SendDueRent(c *gin.Context) {
	date := models.DateOf(h.now())
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid date", map[string]interface{}{"date": "Must be a date in YYYY-MM-DD format"})
			return
		}
		date = parsed
	}

	sent, err := h.reminders.SendDueRentReminders(c.Request.Context(), date)
	if err != nil {
		apierrors.DomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, SendDueRentResponse{Date: models.FormatDate(date), Sent: sent})
}
