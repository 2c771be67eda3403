package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	apierrors "github.com/stwalsh4118/rms/internal/errors"
	"github.com/stwalsh4118/rms/internal/middleware"
	"github.com/stwalsh4118/rms/internal/models"
)

// ownerID returns the authenticated owner or writes a 401.
func ownerID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetOwnerID(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds and validates the request body, writing a 400 on failure.
func bindJSON(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return false
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return false
	}
	return true
}

// uuidParam parses a path parameter as a UUID. Malformed IDs are reported
// as not found, the same as IDs of other owners.
func uuidParam(c *gin.Context, name, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		apierrors.NotFound(c, resource+" not found")
		return uuid.Nil, false
	}
	return id, true
}

// periodQuery reads the optional month and year query parameters. Each one
// that is missing defaults to the current month.
func periodQuery(c *gin.Context, now time.Time) (models.Period, bool) {
	current := models.PeriodOf(now)
	month, year := int(current.Month), current.Year

	details := map[string]interface{}{}
	if raw := c.Query("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			details["month"] = "Must be a whole number"
		}
		month = v
	}
	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			details["year"] = "Must be a whole number"
		}
		year = v
	}
	if len(details) > 0 {
		apierrors.BadRequest(c, "Invalid month or year", details)
		return models.Period{}, false
	}

	period, err := models.NewPeriod(month, year)
	if err != nil {
		apierrors.BadRequest(c, err.Error(), nil)
		return models.Period{}, false
	}
	return period, true
}

// parseDate parses an optional YYYY-MM-DD value.
func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func created(c *gin.Context, body any) {
	c.JSON(http.StatusCreated, body)
}
