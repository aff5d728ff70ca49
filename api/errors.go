package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/opdqueue/internal/domain"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// classify maps the domain taxonomy onto an HTTP status and a stable code.
func classify(err error) (int, string) {
	var race *domain.RaceError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, domain.ErrAuth):
		return http.StatusUnauthorized, "AUTH_ERROR"
	case errors.Is(err, domain.ErrBookingInProgress):
		return http.StatusLocked, "BOOKING_IN_PROGRESS"
	case errors.As(err, &race) && errors.Is(err, domain.ErrSlotTaken):
		return http.StatusConflict, "SLOT_JUST_TAKEN"
	case errors.Is(err, domain.ErrSlotTaken):
		return http.StatusConflict, "SLOT_TAKEN"
	case errors.Is(err, domain.ErrCapacityExceeded):
		return http.StatusConflict, "CAPACITY_EXCEEDED"
	case errors.Is(err, domain.ErrDoctorBusy):
		return http.StatusConflict, "DOCTOR_BUSY"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_TRANSITION"
	}
	return http.StatusInternalServerError, "INTERNAL"
}

func writeError(c *gin.Context, err error) {
	code, name := classify(err)
	resp := errorResponse{Error: err.Error(), Code: name}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Field = verr.Field
	}
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		resp.Error = "internal error"
	}
	c.AbortWithStatusJSON(code, resp)
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "BAD_REQUEST"})
}
