package api

import (
	"context"
	"net/http"

	"github.com/Domenick1991/opdqueue/internal/domain"
	"github.com/Domenick1991/opdqueue/internal/repository"
	"github.com/Domenick1991/opdqueue/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type setStatusRequest struct {
	Status domain.BookingStatus `json:"status" binding:"required"`
}

// bookingResponse carries the staff actions the console may offer for the current status.
type bookingResponse struct {
	domain.Booking
	AllowedActions []domain.Action `json:"allowed_actions"`
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{Booking: b, AllowedActions: domain.AllowedActions(b.Status)}
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

// Register wires the public booking form and, behind auth, the admin console routes.
func (h *BookingHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.POST("/bookings", h.create)
	router.GET("/doctors/:id/availability", h.availability)

	admin := router.Group("/bookings", auth)
	admin.GET("", h.list)
	admin.GET("/:id", h.get)
	admin.PUT("/:id/status", h.setStatus)
	admin.POST("/:id/call", h.transition(h.service.Call))
	admin.POST("/:id/finish", h.transition(h.service.Finish))
	admin.POST("/:id/absent", h.transition(h.service.MarkAbsent))
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(*created))
}

func (h *BookingHandler) availability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = today()
	}
	av, err := h.service.Availability(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, av)
}

func (h *BookingHandler) list(c *gin.Context) {
	bookings, err := h.service.List(c.Request.Context(), repository.BookingFilter{
		DoctorID: c.Query("doctor_id"),
		Date:     c.Query("date"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) get(c *gin.Context) {
	b, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(*b))
}

func (h *BookingHandler) setStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	updated, err := h.service.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(*updated))
}

func (h *BookingHandler) transition(op func(ctx context.Context, id string) (*domain.Booking, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		updated, err := op(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toBookingResponse(*updated))
	}
}
