package api

import (
	"context"
	"net/http"

	"github.com/Domenick1991/opdqueue/internal/domain"
	"github.com/gin-gonic/gin"
)

type DoctorService interface {
	Doctors(ctx context.Context) ([]domain.Doctor, error)
	Doctor(ctx context.Context, id string) (*domain.Doctor, error)
	Create(ctx context.Context, doctor domain.Doctor) (*domain.Doctor, error)
	Update(ctx context.Context, id string, doctor domain.Doctor) (*domain.Doctor, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.Doctor, error)
	Delete(ctx context.Context, id string) error
}

type DoctorHandler struct {
	service DoctorService
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func NewDoctorHandler(service DoctorService) *DoctorHandler {
	return &DoctorHandler{service: service}
}

func (h *DoctorHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.GET("/doctors", h.list)
	router.GET("/doctors/:id", h.get)

	staff := router.Group("/doctors", auth)
	staff.POST("", h.create)
	staff.PUT("/:id", h.update)
	staff.PATCH("/:id/active", h.setActive)
	staff.DELETE("/:id", h.delete)
}

func (h *DoctorHandler) list(c *gin.Context) {
	doctors, err := h.service.Doctors(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doctors)
}

func (h *DoctorHandler) get(c *gin.Context) {
	doctor, err := h.service.Doctor(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doctor)
}

func (h *DoctorHandler) create(c *gin.Context) {
	var req domain.Doctor
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *DoctorHandler) update(c *gin.Context) {
	var req domain.Doctor
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	updated, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *DoctorHandler) setActive(c *gin.Context) {
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	updated, err := h.service.SetActive(c.Request.Context(), c.Param("id"), *req.Active)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *DoctorHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
