package api

import (
	"context"
	"net/http"

	"github.com/Domenick1991/opdqueue/internal/domain"
	"github.com/gin-gonic/gin"
)

type InquiryService interface {
	Inquiries(ctx context.Context) ([]domain.ContactInquiry, error)
	SubmitInquiry(ctx context.Context, inquiry domain.ContactInquiry) (*domain.ContactInquiry, error)
	DeleteInquiry(ctx context.Context, id string) error
}

type InquiryHandler struct {
	service InquiryService
}

func NewInquiryHandler(service InquiryService) *InquiryHandler {
	return &InquiryHandler{service: service}
}

func (h *InquiryHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.POST("/inquiries", h.submit)

	staff := router.Group("/inquiries", auth)
	staff.GET("", h.list)
	staff.DELETE("/:id", h.delete)
}

func (h *InquiryHandler) submit(c *gin.Context) {
	var req domain.ContactInquiry
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	created, err := h.service.SubmitInquiry(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *InquiryHandler) list(c *gin.Context) {
	inquiries, err := h.service.Inquiries(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, inquiries)
}

func (h *InquiryHandler) delete(c *gin.Context) {
	if err := h.service.DeleteInquiry(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
