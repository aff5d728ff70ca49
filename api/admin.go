package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Resetter interface {
	Reset(ctx context.Context) error
}

type AdminHandler struct {
	resetter Resetter
}

func NewAdminHandler(resetter Resetter) *AdminHandler {
	return &AdminHandler{resetter: resetter}
}

func (h *AdminHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.POST("/admin/reset", auth, h.reset)
}

func (h *AdminHandler) reset(c *gin.Context) {
	if err := h.resetter.Reset(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
