package api

import (
	"fmt"
	"net/http"

	"github.com/Domenick1991/opdqueue/internal/domain"
	"github.com/Domenick1991/opdqueue/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionHandler struct {
	guard SessionGuard
}

type loginRequest struct {
	Password string `json:"password"`
}

type sessionResponse struct {
	Holder string `json:"holder"`
	session.Status
}

func NewSessionHandler(guard SessionGuard) *SessionHandler {
	return &SessionHandler{guard: guard}
}

func (h *SessionHandler) Register(router *gin.RouterGroup) {
	router.POST("/:scope", h.login)
	router.GET("/:scope", h.status)
	router.DELETE("/:scope", h.logout)
	router.DELETE("", h.logoutAll)
}

func scopeParam(c *gin.Context) (domain.Scope, bool) {
	scope := domain.Scope(c.Param("scope"))
	if !scope.Valid() {
		writeError(c, domain.NewValidationError("scope", fmt.Sprintf("unknown scope %q", scope)))
		return "", false
	}
	return scope, true
}

func (h *SessionHandler) login(c *gin.Context) {
	scope, ok := scopeParam(c)
	if !ok {
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	holder := holderID(c)
	if holder == "" {
		holder = uuid.NewString()
	}
	granted, err := h.guard.Login(c.Request.Context(), holder, scope, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	if !granted {
		writeError(c, domain.ErrAuth)
		return
	}
	st, err := h.guard.Status(c.Request.Context(), holder, scope)
	if err != nil {
		writeError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, holder, 0, "/", "", false, true)
	c.JSON(http.StatusOK, sessionResponse{Holder: holder, Status: st})
}

func (h *SessionHandler) status(c *gin.Context) {
	scope, ok := scopeParam(c)
	if !ok {
		return
	}
	holder := holderID(c)
	st, err := h.guard.Status(c.Request.Context(), holder, scope)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{Holder: holder, Status: st})
}

func (h *SessionHandler) logout(c *gin.Context) {
	scope, ok := scopeParam(c)
	if !ok {
		return
	}
	if holder := holderID(c); holder != "" {
		if err := h.guard.Logout(c.Request.Context(), holder, scope); err != nil {
			writeError(c, err)
			return
		}
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) logoutAll(c *gin.Context) {
	if holder := holderID(c); holder != "" {
		if err := h.guard.LogoutAll(c.Request.Context(), holder); err != nil {
			writeError(c, err)
			return
		}
	}
	c.Status(http.StatusNoContent)
}
