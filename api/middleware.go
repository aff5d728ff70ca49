package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Domenick1991/opdqueue/internal/domain"
	"github.com/Domenick1991/opdqueue/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "opd_session"

	sessionStatusKey = "session_status"
)

type SessionGuard interface {
	Login(ctx context.Context, holder string, scope domain.Scope, password string) (bool, error)
	Status(ctx context.Context, holder string, scope domain.Scope) (session.Status, error)
	Require(ctx context.Context, holder string, scope domain.Scope) (session.Status, error)
	Logout(ctx context.Context, holder string, scope domain.Scope) error
	LogoutAll(ctx context.Context, holder string) error
}

// holderID reads the session holder from the header, then the cookie.
func holderID(c *gin.Context) string {
	if h := c.GetHeader(SessionHeader); h != "" {
		return h
	}
	if v, err := c.Cookie(SessionCookie); err == nil {
		return v
	}
	return ""
}

// RequireScope aborts with 401 unless the holder's session for scope is active.
func RequireScope(guard SessionGuard, scope domain.Scope) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := guard.Require(c.Request.Context(), holderID(c), scope)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Set(sessionStatusKey, st)
		c.Next()
	}
}

func sessionStatus(c *gin.Context) (session.Status, bool) {
	v, ok := c.Get(sessionStatusKey)
	if !ok {
		return session.Status{}, false
	}
	st, ok := v.(session.Status)
	return st, ok
}

func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("http request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("http request", fields...)
		default:
			log.Info("http request", fields...)
		}
	}
}
