package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/opdqueue/config"
	"github.com/Domenick1991/opdqueue/internal/domain"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	Sessions  *SessionHandler
	Bookings  *BookingHandler
	Doctors   *DoctorHandler
	Inquiries *InquiryHandler
	Queue     *QueueHandler
	Reports   *ReportHandler
	Admin     *AdminHandler
}

func corsConfig(cfg config.HTTPConfig) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", SessionHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = cfg.AllowedOrigins
	c.AllowCredentials = true
	return c
}

func NewRouter(cfg config.HTTPConfig, guard SessionGuard, h Handlers, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(log), gin.Recovery(), cors.New(corsConfig(cfg)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v := r.Group("/api")
	h.Sessions.Register(v.Group("/sessions"))
	h.Bookings.Register(v, RequireScope(guard, domain.ScopeAdmin))
	h.Doctors.Register(v, RequireScope(guard, domain.ScopeDoctors))
	h.Inquiries.Register(v, RequireScope(guard, domain.ScopeInquiries))
	h.Queue.Register(v, RequireScope(guard, domain.ScopeAdmin), RequireScope(guard, domain.ScopeLiveDisplay))
	h.Reports.Register(v, RequireScope(guard, domain.ScopeFinancials))
	h.Admin.Register(v, RequireScope(guard, domain.ScopeAdmin))
	return r
}
