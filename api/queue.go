package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Domenick1991/opdqueue/internal/domain"
	"github.com/Domenick1991/opdqueue/internal/live"
	"github.com/Domenick1991/opdqueue/internal/service/queue"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var now = time.Now

func today() string {
	return now().Format(domain.DateLayout)
}

type QueueDisplay interface {
	Board(ctx context.Context, doctorID, date string, limits queue.Limits) (*queue.Board, error)
	Hall(ctx context.Context, date string, limits queue.Limits) (*queue.Hall, error)
}

type HallPusher interface {
	Serve(ctx context.Context, conn *websocket.Conn, snapshot live.Snapshot, expiresAt time.Time)
}

type QueueHandler struct {
	display QueueDisplay
	hub     HallPusher
	limits  queue.Limits
}

func NewQueueHandler(display QueueDisplay, hub HallPusher, hallLimits queue.Limits) *QueueHandler {
	return &QueueHandler{display: display, hub: hub, limits: hallLimits}
}

// Register mounts the staff queue console behind admin and the waiting hall behind hall.
func (h *QueueHandler) Register(router *gin.RouterGroup, admin, hall gin.HandlerFunc) {
	router.GET("/queue/:doctorId", admin, h.board)

	display := router.Group("/hall", hall)
	display.GET("", h.hall)
	display.GET("/ws", h.hallSocket)
}

func (h *QueueHandler) board(c *gin.Context) {
	date := c.DefaultQuery("date", today())
	board, err := h.display.Board(c.Request.Context(), c.Param("doctorId"), date, queue.Limits{})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *QueueHandler) hall(c *gin.Context) {
	hall, err := h.display.Hall(c.Request.Context(), c.DefaultQuery("date", today()), h.limits)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, hall)
}

// hallSocket pushes the hall on every change and poll tick until the display session expires.
func (h *QueueHandler) hallSocket(c *gin.Context) {
	st, ok := sessionStatus(c)
	if !ok {
		writeError(c, domain.ErrAuth)
		return
	}
	fixedDate := c.Query("date")
	if fixedDate != "" && !domain.ValidDate(fixedDate) {
		writeError(c, domain.NewValidationError("date", "date must be YYYY-MM-DD"))
		return
	}

	conn, err := live.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already replied.
		_ = c.Error(err)
		return
	}
	snapshot := func(ctx context.Context) (interface{}, error) {
		date := fixedDate
		if date == "" {
			date = today()
		}
		return h.display.Hall(ctx, date, h.limits)
	}
	h.hub.Serve(c.Request.Context(), conn, snapshot, st.ExpiresAt)
}
