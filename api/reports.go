package api

import (
	"bytes"
	"context"
	"net/http"

	"github.com/Domenick1991/opdqueue/internal/domain"
	"github.com/Domenick1991/opdqueue/internal/service/report"
	"github.com/gin-gonic/gin"
)

type ReportService interface {
	Report(ctx context.Context, filter report.Filter, search string) (*report.Report, error)
	Patients(ctx context.Context, doctorID string, filter report.Filter, search string) ([]domain.Booking, error)
}

type ReportHandler struct {
	service ReportService
}

func NewReportHandler(service ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	reports := router.Group("/reports", auth)
	reports.GET("", h.report)
	reports.GET("/export", h.export)
	reports.GET("/doctors/:id", h.patients)
}

// bindFilter defaults to today's day report.
func bindFilter(c *gin.Context) (report.Filter, bool) {
	var f report.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		badRequest(c, err)
		return f, false
	}
	if f.Type == "" {
		f.Type = report.FilterDay
	}
	if f.Type == report.FilterDay && f.Value == "" {
		f.Value = today()
	}
	return f, true
}

func (h *ReportHandler) report(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	r, err := h.service.Report(c.Request.Context(), filter, c.Query("search"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *ReportHandler) patients(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	rows, err := h.service.Patients(c.Request.Context(), c.Param("id"), filter, c.Query("search"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) export(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	format := report.Format(c.DefaultQuery("format", string(report.FormatCSV)))
	if format != report.FormatCSV && format != report.FormatXLSX {
		writeError(c, domain.NewValidationError("format", "format must be csv or xlsx"))
		return
	}
	r, err := h.service.Report(c.Request.Context(), filter, c.Query("search"))
	if err != nil {
		writeError(c, err)
		return
	}

	var body []byte
	contentType := report.ContentTypeCSV
	if format == report.FormatXLSX {
		contentType = report.ContentTypeXLSX
		if body, err = report.XLSX(r.Rows); err != nil {
			writeError(c, err)
			return
		}
	} else {
		var buf bytes.Buffer
		if err := report.WriteCSV(&buf, r.Rows); err != nil {
			writeError(c, err)
			return
		}
		body = buf.Bytes()
	}

	c.Header("Content-Disposition", `attachment; filename="`+report.FileName(format, now())+`"`)
	c.Data(http.StatusOK, contentType, body)
}
