package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/report/model"
	"library-backend/internal/domains/report/service"
	"library-backend/internal/shared/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	service service.Service
}

func NewReportHandler(service service.Service) *ReportHandler {
	return &ReportHandler{service: service}
}

func reportRequest(c *gin.Context) model.BorrowingReportRequest {
	req := model.BorrowingReportRequest{
		Search: c.Query("search"),
		Status: c.DefaultQuery("status", model.StatusAll),
	}
	req.Page, _ = strconv.Atoi(c.Query("page"))
	req.Limit, _ = strconv.Atoi(c.Query("limit"))
	return req
}

// Dashboard - GET /admin/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	data, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, "Dashboard retrieved successfully", data)
}

// BorrowingReport - GET /reports/borrowings
func (h *ReportHandler) BorrowingReport(c *gin.Context) {
	data, err := h.service.BorrowingReport(c.Request.Context(), reportRequest(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, "Borrowing report retrieved successfully", data)
}

// ExportBorrowings - GET /reports/borrowings/export
func (h *ReportHandler) ExportBorrowings(c *gin.Context) {
	f, err := h.service.ExportBorrowings(c.Request.Context(), reportRequest(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("laporan-peminjaman-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		log.Error().Err(err).Msg("[ReportHandler] Failed to write export")
	}
}
