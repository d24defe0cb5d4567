package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/stockpilot/internal/domain/models"
	"github.com/mamadbah2/stockpilot/internal/service/reporting"
)

// InventoryValue returns the backend's aggregate warehouse value.
func (h *Handler) InventoryValue(c *gin.Context) {
	value, err := h.terminal.InventoryValue(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, value)
}

// Dashboard returns the inventory overview over a fresh snapshot.
func (h *Handler) Dashboard(c *gin.Context) {
	products, err := h.terminal.Products(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reporting.BuildDashboard(products))
}

// Finance returns the capital and margin analysis.
func (h *Handler) Finance(c *gin.Context) {
	products, err := h.terminal.Products(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reporting.BuildFinance(products))
}

// Charts returns the chart series for the first ?limit products.
func (h *Handler) Charts(c *gin.Context) {
	limit := reporting.DefaultChartLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.badRequest(c, "charts", err)
			return
		}
		limit = parsed
	}

	products, err := h.terminal.Products(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reporting.BuildCharts(products, limit))
}

// History returns the movement log formatted for display.
func (h *Handler) History(c *gin.Context) {
	var filter models.MovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.badRequest(c, "history", err)
		return
	}

	movements, err := h.terminal.Movements(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reporting.BuildHistory(movements, h.reports.Location()))
}

// DailyCut returns today's cash cut as reported by the backend.
func (h *Handler) DailyCut(c *gin.Context) {
	cut, err := h.terminal.DailyCut(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cut)
}

// DailyCutPDF renders today's cash cut.
func (h *Handler) DailyCutPDF(c *gin.Context) {
	doc, err := h.reports.DailyCutPDF(c.Request.Context(), h.username())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="corte_%s.pdf"`, time.Now().In(h.reports.Location()).Format("2006-01-02")))
	c.Data(http.StatusOK, "application/pdf", doc)
}

// CloseDay archives today's cash cut now instead of waiting for the scheduler.
func (h *Handler) CloseDay(c *gin.Context) {
	record, summary, err := h.reports.CloseDay(c.Request.Context(), h.username())
	if err != nil && record.Date == "" {
		h.fail(c, err)
		return
	}

	body := gin.H{"record": record, "summary": summary}
	if err != nil {
		body["warning"] = err.Error()
	}
	c.JSON(http.StatusOK, body)
}

func (h *Handler) username() string {
	session, _ := h.terminal.Session()
	return session.Username
}
