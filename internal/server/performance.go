package server

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"quantumine/internal/performance"
)

// selectionFromQuery reads range, fromYear, toYear, from and to.
func selectionFromQuery(c *gin.Context) (performance.Selection, error) {
	return performance.SelectionFromParams(
		c.Query("range"), c.Query("fromYear"), c.Query("toYear"), c.Query("from"), c.Query("to"),
	)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (h *handlers) handlePerformance(c *gin.Context) {
	sel, err := selectionFromQuery(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Analyzer.View(sel))
}

func (h *handlers) handleYears(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"years": h.Analyzer.AvailableYears()})
}

func (h *handlers) handleMatrix(c *gin.Context) {
	field, err := performance.ParseField(c.Query("field"))
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, performance.BuildMatrix(h.Analyzer.Series(), field))
}

func (h *handlers) handleExport(c *gin.Context) {
	sel, err := selectionFromQuery(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	var buf bytes.Buffer
	if err := performance.WriteCSV(&buf, h.Analyzer.View(sel).Series); err != nil {
		log.Error().Err(err).Msg("export: csv write failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+performance.ExportFilename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *handlers) handleChart(c *gin.Context) {
	sel, err := selectionFromQuery(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	view, err := performance.ParseChartView(c.Query("view"))
	if err != nil {
		badRequest(c, err)
		return
	}
	v := h.Analyzer.View(sel)
	img, err := h.Charts.Comparison(v.Series, view, v.Selection)
	if err != nil {
		log.Error().Err(err).Str("view", string(view)).Msg("chart: render failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "chart rendering failed"})
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}

func (h *handlers) handleAgent(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required,max=2000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	briefing := performance.FormatBriefing(h.Analyzer.View(performance.All))
	ans, err := h.Agent.Ask(c.Request.Context(), req.Message, briefing)
	if err != nil {
		badRequest(c, err)
		return
	}
	if h.Metrics != nil {
		h.Metrics.AgentQuestions.WithLabelValues(ans.Source).Inc()
	}
	c.JSON(http.StatusOK, ans)
}
