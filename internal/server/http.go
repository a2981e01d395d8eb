package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"quantumine/internal/observability"
	"quantumine/internal/openai"
	"quantumine/internal/performance"
)

// Deps are the collaborators the router exposes.
type Deps struct {
	Analyzer *performance.Analyzer
	Charts   *performance.ChartRenderer
	Agent    *openai.Agent
	Metrics  *observability.Metrics
	// Webhook receives Telegram updates; nil leaves the route unregistered.
	Webhook http.Handler
}

type handlers struct {
	Deps
}

// NewRouter wires every route on a fresh gin engine.
func NewRouter(d Deps) *gin.Engine {
	h := &handlers{Deps: d}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID, requestLogger(d.Metrics))

	r.GET("/healthz", h.handleHealthz)
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	perf := r.Group("/api/performance")
	perf.GET("", h.handlePerformance)
	perf.GET("/years", h.handleYears)
	perf.GET("/matrix", h.handleMatrix)
	perf.GET("/export", h.handleExport)
	perf.GET("/chart.png", h.handleChart)

	for path, handler := range map[string]gin.HandlerFunc{
		"/api/contact":    h.handleContact,
		"/api/newsletter": h.handleNewsletter,
		"/api/analytics":  h.handleAnalytics,
	} {
		r.POST(path, allowCORS, handler)
		r.OPTIONS(path, allowCORS, handlePreflight)
	}

	r.POST("/api/agent", h.handleAgent)

	if d.Webhook != nil {
		r.POST("/telegram/webhook", gin.WrapH(d.Webhook))
	}
	return r
}

func (h *handlers) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"time":     time.Now().UTC(),
		"points":   h.Analyzer.Len(),
		"fallback": h.Analyzer.Fallback(),
	})
}

// ListenAndServe serves handler on addr until ctx is done, then drains
// in-flight requests for up to five seconds.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("http: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
