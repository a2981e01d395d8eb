package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"quantumine/internal/openai"
	"quantumine/internal/performance"
)

var (
	// /perf [selection], /live [selection]
	reChart = regexp.MustCompile(`^/(perf|live)(?:@[\w_]+)?(?:\s+(.+))?$`)
	// /matrix [backtest|live]
	reMatrix = regexp.MustCompile(`^/matrix(?:@[\w_]+)?(?:\s+(\w+))?$`)
	// /export [selection]
	reExport = regexp.MustCompile(`^/export(?:@[\w_]+)?(?:\s+(.+))?$`)
	// /ask question...
	reAsk = regexp.MustCompile(`(?s)^/ask(?:@[\w_]+)?(?:\s+(.+))?$`)
	// /insight [selection]
	reInsight = regexp.MustCompile(`^/insight(?:@[\w_]+)?(?:\s+(.+))?$`)
	reHelp    = regexp.MustCompile(`^/(help|start)(?:@[\w_]+)?$`)
)

// Telegram rejects photo captions above this many characters.
const maxCaption = 1024

const agentTimeout = 45 * time.Second

// Sender is the part of the Bot API the handlers use.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Handlers struct {
	api      Sender
	analyzer *performance.Analyzer
	charts   *performance.ChartRenderer
	agent    *openai.Agent
}

func NewHandlers(api Sender, analyzer *performance.Analyzer, charts *performance.ChartRenderer, agent *openai.Agent) *Handlers {
	return &Handlers{api: api, analyzer: analyzer, charts: charts, agent: agent}
}

func (h *Handlers) HandleMessage(m *tgbotapi.Message) {
	chatID := m.Chat.ID
	txt := strings.TrimSpace(m.Text)
	switch {
	case reChart.MatchString(txt):
		g := reChart.FindStringSubmatch(txt)
		view := performance.ViewBenchmark
		if g[1] == "live" {
			view = performance.ViewLive
		}
		h.handleChart(chatID, view, g[2])

	case reMatrix.MatchString(txt):
		h.handleMatrix(chatID, reMatrix.FindStringSubmatch(txt)[1])

	case reExport.MatchString(txt):
		h.handleExport(chatID, reExport.FindStringSubmatch(txt)[1])

	case reAsk.MatchString(txt):
		q := strings.TrimSpace(reAsk.FindStringSubmatch(txt)[1])
		if q == "" {
			h.reply(chatID, "Ask me something, e.g. /ask how risky is the strategy?")
			return
		}
		h.handleAsk(chatID, q)

	case reInsight.MatchString(txt):
		h.handleInsight(chatID, reInsight.FindStringSubmatch(txt)[1])

	case reHelp.MatchString(txt):
		h.handleHelp(chatID)
	}
}

// view resolves a selection argument, replying with usage when it is invalid.
func (h *Handlers) view(chatID int64, args string) (performance.View, bool) {
	sel, err := performance.ParseSelection(args)
	if err != nil {
		h.reply(chatID, fmt.Sprintf("Unknown range %q. Try all, 3y, 2021, 2019-2023 or 2022-01-01..2023-06-30.", strings.TrimSpace(args)))
		return performance.View{}, false
	}
	return h.analyzer.View(sel), true
}

func (h *Handlers) handleChart(chatID int64, view performance.ChartView, args string) {
	v, ok := h.view(chatID, args)
	if !ok {
		return
	}
	img, err := h.charts.Comparison(v.Series, view, v.Selection)
	if err != nil {
		h.reply(chatID, "Chart failed: "+err.Error())
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "quantumine_" + string(view) + ".png", Bytes: img})
	photo.Caption = truncate(performance.FormatBriefing(v), maxCaption)
	h.send(photo)
}

func (h *Handlers) handleMatrix(chatID int64, field string) {
	f, err := performance.ParseField(field)
	if err != nil || f == performance.FieldBenchmark {
		h.reply(chatID, "Usage: /matrix [backtest|live]")
		return
	}
	m := performance.BuildMatrix(h.analyzer.Series(), f)

	msg := tgbotapi.NewMessage(chatID, "<pre>"+html.EscapeString(performance.FormatMatrix(m))+"</pre>")
	msg.ParseMode = tgbotapi.ModeHTML
	h.send(msg)

	if len(m.Years()) == 0 {
		return
	}
	img, err := h.charts.YearlyTotals(m)
	if err != nil {
		h.reply(chatID, "Chart failed: "+err.Error())
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "quantumine_matrix_" + f.String() + ".png", Bytes: img})
	photo.Caption = "Yearly totals • " + strings.ToUpper(f.String())
	h.send(photo)
}

func (h *Handlers) handleExport(chatID int64, args string) {
	v, ok := h.view(chatID, args)
	if !ok {
		return
	}
	var buf strings.Builder
	if err := performance.WriteCSV(&buf, v.Series); err != nil {
		h.reply(chatID, "Export failed: "+err.Error())
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: performance.ExportFilename, Bytes: []byte(buf.String())})
	doc.Caption = fmt.Sprintf("%s • %d rows", v.Selection, len(v.Series))
	h.send(doc)
}

func (h *Handlers) handleAsk(chatID int64, question string) {
	ctx, cancel := context.WithTimeout(context.Background(), agentTimeout)
	defer cancel()
	briefing := performance.FormatBriefing(h.analyzer.View(performance.All))
	ans, err := h.agent.Ask(ctx, question, briefing)
	if errors.Is(err, openai.ErrEmptyQuestion) {
		h.reply(chatID, "Ask me something, e.g. /ask how risky is the strategy?")
		return
	}
	if err != nil {
		h.reply(chatID, "Agent failed: "+err.Error())
		return
	}
	h.reply(chatID, ans.Text)
}

func (h *Handlers) handleInsight(chatID int64, args string) {
	v, ok := h.view(chatID, args)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), agentTimeout)
	defer cancel()
	ans, err := h.agent.Commentary(ctx, performance.FormatBriefing(v))
	if err != nil {
		h.reply(chatID, "Insight failed: "+err.Error())
		return
	}
	h.reply(chatID, ans.Text)
}

func (h *Handlers) handleHelp(chatID int64) {
	help := "Commands\n\n" +
		"- /perf [range] - Backtest vs S&P500 chart with metrics\n" +
		"- /live [range] - Backtest vs live trading chart\n" +
		"- /matrix [backtest|live] - Monthly profit matrix and yearly totals\n" +
		"- /export [range] - CSV of the selected returns\n" +
		"- /ask QUESTION - Ask the market agent about the strategy\n" +
		"- /insight [range] - Short commentary on the selected period\n" +
		"\nRanges: all, 1y..30y, 2021, 2019-2023, 2022-01-01..2023-06-30. Values are cumulative returns in %."
	h.reply(chatID, help)
}

func (h *Handlers) reply(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}

func (h *Handlers) send(c tgbotapi.Chattable) {
	if _, err := h.api.Send(c); err != nil {
		log.Warn().Err(err).Msg("telegram: send failed")
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
