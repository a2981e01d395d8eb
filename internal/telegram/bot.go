package telegram

import (
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"quantumine/internal/openai"
	"quantumine/internal/performance"
)

type Bot struct {
	api *tgbotapi.BotAPI
	h   *Handlers
}

// NewBot connects to Telegram and points its webhook at webhookURL.
func NewBot(token, webhookURL string, analyzer *performance.Analyzer, charts *performance.ChartRenderer, agent *openai.Agent) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	webhook, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, err
	}
	if _, err := api.Request(webhook); err != nil {
		return nil, err
	}
	log.Info().Str("url", webhookURL).Str("bot", api.Self.UserName).Msg("telegram: webhook set")

	return &Bot{api: api, h: NewHandlers(api, analyzer, charts, agent)}, nil
}

// WebhookHandler serves /telegram/webhook.
func (b *Bot) WebhookHandler() http.Handler {
	return webhookHandler(b.h)
}

func webhookHandler(h *Handlers) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, "bad update", http.StatusBadRequest)
			return
		}
		m := update.Message
		if m == nil || m.Chat == nil {
			log.Debug().Int("update_id", update.UpdateID).Msg("webhook: non-message update received")
			w.WriteHeader(http.StatusOK)
			return
		}
		ev := log.Debug().Int64("chat_id", m.Chat.ID).Str("text", m.Text)
		if m.From != nil {
			ev = ev.Int64("from", m.From.ID)
		}
		ev.Msg("webhook: message")
		go h.HandleMessage(m)
		w.WriteHeader(http.StatusOK)
	})
}
