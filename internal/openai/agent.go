package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/rs/zerolog/log"
)

const (
	SourceOpenAI  = "openai"
	SourceOffline = "offline"
)

var ErrEmptyQuestion = errors.New("question is empty")

// Completer runs one system+user chat turn.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type chatCompleter struct {
	cli   oa.Client
	model string
}

func (c *chatCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.cli.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.SystemMessage(system),
			oa.UserMessage(user),
		},
		MaxTokens: oa.Int(800), // short enough for a chat bubble or a telegram message
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Answer is an agent reply and where it came from.
type Answer struct {
	Text   string `json:"reply"`
	Source string `json:"source"`
}

// Agent answers market questions, grounded on the current performance briefing.
// Without a Completer it answers from canned keyword responses.
type Agent struct {
	llm Completer
}

// NewAgent uses OpenAI when apiKey is set and offline answers otherwise.
func NewAgent(apiKey, model string) *Agent {
	if apiKey == "" {
		return &Agent{}
	}
	if model == "" {
		model = "gpt-4"
	}
	return &Agent{llm: &chatCompleter{cli: oa.NewClient(option.WithAPIKey(apiKey)), model: model}}
}

// NewAgentWith wraps an arbitrary Completer; nil means offline only.
func NewAgentWith(c Completer) *Agent {
	return &Agent{llm: c}
}

// Online reports whether answers come from a model.
func (a *Agent) Online() bool { return a.llm != nil }

const askSystemPrompt = `You are the Quantumine AI market agent on a quantitative-trading demo site. Answer in at most 150 words, in plain text with short bullets.

Ground every performance figure you quote in the briefing supplied with the question; never invent returns. The figures are illustrative backtest data, say so when asked about live results. Do not give personalised financial advice.`

const commentarySystemPrompt = `You write a three-sentence commentary on a strategy performance briefing for a marketing page. Mention total return against the S&P500, the risk profile (drawdown, volatility, Sharpe) and one caveat that the figures come from a backtest. Plain text only.`

// Ask answers question. A model failure degrades to the offline answer.
func (a *Agent) Ask(ctx context.Context, question, briefing string) (Answer, error) {
	q := SanitizeQuestion(question)
	if q == "" {
		return Answer{}, ErrEmptyQuestion
	}
	if a.llm != nil {
		user := "Performance briefing:\n" + briefing + "\n\nQuestion: " + q
		text, err := a.llm.Complete(ctx, askSystemPrompt, user)
		if err == nil && text != "" {
			return Answer{Text: text, Source: SourceOpenAI}, nil
		}
		log.Warn().Err(err).Msg("agent: model unavailable, answering offline")
	}
	return Answer{Text: offlineAnswer(q, briefing), Source: SourceOffline}, nil
}

// Commentary narrates a briefing; offline it returns the briefing itself.
func (a *Agent) Commentary(ctx context.Context, briefing string) (Answer, error) {
	if strings.TrimSpace(briefing) == "" {
		return Answer{}, fmt.Errorf("empty briefing")
	}
	if a.llm != nil {
		text, err := a.llm.Complete(ctx, commentarySystemPrompt, briefing)
		if err == nil && text != "" {
			return Answer{Text: text, Source: SourceOpenAI}, nil
		}
		log.Warn().Err(err).Msg("agent: commentary unavailable, returning briefing")
	}
	return Answer{Text: briefing, Source: SourceOffline}, nil
}
