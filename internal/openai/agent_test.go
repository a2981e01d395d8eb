package openai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const briefing = "📈 Quantumine Performance (ALL)\n\nTotal Return: 199.1%\nS&P500 Return: 355.6%\nCAGR: 6.3%\nSharpe: 0.41\nMax Drawdown: -12.0%\nVolatility: 10.5%\n\nOutperformance vs S&P500: -156.5%\n"

type stubCompleter struct {
	reply  string
	err    error
	system string
	user   string
}

func (s *stubCompleter) Complete(_ context.Context, system, user string) (string, error) {
	s.system, s.user = system, user
	return s.reply, s.err
}

func TestAsk_Offline(t *testing.T) {
	a := NewAgent("", "")
	assert.False(t, a.Online())

	ans, err := a.Ask(context.Background(), "Give me today's briefing", briefing)
	require.NoError(t, err)
	assert.Equal(t, SourceOffline, ans.Source)
	assert.Equal(t, briefing, ans.Text)

	ans, err = a.Ask(context.Background(), "What is the max drawdown risk?", briefing)
	require.NoError(t, err)
	assert.Contains(t, ans.Text, "Max Drawdown: -12.0%")
	assert.Contains(t, ans.Text, "Sharpe: 0.41")
	assert.NotContains(t, ans.Text, "CAGR")

	ans, err = a.Ask(context.Background(), "Do you beat the S&P?", briefing)
	require.NoError(t, err)
	assert.Contains(t, ans.Text, "Outperformance vs S&P500")

	ans, err = a.Ask(context.Background(), "What about gold after the Putin talks?", briefing)
	require.NoError(t, err)
	assert.Equal(t, goldAnswer, ans.Text)

	ans, err = a.Ask(context.Background(), "New Trump tariffs?", briefing)
	require.NoError(t, err)
	assert.Equal(t, policyAnswer, ans.Text)
}

func TestAsk_GeneralAnswerIsStable(t *testing.T) {
	a := NewAgent("", "")
	first, err := a.Ask(context.Background(), "Is the rate cut priced in?", "")
	require.NoError(t, err)
	again, err := a.Ask(context.Background(), "Is the rate cut priced in?", "")
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Contains(t, generalAnswers, first.Text)
}

func TestAsk_Empty(t *testing.T) {
	_, err := NewAgent("", "").Ask(context.Background(), "  <> https://example.com ", briefing)
	assert.ErrorIs(t, err, ErrEmptyQuestion)
}

func TestAsk_UsesModelWithBriefing(t *testing.T) {
	stub := &stubCompleter{reply: "Backtest figures show 199.1% total return."}
	a := NewAgentWith(stub)
	require.True(t, a.Online())

	ans, err := a.Ask(context.Background(), "How did it do? ![chart](http://x/y.png)", briefing)
	require.NoError(t, err)
	assert.Equal(t, SourceOpenAI, ans.Source)
	assert.Equal(t, stub.reply, ans.Text)
	assert.Contains(t, stub.user, "Total Return: 199.1%")
	assert.True(t, strings.HasSuffix(stub.user, "Question: How did it do?"))
}

func TestAsk_ModelFailureFallsBack(t *testing.T) {
	a := NewAgentWith(&stubCompleter{err: errors.New("rate limited")})
	ans, err := a.Ask(context.Background(), "report please", briefing)
	require.NoError(t, err)
	assert.Equal(t, SourceOffline, ans.Source)
	assert.Equal(t, briefing, ans.Text)
}

func TestCommentary(t *testing.T) {
	ans, err := NewAgent("", "").Commentary(context.Background(), briefing)
	require.NoError(t, err)
	assert.Equal(t, briefing, ans.Text)

	stub := &stubCompleter{reply: "Solid risk-adjusted returns."}
	ans, err = NewAgentWith(stub).Commentary(context.Background(), briefing)
	require.NoError(t, err)
	assert.Equal(t, "Solid risk-adjusted returns.", ans.Text)
	assert.Equal(t, commentarySystemPrompt, stub.system)

	_, err = NewAgent("", "").Commentary(context.Background(), " ")
	assert.Error(t, err)
}

func TestSanitizeQuestion(t *testing.T) {
	assert.Equal(t, "see", SanitizeQuestion("  see ![img](a.png) https://example.com/x "))
	assert.Equal(t, "bbold/b", SanitizeQuestion("<b>bold</b>"))
	long := strings.Repeat("ư", 2500)
	assert.Len(t, []rune(SanitizeQuestion(long)), maxQuestionRunes)
}
