// Package commentary turns a run scorecard into a short written
// analysis via an LLM provider. Commentary is decoration: callers log
// failures and move on, a run never fails because of it.
package commentary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"ballast/internal/core"
	"ballast/internal/llm"
	"ballast/internal/perf"
)

const systemPrompt = `You are a portfolio analyst. You receive the scorecard of one ` +
	`backtest run and write a brief, factual commentary: two or three short ` +
	`paragraphs covering performance, risk and anything unusual. No bullet ` +
	`lists, no advice, no speculation beyond the numbers given.`

// Generator produces commentary through one provider.
type Generator struct {
	provider  llm.Provider
	log       *zap.Logger
	maxTokens int
}

// New creates a Generator. maxTokens <= 0 uses the provider default.
func New(provider llm.Provider, log *zap.Logger) *Generator {
	return &Generator{provider: provider, log: log}
}

// Generate writes commentary for one run.
func (g *Generator) Generate(ctx context.Context, label, mode string, s perf.Summary) (string, error) {
	text, err := llm.Complete(ctx, g.provider, systemPrompt, buildPrompt(label, mode, s), g.maxTokens)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", core.WrapError(core.ErrLLMTimeout, err)
		}
		return "", err
	}

	g.log.Info("commentary generated",
		zap.String("provider", g.provider.Name()),
		zap.Int("chars", len(text)))
	return strings.TrimSpace(text), nil
}

func buildPrompt(label, mode string, s perf.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run: %s\nFill mode: %s\n\nScorecard:\n", label, mode)
	for _, m := range s.Metrics() {
		fmt.Fprintf(&b, "  %s: %g\n", m.Name, m.Value)
	}
	if s.GapPeriods > 0 {
		fmt.Fprintf(&b, "\nNote: %d periods had missing price data and were excluded from the figures.\n", s.GapPeriods)
	}
	return b.String()
}
