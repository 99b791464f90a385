package analysis

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"dataanalyzer-ai/backend/models"
)

const (
	SourceLLM      = "llm"
	SourceFallback = "fallback"
)

var (
	ErrNoLLM         = errors.New("llm not configured")
	ErrEmptyResponse = errors.New("llm returned an empty response")
)

// LLM is the text-completion boundary. utils.GeminiClient implements it.
type LLM interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type Insight struct {
	Text    string
	Source  string
	Summary DataSummary
	Market  *Market
}

// Generator answers queries through an LLM and falls back to the templated
// summaries on any failure.
type Generator struct {
	llm     LLM
	timeout time.Duration
}

// NewGenerator accepts a nil llm; every insight is then a fallback.
func NewGenerator(llm LLM, timeout time.Duration) *Generator {
	return &Generator{llm: llm, timeout: timeout}
}

// Ask sends the prompt for s and query to the LLM and returns its answer.
func (g *Generator) Ask(ctx context.Context, s DataSummary, query string) (string, error) {
	if g.llm == nil {
		return "", ErrNoLLM
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	text, err := g.llm.Complete(ctx, SystemPrompt, BuildPrompt(s, query))
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Generate never fails: errors from Ask are logged and replaced by the
// deterministic summary for the profile.
func (g *Generator) Generate(ctx context.Context, t *models.Table, roles RoleMap, query string, p Profile) Insight {
	in := Insight{Summary: Summarize(t)}
	if p.RealEstate {
		if m, ok := AnalyzeMarket(t, roles); ok {
			in.Market = &m
		}
	}

	text, err := g.Ask(ctx, in.Summary, query)
	if err == nil {
		in.Text, in.Source = text, SourceLLM
		return in
	}
	if !errors.Is(err, ErrNoLLM) {
		log.Printf("[insight] llm failed (query=%q rows=%d): %v", query, in.Summary.Rows, err)
	}
	in.Source = SourceFallback
	if in.Market != nil {
		in.Text = MarketFallback(in.Summary, *in.Market, query)
	} else {
		in.Text = FallbackSummary(in.Summary, query)
	}
	return in
}
