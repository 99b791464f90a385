package utils

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var ErrNoAPIKey = errors.New("gemini api key not set")

type AIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int32
	Temperature float32
}

// GeminiClient wraps a genai client with fixed generation settings.
type GeminiClient struct {
	client *genai.Client
	cfg    AIConfig
}

func NewGeminiClient(ctx context.Context, cfg AIConfig) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoAPIKey
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: client, cfg: cfg}, nil
}

// Complete sends one system instruction plus one user prompt and returns the
// concatenated text parts of the response.
func (g *GeminiClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := g.model(system).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(ExtractText(resp)), nil
}

// model applies the configured settings. Temperature is always sent; 0 means
// greedy decoding, not "use the model default".
func (g *GeminiClient) model(system string) *genai.GenerativeModel {
	m := g.client.GenerativeModel(g.cfg.Model)
	m.SetTemperature(g.cfg.Temperature)
	if g.cfg.MaxTokens > 0 {
		m.SetMaxOutputTokens(g.cfg.MaxTokens)
	}
	if system != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	return m
}

func (g *GeminiClient) Close() error {
	return g.client.Close()
}

func ExtractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	return b.String()
}
