package llm

import (
	"context"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/tigerroll/mapchat/internal/config"
	"github.com/tigerroll/mapchat/internal/support/exception"
	"github.com/tigerroll/mapchat/internal/support/logger"
)

// GeminiClient completes prompts with the hosted Gemini API.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiClient creates a GeminiClient. cfg.BaseURL overrides the API
// endpoint, which is only needed for proxies and tests.
func NewGeminiClient(ctx context.Context, cfg config.LLMConfig) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeoutOf(cfg)},
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, exception.New(exception.KindConfig, moduleName, "failed to create gemini client", err)
	}
	return &GeminiClient{
		client:      client,
		model:       cfg.ModelName(),
		temperature: float32(cfg.Temperature),
	}, nil
}

// Complete sends prompt as a single user turn and returns the text of the
// first candidate.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	logger.Debugf("Sending %d-byte prompt to gemini model %s.", len(prompt), c.model)
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](c.temperature),
	})
	if err != nil {
		return "", callErr(config.ProviderGemini, err)
	}

	text := responseText(resp)
	if text == "" {
		return "", callErr(config.ProviderGemini, errEmptyResponse)
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.Text != "" {
				text.WriteString(part.Text)
			}
		}
		break
	}
	return text.String()
}
