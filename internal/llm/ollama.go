package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tigerroll/mapchat/internal/config"
	"github.com/tigerroll/mapchat/internal/support/logger"
)

// DefaultOllamaURL is where a local Ollama server listens.
const DefaultOllamaURL = "http://localhost:11434"

var errEmptyResponse = errors.New("model returned no text")

// OllamaClient completes prompts with a local Ollama server over its
// streaming chat endpoint.
type OllamaClient struct {
	baseURL     string
	model       string
	temperature float64
	client      *http.Client
}

// NewOllamaClient creates an OllamaClient.
func NewOllamaClient(cfg config.LLMConfig) *OllamaClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	return &OllamaClient{
		baseURL:     baseURL,
		model:       cfg.ModelName(),
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: timeoutOf(cfg)},
	}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaRequest struct {
	Model    string                 `json:"model"`
	Messages []ollamaMessage        `json:"messages"`
	Stream   bool                   `json:"stream"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type ollamaChunk struct {
	Message *ollamaMessage `json:"message"`
	Done    bool           `json:"done"`
	Error   string         `json:"error"`
}

// Complete streams the answer and concatenates the message chunks until
// the server reports done. An "error" line aborts the call.
func (c *OllamaClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(ollamaRequest{
		Model:    c.model,
		Messages: []ollamaMessage{{Role: "user", Content: prompt}},
		Stream:   true,
		Options:  map[string]interface{}{"temperature": c.temperature},
	})
	if err != nil {
		return "", callErr(config.ProviderOllama, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", callErr(config.ProviderOllama, err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Debugf("Sending %d-byte prompt to ollama model %s.", len(prompt), c.model)
	resp, err := c.client.Do(req)
	if err != nil {
		return "", callErr(config.ProviderOllama, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", callErr(config.ProviderOllama,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))))
	}

	var out strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var chunk ollamaChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			return "", callErr(config.ProviderOllama, fmt.Errorf("invalid stream line: %w", err))
		}
		if chunk.Error != "" {
			return "", callErr(config.ProviderOllama, errors.New(chunk.Error))
		}
		if chunk.Message != nil {
			out.WriteString(chunk.Message.Content)
		}
		if chunk.Done {
			return out.String(), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", callErr(config.ProviderOllama, err)
	}
	return "", callErr(config.ProviderOllama, errors.New("stream ended before done"))
}
