package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/threatsmith/threatsmith/pkg/shared/config"
	"github.com/threatsmith/threatsmith/pkg/shared/httpclient"
)

// userInstruction is the fixed user-turn message; the system prompt carries
// the model document and the response contract.
const userInstruction = "Generate threats for all elements in the model."

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	httpc       *resty.Client
	model       string
	temperature float64
	maxTokens   int
	logger      hclog.Logger
}

// New builds the chat-completions client from the shared http-client settings
// and applies the llm-specific overrides: base URL, bearer token, the
// generation timeout and the retry count. Generation on large models runs for
// minutes, so the llm timeout replaces the short transport default.
func New(cfg *config.Config, logger hclog.Logger) *Client {
	httpc := httpclient.InitializeRestyClient(logger, cfg)

	baseURL := cfg.LLM.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultLLMBaseURL
	}
	httpc.SetBaseURL(baseURL)
	if cfg.LLM.APIKey != "" {
		httpc.SetAuthToken(cfg.LLM.APIKey)
	}
	if cfg.LLM.Timeout > 0 {
		httpc.SetTimeout(cfg.LLM.Timeout)
	}
	httpc.SetRetryCount(cfg.LLM.RetryCount)

	temperature := config.DefaultLLMTemperature
	if cfg.LLM.Temperature != nil {
		temperature = *cfg.LLM.Temperature
	}

	return &Client{
		httpc:       httpc,
		model:       cfg.LLM.Model,
		temperature: temperature,
		maxTokens:   cfg.LLM.MaxTokens,
		logger:      logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatCompletionChoice struct {
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatCompletionResponse struct {
	Choices []chatCompletionChoice `json:"choices"`
}

// GenerateThreats sends the prompt and returns the raw model output. Non-2xx
// responses and empty choice lists are errors carrying the status and a body
// excerpt; nothing here retries beyond the configured resty retry count.
func (c *Client) GenerateThreats(ctx context.Context, prompt string) (string, error) {
	if c.model == "" {
		return "", fmt.Errorf("llm model name is not configured")
	}

	var r chatCompletionResponse
	resp, err := c.httpc.R().
		SetContext(ctx).
		SetBody(chatCompletionRequest{
			Model: c.model,
			Messages: []chatMessage{
				{Role: "system", Content: prompt},
				{Role: "user", Content: userInstruction},
			},
			Temperature: c.temperature,
			MaxTokens:   c.maxTokens,
		}).
		SetResult(&r).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("%d on chat completion: %s", resp.StatusCode(), bodyExcerpt(resp.String()))
	}
	if len(r.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	content := r.Choices[0].Message.Content
	c.logger.Debug("chat completion received", "chars", len(content), "finish_reason", r.Choices[0].FinishReason)
	return content, nil
}

func bodyExcerpt(s string) string {
	const max = 200
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
