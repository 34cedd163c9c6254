package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/klye32/fit-coach/internal/telemetry/tracing"
)

const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultModel         = "gpt-3.5-turbo"

	requestTimeout = 30 * time.Second
)

// Client talks to an OpenAI compatible chat completion endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates a chat completion client. Empty baseURL and model
// fall back to the OpenAI defaults. The apiKey may be empty, callers
// check Configured before making requests.
func NewClient(baseURL, apiKey, model string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// ChatCompletion sends one system plus one user message and returns
// the first choice content, trimmed. An empty choice list yields an
// empty string with no error.
func (c *Client) ChatCompletion(ctx context.Context, systemMsg, userMsg string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "advice.client.chatcompletion")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	reqBody, err := json.Marshal(chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemMsg},
			{Role: "user", Content: userMsg},
		},
		Temperature: 0.5,
		MaxTokens:   200,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		c.baseURL+"/chat/completions",
		bytes.NewReader(reqBody),
	)
	if err != nil {
		return "", fmt.Errorf("create chat completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("chat completion status %d: %s", resp.StatusCode, respBody)
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("decode chat completion response: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", nil
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
