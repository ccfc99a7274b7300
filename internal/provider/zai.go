package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	zaiAPIURL       = "https://api.z.ai/api/coding/paas/v4/chat/completions"
	DefaultZaiModel = "glm-4.5"
)

// Zai talks to the z.ai chat-completions API. The API key travels as a
// bearer token.
type Zai struct {
	endpoint string
	model    string
	client   *http.Client
}

// NewZai creates a z.ai provider against the production endpoint
func NewZai() *Zai {
	return &Zai{
		endpoint: zaiAPIURL,
		model:    DefaultZaiModel,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (z *Zai) Name() string { return "zai" }

func (z *Zai) EnvKey() string { return "ZAI_API_KEY" }

// SetModel overrides the model name sent in requests
func (z *Zai) SetModel(model string) {
	if model != "" {
		z.model = model
	}
}

type zaiRequest struct {
	Model    string       `json:"model"`
	Messages []zaiMessage `json:"messages"`
}

type zaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateCommand posts the prompt and extracts the first choice's text,
// trying message.content, then text, then content, to tolerate the API's
// response-shape variations.
func (z *Zai) GenerateCommand(ctx context.Context, prompt, apiKey string) (string, error) {
	reqBody := zaiRequest{
		Model: z.model,
		Messages: []zaiMessage{{
			Role:    "user",
			Content: prompt,
		}},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", z.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := z.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	// Pointer fields keep an absent key distinguishable from a present
	// empty string: a present message.content wins the fallback chain even
	// when it is empty.
	var result struct {
		Choices []struct {
			Message struct {
				Content *string `json:"content"`
			} `json:"message"`
			Text    *string `json:"text"`
			Content *string `json:"content"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("z.ai returned invalid JSON (status %d): %s", resp.StatusCode, body)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("z.ai response missing content (status: %d): %s", resp.StatusCode, body)
	}

	choice := result.Choices[0]
	for _, text := range []*string{choice.Message.Content, choice.Text, choice.Content} {
		if text != nil {
			return strings.TrimSpace(*text), nil
		}
	}

	return "", fmt.Errorf("z.ai response missing content (status: %d): %s", resp.StatusCode, body)
}
