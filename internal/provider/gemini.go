package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const geminiAPIURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent"

// Gemini talks to the Google Generative Language API. The API key travels as
// a URL query parameter.
type Gemini struct {
	endpoint string
	client   *http.Client
}

// NewGemini creates a Gemini provider against the production endpoint
func NewGemini() *Gemini {
	return &Gemini{
		endpoint: geminiAPIURL,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) EnvKey() string { return "GEMINI_API_KEY" }

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// GenerateCommand posts the prompt and extracts the first candidate's text
func (g *Gemini) GenerateCommand(ctx context.Context, prompt, apiKey string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{{Text: prompt}},
		}},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		g.endpoint+"?key="+url.QueryEscape(apiKey),
		bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	// Text is a pointer so an absent field (for example a parts entry
	// carrying only thought metadata) is distinguishable from an empty
	// string and rejected as malformed.
	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text *string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("gemini returned invalid JSON (status %d): %s", resp.StatusCode, body)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 ||
		result.Candidates[0].Content.Parts[0].Text == nil {
		return "", fmt.Errorf("gemini response missing content (status %d): %s", resp.StatusCode, body)
	}

	return strings.TrimSpace(*result.Candidates[0].Content.Parts[0].Text), nil
}
