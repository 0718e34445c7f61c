package summary

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
	defaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultGeminiModel    = "gemini-2.0-flash"
	defaultGeminiTimeout  = 20 * time.Second
)

// GeminiSummarizer calls the Gemini generateContent REST endpoint. The
// transport is deliberately thin: one JSON POST, first candidate text
// wins, anything else is a failure the caller converts to Fallback.
type GeminiSummarizer struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
}

// GeminiOption customizes the collaborator client.
type GeminiOption func(*GeminiSummarizer)

// WithEndpoint overrides the API base URL (tests point it at a local server).
func WithEndpoint(endpoint string) GeminiOption {
	return func(g *GeminiSummarizer) {
		if strings.TrimSpace(endpoint) != "" {
			g.endpoint = strings.TrimRight(endpoint, "/")
		}
	}
}

// WithModel overrides the model identifier.
func WithModel(model string) GeminiOption {
	return func(g *GeminiSummarizer) {
		if strings.TrimSpace(model) != "" {
			g.model = strings.TrimSpace(model)
		}
	}
}

// WithHTTPClient overrides the HTTP client (and therefore the timeout).
func WithHTTPClient(client *http.Client) GeminiOption {
	return func(g *GeminiSummarizer) {
		if client != nil {
			g.client = client
		}
	}
}

// NewGeminiSummarizer builds the collaborator client. The api key is
// required; provider selection happens upstream in config.
func NewGeminiSummarizer(apiKey string, opts ...GeminiOption) (*GeminiSummarizer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("summary: gemini api key is required")
	}
	g := &GeminiSummarizer{
		endpoint: defaultGeminiEndpoint,
		model:    defaultGeminiModel,
		apiKey:   strings.TrimSpace(apiKey),
		client:   &http.Client{Timeout: defaultGeminiTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g, nil
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Summarize sends the handover prompt and returns the first candidate's text.
func (g *GeminiSummarizer) Summarize(ctx context.Context, snapshot Snapshot) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: Prompt(snapshot)}}}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("summary: encode request: %w", err)
	}
	url := fmt.Sprintf("%s/%s:generateContent", g.endpoint, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("summary: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("summary: call collaborator: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("summary: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("summary: collaborator returned %s", resp.Status)
	}
	var parsed geminiResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("summary: decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("summary: collaborator returned no candidates")
	}
	var b strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String(), nil
}
