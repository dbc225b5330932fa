package classifier

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

const systemPrompt = "You are an HS Code assistant for customs inspection. " +
	"Given a passenger baggage item description and optional image, return up to 5 likely HS codes. " +
	"Respond strictly in JSON per the provided schema. " +
	"If information is insufficient, return an empty matches array and include a short note asking for specifics."

// Config holds Ollama connection settings. Model is used when an image is
// present, TextModel for text-only scans.
type Config struct {
	BaseURL   string
	Model     string
	TextModel string
	Timeout   time.Duration
}

// OllamaClient talks to a local Ollama server's chat endpoint.
type OllamaClient struct {
	httpClient *http.Client
	baseURL    string
	model      string
	textModel  string
}

// NewOllamaClient creates a client for the given Ollama instance.
func NewOllamaClient(cfg Config) *OllamaClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 300 * time.Second
	}

	return &OllamaClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		model:     cfg.Model,
		textModel: cfg.TextModel,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Scan asks the model for HS code candidates. Transport and HTTP-level
// failures are returned as errors; a reply that cannot be parsed is returned
// as zero matches with an explanatory note.
func (c *OllamaClient) Scan(ctx context.Context, description, imageBase64 string) (*ModelResponse, error) {
	userPrompt := "Item description:\n"
	if strings.TrimSpace(description) == "" {
		userPrompt += "N/A"
	} else {
		userPrompt += description
	}
	userPrompt += "\n\nReturn best HS code matches with clear, concise descriptions."

	userMessage := map[string]any{
		"role":    "user",
		"content": userPrompt,
	}
	if strings.TrimSpace(imageBase64) != "" {
		userMessage["images"] = []string{imageBase64}
	}

	model := c.model
	if strings.TrimSpace(imageBase64) == "" {
		model = c.textModel
	}

	payload := map[string]any{
		"model": model,
		"messages": []any{
			map[string]any{"role": "system", "content": systemPrompt},
			userMessage,
		},
		"stream": false,
		"format": responseSchema(),
		"options": map[string]any{
			"temperature": 0.2,
			"top_p":       0.9,
			"num_predict": 200,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var chatResp struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	}
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode chat envelope: %w", err)
	}

	return parseModelContent(chatResp.Message.Content), nil
}

// responseSchema is the structured-output JSON schema sent with every chat
// request.
func responseSchema() map[string]any {
	stringType := map[string]any{"type": "string"}

	subsection := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"hsCode": stringType,
			"title":  stringType,
			"notes":  stringType,
		},
		"required": []string{"hsCode", "title", "notes"},
	}

	match := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"hsCode":       stringType,
			"description":  stringType,
			"matchPercent": map[string]any{"type": "number"},
			"comment":      stringType,
			"subsections": map[string]any{
				"type":  "array",
				"items": subsection,
			},
		},
		"required": []string{"hsCode", "description", "matchPercent", "comment", "subsections"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"matches": map[string]any{
				"type":  "array",
				"items": match,
			},
			"note": stringType,
		},
		"required": []string{"matches"},
	}
}
