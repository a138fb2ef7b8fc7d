package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// scopePrompt pins the assistant to petal topics. Sent as priming history
// ahead of every user message; the assistant itself keeps no session state.
const scopePrompt = "You are a helpful assistant for the PETAL application, " +
	"which tracks and forecasts plant bloom intensity based on NDVI data. " +
	"Your purpose is to answer questions related to plant blooms, NDVI, " +
	"forecasting, and the PETAL application itself. Do not answer questions " +
	"outside of this scope."

const defaultGeminiBase = "https://generativelanguage.googleapis.com/v1beta"

// geminiClient is a thin pass-through to the generateContent endpoint.
// Failures come back as errors carrying the upstream message where the
// response yields one; no retry.
type geminiClient struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

func newGeminiClient(apiKey, model string) *geminiClient {
	return &geminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultGeminiBase,
		http:    &http.Client{Timeout: 25 * time.Second},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiReq struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
	} `json:"generationConfig"`
}

type geminiResp struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// SendMessage sends one scoped user message and returns the reply text.
func (c *geminiClient) SendMessage(ctx context.Context, message string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("assistant is not configured")
	}

	var in geminiReq
	in.Contents = []geminiContent{
		{Role: "user", Parts: []geminiPart{{Text: scopePrompt}}},
		{Role: "user", Parts: []geminiPart{{Text: message}}},
	}
	in.GenerationConfig.MaxOutputTokens = 500

	body, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("marshal assistant req: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant call failed: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	var out geminiResp
	if err := json.Unmarshal(data, &out); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return "", fmt.Errorf("assistant non-2xx: %s", resp.Status)
		}
		return "", fmt.Errorf("decode assistant resp: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if out.Error != nil && out.Error.Message != "" {
			return "", fmt.Errorf("assistant error: %s", out.Error.Message)
		}
		return "", fmt.Errorf("assistant non-2xx: %s, body: %s", resp.Status, string(data))
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("assistant returned no content")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
