// Package vision answers image+text questions against the Gemini
// multimodal endpoint on a best-effort basis: the caller always gets a
// string back, with failures embedded as diagnostic text rather than
// raised as errors.
package vision

import (
	"context"
	"encoding/json"
	"fmt"

	"docqa/internal/httpx"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1/models"

// DescribeRequest carries one multimodal question.
type DescribeRequest struct {
	Prompt            string
	ImageBase64       string
	MIMEType          string
	History           []Turn
	SystemInstruction string // optional; a default is applied when empty
}

// Client calls the Gemini multimodal endpoint through a resilient caller.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	caller  *httpx.Caller
}

// NewClient creates a vision client. The API key may be empty; Describe
// then reports the missing credential instead of attempting the network.
func NewClient(apiKey, model string, caller *httpx.Caller) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		caller:  caller,
	}
}

// Describe sends the image and prompt to the model and returns the answer
// text. It never returns an error: configuration problems, exhausted
// retries, and structurally unexpected responses all degrade to a
// descriptive string.
func (c *Client) Describe(ctx context.Context, req DescribeRequest) string {
	if c.apiKey == "" {
		return "Gemini API Key missing. Set the GEMINI_API_KEY environment variable."
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	body := buildPayload(req.Prompt, req.ImageBase64, req.MIMEType, req.History, req.SystemInstruction)

	raw, err := c.caller.PostJSON(ctx, url, body)
	if err != nil {
		return fmt.Sprintf("Gemini multimodal request failed: %v", err)
	}

	return extractText(raw)
}

// Response shapes read back from generateContent.
type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content *content `json:"content"`
}

// extractText pulls the first candidate's first text part out of a raw
// response. Malformed or unexpectedly shaped bodies yield a diagnostic
// string embedding the raw payload; this function never fails.
func extractText(raw []byte) string {
	var resp generateResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Sprintf("Gemini returned an unparseable response: %s", raw)
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		parts := resp.Candidates[0].Content.Parts
		if len(parts) > 0 {
			if parts[0].Text != "" {
				return parts[0].Text
			}
			return "Image processed but no response text."
		}
	}

	return fmt.Sprintf("Gemini returned an unexpected or blocked result: %s", raw)
}
