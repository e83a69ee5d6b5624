// Package enrich implements the enrichment port against the OpenRouter
// chat completions API.
package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"vault/internal/domain/services"
)

const (
	// DefaultBaseURL is the OpenRouter chat completions endpoint
	DefaultBaseURL = "https://openrouter.ai/api/v1/chat/completions"
	// DefaultTimeout bounds one completion call end to end
	DefaultTimeout = 2 * time.Minute

	// FallbackSummary is substituted when the model reply carries no
	// parseable JSON. The document still completes; only the summary
	// degrades.
	FallbackSummary = "Summary not available"
)

const promptTemplate = `You are a document processing assistant. Analyze the following document and provide:

1. **Summary**: A concise 2-3 sentence summary of the document's main points.
2. **Markdown**: A clean, well-structured markdown version of the document content. Preserve the key information but improve formatting with proper headings, lists, and structure.

Document filename: %s

Document content:
---
%s
---

Respond in this exact JSON format (no markdown code blocks, just raw JSON):
{
  "summary": "Your summary here",
  "markdown": "Your markdown content here"
}`

// Client calls OpenRouter to produce a summary and markdown rendition of
// extracted document text.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an OpenRouter enrichment client.
func NewClient(apiKey, model string, logger *slog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: logger,
	}
}

// NewClientWithConfig creates a client with custom endpoint and timeout.
func NewClientWithConfig(apiKey, model, baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

var _ services.Enricher = (*Client)(nil)

// Enrich asks the model for a {summary, markdown} pair for the given
// text. A transport or API failure is returned as an error; a reply the
// model failed to shape as JSON degrades to FallbackSummary plus the raw
// text instead of failing the document.
func (c *Client) Enrich(ctx context.Context, text, displayName string) (*services.Enrichment, error) {
	payload := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": fmt.Sprintf(promptTemplate, displayName, text)},
		},
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("completion API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	content := gjson.GetBytes(body, "choices.0.message.content").String()
	return c.parseReply(content, text), nil
}

// parseReply extracts the {summary, markdown} object from the model
// reply. Models wrap the JSON in prose or code fences often enough that
// we search for the outermost braces rather than decoding the whole
// reply.
func (c *Client) parseReply(content, text string) *services.Enrichment {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		candidate := content[start : end+1]
		if gjson.Valid(candidate) {
			enr := &services.Enrichment{
				Summary:  gjson.Get(candidate, "summary").String(),
				Markdown: gjson.Get(candidate, "markdown").String(),
			}
			if enr.Summary == "" {
				enr.Summary = FallbackSummary
			}
			if enr.Markdown == "" {
				enr.Markdown = text
			}
			return enr
		}
	}

	// Degrade, don't fail: the upstream call succeeded, the model just
	// ignored the output contract.
	c.logger.Warn("enrichment reply was not valid JSON, using fallback")
	return &services.Enrichment{
		Summary:  FallbackSummary,
		Markdown: text,
	}
}
