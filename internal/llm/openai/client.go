package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/easymigrate/docintake/internal/common"
	"github.com/easymigrate/docintake/internal/llm"
)

// ExtractFields implements llm.FieldExtractor over chat/completions. The
// prompt already carries the label list and output format; the recognized
// text is appended to it as a single user message.
func (c *Client) ExtractFields(ctx context.Context, req llm.ExtractRequest) (string, error) {
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
	}
	start := time.Now()

	prompt := req.Prompt
	if prompt == "" {
		prompt = llm.PromptFor(req.DocType)
	}
	if prompt == "" {
		return "", fmt.Errorf("no prompt for document type %q", req.DocType)
	}

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"session_id", common.SessionIDFromContext(ctx),
		"model", c.cfg.Model,
		"doc_type", req.DocType,
		"text_len", len(req.RawText),
	)

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"max_tokens":  c.cfg.MaxTokens,
		"messages": []map[string]any{
			{"role": "user", "content": prompt + req.RawText},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.logger.Error("llm.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	var cc struct {
		Error *struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.logger.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if cc.Error != nil {
		c.logger.Error("llm.extract.api_error",
			"req_id", rid, "type", cc.Error.Type, "message", cc.Error.Message,
		)
		return llm.ErrorMarker + " (AI API).", nil
	}
	if len(cc.Choices) == 0 {
		c.logger.Error("llm.extract.no_choices", "req_id", rid, "raw_bytes", len(raw))
		return "", fmt.Errorf("no choices in openai response")
	}

	content := strings.TrimSpace(cc.Choices[0].Message.Content)
	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"reply_len", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

func (c *Client) post(ctx context.Context, url string, body any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if cerr := Body.Close(); cerr != nil {
			c.logger.Warn("openai response body close error", "error", cerr)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Error payloads are decoded by the caller so provider-side
		// failures become the explicit error reply, not a transport error.
		if len(raw) > 0 && bytes.Contains(raw, []byte(`"error"`)) {
			return raw, nil
		}
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}
