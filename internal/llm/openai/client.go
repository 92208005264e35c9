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

	"github.com/tanmodi/oorja-backend/internal/common"
	"github.com/tanmodi/oorja-backend/internal/llm"
)

// Invoke implements llm.Invoker over chat/completions. The temperature hint
// is attached only when the model's profile supports it; everything else in
// the request body is identical across variants so replies stay comparable.
func (c *Client) Invoke(ctx context.Context, profile llm.ModelProfile, prompt llm.Prompt) (llm.Reply, error) {
	rid := uuid.New().String()
	start := time.Now()

	body := map[string]any{
		"model": profile.ID,
		"messages": []map[string]any{
			{"role": "system", "content": prompt.System},
			{"role": "user", "content": prompt.User},
		},
	}
	if profile.SupportsTemperature {
		body["temperature"] = c.cfg.Temperature
	}

	c.log.Info("llm.invoke.start",
		"req_id", rid,
		"model", profile.ID,
		"temperature", profile.SupportsTemperature,
		"user_len", len(prompt.User),
	)

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.log.Error("llm.invoke.http_error",
			"req_id", rid, "model", profile.ID, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.Reply{}, common.NewAppError("INVOCATION_ERROR",
			fmt.Sprintf("model %s: %v", profile.ID, err), common.ErrInvocation)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage *llm.UsagePayload `json:"usage"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm.invoke.decode_error",
			"req_id", rid, "model", profile.ID, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.Reply{}, common.NewAppError("INVOCATION_ERROR",
			fmt.Sprintf("model %s: decode response: %v", profile.ID, err), common.ErrInvocation)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("llm.invoke.no_choices", "req_id", rid, "model", profile.ID, "raw_bytes", len(raw))
		return llm.Reply{}, common.NewAppError("INVOCATION_ERROR",
			fmt.Sprintf("model %s: no choices in response", profile.ID), common.ErrInvocation)
	}
	if cc.Usage == nil {
		c.log.Error("llm.invoke.no_usage", "req_id", rid, "model", profile.ID)
		return llm.Reply{}, common.NewAppError("INVOCATION_ERROR",
			fmt.Sprintf("model %s: response carried no usage data", profile.ID), common.ErrInvocation)
	}

	usage, err := llm.NormalizeUsage(profile.ID, profile.UsageStyle, *cc.Usage)
	if err != nil {
		return llm.Reply{}, err
	}

	reply := llm.Reply{
		Text:  strings.TrimSpace(cc.Choices[0].Message.Content),
		Usage: usage,
	}
	c.log.Info("llm.invoke.ok",
		"req_id", rid,
		"model", profile.ID,
		"reply_len", len(reply.Text),
		"prompt_tokens", usage.PromptTokens,
		"completion_tokens", usage.CompletionTokens,
		"total_tokens", usage.TotalTokens,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return reply, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
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
		if err := Body.Close(); err != nil {
			c.log.Warn("openai response body close error", "error", err)
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}
