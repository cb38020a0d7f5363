// Package suggest wraps the external text-generation collaborator used for
// clinical note and prescription hints. Suggestions are decoration: any
// failure degrades to an empty result and must never break the caller.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type Client struct {
	baseURL string
	key     string
	http    *http.Client
	log     *zap.Logger
}

// New returns a client; an empty baseURL yields a disabled client whose
// Suggest always returns nothing.
func New(baseURL, key string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		key:     key,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type suggestRequest struct {
	Prompt string `json:"prompt"`
}

type suggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

// Suggest asks the collaborator for completions. Every failure path logs
// and returns an empty slice.
func (c *Client) Suggest(ctx context.Context, prompt string) []string {
	if c.baseURL == "" || prompt == "" {
		return []string{}
	}

	payload, err := json.Marshal(suggestRequest{Prompt: prompt})
	if err != nil {
		return []string{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		c.log.Warn("building suggestion request failed", zap.Error(err))
		return []string{}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.key != "" {
		req.Header.Set("Authorization", "Bearer "+c.key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("suggestion call failed", zap.Error(err))
		return []string{}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("suggestion call rejected", zap.Int("status", resp.StatusCode))
		return []string{}
	}

	var out suggestResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.log.Warn("decoding suggestions failed", zap.Error(err))
		return []string{}
	}
	if out.Suggestions == nil {
		return []string{}
	}
	return out.Suggestions
}
