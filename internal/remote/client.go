// Package remote talks to the hosted relational backend through its REST
// gateway. Every call returns a typed *Error instead of raising, so callers
// can treat remote failure as an ordinary branch.
package remote

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

const restPrefix = "/rest/v1/"

type Client struct {
	baseURL string
	key     string
	http    *http.Client
}

// New builds a client from already-sanitized credentials. It validates the
// base URL shape only; reachability is discovered per call.
func New(baseURL, key string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("remote: invalid base URL %q", baseURL)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// SelectAll fetches every row of a table. order is a "column.direction"
// string, e.g. "date.desc"; empty means backend order.
func (c *Client) SelectAll(ctx context.Context, table, order string) ([]json.RawMessage, *Error) {
	endpoint := c.baseURL + restPrefix + table + "?select=*"
	if order != "" {
		endpoint += "&order=" + url.QueryEscape(order)
	}

	body, rerr := c.do(ctx, http.MethodGet, endpoint, nil, "select", table, nil)
	if rerr != nil {
		return nil, rerr
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &Error{Kind: KindSchema, Operation: "select", Table: table, Detail: "response is not a row array: " + err.Error()}
	}
	return rows, nil
}

// Upsert inserts the record or replaces the existing row with the same id.
func (c *Client) Upsert(ctx context.Context, table string, record any) *Error {
	payload, err := json.Marshal(record)
	if err != nil {
		return &Error{Kind: KindSchema, Operation: "upsert", Table: table, Detail: "encoding record: " + err.Error()}
	}

	headers := map[string]string{
		"Content-Type": "application/json",
		"Prefer":       "resolution=merge-duplicates",
	}
	_, rerr := c.do(ctx, http.MethodPost, c.baseURL+restPrefix+table, payload, "upsert", table, headers)
	return rerr
}

func (c *Client) Delete(ctx context.Context, table, id string) *Error {
	endpoint := c.baseURL + restPrefix + table + "?id=eq." + url.QueryEscape(id)
	_, rerr := c.do(ctx, http.MethodDelete, endpoint, nil, "delete", table, nil)
	return rerr
}

func (c *Client) DeleteBulk(ctx context.Context, table string, ids []string) *Error {
	if len(ids) == 0 {
		return nil
	}
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = `"` + id + `"`
	}
	filter := "id=in.(" + url.QueryEscape(strings.Join(quoted, ",")) + ")"
	endpoint := c.baseURL + restPrefix + table + "?" + filter
	_, rerr := c.do(ctx, http.MethodDelete, endpoint, nil, "delete_bulk", table, nil)
	return rerr
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte, op, table string, headers map[string]string) ([]byte, *Error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Operation: op, Table: table, Detail: err.Error()}
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Operation: op, Table: table, Detail: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Operation: op, Table: table, Detail: "reading response: " + err.Error()}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return data, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &Error{Kind: KindAuth, Operation: op, Table: table, Status: resp.StatusCode, Detail: snippet(data)}
	default:
		return nil, &Error{Kind: KindSchema, Operation: op, Table: table, Status: resp.StatusCode, Detail: snippet(data)}
	}
}

func snippet(data []byte) string {
	const max = 200
	s := strings.TrimSpace(string(data))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
