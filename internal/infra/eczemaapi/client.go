package eczemaapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/eczema-insights/internal/domain/records"
	"github.com/yanqian/eczema-insights/pkg/requestid"
)

const defaultBaseURL = "http://localhost:3000/api"

// Backend list endpoints, relative to the base URL.
const (
	pathLogs          = "/logs"
	pathReminders     = "/reminders"
	pathImages        = "/images"
	pathConsultations = "/consultations"
)

// maxResponseBytes caps a list response body.
const maxResponseBytes = 8 << 20

// ErrUnauthorized is returned when the backend rejects the forwarded token.
var ErrUnauthorized = records.ErrUnauthorized

var errResponseTooLarge = errors.New("response body exceeds limit")

// Client reads a user's records from the eczema care backend on the user's
// behalf, forwarding their bearer token.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	url := strings.TrimSpace(baseURL)
	if url == "" {
		url = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(url, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListSymptomLogs implements records.Source.
func (c *Client) ListSymptomLogs(ctx context.Context, p records.Principal) ([]records.SymptomLog, error) {
	items, err := fetchList[apiLog](ctx, c, pathLogs, "logs", p)
	if err != nil {
		return nil, err
	}
	out := make([]records.SymptomLog, 0, len(items))
	for _, item := range items {
		out = append(out, item.toRecord(p.UserID))
	}
	return out, nil
}

// ListReminders implements records.Source.
func (c *Client) ListReminders(ctx context.Context, p records.Principal) ([]records.Reminder, error) {
	items, err := fetchList[apiReminder](ctx, c, pathReminders, "reminders", p)
	if err != nil {
		return nil, err
	}
	out := make([]records.Reminder, 0, len(items))
	for _, item := range items {
		out = append(out, item.toRecord(p.UserID))
	}
	return out, nil
}

// ListScans implements records.Source.
func (c *Client) ListScans(ctx context.Context, p records.Principal) ([]records.Scan, error) {
	items, err := fetchList[apiImage](ctx, c, pathImages, "images", p)
	if err != nil {
		return nil, err
	}
	out := make([]records.Scan, 0, len(items))
	for _, item := range items {
		out = append(out, item.toRecord(p.UserID))
	}
	return out, nil
}

// ListConsultations implements records.Source.
func (c *Client) ListConsultations(ctx context.Context, p records.Principal) ([]records.Consultation, error) {
	items, err := fetchList[apiConsultation](ctx, c, pathConsultations, "consultations", p)
	if err != nil {
		return nil, err
	}
	out := make([]records.Consultation, 0, len(items))
	for _, item := range items {
		out = append(out, item.toRecord(p.UserID))
	}
	return out, nil
}

func fetchList[T any](ctx context.Context, c *Client, path, key string, p records.Principal) ([]T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", key, err)
	}
	req.Header.Set("Accept", "application/json")
	if p.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.Token)
	}
	if id, ok := requestid.FromContext(ctx); ok {
		req.Header.Set(requestid.Header, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%s request: %w (status=%d)", key, ErrUnauthorized, resp.StatusCode)
	}
	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("%s request error: status=%d body=%s", key, resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", key, err)
	}
	if len(body) > maxResponseBytes {
		return nil, fmt.Errorf("read %s response: %w", key, errResponseTooLarge)
	}
	items, err := decodeList[T](body, key)
	if err != nil {
		return nil, fmt.Errorf("decode %s response: %w", key, err)
	}
	return items, nil
}

type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// decodeList accepts the shapes the backend has used over time:
// {success, data: {<key>: [...]}}, {success, data: [...]}, {<key>: [...]}
// and a bare array.
func decodeList[T any](body []byte, key string) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return []T{}, nil
	}
	if trimmed[0] == '[' {
		return unmarshalList[T](trimmed)
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, err
	}
	if env.Success != nil && !*env.Success {
		return nil, fmt.Errorf("upstream error: %s", env.Message)
	}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		var top map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &top); err != nil {
			return nil, err
		}
		if raw, ok := top[key]; ok {
			return unmarshalList[T](raw)
		}
		return []T{}, nil
	}
	if data[0] == '[' {
		return unmarshalList[T](data)
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}
	for _, k := range []string{key, "data"} {
		if raw, ok := wrapped[k]; ok {
			return unmarshalList[T](raw)
		}
	}
	return []T{}, nil
}

func unmarshalList[T any](raw json.RawMessage) ([]T, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

var _ records.Source = (*Client)(nil)
