// Package registry talks to the spreadsheet service that holds the
// registration sheet of every participant.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound is returned by Find when no row matches.
var ErrNotFound = errors.New("registry: record not found")

// StudentIDField is the column every registry table is keyed by.
const StudentIDField = "student_id"

type Record struct {
	ID          string         `json:"id,omitempty"`
	Fields      map[string]any `json:"fields"`
	CreatedTime string         `json:"createdTime,omitempty"`
}

// String returns a text field, or "" when it is absent or not a string.
func (r *Record) String(field string) string {
	v, _ := r.Fields[field].(string)
	return strings.TrimSpace(v)
}

type listResponse struct {
	Records []Record `json:"records"`
}

type apiError struct {
	Error json.RawMessage `json:"error"`
}

type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
}

func NewClient(apiURL, base, token string) *Client {
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(apiURL, "/") + "/" + base,
	}
}

func (c *Client) call(ctx context.Context, method, path string, query url.Values, payload any) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal: %w", err)
		}
		body = bytes.NewReader(data)
	}

	endpoint := c.baseURL + "/" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	if resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && len(apiErr.Error) > 0 {
			return nil, fmt.Errorf("registry: %s: %s", resp.Status, apiErr.Error)
		}
		return nil, fmt.Errorf("registry: %s", resp.Status)
	}

	return data, nil
}

// formula builds a filterByFormula expression matching one column exactly.
func formula(field, value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	return fmt.Sprintf("{%s} = '%s'", field, escaped)
}

// Find returns the first row of table whose student_id equals studentID.
func (c *Client) Find(ctx context.Context, table, studentID string) (*Record, error) {
	query := url.Values{}
	query.Set("filterByFormula", formula(StudentIDField, studentID))
	query.Set("maxRecords", "1")

	data, err := c.call(ctx, http.MethodGet, url.PathEscape(table), query, nil)
	if err != nil {
		return nil, err
	}

	var list listResponse
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if len(list.Records) == 0 {
		return nil, ErrNotFound
	}
	return &list.Records[0], nil
}

// Upsert updates the row keyed by studentID, creating it when missing.
func (c *Client) Upsert(ctx context.Context, table, studentID string, fields map[string]any) (*Record, error) {
	row := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		row[k] = v
	}
	row[StudentIDField] = studentID

	existing, err := c.Find(ctx, table, studentID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	var data json.RawMessage
	if existing != nil {
		data, err = c.call(ctx, http.MethodPatch, url.PathEscape(table)+"/"+url.PathEscape(existing.ID), nil, Record{Fields: row})
	} else {
		data, err = c.call(ctx, http.MethodPost, url.PathEscape(table), nil, Record{Fields: row})
	}
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return &rec, nil
}
