// Package restclient loads and mutates the records
// of a remote REST collection.
package restclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/domonda/go-datatable"
)

// Operations reported to an Observer.
const (
	OpFetch  = "fetch"
	OpCreate = "create"
	OpDelete = "delete"
)

// MaxBodySize limits the size of read response bodies.
const MaxBodySize = 16 << 20

// Observer is notified about every finished request.
// statusCode is zero if no response was received.
type Observer interface {
	ObserveRequest(op string, statusCode int, duration time.Duration, err error)
}

// ObserverFunc implements Observer for a function.
type ObserverFunc func(op string, statusCode int, duration time.Duration, err error)

func (f ObserverFunc) ObserveRequest(op string, statusCode int, duration time.Duration, err error) {
	f(op, statusCode, duration, err)
}

// Client talks to REST collections.
// It performs no retries and has no timeout
// other than the one of the passed context.
type Client struct {
	httpClient *http.Client
	parser     datatable.Parser
	observer   Observer
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the http.Client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) { client.httpClient = c }
}

// WithParser sets the parser for numeric form values.
func WithParser(p datatable.Parser) Option {
	return func(client *Client) { client.parser = p }
}

// WithObserver sets an Observer for finished requests.
func WithObserver(o Observer) Option {
	return func(client *Client) { client.observer = o }
}

// WithLogger sets the logger for request debug output.
func WithLogger(l *slog.Logger) Option {
	return func(client *Client) { client.logger = l }
}

// New returns a Client using http.DefaultClient
// and datatable.NewStringParser unless configured otherwise.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		parser:     datatable.NewStringParser(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch loads and normalizes the records of the collection at apiURL.
// Errors are of type *datatable.FetchError.
func (c *Client) Fetch(ctx context.Context, apiURL string) ([]datatable.Record, error) {
	statusCode, body, err := c.do(ctx, OpFetch, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, &datatable.FetchError{URL: apiURL, StatusCode: statusCode, Err: err}
	}
	if !isSuccess(statusCode) {
		return nil, &datatable.FetchError{URL: apiURL, StatusCode: statusCode, Err: errors.New(http.StatusText(statusCode))}
	}
	records, err := datatable.NormalizePayload(body)
	if err != nil {
		var fetchErr *datatable.FetchError
		if errors.As(err, &fetchErr) {
			fetchErr.URL = apiURL
			fetchErr.StatusCode = statusCode
		}
		return nil, err
	}
	return records, nil
}

// Create posts record as JSON object to the collection at apiURL
// and returns the response body.
//
// Numeric values are sent as JSON numbers. A value that can't be
// parsed as number is sent as 0, an empty value as empty string.
// Errors are of type *datatable.MutationError.
func (c *Client) Create(ctx context.Context, apiURL string, record []datatable.FormValue) ([]byte, error) {
	body, err := c.EncodeRecord(record)
	if err != nil {
		return nil, &datatable.MutationError{Op: OpCreate, URL: apiURL, Err: err}
	}
	statusCode, respBody, err := c.do(ctx, OpCreate, http.MethodPost, apiURL, body)
	if err != nil {
		return nil, &datatable.MutationError{Op: OpCreate, URL: apiURL, StatusCode: statusCode, Err: err}
	}
	if !isSuccess(statusCode) {
		return nil, &datatable.MutationError{Op: OpCreate, URL: apiURL, StatusCode: statusCode, Body: strings.TrimSpace(string(respBody))}
	}
	return respBody, nil
}

// Delete deletes the record with id from the collection at apiURL
// by sending a DELETE request to apiURL/id.
// An empty id returns a *datatable.MutationError wrapping
// datatable.ErrMissingID without sending a request.
func (c *Client) Delete(ctx context.Context, apiURL, id string) error {
	if id == "" {
		return &datatable.MutationError{Op: OpDelete, URL: apiURL, Err: datatable.ErrMissingID}
	}
	recordURL := RecordURL(apiURL, id)
	statusCode, respBody, err := c.do(ctx, OpDelete, http.MethodDelete, recordURL, nil)
	if err != nil {
		return &datatable.MutationError{Op: OpDelete, URL: recordURL, StatusCode: statusCode, Err: err}
	}
	if !isSuccess(statusCode) {
		return &datatable.MutationError{Op: OpDelete, URL: recordURL, StatusCode: statusCode, Body: strings.TrimSpace(string(respBody))}
	}
	return nil
}

// RecordURL returns the URL of the record with id
// in the collection at apiURL.
func RecordURL(apiURL, id string) string {
	return strings.TrimRight(apiURL, "/") + "/" + url.PathEscape(id)
}

// EncodeRecord encodes record as JSON object
// with the fields in record order.
func (c *Client) EncodeRecord(record []datatable.FormValue) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range record {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(field.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(c.jsonValue(field))
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field.Name, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *Client) jsonValue(field datatable.FormValue) any {
	if !field.Numeric || field.Value == "" {
		return field.Value
	}
	f, err := c.parser.ParseFloat(field.Value)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func (c *Client) do(ctx context.Context, op, method, reqURL string, body []byte) (statusCode int, respBody []byte, err error) {
	start := time.Now()
	defer func() {
		duration := time.Since(start)
		if c.observer != nil {
			c.observer.ObserveRequest(op, statusCode, duration, err)
		}
		c.logger.DebugContext(ctx, "REST request",
			"op", op,
			"method", method,
			"url", reqURL,
			"status", statusCode,
			"duration", duration,
		)
	}()

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req) //#nosec G107 -- URL from table configuration
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err = io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

func isSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
