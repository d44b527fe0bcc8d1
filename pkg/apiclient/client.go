package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rxware/rxkit/pkg/apperr"
	"github.com/rxware/rxkit/pkg/authroute"
	"github.com/rxware/rxkit/pkg/tokenstore"
)

// Client calls the business backend with the stored credential attached.
// All methods are safe for concurrent use.
type Client struct {
	config     Config
	httpClient *http.Client
	tokens     *tokenstore.TokenStore
	failures   *authroute.Handler
	logger     *slog.Logger
}

// Option configures a Client during construction.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger sets the logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Client. The authroute handler receives every response that
// classifies as an authentication failure.
func New(config Config, tokens *tokenstore.TokenStore, failures *authroute.Handler, opts ...Option) *Client {
	c := &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.RequestTimeout},
		tokens:     tokens,
		failures:   failures,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Response is a successful (or redirecting) call outcome. When Redirecting
// is true the credential was found invalid mid-flight: the failure path has
// already run and the caller should render nothing.
type Response struct {
	Data        json.RawMessage
	Redirecting bool
}

// Decode unmarshals the response data into v.
func (r *Response) Decode(v any) error {
	if len(r.Data) == 0 {
		return errors.New("apiclient: empty response data")
	}
	return json.Unmarshal(r.Data, v)
}

// envelope is the backend's success wire shape. Endpoints that return a bare
// object are passed through untouched.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// errorBody is the backend's failure wire shape.
type errorBody struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Request(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Request(ctx, http.MethodPost, path, body)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Request(ctx, http.MethodPut, path, body)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Request(ctx, http.MethodDelete, path, nil)
}

// Request performs an outbound call. The bearer credential is injected here
// and only here; callers never attach their own Authorization header. Every
// failure comes back as a classified *apperr.Error value, and anything
// unexpected is downgraded to KindUnknown rather than escaping the boundary.
func (c *Client) Request(ctx context.Context, method, path string, body any) (resp *Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.ErrorContext(ctx, "panic in api request", "panic", r, "path", path)
			resp, err = nil, apperr.New(apperr.KindUnknown, fmt.Sprintf("unexpected failure: %v", r))
		}
	}()

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, apperr.New(apperr.KindUnknown, err.Error())
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		// The request never produced a response; the credential is not
		// implicated and stays put.
		return nil, apperr.FromTransport(err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, apperr.FromTransport(err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return c.handleFailure(ctx, httpResp.StatusCode, raw)
	}

	return c.decodeSuccess(raw)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	url := strings.TrimSuffix(c.config.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.tokens.Get(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

func (c *Client) handleFailure(ctx context.Context, status int, raw []byte) (*Response, error) {
	var payload errorBody
	_ = json.Unmarshal(raw, &payload)
	message := payload.Error
	if message == "" {
		message = payload.Message
	}

	if apperr.IsAuthFailure(status, message) {
		// Credential is dead. Run the failure path once and hand the caller
		// a sentinel instead of an error it would try to display.
		c.failures.Trip(ctx)
		return &Response{Redirecting: true}, nil
	}

	return nil, apperr.FromStatus(status, message)
}

func (c *Client) decodeSuccess(raw []byte) (*Response, error) {
	if len(raw) == 0 {
		return &Response{}, nil
	}

	if !json.Valid(raw) {
		return nil, apperr.New(apperr.KindUnknown, "invalid response from server")
	}

	// Unwrap the {"data": ...} envelope; bare payloads pass through as-is.
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil {
		return &Response{Data: env.Data}, nil
	}
	return &Response{Data: raw}, nil
}
