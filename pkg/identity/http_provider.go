package identity

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// TokenSource supplies the current bearer token for authenticated calls to
// the identity backend (probe, sign-out, password update).
type TokenSource func(ctx context.Context) (string, bool)

// HTTPProvider implements Provider over the backend's REST auth API.
type HTTPProvider struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
	tokens     TokenSource
	oauth      map[string]*oauth2.Config

	mu          sync.Mutex
	subscribers map[chan *Grant]struct{}
	watchCancel context.CancelFunc
	watchWg     sync.WaitGroup
	lastSeen    string // access token of the last observed grant, "" when signed out
	closed      bool
}

// HTTPOption configures an HTTPProvider during construction.
type HTTPOption func(*HTTPProvider)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(p *HTTPProvider) {
		if client != nil {
			p.httpClient = client
		}
	}
}

// WithLogger sets the logger for the provider.
func WithLogger(logger *slog.Logger) HTTPOption {
	return func(p *HTTPProvider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTokenSource sets where the provider obtains the current bearer token
// for its own authenticated calls.
func WithTokenSource(src TokenSource) HTTPOption {
	return func(p *HTTPProvider) {
		p.tokens = src
	}
}

// WithOAuthProvider registers an external login provider under the given name.
func WithOAuthProvider(name string, cfg *oauth2.Config) HTTPOption {
	return func(p *HTTPProvider) {
		if name != "" && cfg != nil {
			p.oauth[name] = cfg
		}
	}
}

// NewHTTPProvider creates a provider over the backend's REST auth API.
func NewHTTPProvider(config Config, opts ...HTTPOption) *HTTPProvider {
	p := &HTTPProvider{
		config:      config,
		httpClient:  &http.Client{Timeout: config.RequestTimeout},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		oauth:       make(map[string]*oauth2.Config),
		subscribers: make(map[chan *Grant]struct{}),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// grantPayload is the backend's wire shape for a live session.
type grantPayload struct {
	AccessToken string   `json:"access_token"`
	ExpiresAt   int64    `json:"expires_at,omitempty"`
	User        Identity `json:"user"`
}

// errorPayload is the backend's wire shape for a failure.
type errorPayload struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func (e errorPayload) text() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

func (p *HTTPProvider) Probe(ctx context.Context) (*Grant, error) {
	req, err := p.newRequest(ctx, http.MethodGet, "/auth/v1/session", nil, true)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errors.Join(ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		grant, err := p.decodeGrant(resp.Body)
		if err != nil {
			return nil, err
		}
		p.observe(grant)
		return grant, nil
	case resp.StatusCode == http.StatusNoContent,
		resp.StatusCode == http.StatusUnauthorized:
		// Authoritative "no live session".
		p.observe(nil)
		return nil, nil
	default:
		return nil, fmt.Errorf("identity: probe returned status %d", resp.StatusCode)
	}
}

func (p *HTTPProvider) SignIn(ctx context.Context, creds Credentials) (*Grant, error) {
	req, err := p.newRequest(ctx, http.MethodPost, "/auth/v1/token", creds, false)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errors.Join(ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Join(ErrInvalidCredentials, errors.New(p.decodeError(resp.Body)))
	}

	grant, err := p.decodeGrant(resp.Body)
	if err != nil {
		return nil, err
	}

	p.observe(grant)
	return grant, nil
}

func (p *HTTPProvider) SignOut(ctx context.Context) error {
	req, err := p.newRequest(ctx, http.MethodPost, "/auth/v1/logout", nil, true)
	if err != nil {
		return err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errors.Join(ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode != http.StatusUnauthorized {
		return fmt.Errorf("identity: sign-out returned status %d", resp.StatusCode)
	}

	p.observe(nil)
	return nil
}

func (p *HTTPProvider) SignUp(ctx context.Context, reg Registration) (*SignUpResult, error) {
	req, err := p.newRequest(ctx, http.MethodPost, "/auth/v1/signup", reg, false)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errors.Join(ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.Join(ErrSignUpRejected, errors.New(p.decodeError(resp.Body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Join(ErrInvalidResponse, err)
	}

	var pending struct {
		PendingVerification bool `json:"pending_verification"`
	}
	if err := json.Unmarshal(body, &pending); err == nil && pending.PendingVerification {
		return &SignUpResult{PendingVerification: true}, nil
	}

	grant, err := p.decodeGrant(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	p.observe(grant)
	return &SignUpResult{Grant: grant}, nil
}

func (p *HTTPProvider) UpdatePassword(ctx context.Context, newPassword string) error {
	payload := struct {
		Password string `json:"password"`
	}{Password: newPassword}

	req, err := p.newRequest(ctx, http.MethodPut, "/auth/v1/user", payload, true)
	if err != nil {
		return err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errors.Join(ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Join(ErrPasswordRejected, errors.New(p.decodeError(resp.Body)))
	}
	return nil
}

func (p *HTTPProvider) ExternalLoginURL(provider string) (string, error) {
	cfg, ok := p.oauth[provider]
	if !ok {
		return "", errors.Join(ErrUnknownProvider, fmt.Errorf("identity: provider %q", provider))
	}

	state, err := randomState()
	if err != nil {
		return "", err
	}

	return cfg.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// Subscribe returns a change-feed channel. The first subscriber starts the
// watch goroutine; the last unsubscribe does not stop it (Close does), since
// subscribers come and go with screen lifecycles.
func (p *HTTPProvider) Subscribe(ctx context.Context) (<-chan *Grant, UnsubscribeFunc, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		ch := make(chan *Grant)
		close(ch)
		return ch, func() {}, nil
	}

	ch := make(chan *Grant, max(p.config.SubscriberBuffer, 1))
	p.subscribers[ch] = struct{}{}

	if p.watchCancel == nil {
		watchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		p.watchCancel = cancel
		p.watchWg.Add(1)
		go p.watch(watchCtx)
	}

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			if _, ok := p.subscribers[ch]; ok {
				delete(p.subscribers, ch)
				close(ch)
			}
		})
	}

	return ch, unsubscribe, nil
}

// Close stops the watch goroutine and closes every subscriber channel.
func (p *HTTPProvider) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true

	if p.watchCancel != nil {
		p.watchCancel()
	}
	for ch := range p.subscribers {
		close(ch)
	}
	clear(p.subscribers)
	p.mu.Unlock()

	p.watchWg.Wait()
	return nil
}

// watch re-probes the backend at the configured interval and publishes a
// change whenever the answer differs from the last one seen.
func (p *HTTPProvider) watch(ctx context.Context) {
	defer p.watchWg.Done()

	ticker := time.NewTicker(p.config.WatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Probe records and publishes the answer itself; an error is
			// inconclusive and keeps the last known answer.
			if _, err := p.Probe(ctx); err != nil {
				p.logger.DebugContext(ctx, "identity watch probe failed", "error", err)
			}
		}
	}
}

// observe records the backend's latest answer and fans it out to subscribers
// when it differs from the previous one. Sends never block; a subscriber
// whose buffer is full misses the intermediate value and catches up on the
// next change.
func (p *HTTPProvider) observe(grant *Grant) {
	token := ""
	if grant != nil {
		token = grant.AccessToken
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || token == p.lastSeen {
		p.lastSeen = token
		return
	}
	p.lastSeen = token

	for ch := range p.subscribers {
		select {
		case ch <- grant:
		default:
		}
	}
}

func (p *HTTPProvider) newRequest(ctx context.Context, method, path string, body any, authed bool) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	url := strings.TrimSuffix(p.config.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed && p.tokens != nil {
		if token, ok := p.tokens(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

func (p *HTTPProvider) decodeGrant(r io.Reader) (*Grant, error) {
	var payload grantPayload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, errors.Join(ErrInvalidResponse, err)
	}
	if payload.AccessToken == "" {
		return nil, errors.Join(ErrInvalidResponse, errors.New("identity: missing access token"))
	}

	grant := &Grant{
		Session:     Session{Identity: payload.User},
		AccessToken: payload.AccessToken,
	}

	ApplyTokenClaims(&grant.Session, payload.AccessToken)
	if grant.Session.ExpiresAt.IsZero() && payload.ExpiresAt > 0 {
		grant.Session.ExpiresAt = time.Unix(payload.ExpiresAt, 0)
	}

	return grant, nil
}

func (p *HTTPProvider) decodeError(r io.Reader) string {
	var payload errorPayload
	if err := json.NewDecoder(r).Decode(&payload); err != nil || payload.text() == "" {
		return "request rejected by identity backend"
	}
	return payload.text()
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
