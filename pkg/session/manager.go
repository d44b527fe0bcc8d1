package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/rxware/rxkit/pkg/identity"
	"github.com/rxware/rxkit/pkg/tokenstore"
)

// Manager reconciles the three concurrent sources of truth about the current
// session into one State, and exposes the credential operations the UI calls.
// All methods are safe for concurrent use.
type Manager struct {
	provider   identity.Provider
	tokens     *tokenstore.TokenStore
	config     Config
	logger     *slog.Logger
	loginHooks []func()

	mu           sync.Mutex
	state        State
	resolved     bool
	started      bool
	closed       bool
	loadingTimer *time.Timer
	reprobeTimer *time.Timer
	subscribers  map[chan State]struct{}
	unsubscribe  identity.UnsubscribeFunc

	done    chan struct{}
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	cleanup sync.WaitGroup
}

// New creates a Manager over the given identity provider and credential
// store. The state is Loading until Start is called and a trigger resolves.
func New(provider identity.Provider, tokens *tokenstore.TokenStore, opts ...Option) *Manager {
	m := &Manager{
		provider:    provider,
		tokens:      tokens,
		config:      DefaultConfig(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		state:       loadingState(),
		subscribers: make(map[chan State]struct{}),
		done:        make(chan struct{}),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// OnLogin registers an additional post-sign-in hook after construction.
func (m *Manager) OnLogin(fn func()) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loginHooks = append(m.loginHooks, fn)
}

// Start kicks off the three resolution triggers: the initial probe, the
// provider's change feed, and the defensive re-probe. It also arms the
// loading timeout. Start may be called once.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.started {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.started = true

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	m.loadingTimer = time.AfterFunc(m.config.LoadingTimeout, m.onLoadingTimeout)
	m.reprobeTimer = time.AfterFunc(m.config.ReprobeDelay, func() {
		m.probe(runCtx)
	})
	m.mu.Unlock()

	feed, unsubscribe, err := m.provider.Subscribe(runCtx)
	if err != nil {
		// Degrade to probe-only resolution rather than failing startup.
		m.logger.WarnContext(ctx, "session change feed unavailable", "error", err)
	} else {
		m.mu.Lock()
		m.unsubscribe = unsubscribe
		m.mu.Unlock()

		m.wg.Add(1)
		go m.readFeed(runCtx, feed)
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.probe(runCtx)
	}()

	return nil
}

// State returns a snapshot of the current session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe returns a channel that receives every state transition after the
// call. The subscription ends when ctx is cancelled or the Manager closes;
// either way the channel is closed. Sends never block: a subscriber that
// falls behind misses intermediate states, never future ones.
func (m *Manager) Subscribe(ctx context.Context) <-chan State {
	ch := make(chan State, max(m.config.SubscriberBuffer, 1))

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		close(ch)
		return ch
	}
	m.subscribers[ch] = struct{}{}
	m.mu.Unlock()

	if ctx.Done() != nil {
		m.cleanup.Add(1)
		go func() {
			defer m.cleanup.Done()
			select {
			case <-ctx.Done():
			case <-m.done:
				// Close already shut the channel down.
				return
			}
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, ok := m.subscribers[ch]; ok {
				delete(m.subscribers, ch)
				close(ch)
			}
		}()
	}

	return ch
}

// Login exchanges credentials for a session. On success the state becomes
// Authenticated and the credential is stored; on failure nothing changes and
// the error is returned to the caller.
func (m *Manager) Login(ctx context.Context, creds identity.Credentials) (*identity.Session, error) {
	grant, err := m.provider.SignIn(ctx, creds)
	if err != nil {
		return nil, err
	}
	if grant == nil {
		return nil, identity.ErrInvalidResponse
	}

	m.apply(ctx, grant)
	m.runLoginHooks()

	sess := grant.Session
	return &sess, nil
}

// Logout revokes the session on the backend and tears the local session down
// unconditionally: even when the backend call fails, the credential is
// cleared and the state becomes Unauthenticated. The returned error is the
// backend's, for logging only. A failed backend sign-out may leave the
// server-side session live; that trust boundary is accepted, not hidden.
func (m *Manager) Logout(ctx context.Context) error {
	signOutErr := m.provider.SignOut(ctx)
	if signOutErr != nil {
		m.logger.WarnContext(ctx, "backend sign-out failed, clearing local session anyway", "error", signOutErr)
	}

	if err := m.tokens.Clear(ctx); err != nil {
		m.logger.WarnContext(ctx, "failed to clear stored credential", "error", err)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return signOutErr
	}
	m.state = unauthenticatedState()
	m.resolved = true
	m.stopTimersLocked()
	m.publishLocked()
	m.mu.Unlock()

	return signOutErr
}

// Register signs up a new account. When the backend auto-logs the account in
// the state becomes Authenticated; when it parks the account behind email
// verification the state is left untouched and the result says so.
func (m *Manager) Register(ctx context.Context, reg identity.Registration) (*identity.SignUpResult, error) {
	result, err := m.provider.SignUp(ctx, reg)
	if err != nil {
		return nil, err
	}

	if result.Grant != nil {
		m.apply(ctx, result.Grant)
		m.runLoginHooks()
	}

	return result, nil
}

// ChangePassword updates the signed-in user's password.
func (m *Manager) ChangePassword(ctx context.Context, newPassword string) error {
	return m.provider.UpdatePassword(ctx, newPassword)
}

// BeginExternalLogin returns the authorization URL for an external OAuth
// provider. The host application redirects the user there; the session then
// arrives through the change feed once the backend completes the flow.
func (m *Manager) BeginExternalLogin(provider string) (string, error) {
	return m.provider.ExternalLoginURL(provider)
}

// Close cancels the timers, the change feed and all subscribers, and waits
// for the manager's goroutines. Close is idempotent.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.done)
	m.stopTimersLocked()

	if m.cancel != nil {
		m.cancel()
	}
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	for ch := range m.subscribers {
		close(ch)
	}
	clear(m.subscribers)
	m.mu.Unlock()

	m.wg.Wait()
	m.cleanup.Wait()
	return nil
}

// probe asks the backend for the current session and applies the answer.
// A failed probe resolves Loading to signed-out without touching the stored
// credential: the backend never said the credential is bad, only that it
// could not be asked.
func (m *Manager) probe(ctx context.Context) {
	grant, err := m.provider.Probe(ctx)
	if err != nil {
		m.logger.DebugContext(ctx, "session probe failed", "error", err)
		m.mu.Lock()
		if !m.closed {
			m.state = unauthenticatedState()
			m.resolved = true
			m.stopTimersLocked()
			m.publishLocked()
		}
		m.mu.Unlock()
		return
	}

	m.apply(ctx, grant)
}

// readFeed applies every change the provider pushes, for as long as the feed
// stays open.
func (m *Manager) readFeed(ctx context.Context, feed <-chan *identity.Grant) {
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case grant, ok := <-feed:
			if !ok {
				return
			}
			m.apply(ctx, grant)
		}
	}
}

// apply replaces the full state with the backend's latest answer. The
// credential slot is written before the state becomes visible so no consumer
// can observe an authenticated state whose token the store does not hold.
// Applies are idempotent; triggers may arrive in any order.
func (m *Manager) apply(ctx context.Context, grant *identity.Grant) {
	if grant != nil {
		if err := m.tokens.Set(ctx, grant.AccessToken); err != nil {
			m.logger.WarnContext(ctx, "failed to persist credential", "error", err)
		}
	} else {
		if err := m.tokens.Clear(ctx); err != nil {
			m.logger.WarnContext(ctx, "failed to clear stored credential", "error", err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}

	if grant != nil {
		m.state = authenticatedState(grant.Session)
	} else {
		m.state = unauthenticatedState()
	}
	m.resolved = true
	m.stopTimersLocked()
	m.publishLocked()
}

// onLoadingTimeout fires when nothing resolved in time. It loses to any
// trigger that resolved first: the resolved flag is checked under the same
// lock the triggers publish under.
func (m *Manager) onLoadingTimeout() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.resolved || m.closed {
		return
	}

	m.state = unauthenticatedState()
	m.resolved = true
	m.stopReprobeLocked()
	m.publishLocked()
}

func (m *Manager) runLoginHooks() {
	m.mu.Lock()
	hooks := make([]func(), len(m.loginHooks))
	copy(hooks, m.loginHooks)
	m.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

func (m *Manager) publishLocked() {
	for ch := range m.subscribers {
		select {
		case ch <- m.state:
		default:
		}
	}
}

func (m *Manager) stopTimersLocked() {
	if m.loadingTimer != nil {
		m.loadingTimer.Stop()
	}
	m.stopReprobeLocked()
}

func (m *Manager) stopReprobeLocked() {
	if m.reprobeTimer != nil {
		m.reprobeTimer.Stop()
	}
}
