package rxkit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/oauth2"

	"github.com/rxware/rxkit/pkg/apiclient"
	"github.com/rxware/rxkit/pkg/authroute"
	"github.com/rxware/rxkit/pkg/identity"
	"github.com/rxware/rxkit/pkg/session"
	"github.com/rxware/rxkit/pkg/tokenstore"
)

// Kit bundles the wired collaborators of the session subsystem.
type Kit struct {
	Tokens   *tokenstore.TokenStore
	Sessions *session.Manager
	API      *apiclient.Client
	Failures *authroute.Handler

	closers []func() error
}

type options struct {
	logger   *slog.Logger
	navigate authroute.NavigateFunc
	provider identity.Provider
	store    tokenstore.Store
	oauth    map[string]*oauth2.Config
}

// Option configures the Kit during construction.
type Option func(*options)

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithNavigator sets the host application's navigation callback.
func WithNavigator(fn authroute.NavigateFunc) Option {
	return func(o *options) {
		o.navigate = fn
	}
}

// WithProvider replaces the HTTP identity provider, mainly for tests.
func WithProvider(p identity.Provider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithTokenBackend replaces the durable credential backend selected by
// configuration.
func WithTokenBackend(s tokenstore.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithOAuthProvider registers an external login provider.
func WithOAuthProvider(name string, cfg *oauth2.Config) Option {
	return func(o *options) {
		if name != "" && cfg != nil {
			o.oauth[name] = cfg
		}
	}
}

// New wires the session subsystem from configuration. The result is inert
// until Start.
func New(ctx context.Context, cfg Config, opts ...Option) (*Kit, error) {
	o := &options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		oauth:  make(map[string]*oauth2.Config),
	}
	for _, opt := range opts {
		opt(o)
	}

	kit := &Kit{}

	store := o.store
	if store == nil {
		var err error
		store, err = newStore(ctx, cfg.Tokens, kit)
		if err != nil {
			return nil, err
		}
	}
	kit.Tokens = tokenstore.New(store)

	provider := o.provider
	if provider == nil {
		httpOpts := []identity.HTTPOption{
			identity.WithLogger(o.logger),
			identity.WithTokenSource(kit.Tokens.Get),
		}
		for name, oc := range o.oauth {
			httpOpts = append(httpOpts, identity.WithOAuthProvider(name, oc))
		}

		httpProvider := identity.NewHTTPProvider(cfg.Identity, httpOpts...)
		kit.closers = append(kit.closers, httpProvider.Close)
		provider = httpProvider
	}

	kit.Sessions = session.New(provider, kit.Tokens,
		session.WithConfig(cfg.Session),
		session.WithLogger(o.logger),
	)
	kit.closers = append(kit.closers, kit.Sessions.Close)

	failureOpts := []authroute.Option{
		authroute.WithSessions(kit.Sessions),
		authroute.WithSignedOutRoute(cfg.SignedOutRoute),
		authroute.WithLogger(o.logger),
	}
	if o.navigate != nil {
		failureOpts = append(failureOpts, authroute.WithNavigator(o.navigate))
	}
	kit.Failures = authroute.New(kit.Tokens, failureOpts...)

	// A fresh sign-in opens a new failure episode.
	kit.Sessions.OnLogin(kit.Failures.Reset)

	kit.API = apiclient.New(cfg.API, kit.Tokens, kit.Failures,
		apiclient.WithLogger(o.logger),
	)

	return kit, nil
}

// Start begins session resolution.
func (k *Kit) Start(ctx context.Context) error {
	return k.Sessions.Start(ctx)
}

// Close tears the subsystem down: session manager first, then the provider
// and the storage backend.
func (k *Kit) Close() error {
	var errs []error
	for i := len(k.closers) - 1; i >= 0; i-- {
		if err := k.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func newStore(ctx context.Context, cfg tokenstore.Config, kit *Kit) (tokenstore.Store, error) {
	switch cfg.Backend {
	case tokenstore.BackendMemory:
		return tokenstore.NewMemoryStore(), nil
	case tokenstore.BackendFile, "":
		return tokenstore.NewFileStore(cfg.FilePath), nil
	case tokenstore.BackendRedis:
		store, err := tokenstore.NewRedisStoreFromURL(ctx, cfg.RedisURL, cfg.RedisKey)
		if err != nil {
			return nil, err
		}
		kit.closers = append(kit.closers, store.Close)
		return store, nil
	default:
		return nil, errors.Join(ErrConfig, fmt.Errorf("rxkit: unknown token backend %q", cfg.Backend))
	}
}
