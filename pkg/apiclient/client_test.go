package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxware/rxkit/pkg/apiclient"
	"github.com/rxware/rxkit/pkg/apperr"
	"github.com/rxware/rxkit/pkg/authroute"
	"github.com/rxware/rxkit/pkg/tokenstore"
)

type testRig struct {
	client      *apiclient.Client
	tokens      *tokenstore.TokenStore
	navigations *atomic.Int32
	lastAuthHdr *atomic.Value
	navRelease  chan struct{} // non-nil: navigator blocks until closed
}

func setupClient(t *testing.T, blockNavigation bool) *testRig {
	t.Helper()

	rig := &testRig{
		tokens:      tokenstore.New(tokenstore.NewMemoryStore()),
		navigations: &atomic.Int32{},
		lastAuthHdr: &atomic.Value{},
	}
	if blockNavigation {
		rig.navRelease = make(chan struct{})
	}

	r := chi.NewRouter()

	r.Get("/api/v1/orders", func(w http.ResponseWriter, req *http.Request) {
		rig.lastAuthHdr.Store(req.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": "ord-1", "status": "pending"}},
		})
	})
	r.Get("/api/v1/profile", func(w http.ResponseWriter, req *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"email": "ops@rx.test"})
	})
	r.Post("/api/v1/orders", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "quantity must be positive"})
	})
	r.Get("/api/v1/admin", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "insufficient permissions"})
	})
	r.Get("/api/v1/missing", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "order not found"})
	})
	r.Get("/api/v1/garbage", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte("<html>definitely not json</html>"))
	})
	r.Get("/api/v1/secure", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "access token expired"})
	})
	r.Get("/api/v1/sneaky", func(w http.ResponseWriter, req *http.Request) {
		// Auth failure hidden behind a 500: the phrase set must catch it.
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid access token"})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	failures := authroute.New(rig.tokens, authroute.WithNavigator(func(string) {
		rig.navigations.Add(1)
		if rig.navRelease != nil {
			<-rig.navRelease
		}
	}))

	cfg := apiclient.DefaultConfig()
	cfg.BaseURL = srv.URL
	rig.client = apiclient.New(cfg, rig.tokens, failures)
	return rig
}

func TestClient_Request(t *testing.T) {
	ctx := context.Background()

	t.Run("injects the stored bearer token", func(t *testing.T) {
		rig := setupClient(t, false)
		require.NoError(t, rig.tokens.Set(ctx, "tok-abc"))

		resp, err := rig.client.Get(ctx, "/api/v1/orders")
		require.NoError(t, err)
		assert.False(t, resp.Redirecting)
		assert.Equal(t, "Bearer tok-abc", rig.lastAuthHdr.Load())
	})

	t.Run("sends unauthenticated without a token", func(t *testing.T) {
		rig := setupClient(t, false)

		_, err := rig.client.Get(ctx, "/api/v1/orders")
		require.NoError(t, err)
		assert.Equal(t, "", rig.lastAuthHdr.Load())
	})

	t.Run("unwraps the data envelope", func(t *testing.T) {
		rig := setupClient(t, false)

		resp, err := rig.client.Get(ctx, "/api/v1/orders")
		require.NoError(t, err)

		var orders []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		}
		require.NoError(t, resp.Decode(&orders))
		require.Len(t, orders, 1)
		assert.Equal(t, "ord-1", orders[0].ID)
	})

	t.Run("bare payloads pass through", func(t *testing.T) {
		rig := setupClient(t, false)

		resp, err := rig.client.Get(ctx, "/api/v1/profile")
		require.NoError(t, err)

		var profile struct {
			Email string `json:"email"`
		}
		require.NoError(t, resp.Decode(&profile))
		assert.Equal(t, "ops@rx.test", profile.Email)
	})
}

func TestClient_Classification(t *testing.T) {
	ctx := context.Background()

	wantKind := func(t *testing.T, err error, kind apperr.Kind, msgPart string) {
		t.Helper()
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, kind, appErr.Kind)
		assert.Contains(t, appErr.Message, msgPart)
	}

	t.Run("400 validation", func(t *testing.T) {
		rig := setupClient(t, false)
		_, err := rig.client.Post(ctx, "/api/v1/orders", map[string]int{"quantity": -1})
		wantKind(t, err, apperr.KindValidation, "quantity must be positive")
	})

	t.Run("403 authorization", func(t *testing.T) {
		rig := setupClient(t, false)
		_, err := rig.client.Get(ctx, "/api/v1/admin")
		wantKind(t, err, apperr.KindAuthorization, "insufficient permissions")
	})

	t.Run("404 server", func(t *testing.T) {
		rig := setupClient(t, false)
		_, err := rig.client.Get(ctx, "/api/v1/missing")
		wantKind(t, err, apperr.KindServer, "order not found")
	})

	t.Run("unparseable success body", func(t *testing.T) {
		rig := setupClient(t, false)
		_, err := rig.client.Get(ctx, "/api/v1/garbage")
		wantKind(t, err, apperr.KindUnknown, "invalid response")
	})

	t.Run("transport failure is network and keeps the token", func(t *testing.T) {
		tokens := tokenstore.New(tokenstore.NewMemoryStore())
		require.NoError(t, tokens.Set(ctx, "tok-keep"))

		cfg := apiclient.DefaultConfig()
		cfg.BaseURL = "http://127.0.0.1:1"
		cfg.RequestTimeout = 200 * time.Millisecond
		client := apiclient.New(cfg, tokens, authroute.New(tokens))

		_, err := client.Get(ctx, "/api/v1/orders")
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.KindNetwork, appErr.Kind)

		token, ok := tokens.Get(ctx)
		assert.True(t, ok)
		assert.Equal(t, "tok-keep", token)
	})
}

func TestClient_AuthFailurePath(t *testing.T) {
	ctx := context.Background()

	t.Run("401 clears the token, navigates and returns a sentinel", func(t *testing.T) {
		rig := setupClient(t, false)
		require.NoError(t, rig.tokens.Set(ctx, "tok-dead"))

		resp, err := rig.client.Get(ctx, "/api/v1/secure")
		require.NoError(t, err)
		assert.True(t, resp.Redirecting)
		assert.Equal(t, int32(1), rig.navigations.Load())

		_, ok := rig.tokens.Get(ctx)
		assert.False(t, ok)
	})

	t.Run("auth phrase behind a non-401 status still trips", func(t *testing.T) {
		rig := setupClient(t, false)
		require.NoError(t, rig.tokens.Set(ctx, "tok-dead"))

		resp, err := rig.client.Get(ctx, "/api/v1/sneaky")
		require.NoError(t, err)
		assert.True(t, resp.Redirecting)
		assert.Equal(t, int32(1), rig.navigations.Load())
	})

	t.Run("concurrent 401s navigate exactly once", func(t *testing.T) {
		rig := setupClient(t, true)
		require.NoError(t, rig.tokens.Set(ctx, "tok-dead"))

		results := make(chan *apiclient.Response, 2)
		errs := make(chan error, 2)

		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				resp, err := rig.client.Get(ctx, "/api/v1/secure")
				results <- resp
				errs <- err
			}()
		}

		// The first failure holds the navigation open; the second must
		// complete as a no-op against the latch rather than wait.
		require.Eventually(t, func() bool {
			return rig.navigations.Load() == 1 && len(results) >= 1
		}, 2*time.Second, 5*time.Millisecond)
		close(rig.navRelease)
		wg.Wait()

		for i := 0; i < 2; i++ {
			require.NoError(t, <-errs)
			resp := <-results
			require.NotNil(t, resp)
			assert.True(t, resp.Redirecting)
		}

		assert.Equal(t, int32(1), rig.navigations.Load())
		_, ok := rig.tokens.Get(ctx)
		assert.False(t, ok)
	})
}

func TestClient_PanicBoundary(t *testing.T) {
	ctx := context.Background()
	rig := setupClient(t, false)

	// A body that cannot be marshaled makes newRequest fail before any I/O.
	_, err := rig.client.Post(ctx, "/api/v1/orders", map[string]any{"bad": func() {}})

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindUnknown, appErr.Kind)
}
