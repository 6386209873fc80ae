package anubis

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/futplan/internal/platform/logging"
	"github.com/riskibarqy/futplan/internal/platform/resilience"
	"github.com/riskibarqy/futplan/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, cfg Config) (*Client, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg.BaseURL = srv.URL
	if cfg.IntrospectPath == "" {
		cfg.IntrospectPath = "/v1/auth/introspect"
	}
	return NewClient(cfg, logging.NewNop()), &hits
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, _ := sonic.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func TestClientVerifyAccessToken_SendsAdminKeyAndParsesResponse(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/v1/auth/introspect" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("x-admin-key"); got != "admin-secret" {
			t.Errorf("unexpected x-admin-key: %s", got)
		}

		var req map[string]string
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		if req["token"] != "token-abc" {
			t.Errorf("unexpected token value: %s", req["token"])
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"active":  true,
			"user_id": "user-123",
			"email":   "adi@futplan.local",
		})
	}, Config{AdminKey: "admin-secret"})

	principal, err := client.VerifyAccessToken(context.Background(), " token-abc ")
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if principal.UserID != "user-123" || principal.Email != "adi@futplan.local" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestClientVerifyAccessToken_RejectsEmptyToken(t *testing.T) {
	t.Parallel()

	client, hits := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, Config{})

	_, err := client.VerifyAccessToken(context.Background(), "   ")
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("expected no upstream call, got %d", hits.Load())
	}
}

func TestClientVerifyAccessToken_DeniedAndInactiveAreUnauthorized(t *testing.T) {
	t.Parallel()

	cases := map[string]http.HandlerFunc{
		"denied": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
		"inactive": func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"active": false})
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			client, _ := newTestClient(t, handler, Config{})
			_, err := client.VerifyAccessToken(context.Background(), "token-abc")
			if !errors.Is(err, usecase.ErrUnauthorized) {
				t.Fatalf("expected unauthorized, got %v", err)
			}
		})
	}
}

func TestClientVerifyAccessToken_UnauthorizedDoesNotTripCircuit(t *testing.T) {
	t.Parallel()

	client, hits := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}, Config{
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for range 3 {
		if _, err := client.VerifyAccessToken(context.Background(), "token-abc"); !errors.Is(err, usecase.ErrUnauthorized) {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	}
	if hits.Load() != 3 {
		t.Fatalf("expected every call to reach upstream, got %d", hits.Load())
	}
}

func TestClientVerifyAccessToken_OpensCircuitOnUpstreamFailures(t *testing.T) {
	t.Parallel()

	client, hits := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, Config{
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for range 3 {
		_, err := client.VerifyAccessToken(context.Background(), "token-abc")
		if !errors.Is(err, usecase.ErrDependencyUnavailable) {
			t.Fatalf("expected dependency unavailable, got %v", err)
		}
	}
	if hits.Load() != 2 {
		t.Fatalf("expected open circuit to stop the third call, got %d hits", hits.Load())
	}
	if client.breaker.State() != resilience.CircuitStateOpen {
		t.Fatalf("expected open circuit, got %s", client.breaker.State())
	}
}

func TestClientVerifyAccessToken_CachesPrincipal(t *testing.T) {
	t.Parallel()

	client, hits := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"active": true, "user_id": "user-123"})
	}, Config{CacheTTL: time.Minute})

	for range 3 {
		principal, err := client.VerifyAccessToken(context.Background(), "token-abc")
		if err != nil {
			t.Fatalf("verify token: %v", err)
		}
		if principal.UserID != "user-123" {
			t.Fatalf("unexpected principal: %+v", principal)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("expected one upstream call, got %d", hits.Load())
	}
}

func TestClientVerifyAccessToken_DoesNotCacheRejections(t *testing.T) {
	t.Parallel()

	client, hits := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, Config{CacheTTL: time.Minute})

	for range 2 {
		_, _ = client.VerifyAccessToken(context.Background(), "token-abc")
	}
	if hits.Load() != 2 {
		t.Fatalf("expected rejections to skip the cache, got %d hits", hits.Load())
	}
}

func TestBuildURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		base, path, want string
	}{
		{"https://auth.example.com/", "/v1/introspect", "https://auth.example.com/v1/introspect"},
		{"https://auth.example.com", "v1/introspect", "https://auth.example.com/v1/introspect"},
		{"https://auth.example.com", "", "https://auth.example.com"},
		{"https://auth.example.com", "https://other.example.com/check", "https://other.example.com/check"},
	}
	for _, tc := range cases {
		if got := buildURL(tc.base, tc.path); got != tc.want {
			t.Fatalf("buildURL(%q, %q) = %q want %q", tc.base, tc.path, got, tc.want)
		}
	}
}
