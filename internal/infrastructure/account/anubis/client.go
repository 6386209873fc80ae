package anubis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/futplan/internal/domain/user"
	"github.com/riskibarqy/futplan/internal/platform/cache"
	"github.com/riskibarqy/futplan/internal/platform/logging"
	"github.com/riskibarqy/futplan/internal/platform/resilience"
	"github.com/riskibarqy/futplan/internal/usecase"
)

const (
	defaultTimeout     = 5 * time.Second
	maxResponseBodyLen = 1 << 20
)

var errAnubisTransient = errors.New("anubis transient failure")

var tracer = otel.Tracer("futplan/internal/infrastructure/account/anubis")

// Config describes how to reach the Anubis token introspection endpoint.
type Config struct {
	BaseURL        string
	IntrospectPath string
	AdminKey       string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
	// CacheTTL keeps verified principals in memory; zero disables caching.
	CacheTTL time.Duration
}

// Client verifies bearer tokens against Anubis.
type Client struct {
	http          *fasthttp.Client
	introspectURL string
	adminKey      string
	timeout       time.Duration
	breaker       *resilience.CircuitBreaker
	principals    *cache.Store[user.Principal]
	logger        *logging.Logger
}

func NewClient(cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	var principals *cache.Store[user.Principal]
	if cfg.CacheTTL > 0 {
		principals = cache.NewStore[user.Principal](cfg.CacheTTL)
	}

	return &Client{
		http: &fasthttp.Client{
			Name:                "futplan-anubis",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxResponseBodyLen,
		},
		introspectURL: buildURL(cfg.BaseURL, cfg.IntrospectPath),
		adminKey:      strings.TrimSpace(cfg.AdminKey),
		timeout:       timeout,
		breaker:       resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		principals:    principals,
		logger:        logger.Named("anubis"),
	}
}

// VerifyAccessToken resolves the caller behind token. Rejected or inactive
// tokens yield usecase.ErrUnauthorized; an unreachable provider yields
// usecase.ErrDependencyUnavailable.
func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	if c.principals == nil {
		return c.introspect(ctx, token)
	}
	return c.principals.GetOrLoad(ctx, hashToken(token), func(ctx context.Context) (user.Principal, error) {
		return c.introspect(ctx, token)
	})
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	ctx, span := tracer.Start(ctx, "anubis.Introspect")
	defer span.End()

	var principal user.Principal
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		var callErr error
		principal, callErr = c.call(ctx, token)
		return callErr
	}, isCircuitFailure)

	switch {
	case err == nil:
		span.SetAttributes(attribute.String("user.id", principal.UserID))
		return principal, nil
	case errors.Is(err, resilience.ErrCircuitOpen):
		c.logger.WarnContext(ctx, "anubis circuit breaker rejected request", "state", c.breaker.State())
		return user.Principal{}, fmt.Errorf("%w: identity provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	case isCircuitFailure(err):
		c.logger.WarnContext(ctx, "anubis introspection failed", "error", err, "state", c.breaker.State())
		return user.Principal{}, fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, err)
	default:
		return user.Principal{}, err
	}
}

func (c *Client) call(ctx context.Context, token string) (user.Principal, error) {
	if err := ctx.Err(); err != nil {
		return user.Principal{}, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(introspectRequest{Token: token}); err != nil {
		return user.Principal{}, crerr.Wrap(err, "marshal introspect request")
	}

	req.SetRequestURI(c.introspectURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}
	req.SetBody(buf.B)

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return user.Principal{}, fmt.Errorf("%w: request introspection url=%s: %v", errAnubisTransient, c.introspectURL, err)
	}

	status := resp.StatusCode()
	switch {
	case status == fasthttp.StatusUnauthorized || status == fasthttp.StatusForbidden:
		return user.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	case isRetryableStatus(status):
		return user.Principal{}, fmt.Errorf("%w: introspection status=%d", errAnubisTransient, status)
	case status != fasthttp.StatusOK:
		c.logger.WarnContext(ctx, "anubis introspection non-200", "status_code", status)
		return user.Principal{}, crerr.Newf("anubis introspection failed with status %d", status)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(resp.Body(), &decoded); err != nil {
		return user.Principal{}, crerr.Wrap(err, "unmarshal introspect response")
	}
	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, crerr.New("invalid introspect response: user_id is empty")
	}

	return user.Principal{
		UserID: strings.TrimSpace(decoded.UserID),
		Email:  strings.TrimSpace(decoded.Email),
	}, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool   `json:"active"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
