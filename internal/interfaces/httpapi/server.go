package httpapi

import (
	"net/http"

	"github.com/riskibarqy/futplan/internal/domain/user"
	"github.com/riskibarqy/futplan/internal/platform/logging"
)

// RouterConfig carries the collaborators the router needs besides the handler.
type RouterConfig struct {
	Verifier           TokenVerifier
	Users              user.Repository
	ManagerRoles       []string
	CORSAllowedOrigins []string
	SwaggerEnabled     bool
}

func NewRouter(handler *Handler, cfg RouterConfig, logger *logging.Logger) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg.SwaggerEnabled)
	registerPublicMatchRoutes(mux, handler)
	registerAuthorizedMatchRoutes(mux, handler, cfg.Verifier)
	registerAuthorizedRosterRoutes(mux, handler, cfg)

	return RequestTracing(RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
