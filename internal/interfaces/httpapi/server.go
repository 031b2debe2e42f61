package httpapi

import (
	"net/http"
	"runtime/debug"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/logging"
)

type RouterOptions struct {
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	// AdminToken guards the write routes. Empty leaves them open.
	AdminToken string
}

// NewRouter wires every route behind tracing, access logging, CORS and
// panic recovery, outermost first.
func NewRouter(handler *Handler, logger *logging.Logger, opts RouterOptions) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("http")

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, opts.SwaggerEnabled)
	registerLeagueRoutes(mux, handler, opts.AdminToken)
	registerTeamRoutes(mux, handler, opts.AdminToken)
	registerCatalogRoutes(mux, handler)

	var h http.Handler = mux
	h = recoverPanic(logger, h)
	h = CORS(opts.CORSAllowedOrigins, h)
	h = RequestLogging(logger, h)
	return RequestTracing(h)
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.ErrorContext(r.Context(), "panic recovered",
				"panic", rec,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)
			writeErrorBody(r.Context(), w, internalClass, "internal server error")
		}()
		next.ServeHTTP(w, r)
	})
}
