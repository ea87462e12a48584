package httpapi

import (
	"net/http"

	"github.com/riskibarqy/mlb-standings/internal/platform/logging"
)

func NewRouter(handler *Handler, logger *logging.Logger, corsAllowedOrigins []string) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerStandingsRoutes(mux, handler)

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerStandingsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/standings", handler.ListStandings)
	mux.HandleFunc("GET /v1/standings/all", handler.ListAllStandings)
	mux.HandleFunc("GET /v1/standings/aggregates", handler.GetAggregates)
	mux.HandleFunc("PUT /v1/standings/filters", handler.UpdateFilters)
	mux.HandleFunc("POST /v1/standings/season", handler.SetSeason)
	mux.HandleFunc("POST /v1/standings/refresh", handler.RefreshStandings)
	mux.HandleFunc("POST /v1/teams/{teamID}/favorite", handler.ToggleFavorite)
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
