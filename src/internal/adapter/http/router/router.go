package router

import "net/http"

type TransactionRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, middleware func(http.Handler) http.Handler)
}

type AccountRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, middleware func(http.Handler) http.Handler)
}

// New builds the service mux. metricsHandler is mounted on /metrics when not
// nil.
func New(
	transactionController TransactionRouteRegistrar,
	accountController AccountRouteRegistrar,
	metricsHandler http.Handler,
	middleware func(http.Handler) http.Handler,
) *http.ServeMux {
	mux := http.NewServeMux()
	registerSwaggerRoutes(mux)

	if transactionController != nil {
		transactionController.RegisterRoutes(mux, middleware)
	}
	if accountController != nil {
		accountController.RegisterRoutes(mux, middleware)
	}
	if metricsHandler != nil {
		mux.Handle("/metrics", metricsHandler)
	}

	return mux
}
