package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter registers the action and health endpoints.
func NewRouter(handler *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", handler.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(handler.authenticate)
	api.HandleFunc("/actions", handler.ListActions).Methods(http.MethodGet)
	api.HandleFunc("/actions/{action}", handler.Action).Methods(http.MethodPost)
	return r
}

// WithCORS wraps the router for browser callers.
func WithCORS(h http.Handler, allowedOrigins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler(h)
}
