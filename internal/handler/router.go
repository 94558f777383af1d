package handler

import (
	"net/http"

	"context-builder/internal/web"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// RouterOptions configures the cross-cutting parts of the router.
type RouterOptions struct {
	CORSAllowedOrigins []string
	RequireAPIAuth     bool
	Metrics            http.Handler
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(
	pageHandler *PageHandler,
	authHandler *AuthHandler,
	datasetHandler *DatasetHandler,
	authMiddleware *AuthMiddleware,
	opts RouterOptions,
) http.Handler {
	router := mux.NewRouter()

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","service":"context-builder"}`))
	}).Methods(http.MethodGet)

	if opts.Metrics != nil {
		router.Handle("/metrics", opts.Metrics).Methods(http.MethodGet)
	}
	router.PathPrefix("/static/").Handler(web.StaticHandler()).Methods(http.MethodGet, http.MethodHead)

	// Pages resolve the session but never require one
	page := func(f http.HandlerFunc) http.Handler { return authMiddleware.Optional(f) }
	router.Handle("/", page(pageHandler.Home)).Methods(http.MethodGet)
	router.Handle(signUpPath, page(pageHandler.SignUpForm)).Methods(http.MethodGet)
	router.Handle(signUpPath, page(pageHandler.SignUp)).Methods(http.MethodPost)
	router.HandleFunc(signOutPath, pageHandler.SignOut).Methods(http.MethodPost)
	router.NotFoundHandler = page(pageHandler.NotFound)

	// API prefix
	api := router.PathPrefix(apiPrefix).Subrouter()

	session := api.PathPrefix("/auth").Subrouter()
	session.Use(authMiddleware.Middleware)
	session.HandleFunc("/session", authHandler.GetSession).Methods(http.MethodGet)

	datasets := api.PathPrefix("/datasets").Subrouter()
	if opts.RequireAPIAuth {
		datasets.Use(authMiddleware.Middleware)
	}
	datasets.HandleFunc("", datasetHandler.CreateDataset).Methods(http.MethodPost)
	datasets.HandleFunc("/{id}", datasetHandler.GetDataset).Methods(http.MethodGet)
	datasets.HandleFunc("/{id}", datasetHandler.UpdateDataset).Methods(http.MethodPatch)
	datasets.HandleFunc("/{id}", datasetHandler.DeleteDataset).Methods(http.MethodDelete)
	datasets.HandleFunc("/{id}/document/{uid}", datasetHandler.GetDocumentSegments).Methods(http.MethodGet)
	datasets.HandleFunc("/{id}/document/{uid}/segment/{segment_id}", datasetHandler.UpdateSegment).Methods(http.MethodPatch)

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: opts.CORSAllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-CSRF-Token",
		},
		ExposedHeaders: []string{
			"Link",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
