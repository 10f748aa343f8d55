// Package server exposes the comparison engine over HTTP.
package server

import (
	"errors"
	"net/http"

	"github.com/matst80/compare-finder/pkg/auth"
	"github.com/matst80/compare-finder/pkg/catalog"
	"github.com/matst80/compare-finder/pkg/common"
	"github.com/matst80/compare-finder/pkg/common/jsoncompat"
	"github.com/matst80/compare-finder/pkg/compare"
	"github.com/matst80/compare-finder/pkg/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	ErrCatalogNotLoaded = errors.New("catalog not loaded")
)

type WebServer struct {
	Registry   *catalog.Registry
	Store      compare.Store
	Verifier   *auth.TokenVerifier
	Logger     *zap.Logger
	MaxCompare int
	// Notify is called after an admin reload succeeded, used to fan the
	// change out to other replicas.
	Notify func(category string) error
}

func NewWebServer(registry *catalog.Registry, store compare.Store, verifier *auth.TokenVerifier, logger *zap.Logger) *WebServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = compare.NewMemoryStore(0)
	}
	return &WebServer{
		Registry:   registry,
		Store:      store,
		Verifier:   verifier,
		Logger:     logger,
		MaxCompare: compare.DefaultMaxSize,
	}
}

func (ws *WebServer) json(fn func(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error) http.HandlerFunc {
	return common.JsonHandler(ws.Logger, fn)
}

// Handler returns the routes of the service. Admin routes need a verifier,
// without one every admin request is rejected.
func (ws *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/categories", ws.json(ws.Categories))
	mux.HandleFunc("GET /api/{category}/facets", ws.json(ws.Facets))
	mux.HandleFunc("GET /api/{category}/search", ws.json(ws.Search))
	mux.HandleFunc("POST /api/{category}/search", ws.json(ws.Search))
	mux.HandleFunc("GET /api/{category}/compare", ws.json(ws.GetCompare))
	mux.HandleFunc("POST /api/{category}/compare/{id}", ws.json(ws.ToggleCompare))
	mux.HandleFunc("DELETE /api/{category}/compare", ws.json(ws.ClearCompare))
	mux.HandleFunc("OPTIONS /api/", common.RespondToOptions)

	mux.HandleFunc("POST /admin/{category}/reload", auth.RequireRole(auth.AdminRole, ws.json(ws.Reload)))

	if ws.Verifier == nil {
		return mux
	}
	return ws.Verifier.Middleware(mux)
}

func (ws *WebServer) maxCompare() int {
	if ws.MaxCompare < 1 {
		return compare.DefaultMaxSize
	}
	return ws.MaxCompare
}

// catalogFromRequest writes the error response itself and returns nil when
// the category is unknown or not loaded yet.
func (ws *WebServer) catalogFromRequest(w http.ResponseWriter, r *http.Request) *types.Catalog {
	category := r.PathValue("category")
	if !ws.Registry.HasCategory(category) {
		http.Error(w, "unknown category", http.StatusNotFound)
		return nil
	}
	c, ok := ws.Registry.Get(category)
	if !ok {
		http.Error(w, ErrCatalogNotLoaded.Error(), http.StatusServiceUnavailable)
		return nil
	}
	return c
}
