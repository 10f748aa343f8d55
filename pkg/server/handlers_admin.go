package server

import (
	"errors"
	"net/http"

	"github.com/matst80/compare-finder/pkg/auth"
	"github.com/matst80/compare-finder/pkg/catalog"
	"github.com/matst80/compare-finder/pkg/common/jsoncompat"
	"go.uber.org/zap"
)

func (ws *WebServer) Reload(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	category := r.PathValue("category")
	c, err := ws.Registry.Reload(r.Context(), category)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownCategory) {
			http.Error(w, "unknown category", http.StatusNotFound)
			return nil
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return err
	}
	subject := ""
	if a := auth.FromContext(r.Context()); a != nil {
		subject = a.Subject
	}
	ws.Logger.Info("catalog reloaded by admin",
		zap.String("category", category),
		zap.String("subject", subject),
		zap.Uint64("version", c.Version))

	if ws.Notify != nil {
		if err := ws.Notify(category); err != nil {
			ws.Logger.Warn("catalog change notification failed", zap.String("category", category), zap.Error(err))
		}
	}

	noCacheHeaders(w, r)
	w.WriteHeader(http.StatusOK)
	return enc.Encode(ReloadResponse{
		Category: category,
		Version:  c.Version,
		Records:  c.Len(),
	})
}
