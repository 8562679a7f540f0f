package http

import (
	"encoding/json"
	"net/http"

	"github.com/placequest/placequest/internal/geo"
)

// NodeLayerHandler serves the knowledge-node marker collection. Answer keys
// and question bodies are already stripped by the catalog.
func NodeLayerHandler(cat *geo.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fc, err := cat.NodeLayer()
		if err != nil {
			http.Error(w, "layer unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		_ = json.NewEncoder(w).Encode(fc)
	}
}

func NewsLayerHandler(cat *geo.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fc, err := cat.NewsLayer()
		if err != nil {
			http.Error(w, "layer unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		_ = json.NewEncoder(w).Encode(fc)
	}
}

// MapConfigHandler serves the initial view: center plus the padded bounds the
// client clamps panning to.
func MapConfigHandler(cat *geo.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(cat.MapConfig())
	}
}
