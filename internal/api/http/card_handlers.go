package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/placequest/placequest/internal/auth/middleware"
	"github.com/placequest/placequest/internal/geo"
	"github.com/placequest/placequest/internal/quiz"
)

func writeCard(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

// GetNodeCardHandler renders the node's current card for the requesting
// profile. Pure read: no state is mutated.
func GetNodeCardHandler(cat *geo.Catalog, ctrl *quiz.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		node, ok := cat.Node(chi.URLParam(r, "nodeID"))
		if !ok {
			http.Error(w, "node not found", http.StatusNotFound)
			return
		}
		profileID := auth.ProfileIDFromContext(r.Context())
		writeCard(w, ctrl.OpenCard(r.Context(), profileID, node))
	}
}

// PostNodeCardHandler applies one popup command (reset / choose / next) and
// returns the re-rendered card. Malformed quiz input degrades to a plain
// re-render; only transport-level problems produce error statuses.
func PostNodeCardHandler(cat *geo.Catalog, ctrl *quiz.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		node, ok := cat.Node(chi.URLParam(r, "nodeID"))
		if !ok {
			http.Error(w, "node not found", http.StatusNotFound)
			return
		}
		var cmd quiz.Command
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		profileID := auth.ProfileIDFromContext(r.Context())
		html, err := ctrl.Apply(r.Context(), profileID, node, cmd)
		if err != nil {
			http.Error(w, "progress store", http.StatusInternalServerError)
			return
		}
		writeCard(w, html)
	}
}

// CloseNodeCardHandler drops the popup-session message when the popup closes.
func CloseNodeCardHandler(cat *geo.Catalog, ctrl *quiz.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nodeID := chi.URLParam(r, "nodeID")
		if _, ok := cat.Node(nodeID); !ok {
			http.Error(w, "node not found", http.StatusNotFound)
			return
		}
		ctrl.CloseCard(auth.ProfileIDFromContext(r.Context()), nodeID)
		w.WriteHeader(http.StatusNoContent)
	}
}

// GetNewsCardHandler renders the static card for a positive-news pin.
func GetNewsCardHandler(cat *geo.Catalog, renderer *quiz.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, ok := cat.News(chi.URLParam(r, "newsID"))
		if !ok {
			http.Error(w, "news item not found", http.StatusNotFound)
			return
		}
		writeCard(w, renderer.NewsCard(item))
	}
}
