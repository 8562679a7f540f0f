package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/placequest/placequest/internal/api/http"
	auth "github.com/placequest/placequest/internal/auth/middleware"
	"github.com/placequest/placequest/internal/config"
	"github.com/placequest/placequest/internal/db"
	"github.com/placequest/placequest/internal/geo"
	"github.com/placequest/placequest/internal/quiz"
	"github.com/placequest/placequest/internal/storage"
	"github.com/placequest/placequest/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := quiz.NewSQLStore(dbh)
	renderer := quiz.NewRenderer(store)
	ctrl := quiz.NewController(store, renderer)

	// --- Layer data ---
	fsStore, err := storage.NewFSStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("data dir: %v", err)
	}
	catalog := geo.Load(fsStore, cfg.EnableNewsLayer)

	// --- Profile cookie ---
	profiles := auth.NewProfileService(cfg.CookieSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(ar chi.Router) {
		ar.Get("/map", api.MapConfigHandler(catalog))
		ar.Get("/layers/nodes", api.NodeLayerHandler(catalog))
		ar.Get("/layers/news", api.NewsLayerHandler(catalog))
		ar.Get("/news/{newsID}/card", api.GetNewsCardHandler(catalog, renderer))

		ar.Group(func(pr chi.Router) {
			pr.Use(auth.ProfileMiddleware(profiles))
			pr.Get("/nodes/{nodeID}/card", api.GetNodeCardHandler(catalog, ctrl))
			pr.Post("/nodes/{nodeID}/card", api.PostNodeCardHandler(catalog, ctrl))
			pr.Delete("/nodes/{nodeID}/card", api.CloseNodeCardHandler(catalog, ctrl))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	r.Handle("/*", web.Handler())

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
