package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"catdistribution-api/internal/config"
	"catdistribution-api/internal/generator"
	"catdistribution-api/internal/oplog"
	"catdistribution-api/internal/store"
	"catdistribution-api/internal/stream"
	jwtx "catdistribution-api/pkg/jwt"
)

type Deps struct {
	Hub       *stream.Hub
	Generator *generator.Controller
	Cats      store.CatRepository
	Users     store.UserRepository
	Oplog     oplog.Store
}

func Router(cfg *config.Config, d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(Recoverer, RequestID, SecureHeaders, Logger, Rate(300, time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	val := jwtx.New(cfg.JWTKeys, cfg.Skew)
	h := &handlers{gen: d.Generator, cats: d.Cats, users: d.Users, ops: d.Oplog}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("ok")) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("ok")) })

	r.Group(func(g chi.Router) {
		g.Use(BasicAuth(cfg.MetricsUser, cfg.MetricsPass))
		g.Method("GET", "/metrics", promhttp.Handler())
	})

	r.Get("/api/stream/events", stream.SSE(d.Hub))
	r.Get("/api/ws", WS(cfg.AllowedOrigins, d.Hub))

	r.Group(func(g chi.Router) {
		g.Use(Auth(true, val), BodyLimit(64<<10))

		g.Post("/api/generator/start", h.startGenerator)
		g.Post("/api/generator/stop", h.stopGenerator)
		g.Get("/api/generator/status", h.generatorStatus)

		g.Get("/api/cats", h.listCats)
		g.Post("/api/users", h.createUser)
		g.Get("/api/users/{id}", h.getUser)

		g.Group(func(o chi.Router) {
			o.Use(Rate(60, time.Minute))
			o.Get("/api/operation-logs", h.listOperations)
			o.Post("/api/operation-logs/{userId}", h.addOperation)
		})
	})

	return r
}
