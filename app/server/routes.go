package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mytheresa/go-catalog/app/catalog"
	"github.com/mytheresa/go-catalog/app/categories"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouteConfig struct {
	AllowedOrigins []string
	MaxBodyBytes   int64
	// Registry receives the HTTP metrics; nil uses a private registry.
	Registry *prometheus.Registry
}

func DefaultRouteConfig() RouteConfig {
	return RouteConfig{
		AllowedOrigins: []string{"http://localhost:5173"},
		MaxBodyBytes:   1048576,
	}
}

// Routes wires the catalog API. Both product and category handlers share
// the middleware stack.
func Routes(products *catalog.CatalogHandler, cats *categories.CategoryHandler, logger zerolog.Logger, config RouteConfig) http.Handler {
	reg := config.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := newMetrics(reg)

	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(m.middleware)
	if config.MaxBodyBytes > 0 {
		r.Use(middleware.RequestSize(config.MaxBodyBytes))
	}
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: config.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/list", products.HandleList)
		r.Post("/list", products.HandleCreate)
		r.Put("/list/{product_id}", products.HandleUpdate)

		r.Get("/category/list", cats.HandleGetAll)
		r.Post("/category/list", cats.HandleCreate)
		r.Get("/category/{category_id}/products", products.HandleListByCategory)

		// Paths used by the server-rendered pages.
		r.Get("/categories/all", cats.HandleGetAll)
		r.Get("/categories/title/{title}/", products.HandleListByCategoryTitle)
		r.Get("/products/", products.HandlePage)
	})

	return otelhttp.NewHandler(r, "catalog-api")
}
