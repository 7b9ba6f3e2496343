package http

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Pesokrava/product_catalog/internal/config"
	"github.com/Pesokrava/product_catalog/internal/delivery/http/handler"
	"github.com/Pesokrava/product_catalog/internal/delivery/http/middleware"
	"github.com/Pesokrava/product_catalog/internal/delivery/http/response"
	"github.com/Pesokrava/product_catalog/internal/pkg/logger"
	"github.com/Pesokrava/product_catalog/internal/pkg/metrics"
)

// Router holds HTTP handlers and router configuration
type Router struct {
	productHandler *handler.ProductHandler
	filterHandler  *handler.FilterHandler
	metrics        *metrics.Metrics
	metricsHandler http.Handler
	logger         *logger.Logger
	cfg            *config.Config
}

// NewRouter creates a new HTTP router.
// m and metricsHandler may be nil, in which case /metrics is not mounted.
func NewRouter(
	productHandler *handler.ProductHandler,
	filterHandler *handler.FilterHandler,
	m *metrics.Metrics,
	metricsHandler http.Handler,
	cfg *config.Config,
	log *logger.Logger,
) *Router {
	return &Router{
		productHandler: productHandler,
		filterHandler:  filterHandler,
		metrics:        m,
		metricsHandler: metricsHandler,
		logger:         log,
		cfg:            cfg,
	}
}

// Setup configures and returns the HTTP router
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logger(rt.logger, rt.metrics))
	if rt.cfg.Server.RequestTimeout > 0 {
		r.Use(chimw.Timeout(rt.cfg.Server.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", rt.healthCheck)
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	if rt.metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", rt.metricsHandler)
	}

	r.Route("/products", func(r chi.Router) {
		r.Get("/", rt.productHandler.List)
		r.Get("/{id}", rt.productHandler.GetByID)
	})
	r.Get("/filters", rt.filterHandler.Get)

	// product images and other assets, served from the site root
	if rt.cfg.Server.StaticDir != "" {
		r.Method(http.MethodGet, "/*", http.FileServer(filesOnly{http.Dir(rt.cfg.Server.StaticDir)}))
	}

	return r
}

// filesOnly hides directories so the static root is never listed
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil || info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
