package http

import (
	"time"

	"taskboard/internal/http/handlers"
	"taskboard/internal/http/middleware"
	"taskboard/internal/http/views"
	"taskboard/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Tasks        handlers.TaskStore
	DB           handlers.Pinger
	Meta         handlers.PageMeta
	Version      string
	Bootstrapped bool

	Limiter          *middleware.RateLimiter
	CreateRateLimit  int
	CreateRateWindow time.Duration

	// TrustedProxies may set X-Forwarded-For. Nil means the client IP is
	// always the connection's remote address.
	TrustedProxies []string
}

// NewRouter returns a gin engine with every route registered.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		logger.Error("invalid trusted proxies, trusting none", "proxies", d.TrustedProxies, "error", err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Logger(), gin.Recovery(), middleware.Metrics())
	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.SetHTMLTemplate(views.Load())

	h := handlers.NewHandler(d.Tasks, d.Meta)
	healthHandler := handlers.NewHealthHandler(d.DB, d.Version, d.Bootstrapped)

	limiter := d.Limiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter("", "", 0)
	}
	createLimit := d.CreateRateLimit
	if createLimit <= 0 {
		createLimit = 30
	}
	createWindow := d.CreateRateWindow
	if createWindow <= 0 {
		createWindow = time.Minute
	}

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Tasks
	r.GET("/", h.ListTasks)
	r.POST("/tasks", limiter.Limit(createLimit, createWindow), h.CreateTask)
}
