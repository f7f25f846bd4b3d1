package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/job-posts/internal/handlers"
	"github.com/justsurfingit/job-posts/internal/logging"
	"github.com/justsurfingit/job-posts/internal/middleware"
)

const maxBodyBytes = 1 << 20

// RouterDependencies holds everything the HTTP layer needs
type RouterDependencies struct {
	JobHandler *handlers.JobHandler
	Logger     *logging.Logger

	Limiter         middleware.Limiter // nil disables write limiting
	WritesPerMinute int
	CORSOrigins     []string // empty allows every origin
	TrustedProxies  []string // empty means the client IP is always the peer address
}

// NewRouter builds the gin engine serving /api
func NewRouter(deps RouterDependencies) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(deps.TrustedProxies); err != nil {
		deps.Logger.Warn("ignoring trusted proxies", "err", err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(
		middleware.RequestID(),
		middleware.BodyLimit(maxBodyBytes),
		middleware.RequestLogger(deps.Logger),
		middleware.Recovery(deps.Logger),
		cors.New(corsConfig(deps.CORSOrigins)),
	)

	api := r.Group("/api")
	api.Use(middleware.WriteRateLimit(deps.Limiter, deps.WritesPerMinute, time.Minute))
	deps.JobHandler.RegisterRoutes(api)

	return r
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	if len(origins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
	config.ExposeHeaders = []string{middleware.RequestIDHeader}
	return config
}
