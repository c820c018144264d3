package http

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/ignitofy-engine/internal/adapters/handler/http/middleware"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type RouterDependencies struct {
	HabitHandler    *HabitHandler
	StatsHandler    *StatsHandler
	TransferHandler *TransferHandler

	// Redis enables the rate limiter when set.
	Redis      *redis.Client
	RateLimit  int
	RateWindow time.Duration

	Backend   string
	Checks    map[string]HealthCheck
	StartTime time.Time
	Logger    *log.Logger
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding")
		c.Writer.Header().Set("Access-Control-Expose-Headers", PersistenceWarningHeader+", Content-Disposition")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	if deps.Redis != nil && deps.RateLimit > 0 {
		router.Use(middleware.RateLimiterMiddleware(deps.Redis, deps.RateLimit, deps.RateWindow, deps.Logger))
	}

	router.GET("/health", func(c *gin.Context) {
		statusCode := http.StatusOK
		checks := gin.H{}
		for name, check := range deps.Checks {
			if err := check(c.Request.Context()); err != nil {
				checks[name] = "unreachable"
				statusCode = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "connected"
		}

		c.JSON(statusCode, gin.H{
			"status":  "ok",
			"backend": deps.Backend,
			"checks":  checks,
			"uptime":  time.Since(deps.StartTime).String(),
		})
	})

	apiV1 := router.Group("/api/v1")
	{
		deps.HabitHandler.RegisterRoutes(apiV1)
		deps.StatsHandler.RegisterRoutes(apiV1)
		deps.TransferHandler.RegisterRoutes(apiV1)
	}

	return router
}
