package http

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/quantumauth-io/quantum-go-utils/log"

	"github.com/nwr-dao/endorse-client/internal/endorse-client/environment"
)

func (s *Server) newRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	origins := uniqueStrings(normalizeOrigins(cfg.AllowedOrigins))
	if len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: origins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", environment.InjectedGlobalsHeader},
			MaxAge:       600,
		}))
	}

	r.GET("/healthz", s.Health)

	api := r.Group("/api", loopbackOnly())
	{
		api.GET("/levels", s.Levels)
		api.GET("/connectors", s.Connectors)
		api.GET("/state", s.State)

		api.POST("/connect", s.Connect)
		api.POST("/disconnect", s.Disconnect)
		api.POST("/endorse/user", s.EndorseUser)
		api.POST("/endorse/dao", s.EndorseDao)
		api.POST("/stats", s.Stats)
	}

	if cfg.UI != nil {
		ui := gin.WrapH(cfg.UI)
		r.NoRoute(loopbackOnly(), func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api/") {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			ui(c)
		})
	}

	return r
}

// loopbackOnly rejects requests that do not come from this machine or that
// name a non-local host, which blocks DNS rebinding.
func loopbackOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isLoopbackRequest(c.Request) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		if !isSafeLocalHost(c.Request.Host) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden host"})
			return
		}
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Request.URL.Path == "/healthz" {
			return
		}
		log.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	}
}
