// Package http exposes the controller to the local browser page.
package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nwr-dao/endorse-client/internal/endorse-client/actions"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/app"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/connectors"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/environment"
)

// Controller is the part of app.Controller the API drives.
type Controller interface {
	Connect(ctx context.Context, env environment.Environment, choice string) error
	Disconnect()
	EndorseUser(ctx context.Context, env environment.Environment, req actions.Request) (actions.Result, error)
	EndorseDao(ctx context.Context, env environment.Environment, req actions.Request) (actions.Result, error)
	FetchStats(ctx context.Context, env environment.Environment, target string) (*actions.Stats, actions.Result, error)
	Connectors() []connectors.Descriptor
	Snapshot() app.Snapshot
}

type Config struct {
	AllowedOrigins []string
	// FallbackURL is offered to embedded browsers that cannot reach a wallet.
	FallbackURL string
	// UI serves the page at "/" when set.
	UI http.Handler
}

type Server struct {
	ctrl        Controller
	fallbackURL string
	engine      *gin.Engine
}

func NewServer(ctrl Controller, cfg Config) *Server {
	s := &Server{
		ctrl:        ctrl,
		fallbackURL: cfg.FallbackURL,
	}
	s.engine = s.newRouter(cfg)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}
