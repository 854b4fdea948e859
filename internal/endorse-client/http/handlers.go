package http

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/quantumauth-io/quantum-go-utils/log"

	"github.com/nwr-dao/endorse-client/internal/endorse-client/actions"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/app"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/connectors"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/constants"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/environment"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/levels"
)

type connectReq struct {
	Connector string `json:"connector"`
}

type statsReq struct {
	Address string `json:"address"`
}

type actionRes struct {
	Result actions.Result `json:"result"`
	State  app.Snapshot   `json:"state"`
}

type statsRes struct {
	Stats  *actions.Stats `json:"stats,omitempty"`
	Result actions.Result `json:"result"`
	State  app.Snapshot   `json:"state"`
}

type errorRes struct {
	Error       string                  `json:"error"`
	Message     string                  `json:"message,omitempty"`
	FallbackURL string                  `json:"fallbackUrl,omitempty"`
	Connectors  []connectors.Descriptor `json:"connectors,omitempty"`
}

func (s *Server) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /api/levels
func (s *Server) Levels(c *gin.Context) {
	c.JSON(http.StatusOK, levels.Options())
}

// GET /api/connectors
func (s *Server) Connectors(c *gin.Context) {
	c.JSON(http.StatusOK, s.ctrl.Connectors())
}

// GET /api/state
func (s *Server) State(c *gin.Context) {
	c.JSON(http.StatusOK, s.ctrl.Snapshot())
}

// POST /api/connect
func (s *Server) Connect(c *gin.Context) {
	var req connectReq
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorRes{Error: err.Error()})
			return
		}
	}

	if err := s.ctrl.Connect(c.Request.Context(), detect(c), req.Connector); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.ctrl.Snapshot())
}

// POST /api/disconnect
func (s *Server) Disconnect(c *gin.Context) {
	s.ctrl.Disconnect()
	c.JSON(http.StatusOK, s.ctrl.Snapshot())
}

// POST /api/endorse/user
func (s *Server) EndorseUser(c *gin.Context) {
	s.endorse(c, s.ctrl.EndorseUser)
}

// POST /api/endorse/dao
func (s *Server) EndorseDao(c *gin.Context) {
	s.endorse(c, s.ctrl.EndorseDao)
}

type endorseFunc func(ctx context.Context, env environment.Environment, req actions.Request) (actions.Result, error)

func (s *Server) endorse(c *gin.Context, run endorseFunc) {
	var req actions.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorRes{Error: err.Error(), Message: constants.MsgInvalidRequest})
		return
	}
	res, err := run(c.Request.Context(), detect(c), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, actionRes{Result: res, State: s.ctrl.Snapshot()})
}

// POST /api/stats
func (s *Server) Stats(c *gin.Context) {
	var req statsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorRes{Error: err.Error(), Message: constants.MsgInvalidRequest})
		return
	}
	stats, res, err := s.ctrl.FetchStats(c.Request.Context(), detect(c), req.Address)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, statsRes{Stats: stats, Result: res, State: s.ctrl.Snapshot()})
}

// detect reads the embedding markers the page reports with each request.
func detect(c *gin.Context) environment.Environment {
	return environment.Detect(environment.FromRequest(c.Request))
}

func (s *Server) fail(c *gin.Context, err error) {
	status, body := s.classify(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(status, body)
}

func (s *Server) classify(err error) (int, errorRes) {
	body := errorRes{Error: err.Error()}
	switch {
	case errors.Is(err, connectors.ErrEnvironmentBlocked):
		body.Message = constants.MsgEnvironmentBlocked
		body.FallbackURL = s.fallbackURL
		return http.StatusForbidden, body
	case errors.Is(err, connectors.ErrNoProviderFound):
		body.Message = constants.MsgNoProvider
		return http.StatusNotFound, body
	case errors.Is(err, connectors.ErrChoiceRequired):
		body.Connectors = s.ctrl.Connectors()
		return http.StatusMultipleChoices, body
	case errors.Is(err, actions.ErrBusy):
		body.Message = constants.MsgBusy
		return http.StatusConflict, body
	case errors.Is(err, actions.ErrNoSession):
		body.Message = constants.MsgNoSession
		return http.StatusPreconditionFailed, body
	case errors.Is(err, actions.ErrInvalidRequest):
		body.Message = constants.MsgInvalidRequest
		return http.StatusBadRequest, body
	case errors.Is(err, app.ErrSessionEnded):
		return http.StatusGone, body
	default:
		body.Message = constants.MsgConnectFailed
		return http.StatusBadGateway, body
	}
}
