// setup.go
package endorse_client

import (
	"context"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/quantumauth-io/quantum-go-utils/log"
	"golang.org/x/sync/errgroup"

	"github.com/nwr-dao/endorse-client/cmd/endorse-client/config"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/app"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/chains"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/connectors"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/constants"
	clienthttp "github.com/nwr-dao/endorse-client/internal/endorse-client/http"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/httpui"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/securefile"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/session"
)

const shutdownTimeout = 5 * time.Second

type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

// Runtime is the wired client: chain access, connectors and the controller.
type Runtime struct {
	Config     *config.Config
	Chains     *chains.Service
	Registry   *connectors.Registry
	Controller *app.Controller
}

type RuntimeOption func(*runtimeOptions)

type runtimeOptions struct {
	chainOpts []chains.Option
	getenv    func(string) string
}

// WithChainOptions passes options through to the chain service.
func WithChainOptions(opts ...chains.Option) RuntimeOption {
	return func(o *runtimeOptions) { o.chainOpts = append(o.chainOpts, opts...) }
}

// WithGetenv replaces os.Getenv for connector secrets and the cache secret.
func WithGetenv(f func(string) string) RuntimeOption {
	return func(o *runtimeOptions) { o.getenv = f }
}

func NewRuntime(cfg *config.Config, opts ...RuntimeOption) (*Runtime, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	ro := runtimeOptions{getenv: os.Getenv}
	for _, o := range opts {
		o(&ro)
	}

	chainService, err := chains.NewService(cfg.ChainConfig(), ro.chainOpts...)
	if err != nil {
		return nil, err
	}

	registry, err := connectors.BuildRegistry(cfg.Connectors, chainService, ro.getenv)
	if err != nil {
		_ = chainService.Close()
		return nil, err
	}

	ctrlOpts := []app.Option{}
	if cfg.Contract.ConfirmTimeoutSeconds > 0 {
		ctrlOpts = append(ctrlOpts, app.WithActionTimeout(time.Duration(cfg.Contract.ConfirmTimeoutSeconds)*time.Second))
	}
	cache, err := sessionCacheFromConfig(cfg, ro.getenv)
	if err != nil {
		_ = chainService.Close()
		return nil, err
	}
	if cache != nil {
		ctrlOpts = append(ctrlOpts, app.WithSessionCache(cache))
	}

	return &Runtime{
		Config:     cfg,
		Chains:     chainService,
		Registry:   registry,
		Controller: app.New(registry, cfg.ContractAddress(), ctrlOpts...),
	}, nil
}

func sessionCacheFromConfig(cfg *config.Config, getenv func(string) string) (*session.Cache, error) {
	if !cfg.SessionCache.Enabled {
		return nil, nil
	}
	secret := strings.TrimSpace(getenv(cfg.SessionCache.SecretEnv))
	if secret == "" {
		log.Info("session cache disabled, no secret set", "env", cfg.SessionCache.SecretEnv)
		return nil, nil
	}
	path, err := securefile.StatePath(constants.AppName, constants.SessionCacheFile)
	if err != nil {
		return nil, err
	}
	return session.NewCache(path, []byte(secret)), nil
}

// Close ends the session and releases chain connections. The session cache is kept.
func (rt *Runtime) Close() {
	rt.Controller.Close()
	if err := rt.Chains.Close(); err != nil {
		log.Error("chain service close failed", "error", err)
	}
}

// Run serves the page and API until ctx is done.
func Run(ctx context.Context, cfg *config.Config, build BuildInfo, opts ...RuntimeOption) error {
	log.Info(constants.AppName,
		"version", build.Version,
		"commit", build.Commit,
		"build_date", build.BuildDate,
	)

	rt, err := NewRuntime(cfg, opts...)
	if err != nil {
		return err
	}
	defer rt.Close()

	ui, err := httpui.Handler()
	if err != nil {
		return err
	}
	handler := clienthttp.NewServer(rt.Controller, clienthttp.Config{
		AllowedOrigins: cfg.ClientSettings.AllowedOrigins,
		FallbackURL:    cfg.ClientSettings.FallbackURL,
		UI:             ui,
	})

	listenAddr := net.JoinHostPort(cfg.ClientSettings.LocalHost, cfg.ClientSettings.Port)
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return errors.Wrapf(err, "listen %s", listenAddr)
	}
	httpServer := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("endorse client listening", "addr", "http://"+ln.Addr().String(), "contract", cfg.Contract.Address)
		if serveErr := httpServer.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return errors.Wrap(serveErr, "http server")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received")

		// ends pending confirmation waits so handlers can return
		rt.Controller.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error("endorse client shutdown failed", "error", shutdownErr)
			return shutdownErr
		}
		log.Info("endorse client gracefully stopped")
		return nil
	})
	return g.Wait()
}
