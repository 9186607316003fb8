package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	config "github.com/navi-mes/planfeed/pkg/planner/core/config"
	"github.com/navi-mes/planfeed/pkg/planner/support/util/logger"
)

const shutdownTimeout = 10 * time.Second

// RouterParams defines the dependencies for NewRouterProvider.
type RouterParams struct {
	fx.In
	Config   *config.Config
	Handler  *Handler
	Gatherer prometheus.Gatherer `optional:"true"`
}

// NewRouterProvider builds the router in release mode.
func NewRouterProvider(p RouterParams) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	return NewRouter(p.Config, p.Handler, p.Gatherer)
}

// RegisterHTTPServer serves router on the configured address for the lifetime of the app.
func RegisterHTTPServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg *config.Config, router *gin.Engine) {
	srv := &http.Server{
		Addr:              cfg.Planner.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Infof("HTTP server listening on %s", ln.Addr())
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Errorf("HTTP server stopped: %v", err)
					if shutdownErr := shutdowner.Shutdown(); shutdownErr != nil {
						logger.Errorf("Failed to shutdown application: %v", shutdownErr)
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Infof("Shutting down HTTP server...")
			stopCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			return srv.Shutdown(stopCtx)
		},
	})
}

// Module provides the HTTP handler and router and starts the server.
var Module = fx.Options(
	fx.Provide(NewHandler),
	fx.Provide(NewRouterProvider),
	fx.Invoke(RegisterHTTPServer),
)
