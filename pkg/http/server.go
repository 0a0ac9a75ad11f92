package http

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	http_router "github.com/lintang-b-s/gridnav/pkg/http/router"
	"github.com/lintang-b-s/gridnav/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/gridnav/pkg/http/server"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
	g   *errgroup.Group
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

func (s *Server) Use(
	ctx context.Context,
	log *zap.Logger,

	useRateLimit bool,
	flowFieldService controllers.FlowFieldService,
) (*Server, error) {
	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("API_TIMEOUT", "60s")

	config := http_server.Config{
		Port:    viper.GetInt("API_PORT"),
		Timeout: viper.GetDuration("API_TIMEOUT"),
	}

	server := http_router.NewAPI(log)

	g, gctx := errgroup.WithContext(ctx)
	s.g = g

	g.Go(func() error {
		return server.Run(
			gctx, config, log,
			useRateLimit, flowFieldService,
		)
	})

	return s, nil
}

// Wait. block until the api goroutine returns.
func (s *Server) Wait() error {
	if s.g == nil {
		return nil
	}
	return s.g.Wait()
}

// GracefulShutdown. block until SIGINT or SIGTERM arrives.
func (s *Server) GracefulShutdown() os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	return <-quit
}
