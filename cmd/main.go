package main

import (
	"context"
	"log"
	"os"
	ossignal "os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xdimtech/go-wsecho/handler"
	"github.com/xdimtech/go-wsecho/handler/base"
	"github.com/xdimtech/go-wsecho/handler/echo"
	"github.com/xdimtech/go-wsecho/pkg/config"
	"github.com/xdimtech/go-wsecho/pkg/logging"
	"github.com/xdimtech/go-wsecho/pkg/metrics"
	"github.com/xdimtech/go-wsecho/pkg/ws"
)

func main() {
	if err := run(); err != nil {
		log.Fatal("wsecho: ", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Logging())
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	opts := append(base.SocketOptions(&cfg.Socket),
		ws.WithLogger(logger.Named("ws")),
		ws.WithMetrics(collector),
	)
	comp := echo.NewComponent(cfg.Echo.URL,
		echo.WithConnector(base.WsConnector(opts...)),
		echo.WithLogger(logger.Named("echo")),
		echo.WithPrefix(cfg.Echo.Prefix),
	)

	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	unsubscribe := comp.OnChange(newRenderer(os.Stdout, cfg.Echo.Output))
	defer unsubscribe()

	logger.Info("connecting", zap.String("url", cfg.Echo.URL))
	if err := comp.Mount(ctx); err != nil {
		return err
	}
	defer comp.Unmount()

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Metrics.Addr != "" {
		g.Go(func() error {
			return handler.NewStatusServer(comp, reg, logger.Named("status")).Start(gctx, cfg.Metrics.Addr)
		})
	}
	g.Go(func() error {
		defer cancel()
		return newConsole(comp, logger).Run(gctx, os.Stdin)
	})
	return g.Wait()
}
