package server

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iov-one/sharepool/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagConfig   = "config"
	flagBind     = "bind"
	flagDebug    = "debug"
	flagLogLevel = "log_level"
	flagMetrics  = "metrics"
)

// AppGenerator lets us lazily initialize app, using home dir, the node
// configuration and a registry that application metrics should be
// registered with.
type AppGenerator func(home string, logger log.Logger, c Config, reg prometheus.Registerer) (abci.Application, error)

// parseStartArgs loads the configuration file and applies all flags that
// were explicitly set on top of it.
func parseStartArgs(home string, args []string) (Config, error) {
	fs := flag.NewFlagSet("start", flag.ContinueOnError)
	path := fs.String(flagConfig, ConfigPath(home), "node configuration file")
	bind := fs.String(flagBind, "", "address server listens on")
	debug := fs.Bool(flagDebug, false, "call stack returned on error")
	level := fs.String(flagLogLevel, "", "log level: debug, info, error or none")
	metrics := fs.String(flagMetrics, "", "address of the prometheus endpoint")
	if err := fs.Parse(args); err != nil {
		return Config{}, errors.Wrap(errors.ErrInput, err.Error())
	}

	c, err := LoadConfig(*path)
	if err != nil {
		return c, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case flagBind:
			c.Bind = *bind
		case flagDebug:
			c.Debug = *debug
		case flagLogLevel:
			c.LogLevel = *level
		case flagMetrics:
			c.MetricsAddr = *metrics
		}
	})
	return c, c.Validate()
}

// StartCmd initializes the application and serves it over an ABCI socket
// until the process receives an interrupt.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	c, err := parseStartArgs(home, args)
	if err != nil {
		return err
	}
	logger, err = c.Logger(logger)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	app, err := gen(home, logger, c, reg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.MetricsAddr != "" {
		metrics := &http.Server{
			Addr:    c.MetricsAddr,
			Handler: metricsHandler(reg),
		}
		go func() {
			logger.Info("Serving metrics", "addr", c.MetricsAddr)
			if err := metrics.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server", "err", err)
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metrics.Shutdown(sctx)
		}()
	}

	logger.Info("Starting ABCI app", "bind", c.Bind)
	svr, err := server.NewServer(c.Bind, "socket", app)
	if err != nil {
		return errors.Wrap(errors.ErrNetwork, err.Error())
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(errors.ErrNetwork, err.Error())
	}

	<-ctx.Done()
	logger.Info("Shutting down")
	return svr.Stop()
}

func metricsHandler(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return mux
}
