package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Deek-011/formbot/internal/common/bootstrap"
	"github.com/Deek-011/formbot/internal/common/config"
	"github.com/Deek-011/formbot/internal/common/constants"
	"github.com/Deek-011/formbot/internal/common/db"
	srv "github.com/Deek-011/formbot/internal/common/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		log, err := newLogger(cfg.Log, bootstrap.ServiceName)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, err := bootstrap.New(ctx, cfg, log)
		if err != nil {
			log.Errorf("startup failed: %v", err)
			return err
		}
		defer app.Close()

		db.StartPoolMetrics(ctx, app.Pool, constants.DBPoolMetricsInterval)

		sweepStop := make(chan struct{})
		go app.RateLimiter.Sweep(sweepStop)

		server := srv.NewServer(srv.NewServerConfig(cfg.HTTPPort, cfg.Server), app.Handler)
		hooks := []srv.ShutdownHook{
			func(ctx context.Context) error {
				log.Info("stopping rate limiter sweep")
				close(sweepStop)
				return nil
			},
		}

		return srv.Run(ctx, server, log, bootstrap.ServiceName, hooks)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
