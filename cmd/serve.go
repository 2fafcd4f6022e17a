package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/MainbaseT/sol2uml/internal/config"
	"github.com/MainbaseT/sol2uml/internal/logger"
	"github.com/MainbaseT/sol2uml/internal/metrics/prometheus"
	"github.com/MainbaseT/sol2uml/internal/shutdown"
	"github.com/MainbaseT/sol2uml/internal/version"
	"github.com/MainbaseT/sol2uml/pkg/rpcServer"
	"github.com/MainbaseT/sol2uml/pkg/sourceMerger"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the http api for getting and flattening verified source code",
	RunE: func(cmd *cobra.Command, args []string) error {
		bindCommandFlags(cmd)
		cfg := config.NewConfig()

		l, err := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Debug})
		if err != nil {
			return err
		}

		l.Sugar().Infow("sol2uml serve",
			zap.String("version", version.GetVersion()),
			zap.String("commit", version.GetCommit()),
			zap.String("network", cfg.Network),
			zap.Int("chainId", cfg.GetChainId()),
		)

		sink, err := newMetricsSink(cfg, l)
		if err != nil {
			l.Sugar().Fatalw("Failed to setup metrics sink", zap.Error(err))
		}
		defer sink.Flush()

		sf, err := newSourceFetcher(cfg, sink, l)
		if err != nil {
			l.Sugar().Fatalw("Failed to create source fetcher", zap.Error(err))
		}
		sm := sourceMerger.NewDefaultSourceMerger(nil, sink, l)

		rpc := rpcServer.NewRpcServer(&rpcServer.RpcServerConfig{
			CorsAllowedOrigins: cfg.RpcConfig.CorsAllowedOrigins,
		}, sf, sm, sink, l)

		httpServer := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.RpcConfig.HttpPort),
			Handler:           rpc.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			l.Sugar().Infow("Starting http server", zap.Int("port", cfg.RpcConfig.HttpPort))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				l.Sugar().Fatalw("Failed to start http server", zap.Error(err))
			}
		}()

		var pServer *prometheus.PrometheusServer
		if cfg.PrometheusConfig.Enabled {
			pServer = prometheus.NewPrometheusServer(&prometheus.PrometheusServerConfig{
				Port: cfg.PrometheusConfig.Port,
			}, l)
			pServer.Start()
		}

		l.Sugar().Info("Started sol2uml")

		gracefulShutdown := shutdown.CreateGracefulShutdownChannel()

		return shutdown.ListenForShutdown(gracefulShutdown, func(ctx context.Context) error {
			l.Sugar().Info("Shutting down...")
			if pServer != nil {
				if err := pServer.Shutdown(ctx); err != nil {
					l.Sugar().Errorw("Failed to stop prometheus server", zap.Error(err))
				}
			}
			return httpServer.Shutdown(ctx)
		}, time.Second*5, l)
	},
}
