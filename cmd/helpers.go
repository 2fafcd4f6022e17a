package cmd

import (
	"github.com/MainbaseT/sol2uml/internal/config"
	"github.com/MainbaseT/sol2uml/internal/metrics"
	"github.com/MainbaseT/sol2uml/pkg/sourceFetcher"
	"go.uber.org/zap"
)

const (
	flagFilename       = "filename"
	flagOut            = "out"
	flagFormat         = "format"
	flagProgress       = "progress"
	flagSkipUnparsable = "skip-unparsable"

	formatText = "text"
	formatCsv  = "csv"
)

func newMetricsSink(cfg *config.Config, l *zap.Logger) (*metrics.MetricsSink, error) {
	metricsClients, err := metrics.InitMetricsSinksFromConfig(cfg, l)
	if err != nil {
		return nil, err
	}
	return metrics.NewMetricsSink(&metrics.MetricsSinkConfig{}, metricsClients)
}

func newSourceFetcher(cfg *config.Config, sink *metrics.MetricsSink, l *zap.Logger) (*sourceFetcher.SourceFetcher, error) {
	return sourceFetcher.NewSourceFetcherFromConfig(cfg, nil, sink, l)
}
