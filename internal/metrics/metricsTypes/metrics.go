package metricsTypes

import "time"

type IMetricsClient interface {
	Incr(name string, labels []MetricsLabel, value float64) error
	Gauge(name string, value float64, labels []MetricsLabel) error
	Timing(name string, value time.Duration, labels []MetricsLabel) error
}

type MetricsLabel struct {
	Name  string
	Value string
}

type MetricsType string

var (
	MetricsType_Incr   MetricsType = "incr"
	MetricsType_Gauge  MetricsType = "gauge"
	MetricsType_Timing MetricsType = "timing"
)

type MetricsTypeConfig struct {
	Name   string
	Labels []string
}

var (
	Metric_Incr_ExplorerRequest = "explorer.request"
	Metric_Incr_SourceMerged    = "source.merged"
	Metric_Incr_HttpRequest     = "rpc.http.request"

	Metric_Gauge_SourceFiles = "source.files"

	Metric_Timing_ExplorerRequestDuration = "explorer.request.duration"
	Metric_Timing_MergeDuration           = "source.merge.duration"
	Metric_Timing_HttpDuration            = "rpc.http.duration"
)

var MetricTypes = map[MetricsType][]MetricsTypeConfig{
	MetricsType_Incr: {
		MetricsTypeConfig{
			Name:   Metric_Incr_ExplorerRequest,
			Labels: []string{"outcome"},
		},
		MetricsTypeConfig{
			Name:   Metric_Incr_SourceMerged,
			Labels: []string{"outcome"},
		},
		MetricsTypeConfig{
			Name:   Metric_Incr_HttpRequest,
			Labels: []string{"route", "status"},
		},
	},
	MetricsType_Gauge: {
		MetricsTypeConfig{
			Name:   Metric_Gauge_SourceFiles,
			Labels: []string{},
		},
	},
	MetricsType_Timing: {
		MetricsTypeConfig{
			Name:   Metric_Timing_ExplorerRequestDuration,
			Labels: []string{},
		},
		MetricsTypeConfig{
			Name:   Metric_Timing_MergeDuration,
			Labels: []string{},
		},
		MetricsTypeConfig{
			Name:   Metric_Timing_HttpDuration,
			Labels: []string{"route"},
		},
	},
}
