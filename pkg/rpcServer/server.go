package rpcServer

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/MainbaseT/sol2uml/internal/metrics"
	"github.com/MainbaseT/sol2uml/internal/metrics/metricsTypes"
	"github.com/MainbaseT/sol2uml/pkg/sourceMerger"
	"github.com/MainbaseT/sol2uml/pkg/sourcecode"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type SourceFetcher interface {
	FetchSourceCode(ctx context.Context, address string, filename string) (*sourcecode.FetchResult, error)
}

type SourceMerger interface {
	MergeSourceCode(result *sourcecode.FetchResult) (*sourceMerger.MergedSource, error)
}

type RpcServerConfig struct {
	CorsAllowedOrigins []string
}

type RpcServer struct {
	Logger      *zap.Logger
	config      *RpcServerConfig
	fetcher     SourceFetcher
	merger      SourceMerger
	metricsSink *metrics.MetricsSink
	router      *chi.Mux
}

const requestIdHeader = "X-Request-Id"

type requestIdKey struct{}

func NewRpcServer(
	cfg *RpcServerConfig,
	sf SourceFetcher,
	sm SourceMerger,
	ms *metrics.MetricsSink,
	l *zap.Logger,
) *RpcServer {
	rpc := &RpcServer{
		Logger:      l,
		config:      cfg,
		fetcher:     sf,
		merger:      sm,
		metricsSink: ms,
		router:      chi.NewRouter(),
	}

	rpc.router.Use(rpc.requestId)
	rpc.router.Use(rpc.logRequest)
	rpc.router.Use(middleware.Recoverer)

	rpc.router.Get("/health", rpc.HealthCheck)
	rpc.router.Route("/v1/contracts/{address}", func(r chi.Router) {
		r.Get("/sources", rpc.GetSourceCode)
		r.Get("/flattened", rpc.GetFlattenedSourceCode)
	})

	return rpc
}

// Handler returns the router wrapped with CORS handling.
func (rpc *RpcServer) Handler() http.Handler {
	origins := rpc.config.CorsAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIdHeader},
		ExposedHeaders: []string{requestIdHeader},
	})
	return c.Handler(rpc.router)
}

func (rpc *RpcServer) requestId(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIdHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIdHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIdKey{}, id)))
	})
}

func getRequestId(ctx context.Context) string {
	id, _ := ctx.Value(requestIdKey{}).(string)
	return id
}

func (rpc *RpcServer) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)

		_ = rpc.metricsSink.Incr(metricsTypes.Metric_Incr_HttpRequest, []metricsTypes.MetricsLabel{
			{Name: "route", Value: route},
			{Name: "status", Value: strconv.Itoa(status)},
		}, 1)
		_ = rpc.metricsSink.Timing(metricsTypes.Metric_Timing_HttpDuration, duration, []metricsTypes.MetricsLabel{
			{Name: "route", Value: route},
		})

		rpc.Logger.Sugar().Debugw("Handled request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("requestId", getRequestId(r.Context())),
		)
	})
}
