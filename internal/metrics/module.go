package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Raikerian/chimera/internal/config"
)

// Module provides the metrics collectors and, when configured, the exporter.
var Module = fx.Module("metrics",
	fx.Provide(NewRegistry, NewFromRegistry),
	fx.Invoke(registerExporter),
)

// NewRegistry creates the registry shared by all collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return reg
}

// NewFromRegistry adapts New for Fx.
func NewFromRegistry(reg *prometheus.Registry) *Metrics {
	return New(reg)
}

// ExporterParams holds dependencies for registerExporter.
type ExporterParams struct {
	fx.In
	LC       fx.Lifecycle
	Cfg      *config.Config
	Registry *prometheus.Registry
	Logger   *zap.Logger
}

func registerExporter(params ExporterParams) {
	addr := params.Cfg.Metrics.Address
	if addr == "" {
		params.Logger.Debug("Metrics exporter disabled")
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(params.Registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	params.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}

			params.Logger.Info("Serving metrics", zap.String("address", addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					params.Logger.Error("Metrics server stopped", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
