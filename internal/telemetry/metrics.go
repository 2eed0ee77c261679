package telemetry

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Runs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ntv2_runs_total",
		Help: "Transformations run, by algorithm, direction and result.",
	}, []string{"algorithm", "direction", "result"})

	RunDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ntv2_run_duration_seconds",
		Help:    "Wall time of a transformation including grid fetches.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"algorithm"})

	GridDownloads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ntv2_grid_downloads_total",
		Help: "Grid downloads attempted, by file and result.",
	}, []string{"file", "result"})

	GridDownloadBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ntv2_grid_download_bytes_total",
		Help: "Bytes written to the grid store.",
	})
)

func init() {
	prometheus.MustRegister(Runs, RunDuration, GridDownloads, GridDownloadBytes)
}

// Result labels a finished operation.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Expose serves /metrics on port in the background. The returned server can
// be shut down by the caller.
func Expose(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		_ = srv.ListenAndServe()
	}()
	return srv
}
