package collector

import (
	"context"
	"fmt"
	"net/http"

	"github.com/homepulse/homepulse/agent/internal/config"
)

// promSource reads hardware usage gauges from a Prometheus text exposition
// endpoint (a node exporter or the hub's own metrics add-on). Used when the
// agent monitors a hub on another machine.
type promSource struct {
	cfg    config.MetricsConfig
	client *http.Client
}

func newPromSource(cfg config.MetricsConfig) (*promSource, error) {
	client, err := buildHTTPClient(config.AuthConfig{}, config.TLSConfig{})
	if err != nil {
		return nil, fmt.Errorf("prometheus source: build http client: %w", err)
	}
	return &promSource{cfg: cfg, client: client}, nil
}

// sample fetches the exposition and extracts the three configured gauges.
// A gauge missing from the scrape reads as 0; the engine treats that as
// "no load" rather than failing the evaluation.
func (s *promSource) sample(ctx context.Context) (cpuPct, memPct, diskPct float64, err error) {
	mfs, err := fetchMetrics(ctx, s.client, s.cfg.Endpoint)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("prometheus fetch %q: %w", s.cfg.Endpoint, err)
	}

	cpuPct = gaugeValue(mfs, s.cfg.CPUMetric)
	memPct = gaugeValue(mfs, s.cfg.MemoryMetric)
	diskPct = gaugeValue(mfs, s.cfg.DiskMetric)
	return cpuPct, memPct, diskPct, nil
}
