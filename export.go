package funclog

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/eryajf/promwrite"
	"go.uber.org/zap"
)

// ExportConfig configures the Prometheus remote-write exporter.
type ExportConfig struct {
	// Metric name prefix, rendered as namespace_subsystem_<metric>.
	Namespace string
	Subsystem string

	// ServiceName labels every pushed series. Required.
	ServiceName string

	// Remote write configuration. An empty URL disables pushing.
	RemoteWriteURL string
	Interval       time.Duration

	// Instance information.
	InstanceIP   string
	CustomLabels map[string]string

	// Optional logger.
	Logger *zap.Logger

	// DNS resolver options for the remote-write host. When servers are
	// configured the host is re-resolved on an interval and the client is
	// recreated on IP changes.
	DNSServers         []string // UDP, e.g. ["1.1.1.1:53", "8.8.8.8:53"]
	DNSRefreshInterval time.Duration
	DNSTimeout         time.Duration
}

// DefaultExportConfig returns a default exporter configuration.
func DefaultExportConfig() ExportConfig {
	ip, _ := GetOutboundIPv4()
	return ExportConfig{
		Namespace:    "funclog",
		Subsystem:    "prod",
		ServiceName:  "service",
		Interval:     15 * time.Second,
		InstanceIP:   ip,
		CustomLabels: make(map[string]string),
	}
}

// Exporter periodically pushes a FuncLogger's cumulative aggregates (per
// identity: call count and per-metric sums) as Prometheus remote-write time
// series.
type Exporter struct {
	config ExportConfig
	source *FuncLogger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Refresh state is shared between the push goroutine's retry path and
	// the DNS-refresh goroutine.
	mu          sync.Mutex
	client      *promwrite.Client
	targetHost  string
	resolvedIPs []string
	lastResolve time.Time
}

// NewExporter creates an exporter reading from source.
func NewExporter(config ExportConfig, source *FuncLogger) (*Exporter, error) {
	if source == nil {
		return nil, fmt.Errorf("exporter source cannot be nil")
	}
	if config.ServiceName == "" {
		return nil, fmt.Errorf("service name cannot be empty")
	}
	if config.InstanceIP == "" {
		ip, err := GetOutboundIPv4()
		if err != nil {
			return nil, fmt.Errorf("failed to get outbound IPv4: %w", err)
		}
		config.InstanceIP = ip
	}
	if config.DNSRefreshInterval <= 0 {
		config.DNSRefreshInterval = 5 * time.Minute
	}
	if config.DNSTimeout <= 0 {
		config.DNSTimeout = 800 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())

	var client *promwrite.Client
	var host string
	if config.RemoteWriteURL != "" {
		client = promwrite.NewClient(config.RemoteWriteURL)
		if u, err := url.Parse(config.RemoteWriteURL); err == nil {
			host = u.Hostname()
		}
	}

	return &Exporter{
		config:     config,
		source:     source,
		client:     client,
		ctx:        ctx,
		cancel:     cancel,
		targetHost: host,
	}, nil
}

// Start launches the periodic push loop and, when DNS servers are configured,
// the resolver refresh loop. Without a remote-write URL it logs a warning and
// does nothing.
func (e *Exporter) Start() error {
	if e.clientRef() == nil {
		if e.config.Logger != nil {
			e.config.Logger.Warn("starting exporter without remote write URL")
		}
		return nil
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		interval := e.config.Interval
		if interval <= 0 {
			interval = 15 * time.Second
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := e.push(); err != nil {
					if e.config.Logger != nil {
						e.config.Logger.Error("failed to push call statistics", zap.Error(err))
					}
				}
			case <-e.ctx.Done():
				return
			}
		}
	}()

	if len(e.config.DNSServers) > 0 && e.targetHost != "" && net.ParseIP(e.targetHost) == nil {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			ticker := time.NewTicker(e.config.DNSRefreshInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					e.refreshDNS(false)
				case <-e.ctx.Done():
					return
				}
			}
		}()
	}

	if e.config.Logger != nil {
		e.config.Logger.Info("exporter started",
			zap.String("namespace", e.config.Namespace),
			zap.String("subsystem", e.config.Subsystem),
			zap.String("service", e.config.ServiceName))
	}
	return nil
}

// Stop terminates the loops and waits for them to finish.
func (e *Exporter) Stop() {
	e.cancel()
	e.wg.Wait()
}

// ForceWrite pushes the current aggregates immediately.
func (e *Exporter) ForceWrite() error {
	return e.push()
}

// clientRef returns the current remote-write client under the refresh lock;
// refreshDNS may swap it at any time.
func (e *Exporter) clientRef() *promwrite.Client {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.client
}

// push sends the source's cumulative aggregates to the remote-write endpoint.
func (e *Exporter) push() error {
	client := e.clientRef()
	if client == nil {
		return fmt.Errorf("no remote write client configured")
	}

	tsList := e.timeSeries()
	if len(tsList) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(e.ctx, 15*time.Second)
	defer cancel()

	req := &promwrite.WriteRequest{TimeSeries: tsList}
	if _, err := client.Write(ctx, req); err != nil {
		// On failure, force one DNS refresh and retry: remote-write
		// endpoints behind changing IPs are the common cause.
		if e.refreshDNS(true) {
			if _, retryErr := e.clientRef().Write(ctx, req); retryErr != nil {
				return fmt.Errorf("writing time series failed after dns refresh: %w", retryErr)
			}
			return nil
		}
		return fmt.Errorf("writing time series failed: %w", err)
	}
	return nil
}

// timeSeries converts the source's cumulative aggregates into remote-write
// series: one calls-total series per identity plus one series per summable
// metric. Non-summable slots are skipped.
func (e *Exporter) timeSeries() []promwrite.TimeSeries {
	now := time.Now()
	prefix := fmt.Sprintf("%s_%s", e.config.Namespace, e.config.Subsystem)

	var result []promwrite.TimeSeries
	for _, t := range e.source.Cumulative() {
		result = append(result, e.series(prefix+"_calls_total", float64(t.Calls), t.Func, now))
		for metric, v := range t.Totals {
			value, ok := metricValue(v)
			if !ok {
				continue
			}
			name := fmt.Sprintf("%s_%s_total", prefix, sanitizeMetricName(metric))
			result = append(result, e.series(name, value, t.Func, now))
		}
	}
	return result
}

func (e *Exporter) series(name string, value float64, function string, at time.Time) promwrite.TimeSeries {
	labels := make([]promwrite.Label, 0, 5+len(e.config.CustomLabels))
	labels = append(labels, []promwrite.Label{
		{Name: "__name__", Value: name},
		{Name: "_instance_", Value: e.config.InstanceIP},
		{Name: "instance", Value: e.config.InstanceIP},
		{Name: "_target_", Value: e.config.ServiceName},
		{Name: "function", Value: function},
	}...)
	for k, v := range e.config.CustomLabels {
		labels = append(labels, promwrite.Label{Name: k, Value: v})
	}
	return promwrite.TimeSeries{
		Labels: labels,
		Sample: promwrite.Sample{Time: at, Value: value},
	}
}

// metricValue flattens a cumulative slot to a float64 sample. Durations are
// reported in seconds.
func metricValue(v any) (float64, bool) {
	switch x := v.(type) {
	case time.Duration:
		return x.Seconds(), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// sanitizeMetricName maps a metric name onto the Prometheus name alphabet.
func sanitizeMetricName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, name)
}
