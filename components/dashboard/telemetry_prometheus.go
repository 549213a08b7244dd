package dashboard

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusTelemetry counts dashboard events per name and tracks provider
// errors separately so alerting can key on them.
type PrometheusTelemetry struct {
	events         *prometheus.CounterVec
	providerErrors *prometheus.CounterVec
}

// NewPrometheusTelemetry builds a telemetry sink and registers its collectors
// on the given registerer. Pass prometheus.DefaultRegisterer for the default.
func NewPrometheusTelemetry(reg prometheus.Registerer) (*PrometheusTelemetry, error) {
	t := &PrometheusTelemetry{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trendboard",
			Subsystem: "dashboard",
			Name:      "events_total",
			Help:      "Dashboard events by name.",
		}, []string{"event"}),
		providerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trendboard",
			Subsystem: "dashboard",
			Name:      "provider_errors_total",
			Help:      "Tile provider fetch failures by definition.",
		}, []string{"definition"}),
	}
	for _, collector := range []prometheus.Collector{t.events, t.providerErrors} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Record implements the Telemetry interface.
func (t *PrometheusTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	t.events.WithLabelValues(event).Inc()
	if event == "dashboard.tile.provider_error" {
		definition, _ := payload["definition_id"].(string)
		if definition == "" {
			definition = "unknown"
		}
		t.providerErrors.WithLabelValues(definition).Inc()
	}
}

var _ Telemetry = (*PrometheusTelemetry)(nil)
