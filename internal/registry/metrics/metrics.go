package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RegistrationsTotal     prometheus.Counter
	DIDUpdatesTotal        prometheus.Counter
	CredentialLinksTotal   prometheus.Counter
	CredentialUnlinksTotal prometheus.Counter
	OperationFailures      *prometheus.CounterVec
	Paused                 prometheus.Gauge
	IdentitiesTotal        prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		RegistrationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "selfid_registry_registrations_total",
			Help: "Total number of successful identity registrations",
		}),
		DIDUpdatesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "selfid_registry_did_updates_total",
			Help: "Total number of successful DID replacements",
		}),
		CredentialLinksTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "selfid_registry_credential_links_total",
			Help: "Total number of successful credential links",
		}),
		CredentialUnlinksTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "selfid_registry_credential_unlinks_total",
			Help: "Total number of successful credential unlinks",
		}),
		OperationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "selfid_registry_operation_failures_total",
			Help: "Rejected registry operations by operation and error code",
		}, []string{"operation", "code"}),
		Paused: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "selfid_registry_paused",
			Help: "Whether the registry pause gate is engaged (1) or open (0)",
		}),
		IdentitiesTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "selfid_registry_identities_total",
			Help: "Current value of the monotonic identity counter",
		}),
	}
}

func (m *Metrics) IncrementRegistrations() {
	m.RegistrationsTotal.Inc()
}

func (m *Metrics) IncrementDIDUpdates() {
	m.DIDUpdatesTotal.Inc()
}

func (m *Metrics) IncrementCredentialLinks() {
	m.CredentialLinksTotal.Inc()
}

func (m *Metrics) IncrementCredentialUnlinks() {
	m.CredentialUnlinksTotal.Inc()
}

func (m *Metrics) IncrementFailures(operation, code string) {
	m.OperationFailures.WithLabelValues(operation, code).Inc()
}

func (m *Metrics) SetPaused(paused bool) {
	if paused {
		m.Paused.Set(1)
		return
	}
	m.Paused.Set(0)
}

func (m *Metrics) SetIdentitiesTotal(total uint64) {
	m.IdentitiesTotal.Set(float64(total))
}
