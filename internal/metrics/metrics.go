package metrics

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	TrackerPollsTotal     *prometheus.CounterVec
	TrackerInFlight       prometheus.Gauge
	OperationsTotal       *prometheus.CounterVec
	NodeRequestsTotal     *prometheus.CounterVec
	ApiTotal              *prometheus.CounterVec
	ApiInFlight           *prometheus.GaugeVec
	RequestsRecordedTotal *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		TrackerPollsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_polls_total",
			Help: "total number of status queries issued by the tracker",
		}, []string{"result"}),
		TrackerInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracker_in_flight_operations",
			Help: "number of operations currently being tracked",
		}),
		OperationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "operations_total",
			Help: "total number of mint and transfer operations",
		}, []string{"family", "kind", "outcome"}),
		NodeRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "node_requests_total",
			Help: "total number of requests sent to the node",
		}, []string{"endpoint", "status"}),
		ApiTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_total_requests",
			Help: "total number of api requests",
		}, []string{"method", "route", "status"}),
		ApiInFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "api_in_flight_requests",
			Help: "number of in flight api requests",
		}, []string{"route"}),
		RequestsRecordedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "requests_recorded_total",
			Help: "total number of request status transitions written to the store",
		}, []string{"status"}),
	}

	metrics.Enable(reg)
	return metrics
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.TrackerPollsTotal,
		m.TrackerInFlight,
		m.OperationsTotal,
		m.NodeRequestsTotal,
		m.ApiTotal,
		m.ApiInFlight,
		m.RequestsRecordedTotal,
	}
}

func (m *Metrics) Enable(reg prometheus.Registerer) {
	for _, c := range m.collectors() {
		reg.MustRegister(c)
	}
}

func (m *Metrics) Disable(reg prometheus.Registerer) {
	for _, c := range m.collectors() {
		reg.Unregister(c)
	}
}
