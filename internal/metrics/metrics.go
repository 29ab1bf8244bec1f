package metrics

import (
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "habitlens"

const maxBuildSamples = 1000

type Metrics struct {
	startTime time.Time
	registry  *prometheus.Registry

	requestsTotal   atomic.Int64
	requestsSuccess atomic.Int64
	requestsFailed  atomic.Int64
	requestsBlocked atomic.Int64

	dashboardBuilds atomic.Int64
	habitsDropped   atomic.Int64
	entriesCreated  atomic.Int64

	notificationsSent   atomic.Int64
	notificationsFailed atomic.Int64

	toolCallsTotal   atomic.Int64
	toolCallsSuccess atomic.Int64
	toolCallsFailed  atomic.Int64

	activeConnections atomic.Int64

	buildTimes     []time.Duration
	buildTimesLock sync.Mutex
	buildHistogram prometheus.Histogram

	analyses     map[string]*atomic.Int64
	analysesLock sync.Mutex

	alerts     map[string]*atomic.Int64
	alertsLock sync.Mutex

	analysesDesc *prometheus.Desc
	alertsDesc   *prometheus.Desc
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

func Default() *Metrics {
	once.Do(func() {
		defaultMetrics = New()
	})
	return defaultMetrics
}

// New creates a Metrics instance with its own registry
func New() *Metrics {
	m := &Metrics{
		startTime:  time.Now(),
		registry:   prometheus.NewRegistry(),
		buildTimes: make([]time.Duration, 0, maxBuildSamples),
		analyses:   make(map[string]*atomic.Int64),
		alerts:     make(map[string]*atomic.Int64),
		buildHistogram: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dashboard_build_seconds",
			Help:      "Time spent aggregating dashboard insights",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		analysesDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "analyses_total"),
			"Analyzer runs by analyzer", []string{"analyzer"}, nil),
		alertsDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "alerts_total"),
			"Predictive alerts raised by type", []string{"type"}, nil),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.buildHistogram,
		m,
		m.counterFunc("requests_total", "Total API requests", &m.requestsTotal),
		m.counterFunc("requests_failed_total", "Failed API requests", &m.requestsFailed),
		m.counterFunc("requests_blocked_total", "Rate limited API requests", &m.requestsBlocked),
		m.counterFunc("dashboard_builds_total", "Dashboard aggregations", &m.dashboardBuilds),
		m.counterFunc("habits_dropped_total", "Habits dropped from an aggregation after a failure", &m.habitsDropped),
		m.counterFunc("entries_created_total", "Entries recorded", &m.entriesCreated),
		m.counterFunc("notifications_sent_total", "Reminders delivered", &m.notificationsSent),
		m.counterFunc("notifications_failed_total", "Reminders that failed to deliver", &m.notificationsFailed),
		m.counterFunc("tool_calls_total", "Tool invocations", &m.toolCallsTotal),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_connections",
			Help:      "Open websocket connections",
		}, func() float64 { return float64(m.activeConnections.Load()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Time since process start",
		}, func() float64 { return time.Since(m.startTime).Seconds() }),
	)

	return m
}

func (m *Metrics) counterFunc(name, help string, v *atomic.Int64) prometheus.CounterFunc {
	return prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, func() float64 { return float64(v.Load()) })
}

// Describe implements prometheus.Collector for the labeled counters
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.analysesDesc
	ch <- m.alertsDesc
}

// Collect implements prometheus.Collector for the labeled counters
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.analysesLock.Lock()
	for name, count := range m.analyses {
		ch <- prometheus.MustNewConstMetric(m.analysesDesc, prometheus.CounterValue, float64(count.Load()), name)
	}
	m.analysesLock.Unlock()

	m.alertsLock.Lock()
	for typ, count := range m.alerts {
		ch <- prometheus.MustNewConstMetric(m.alertsDesc, prometheus.CounterValue, float64(count.Load()), typ)
	}
	m.alertsLock.Unlock()
}

// Registry exposes the private registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordRequest(success bool) {
	m.requestsTotal.Add(1)
	if success {
		m.requestsSuccess.Add(1)
	} else {
		m.requestsFailed.Add(1)
	}
}

func (m *Metrics) RecordRequestBlocked() {
	m.requestsBlocked.Add(1)
}

func (m *Metrics) RecordAnalysis(analyzer string) {
	increment(&m.analysesLock, m.analyses, analyzer)
}

func (m *Metrics) RecordAlert(alertType string) {
	increment(&m.alertsLock, m.alerts, alertType)
}

func increment(mu *sync.Mutex, counts map[string]*atomic.Int64, key string) {
	mu.Lock()
	defer mu.Unlock()

	if counts[key] == nil {
		counts[key] = &atomic.Int64{}
	}
	counts[key].Add(1)
}

// RecordDashboardBuild records one aggregation and how many habits it dropped
func (m *Metrics) RecordDashboardBuild(d time.Duration, dropped int) {
	m.dashboardBuilds.Add(1)
	m.habitsDropped.Add(int64(dropped))
	m.buildHistogram.Observe(d.Seconds())

	m.buildTimesLock.Lock()
	defer m.buildTimesLock.Unlock()

	m.buildTimes = append(m.buildTimes, d)
	if len(m.buildTimes) > maxBuildSamples {
		m.buildTimes = m.buildTimes[1:]
	}
}

func (m *Metrics) RecordEntryCreated() {
	m.entriesCreated.Add(1)
}

func (m *Metrics) RecordNotification(success bool) {
	if success {
		m.notificationsSent.Add(1)
	} else {
		m.notificationsFailed.Add(1)
	}
}

func (m *Metrics) RecordToolCall(success bool) {
	m.toolCallsTotal.Add(1)
	if success {
		m.toolCallsSuccess.Add(1)
	} else {
		m.toolCallsFailed.Add(1)
	}
}

func (m *Metrics) IncrementActiveConnections() {
	m.activeConnections.Add(1)
}

func (m *Metrics) DecrementActiveConnections() {
	m.activeConnections.Add(-1)
}

type Snapshot struct {
	Uptime              time.Duration    `json:"uptime"`
	RequestsTotal       int64            `json:"requests_total"`
	RequestsSuccess     int64            `json:"requests_success"`
	RequestsFailed      int64            `json:"requests_failed"`
	RequestsBlocked     int64            `json:"requests_blocked"`
	DashboardBuilds     int64            `json:"dashboard_builds"`
	HabitsDropped       int64            `json:"habits_dropped"`
	EntriesCreated      int64            `json:"entries_created"`
	NotificationsSent   int64            `json:"notifications_sent"`
	NotificationsFailed int64            `json:"notifications_failed"`
	ToolCallsTotal      int64            `json:"tool_calls_total"`
	ToolCallsSuccess    int64            `json:"tool_calls_success"`
	ToolCallsFailed     int64            `json:"tool_calls_failed"`
	ActiveConnections   int64            `json:"active_connections"`
	AvgBuildTime        time.Duration    `json:"avg_build_time"`
	P99BuildTime        time.Duration    `json:"p99_build_time"`
	Analyses            map[string]int64 `json:"analyses"`
	Alerts              map[string]int64 `json:"alerts"`
	SuccessRate         float64          `json:"success_rate"`
}

func (m *Metrics) Snapshot() *Snapshot {
	s := &Snapshot{
		Uptime:              time.Since(m.startTime),
		RequestsTotal:       m.requestsTotal.Load(),
		RequestsSuccess:     m.requestsSuccess.Load(),
		RequestsFailed:      m.requestsFailed.Load(),
		RequestsBlocked:     m.requestsBlocked.Load(),
		DashboardBuilds:     m.dashboardBuilds.Load(),
		HabitsDropped:       m.habitsDropped.Load(),
		EntriesCreated:      m.entriesCreated.Load(),
		NotificationsSent:   m.notificationsSent.Load(),
		NotificationsFailed: m.notificationsFailed.Load(),
		ToolCallsTotal:      m.toolCallsTotal.Load(),
		ToolCallsSuccess:    m.toolCallsSuccess.Load(),
		ToolCallsFailed:     m.toolCallsFailed.Load(),
		ActiveConnections:   m.activeConnections.Load(),
		Analyses:            make(map[string]int64),
		Alerts:              make(map[string]int64),
	}

	if s.RequestsTotal > 0 {
		s.SuccessRate = float64(s.RequestsSuccess) / float64(s.RequestsTotal) * 100
	}

	m.buildTimesLock.Lock()
	if len(m.buildTimes) > 0 {
		var total time.Duration
		for _, d := range m.buildTimes {
			total += d
		}
		s.AvgBuildTime = total / time.Duration(len(m.buildTimes))

		sorted := make([]time.Duration, len(m.buildTimes))
		copy(sorted, m.buildTimes)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		p99Index := int(float64(len(sorted)) * 0.99)
		if p99Index >= len(sorted) {
			p99Index = len(sorted) - 1
		}
		s.P99BuildTime = sorted[p99Index]
	}
	m.buildTimesLock.Unlock()

	m.analysesLock.Lock()
	for k, v := range m.analyses {
		s.Analyses[k] = v.Load()
	}
	m.analysesLock.Unlock()

	m.alertsLock.Lock()
	for k, v := range m.alerts {
		s.Alerts[k] = v.Load()
	}
	m.alertsLock.Unlock()

	return s
}

func RecordRequest(success bool) {
	Default().RecordRequest(success)
}

func RecordRequestBlocked() {
	Default().RecordRequestBlocked()
}

func RecordAnalysis(analyzer string) {
	Default().RecordAnalysis(analyzer)
}

func RecordAlert(alertType string) {
	Default().RecordAlert(alertType)
}

func RecordDashboardBuild(d time.Duration, dropped int) {
	Default().RecordDashboardBuild(d, dropped)
}

func RecordEntryCreated() {
	Default().RecordEntryCreated()
}

func RecordNotification(success bool) {
	Default().RecordNotification(success)
}

func RecordToolCall(success bool) {
	Default().RecordToolCall(success)
}

func GetSnapshot() *Snapshot {
	return Default().Snapshot()
}

func Handler() http.Handler {
	return Default().Handler()
}
