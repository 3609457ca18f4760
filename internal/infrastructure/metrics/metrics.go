package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 요청 처리 관련 메트릭
	RequestsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ifupdown_agent_requests_processed_total",
			Help: "Total number of interface requests processed",
		},
		[]string{"status"}, // applied, failed, blocked
	)

	RequestProcessingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ifupdown_agent_request_processing_duration_seconds",
			Help:    "Time spent processing each interface request",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"interface_name", "status"},
	)

	// 폴링 관련 메트릭
	PollingCycleCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ifupdown_agent_polling_cycles_total",
			Help: "Total number of polling cycles executed",
		},
	)

	PollingCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ifupdown_agent_polling_cycle_duration_seconds",
			Help:    "Time spent in each polling cycle",
			Buckets: prometheus.DefBuckets,
		},
	)

	PollingBackoffLevel = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ifupdown_agent_polling_backoff_level",
			Help: "Current backoff level (0 = no backoff)",
		},
	)

	// 데이터베이스 연결 관련 메트릭
	DBConnectionStatus = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ifupdown_agent_db_connection_status",
			Help: "Database connection status (1 = connected, 0 = disconnected)",
		},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ifupdown_agent_db_query_duration_seconds",
			Help:    "Time spent executing database queries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query_type"}, // get_pending, update_status, etc.
	)

	// 파일 쓰기 관련 메트릭
	FileRewrites = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ifupdown_agent_file_rewrites_total",
			Help: "Total number of times the interfaces file was rewritten",
		},
	)

	BlockedWrites = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ifupdown_agent_blocked_writes_total",
			Help: "Total number of writes refused because of unclassified lines",
		},
	)

	// 드리프트 감지 메트릭
	ConfigurationDrifts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ifupdown_agent_configuration_drifts_total",
			Help: "Total number of configuration drifts detected",
		},
		[]string{"interface_name"},
	)

	// 고아 인터페이스 정리 메트릭
	OrphanedInterfacesPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ifupdown_agent_orphaned_interfaces_pruned_total",
			Help: "Total number of orphaned interfaces pruned",
		},
	)

	// 에러 메트릭
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ifupdown_agent_errors_total",
			Help: "Total number of errors encountered",
		},
		[]string{"error_type"}, // validation, network, system, not_found
	)

	// 시스템 정보
	AgentInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ifupdown_agent_info",
			Help: "Agent information",
		},
		[]string{"version", "os_type", "node_name"},
	)
)

// RecordRequestProcessing은 요청 처리 시간을 기록합니다
func RecordRequestProcessing(interfaceName string, status string, duration float64) {
	RequestProcessingDuration.WithLabelValues(interfaceName, status).Observe(duration)
	RequestsProcessed.WithLabelValues(status).Inc()
}

// RecordPollingCycle은 폴링 사이클 메트릭을 기록합니다
func RecordPollingCycle(duration float64) {
	PollingCycleCount.Inc()
	PollingCycleDuration.Observe(duration)
}

// RecordDBQuery는 데이터베이스 쿼리 시간을 기록합니다
func RecordDBQuery(queryType string, duration float64) {
	DBQueryDuration.WithLabelValues(queryType).Observe(duration)
}

// RecordError는 에러 발생을 기록합니다
func RecordError(errorType string) {
	ErrorsTotal.WithLabelValues(errorType).Inc()
}

// RecordDrift는 설정 드리프트를 기록합니다
func RecordDrift(interfaceName string) {
	ConfigurationDrifts.WithLabelValues(interfaceName).Inc()
}

// RecordFileRewrite는 인터페이스 파일 재작성을 기록합니다
func RecordFileRewrite() {
	FileRewrites.Inc()
}

// RecordBlockedWrite는 거부된 파일 쓰기를 기록합니다
func RecordBlockedWrite() {
	BlockedWrites.Inc()
}

// SetBackoffLevel은 현재 백오프 레벨을 설정합니다
func SetBackoffLevel(level float64) {
	PollingBackoffLevel.Set(level)
}

// SetDBConnectionStatus는 데이터베이스 연결 상태를 설정합니다
func SetDBConnectionStatus(connected bool) {
	if connected {
		DBConnectionStatus.Set(1)
	} else {
		DBConnectionStatus.Set(0)
	}
}

// SetAgentInfo는 에이전트 정보를 설정합니다
func SetAgentInfo(version, osType, nodeName string) {
	AgentInfo.WithLabelValues(version, osType, nodeName).Set(1)
}
