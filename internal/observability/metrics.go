package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpDurationHistogram *prometheus.HistogramVec
	syncRunCounter        *prometheus.CounterVec
	syncPaymentCounter    *prometheus.CounterVec
	debtUpdateCounter     prometheus.Counter
	orphanedCounter       prometheus.Counter
	syncRunningGauge      prometheus.Gauge
)

// Init registers all Prometheus collectors.
func Init() {
	registerOnce.Do(func() {
		httpDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"})

		syncRunCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boleto_sync_runs_total",
			Help: "Reconciliation pass outcomes by trigger",
		}, []string{"trigger", "result"})

		syncPaymentCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boleto_sync_payments_total",
			Help: "Per-payment reconciliation outcomes",
		}, []string{"outcome"})

		debtUpdateCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boleto_sync_debt_updates_total",
			Help: "Debt decrements applied from paid boletos",
		})

		orphanedCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boleto_sync_orphaned_payments_total",
			Help: "Paid boletos whose referenced client could not be loaded",
		})

		syncRunningGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "boleto_sync_scheduler_running",
			Help: "Whether the auto-sync scheduler is active (1) or stopped (0)",
		})

		prometheus.MustRegister(
			httpDurationHistogram,
			syncRunCounter,
			syncPaymentCounter,
			debtUpdateCounter,
			orphanedCounter,
			syncRunningGauge,
		)
	})
}

func ObserveHTTP(method, path string, status int, duration time.Duration) {
	if httpDurationHistogram == nil {
		return
	}
	httpDurationHistogram.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

func IncrementSyncRun(trigger, result string) {
	if syncRunCounter == nil {
		return
	}
	syncRunCounter.WithLabelValues(trigger, result).Inc()
}

func IncrementSyncPayment(outcome string) {
	if syncPaymentCounter == nil {
		return
	}
	syncPaymentCounter.WithLabelValues(outcome).Inc()
}

func IncrementDebtUpdate() {
	if debtUpdateCounter == nil {
		return
	}
	debtUpdateCounter.Inc()
}

func IncrementOrphanedPayment() {
	if orphanedCounter == nil {
		return
	}
	orphanedCounter.Inc()
}

func SetSyncRunning(running bool) {
	if syncRunningGauge == nil {
		return
	}
	if running {
		syncRunningGauge.Set(1)
		return
	}
	syncRunningGauge.Set(0)
}
