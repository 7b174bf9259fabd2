package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	LockResultAcquired = "acquired"
	LockResultTimeout  = "timeout"
	LockResultError    = "error"

	CacheResultHit  = "hit"
	CacheResultMiss = "miss"
)

var (
	// LockAcquireCounter counts lock acquisition attempts by outcome.
	LockAcquireCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "account_lock_acquire_total",
		Help: "Total number of account lock acquisitions by result",
	}, []string{"result"})
	// LockWaitHistogram observes how long callers waited for an account lock.
	LockWaitHistogram = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "account_lock_wait_seconds",
		Help:    "Time spent waiting for an account lock",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
	})
	// TransactionCounter counts persisted balance transactions.
	TransactionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "balance_transactions_total",
		Help: "Total number of recorded balance transactions by type and result",
	}, []string{"type", "result"})
	// TransactionErrorCounter counts rejected balance operations by error code.
	TransactionErrorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "balance_transaction_errors_total",
		Help: "Total number of rejected balance operations by error code",
	}, []string{"code"})
	// TransactionCacheCounter counts transaction cache lookups.
	TransactionCacheCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "transaction_cache_lookups_total",
		Help: "Total number of transaction cache lookups by result",
	}, []string{"result"})
)

// NewRegistry creates a new Prometheus registry.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// RegisterCoreMetrics registers the service metrics on the provided registry.
func RegisterCoreMetrics(reg prometheus.Registerer) {
	reg.MustRegister(
		LockAcquireCounter,
		LockWaitHistogram,
		TransactionCounter,
		TransactionErrorCounter,
		TransactionCacheCounter,
	)
}
