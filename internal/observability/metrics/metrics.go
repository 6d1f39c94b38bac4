package metrics

import (
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"sync"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success                  Outcome       = "success"
	Error                    Outcome       = "error"
	MetricRequestTimeout     time.Duration = 5 * time.Second
	MetricRequestIdleTimeout time.Duration = 10 * time.Second
)

func (O Outcome) String() string {
	return string(O)
}

func outcome(failure bool) Outcome {
	if failure {
		return Error
	}
	return Success
}

var defaultHistogramBucketsSeconds = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5}

// Collectors exist from package load so recording works before Init,
// e.g. in tests. Init only registers them and serves /metrics.
var (
	once sync.Once

	operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "farming_operation_duration_seconds",
			Help:    "Histogram of farming operation durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"operation", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of API request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "route", "status"},
	)

	dbLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_latency_seconds",
			Help:    "DB latency in seconds splitted by method and execution status",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "status"},
	)

	// add a counter for the number of errors from the fail to push message into queue
	queueSendErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_send_error_count",
			Help: "The total number of errors when sending messages to the queue",
		},
	)

	pollerDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poller_duration_seconds",
			Help:    "Histogram of poller durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"type", "status"},
	)

	pollerLastSuccessGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "poller_last_success_timestamp_seconds",
			Help: "Unix time of the last poller run that returned no error",
		},
		[]string{"type"},
	)

	poolCountGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "farming_pool_count",
			Help: "Number of registered pools",
		},
	)

	poolTotalStakedGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "farming_pool_total_staked",
			Help: "Total staked base units per pool",
		},
		[]string{"pool", "staking_asset"},
	)

	poolAccRewardPerShareGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "farming_pool_acc_reward_per_share",
			Help: "Reward accumulator per pool, scaled by the engine precision",
		},
		[]string{"pool"},
	)

	poolPositionsGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "farming_pool_positions",
			Help: "Number of open positions per pool",
		},
		[]string{"pool"},
	)
)

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		registerMetrics()
		initMetricsRouter(metricsPort)
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter := chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	metricsAddr := fmt.Sprintf(":%d", metricsPort)
	server := &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	go func() {
		log.Info().Msgf("Starting metrics server on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msgf("Error starting metrics server on %s", metricsAddr)
		}
	}()
}

func registerMetrics() {
	prometheus.MustRegister(
		operationDuration,
		httpRequestDuration,
		dbLatency,
		queueSendErrorCounter,
		pollerDurationHistogram,
		pollerLastSuccessGauge,
		poolCountGauge,
		poolTotalStakedGauge,
		poolAccRewardPerShareGauge,
		poolPositionsGauge,
	)
}

func RecordOperationDuration(d time.Duration, operation string, failure bool) {
	operationDuration.WithLabelValues(operation, outcome(failure).String()).Observe(d.Seconds())
}

func RecordHTTPRequestDuration(d time.Duration, method, route string, statusCode int) {
	httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(statusCode)).Observe(d.Seconds())
}

func RecordDbLatency(d time.Duration, method string, failure bool) {
	dbLatency.WithLabelValues(method, outcome(failure).String()).Observe(d.Seconds())
}

func RecordQueueSendError() {
	queueSendErrorCounter.Inc()
}

func RecordPoolCount(count uint64) {
	poolCountGauge.Set(float64(count))
}

// RecordPoolState publishes a pool's stake and accumulator. Values beyond
// float64 precision are rounded.
func RecordPoolState(poolIndex uint64, stakingAsset string, totalStaked, accRewardPerShare sdkmath.Uint, positions int) {
	pool := strconv.FormatUint(poolIndex, 10)
	poolTotalStakedGauge.WithLabelValues(pool, stakingAsset).Set(toFloat(totalStaked))
	poolAccRewardPerShareGauge.WithLabelValues(pool).Set(toFloat(accRewardPerShare))
	poolPositionsGauge.WithLabelValues(pool).Set(float64(positions))
}

func toFloat(u sdkmath.Uint) float64 {
	if u.IsNil() {
		return 0
	}
	f, _ := new(big.Float).SetInt(u.BigInt()).Float64()
	return f
}
