package services

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	MONITORING_SVC          = "monitoring_svc"
	SERVICE_NAME            = "quest_api"
	DEFAULT_PROMETHEUS_PORT = 2112
)

// HTTP Metrics
var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"endpoint", "method", "status"},
	)

	httpRequestsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_active",
			Help: "Number of active concurrent HTTP requests",
		},
		[]string{"endpoint", "method"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Progression Metrics
var (
	stageTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stage_transitions_total",
			Help: "Progression transitions applied, by stage and kind",
		},
		[]string{"stage", "kind"},
	)

	dateAnomaliesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "date_anomalies_total",
			Help: "Stored level dates that failed to parse",
		},
	)

	queuedWritesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "queued_writes_total",
			Help: "Writes deferred to the retry queue",
		},
	)

	replayedWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "replayed_writes_total",
			Help: "Queued writes replayed against the store",
		},
		[]string{"outcome"},
	)

	pendingWritesGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pending_writes",
			Help: "Writes currently waiting in the retry queue",
		},
	)
)

// System Metrics
var (
	heapAllocBytes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "heap_alloc_bytes",
			Help: "Heap memory allocated in bytes",
		},
	)

	gcTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gc_total",
			Help: "Total number of garbage collections",
		},
	)
)

func recordTransition(stage, kind string) {
	stageTransitionsTotal.WithLabelValues(stage, kind).Inc()
}

func recordDateAnomaly() {
	dateAnomaliesTotal.Inc()
}

func recordQueuedWrite() {
	queuedWritesTotal.Inc()
}

func recordReplay(outcome string) {
	replayedWritesTotal.WithLabelValues(outcome).Inc()
}

type MonitoringService struct {
	appContext.DefaultService

	port     int
	register *prometheus.Registry

	closed      chan struct{}
	server      *fiber.App
	lastGCCount uint32
}

func (svc MonitoringService) Id() string {
	return MONITORING_SVC
}

func (svc *MonitoringService) Configure(ctx *appContext.Context) error {
	portStr := os.Getenv("PROMETHEUS_PORT")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = DEFAULT_PROMETHEUS_PORT
	}
	svc.port = port

	return svc.DefaultService.Configure(ctx)
}

func (svc *MonitoringService) Start() error {
	svc.closed = make(chan struct{})

	reg := prometheus.NewRegistry()

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	reg.MustRegister(
		httpRequestsTotal,
		httpRequestsActive,
		httpRequestDurationSeconds,
		stageTransitionsTotal,
		dateAnomaliesTotal,
		queuedWritesTotal,
		replayedWritesTotal,
		pendingWritesGauge,
		heapAllocBytes,
		gcTotal,
	)

	svc.register = reg

	go svc.updateRuntimeMetrics()
	go svc.updatePendingGauge()

	config := fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		},
	}

	svc.server = fiber.New(config)
	svc.server.Use(recover.New())

	svc.server.Get("/metrics", svc.metricsHandler)
	svc.server.Get("/health", svc.healthHandler)

	log.Info().Int("port", svc.port).Msg("Prometheus metrics server started")
	return svc.server.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *MonitoringService) Shutdown() {
	close(svc.closed)
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

func (svc *MonitoringService) metricsHandler(c *fiber.Ctx) error {
	handler := promhttp.HandlerFor(svc.register, promhttp.HandlerOpts{})
	return adaptor.HTTPHandler(handler)(c)
}

func (svc *MonitoringService) healthHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "healthy",
		"service":   SERVICE_NAME,
		"timestamp": time.Now().Unix(),
	})
}

func (svc *MonitoringService) updateRuntimeMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			heapAllocBytes.Set(float64(m.Alloc))
			if m.NumGC > svc.lastGCCount {
				gcTotal.Add(float64(m.NumGC - svc.lastGCCount))
				svc.lastGCCount = m.NumGC
			}

		case <-svc.closed:
			return
		}
	}
}

func (svc *MonitoringService) updatePendingGauge() {
	writerSvc, ok := svc.Service(WRITER_SVC).(*ProgressWriterService)
	if !ok || writerSvc == nil {
		return
	}

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pendingWritesGauge.Set(float64(writerSvc.PendingCount()))
		case <-svc.closed:
			return
		}
	}
}

// MonitoringMiddleware records request count, duration and in-flight gauge
// for every route.
func MonitoringMiddleware(monitoringSvc *MonitoringService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}

		start := time.Now()
		endpoint := c.Route().Path
		method := c.Method()

		httpRequestsActive.WithLabelValues(endpoint, method).Inc()
		err := c.Next()
		httpRequestsActive.WithLabelValues(endpoint, method).Dec()

		status := strconv.Itoa(c.Response().StatusCode())
		httpRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
		httpRequestDurationSeconds.WithLabelValues(endpoint, method, status).Observe(time.Since(start).Seconds())

		return err
	}
}
