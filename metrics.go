package streamzip

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricsRegisterOnce sync.Once

	archiveEntriesWrittenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "streamzip",
			Subsystem: "archive",
			Name:      "entries_written_total",
			Help:      "Number of entries finalized into an archive, by compression method.",
		},
		[]string{"method"})
	archiveEntriesWrittenStore   = archiveEntriesWrittenTotal.WithLabelValues("store")
	archiveEntriesWrittenDeflate = archiveEntriesWrittenTotal.WithLabelValues("deflate")

	archiveBytesWrittenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "streamzip",
			Subsystem: "archive",
			Name:      "bytes_written_total",
			Help:      "Bytes handed to the sink, by record kind.",
		},
		[]string{"kind"})
	archiveBytesWrittenHeaders  = archiveBytesWrittenTotal.WithLabelValues("local_header")
	archiveBytesWrittenPayload  = archiveBytesWrittenTotal.WithLabelValues("payload")
	archiveBytesWrittenFooters  = archiveBytesWrittenTotal.WithLabelValues("local_footer")
	archiveBytesWrittenCentral  = archiveBytesWrittenTotal.WithLabelValues("central_directory")

	archiveCloseDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "streamzip",
			Subsystem: "archive",
			Name:      "close_duration_seconds",
			Help:      "Time spent writing the central directory and end-of-central-directory records in Close().",
			Buckets:   prometheus.DefBuckets,
		})
)

// registerMetrics registers every collector exactly once, against the
// default registerer, the same sync.Once-guarded MustRegister idiom
// buildbarn-bb-storage uses for its own per-package metrics.
func registerMetrics() {
	metricsRegisterOnce.Do(func() {
		prometheus.MustRegister(
			archiveEntriesWrittenTotal,
			archiveBytesWrittenTotal,
			archiveCloseDurationSeconds,
		)
	})
}

func observeEntryWritten(m Method, headerLen, payloadLen, footerLen int) {
	registerMetrics()
	if m == MethodDeflate {
		archiveEntriesWrittenDeflate.Inc()
	} else {
		archiveEntriesWrittenStore.Inc()
	}
	archiveBytesWrittenHeaders.Add(float64(headerLen))
	archiveBytesWrittenPayload.Add(float64(payloadLen))
	archiveBytesWrittenFooters.Add(float64(footerLen))
}

func observeClose(cdrLen int, start time.Time) {
	registerMetrics()
	archiveBytesWrittenCentral.Add(float64(cdrLen))
	archiveCloseDurationSeconds.Observe(time.Since(start).Seconds())
}
