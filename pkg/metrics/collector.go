package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/danpilch/bees-exporter/pkg/scan"
)

// Scanner produces a fresh scan result on demand.
type Scanner interface {
	Scan(ctx context.Context) *scan.Result
}

// Collector is a prometheus.Collector that rescans the status directory on
// every scrape. Series names depend on file contents, so it describes no
// metrics up front and is registered as an unchecked collector.
type Collector struct {
	scanner    Scanner
	timestamps bool
	logger     *logrus.Logger
}

// CollectorOptions configures a Collector.
type CollectorOptions struct {
	// Timestamps attaches the status file modification time to each sample.
	Timestamps bool
	Logger     *logrus.Logger
}

// NewCollector creates a collector backed by s.
func NewCollector(s Scanner, opts CollectorOptions) *Collector {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Collector{
		scanner:    s,
		timestamps: opts.Timestamps,
		logger:     logger,
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(chan<- *prometheus.Desc) {}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	start := time.Now()
	res := c.scanner.Scan(context.Background())

	var samples int
	for _, fam := range Project(res) {
		desc := prometheus.NewDesc(fam.Name, fam.Help, fam.LabelNames, nil)
		valueType := prometheus.GaugeValue
		if fam.Kind == KindCounter {
			valueType = prometheus.CounterValue
		}

		for _, s := range fam.Samples {
			m, err := prometheus.NewConstMetric(desc, valueType, s.Value, s.LabelValues...)
			if err != nil {
				c.logger.WithFields(logrus.Fields{
					"metric": fam.Name,
					"error":  err,
				}).Error("Failed to build metric")
				continue
			}
			if c.timestamps {
				m = prometheus.NewMetricWithTimestamp(time.Unix(s.Timestamp, 0), m)
			}
			ch <- m
			samples++
		}
	}

	c.logger.WithFields(logrus.Fields{
		"filesystems": res.Len(),
		"skipped":     len(res.Skips),
		"samples":     samples,
		"duration":    time.Since(start),
	}).Debug("Collected bees metrics")
}
