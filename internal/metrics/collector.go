package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/snarg/speech-mine/internal/transcript"
)

// IndexSource provides the collector access to the live index.
type IndexSource interface {
	Current() *transcript.Index
}

// Collector implements prometheus.Collector to read index gauges at scrape time.
type Collector struct {
	source IndexSource

	utterances *prometheus.Desc
	words      *prometheus.Desc
	version    *prometheus.Desc
	loadedAt   *prometheus.Desc
}

// NewCollector creates a collector over the live index. source may be nil
// (metrics will report 0).
func NewCollector(source IndexSource) *Collector {
	return &Collector{
		source: source,
		utterances: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "index", "utterances"),
			"Utterances in the loaded transcript.",
			nil, nil,
		),
		words: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "index", "words"),
			"Words in the loaded transcript's global sequence.",
			nil, nil,
		),
		version: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "index", "version"),
			"Load generation of the live index.",
			nil, nil,
		),
		loadedAt: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "index", "loaded_timestamp_seconds"),
			"Unix time the live index was loaded.",
			nil, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.utterances
	ch <- c.words
	ch <- c.version
	ch <- c.loadedAt
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	var utterances, words, version, loadedAt float64
	if c.source != nil {
		if idx := c.source.Current(); idx != nil {
			utterances = float64(idx.UtteranceCount())
			words = float64(idx.WordCount())
			version = float64(idx.Version())
			if !idx.LoadedAt().IsZero() {
				loadedAt = float64(idx.LoadedAt().Unix())
			}
		}
	}
	ch <- prometheus.MustNewConstMetric(c.utterances, prometheus.GaugeValue, utterances)
	ch <- prometheus.MustNewConstMetric(c.words, prometheus.GaugeValue, words)
	ch <- prometheus.MustNewConstMetric(c.version, prometheus.GaugeValue, version)
	ch <- prometheus.MustNewConstMetric(c.loadedAt, prometheus.GaugeValue, loadedAt)
}
