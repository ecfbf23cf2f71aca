package keel

import "github.com/prometheus/client_golang/prometheus"

// Collector exposes an App's counters to a prometheus registry:
//
//	prometheus.MustRegister(keel.NewCollector(app, "keel"))
//
// Reads are lock-free, collecting is safe at any point of the App's life.
type Collector struct {
	app *App

	connsAccepted *prometheus.Desc
	connsActive   *prometheus.Desc
	connsClosed   *prometheus.Desc

	requestsBegun     *prometheus.Desc
	requestsCompleted *prometheus.Desc
	requestsAborted   *prometheus.Desc

	bytesRead     *prometheus.Desc
	bytesWritten  *prometheus.Desc
	writeFailures *prometheus.Desc

	bufferGets    *prometheus.Desc
	bufferPuts    *prometheus.Desc
	buffersLeased *prometheus.Desc
}

var _ prometheus.Collector = new(Collector)

func NewCollector(app *App, namespace string) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, nil)
	}

	return &Collector{
		app: app,

		connsAccepted: desc("connections_accepted_total",
			"Connections accepted off the listener."),
		connsActive: desc("connections_active",
			"Connections currently being served."),
		connsClosed: desc("connections_closed_total",
			"Connections that finished their lifecycle."),

		requestsBegun: desc("requests_begun_total",
			"Request cycles started by a first chunk."),
		requestsCompleted: desc("requests_completed_total",
			"Requests that were assembled to completion."),
		requestsAborted: desc("requests_aborted_total",
			"Requests finalized abnormally during teardown."),

		bytesRead: desc("read_bytes_total",
			"Bytes delivered by socket reads."),
		bytesWritten: desc("written_bytes_total",
			"Bytes pushed out as responses."),
		writeFailures: desc("write_failures_total",
			"Response writes that broke their connection."),

		bufferGets: desc("buffer_gets_total",
			"Read buffer leases taken."),
		bufferPuts: desc("buffer_puts_total",
			"Read buffer leases returned."),
		buffersLeased: desc("buffers_leased",
			"Read buffers currently out on lease."),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.connsAccepted
	ch <- c.connsActive
	ch <- c.connsClosed
	ch <- c.requestsBegun
	ch <- c.requestsCompleted
	ch <- c.requestsAborted
	ch <- c.bytesRead
	ch <- c.bytesWritten
	ch <- c.writeFailures
	ch <- c.bufferGets
	ch <- c.bufferPuts
	ch <- c.buffersLeased
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	counter := func(d *prometheus.Desc, v uint64) prometheus.Metric {
		return prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	gauge := func(d *prometheus.Desc, v int64) prometheus.Metric {
		return prometheus.MustNewConstMetric(d, prometheus.GaugeValue, float64(v))
	}

	stats, pool := c.app.stats, c.app.pool

	ch <- counter(c.connsAccepted, stats.ConnsAccepted.Load())
	ch <- gauge(c.connsActive, stats.ConnsActive.Load())
	ch <- counter(c.connsClosed, stats.ConnsClosed.Load())

	ch <- counter(c.requestsBegun, stats.RequestsBegun.Load())
	ch <- counter(c.requestsCompleted, stats.RequestsCompleted.Load())
	ch <- counter(c.requestsAborted, stats.RequestsAborted.Load())

	ch <- counter(c.bytesRead, stats.BytesRead.Load())
	ch <- counter(c.bytesWritten, stats.BytesWritten.Load())
	ch <- counter(c.writeFailures, stats.WriteFailures.Load())

	ch <- counter(c.bufferGets, pool.Gets())
	ch <- counter(c.bufferPuts, pool.Puts())
	ch <- gauge(c.buffersLeased, pool.Leased())
}
