package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

type fakeCatalog struct {
	stops, buses, vertices, edges int
}

func (f fakeCatalog) StopCount() int                   { return f.stops }
func (f fakeCatalog) BusCount() int                    { return f.buses }
func (f fakeCatalog) GraphSize() (vertices, edges int) { return f.vertices, f.edges }

// getMetricValue retrieves the current float64 value of a Prometheus gauge or counter.
// Returns an error if the metric cannot be parsed.
func getMetricValue(metric prometheus.Collector) (float64, error) {
	c := make(chan prometheus.Metric, 1)
	metric.Collect(c)

	m := <-c

	var metricValue float64
	pb := &dto.Metric{}
	if err := m.Write(pb); err != nil {
		return 0, err
	}

	switch {
	case pb.Gauge != nil:
		metricValue = pb.Gauge.GetValue()
	case pb.Counter != nil:
		metricValue = pb.Counter.GetValue()
	case pb.Histogram != nil:
		metricValue = float64(pb.Histogram.GetSampleCount())
	}

	return metricValue, nil
}
