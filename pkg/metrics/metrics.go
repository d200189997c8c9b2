// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics exports a running Driver's OPT-vs-chosen comparison as
// Prometheus metrics, following the teacher's pkg/metrics collector
// registry: named InitCollector funcs registered once, gathered into a
// single prometheus.Gatherer on demand.
package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pagesim/pagesim/pkg/sim"
)

// InitCollector builds a prometheus.Collector, deferring construction until
// a gatherer is actually requested.
type InitCollector func() (prometheus.Collector, error)

var builtInCollectors = map[string]InitCollector{}

// RegisterCollector adds a named collector initializer to the package-level
// registry. Registering the same name twice is an error.
func RegisterCollector(name string, init InitCollector) error {
	if _, found := builtInCollectors[name]; found {
		return errors.Errorf("metrics: collector %q already registered", name)
	}
	builtInCollectors[name] = init
	return nil
}

// NewGatherer builds a fresh prometheus.Gatherer from every registered
// collector, mirroring the teacher's NewMetricGatherer.
func NewGatherer() (prometheus.Gatherer, error) {
	reg := prometheus.NewPedanticRegistry()

	collectors := make([]prometheus.Collector, 0, len(builtInCollectors))
	for name, init := range builtInCollectors {
		c, err := init()
		if err != nil {
			return nil, errors.Wrapf(err, "metrics: init collector %q", name)
		}
		collectors = append(collectors, c)
	}
	reg.MustRegister(collectors...)

	return reg, nil
}

// SnapshotFunc returns the current OPT and chosen-policy metrics of a
// running session plus the chosen policy's name; a closure over
// Driver.Snapshot that picks out each StateView's Metrics fits it.
type SnapshotFunc func() (opt, chosen sim.AlgorithmMetrics, chosenName sim.AlgorithmName)

// Collector adapts a SnapshotFunc into a prometheus.Collector, emitting
// eight metric families (counters for faults, hits, total and thrashing
// time; gauges for RAM, virtual RAM, fragmentation and running processes),
// labeled by which policy ("opt" or the chosen algorithm's name) produced
// the value. The two percentage fields of AlgorithmMetrics are not exported.
type Collector struct {
	snapshot SnapshotFunc

	pageFaults    *prometheus.Desc
	pageHits      *prometheus.Desc
	totalTime     *prometheus.Desc
	thrashingTime *prometheus.Desc
	ramUsedKB     *prometheus.Desc
	vramUsedKB    *prometheus.Desc
	fragKB        *prometheus.Desc
	runningProcs  *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector builds a Collector that reads snapshot whenever Prometheus
// scrapes it.
func NewCollector(snapshot SnapshotFunc) *Collector {
	label := []string{"policy"}
	return &Collector{
		snapshot:      snapshot,
		pageFaults:    prometheus.NewDesc("pagesim_page_faults_total", "Cumulative page faults.", label, nil),
		pageHits:      prometheus.NewDesc("pagesim_page_hits_total", "Cumulative page hits.", label, nil),
		totalTime:     prometheus.NewDesc("pagesim_total_time_seconds", "Cumulative simulated time.", label, nil),
		thrashingTime: prometheus.NewDesc("pagesim_thrashing_time_seconds", "Cumulative simulated fault time.", label, nil),
		ramUsedKB:     prometheus.NewDesc("pagesim_ram_used_kb", "Resident page footprint in KB.", label, nil),
		vramUsedKB:    prometheus.NewDesc("pagesim_vram_used_kb", "Swapped page footprint in KB.", label, nil),
		fragKB:        prometheus.NewDesc("pagesim_internal_fragmentation_kb", "Internal fragmentation in KB.", label, nil),
		runningProcs:  prometheus.NewDesc("pagesim_running_processes", "Distinct processes with live allocations.", label, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.pageFaults
	ch <- c.pageHits
	ch <- c.totalTime
	ch <- c.thrashingTime
	ch <- c.ramUsedKB
	ch <- c.vramUsedKB
	ch <- c.fragKB
	ch <- c.runningProcs
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	opt, chosen, chosenName := c.snapshot()
	c.emit(ch, "opt", opt)
	c.emit(ch, string(chosenName), chosen)
}

func (c *Collector) emit(ch chan<- prometheus.Metric, label string, m sim.AlgorithmMetrics) {
	ch <- prometheus.MustNewConstMetric(c.pageFaults, prometheus.CounterValue, float64(m.PageFaults), label)
	ch <- prometheus.MustNewConstMetric(c.pageHits, prometheus.CounterValue, float64(m.PageHits), label)
	ch <- prometheus.MustNewConstMetric(c.totalTime, prometheus.CounterValue, float64(m.TotalTime), label)
	ch <- prometheus.MustNewConstMetric(c.thrashingTime, prometheus.CounterValue, float64(m.ThrashingTime), label)
	ch <- prometheus.MustNewConstMetric(c.ramUsedKB, prometheus.GaugeValue, float64(m.RAMUsedKB), label)
	ch <- prometheus.MustNewConstMetric(c.vramUsedKB, prometheus.GaugeValue, float64(m.VRAMUsedKB), label)
	ch <- prometheus.MustNewConstMetric(c.fragKB, prometheus.GaugeValue, m.InternalFragmentationKB, label)
	ch <- prometheus.MustNewConstMetric(c.runningProcs, prometheus.GaugeValue, float64(m.RunningProcesses), label)
}
