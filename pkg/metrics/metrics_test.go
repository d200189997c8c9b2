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

package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/pagesim/pagesim/pkg/metrics"
	"github.com/pagesim/pagesim/pkg/sim"
)

func TestCollectorEmitsBothPolicies(t *testing.T) {
	snap := func() (sim.AlgorithmMetrics, sim.AlgorithmMetrics, sim.AlgorithmName) {
		return sim.AlgorithmMetrics{PageFaults: 3, PageHits: 10, TotalTime: 25},
			sim.AlgorithmMetrics{PageFaults: 9, PageHits: 4, TotalTime: 54},
			sim.FIFO
	}
	c := metrics.NewCollector(snap)

	// 8 metric families, one sample each for "opt" and for the chosen
	// policy's name.
	require.Equal(t, 16, testutil.CollectAndCount(c))
}

// TestRegisterCollectorAndGather registers a single named collector, checks
// that re-registering the same name is rejected, and that a gatherer built
// afterwards includes it. It registers only one collector for the whole
// package-test binary: two Collectors both emitting a "policy=opt" sample
// would collide in a shared prometheus.Registry, same as two real sessions
// never share one process's registry.
func TestRegisterCollectorAndGather(t *testing.T) {
	name := "pagesim-session"
	init := func() (prometheus.Collector, error) {
		return metrics.NewCollector(func() (sim.AlgorithmMetrics, sim.AlgorithmMetrics, sim.AlgorithmName) {
			return sim.AlgorithmMetrics{PageFaults: 1}, sim.AlgorithmMetrics{PageFaults: 2}, sim.LRU
		}), nil
	}

	require.NoError(t, metrics.RegisterCollector(name, init))
	require.Error(t, metrics.RegisterCollector(name, init))

	g, err := metrics.NewGatherer()
	require.NoError(t, err)

	families, err := g.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}
