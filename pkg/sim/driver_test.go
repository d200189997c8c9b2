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

package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDriver(t *testing.T, algorithm AlgorithmName, seed string, ramFrames int) *Driver {
	t.Helper()
	instrs, nextPtr := GenerateWorkload(5, 300, seed)
	d, err := NewSession(seed, algorithm, instrs, nextPtr, testConfig(ramFrames))
	require.NoError(t, err)
	return d
}

func TestDriverDeterministicAcrossRuns(t *testing.T) {
	for _, algo := range []AlgorithmName{FIFO, SC, LRU, MRU, RND} {
		algo := algo
		t.Run(string(algo), func(t *testing.T) {
			d1 := newTestDriver(t, algo, "driver-determinism", 20)
			d2 := newTestDriver(t, algo, "driver-determinism", 20)

			for {
				o1, err := d1.Step()
				require.NoError(t, err)
				o2, err := d2.Step()
				require.NoError(t, err)

				opt1, chosen1 := d1.Snapshot()
				opt2, chosen2 := d2.Snapshot()
				require.Equal(t, opt1, opt2)
				require.Equal(t, chosen1, chosen2)

				if o1.ReachedEnd {
					require.True(t, o2.ReachedEnd)
					break
				}
			}
		})
	}
}

func TestDriverResetReplaysIdentically(t *testing.T) {
	d := newTestDriver(t, LRU, "driver-reset", 20)
	require.NoError(t, d.Run())
	_, firstChosen := d.Snapshot()

	require.NoError(t, d.Reset())
	require.NoError(t, d.Run())
	_, secondChosen := d.Snapshot()

	require.Equal(t, firstChosen, secondChosen)
}

func TestDriverOPTLowerBoundOnPageFaults(t *testing.T) {
	for _, algo := range []AlgorithmName{FIFO, SC, LRU, MRU, RND} {
		algo := algo
		t.Run(string(algo), func(t *testing.T) {
			d := newTestDriver(t, algo, "opt-lower-bound-"+string(algo), 16)

			for {
				outcome, err := d.Step()
				require.NoError(t, err)

				opt, chosen := d.Snapshot()
				require.LessOrEqual(t, opt.Metrics.PageFaults, chosen.Metrics.PageFaults,
					"OPT must never fault more than %s at step %d", algo, d.Index())

				if outcome.ReachedEnd {
					break
				}
			}
		})
	}
}

func TestDriverSnapshotIsIsolatedFromFurtherSteps(t *testing.T) {
	d := newTestDriver(t, FIFO, "snapshot-isolation", 20)
	_, err := d.Step()
	require.NoError(t, err)
	_, err = d.Step()
	require.NoError(t, err)

	_, chosenBefore := d.Snapshot()
	metricsBefore := chosenBefore.Metrics

	_, err = d.Step()
	require.NoError(t, err)
	require.Equal(t, metricsBefore, chosenBefore.Metrics, "a prior snapshot must not change as the driver advances")
}
