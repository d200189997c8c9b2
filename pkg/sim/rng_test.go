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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNGDeterministic(t *testing.T) {
	a := NewRNG("seed-one")
	b := NewRNG("seed-one")
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestRNGDistinctSeedsDiverge(t *testing.T) {
	a := NewRNG("seed-one")
	b := NewRNG("seed-two")
	same := true
	for i := 0; i < 20; i++ {
		if a.Uint64() != b.Uint64() {
			same = false
			break
		}
	}
	assert.False(t, same, "distinct seeds should not produce identical streams")
}

func TestRNGFloat64Range(t *testing.T) {
	r := NewRNG("float-range")
	for i := 0; i < 1000; i++ {
		v := r.Float64()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestRNGIntnRange(t *testing.T) {
	r := NewRNG("intn-range")
	for i := 0; i < 1000; i++ {
		v := r.Intn(7)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 7)
	}
}

func TestRNGIntnPanicsOnNonPositive(t *testing.T) {
	r := NewRNG("panic")
	assert.Panics(t, func() { r.Intn(0) })
}
