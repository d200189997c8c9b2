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

import "hash/fnv"

// RNG is a deterministic, seedable pseudo-random source: an xorshift128+
// generator whose initial state is expanded from the user's seed string
// with a splitmix64 step. The same seed always produces the same stream on
// any host, which is what makes a whole session reproducible.
type RNG struct {
	s0, s1 uint64
}

// NewRNG derives an RNG from an arbitrary seed string. Callers that need
// independent streams (workload generation vs. a particular policy
// instance) should pass distinct seed strings, e.g. seed+"|"+algorithmName.
func NewRNG(seed string) *RNG {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	sm := h.Sum64()

	next := func() uint64 {
		sm += 0x9E3779B97F4A7C15
		z := sm
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		return z ^ (z >> 31)
	}

	r := &RNG{s0: next(), s1: next()}
	if r.s0 == 0 && r.s1 == 0 {
		r.s1 = 1 // xorshift128+ requires non-zero state
	}
	return r
}

// Uint64 returns the next 64-bit value in the stream.
func (r *RNG) Uint64() uint64 {
	x := r.s0
	y := r.s1
	r.s0 = y
	x ^= x << 23
	x ^= x >> 17
	x ^= y ^ (y >> 26)
	r.s1 = x
	return r.s1 + y
}

// Float64 returns a uniformly distributed value in [0, 1).
func (r *RNG) Float64() float64 {
	return float64(r.Uint64()>>11) * (1.0 / (1 << 53))
}

// Intn returns a uniformly distributed value in [0, n). It panics if n<=0.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		panic("sim: Intn called with n <= 0")
	}
	return int(r.Uint64() % uint64(n))
}
