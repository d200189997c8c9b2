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

// Package sim implements a deterministic virtual-memory simulator core: a
// textual instruction workload (new/use/delete/kill), six page-replacement
// policies (FIFO, SC, MRU, LRU, RND, OPT), a per-policy simulation engine
// that tracks RAM frames, a logical-page MMU and textbook-accurate metrics,
// and a dual-policy driver that runs a chosen policy side by side with the
// clairvoyant OPT policy over the same instruction stream.
//
// There is no real memory allocation or disk I/O here: "RAM" is a fixed
// array of frames and "disk" is a symbolic address stored on a page record.
package sim

// Constants shared by the workload generator, the engine, and the policies.
const (
	// PageSizeBytes is the size of one logical page / physical frame.
	PageSizeBytes = 4096
	// TotalRAMFrames is the default number of physical RAM frames.
	TotalRAMFrames = 100
	// HitTime is the simulated cost, in seconds, of a resident page access.
	HitTime int64 = 1
	// FaultTime is the simulated cost, in seconds, of bringing in a
	// non-resident page. The full cost counts toward thrashing time.
	FaultTime int64 = 5

	// workloadMinSizeBytes and workloadMaxSizeBytes bound the size drawn
	// for a generated `new` instruction.
	workloadMinSizeBytes = 100
	workloadMaxSizeBytes = 16 * 1024

	// killDowngradeFraction is the share of the requested instruction
	// count below which a candidate `kill` is downgraded to a `new`, so
	// that processes get a chance to accumulate allocations before the
	// stream is allowed to retire them.
	killDowngradeFraction = 0.2
)
