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

func testConfig(ramFrames int) EngineConfig {
	return EngineConfig{PageSize: PageSizeBytes, RAMFrames: ramFrames, HitTime: HitTime, FaultTime: FaultTime}
}

func applyAll(t *testing.T, e *Engine, instrs []ProcessInstruction) {
	t.Helper()
	for i, instr := range instrs {
		require.NoError(t, e.Apply(instr, instrs[i:], i), "instruction %d (%s)", i, instr)
	}
}

// S1 (FIFO basic): four single-page allocations into three frames; the
// fourth evicts the first.
func TestEngineScenarioS1FIFOBasic(t *testing.T) {
	e, err := NewEngine(FIFO, "s1", testConfig(3))
	require.NoError(t, err)

	instrs := []ProcessInstruction{
		NewInstruction("A", 4096, 1),
		NewInstruction("A", 4096, 2),
		NewInstruction("A", 4096, 3),
		NewInstruction("A", 4096, 4),
	}
	applyAll(t, e, instrs)

	st := e.State()
	require.EqualValues(t, 3, st.Metrics.PageHits)
	require.EqualValues(t, 1, st.Metrics.PageFaults)
	require.EqualValues(t, 8, st.Metrics.TotalTime)

	residentPtrs := map[uint32]bool{}
	for _, p := range st.MMU {
		if p.Resident {
			residentPtrs[p.ID.PtrID] = true
		}
	}
	require.Equal(t, map[uint32]bool{2: true, 3: true, 4: true}, residentPtrs)
}

// S2 (LRU vs MRU on `use`): after use(1) touches the oldest page, LRU
// evicts the now-second-oldest page while MRU evicts the just-used one.
func TestEngineScenarioS2LRUvsMRU(t *testing.T) {
	stream := []ProcessInstruction{
		NewInstruction("A", 4096, 1),
		NewInstruction("A", 4096, 2),
		NewInstruction("A", 4096, 3),
		UseInstruction(1),
		NewInstruction("A", 4096, 4),
	}

	lru, err := NewEngine(LRU, "s2", testConfig(3))
	require.NoError(t, err)
	applyAll(t, lru, stream)
	var lruEvicted bool
	for _, p := range lru.State().MMU {
		if p.ID.PtrID == 2 && !p.Resident {
			lruEvicted = true
		}
	}
	require.True(t, lruEvicted, "LRU should evict ptr 2")

	mru, err := NewEngine(MRU, "s2", testConfig(3))
	require.NoError(t, err)
	applyAll(t, mru, stream)
	var mruEvicted bool
	for _, p := range mru.State().MMU {
		if p.ID.PtrID == 1 && !p.Resident {
			mruEvicted = true
		}
	}
	require.True(t, mruEvicted, "MRU should evict ptr 1")
}

// S3 (SC): four single-page allocations fill four frames; use(1) and use(2)
// set their reference bits; the next fault sweeps past both (clearing their
// bits) and evicts the untouched page 3.
func TestEngineScenarioS3SecondChance(t *testing.T) {
	e, err := NewEngine(SC, "s3", testConfig(4))
	require.NoError(t, err)

	stream := []ProcessInstruction{
		NewInstruction("A", 4096, 1),
		NewInstruction("A", 4096, 2),
		NewInstruction("A", 4096, 3),
		NewInstruction("A", 4096, 4),
		UseInstruction(1),
		UseInstruction(2),
		NewInstruction("A", 4096, 5),
	}
	applyAll(t, e, stream)

	st := e.State()
	for _, p := range st.MMU {
		switch p.ID.PtrID {
		case 3:
			require.False(t, p.Resident, "page 3 should have been evicted")
		case 1, 2, 4, 5:
			require.True(t, p.Resident, "ptr %d should still be resident", p.ID.PtrID)
		}
	}
}

// OPT lookahead (grounded on S4): when a fault forces an eviction and the
// remaining stream only ever touches one of the occupied pages again, OPT
// evicts the other one regardless of recency.
func TestEngineScenarioS4OPTLookahead(t *testing.T) {
	e, err := NewEngine(OPT, "s4", testConfig(2))
	require.NoError(t, err)

	stream := []ProcessInstruction{
		NewInstruction("A", 4096, 1),
		NewInstruction("A", 4096, 2),
		NewInstruction("A", 4096, 3),
		UseInstruction(1),
	}
	applyAll(t, e, stream)

	st := e.State()
	p1, ok1 := st.MMU[LogicalPageID{PtrID: 1, Index: 0}]
	p2, ok2 := st.MMU[LogicalPageID{PtrID: 2, Index: 0}]
	require.True(t, ok1)
	require.True(t, ok2)
	require.True(t, p1.Resident, "ptr 1 is used again and must survive")
	require.False(t, p2.Resident, "ptr 2 has no future use and must be evicted")
}

// S5 (delete frees frame): deleting a resident pointer frees its frame for
// immediate reuse without a fault.
func TestEngineScenarioS5DeleteFreesFrame(t *testing.T) {
	e, err := NewEngine(FIFO, "s5", testConfig(3))
	require.NoError(t, err)

	stream := []ProcessInstruction{
		NewInstruction("A", 4096, 1),
		NewInstruction("A", 4096, 2),
		NewInstruction("A", 4096, 3),
		DeleteInstruction(2),
		NewInstruction("A", 4096, 4),
	}
	applyAll(t, e, stream)

	st := e.State()
	require.EqualValues(t, 0, st.Metrics.PageFaults)
	_, stillThere := st.MMU[LogicalPageID{PtrID: 2, Index: 0}]
	require.False(t, stillThere)
}

// S6 (kill cascade): two processes each allocate three two-page pointers;
// killing one process must remove every one of its logical pages, resident
// or swapped, and leave the other process untouched.
func TestEngineScenarioS6KillCascade(t *testing.T) {
	e, err := NewEngine(FIFO, "s6", testConfig(8))
	require.NoError(t, err)

	var stream []ProcessInstruction
	for ptr := uint32(1); ptr <= 3; ptr++ {
		stream = append(stream, NewInstruction("A", 8192, ptr))
	}
	for ptr := uint32(4); ptr <= 6; ptr++ {
		stream = append(stream, NewInstruction("B", 8192, ptr))
	}
	applyAll(t, e, stream)

	st := e.State()
	require.Equal(t, 2, st.Metrics.RunningProcesses)

	require.NoError(t, e.Apply(KillInstruction("A"), nil, len(stream)))

	st = e.State()
	for id, p := range st.MMU {
		require.NotEqual(t, "A", p.Pid, "MMU must contain no page owned by A, found %v", id)
	}
	require.NotContains(t, st.ActivePointers, uint32(1))
	require.NotContains(t, st.ActivePointers, uint32(2))
	require.NotContains(t, st.ActivePointers, uint32(3))
	require.Contains(t, st.ActivePointers, uint32(4))
	require.Equal(t, 1, st.Metrics.RunningProcesses)
}

func TestEngineUseOnUnknownPointerIsNoOp(t *testing.T) {
	e, err := NewEngine(FIFO, "unknown-ptr", testConfig(3))
	require.NoError(t, err)

	before := e.State().Metrics
	require.NoError(t, e.Apply(UseInstruction(999), nil, 0))
	require.Equal(t, before, e.State().Metrics)
}

func TestEngineDeleteIsIdempotent(t *testing.T) {
	e, err := NewEngine(FIFO, "idempotent-delete", testConfig(3))
	require.NoError(t, err)
	require.NoError(t, e.Apply(NewInstruction("A", 4096, 1), nil, 1))
	require.NoError(t, e.Apply(DeleteInstruction(1), nil, 2))

	after := e.State().Metrics
	require.NoError(t, e.Apply(DeleteInstruction(1), nil, 3))
	require.Equal(t, after, e.State().Metrics)
}

func TestEngineMultiPageNewFragmentation(t *testing.T) {
	e, err := NewEngine(FIFO, "fragmentation", testConfig(4))
	require.NoError(t, err)
	// 9000 bytes = 3 pages: 4096 + 4096 + 808, the last carrying
	// 4096-808=3288 bytes of internal fragmentation.
	require.NoError(t, e.Apply(NewInstruction("A", 9000, 1), nil, 1))

	st := e.State()
	require.InDelta(t, 3288.0/1024.0, st.Metrics.InternalFragmentationKB, 1e-9)
}
