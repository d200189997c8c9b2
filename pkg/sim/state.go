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

// PageFrame is one physical RAM frame. Its zero value is an unoccupied
// frame.
type PageFrame struct {
	Occupied       bool
	PageID         LogicalPageID
	Pid            string
	LoadTime       int64
	LastAccessTime int64
	Ref            bool
}

// LogicalPage is one 4 KB slice of an allocation. While alive it is either
// Resident (FrameID valid) or swapped out (DiskAddr valid); never both.
type LogicalPage struct {
	ID             LogicalPageID
	Pid            string
	Resident       bool
	FrameID        int
	DiskAddr       uint64
	LoadTime       int64
	LastAccessTime int64
	Ref            bool
	ContentSize    int
}

// ActivePointer is the authoritative record of one live allocation: its
// owning process and the logical pages it comprises, in allocation order.
type ActivePointer struct {
	Pid   string
	Pages []LogicalPageID
}

// AlgorithmMetrics bundles the counters and derived figures a policy
// comparison is judged on.
type AlgorithmMetrics struct {
	PageFaults              uint64
	PageHits                uint64
	TotalTime               int64
	ThrashingTime           int64
	RAMUsedKB               int
	VRAMUsedKB              int
	InternalFragmentationKB float64
	RunningProcesses        int
	RAMUsedPercent          float64
	VRAMUsedPercent         float64
}

// EngineConfig holds the simulation constants a session runs under. The
// zero value is not usable; use DefaultEngineConfig.
type EngineConfig struct {
	PageSize  int
	RAMFrames int
	HitTime   int64
	FaultTime int64
}

// DefaultEngineConfig returns the textbook constants from the spec.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		PageSize:  PageSizeBytes,
		RAMFrames: TotalRAMFrames,
		HitTime:   HitTime,
		FaultTime: FaultTime,
	}
}

// AlgorithmSimulationState is everything one policy's engine owns: the RAM
// frames, the MMU (every live logical page), the active-pointers table, the
// running metrics, and the Second Chance hand position.
type AlgorithmSimulationState struct {
	Algorithm      AlgorithmName
	Frames         []PageFrame
	MMU            map[LogicalPageID]*LogicalPage
	ActivePointers map[uint32]*ActivePointer
	Metrics        AlgorithmMetrics
	Hand           int
	NextDiskAddr   uint64

	cfg EngineConfig
}

func newState(cfg EngineConfig) *AlgorithmSimulationState {
	return &AlgorithmSimulationState{
		Frames:         make([]PageFrame, cfg.RAMFrames),
		MMU:            make(map[LogicalPageID]*LogicalPage),
		ActivePointers: make(map[uint32]*ActivePointer),
		cfg:            cfg,
	}
}

// clone deep-copies the state. Used by Driver snapshots so that callers can
// never mutate engine-owned state through a returned view; this is a plain
// field-by-field copy of owned containers, never a serialize-then-parse
// round trip.
func (s *AlgorithmSimulationState) clone() *AlgorithmSimulationState {
	cp := &AlgorithmSimulationState{
		Algorithm:      s.Algorithm,
		Frames:         append([]PageFrame(nil), s.Frames...),
		MMU:            make(map[LogicalPageID]*LogicalPage, len(s.MMU)),
		ActivePointers: make(map[uint32]*ActivePointer, len(s.ActivePointers)),
		Metrics:        s.Metrics,
		Hand:           s.Hand,
		NextDiskAddr:   s.NextDiskAddr,
		cfg:            s.cfg,
	}
	for id, p := range s.MMU {
		cpPage := *p
		cp.MMU[id] = &cpPage
	}
	for ptrID, ap := range s.ActivePointers {
		cp.ActivePointers[ptrID] = &ActivePointer{
			Pid:   ap.Pid,
			Pages: append([]LogicalPageID(nil), ap.Pages...),
		}
	}
	return cp
}

// recomputeMetrics derives every metric in AlgorithmMetrics other than the
// incrementally-accumulated PageFaults/PageHits/TotalTime/ThrashingTime from
// the authoritative MMU and active-pointers state, per the invariants in
// the spec: these are never maintained incrementally.
func (s *AlgorithmSimulationState) recomputeMetrics() {
	resident, nonResident := 0, 0
	fragBytes := 0
	for _, p := range s.MMU {
		if p.Resident {
			resident++
			fragBytes += s.cfg.PageSize - p.ContentSize
		} else {
			nonResident++
		}
	}

	pids := make(map[string]struct{}, len(s.ActivePointers))
	for _, ap := range s.ActivePointers {
		pids[ap.Pid] = struct{}{}
	}

	kb := s.cfg.PageSize / 1024
	s.Metrics.RAMUsedKB = resident * kb
	s.Metrics.VRAMUsedKB = nonResident * kb
	s.Metrics.InternalFragmentationKB = float64(fragBytes) / 1024.0
	s.Metrics.RunningProcesses = len(pids)

	totalRAMKB := s.cfg.RAMFrames * kb
	if totalRAMKB > 0 {
		s.Metrics.RAMUsedPercent = 100 * float64(s.Metrics.RAMUsedKB) / float64(totalRAMKB)
		s.Metrics.VRAMUsedPercent = 100 * float64(s.Metrics.VRAMUsedKB) / float64(totalRAMKB)
	}
}

// checkInvariants verifies the bidirectional frame/page mapping and the
// timing identities from the spec. Any violation is an engine bug.
func (s *AlgorithmSimulationState) checkInvariants() error {
	for id, p := range s.MMU {
		if id != p.ID {
			return invariantViolation("MMU key %v does not match page id %v", id, p.ID)
		}
		if p.Resident {
			if p.FrameID < 0 || p.FrameID >= len(s.Frames) {
				return invariantViolation("resident page %v has out-of-range frame id %d", id, p.FrameID)
			}
			f := s.Frames[p.FrameID]
			if !f.Occupied || f.PageID != id {
				return invariantViolation("resident page %v not mirrored by frame %d", id, p.FrameID)
			}
		}
	}
	for i, f := range s.Frames {
		if !f.Occupied {
			continue
		}
		p, ok := s.MMU[f.PageID]
		if !ok || !p.Resident || p.FrameID != i {
			return invariantViolation("occupied frame %d not mirrored by its page %v", i, f.PageID)
		}
	}
	for ptrID, ap := range s.ActivePointers {
		if len(ap.Pages) == 0 {
			return invariantViolation("active pointer %d has no logical pages", ptrID)
		}
	}
	if s.Metrics.ThrashingTime > s.Metrics.TotalTime {
		return invariantViolation("thrashing_time %d exceeds total_time %d", s.Metrics.ThrashingTime, s.Metrics.TotalTime)
	}
	wantTotal := s.cfg.HitTime*int64(s.Metrics.PageHits) + s.cfg.FaultTime*int64(s.Metrics.PageFaults)
	if s.Metrics.TotalTime != wantTotal {
		return invariantViolation("total_time %d does not equal %d hits * %d + %d faults * %d",
			s.Metrics.TotalTime, s.Metrics.PageHits, s.cfg.HitTime, s.Metrics.PageFaults, s.cfg.FaultTime)
	}
	wantThrash := s.cfg.FaultTime * int64(s.Metrics.PageFaults)
	if s.Metrics.ThrashingTime != wantThrash {
		return invariantViolation("thrashing_time %d does not equal %d faults * %d",
			s.Metrics.ThrashingTime, s.Metrics.PageFaults, s.cfg.FaultTime)
	}
	return nil
}
