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
	"github.com/pkg/errors"

	"github.com/pagesim/pagesim/pkg/log"
)

// Engine applies one ProcessInstruction at a time to a single policy's
// AlgorithmSimulationState. Two Engine instances (OPT and a chosen policy)
// are what a Driver runs in lock-step over the same instruction stream.
type Engine struct {
	state  *AlgorithmSimulationState
	policy Policy
	log    log.Logger
}

// NewEngine builds an empty engine for the named policy.
func NewEngine(name AlgorithmName, seed string, cfg EngineConfig) (*Engine, error) {
	policy, err := NewPolicy(name, seed)
	if err != nil {
		return nil, errors.Wrapf(err, "engine: create policy %q", name)
	}
	st := newState(cfg)
	st.Algorithm = name
	return &Engine{state: st, policy: policy, log: log.Get("sim/" + string(name))}, nil
}

// State returns the engine's live, mutable state. Callers outside this
// package should prefer Driver.Snapshot, which returns an isolated copy.
func (e *Engine) State() *AlgorithmSimulationState {
	return e.state
}

// Apply advances the engine by one instruction. future is the suffix of
// the full instruction stream starting at instr itself (so a `use` being
// applied counts as the next use of its pointer); futureIndex is instr's
// absolute index in that stream. Only OPT's policy ever reads
// future/futureIndex.
func (e *Engine) Apply(instr ProcessInstruction, future []ProcessInstruction, futureIndex int) error {
	var err error
	switch instr.Kind {
	case KindNew:
		err = e.applyNew(instr, future, futureIndex)
	case KindUse:
		err = e.applyUse(instr, future, futureIndex)
	case KindDelete:
		err = e.applyDelete(instr)
	case KindKill:
		err = e.applyKill(instr)
	default:
		err = errors.Errorf("unknown instruction kind %v", instr.Kind)
	}
	if err != nil {
		return err
	}

	e.state.recomputeMetrics()
	if err := e.state.checkInvariants(); err != nil {
		return err
	}
	return nil
}

func (e *Engine) applyNew(instr ProcessInstruction, future []ProcessInstruction, futureIndex int) error {
	numPages := (instr.SizeBytes + e.state.cfg.PageSize - 1) / e.state.cfg.PageSize
	if numPages < 1 {
		numPages = 1
	}

	ap, ok := e.state.ActivePointers[instr.PtrID]
	if !ok {
		ap = &ActivePointer{Pid: instr.Pid}
		e.state.ActivePointers[instr.PtrID] = ap
	}

	for idx := 0; idx < numPages; idx++ {
		contentSize := e.state.cfg.PageSize
		if idx == numPages-1 {
			if rem := instr.SizeBytes % e.state.cfg.PageSize; rem != 0 {
				contentSize = rem
			}
		}

		id := LogicalPageID{PtrID: instr.PtrID, Index: idx}
		page := &LogicalPage{ID: id, Pid: instr.Pid, ContentSize: contentSize}
		e.state.MMU[id] = page

		ts := e.state.Metrics.TotalTime
		page.LoadTime = ts
		page.LastAccessTime = ts

		if frameID, ok := e.findFreeFrame(); ok {
			e.installResident(page, frameID, false)
			e.state.Metrics.PageHits++
			e.state.Metrics.TotalTime += e.state.cfg.HitTime
		} else {
			decision, err := e.evictVictim(future, futureIndex)
			if err != nil {
				return err
			}
			e.installResident(page, decision.VictimFrameID, false)
			e.state.Metrics.PageFaults++
			e.state.Metrics.TotalTime += e.state.cfg.FaultTime
			e.state.Metrics.ThrashingTime += e.state.cfg.FaultTime
		}

		ap.Pages = append(ap.Pages, id)
	}
	return nil
}

func (e *Engine) applyUse(instr ProcessInstruction, future []ProcessInstruction, futureIndex int) error {
	ap, ok := e.state.ActivePointers[instr.PtrID]
	if !ok {
		e.log.Warn("use(%d): unknown or dead pointer, skipping", instr.PtrID)
		return nil
	}

	for _, id := range ap.Pages {
		page := e.state.MMU[id]
		ts := e.state.Metrics.TotalTime
		page.LastAccessTime = ts
		page.Ref = true

		if page.Resident {
			e.state.Frames[page.FrameID].LastAccessTime = ts
			e.state.Frames[page.FrameID].Ref = true
			e.state.Metrics.PageHits++
			e.state.Metrics.TotalTime += e.state.cfg.HitTime
			continue
		}

		e.state.Metrics.PageFaults++
		e.state.Metrics.TotalTime += e.state.cfg.FaultTime
		e.state.Metrics.ThrashingTime += e.state.cfg.FaultTime

		page.LoadTime = ts
		if frameID, ok := e.findFreeFrame(); ok {
			e.installResident(page, frameID, true)
			continue
		}
		decision, err := e.evictVictim(future, futureIndex)
		if err != nil {
			return err
		}
		e.installResident(page, decision.VictimFrameID, true)
	}
	return nil
}

func (e *Engine) applyDelete(instr ProcessInstruction) error {
	ap, ok := e.state.ActivePointers[instr.PtrID]
	if !ok {
		e.log.Warn("delete(%d): unknown or already-deleted pointer, skipping", instr.PtrID)
		return nil
	}
	e.freePointer(ap)
	delete(e.state.ActivePointers, instr.PtrID)
	return nil
}

func (e *Engine) applyKill(instr ProcessInstruction) error {
	for ptrID, ap := range e.state.ActivePointers {
		if ap.Pid != instr.Pid {
			continue
		}
		e.freePointer(ap)
		delete(e.state.ActivePointers, ptrID)
	}
	return nil
}

func (e *Engine) freePointer(ap *ActivePointer) {
	for _, id := range ap.Pages {
		page := e.state.MMU[id]
		if page.Resident {
			e.state.Frames[page.FrameID] = PageFrame{}
		}
		delete(e.state.MMU, id)
	}
}

func (e *Engine) findFreeFrame() (int, bool) {
	for i, f := range e.state.Frames {
		if !f.Occupied {
			return i, true
		}
	}
	return -1, false
}

// evictVictim asks the engine's policy for a victim, evicts it (swapping
// the displaced page out to a symbolic disk address), and reports the
// decision so the caller can install the incoming page in the freed frame.
func (e *Engine) evictVictim(future []ProcessInstruction, futureIndex int) (Decision, error) {
	ctx := e.buildContext(future, futureIndex)
	decision, err := e.policy.Decide(ctx)
	if err != nil {
		return Decision{}, errors.Wrapf(err, "policy %q decide", e.policy.Name())
	}

	victim, ok := e.state.MMU[decision.VictimPageID]
	if !ok {
		return Decision{}, invariantViolation("policy %q chose unknown victim page %v", e.policy.Name(), decision.VictimPageID)
	}
	victim.Resident = false
	victim.FrameID = -1
	e.state.NextDiskAddr++
	victim.DiskAddr = e.state.NextDiskAddr
	e.state.Frames[decision.VictimFrameID] = PageFrame{}

	for _, id := range decision.ClearRef {
		if p, ok := e.state.MMU[id]; ok {
			p.Ref = false
		}
	}
	e.state.Hand = decision.NextHand

	return decision, nil
}

func (e *Engine) installResident(page *LogicalPage, frameID int, ref bool) {
	page.Resident = true
	page.FrameID = frameID
	page.DiskAddr = 0

	e.state.Frames[frameID] = PageFrame{
		Occupied:       true,
		PageID:         page.ID,
		Pid:            page.Pid,
		LoadTime:       page.LoadTime,
		LastAccessTime: page.LastAccessTime,
		Ref:            ref,
	}
}

func (e *Engine) buildContext(future []ProcessInstruction, futureIndex int) *Context {
	ctx := &Context{
		Frames:      e.state.Frames,
		MMU:         e.state.MMU,
		Future:      future,
		FutureIndex: futureIndex,
		Hand:        e.state.Hand,
	}
	if owner, ok := e.policy.(rngOwner); ok {
		ctx.RNG = owner.rng()
	}
	return ctx
}
