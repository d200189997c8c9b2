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
	"sort"

	"github.com/pkg/errors"
)

// StepOutcome reports what happened after one Driver.Step call.
type StepOutcome struct {
	ReachedEnd bool
}

// StateView is a read-only snapshot of one engine's state, safe for a
// hosting front-end to hold onto; mutating an Engine afterwards never
// changes a StateView already returned.
type StateView struct {
	Algorithm AlgorithmName
	Frames    []PageFrame
	Pages     []LogicalPage
	Metrics   AlgorithmMetrics
}

// Driver runs the OPT engine and a chosen policy's engine in lock-step over
// one instruction stream, per spec §4.E.
type Driver struct {
	seed        string
	algorithm   AlgorithmName
	cfg         EngineConfig
	instrs      []ProcessInstruction
	nextPtrID   uint32
	index       int
	opt, chosen *Engine
}

// NewSession constructs a Driver. instructions is shared read-only between
// both engines; the driver never mutates it. initialNextPtrID is stored on
// the Driver but not otherwise used, Reset included: both engines start with
// an empty active-pointers table regardless, since ptr_id bookkeeping is
// carried in the instructions themselves.
func NewSession(seed string, algorithm AlgorithmName, instructions []ProcessInstruction, initialNextPtrID uint32, cfg EngineConfig) (*Driver, error) {
	d := &Driver{
		seed:      seed,
		algorithm: algorithm,
		cfg:       cfg,
		instrs:    instructions,
		nextPtrID: initialNextPtrID,
	}
	if err := d.Reset(); err != nil {
		return nil, err
	}
	return d, nil
}

// Reset reconstructs both engines from the original seed, algorithm choice,
// and instruction stream, per spec §4.E.
func (d *Driver) Reset() error {
	opt, err := NewEngine(OPT, d.seed, d.cfg)
	if err != nil {
		return errors.Wrap(err, "driver: reset OPT engine")
	}
	chosen, err := NewEngine(d.algorithm, d.seed, d.cfg)
	if err != nil {
		return errors.Wrap(err, "driver: reset chosen engine")
	}
	d.opt = opt
	d.chosen = chosen
	d.index = 0
	return nil
}

// Step applies the next instruction to both engines and advances the
// driver's position. Calling Step after the stream is exhausted is a no-op
// that reports ReachedEnd.
func (d *Driver) Step() (StepOutcome, error) {
	if d.index >= len(d.instrs) {
		return StepOutcome{ReachedEnd: true}, nil
	}

	instr := d.instrs[d.index]
	future := d.instrs[d.index:]
	futureIndex := d.index

	if err := d.opt.Apply(instr, future, futureIndex); err != nil {
		return StepOutcome{}, errors.Wrapf(err, "driver: OPT engine step %d", d.index)
	}
	if err := d.chosen.Apply(instr, future, futureIndex); err != nil {
		return StepOutcome{}, errors.Wrapf(err, "driver: %s engine step %d", d.algorithm, d.index)
	}

	d.index++
	return StepOutcome{ReachedEnd: d.index >= len(d.instrs)}, nil
}

// Run steps the driver to completion, stopping early on the first error.
func (d *Driver) Run() error {
	for {
		outcome, err := d.Step()
		if err != nil {
			return err
		}
		if outcome.ReachedEnd {
			return nil
		}
	}
}

// Index returns the number of instructions applied so far.
func (d *Driver) Index() int { return d.index }

// Len returns the total length of the instruction stream.
func (d *Driver) Len() int { return len(d.instrs) }

// Snapshot returns independent, read-only views of both engines' current
// state, per spec §4.E / §6.
func (d *Driver) Snapshot() (opt, chosen StateView) {
	return snapshot(d.opt), snapshot(d.chosen)
}

func snapshot(e *Engine) StateView {
	st := e.State().clone()

	pages := make([]LogicalPage, 0, len(st.MMU))
	for _, p := range st.MMU {
		pages = append(pages, *p)
	}
	sort.Slice(pages, func(i, j int) bool {
		if pages[i].ID.PtrID != pages[j].ID.PtrID {
			return pages[i].ID.PtrID < pages[j].ID.PtrID
		}
		return pages[i].ID.Index < pages[j].ID.Index
	})

	return StateView{
		Algorithm: st.Algorithm,
		Frames:    st.Frames,
		Pages:     pages,
		Metrics:   st.Metrics,
	}
}
