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

import "math"

func init() {
	RegisterPolicy(OPT, func(seed string) Policy { return &optPolicy{} })
}

// optPolicy is the clairvoyant policy: it evicts the occupied page whose
// ptr_id has the furthest-away next `use` in the future instruction suffix,
// or one with no future use at all. Ties are broken by smallest frame id.
type optPolicy struct{}

func (p *optPolicy) Name() AlgorithmName { return OPT }

func (p *optPolicy) Decide(ctx *Context) (Decision, error) {
	victim := -1
	bestDist := -1
	for i, f := range ctx.Frames {
		if !f.Occupied {
			continue
		}
		page := ctx.MMU[f.PageID]
		dist := nextUseDistance(page.ID.PtrID, ctx.Future)
		if victim == -1 || dist > bestDist {
			victim = i
			bestDist = dist
		}
	}
	if victim == -1 {
		return Decision{}, ErrEmptyRAM
	}
	return Decision{VictimFrameID: victim, VictimPageID: ctx.Frames[victim].PageID}, nil
}

// nextUseDistance returns the index, within future, of the first `use`
// instruction touching ptrID, or math.MaxInt32 if there is none. `delete`
// and `kill` never count as a use; neither does `new`.
func nextUseDistance(ptrID uint32, future []ProcessInstruction) int {
	for idx, instr := range future {
		if instr.Kind == KindUse && instr.PtrID == ptrID {
			return idx
		}
	}
	return math.MaxInt32
}
