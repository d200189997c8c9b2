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

func init() {
	RegisterPolicy(RND, func(seed string) Policy {
		return &rndPolicy{r: NewRNG(seed + "|" + string(RND))}
	})
}

// rndPolicy evicts a uniformly random occupied frame, drawn from a PRNG
// seeded independently of workload generation.
type rndPolicy struct {
	r *RNG
}

func (p *rndPolicy) Name() AlgorithmName { return RND }

func (p *rndPolicy) rng() *RNG { return p.r }

func (p *rndPolicy) Decide(ctx *Context) (Decision, error) {
	occupied := occupiedFrames(ctx.Frames)
	if len(occupied) == 0 {
		return Decision{}, ErrEmptyRAM
	}
	victim := occupied[p.r.Intn(len(occupied))]
	return Decision{VictimFrameID: victim, VictimPageID: ctx.Frames[victim].PageID}, nil
}
