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
	RegisterPolicy(SC, func(seed string) Policy { return &scPolicy{} })
}

// scPolicy is the clock-hand Second Chance variant of FIFO: starting at the
// current hand, it skips (and schedules for clearing) every occupied page
// with a set reference bit, and evicts the first one it finds clear. If the
// hand sweeps every occupied frame without finding one, it falls back to
// pure FIFO and evicts the page it started on.
type scPolicy struct{}

func (p *scPolicy) Name() AlgorithmName { return SC }

func (p *scPolicy) Decide(ctx *Context) (Decision, error) {
	n := len(ctx.Frames)
	occupied := occupiedFrames(ctx.Frames)
	if len(occupied) == 0 {
		return Decision{}, ErrEmptyRAM
	}

	start := ((ctx.Hand % n) + n) % n
	hand := start
	swept := make([]LogicalPageID, 0, len(occupied))

	for i := 0; i < n; i++ {
		f := ctx.Frames[hand]
		if f.Occupied {
			page := ctx.MMU[f.PageID]
			if !page.Ref {
				return Decision{
					VictimFrameID: hand,
					VictimPageID:  f.PageID,
					NextHand:      (hand + 1) % n,
					ClearRef:      append([]LogicalPageID(nil), swept...),
				}, nil
			}
			swept = append(swept, f.PageID)
		}
		hand = (hand + 1) % n
	}

	// Full sweep, every occupied page had its reference bit set: fall
	// back to the page originally under the hand; everything else
	// visited along the way gets its reference bit cleared.
	return Decision{
		VictimFrameID: start,
		VictimPageID:  swept[0],
		NextHand:      (start + 1) % n,
		ClearRef:      swept[1:],
	}, nil
}
