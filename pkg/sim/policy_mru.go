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
	RegisterPolicy(MRU, func(seed string) Policy { return &mruPolicy{} })
}

// mruPolicy evicts the occupied page with the largest last-access
// timestamp, ties broken by smallest frame id.
type mruPolicy struct{}

func (p *mruPolicy) Name() AlgorithmName { return MRU }

func (p *mruPolicy) Decide(ctx *Context) (Decision, error) {
	victim := -1
	var newest int64
	for i, f := range ctx.Frames {
		if !f.Occupied {
			continue
		}
		if victim == -1 || f.LastAccessTime > newest {
			victim = i
			newest = f.LastAccessTime
		}
	}
	if victim == -1 {
		return Decision{}, ErrEmptyRAM
	}
	return Decision{VictimFrameID: victim, VictimPageID: ctx.Frames[victim].PageID}, nil
}
