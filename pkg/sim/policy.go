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

// AlgorithmName identifies one of the six replacement policies.
type AlgorithmName string

const (
	// FIFO evicts the occupied frame loaded longest ago.
	FIFO AlgorithmName = "FIFO"
	// SC is the Second Chance clock-hand variant of FIFO.
	SC AlgorithmName = "SC"
	// MRU evicts the most recently accessed occupied page.
	MRU AlgorithmName = "MRU"
	// LRU evicts the least recently accessed occupied page.
	LRU AlgorithmName = "LRU"
	// RND evicts a uniformly random occupied frame.
	RND AlgorithmName = "RND"
	// OPT is the clairvoyant policy; it always runs as the comparison
	// baseline in a Driver session.
	OPT AlgorithmName = "OPT"
)

// Context is the read-only view a policy's Decide is given when it must
// pick a victim frame. Only OPT reads Future/FutureIndex; only SC reads
// Hand; only RND reads RNG. The rest is common to every policy.
type Context struct {
	// Frames is the full RAM frame array; Decide never mutates it.
	Frames []PageFrame
	// MMU maps every live logical page id to its record.
	MMU map[LogicalPageID]*LogicalPage
	// Future is the instruction suffix starting at FutureIndex, i.e. the
	// instruction being applied followed by those not applied yet. Used
	// only by OPT.
	Future []ProcessInstruction
	// FutureIndex is the absolute stream index of Future[0].
	FutureIndex int
	// Hand is the current Second Chance clock-hand position. Used only
	// by SC.
	Hand int
	// RNG is the invoking policy's own seeded generator. Used only by
	// RND.
	RNG *RNG
}

// Decision is what a policy returns after picking a victim.
type Decision struct {
	// VictimFrameID is the RAM frame to evict and reuse.
	VictimFrameID int
	// VictimPageID is the logical page currently occupying that frame.
	VictimPageID LogicalPageID
	// NextHand is the Second Chance hand position after this decision.
	// Ignored by every policy but SC.
	NextHand int
	// ClearRef lists logical pages whose reference bit must be cleared
	// as part of committing this decision. Only SC ever populates it.
	ClearRef []LogicalPageID
}

// Policy picks a victim frame when RAM is full. Implementations must be
// pure functions of their Context (plus their own RNG state for RND); they
// never mutate Frames or MMU themselves.
type Policy interface {
	Name() AlgorithmName
	Decide(ctx *Context) (Decision, error)
}

// PolicyCreator builds a fresh Policy instance for the given engine seed.
type PolicyCreator func(seed string) Policy

var policyRegistry = map[AlgorithmName]PolicyCreator{}

// RegisterPolicy adds a policy creator to the package-level registry. It is
// meant to be called from the init() of each policy_*.go file.
func RegisterPolicy(name AlgorithmName, creator PolicyCreator) {
	policyRegistry[name] = creator
}

// NewPolicy constructs the named policy, deriving any internal RNG from
// seed and name so that Random's choices are reproducible and independent
// of workload generation.
func NewPolicy(name AlgorithmName, seed string) (Policy, error) {
	creator, ok := policyRegistry[name]
	if !ok {
		return nil, errors.Errorf("invalid policy name %q", name)
	}
	return creator(seed), nil
}

// ListPolicies returns the names of every registered policy, sorted.
func ListPolicies() []AlgorithmName {
	names := make([]AlgorithmName, 0, len(policyRegistry))
	for name := range policyRegistry {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// rngOwner is implemented by policies that own a private RNG (currently
// only RND); the engine uses it to populate Context.RNG for introspection
// and testing.
type rngOwner interface {
	rng() *RNG
}

func occupiedFrames(frames []PageFrame) []int {
	occupied := make([]int, 0, len(frames))
	for i, f := range frames {
		if f.Occupied {
			occupied = append(occupied, i)
		}
	}
	return occupied
}
