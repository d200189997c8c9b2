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

import "fmt"

// InstructionKind identifies one of the four process-memory operations.
type InstructionKind int

const (
	// KindNew allocates size_bytes for pid, producing one or more pages.
	KindNew InstructionKind = iota
	// KindUse dereferences every page of ptr_id.
	KindUse
	// KindDelete frees ptr_id and all of its pages.
	KindDelete
	// KindKill frees every live ptr_id owned by pid.
	KindKill
)

func (k InstructionKind) String() string {
	switch k {
	case KindNew:
		return "new"
	case KindUse:
		return "use"
	case KindDelete:
		return "delete"
	case KindKill:
		return "kill"
	default:
		return "unknown"
	}
}

// ProcessInstruction is one line of a workload: a tagged variant over the
// four process-memory operations. Only the fields relevant to Kind are
// meaningful; the zero value of the others is ignored.
type ProcessInstruction struct {
	Kind      InstructionKind
	Pid       string // New, Kill
	SizeBytes int    // New
	PtrID     uint32 // New, Use, Delete
}

// NewInstruction builds a `new(pid, size_bytes)` instruction with an
// already-assigned ptr_id.
func NewInstruction(pid string, sizeBytes int, ptrID uint32) ProcessInstruction {
	return ProcessInstruction{Kind: KindNew, Pid: pid, SizeBytes: sizeBytes, PtrID: ptrID}
}

// UseInstruction builds a `use(ptr_id)` instruction.
func UseInstruction(ptrID uint32) ProcessInstruction {
	return ProcessInstruction{Kind: KindUse, PtrID: ptrID}
}

// DeleteInstruction builds a `delete(ptr_id)` instruction.
func DeleteInstruction(ptrID uint32) ProcessInstruction {
	return ProcessInstruction{Kind: KindDelete, PtrID: ptrID}
}

// KillInstruction builds a `kill(pid)` instruction.
func KillInstruction(pid string) ProcessInstruction {
	return ProcessInstruction{Kind: KindKill, Pid: pid}
}

func (i ProcessInstruction) String() string {
	switch i.Kind {
	case KindNew:
		return fmt.Sprintf("new(%s,%d)", i.Pid, i.SizeBytes)
	case KindUse:
		return fmt.Sprintf("use(%d)", i.PtrID)
	case KindDelete:
		return fmt.Sprintf("delete(%d)", i.PtrID)
	case KindKill:
		return fmt.Sprintf("kill(%s)", i.Pid)
	default:
		return "invalid-instruction"
	}
}

// LogicalPageID stably identifies one logical page: the ptr_id of the
// allocation it belongs to, and its index within that allocation.
type LogicalPageID struct {
	PtrID uint32
	Index int
}

func (id LogicalPageID) String() string {
	return fmt.Sprintf("ptr(%d)[%d]", id.PtrID, id.Index)
}
