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

type genProcess struct {
	pid    string
	ptrs   []uint32
	killed bool
}

// GenerateWorkload synthesizes a workload of processCount processes and
// opCount instructions, per spec §4.A. It returns the instruction list and
// the next unused ptr_id, exactly as ParseInstructions would for the
// equivalent textual form.
func GenerateWorkload(processCount, opCount int, seed string) ([]ProcessInstruction, uint32) {
	rng := NewRNG(seed + "|generate")

	procs := make([]*genProcess, processCount)
	for i := range procs {
		procs[i] = &genProcess{pid: fmt.Sprintf("P%d", i+1)}
	}

	var nextPtr uint32 = 1
	var instrs []ProcessInstruction

	for len(instrs) < opCount {
		alive := livingProcesses(procs)
		if len(alive) == 0 {
			break
		}
		p := alive[rng.Intn(len(alive))]

		if len(p.ptrs) == 0 {
			instrs = append(instrs, genNew(p, rng, &nextPtr))
			continue
		}

		u := rng.Float64()
		switch {
		case u < 0.1:
			if len(instrs) < int(killDowngradeFraction*float64(opCount)) {
				instrs = append(instrs, genNew(p, rng, &nextPtr))
			} else {
				instrs = append(instrs, genKill(p))
			}
		case u < 0.5:
			instrs = append(instrs, genNew(p, rng, &nextPtr))
		case u < 0.8:
			ptr := p.ptrs[rng.Intn(len(p.ptrs))]
			instrs = append(instrs, UseInstruction(ptr))
		default:
			idx := rng.Intn(len(p.ptrs))
			ptr := p.ptrs[idx]
			p.ptrs = append(p.ptrs[:idx], p.ptrs[idx+1:]...)
			instrs = append(instrs, DeleteInstruction(ptr))
		}
	}

	for _, p := range procs {
		if !p.killed {
			instrs = append(instrs, genKill(p))
		}
	}

	if len(instrs) > opCount {
		instrs = instrs[:opCount]
	}

	return instrs, nextPtr
}

func livingProcesses(procs []*genProcess) []*genProcess {
	alive := make([]*genProcess, 0, len(procs))
	for _, p := range procs {
		if !p.killed {
			alive = append(alive, p)
		}
	}
	return alive
}

func genNew(p *genProcess, rng *RNG, nextPtr *uint32) ProcessInstruction {
	size := workloadMinSizeBytes + rng.Intn(workloadMaxSizeBytes-workloadMinSizeBytes+1)
	ptr := *nextPtr
	*nextPtr++
	p.ptrs = append(p.ptrs, ptr)
	return NewInstruction(p.pid, size, ptr)
}

func genKill(p *genProcess) ProcessInstruction {
	p.killed = true
	p.ptrs = nil
	return KillInstruction(p.pid)
}
