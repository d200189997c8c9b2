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
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var instructionLine = regexp.MustCompile(`(?i)^\s*(new\(\s*(\w+)\s*,\s*(\d+)\s*\)|use\(\s*(\d+)\s*\)|delete\(\s*(\d+)\s*\)|kill\(\s*(\w+)\s*\))\s*$`)

// ParseInstructions reads a textual workload per spec §6, reassigning
// ptr_ids to `new` lines in the order they appear (counter starts at 1).
// Unrecognized or blank lines are skipped; unrecognized non-blank lines are
// reported as ParseWarnings but do not stop parsing. It returns the parsed
// instructions and the next unused ptr_id.
func ParseInstructions(r io.Reader) ([]ProcessInstruction, uint32, []ParseWarning) {
	var (
		instrs   []ProcessInstruction
		warnings []ParseWarning
		nextPtr  uint32 = 1
	)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		m := instructionLine.FindStringSubmatch(line)
		if m == nil {
			warnings = append(warnings, ParseWarning{Line: lineNo, Text: line})
			continue
		}

		switch {
		case m[2] != "":
			size, _ := strconv.Atoi(m[3])
			instrs = append(instrs, NewInstruction(m[2], size, nextPtr))
			nextPtr++
		case m[4] != "":
			ptr, _ := strconv.ParseUint(m[4], 10, 32)
			instrs = append(instrs, UseInstruction(uint32(ptr)))
		case m[5] != "":
			ptr, _ := strconv.ParseUint(m[5], 10, 32)
			instrs = append(instrs, DeleteInstruction(uint32(ptr)))
		case m[6] != "":
			instrs = append(instrs, KillInstruction(m[6]))
		}
	}

	return instrs, nextPtr, warnings
}

// SerializeInstructions is the inverse of ParseInstructions: it writes one
// line per instruction, in order. ptr_id is never emitted on `new` lines,
// since it is implicit in ordering.
func SerializeInstructions(w io.Writer, instrs []ProcessInstruction) error {
	bw := bufio.NewWriter(w)
	for _, instr := range instrs {
		var line string
		switch instr.Kind {
		case KindNew:
			line = fmt.Sprintf("new(%s,%d)", instr.Pid, instr.SizeBytes)
		case KindUse:
			line = fmt.Sprintf("use(%d)", instr.PtrID)
		case KindDelete:
			line = fmt.Sprintf("delete(%d)", instr.PtrID)
		case KindKill:
			line = fmt.Sprintf("kill(%s)", instr.Pid)
		default:
			continue
		}
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
