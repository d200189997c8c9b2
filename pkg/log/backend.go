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

package log

import (
	"fmt"
	"os"
)

// Backend is an entity that can emit already-formatted log messages.
type Backend interface {
	Name() string
	Enabled(Level) bool
	Debug(message string)
	Info(message string)
	Warn(message string)
	Error(message string)
}

// fmtBackend is the default Backend, printing to stderr with a severity tag.
type fmtBackend struct {
	level Level
}

var _ Backend = &fmtBackend{}

func (f *fmtBackend) Name() string { return "fmt" }

func (f *fmtBackend) Enabled(l Level) bool { return l >= f.level }

func (f *fmtBackend) Debug(message string) { fmt.Fprintln(os.Stderr, "D: "+message) }
func (f *fmtBackend) Info(message string)  { fmt.Fprintln(os.Stderr, "I: "+message) }
func (f *fmtBackend) Warn(message string)  { fmt.Fprintln(os.Stderr, "W: "+message) }
func (f *fmtBackend) Error(message string) { fmt.Fprintln(os.Stderr, "E: "+message) }

// MemoryBackend is a Backend that buffers emitted lines in memory, for use
// in tests that assert on what got logged instead of writing to stderr.
type MemoryBackend struct {
	Lines []string
}

var _ Backend = &MemoryBackend{}

// NewMemoryBackend returns a Backend that records every message it is given.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Name() string        { return "memory" }
func (m *MemoryBackend) Enabled(Level) bool  { return true }
func (m *MemoryBackend) Debug(message string) { m.Lines = append(m.Lines, "D: "+message) }
func (m *MemoryBackend) Info(message string)  { m.Lines = append(m.Lines, "I: "+message) }
func (m *MemoryBackend) Warn(message string)  { m.Lines = append(m.Lines, "W: "+message) }
func (m *MemoryBackend) Error(message string) { m.Lines = append(m.Lines, "E: "+message) }
