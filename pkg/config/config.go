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

// Package config assembles a pagesim session's settings from command-line
// flags and an optional YAML file, the way the teacher codebase's
// pkg/config builds a runtime configuration collection from a flag.FlagSet
// plus YAML -- minus the module registry, change notifications, and
// snapshot/restore machinery that exist there to support a long-running
// daemon reconfiguring itself in place. pagesim runs once per invocation,
// so none of that survives the trip.
package config

import (
	"flag"
	"io/ioutil"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"

	"github.com/pagesim/pagesim/pkg/sim"
)

// Source records where a SessionConfig's values came from last, mirroring
// the teacher's config.Source distinction between command-line and file
// input.
type Source string

const (
	// CommandLine indicates the value was set by a command-line flag.
	CommandLine Source = "command line"
	// ConfigFile indicates the value was loaded from a YAML file.
	ConfigFile Source = "configuration file"
	// Defaults indicates the value was never overridden.
	Defaults Source = "defaults"
)

// SessionConfig holds every setting a pagesim invocation needs to build a
// workload and a Driver.
type SessionConfig struct {
	Seed             string `json:"seed"`
	Algorithm        string `json:"algorithm"`
	ProcessCount     int    `json:"processCount"`
	InstructionCount int    `json:"instructionCount"`
	RAMFrames        int    `json:"ramFrames"`
	PageSizeBytes    int    `json:"pageSizeBytes"`
	HitTime          int64  `json:"hitTime"`
	FaultTime        int64  `json:"faultTime"`
	WorkloadFile     string `json:"workloadFile"`

	source Source
}

// Default returns the textbook SessionConfig: the constants from spec §6,
// FIFO as the compared policy, and a generated (not file-loaded) workload.
func Default() *SessionConfig {
	return &SessionConfig{
		Seed:             "pagesim",
		Algorithm:        string(sim.FIFO),
		ProcessCount:     8,
		InstructionCount: 500,
		RAMFrames:        sim.TotalRAMFrames,
		PageSizeBytes:    sim.PageSizeBytes,
		HitTime:          sim.HitTime,
		FaultTime:        sim.FaultTime,
		source:           Defaults,
	}
}

// RegisterFlags binds c's fields to fs, following the teacher's pattern of
// composing a configuration object directly onto a *flag.FlagSet rather
// than hand-rolling flag parsing.
func (c *SessionConfig) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Seed, "seed", c.Seed, "deterministic PRNG seed")
	fs.StringVar(&c.Algorithm, "algorithm", c.Algorithm, "policy to compare against OPT (FIFO, SC, MRU, LRU, RND)")
	fs.IntVar(&c.ProcessCount, "processes", c.ProcessCount, "number of processes in a generated workload")
	fs.IntVar(&c.InstructionCount, "instructions", c.InstructionCount, "number of instructions in a generated workload")
	fs.IntVar(&c.RAMFrames, "ram-frames", c.RAMFrames, "number of physical RAM frames")
	fs.IntVar(&c.PageSizeBytes, "page-size", c.PageSizeBytes, "page size in bytes")
	fs.Int64Var(&c.HitTime, "hit-time", c.HitTime, "simulated cost of a page hit")
	fs.Int64Var(&c.FaultTime, "fault-time", c.FaultTime, "simulated cost of a page fault")
	fs.StringVar(&c.WorkloadFile, "workload", c.WorkloadFile, "path to a textual instruction workload; generated if empty")
}

// Load reads a YAML file into c, overwriting any field the file sets.
// Fields absent from the file retain their current value, so Load is
// typically called after RegisterFlags/fs.Parse to layer a file on top of
// explicit flags, or before it so flags can override the file.
func (c *SessionConfig) Load(path string) error {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "config: read %s", path)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return errors.Wrapf(err, "config: parse %s", path)
	}
	c.source = ConfigFile
	return nil
}

// Source reports ConfigFile once Load has succeeded and Defaults otherwise.
// Values set through the flags bound by RegisterFlags do not change it, so
// CommandLine is never reported.
func (c *SessionConfig) Source() Source { return c.source }

// Validate rejects a SessionConfig that cannot build a working session.
func (c *SessionConfig) Validate() error {
	if _, err := sim.NewPolicy(sim.AlgorithmName(c.Algorithm), "validate"); err != nil {
		return errors.Wrapf(err, "config: algorithm %q", c.Algorithm)
	}
	if c.ProcessCount <= 0 {
		return errors.Errorf("config: processes must be positive, got %d", c.ProcessCount)
	}
	if c.InstructionCount <= 0 {
		return errors.Errorf("config: instructions must be positive, got %d", c.InstructionCount)
	}
	if c.RAMFrames <= 0 {
		return errors.Errorf("config: ram-frames must be positive, got %d", c.RAMFrames)
	}
	if c.PageSizeBytes <= 0 {
		return errors.Errorf("config: page-size must be positive, got %d", c.PageSizeBytes)
	}
	if c.HitTime < 0 || c.FaultTime < 0 {
		return errors.New("config: hit-time and fault-time must be non-negative")
	}
	return nil
}

// EngineConfig converts the validated SessionConfig into the
// sim.EngineConfig the driver is built from.
func (c *SessionConfig) EngineConfig() sim.EngineConfig {
	return sim.EngineConfig{
		PageSize:  c.PageSizeBytes,
		RAMFrames: c.RAMFrames,
		HitTime:   c.HitTime,
		FaultTime: c.FaultTime,
	}
}
