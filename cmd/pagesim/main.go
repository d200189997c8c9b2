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

// Command pagesim runs the OPT-vs-chosen-policy comparison described by
// the pagesim core: it builds (or loads) a workload, drives both engines to
// completion, and prints the final metrics side by side.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pagesim/pagesim/pkg/config"
	"github.com/pagesim/pagesim/pkg/log"
	"github.com/pagesim/pagesim/pkg/metrics"
	"github.com/pagesim/pagesim/pkg/sim"
)

var logger = log.Get("pagesim")

func main() {
	cfg := config.Default()
	cfg.RegisterFlags(flag.CommandLine)

	configFile := flag.String("config", "", "load session settings from a YAML file before applying flags")
	listAlgorithms := flag.Bool("list-algorithms", false, "list available replacement policies and exit")
	printConfig := flag.Bool("print-config", false, "print the resolved session configuration and exit")
	generate := flag.String("generate", "", "write a generated workload to this path instead of running a session")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090) while the session runs; the server closes when the run ends")
	flag.Parse()

	if *listAlgorithms {
		for _, name := range sim.ListPolicies() {
			fmt.Println(name)
		}
		return
	}

	if *configFile != "" {
		explicit := map[string]string{}
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = f.Value.String() })
		if err := cfg.Load(*configFile); err != nil {
			logger.Fatal("%v", err)
		}
		// Flags parsed above take precedence over the file; re-apply them.
		for name, value := range explicit {
			_ = flag.Set(name, value)
		}
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatal("%v", err)
	}

	if *printConfig {
		fmt.Printf("%+v\n", *cfg)
		return
	}

	if *generate != "" {
		instrs, _ := sim.GenerateWorkload(cfg.ProcessCount, cfg.InstructionCount, cfg.Seed)
		f, err := os.Create(*generate)
		if err != nil {
			logger.Fatal("create %s: %v", *generate, err)
		}
		defer f.Close()
		if err := sim.SerializeInstructions(f, instrs); err != nil {
			logger.Fatal("write %s: %v", *generate, err)
		}
		logger.Info("wrote %d instructions to %s", len(instrs), *generate)
		return
	}

	instrs, nextPtrID := loadOrGenerateWorkload(cfg)

	driver, err := sim.NewSession(cfg.Seed, sim.AlgorithmName(cfg.Algorithm), instrs, nextPtrID, cfg.EngineConfig())
	if err != nil {
		logger.Fatal("start session: %v", err)
	}

	var server *http.Server
	if *metricsAddr != "" {
		server = serveMetrics(*metricsAddr, driver, sim.AlgorithmName(cfg.Algorithm))
		defer server.Close()
	}

	if err := driver.Run(); err != nil {
		logger.Fatal("session failed: %v", err)
	}

	opt, chosen := driver.Snapshot()
	printComparison(opt, chosen)
}

func loadOrGenerateWorkload(cfg *config.SessionConfig) ([]sim.ProcessInstruction, uint32) {
	if cfg.WorkloadFile == "" {
		return sim.GenerateWorkload(cfg.ProcessCount, cfg.InstructionCount, cfg.Seed)
	}

	f, err := os.Open(cfg.WorkloadFile)
	if err != nil {
		logger.Fatal("open %s: %v", cfg.WorkloadFile, err)
	}
	defer f.Close()

	instrs, nextPtrID, warnings := sim.ParseInstructions(f)
	for _, w := range warnings {
		logger.Warn("%s", w.Error())
	}
	return instrs, nextPtrID
}

func serveMetrics(addr string, driver *sim.Driver, algorithm sim.AlgorithmName) *http.Server {
	collector := metrics.NewCollector(func() (sim.AlgorithmMetrics, sim.AlgorithmMetrics, sim.AlgorithmName) {
		opt, chosen := driver.Snapshot()
		return opt.Metrics, chosen.Metrics, algorithm
	})

	registry := prometheus.NewPedanticRegistry()
	registry.MustRegister(collector)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server: %v", err)
		}
	}()
	logger.Info("serving metrics on %s/metrics", addr)
	return server
}

func printComparison(opt, chosen sim.StateView) {
	fmt.Printf("%-18s %12s %12s\n", "metric", "OPT", string(chosen.Algorithm))
	row := func(name string, a, b interface{}) {
		fmt.Printf("%-18s %12v %12v\n", name, a, b)
	}
	row("page_faults", opt.Metrics.PageFaults, chosen.Metrics.PageFaults)
	row("page_hits", opt.Metrics.PageHits, chosen.Metrics.PageHits)
	row("total_time", opt.Metrics.TotalTime, chosen.Metrics.TotalTime)
	row("thrashing_time", opt.Metrics.ThrashingTime, chosen.Metrics.ThrashingTime)
	row("ram_used_kb", opt.Metrics.RAMUsedKB, chosen.Metrics.RAMUsedKB)
	row("v_ram_used_kb", opt.Metrics.VRAMUsedKB, chosen.Metrics.VRAMUsedKB)
	row("internal_frag_kb", opt.Metrics.InternalFragmentationKB, chosen.Metrics.InternalFragmentationKB)
	row("running_processes", opt.Metrics.RunningProcesses, chosen.Metrics.RunningProcesses)
}
