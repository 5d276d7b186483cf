package cmd

import (
	"bytes"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/faas-sim/faas-sim/sim/workload"
)

// FileConfig represents the full structure of an optional --config YAML
// file. Every flag below can instead be supplied on the file; flags
// explicitly set on the command line always win. All top-level sections
// must be listed to satisfy KnownFields(true) strict parsing.
type FileConfig struct {
	Scheduler         string `yaml:"scheduler"`
	CachePolicy       string `yaml:"cache_policy"`
	Controller        string `yaml:"controller"`
	Invokers          int    `yaml:"invokers"`
	InvokerMemoryMB   int    `yaml:"invoker_memory_mb"`
	InvokerCores      int    `yaml:"invoker_cores"`
	SimulationMinutes int    `yaml:"simulation_minutes"`
	Seed              int64  `yaml:"seed"`

	Workload workload.Config `yaml:"workload"`
}

// loadFileConfig parses a YAML config file with strict field checking: an
// unrecognized key is a fatal error rather than a silently ignored typo.
func loadFileConfig(path string) FileConfig {
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Fatalf("failed to read config file %s: %v", path, err)
	}
	var cfg FileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		logrus.Fatalf("failed to parse config file %s: %v", path, err)
	}
	return cfg
}
