// cmd/root.go
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/faas-sim/faas-sim/sim"
	"github.com/faas-sim/faas-sim/sim/workload"
)

var (
	schedulerType     string
	cachePolicy       string
	controllerType    string
	invokers          int
	invokerMemoryGB   int
	invokerCores      int
	applications      int
	invocationLimit   int
	simulationMinutes int
	seed              int64
	logLevel          string
	configPath        string
)

var rootCmd = &cobra.Command{
	Use:   "faas-sim",
	Short: "Discrete-event simulator for a FaaS serverless cluster",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the serverless cluster simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		simCfg, workloadCfg := resolveConfig(cmd)
		logrus.WithFields(logrus.Fields{
			"scheduler":  simCfg.SchedulerType,
			"controller": simCfg.ControllerType,
			"invokers":   simCfg.InvokerCount,
			"minutes":    simCfg.SimulationMinutes,
			"seed":       seed,
		}).Info("starting simulation")

		ctx := sim.NewSimulationContext(seed)
		gen := workload.NewAzureWorkload(ctx, workloadCfg)
		s := sim.NewSimulator(ctx, gen, simCfg)
		summary := s.Run()
		summary.LogSummary()
	},
}

// resolveConfig layers flag values over an optional --config YAML file over
// built-in defaults: CLI flags explicitly set on the command line win,
// otherwise the config file's value is used, otherwise the default.
func resolveConfig(cmd *cobra.Command) (sim.Config, workload.Config) {
	file := FileConfig{Workload: workload.DefaultConfig}
	if configPath != "" {
		file = loadFileConfig(configPath)
	}

	flagOrFile := func(flag string, flagVal, fileVal int) int {
		if cmd.Flags().Changed(flag) || fileVal == 0 {
			return flagVal
		}
		return fileVal
	}
	flagOrFileStr := func(flag string, flagVal, fileVal string) string {
		if cmd.Flags().Changed(flag) || fileVal == "" {
			return flagVal
		}
		return fileVal
	}

	if !cmd.Flags().Changed("seed") && file.Seed != 0 {
		seed = file.Seed
	}

	invokerMemoryMB := invokerMemoryGB * 1024
	if !cmd.Flags().Changed("invoker-memory-gb") && file.InvokerMemoryMB != 0 {
		invokerMemoryMB = file.InvokerMemoryMB
	}

	simCfg := sim.Config{
		SchedulerType:     flagOrFileStr("scheduler", schedulerType, file.Scheduler),
		CachePolicy:       flagOrFileStr("cache-policy", cachePolicy, file.CachePolicy),
		ControllerType:    flagOrFileStr("controller", controllerType, file.Controller),
		InvokerCount:      flagOrFile("invokers", invokers, file.Invokers),
		InvokerMemory:     invokerMemoryMB,
		InvokerCores:      flagOrFile("invoker-cores", invokerCores, file.InvokerCores),
		SimulationMinutes: flagOrFile("minutes", simulationMinutes, file.SimulationMinutes),
	}

	workloadCfg := workload.Config{
		ApplicationNumber:          flagOrFile("applications", applications, file.Workload.ApplicationNumber),
		ApplicationInvocationLimit: flagOrFile("invocation-limit", invocationLimit, file.Workload.ApplicationInvocationLimit),
	}

	return simCfg, workloadCfg
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&schedulerType, "scheduler", "FIFO", "Per-invoker scheduler: FIFO, RR, SRTF, LAS, LotterySRTF")
	runCmd.Flags().StringVar(&cachePolicy, "cache-policy", "LRU", "Cache eviction policy (only used by the cacheaware controller): LRU, GDSF")
	runCmd.Flags().StringVar(&controllerType, "controller", "leastload", "Routing controller: leastload, cacheaware")
	runCmd.Flags().IntVar(&invokers, "invokers", 4, "Number of invoker nodes")
	runCmd.Flags().IntVar(&invokerMemoryGB, "invoker-memory-gb", 4, "Memory capacity per invoker, in GB")
	runCmd.Flags().IntVar(&invokerCores, "invoker-cores", 4, "CPU cores per invoker")
	runCmd.Flags().IntVar(&applications, "applications", workload.DefaultConfig.ApplicationNumber, "Number of synthetic applications to generate")
	runCmd.Flags().IntVar(&invocationLimit, "invocation-limit", workload.DefaultConfig.ApplicationInvocationLimit, "Target total invocation count per simulated minute")
	runCmd.Flags().IntVar(&simulationMinutes, "minutes", 60, "Simulation duration, in simulated minutes")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Master RNG seed")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&configPath, "config", "", "Optional YAML config file (CLI flags take precedence)")

	rootCmd.AddCommand(runCmd)
}
