package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/mainframe-market/mfsim/sim"
	"github.com/mainframe-market/mfsim/sim/ledgerdb"
	"github.com/mainframe-market/mfsim/sim/trace"
)

var (
	configPath string // Scenario YAML file
	seed       int64  // Seed used when the scenario file has none
	logLevel   string // Log verbosity level
	traceOut   string // Path of the zstd JSONL decision trace
	traceLevel string // Trace verbosity: none, acquisitions, all
	metricsOut string // Path of the Prometheus text file
	dbPath     string // SQLite ledger export
	quiet      bool   // Suppress the summary
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "mfsim",
	Short: "Agent-based simulation of the mainframe market",
}

// runCmd builds the world from a scenario file and runs it to end_time
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a market scenario",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, err := LoadScenarioConfig(configPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		sc, err := cfg.ToScenario(seed)
		if err != nil {
			logrus.Fatalf("invalid scenario %s: %v", configPath, err)
		}
		if cmd.Flags().Changed("seed") {
			sc.Seed = seed
		}

		w, err := sim.BuildWorld(sc)
		if err != nil {
			logrus.Fatalf("building world: %v", err)
		}
		if traceOut != "" {
			if !trace.IsValidTraceLevel(traceLevel) || traceLevel == string(trace.TraceLevelNone) {
				logrus.Fatalf("invalid --trace-level %q with --trace-out", traceLevel)
			}
			w.SetTrace(trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevel(traceLevel)}))
		}

		logrus.Infof("running %s from %s to %s with seed %d",
			filepath.Base(configPath), cfg.StartTime.Format(time.DateOnly), cfg.EndTime.Format(time.DateOnly), sc.Seed)
		wallStart := time.Now()
		w.RunUntil(cfg.EndTime)
		logrus.Infof("simulation complete in %s", time.Since(wallStart).Round(time.Millisecond))

		report := sim.NewReport(w)
		if err := writeOutputs(cmd.Context(), w, report, sc.Seed); err != nil {
			logrus.Fatalf("%v", err)
		}
		if !quiet {
			printSummary(cmd.OutOrStdout(), report)
		}
	},
}

// validateCmd checks a scenario file and its timeline without running it
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a scenario file and its lifecycle timeline",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, err := LoadScenarioConfig(configPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		sc, err := cfg.ToScenario(seed)
		if err != nil {
			logrus.Fatalf("invalid scenario %s: %v", configPath, err)
		}
		if _, err := sim.BuildWorld(sc); err != nil {
			logrus.Fatalf("invalid scenario %s: %v", configPath, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d players, %d families)\n",
			configPath, len(sc.Players), len(sc.Lifecycles))
	},
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// writeOutputs writes the optional trace, metrics and ledger exports.
func writeOutputs(ctx context.Context, w *sim.World, report *sim.Report, seed int64) error {
	if traceOut != "" {
		if err := trace.WriteJSONLZstd(traceOut, w.Trace()); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
		s := trace.Summarize(w.Trace())
		logrus.Infof("trace: %d acquisition attempts (%d rejected) written to %s",
			s.TotalAttempts, s.RejectedCount, traceOut)
	}
	if metricsOut != "" {
		if err := w.Metrics().WriteTextfile(metricsOut); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	if dbPath != "" {
		if ctx == nil {
			ctx = context.Background()
		}
		db, err := ledgerdb.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		runID := uuid.NewString()
		if err := db.SaveReport(ctx, runID, seed, report); err != nil {
			return err
		}
		logrus.Infof("ledger saved to %s as run %s", dbPath, runID)
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{runCmd, validateCmd} {
		c.Flags().StringVar(&configPath, "config", "", "Scenario YAML file")
		c.Flags().Int64Var(&seed, "seed", 42, "Seed for the enterprise random streams (overrides the scenario seed when set)")
		c.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
		_ = c.MarkFlagRequired("config")
	}

	// Run outputs
	runCmd.Flags().StringVar(&traceOut, "trace-out", "", "Write the decision trace as zstd-compressed JSON lines")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", string(trace.TraceLevelAll), "Trace verbosity (acquisitions, all)")
	runCmd.Flags().StringVar(&metricsOut, "metrics-out", "", "Write run metrics in the Prometheus text format")
	runCmd.Flags().StringVar(&dbPath, "db", "", "Export the final ledger to this SQLite database")
	runCmd.Flags().BoolVar(&quiet, "quiet", false, "Do not print the summary")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}
