package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/systemstart/testrun/pkg/api"
	"github.com/systemstart/testrun/pkg/logging"
	"github.com/systemstart/testrun/pkg/metrics"
	"github.com/systemstart/testrun/pkg/plan"
	"github.com/systemstart/testrun/pkg/processing"
	"github.com/systemstart/testrun/pkg/steps"
)

var version = "dev"

// Exit codes for failures before the first step runs. A failed step exits
// with its own status instead.
const (
	_ = iota
	exitLoggingSetupFailed
	exitDotenvError
	exitWorkDirCheckFailed
	exitLoadConfigurationFileFailed
	exitRuntimeVersionFailed
	exitPlanFailed
	exitAssembleFailed
	exitPrintPlanFailed
)

var (
	configFile     string
	workDir        string
	runtimeVersion string
	metricsFile    string
	loggingType    string
	logLevel       string
)

var rootCmd = &cobra.Command{
	Use:   "testrun",
	Short: "Sequential test and build orchestrator",
	Long: `testrun converts test sources, links runner assets, bundles the results and
runs the test runner and command-line tool against them, one step at a time.
The first failing step aborts the run with that step's exit status.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := logging.Initialize(loggingType, logLevel, os.Stderr); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitLoggingSetupFailed)
		}
		includeEnv()
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Assemble the step queue and run it",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runSteps(cmd.Context())
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the planned steps without running them (probes the runtime unless --runtime-version is set)",
	Long: `plan prints the steps a run would execute as YAML without running any of them.
The runtime version is still probed unless --runtime-version or runtime.version
in the config is set, and the bundler is still looked up on PATH.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		p, _, _ := buildPlan(cmd.Context())
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			slog.Error("failed to print plan", "error", err)
			os.Exit(exitPrintPlanFailed)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default <workdir>/"+api.DefaultConfigFile+" if present)")
	flags.StringVar(&workDir, "workdir", ".", "repository root the steps run in")
	flags.StringVar(&runtimeVersion, "runtime-version", "", "runtime version to gate on instead of probing the runtime")
	flags.StringVar(&loggingType, "logging-type", logging.Tint, "logging type: json, text or tint")
	flags.StringVar(&logLevel, "log-level", "info", "logging level: debug, info, warn, error")

	runCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write step metrics in Prometheus text format to this file")

	rootCmd.AddCommand(runCmd, planCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSteps(ctx context.Context) {
	p, cfg, bundler := buildPlan(ctx)

	factory, err := steps.NewFactory(cfg, workDir, bundler)
	if err != nil {
		slog.Error("failed to set up steps", "error", err)
		os.Exit(exitAssembleFailed)
	}

	queue, err := processing.Assemble(p, factory)
	if err != nil {
		slog.Error("failed to assemble queue", "error", err)
		os.Exit(exitAssembleFailed)
	}

	logger, runID := logging.WithRunID()
	recorder := metrics.NewRecorder(runID)
	runner := &processing.Runner{
		Executor: steps.NewExecutor(workDir),
		Handler:  &processing.Handler{Logger: logger},
		Observer: recorder,
		Logger:   logger,
	}

	runErr := runner.Run(ctx, queue)

	if metricsFile != "" {
		if err := recorder.WriteFile(metricsFile); err != nil {
			logger.Warn("failed to write metrics", "filename", metricsFile, "error", err)
		}
	}

	if runErr != nil {
		os.Exit(processing.ExitStatus(runErr))
	}
	logger.Info("done")
}

// buildPlan loads the configuration and selects the steps for this runtime.
func buildPlan(ctx context.Context) (*plan.Plan, *api.Config, *steps.Bundler) {
	checkWorkDir()

	cfg, err := api.LoadConfigFile(workDir, configFile)
	if err != nil {
		slog.Error("failed to load configuration", "filename", configFile, "error", err)
		os.Exit(exitLoadConfigurationFileFailed)
	}

	rv := resolveRuntimeVersion(ctx, cfg)
	gate, err := plan.NewGate(rv, cfg.Capabilities)
	if err != nil {
		slog.Error("failed to evaluate capabilities", "error", err)
		os.Exit(exitPlanFailed)
	}

	bundler := steps.ResolveBundler(cfg.Bundle, workDir)

	p, err := plan.Build(cfg, gate, bundler, os.DirFS(workDir))
	if err != nil {
		slog.Error("failed to plan steps", "error", err)
		os.Exit(exitPlanFailed)
	}
	return p, cfg, bundler
}

func resolveRuntimeVersion(ctx context.Context, cfg *api.Config) plan.RuntimeVersion {
	var (
		rv  plan.RuntimeVersion
		err error
	)
	switch {
	case runtimeVersion != "":
		rv, err = plan.ParseRuntimeVersion(runtimeVersion)
	case cfg.Runtime.Version != "":
		rv, err = plan.ParseRuntimeVersion(cfg.Runtime.Version)
	default:
		rv, err = plan.ProbeRuntimeVersion(ctx, workDir, cfg.Runtime.Command, cfg.Runtime.VersionArgs)
	}
	if err != nil {
		slog.Error("failed to determine runtime version", "error", err)
		os.Exit(exitRuntimeVersionFailed)
	}
	slog.Info("runtime version", "version", rv.String())
	return rv
}

func includeEnv() {
	err := godotenv.Load()
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("failed to load .env", "error", err)
			os.Exit(exitDotenvError)
		}
		slog.Debug("no .env file found")
	} else {
		slog.Info("using .env file")
	}
}

func checkWorkDir() {
	abs, err := filepath.Abs(workDir)
	if err != nil {
		slog.Error("failed to resolve work directory", "directory", workDir, "error", err)
		os.Exit(exitWorkDirCheckFailed)
	}

	st, err := os.Stat(abs)
	if err != nil {
		slog.Error("failed to check work directory", "directory", abs, "error", err)
		os.Exit(exitWorkDirCheckFailed)
	}
	if !st.IsDir() {
		slog.Error("--workdir is not a directory", "directory", abs)
		os.Exit(exitWorkDirCheckFailed)
	}
	workDir = abs
}
