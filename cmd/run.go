package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/NJRca/Metapod/internal/config"
	"github.com/NJRca/Metapod/internal/engine"
	"github.com/NJRca/Metapod/internal/plan"
	"github.com/NJRca/Metapod/internal/research"
	"github.com/NJRca/Metapod/internal/telemetry"
)

var (
	runRequest string
	runStack   string
	runOutput  string
)

var runCmd = &cobra.Command{
	Use:   "run [project-path]",
	Short: "Run the full eight-phase refactor workflow against a project",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		projectRoot := "."
		if len(args) == 1 {
			projectRoot = args[0]
		}

		rt := config.LoadRuntime()
		if runStack != "" {
			rt.TargetStack = runStack
		}
		logger := newLogger(rt.Verbose)

		session, err := engine.NewSession(projectRoot, rt.TargetStack)
		if err != nil {
			HandleFatalError("Failed to create session: invalid workflow graph.", err)
		}

		tel := newTelemetryClient(rt)
		defer func() { _ = tel.Close() }()

		controller := engine.NewController(
			engine.WithLogger(logger),
			engine.WithExecutor(plan.NewSimulatedExecutor(rt.StepDelay, logger)),
			engine.WithResearcher(newResearcher(rt, logger)),
			engine.WithTelemetry(tel),
		)

		report := controller.Run(cmd.Context(), session, runRequest)

		switch runOutput {
		case "yaml":
			data, err := yaml.Marshal(report)
			if err != nil {
				HandleFatalError("Failed to serialize report.", err)
			}
			fmt.Println(string(data))
		default:
			fmt.Println(report.Markdown())
			fmt.Println(renderStatus(report.Tasks))
		}

		if report.Failed {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runRequest, "request", "r", "Begin autonomous refactoring", "refactor request label attached to the session")
	runCmd.Flags().StringVarP(&runStack, "stack", "s", "", "target stack (e.g. go-gin, node-express, python-fastapi)")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "md", "output format: md or yaml")

	_ = viper.BindPFlag("targetStack", runCmd.Flags().Lookup("stack"))
}

// newLogger builds the session logger. Non-verbose runs only surface
// warnings so reports stay readable.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newResearcher wires the research engine from runtime configuration.
func newResearcher(rt config.Runtime, logger *slog.Logger) *research.Researcher {
	fetcher := research.NewFetcher(
		research.WithTimeout(rt.ResearchTimeout),
		research.WithUserAgent(rt.ResearchUserAgent),
	)
	return research.NewResearcher(nil, fetcher, logger)
}

// newTelemetryClient returns the PostHog client when telemetry is enabled
// and an API key is configured, a no-op client otherwise.
func newTelemetryClient(rt config.Runtime) telemetry.Client {
	apiKey := viper.GetString("telemetry.apiKey")
	if !rt.TelemetryEnabled || apiKey == "" {
		return telemetry.NewNoopClient()
	}

	anonID, err := telemetry.LoadAnonymousID("")
	if err != nil {
		LogError("telemetry disabled", err)
		return telemetry.NewNoopClient()
	}
	client, err := telemetry.NewPostHogClient(apiKey, anonID, version)
	if err != nil {
		LogError("telemetry disabled", err)
		return telemetry.NewNoopClient()
	}
	return client
}
