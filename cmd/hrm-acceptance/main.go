// Package main runs the OrangeHRM acceptance suite: the embedded Gherkin
// features are executed in a real browser against the environment selected
// by ENV, and a run report is written for CI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/entrhq/hrm-acceptance/pkg/config"
	"github.com/entrhq/hrm-acceptance/pkg/suite"
)

const version = "0.1.0"

// CLIConfig holds command-line configuration
type CLIConfig struct {
	Environment string
	EnvDir      string
	ProfileFile string
	Tags        string
	Format      string
	Paths       string
	Name        string
	Artifacts   string
	Verbosity   string
	Install     bool
	ShowVersion bool
}

func main() {
	cli := parseFlags()

	if cli.ShowVersion {
		fmt.Printf("HRM Acceptance v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		// a second signal terminates immediately
		signal.Stop(sigChan)
		fmt.Fprintln(os.Stderr, "\n\nShutting down gracefully; the current scenario will finish...")
		cancel()
	}()

	code := run(ctx, cli)
	cancel()
	os.Exit(code)
}

// parseFlags parses command line flags
func parseFlags() *CLIConfig {
	cli := &CLIConfig{}

	flag.StringVar(&cli.Environment, "env", "", "Environment to test (overrides ENV, default staging)")
	flag.StringVar(&cli.EnvDir, "env-dir", config.DefaultEnvDir, "Directory holding <env>.env files")
	flag.StringVar(&cli.ProfileFile, "profile", "", "Path to runner profile (YAML)")
	flag.StringVar(&cli.Tags, "tags", "", "Tag expression, e.g. \"@smoke && ~@wip\"")
	flag.StringVar(&cli.Format, "format", "", "Formatter list, e.g. pretty or cucumber:reports/cucumber.json")
	flag.StringVar(&cli.Paths, "paths", "", "Comma-separated feature files or directories (default: embedded features)")
	flag.StringVar(&cli.Name, "name", "", "Glob matched against scenario names")
	flag.StringVar(&cli.Artifacts, "artifacts", "", "Directory for logs, screenshots and the run report")
	flag.StringVar(&cli.Verbosity, "verbosity", "", "Console verbosity: quiet, normal, verbose or debug")
	flag.BoolVar(&cli.Install, "install", false, "Install the Playwright driver and browser before running")
	flag.BoolVar(&cli.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "HRM Acceptance - browser acceptance tests for OrangeHRM\n\n")
		fmt.Fprintf(os.Stderr, "Usage: hrm-acceptance [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Run every scenario against staging\n")
		fmt.Fprintf(os.Stderr, "  hrm-acceptance\n\n")
		fmt.Fprintf(os.Stderr, "  # Smoke tests against a local instance\n")
		fmt.Fprintf(os.Stderr, "  ENV=local hrm-acceptance -tags @smoke\n\n")
		fmt.Fprintf(os.Stderr, "  # First run on a new machine\n")
		fmt.Fprintf(os.Stderr, "  hrm-acceptance -install -name \"Successful*\"\n\n")
	}

	flag.Parse()
	return cli
}

func run(ctx context.Context, cli *CLIConfig) int {
	profile, err := config.LoadProfile(cli.ProfileFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load profile: %v\n", err)
		return suite.ExitStartup
	}
	applyOverrides(profile, cli)

	runner, err := suite.NewRunner(suite.Options{
		Environment: cli.Environment,
		EnvDir:      cli.EnvDir,
		Profile:     profile,
		Launcher: &suite.RuntimeLauncher{
			Install: cli.Install,
			Verbose: profile.Verbosity == "debug",
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid options: %v\n", err)
		return suite.ExitStartup
	}

	return runner.Run(ctx)
}

// applyOverrides lets command-line flags win over the profile file.
func applyOverrides(p *config.Profile, cli *CLIConfig) {
	if cli.Tags != "" {
		p.Tags = cli.Tags
	}
	if cli.Format != "" {
		p.Format = cli.Format
	}
	if cli.Paths != "" {
		p.Paths = splitList(cli.Paths)
	}
	if cli.Name != "" {
		p.NameFilter = cli.Name
	}
	if cli.Artifacts != "" {
		p.ArtifactsDir = cli.Artifacts
	}
	if cli.Verbosity != "" {
		p.Verbosity = cli.Verbosity
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
