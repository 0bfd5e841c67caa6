// Package suite assembles a run: it loads the environment configuration,
// launches the browser, runs the Gherkin features through godog with the
// lifecycle hooks and step definitions, and writes the run report.
package suite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/cucumber/godog"
	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/hrm-acceptance/features"
	"github.com/entrhq/hrm-acceptance/pkg/browser"
	"github.com/entrhq/hrm-acceptance/pkg/config"
	"github.com/entrhq/hrm-acceptance/pkg/hooks"
	"github.com/entrhq/hrm-acceptance/pkg/logging"
	"github.com/entrhq/hrm-acceptance/pkg/report"
	"github.com/entrhq/hrm-acceptance/pkg/steps"
)

// Exit codes returned by Run.
const (
	ExitPassed  = 0
	ExitFailed  = 1
	ExitStartup = 2

	// ExitInterrupted follows the shell convention for SIGINT
	ExitInterrupted = 130
)

// InstallHint is logged when the browser cannot be launched.
const InstallHint = "hrm-acceptance -install"

// Launcher starts the run's browser. stop releases it and everything it
// needed.
type Launcher interface {
	Launch(cfg *config.AppConfig) (b playwright.Browser, stop func() error, err error)
}

// Options configures a Runner.
type Options struct {
	// Environment overrides the ENV variable
	Environment string

	// EnvDir holds the <env>.env files
	EnvDir string

	// Profile selects features and reporting; nil uses DefaultProfile
	Profile *config.Profile

	// Lookup reads process environment variables (default: os.LookupEnv)
	Lookup func(string) (string, bool)

	// Console receives log lines (default: stderr)
	Console io.Writer

	// Output receives godog formatter output (default: stdout)
	Output io.Writer

	// Features is read when the profile names no paths (default: embedded)
	Features fs.FS

	// Launcher starts the browser (default: a playwright runtime)
	Launcher Launcher
}

// Runner runs the acceptance suite once.
type Runner struct {
	opts    Options
	profile *config.Profile
}

// NewRunner validates the profile and fills in defaults.
func NewRunner(opts Options) (*Runner, error) {
	profile := opts.Profile
	if profile == nil {
		profile = config.DefaultProfile()
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	if opts.Lookup == nil {
		opts.Lookup = os.LookupEnv
	}
	if opts.Console == nil {
		opts.Console = os.Stderr
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Features == nil {
		opts.Features = features.FS
	}
	if opts.Launcher == nil {
		opts.Launcher = &RuntimeLauncher{}
	}

	return &Runner{opts: opts, profile: profile}, nil
}

// Run executes the suite and returns the process exit code.
func (r *Runner) Run(ctx context.Context) int {
	// Validate has already rejected unknown levels
	level, _ := logging.ParseLevel(r.profile.Verbosity)

	log, err := logging.New("suite", logging.Options{
		Dir:     r.profile.ArtifactsDir,
		Console: r.opts.Console,
		Level:   level,
	})
	if err != nil {
		log.Warnf("log file disabled: %v", err)
	}
	defer log.Close()

	summary := &report.RunSummary{
		RunID:     log.RunID(),
		StartTime: time.Now(),
	}
	recorder := report.NewRecorder()

	code := r.run(ctx, log, summary, recorder)

	summary.EndTime = time.Now()
	recorder.Summarize(summary)

	writer := report.NewArtifactWriter(r.profile.ArtifactsDir)
	if err := writer.WriteAll(summary); err != nil {
		log.Warnf("failed to write run report: %v", err)
	} else {
		log.Infof("report written to %s", r.profile.ArtifactsDir)
	}

	return code
}

func (r *Runner) run(ctx context.Context, log *logging.Logger, summary *report.RunSummary, recorder *report.Recorder) int {
	env := r.opts.Environment
	if env == "" {
		var defaulted bool
		env, defaulted = config.ResolveEnvironment(r.opts.Lookup)
		if defaulted {
			log.Warnf("%s not set, using the %s environment", config.EnvVarEnvironment, env)
		}
	}

	cfg, err := config.Load(config.LoadOptions{
		Environment: env,
		Dir:         r.opts.EnvDir,
		Lookup:      r.opts.Lookup,
	})
	if err != nil {
		return startupFailure(log, summary, err)
	}
	summary.Environment = cfg.Environment
	summary.BaseURL = cfg.BaseURL
	log.Infof("environment %s loaded from %s", cfg.Environment, cfg.EnvFile)

	engine, err := browser.ParseEngine(cfg.Browser.Engine)
	if err != nil {
		return startupFailure(log, summary, err)
	}
	summary.Browser = engine.DisplayName()

	if ctx.Err() != nil {
		return interrupted(log, summary, ctx.Err())
	}

	b, stop, err := r.opts.Launcher.Launch(cfg)
	if err != nil {
		log.Errorf("Failed to launch %s browser: %v", engine, err)
		log.Infof("Make sure to run: %s", InstallHint)
		summary.Status = "error"
		summary.Error = err.Error()
		return ExitStartup
	}
	defer func() {
		if err := stop(); err != nil {
			log.Warnf("failed to close browser: %v", err)
		}
	}()
	log.Successf("%s browser launched successfully", engine)

	lifecycle, err := hooks.New(cfg, b, hooks.Options{
		ArtifactsDir: r.profile.ArtifactsDir,
		Logger:       log,
		Recorder:     recorder,
		NameFilter:   r.profile.NameFilter,
	})
	if err != nil {
		return startupFailure(log, summary, err)
	}

	suite := godog.TestSuite{
		Name:                 "hrm-acceptance",
		TestSuiteInitializer: lifecycle.InitializeSuite,
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			lifecycle.Register(sc)
			steps.Register(sc)
		},
		Options: r.godogOptions(ctx),
	}

	status := suite.Run()
	if ctx.Err() != nil {
		return interrupted(log, summary, ctx.Err())
	}

	switch status {
	case 0:
		return ExitPassed
	case 1:
		summary.Status = "failed"
		return ExitFailed
	default:
		summary.Status = "error"
		summary.Error = fmt.Sprintf("godog exited with status %d", status)
		return ExitStartup
	}
}

// godogOptions maps the profile onto godog. Scenarios always run one at a
// time: they share the browser.
func (r *Runner) godogOptions(ctx context.Context) *godog.Options {
	opts := &godog.Options{
		Format:         r.profile.Format,
		Tags:           r.profile.Tags,
		Strict:         r.profile.Strict,
		StopOnFailure:  r.profile.StopOnFailure,
		Randomize:      r.profile.Randomize,
		Concurrency:    1,
		Output:         r.opts.Output,
		DefaultContext: ctx,
	}

	if len(r.profile.Paths) > 0 {
		opts.Paths = r.profile.Paths
	} else {
		opts.FS = r.opts.Features
		opts.Paths = []string{"."}
	}
	return opts
}

// interrupted marks a run whose context was cancelled. Scenarios that had
// not started were skipped by the hooks.
func interrupted(log *logging.Logger, summary *report.RunSummary, err error) int {
	log.Warnf("run interrupted (%v); remaining scenarios skipped", err)
	summary.Status = "interrupted"
	summary.Error = err.Error()
	return ExitInterrupted
}

func startupFailure(log *logging.Logger, summary *report.RunSummary, err error) int {
	log.Errorf("%v", err)

	var missing *config.MissingKeysError
	switch {
	case errors.Is(err, config.ErrEnvFileNotFound):
		log.Infof("create the file or set %s to an existing environment", config.EnvVarEnvironment)
	case errors.As(err, &missing):
		log.Infof("add %v to %s or export them", missing.Keys, missing.Path)
	case errors.Is(err, browser.ErrUnsupportedEngine):
		log.Infof("set %s to one of %v", config.KeyBrowser, browser.SupportedEngines())
	}

	summary.Status = "error"
	summary.Error = err.Error()
	return ExitStartup
}

// RuntimeLauncher launches the configured engine through a playwright
// runtime owned by the run.
type RuntimeLauncher struct {
	// Install downloads the driver and browsers before starting
	Install bool

	// Verbose shows driver output
	Verbose bool
}

// Launch implements Launcher.
func (l *RuntimeLauncher) Launch(cfg *config.AppConfig) (playwright.Browser, func() error, error) {
	runtime := browser.NewRuntime()
	err := runtime.Start(browser.StartOptions{
		Install:  l.Install,
		Browsers: []string{cfg.Browser.Engine},
		Verbose:  l.Verbose,
	})
	if err != nil {
		return nil, nil, err
	}

	b, err := runtime.Launch(cfg.Browser.Engine, browser.LaunchOptions{
		Headless: cfg.Browser.Headless,
		SlowMo:   cfg.Browser.SlowMoMillis(),
	})
	if err != nil {
		_ = runtime.Stop()
		return nil, nil, err
	}

	return b, runtime.Stop, nil
}
