// Package hooks owns the per-scenario browser lifecycle: every scenario gets
// a fresh browsing context and page, failures leave a screenshot and a DOM
// snapshot behind, and each outcome is recorded for the run report.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/gobwas/glob"
	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/hrm-acceptance/pkg/browser"
	"github.com/entrhq/hrm-acceptance/pkg/config"
	"github.com/entrhq/hrm-acceptance/pkg/logging"
	"github.com/entrhq/hrm-acceptance/pkg/pages"
	"github.com/entrhq/hrm-acceptance/pkg/report"
	"github.com/entrhq/hrm-acceptance/pkg/steps"
)

// ErrStepTimeout is returned for a step that ran longer than the step
// timeout.
var ErrStepTimeout = errors.New("step exceeded timeout")

// ErrInterrupted is returned by steps that start after the run's context
// was cancelled.
var ErrInterrupted = errors.New("run interrupted")

// Options configures a Lifecycle.
type Options struct {
	// ArtifactsDir receives screenshots/ and dom/ for failed scenarios
	ArtifactsDir string

	Logger   *logging.Logger
	Recorder *report.Recorder

	// Viewport overrides the default 1920x1080 context viewport
	Viewport *browser.Viewport

	// NameFilter is a glob; scenarios whose name does not match are skipped
	NameFilter string

	// SnapshotLength caps the saved DOM snapshot (bytes)
	SnapshotLength int
}

// Lifecycle wires scenario hooks around a shared browser.
type Lifecycle struct {
	cfg         *config.AppConfig
	browser     playwright.Browser
	opts        Options
	log         *logging.Logger
	recorder    *report.Recorder
	filter      glob.Glob
	stepTimeout time.Duration
	now         func() time.Time
}

// New creates the lifecycle for one run. b is shared by all scenarios and is
// not closed by the lifecycle.
func New(cfg *config.AppConfig, b playwright.Browser, opts Options) (*Lifecycle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if b == nil {
		return nil, fmt.Errorf("browser is required")
	}

	// the run reads its own copy; AppConfig holds no reference types
	own := *cfg

	l := &Lifecycle{
		cfg:         &own,
		browser:     b,
		opts:        opts,
		log:         opts.Logger,
		recorder:    opts.Recorder,
		stepTimeout: own.StepTimeout(),
		now:         time.Now,
	}
	if l.log == nil {
		l.log = logging.Discard()
	}
	l.log = l.log.With("hooks")
	if l.recorder == nil {
		l.recorder = report.NewRecorder()
	}

	if opts.NameFilter != "" {
		g, err := glob.Compile(opts.NameFilter)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario name filter %q: %w", opts.NameFilter, err)
		}
		l.filter = g
	}

	return l, nil
}

// Recorder returns the recorder receiving scenario results.
func (l *Lifecycle) Recorder() *report.Recorder {
	return l.recorder
}

// Register wires the scenario and step hooks into sc.
func (l *Lifecycle) Register(sc *godog.ScenarioContext) {
	sc.Before(l.BeforeScenario)
	sc.StepContext().Before(l.beforeStep)
	sc.StepContext().After(l.afterStep)
	sc.After(l.AfterScenario)
}

// InitializeSuite logs run start and end.
func (l *Lifecycle) InitializeSuite(tsc *godog.TestSuiteContext) {
	tsc.BeforeSuite(func() {
		l.log.Infof("running scenarios against %s (%s)", l.cfg.BaseURL, l.cfg.Environment)
	})
	tsc.AfterSuite(func() {
		m := l.recorder.Metrics()
		l.log.Infof("%d scenarios: %d passed, %d failed, %d skipped, %d undefined, %d pending",
			m.Total, m.Passed, m.Failed, m.Skipped, m.Undefined, m.Pending)
	})
}

// scenarioRun is the hooks' bookkeeping for one scenario.
type scenarioRun struct {
	session    *browser.Session
	started    time.Time
	stepStart  time.Time
	steps      int
	failedStep string
	skipped    bool

	// incomplete is StatusUndefined or StatusPending once such a step ran
	incomplete report.Status
}

type runCtxKey struct{}

func runFrom(ctx context.Context) *scenarioRun {
	run, _ := ctx.Value(runCtxKey{}).(*scenarioRun)
	return run
}

// BeforeScenario opens the scenario's browsing context and stores its state
// in ctx.
func (l *Lifecycle) BeforeScenario(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
	run := &scenarioRun{started: l.now()}
	ctx = context.WithValue(ctx, runCtxKey{}, run)

	if ctx.Err() != nil {
		run.skipped = true
		l.log.Verbosef("skipping %q: run interrupted", sc.Name)
		return ctx, godog.ErrSkip
	}

	if l.filter != nil && !l.filter.Match(sc.Name) {
		run.skipped = true
		l.log.Verbosef("skipping %q: does not match %q", sc.Name, l.opts.NameFilter)
		return ctx, godog.ErrSkip
	}

	l.log.Verbosef("scenario: %s", sc.Name)

	session, err := browser.NewSession(l.browser, browser.SessionOptions{
		Viewport: l.opts.Viewport,
		Timeout:  l.cfg.Browser.TimeoutMillis(),
	})
	if err != nil {
		return ctx, fmt.Errorf("failed to open browsing context: %w", err)
	}
	run.session = session

	driver := pages.NewDriver(session.Page, l.cfg.BaseURL, l.cfg.Browser.Timeout).
		WithLogger(l.log.With("pages"))

	return steps.WithState(ctx, steps.NewState(l.cfg, driver)), nil
}

func (l *Lifecycle) beforeStep(ctx context.Context, st *godog.Step) (context.Context, error) {
	run := runFrom(ctx)
	if run != nil && run.skipped {
		return ctx, nil
	}
	if err := ctx.Err(); err != nil {
		return ctx, fmt.Errorf("%w before %q: %v", ErrInterrupted, st.Text, err)
	}
	if run != nil {
		run.stepStart = l.now()
	}
	return ctx, nil
}

func (l *Lifecycle) afterStep(ctx context.Context, st *godog.Step, status godog.StepResultStatus, err error) (context.Context, error) {
	run := runFrom(ctx)
	if run == nil || status == godog.StepSkipped {
		return ctx, nil
	}
	run.steps++

	switch status {
	case godog.StepUndefined:
		run.incomplete = report.StatusUndefined
		return ctx, nil
	case godog.StepPending:
		run.incomplete = report.StatusPending
		return ctx, nil
	}

	if status == godog.StepFailed {
		run.failedStep = st.Text
		l.log.Debugf("step failed: %s: %v", st.Text, err)
		return ctx, nil
	}

	if elapsed := l.now().Sub(run.stepStart); elapsed > l.stepTimeout {
		run.failedStep = st.Text
		return ctx, fmt.Errorf("%w: %q took %s (limit %s)", ErrStepTimeout, st.Text, elapsed.Round(time.Millisecond), l.stepTimeout)
	}
	return ctx, nil
}

// AfterScenario captures failure artifacts, records the result and closes
// the browsing context. Artifact capture is best-effort; the context is
// always closed.
func (l *Lifecycle) AfterScenario(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
	run := runFrom(ctx)
	if run == nil {
		return ctx, nil
	}
	if run.session != nil {
		defer func() {
			if cerr := run.session.Close(); cerr != nil {
				l.log.Warnf("%s: %v", sc.Name, cerr)
			}
		}()
	}

	result := report.ScenarioResult{
		Name:       sc.Name,
		URI:        sc.Uri,
		Tags:       tagNames(sc),
		Status:     report.StatusPassed,
		FailedStep: run.failedStep,
		Steps:      run.steps,
		StartTime:  run.started,
		Duration:   l.now().Sub(run.started),
	}

	switch {
	case run.skipped || errors.Is(err, godog.ErrSkip) || errors.Is(err, ErrInterrupted):
		result.Status = report.StatusSkipped
	case errors.Is(err, godog.ErrUndefined):
		result.Status = report.StatusUndefined
		result.Error = err.Error()
	case errors.Is(err, godog.ErrPending):
		result.Status = report.StatusPending
		result.Error = err.Error()
	case err != nil:
		result.Status = report.StatusFailed
		result.Error = err.Error()
	case run.incomplete != "":
		result.Status = run.incomplete
	}

	if result.Status == report.StatusFailed && run.session != nil && l.cfg.Browser.ScreenshotOnFailure {
		ctx = l.captureFailure(ctx, sc, run.session, &result)
	}

	l.recorder.RecordScenario(result)

	switch result.Status {
	case report.StatusPassed:
		l.log.Successf("%s (%s)", sc.Name, result.Duration.Round(time.Millisecond))
	case report.StatusFailed:
		l.log.Errorf("%s: %s", sc.Name, result.Error)
	case report.StatusUndefined, report.StatusPending:
		l.log.Warnf("%s: %s step", sc.Name, result.Status)
	}

	return ctx, nil
}

// captureFailure saves and attaches a screenshot and a DOM snapshot. Errors
// are logged and otherwise ignored.
func (l *Lifecycle) captureFailure(ctx context.Context, sc *godog.Scenario, session *browser.Session, result *report.ScenarioResult) context.Context {
	at := l.now()

	shotPath := browser.ScreenshotPath(filepath.Join(l.opts.ArtifactsDir, "screenshots"), sc.Name, at)
	if data, err := session.Screenshot(shotPath); err != nil {
		l.log.Warnf("failed to capture screenshot for %q: %v", sc.Name, err)
	} else {
		ctx = godog.Attach(ctx, godog.Attachment{
			Body:      data,
			FileName:  filepath.Base(shotPath),
			MediaType: "image/png",
		})
		result.Screenshot = shotPath
		l.log.Infof("screenshot saved: %s", shotPath)
	}

	snap, err := session.Snapshot(l.opts.SnapshotLength)
	if err != nil {
		l.log.Warnf("failed to capture DOM for %q: %v", sc.Name, err)
		return ctx
	}

	domPath := filepath.Join(l.opts.ArtifactsDir, "dom", browser.ArtifactName(sc.Name, at)+".html")
	body := []byte(fmt.Sprintf("<!-- %s -->\n%s", snap.URL, snap.HTML))
	if err := writeArtifact(domPath, body); err != nil {
		l.log.Warnf("failed to save DOM for %q: %v", sc.Name, err)
		return ctx
	}
	result.DOM = domPath

	return godog.Attach(ctx, godog.Attachment{
		Body:      body,
		FileName:  filepath.Base(domPath),
		MediaType: "text/html",
	})
}

func writeArtifact(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func tagNames(sc *godog.Scenario) []string {
	if len(sc.Tags) == 0 {
		return nil
	}
	tags := make([]string, 0, len(sc.Tags))
	for _, tag := range sc.Tags {
		tags = append(tags, strings.TrimPrefix(tag.Name, "@"))
	}
	return tags
}
