package suite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/hrm-acceptance/internal/hrmfake"
	"github.com/entrhq/hrm-acceptance/internal/pwfake"
	"github.com/entrhq/hrm-acceptance/pkg/config"
	"github.com/entrhq/hrm-acceptance/pkg/report"
)

const baseURL = "https://hrm.example/web/index.php"

const testEnv = `BASE_URL=https://hrm.example/web/index.php
USERNAME=Admin
PASSWORD=admin123
BROWSER=chromium
TIMEOUT=2000
SCREENSHOT_ON_FAILURE=true
`

const loginFeature = `@login
Feature: Login

  Background:
    Given I am on the login page

  @smoke
  Scenario: Successful login
    When I enter valid credentials
    Then I should be logged in successfully

  Scenario: Rejected login
    When I enter invalid credentials
    Then I should see an error message
`

// fakeLauncher hands out a pwfake browser driven by a simulated app.
type fakeLauncher struct {
	app      *hrmfake.App
	browser  *pwfake.Browser
	err      error
	launched int
	stopped  int

	// onPage runs before every page is created
	onPage func()
}

func (l *fakeLauncher) Launch(cfg *config.AppConfig) (playwright.Browser, func() error, error) {
	l.launched++
	if l.err != nil {
		return nil, nil, l.err
	}
	l.browser = &pwfake.Browser{PageFactory: func() *pwfake.Page {
		if l.onPage != nil {
			l.onPage()
		}
		return l.app.NewPage()
	}}
	return l.browser, func() error {
		l.stopped++
		return nil
	}, nil
}

type fixture struct {
	envDir    string
	artifacts string
	launcher  *fakeLauncher
	console   bytes.Buffer
	output    bytes.Buffer
	env       map[string]string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		envDir:    t.TempDir(),
		artifacts: t.TempDir(),
		launcher:  &fakeLauncher{app: hrmfake.New(baseURL, "Admin", "admin123")},
		env:       map[string]string{},
	}
	f.writeEnv(t, "test", testEnv)
	return f
}

func (f *fixture) writeEnv(t *testing.T, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.envDir, name+".env"), []byte(body), 0600))
}

func (f *fixture) lookup(key string) (string, bool) {
	v, ok := f.env[key]
	return v, ok
}

func (f *fixture) runner(t *testing.T, env string, feature string, mutate func(*config.Profile)) *Runner {
	t.Helper()
	profile := config.DefaultProfile()
	profile.Format = "progress"
	profile.ArtifactsDir = f.artifacts
	if mutate != nil {
		mutate(profile)
	}

	r, err := NewRunner(Options{
		Environment: env,
		EnvDir:      f.envDir,
		Profile:     profile,
		Lookup:      f.lookup,
		Console:     &f.console,
		Output:      &f.output,
		Features: fstest.MapFS{
			"login.feature": {Data: []byte(feature)},
		},
		Launcher: f.launcher,
	})
	require.NoError(t, err)
	return r
}

func (f *fixture) summary(t *testing.T) report.RunSummary {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.artifacts, "run.json"))
	require.NoError(t, err)

	var summary report.RunSummary
	require.NoError(t, json.Unmarshal(data, &summary))
	return summary
}

func TestRunPassing(t *testing.T) {
	f := newFixture(t)

	code := f.runner(t, "test", loginFeature, nil).Run(context.Background())
	require.Equal(t, ExitPassed, code, f.output.String())

	assert.Equal(t, 1, f.launcher.launched)
	assert.Equal(t, 1, f.launcher.stopped)
	assert.Len(t, f.launcher.browser.Created, 2)

	summary := f.summary(t)
	assert.Equal(t, "passed", summary.Status)
	assert.Equal(t, "test", summary.Environment)
	assert.Equal(t, baseURL, summary.BaseURL)
	assert.Equal(t, "Chromium", summary.Browser)
	assert.Equal(t, 2, summary.Metrics.Passed)
	assert.NotEmpty(t, summary.RunID)

	md, err := os.ReadFile(filepath.Join(f.artifacts, "summary.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "Successful login")
}

func TestRunFailingScenario(t *testing.T) {
	f := newFixture(t)
	f.launcher.app.NoConfirmation = true

	feature := `Feature: Employee
  Scenario: Add employee
    Given I am on the login page
    And I enter valid credentials
    When I add a new employee with required information
    Then the employee should be created successfully
`
	code := f.runner(t, "test", feature, nil).Run(context.Background())
	assert.Equal(t, ExitFailed, code)

	summary := f.summary(t)
	assert.Equal(t, "failed", summary.Status)
	require.Len(t, summary.Scenarios, 1)
	assert.NotEmpty(t, summary.Scenarios[0].Screenshot)
	assert.Equal(t, 1, f.launcher.stopped)
}

func TestRunTagsFilterScenarios(t *testing.T) {
	f := newFixture(t)

	code := f.runner(t, "test", loginFeature, func(p *config.Profile) {
		p.Tags = "@smoke"
	}).Run(context.Background())
	require.Equal(t, ExitPassed, code)

	summary := f.summary(t)
	require.Len(t, summary.Scenarios, 1)
	assert.Equal(t, "Successful login", summary.Scenarios[0].Name)
}

func TestRunDefaultsEnvironment(t *testing.T) {
	f := newFixture(t)
	f.writeEnv(t, config.DefaultEnvironment, testEnv)

	code := f.runner(t, "", loginFeature, nil).Run(context.Background())
	require.Equal(t, ExitPassed, code)

	assert.Contains(t, f.console.String(), "ENV not set")
	assert.Equal(t, config.DefaultEnvironment, f.summary(t).Environment)
}

func TestRunStartupFailures(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		envBody  string
		launch   error
		wantLog  string
		launched int
	}{
		{
			name:    "missing environment file",
			env:     "nowhere",
			wantLog: "environment file not found",
		},
		{
			name:    "missing required keys",
			env:     "partial",
			envBody: "BASE_URL=" + baseURL + "\n",
			wantLog: "USERNAME",
		},
		{
			name:    "unsupported browser",
			env:     "edge",
			envBody: "BASE_URL=" + baseURL + "\nUSERNAME=Admin\nPASSWORD=admin123\nBROWSER=edge\n",
			wantLog: "unsupported browser type",
		},
		{
			name:     "browser launch",
			env:      "test",
			launch:   errors.New("executable doesn't exist"),
			wantLog:  InstallHint,
			launched: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.envBody != "" {
				f.writeEnv(t, tt.env, tt.envBody)
			}
			f.launcher.err = tt.launch

			code := f.runner(t, tt.env, loginFeature, nil).Run(context.Background())
			assert.Equal(t, ExitStartup, code)
			assert.Contains(t, f.console.String(), tt.wantLog)
			assert.Equal(t, tt.launched, f.launcher.launched)

			summary := f.summary(t)
			assert.Equal(t, "error", summary.Status)
			assert.NotEmpty(t, summary.Error)
		})
	}
}

func TestRunCancelledBeforeStart(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	code := f.runner(t, "test", loginFeature, nil).Run(ctx)
	assert.Equal(t, ExitInterrupted, code)
	assert.Equal(t, 0, f.launcher.launched)

	summary := f.summary(t)
	assert.Equal(t, "interrupted", summary.Status)
	assert.Empty(t, summary.Scenarios)
}

func TestRunCancelledMidway(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.launcher.onPage = cancel

	code := f.runner(t, "test", loginFeature, nil).Run(ctx)
	assert.Equal(t, ExitInterrupted, code)
	assert.Len(t, f.launcher.browser.Created, 1, "no scenario may start after cancellation")
	assert.Equal(t, 1, f.launcher.stopped)

	summary := f.summary(t)
	assert.Equal(t, "interrupted", summary.Status)
	assert.Equal(t, 2, summary.Metrics.Skipped)
}

func TestRunLenientUndefinedStep(t *testing.T) {
	f := newFixture(t)

	feature := `Feature: Drafts
  Scenario: Has an undefined step
    Given I am on the login page
    When I do something nobody wrote yet
`
	code := f.runner(t, "test", feature, func(p *config.Profile) {
		p.Strict = false
	}).Run(context.Background())
	assert.Equal(t, ExitPassed, code)

	summary := f.summary(t)
	assert.Equal(t, "passed", summary.Status)
	require.Len(t, summary.Scenarios, 1)
	assert.Equal(t, report.StatusUndefined, summary.Scenarios[0].Status)
	assert.Empty(t, summary.Scenarios[0].Screenshot)
	assert.Equal(t, 1, summary.Metrics.Undefined)
}

func TestRunUnparsableFeature(t *testing.T) {
	f := newFixture(t)

	code := f.runner(t, "test", "Feature: Broken\n  Scenario: Broken\n    Given a step\n    Nonsense here\n", nil).Run(context.Background())
	assert.Equal(t, ExitStartup, code)
	assert.Equal(t, 1, f.launcher.stopped)
	assert.Equal(t, "error", f.summary(t).Status)
}

func TestNewRunnerRejectsInvalidProfile(t *testing.T) {
	profile := config.DefaultProfile()
	profile.Verbosity = "loud"

	_, err := NewRunner(Options{Profile: profile})
	assert.ErrorContains(t, err, "invalid verbosity")
}

func TestGodogOptions(t *testing.T) {
	features := fstest.MapFS{"a.feature": {Data: []byte(loginFeature)}}

	r, err := NewRunner(Options{Features: features, Launcher: &fakeLauncher{}})
	require.NoError(t, err)

	opts := r.godogOptions(context.Background())
	assert.Equal(t, 1, opts.Concurrency)
	assert.Equal(t, []string{"."}, opts.Paths)
	assert.Equal(t, features, opts.FS)
	assert.True(t, opts.Strict)

	r.profile.Paths = []string{"custom/features"}
	opts = r.godogOptions(context.Background())
	assert.Equal(t, []string{"custom/features"}, opts.Paths)
	assert.Nil(t, opts.FS)
}
