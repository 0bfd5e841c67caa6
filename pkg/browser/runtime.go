package browser

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// Runtime owns the Playwright driver process and the browser launched for
// the run.
type Runtime struct {
	mu         sync.Mutex
	playwright *playwright.Playwright
	browser    playwright.Browser
	started    bool
}

// NewRuntime creates a runtime. Start must be called before Launch.
func NewRuntime() *Runtime {
	return &Runtime{}
}

// Start runs the Playwright driver, installing it first when requested.
func (r *Runtime) Start(opts StartOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return nil
	}

	runOpts := &playwright.RunOptions{
		Browsers: opts.Browsers,
		Verbose:  opts.Verbose,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
	if opts.Verbose {
		runOpts.Stdout = os.Stdout
		runOpts.Stderr = os.Stderr
	}

	if opts.Install {
		if err := playwright.Install(runOpts); err != nil {
			return fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	r.playwright = pw
	r.started = true
	return nil
}

// Launch starts the run's single browser. Calling it twice is an error.
func (r *Runtime) Launch(engine string, opts LaunchOptions) (playwright.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		return nil, fmt.Errorf("runtime not started")
	}
	if r.browser != nil {
		return nil, fmt.Errorf("browser already launched")
	}

	b, err := CreateBrowser(r.playwright, engine, opts)
	if err != nil {
		return nil, err
	}

	r.browser = b
	return b, nil
}

// Browser returns the launched browser, or nil.
func (r *Runtime) Browser() playwright.Browser {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.browser
}

// Stop closes the browser (if one was launched) and stops the driver.
func (r *Runtime) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	if r.browser != nil {
		if err := r.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
		r.browser = nil
	}

	if r.started && r.playwright != nil {
		if err := r.playwright.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
		r.playwright = nil
		r.started = false
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors stopping runtime: %v", errs)
	}
	return nil
}
