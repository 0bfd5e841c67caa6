package browser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// Engine names a browser engine Playwright can launch.
type Engine string

const (
	Chromium Engine = "chromium"
	Firefox  Engine = "firefox"
	WebKit   Engine = "webkit"
)

// ErrUnsupportedEngine is wrapped by UnsupportedEngineError.
var ErrUnsupportedEngine = errors.New("unsupported browser type")

// UnsupportedEngineError names the rejected engine and the supported set.
type UnsupportedEngineError struct {
	Name string
}

func (e *UnsupportedEngineError) Error() string {
	names := make([]string, 0, 3)
	for _, engine := range SupportedEngines() {
		names = append(names, string(engine))
	}
	return fmt.Sprintf("unsupported browser type: %s. Supported types: %s", e.Name, strings.Join(names, ", "))
}

func (e *UnsupportedEngineError) Unwrap() error {
	return ErrUnsupportedEngine
}

// SupportedEngines returns the engines accepted by CreateBrowser.
func SupportedEngines() []Engine {
	return []Engine{Chromium, Firefox, WebKit}
}

// ParseEngine resolves a case-insensitive engine name.
func ParseEngine(name string) (Engine, error) {
	engine := Engine(strings.ToLower(strings.TrimSpace(name)))
	for _, supported := range SupportedEngines() {
		if engine == supported {
			return engine, nil
		}
	}
	return "", &UnsupportedEngineError{Name: name}
}

// IsValidEngine reports whether name is a supported engine.
func IsValidEngine(name string) bool {
	_, err := ParseEngine(name)
	return err == nil
}

// DisplayName returns a human-readable engine name for logs.
func (e Engine) DisplayName() string {
	switch e {
	case Chromium:
		return "Chromium"
	case Firefox:
		return "Firefox"
	case WebKit:
		return "WebKit (Safari)"
	default:
		return string(e)
	}
}

// browserType picks the Playwright launcher for engine.
func browserType(pw *playwright.Playwright, engine Engine) playwright.BrowserType {
	switch engine {
	case Firefox:
		return pw.Firefox
	case WebKit:
		return pw.WebKit
	default:
		return pw.Chromium
	}
}

// CreateBrowser launches the named engine. The name is validated before the
// driver is used, so an unsupported name fails even without a running driver.
// Launch failures are returned as-is; callers decide whether to abort.
func CreateBrowser(pw *playwright.Playwright, name string, opts LaunchOptions) (playwright.Browser, error) {
	engine, err := ParseEngine(name)
	if err != nil {
		return nil, err
	}

	if pw == nil {
		return nil, fmt.Errorf("playwright is not running")
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	}
	if opts.SlowMo > 0 {
		launchOpts.SlowMo = playwright.Float(opts.SlowMo)
	}

	b, err := browserType(pw, engine).Launch(launchOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to launch %s browser: %w", engine.DisplayName(), err)
	}

	return b, nil
}
