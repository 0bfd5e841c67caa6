package pages

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/hrm-acceptance/pkg/browser"
	"github.com/entrhq/hrm-acceptance/pkg/logging"
)

// DefaultProbeTimeout bounds IsVisible when no timeout is given.
const DefaultProbeTimeout = 5 * time.Second

// Driver is the set of page operations shared by every page object. It
// holds the scenario's page and the configured default timeout; page
// objects hold selectors and call into it.
//
// Every method taking a timeout treats 0 as "use the default".
type Driver struct {
	page    playwright.Page
	baseURL string
	timeout time.Duration
	log     *logging.Logger
}

// NewDriver binds page operations to page.
func NewDriver(page playwright.Page, baseURL string, timeout time.Duration) *Driver {
	if timeout <= 0 {
		timeout = time.Duration(browser.DefaultTimeout) * time.Millisecond
	}
	return &Driver{
		page:    page,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		timeout: timeout,
		log:     logging.Discard(),
	}
}

// WithLogger returns a copy of d that logs through l.
func (d *Driver) WithLogger(l *logging.Logger) *Driver {
	clone := *d
	if l != nil {
		clone.log = l
	}
	return &clone
}

// Page returns the underlying playwright page.
func (d *Driver) Page() playwright.Page {
	return d.page
}

// Timeout returns the default wait timeout.
func (d *Driver) Timeout() time.Duration {
	return d.timeout
}

// URLFor joins path onto the base URL.
func (d *Driver) URLFor(path string) string {
	if path == "" {
		return d.baseURL
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return d.baseURL + path
}

func (d *Driver) resolve(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return d.timeout
	}
	return timeout
}

func millis(d time.Duration) float64 {
	return float64(d.Milliseconds())
}

func (d *Driver) waitFor(selector string, state *playwright.WaitForSelectorState, timeout time.Duration) error {
	timeout = d.resolve(timeout)
	err := d.page.Locator(selector).WaitFor(playwright.LocatorWaitForOptions{
		State:   state,
		Timeout: playwright.Float(millis(timeout)),
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return &WaitError{
			Selector: selector,
			State:    string(*state),
			Timeout:  timeout,
			Err:      err,
		}
	}
	return fmt.Errorf("wait for %s failed: %w", selector, err)
}

// WaitForElement waits for selector to become visible.
func (d *Driver) WaitForElement(selector string, timeout time.Duration) error {
	return d.waitFor(selector, playwright.WaitForSelectorStateVisible, timeout)
}

// WaitForElementHidden waits for selector to become hidden or detached.
func (d *Driver) WaitForElementHidden(selector string, timeout time.Duration) error {
	return d.waitFor(selector, playwright.WaitForSelectorStateHidden, timeout)
}

// Click waits for selector and clicks it.
func (d *Driver) Click(selector string, timeout time.Duration) error {
	if err := d.WaitForElement(selector, timeout); err != nil {
		return err
	}
	if err := d.page.Locator(selector).Click(); err != nil {
		return fmt.Errorf("click %s failed: %w", selector, err)
	}
	return nil
}

// Fill waits for selector, clears it and types value.
func (d *Driver) Fill(selector, value string, timeout time.Duration) error {
	if err := d.WaitForElement(selector, timeout); err != nil {
		return err
	}
	loc := d.page.Locator(selector)
	if err := loc.Clear(); err != nil {
		return fmt.Errorf("clear %s failed: %w", selector, err)
	}
	if err := loc.Fill(value); err != nil {
		return fmt.Errorf("fill %s failed: %w", selector, err)
	}
	return nil
}

// Text waits for selector and returns its trimmed text content.
func (d *Driver) Text(selector string) (string, error) {
	if err := d.WaitForElement(selector, 0); err != nil {
		return "", err
	}
	text, err := d.page.Locator(selector).TextContent()
	if err != nil {
		return "", fmt.Errorf("read text of %s failed: %w", selector, err)
	}
	return strings.TrimSpace(text), nil
}

// IsVisible reports whether selector becomes visible within timeout
// (DefaultProbeTimeout when 0). Absence is a false result, never an error.
func (d *Driver) IsVisible(selector string, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	err := d.page.Locator(selector).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(millis(timeout)),
	})
	if err != nil {
		d.log.Debugf("%s not visible within %s: %v", selector, timeout, err)
		return false
	}
	return true
}

// WaitForURL waits until the page URL matches pattern, which may be a
// string glob or a *regexp.Regexp.
func (d *Driver) WaitForURL(pattern interface{}, timeout time.Duration) error {
	timeout = d.resolve(timeout)
	err := d.page.WaitForURL(pattern, playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(millis(timeout)),
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return &WaitError{
			Selector: fmt.Sprintf("url %v", pattern),
			State:    "reached",
			Timeout:  timeout,
			Err:      err,
		}
	}
	return fmt.Errorf("wait for url %v failed: %w", pattern, err)
}

// WaitForElementCount checks that selector matches exactly expected
// elements. Expecting zero of an absent element succeeds immediately;
// otherwise the first match is awaited before counting.
func (d *Driver) WaitForElementCount(selector string, expected int, timeout time.Duration) error {
	loc := d.page.Locator(selector)

	if expected == 0 {
		found, err := loc.Count()
		if err != nil {
			return fmt.Errorf("count %s failed: %w", selector, err)
		}
		if found != 0 {
			return &CountMismatchError{Selector: selector, Expected: expected, Found: found}
		}
		return nil
	}

	timeout = d.resolve(timeout)
	err := loc.First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(millis(timeout)),
	})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return &WaitError{Selector: selector, State: "attached", Timeout: timeout, Err: err}
		}
		return fmt.Errorf("wait for %s failed: %w", selector, err)
	}

	found, err := loc.Count()
	if err != nil {
		return fmt.Errorf("count %s failed: %w", selector, err)
	}
	if found != expected {
		return &CountMismatchError{Selector: selector, Expected: expected, Found: found}
	}
	return nil
}

// VerifyText checks that selector's text contains expected.
func (d *Driver) VerifyText(selector, expected string) error {
	actual, err := d.Text(selector)
	if err != nil {
		return err
	}
	if !strings.Contains(actual, expected) {
		return &AssertionError{Selector: selector, Expected: expected, Actual: actual}
	}
	return nil
}

// Navigate loads url and waits for the network to go idle.
func (d *Driver) Navigate(url string) error {
	d.log.Debugf("navigating to %s", url)
	_, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	})
	if err != nil {
		return fmt.Errorf("navigate to %s failed: %w", url, err)
	}
	return nil
}

// WaitForLoad waits for the network to go idle.
func (d *Driver) WaitForLoad() error {
	err := d.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	})
	if err != nil {
		return fmt.Errorf("wait for page load failed: %w", err)
	}
	return nil
}

// Title returns the page title.
func (d *Driver) Title() (string, error) {
	return d.page.Title()
}

// URL returns the current page URL.
func (d *Driver) URL() string {
	return d.page.URL()
}

// Pause blocks for the given duration on the page's clock.
func (d *Driver) Pause(wait time.Duration) {
	d.page.WaitForTimeout(millis(wait))
}

// Screenshot saves a full-page screenshot as dir/<name>-<unix millis>.png
// and returns the path.
func (d *Driver) Screenshot(name, dir string) (string, error) {
	path := browser.ScreenshotPath(dir, name, time.Now())
	_, err := d.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("screenshot failed: %w", err)
	}
	return path, nil
}
