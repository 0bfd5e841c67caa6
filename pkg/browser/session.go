package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// Session is one scenario's isolated browsing context and its page.
type Session struct {
	// Context is the isolated cookie/storage jar for the scenario
	Context playwright.BrowserContext

	// Page is the page every page object in the scenario drives
	Page playwright.Page

	closeOnce sync.Once
	closeErr  error
}

// NewSession opens a fresh context on b, takes its first page (opening one
// if the context has none) and applies the default timeout.
func NewSession(b playwright.Browser, opts SessionOptions) (*Session, error) {
	if b == nil {
		return nil, fmt.Errorf("browser is not running")
	}

	viewport := opts.Viewport
	if viewport == nil {
		viewport = &Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	context, err := b.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  viewport.Width,
			Height: viewport.Height,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	var page playwright.Page
	if pages := context.Pages(); len(pages) > 0 {
		page = pages[0]
	} else {
		page, err = context.NewPage()
		if err != nil {
			_ = context.Close()
			return nil, fmt.Errorf("failed to create page: %w", err)
		}
	}

	page.SetDefaultTimeout(timeout)

	return &Session{
		Context: context,
		Page:    page,
	}, nil
}

// Screenshot writes a full-page PNG to path, creating its directory, and
// returns the image bytes.
func (s *Session) Screenshot(path string) ([]byte, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	data, err := s.Page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return data, nil
}

// Snapshot returns the page's DOM cleaned for a failure report.
func (s *Session) Snapshot(maxLength int) (*DOMSnapshot, error) {
	raw, err := s.Page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read page content: %w", err)
	}

	snap, err := CleanDOM(raw, maxLength)
	if err != nil {
		return nil, err
	}
	snap.URL = s.Page.URL()
	return snap, nil
}

// Close closes the browsing context. Only the first call does any work.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.Context == nil {
			return
		}
		if err := s.Context.Close(); err != nil {
			s.closeErr = fmt.Errorf("failed to close context: %w", err)
		}
	})
	return s.closeErr
}
