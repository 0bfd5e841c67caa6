// Package pwfake provides in-memory stand-ins for the playwright-go
// interfaces used by the suite, so page objects, hooks and step definitions
// can be tested without a browser.
//
// Each fake embeds the playwright interface it replaces. Only the methods the
// suite calls are implemented; calling anything else panics on the nil
// embedded value, which points straight at the missing override.
package pwfake

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// PNG is the body written by fake screenshots.
var PNG = []byte("\x89PNG\r\n\x1a\nfake")

// Page is a fake playwright.Page whose elements are configured by selector.
type Page struct {
	playwright.Page

	mu       sync.Mutex
	elements map[string]*Locator

	CurrentURL     string
	PageTitle      string
	HTML           string
	Visits         []string
	LoadWaits      int
	DefaultTimeout float64
	Screenshots    []playwright.PageScreenshotOptions
	ScreenshotErr  error
	ContentErr     error
	GotoErr        error
	Paused         []float64

	// OnGoto runs after a successful navigation
	OnGoto func(p *Page, url string)
}

// NewPage returns an empty page at about:blank.
func NewPage() *Page {
	return &Page{
		elements:   make(map[string]*Locator),
		CurrentURL: "about:blank",
	}
}

// Element returns the fake element for selector, creating a hidden one.
func (p *Page) Element(selector string) *Locator {
	p.mu.Lock()
	defer p.mu.Unlock()

	if l, ok := p.elements[selector]; ok {
		return l
	}
	l := &Locator{page: p, Selector: selector}
	p.elements[selector] = l
	return l
}

// Locator implements playwright.Page.
func (p *Page) Locator(selector string, options ...playwright.PageLocatorOptions) playwright.Locator {
	return p.Element(selector)
}

// Goto implements playwright.Page.
func (p *Page) Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error) {
	if p.GotoErr != nil {
		return nil, p.GotoErr
	}
	p.Visits = append(p.Visits, url)
	p.CurrentURL = url
	if p.OnGoto != nil {
		p.OnGoto(p, url)
	}
	return nil, nil
}

// WaitForLoadState implements playwright.Page.
func (p *Page) WaitForLoadState(options ...playwright.PageWaitForLoadStateOptions) error {
	p.LoadWaits++
	return nil
}

// WaitForURL implements playwright.Page. Strings match as substrings,
// *regexp.Regexp values by pattern.
func (p *Page) WaitForURL(url interface{}, options ...playwright.PageWaitForURLOptions) error {
	var matched bool
	switch want := url.(type) {
	case string:
		matched = strings.Contains(p.CurrentURL, want)
	case *regexp.Regexp:
		matched = want.MatchString(p.CurrentURL)
	}
	if !matched {
		return timeoutError("Page.waitForURL", timeoutOf(options))
	}
	return nil
}

// URL implements playwright.Page.
func (p *Page) URL() string {
	return p.CurrentURL
}

// Title implements playwright.Page.
func (p *Page) Title() (string, error) {
	return p.PageTitle, nil
}

// Content implements playwright.Page.
func (p *Page) Content() (string, error) {
	if p.ContentErr != nil {
		return "", p.ContentErr
	}
	return p.HTML, nil
}

// Screenshot implements playwright.Page and writes PNG to the requested path.
func (p *Page) Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error) {
	if p.ScreenshotErr != nil {
		return nil, p.ScreenshotErr
	}
	var opts playwright.PageScreenshotOptions
	if len(options) > 0 {
		opts = options[0]
	}
	p.Screenshots = append(p.Screenshots, opts)
	if opts.Path != nil {
		if err := os.MkdirAll(filepath.Dir(*opts.Path), 0755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(*opts.Path, PNG, 0600); err != nil {
			return nil, err
		}
	}
	return PNG, nil
}

// SetDefaultTimeout implements playwright.Page.
func (p *Page) SetDefaultTimeout(timeout float64) {
	p.DefaultTimeout = timeout
}

// WaitForTimeout implements playwright.Page without sleeping.
func (p *Page) WaitForTimeout(timeout float64) {
	p.Paused = append(p.Paused, timeout)
}

// pwLocator names the embedded interface so its field does not collide
// with the Locator method.
type pwLocator = playwright.Locator

// Locator is a fake element handle. Visible, Text and Matches describe what
// the page currently shows; the remaining fields record interactions.
type Locator struct {
	pwLocator

	page     *Page
	Selector string

	Visible bool
	Text    string
	Matches int

	Value        string
	Fills        []string
	Clears       int
	Clicks       int
	WaitTimeouts []float64

	// OnClick runs after a click, e.g. to simulate a page transition
	OnClick func(p *Page)
}

// Show makes the element visible with text.
func (l *Locator) Show(text string) *Locator {
	l.Visible = true
	l.Text = text
	if l.Matches == 0 {
		l.Matches = 1
	}
	return l
}

// Hide makes the element disappear.
func (l *Locator) Hide() *Locator {
	l.Visible = false
	l.Matches = 0
	return l
}

// WaitFor implements playwright.Locator.
func (l *Locator) WaitFor(options ...playwright.LocatorWaitForOptions) error {
	state := "visible"
	var timeout float64
	if len(options) > 0 {
		if options[0].State != nil {
			state = string(*options[0].State)
		}
		if options[0].Timeout != nil {
			timeout = *options[0].Timeout
		}
	}
	l.WaitTimeouts = append(l.WaitTimeouts, timeout)

	switch state {
	case "visible":
		if l.Visible {
			return nil
		}
	case "hidden", "detached":
		if !l.Visible {
			return nil
		}
	case "attached":
		if l.Matches > 0 || l.Visible {
			return nil
		}
	}
	return timeoutError(fmt.Sprintf("Locator.waitFor(%s) waiting for %s", l.Selector, state), timeout)
}

// Click implements playwright.Locator.
func (l *Locator) Click(options ...playwright.LocatorClickOptions) error {
	if !l.Visible {
		return timeoutError("Locator.click("+l.Selector+")", 0)
	}
	l.Clicks++
	if l.OnClick != nil {
		l.OnClick(l.page)
	}
	return nil
}

// Fill implements playwright.Locator.
func (l *Locator) Fill(value string, options ...playwright.LocatorFillOptions) error {
	l.Value = value
	l.Fills = append(l.Fills, value)
	return nil
}

// Clear implements playwright.Locator.
func (l *Locator) Clear(options ...playwright.LocatorClearOptions) error {
	l.Value = ""
	l.Clears++
	return nil
}

// TextContent implements playwright.Locator.
func (l *Locator) TextContent(options ...playwright.LocatorTextContentOptions) (string, error) {
	return l.Text, nil
}

// Count implements playwright.Locator.
func (l *Locator) Count() (int, error) {
	return l.Matches, nil
}

// First implements playwright.Locator; fakes stand for a single element.
func (l *Locator) First() playwright.Locator {
	return l
}

// Context is a fake playwright.BrowserContext.
type Context struct {
	playwright.BrowserContext

	Initial  []playwright.Page
	Opened   []*Page
	Closes   int
	CloseErr error

	newPage func() *Page
}

// Pages implements playwright.BrowserContext.
func (c *Context) Pages() []playwright.Page {
	pages := append([]playwright.Page{}, c.Initial...)
	for _, p := range c.Opened {
		pages = append(pages, p)
	}
	return pages
}

// NewPage implements playwright.BrowserContext.
func (c *Context) NewPage() (playwright.Page, error) {
	p := c.newPage()
	c.Opened = append(c.Opened, p)
	return p, nil
}

// Close implements playwright.BrowserContext.
func (c *Context) Close(options ...playwright.BrowserContextCloseOptions) error {
	c.Closes++
	return c.CloseErr
}

// Browser is a fake playwright.Browser handing out fake contexts.
type Browser struct {
	playwright.Browser

	Created        []*Context
	ContextOptions []playwright.BrowserNewContextOptions
	NewContextErr  error
	Closes         int

	// PageFactory builds the page for each new context (default: NewPage)
	PageFactory func() *Page
}

// NewContext implements playwright.Browser.
func (b *Browser) NewContext(options ...playwright.BrowserNewContextOptions) (playwright.BrowserContext, error) {
	if b.NewContextErr != nil {
		return nil, b.NewContextErr
	}
	var opts playwright.BrowserNewContextOptions
	if len(options) > 0 {
		opts = options[0]
	}
	b.ContextOptions = append(b.ContextOptions, opts)

	factory := b.PageFactory
	if factory == nil {
		factory = NewPage
	}
	c := &Context{newPage: factory}
	b.Created = append(b.Created, c)
	return c, nil
}

// Close implements playwright.Browser.
func (b *Browser) Close(options ...playwright.BrowserCloseOptions) error {
	b.Closes++
	return nil
}

// LastPage returns the page opened in the most recent context, or nil.
func (b *Browser) LastPage() *Page {
	if len(b.Created) == 0 {
		return nil
	}
	c := b.Created[len(b.Created)-1]
	if len(c.Opened) == 0 {
		return nil
	}
	return c.Opened[len(c.Opened)-1]
}

func timeoutError(op string, timeout float64) error {
	return fmt.Errorf("%w: %s: Timeout %.0fms exceeded", playwright.ErrTimeout, op, timeout)
}

func timeoutOf(options []playwright.PageWaitForURLOptions) float64 {
	if len(options) > 0 && options[0].Timeout != nil {
		return *options[0].Timeout
	}
	return 0
}
