// Package browser owns the Playwright side of an acceptance run.
//
// A run uses exactly one browser process and one fresh browsing context per
// scenario:
//
//  1. Runtime starts the Playwright driver (optionally installing browsers)
//  2. CreateBrowser launches the configured engine once for the whole run
//  3. NewSession opens an isolated context and page for each scenario
//  4. Session.Close releases the context when the scenario ends, pass or fail
//  5. Runtime.Stop closes the browser and the driver
//
// # Engines
//
// Only the engines Playwright ships are accepted: chromium, firefox and
// webkit. Any other name fails before the driver is touched, with an error
// that lists the supported set.
//
// # Failure artifacts
//
// Session.Screenshot writes a full-page PNG and Snapshot turns the page's DOM
// into a trimmed HTML document (scripts, styles and password values removed)
// so a failed scenario can be inspected without rerunning it.
//
// # Example Usage
//
//	rt := browser.NewRuntime()
//	if err := rt.Start(browser.StartOptions{}); err != nil {
//	    return err
//	}
//	defer rt.Stop()
//
//	b, err := rt.Launch("chromium", browser.LaunchOptions{Headless: true})
//	if err != nil {
//	    return err
//	}
//
//	session, err := browser.NewSession(b, browser.SessionOptions{Timeout: 30000})
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
package browser
