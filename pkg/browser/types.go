package browser

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// LaunchOptions configures how the browser process is started.
type LaunchOptions struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// SlowMo delays every browser operation (in milliseconds)
	SlowMo float64
}

// SessionOptions configures a per-scenario browsing context.
type SessionOptions struct {
	// Viewport sets the context's viewport size (nil means the default)
	Viewport *Viewport

	// Timeout sets the page's default operation timeout (in milliseconds)
	Timeout float64
}

// StartOptions configures the Playwright driver.
type StartOptions struct {
	// Install downloads the driver and browser binaries before starting
	Install bool

	// Browsers limits installation to the named engines (empty means all)
	Browsers []string

	// Verbose shows installer output
	Verbose bool
}

// Default values for sessions
const (
	DefaultTimeout        = 30000.0 // 30 seconds in milliseconds
	DefaultViewportWidth  = 1920
	DefaultViewportHeight = 1080

	// DefaultSnapshotLength caps cleaned DOM snapshots (bytes)
	DefaultSnapshotLength = 200000
)
