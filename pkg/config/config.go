package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// EnvVarEnvironment selects which environments/<name>.env file is loaded
	EnvVarEnvironment = "ENV"

	// DefaultEnvironment is used when ENV is not set
	DefaultEnvironment = "staging"

	// DefaultEnvDir is the directory searched for environment files
	DefaultEnvDir = "environments"

	defaultBrowser = "chromium"
	defaultTimeout = 30 * time.Second

	// minStepTimeout is the floor applied to the per-step timeout
	minStepTimeout = 30 * time.Second

	// maxMillis bounds TIMEOUT and SLOW_MO
	maxMillis = int64(time.Hour / time.Millisecond)
)

// Environment file keys.
const (
	KeyBaseURL             = "BASE_URL"
	KeyUsername            = "USERNAME"
	KeyPassword            = "PASSWORD"
	KeyBrowser             = "BROWSER"
	KeyHeadless            = "HEADLESS"
	KeyTimeout             = "TIMEOUT"
	KeySlowMo              = "SLOW_MO"
	KeyScreenshotOnFailure = "SCREENSHOT_ON_FAILURE"
)

// Credentials is a username/password pair for the application under test.
type Credentials struct {
	Username string
	Password string
}

// BrowserConfig controls how the browser is launched and how long page
// operations may wait.
type BrowserConfig struct {
	// Engine is the lower-cased browser engine name (chromium, firefox, webkit)
	Engine string

	// Headless runs the browser without a window
	Headless bool

	// Timeout is the default wait for every page operation
	Timeout time.Duration

	// SlowMo delays each browser operation, useful when watching a headed run
	SlowMo time.Duration

	// ScreenshotOnFailure captures a full-page screenshot when a scenario fails
	ScreenshotOnFailure bool
}

// TimeoutMillis returns Timeout in the float milliseconds playwright expects.
func (b BrowserConfig) TimeoutMillis() float64 {
	return float64(b.Timeout.Milliseconds())
}

// SlowMoMillis returns SlowMo in the float milliseconds playwright expects.
func (b BrowserConfig) SlowMoMillis() float64 {
	return float64(b.SlowMo.Milliseconds())
}

// AppConfig is the resolved configuration for one run. It is built once by
// Load and only read afterwards; mutating it after handing it to a
// collaborator is unsupported. Components that keep it for the whole run
// (hooks.New) take a copy.
type AppConfig struct {
	Environment string
	EnvFile     string
	BaseURL     string
	Credentials Credentials
	Browser     BrowserConfig
}

// StepTimeout is the longest a single scenario step may run.
func (c *AppConfig) StepTimeout() time.Duration {
	if c.Browser.Timeout > minStepTimeout {
		return c.Browser.Timeout
	}
	return minStepTimeout
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// Environment overrides the ENV variable when non-empty
	Environment string

	// Dir is the directory holding <env>.env files (default: environments)
	Dir string

	// Lookup reads process environment variables (default: os.LookupEnv)
	Lookup func(string) (string, bool)
}

// ResolveEnvironment returns the environment name from ENV, falling back to
// DefaultEnvironment. defaulted reports whether the fallback was used so the
// caller can warn about it.
func ResolveEnvironment(lookup func(string) (string, bool)) (name string, defaulted bool) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvVarEnvironment); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), false
	}
	return DefaultEnvironment, true
}

// EnvFilePath returns the absolute path of the settings file for env.
func EnvFilePath(dir, env string) (string, error) {
	if dir == "" {
		dir = DefaultEnvDir
	}
	path, err := filepath.Abs(filepath.Join(dir, env+".env"))
	if err != nil {
		return "", fmt.Errorf("failed to resolve environment file path: %w", err)
	}
	return path, nil
}

// Load reads the environment file for the selected environment and builds
// the run configuration. Values already present in the process environment
// win over values from the file.
func Load(opts LoadOptions) (*AppConfig, error) {
	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	env := opts.Environment
	if env == "" {
		env, _ = ResolveEnvironment(lookup)
	}

	path, err := EnvFilePath(opts.Dir, env)
	if err != nil {
		return nil, err
	}

	if _, statErr := os.Stat(path); statErr != nil {
		if os.IsNotExist(statErr) {
			return nil, &EnvFileError{Path: path, Err: ErrEnvFileNotFound}
		}
		return nil, &EnvFileError{Path: path, Err: statErr}
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return nil, &EnvFileError{Path: path, Err: err}
	}

	get := func(key string) string {
		if v, ok := lookup(key); ok {
			return v
		}
		return values[key]
	}

	return build(env, path, get)
}

// build assembles an AppConfig from a key getter.
func build(env, path string, get func(string) string) (*AppConfig, error) {
	var missing []string
	required := func(key string) string {
		v := strings.TrimSpace(get(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	baseURL := strings.TrimRight(required(KeyBaseURL), "/")
	username := required(KeyUsername)
	password := required(KeyPassword)
	if len(missing) > 0 {
		return nil, &MissingKeysError{Path: path, Keys: missing}
	}

	timeout, err := millis(get(KeyTimeout), defaultTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", KeyTimeout, err)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	slowMo, err := millis(get(KeySlowMo), 0)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", KeySlowMo, err)
	}
	if slowMo < 0 {
		slowMo = 0
	}

	engine := strings.ToLower(strings.TrimSpace(get(KeyBrowser)))
	if engine == "" {
		engine = defaultBrowser
	}

	return &AppConfig{
		Environment: env,
		EnvFile:     path,
		BaseURL:     baseURL,
		Credentials: Credentials{
			Username: username,
			Password: password,
		},
		Browser: BrowserConfig{
			Engine:              engine,
			Headless:            get(KeyHeadless) != "false",
			Timeout:             timeout,
			SlowMo:              slowMo,
			ScreenshotOnFailure: get(KeyScreenshotOnFailure) != "false",
		},
	}, nil
}

// millis parses a millisecond count, returning def for an empty value.
func millis(raw string, def time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("expected milliseconds, got %q", raw)
	}
	if n > maxMillis || n < -maxMillis {
		return 0, fmt.Errorf("%d ms exceeds the %d ms limit", n, maxMillis)
	}
	return time.Duration(n) * time.Millisecond, nil
}
