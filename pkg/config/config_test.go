package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeEnvFile writes <dir>/<env>.env with the given body.
func writeEnvFile(t *testing.T, dir, env, body string) string {
	t.Helper()
	path := filepath.Join(dir, env+".env")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	return path
}

// mapLookup returns a lookup func backed by a map, isolating tests from the
// real process environment.
func mapLookup(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

const validEnv = `BASE_URL=https://hr.example.com/web/index.php/
USERNAME=Admin
PASSWORD=admin123
`

func TestResolveEnvironment(t *testing.T) {
	t.Run("uses ENV when set", func(t *testing.T) {
		name, defaulted := ResolveEnvironment(mapLookup(map[string]string{"ENV": "qa"}))
		assert.Equal(t, "qa", name)
		assert.False(t, defaulted)
	})

	t.Run("falls back to staging", func(t *testing.T) {
		name, defaulted := ResolveEnvironment(mapLookup(nil))
		assert.Equal(t, DefaultEnvironment, name)
		assert.True(t, defaulted)
	})

	t.Run("blank ENV counts as unset", func(t *testing.T) {
		name, defaulted := ResolveEnvironment(mapLookup(map[string]string{"ENV": "  "}))
		assert.Equal(t, DefaultEnvironment, name)
		assert.True(t, defaulted)
	})
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults for optional keys", func(t *testing.T) {
		dir := t.TempDir()
		writeEnvFile(t, dir, "staging", validEnv)

		cfg, err := Load(LoadOptions{Dir: dir, Lookup: mapLookup(nil)})
		require.NoError(t, err)

		assert.Equal(t, "staging", cfg.Environment)
		assert.Equal(t, "https://hr.example.com/web/index.php", cfg.BaseURL)
		assert.Equal(t, Credentials{Username: "Admin", Password: "admin123"}, cfg.Credentials)
		assert.Equal(t, "chromium", cfg.Browser.Engine)
		assert.True(t, cfg.Browser.Headless)
		assert.Equal(t, 30*time.Second, cfg.Browser.Timeout)
		assert.Equal(t, time.Duration(0), cfg.Browser.SlowMo)
		assert.True(t, cfg.Browser.ScreenshotOnFailure)
		assert.True(t, filepath.IsAbs(cfg.EnvFile))
	})

	t.Run("parses every key", func(t *testing.T) {
		dir := t.TempDir()
		writeEnvFile(t, dir, "qa", validEnv+`BROWSER=Firefox
HEADLESS=false
TIMEOUT=45000
SLOW_MO=250
SCREENSHOT_ON_FAILURE=false
`)

		cfg, err := Load(LoadOptions{Environment: "qa", Dir: dir, Lookup: mapLookup(nil)})
		require.NoError(t, err)

		assert.Equal(t, "firefox", cfg.Browser.Engine)
		assert.False(t, cfg.Browser.Headless)
		assert.Equal(t, 45*time.Second, cfg.Browser.Timeout)
		assert.Equal(t, 250*time.Millisecond, cfg.Browser.SlowMo)
		assert.False(t, cfg.Browser.ScreenshotOnFailure)
		assert.Equal(t, 45000.0, cfg.Browser.TimeoutMillis())
		assert.Equal(t, 250.0, cfg.Browser.SlowMoMillis())
	})

	t.Run("process environment wins over file", func(t *testing.T) {
		dir := t.TempDir()
		writeEnvFile(t, dir, "staging", validEnv)

		cfg, err := Load(LoadOptions{Dir: dir, Lookup: mapLookup(map[string]string{
			"USERNAME": "ci-user",
			"BROWSER":  "webkit",
		})})
		require.NoError(t, err)

		assert.Equal(t, "ci-user", cfg.Credentials.Username)
		assert.Equal(t, "webkit", cfg.Browser.Engine)
	})

	t.Run("ENV selects the file", func(t *testing.T) {
		dir := t.TempDir()
		writeEnvFile(t, dir, "prod", validEnv)

		cfg, err := Load(LoadOptions{Dir: dir, Lookup: mapLookup(map[string]string{"ENV": "prod"})})
		require.NoError(t, err)
		assert.Equal(t, "prod", cfg.Environment)
	})

	t.Run("missing file names the resolved path", func(t *testing.T) {
		dir := t.TempDir()

		_, err := Load(LoadOptions{Environment: "nowhere", Dir: dir, Lookup: mapLookup(nil)})
		require.Error(t, err)

		assert.True(t, errors.Is(err, ErrEnvFileNotFound))
		expected, _ := filepath.Abs(filepath.Join(dir, "nowhere.env"))
		assert.Contains(t, err.Error(), expected)

		var fileErr *EnvFileError
		require.True(t, errors.As(err, &fileErr))
		assert.Equal(t, expected, fileErr.Path)
	})

	t.Run("missing required keys are all reported", func(t *testing.T) {
		dir := t.TempDir()
		writeEnvFile(t, dir, "staging", "BASE_URL=https://hr.example.com\n")

		_, err := Load(LoadOptions{Dir: dir, Lookup: mapLookup(nil)})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingRequired))

		var keysErr *MissingKeysError
		require.True(t, errors.As(err, &keysErr))
		assert.Equal(t, []string{KeyUsername, KeyPassword}, keysErr.Keys)
		assert.Contains(t, err.Error(), "USERNAME, PASSWORD")
	})

	t.Run("invalid timeout is rejected", func(t *testing.T) {
		dir := t.TempDir()
		writeEnvFile(t, dir, "staging", validEnv+"TIMEOUT=soon\n")

		_, err := Load(LoadOptions{Dir: dir, Lookup: mapLookup(nil)})
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), KeyTimeout))
	})

	for _, tc := range []struct{ key, value string }{
		{KeyTimeout, "9223372036854775807"},
		{KeyTimeout, "-9223372036854775807"},
		{KeyTimeout, "3600001"},
		{KeySlowMo, "99999999999999"},
	} {
		t.Run("out of range "+tc.key+"="+tc.value+" is rejected", func(t *testing.T) {
			dir := t.TempDir()
			writeEnvFile(t, dir, "staging", validEnv+tc.key+"="+tc.value+"\n")

			_, err := Load(LoadOptions{Dir: dir, Lookup: mapLookup(nil)})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.key)
		})
	}

	t.Run("one hour timeout is accepted", func(t *testing.T) {
		dir := t.TempDir()
		writeEnvFile(t, dir, "staging", validEnv+"TIMEOUT=3600000\n")

		cfg, err := Load(LoadOptions{Dir: dir, Lookup: mapLookup(nil)})
		require.NoError(t, err)
		assert.Equal(t, time.Hour, cfg.Browser.Timeout)
	})

	t.Run("non-positive timeout falls back to default", func(t *testing.T) {
		dir := t.TempDir()
		writeEnvFile(t, dir, "staging", validEnv+"TIMEOUT=0\n")

		cfg, err := Load(LoadOptions{Dir: dir, Lookup: mapLookup(nil)})
		require.NoError(t, err)
		assert.Equal(t, defaultTimeout, cfg.Browser.Timeout)
	})
}

func TestStepTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{name: "below floor", timeout: 10 * time.Second, want: 30 * time.Second},
		{name: "at floor", timeout: 30 * time.Second, want: 30 * time.Second},
		{name: "above floor", timeout: 90 * time.Second, want: 90 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &AppConfig{Browser: BrowserConfig{Timeout: tt.timeout}}
			if got := cfg.StepTimeout(); got != tt.want {
				t.Errorf("StepTimeout() = %v, want %v", got, tt.want)
			}
		})
	}
}
