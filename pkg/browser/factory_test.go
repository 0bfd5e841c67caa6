package browser

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/playwright-community/playwright-go"
)

func TestParseEngine(t *testing.T) {
	tests := []struct {
		input   string
		want    Engine
		wantErr bool
	}{
		{"chromium", Chromium, false},
		{"Chromium", Chromium, false},
		{"FIREFOX", Firefox, false},
		{" webkit ", WebKit, false},
		{"safari", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseEngine(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEngine(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseEngine(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestUnsupportedEngineError(t *testing.T) {
	_, err := CreateBrowser(nil, "opera", LaunchOptions{Headless: true})
	if err == nil {
		t.Fatal("expected error for unsupported engine")
	}

	if !errors.Is(err, ErrUnsupportedEngine) {
		t.Errorf("error should wrap ErrUnsupportedEngine, got %v", err)
	}

	var unsupported *UnsupportedEngineError
	if !errors.As(err, &unsupported) {
		t.Fatalf("error should be *UnsupportedEngineError, got %T", err)
	}
	if unsupported.Name != "opera" {
		t.Errorf("Name = %q, want opera", unsupported.Name)
	}

	msg := err.Error()
	for _, want := range []string{"opera", "chromium", "firefox", "webkit"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q should mention %q", msg, want)
		}
	}
}

func TestCreateBrowserWithoutDriver(t *testing.T) {
	_, err := CreateBrowser(nil, "chromium", LaunchOptions{Headless: true})
	if err == nil {
		t.Fatal("expected error without a running driver")
	}
	if errors.Is(err, ErrUnsupportedEngine) {
		t.Errorf("valid engine should not be reported as unsupported: %v", err)
	}
}

func TestIsValidEngine(t *testing.T) {
	if !IsValidEngine("WebKit") {
		t.Error("WebKit should be valid")
	}
	if IsValidEngine("edge") {
		t.Error("edge should not be valid")
	}
}

func TestDisplayName(t *testing.T) {
	tests := map[Engine]string{
		Chromium: "Chromium",
		Firefox:  "Firefox",
		WebKit:   "WebKit (Safari)",
		"other":  "other",
	}
	for engine, want := range tests {
		if got := engine.DisplayName(); got != want {
			t.Errorf("%q.DisplayName() = %q, want %q", engine, got, want)
		}
	}
}

// TestCreateBrowserEngines launches every engine against installed browsers.
// Set HRM_BROWSER_TESTS=1 to run it.
func TestCreateBrowserEngines(t *testing.T) {
	if testing.Short() || os.Getenv("HRM_BROWSER_TESTS") != "1" {
		t.Skip("browser launch tests disabled; set HRM_BROWSER_TESTS=1")
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start playwright: %v", err)
	}
	defer func() { _ = pw.Stop() }()

	for _, engine := range SupportedEngines() {
		t.Run(string(engine), func(t *testing.T) {
			b, err := CreateBrowser(pw, string(engine), LaunchOptions{Headless: true})
			if err != nil {
				t.Fatalf("CreateBrowser(%s) error = %v", engine, err)
			}
			defer func() { _ = b.Close() }()

			session, err := NewSession(b, SessionOptions{})
			if err != nil {
				t.Fatalf("NewSession() error = %v", err)
			}
			if err := session.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
	}
}
