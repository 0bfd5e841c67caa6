package browser

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// DefaultScreenshotDir is where page-level screenshots go when no directory
// is given.
const DefaultScreenshotDir = "screenshots"

var artifactNameReplacer = strings.NewReplacer("/", "-", "\\", "-", ":", "-", "\n", " ")

// ArtifactName returns "<name>-<unix millis>" with path separators removed,
// so scenario titles can be used as file names.
func ArtifactName(name string, at time.Time) string {
	clean := strings.TrimSpace(artifactNameReplacer.Replace(name))
	if clean == "" {
		clean = "page"
	}
	return fmt.Sprintf("%s-%d", clean, at.UnixMilli())
}

// ScreenshotPath returns dir/<ArtifactName>.png.
func ScreenshotPath(dir, name string, at time.Time) string {
	if dir == "" {
		dir = DefaultScreenshotDir
	}
	return filepath.Join(dir, ArtifactName(name, at)+".png")
}
