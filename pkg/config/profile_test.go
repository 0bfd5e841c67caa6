package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProfile(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		p, err := LoadProfile("")
		require.NoError(t, err)
		assert.Equal(t, DefaultProfile(), p)
	})

	t.Run("overrides defaults from yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "suite.yaml")
		body := `paths:
  - features/login.feature
tags: "@smoke"
format: progress
strict: false
name_filter: "*login*"
artifacts_dir: out
verbosity: debug
`
		require.NoError(t, os.WriteFile(path, []byte(body), 0600))

		p, err := LoadProfile(path)
		require.NoError(t, err)

		assert.Equal(t, []string{"features/login.feature"}, p.Paths)
		assert.Equal(t, "@smoke", p.Tags)
		assert.Equal(t, "progress", p.Format)
		assert.False(t, p.Strict)
		assert.Equal(t, "*login*", p.NameFilter)
		assert.Equal(t, "out", p.ArtifactsDir)
		assert.Equal(t, "debug", p.Verbosity)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadProfile(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid verbosity is rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "suite.yaml")
		require.NoError(t, os.WriteFile(path, []byte("verbosity: loud\n"), 0600))

		_, err := LoadProfile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid verbosity")
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "suite.yaml")
		require.NoError(t, os.WriteFile(path, []byte("paths: [unterminated\n"), 0600))

		_, err := LoadProfile(path)
		assert.Error(t, err)
	})
}

func TestProfileValidateFillsDefaults(t *testing.T) {
	p := &Profile{}
	require.NoError(t, p.Validate())

	assert.Equal(t, "pretty", p.Format)
	assert.Equal(t, "reports", p.ArtifactsDir)
	assert.Equal(t, "normal", p.Verbosity)
}
