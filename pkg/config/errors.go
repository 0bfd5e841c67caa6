package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEnvFileNotFound is returned when the selected environment has no settings file
	ErrEnvFileNotFound = errors.New("environment file not found")

	// ErrMissingRequired is returned when BASE_URL, USERNAME or PASSWORD is empty
	ErrMissingRequired = errors.New("missing required configuration")
)

// EnvFileError reports a problem reading an environment file.
type EnvFileError struct {
	Path string
	Err  error
}

func (e *EnvFileError) Error() string {
	if errors.Is(e.Err, ErrEnvFileNotFound) {
		return fmt.Sprintf("environment file not found at: %s", e.Path)
	}
	return fmt.Sprintf("failed to load environment file %s: %v", e.Path, e.Err)
}

func (e *EnvFileError) Unwrap() error {
	return e.Err
}

// MissingKeysError lists the required keys that had no value.
type MissingKeysError struct {
	Path string
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return fmt.Sprintf("missing required configuration %s (set them in %s or the process environment)",
		strings.Join(e.Keys, ", "), e.Path)
}

func (e *MissingKeysError) Unwrap() error {
	return ErrMissingRequired
}
