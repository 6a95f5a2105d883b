package paths

import (
	"strings"

	"github.com/arthur-debert/webup/pkg/errors"
)

// ValidatePath performs basic validation on a user supplied directory.
// It checks for:
// - Empty paths
// - Null bytes
// - Excessive path length
func ValidatePath(path string) error {
	if path == "" {
		return errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}

	if strings.Contains(path, "\x00") {
		return errors.New(errors.ErrInvalidInput, "path contains null bytes")
	}

	// Check path length (common filesystem limit)
	if len(path) > 4096 {
		return errors.New(errors.ErrInvalidInput, "path exceeds maximum length")
	}

	return nil
}

// ValidateOverrides checks the optional base/home overrides. Empty values
// are allowed since they simply disable the Custom environment.
func ValidateOverrides(baseDir, homeDir string) error {
	for _, p := range []string{baseDir, homeDir} {
		if p == "" {
			continue
		}
		if err := ValidatePath(p); err != nil {
			return err
		}
	}
	return nil
}
