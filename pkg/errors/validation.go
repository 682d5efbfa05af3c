package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// ValidateBotanicalName validates a plant name before it is used in file
// names, cache keys or HTTP responses.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 200 characters
func ValidateBotanicalName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidName, "botanical name cannot be empty").WithField("botanical_name")
	}

	if len(name) > 200 {
		return New(ErrCodeInvalidName, "botanical name too long (max 200 characters)").WithField("botanical_name")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "botanical name contains invalid control characters").WithField("botanical_name")
		}
	}

	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "botanical name contains invalid characters: %q", pattern).WithField("botanical_name")
		}
	}

	return nil
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// Slug converts a botanical name into the lower_snake form used in export
// file names, e.g. "Betula pendula 'Youngii'" becomes "betula_pendula_youngii".
func Slug(name string) string {
	s := slugUnsafe.ReplaceAllString(strings.ToLower(name), "_")
	return strings.Trim(s, "_")
}

// ValidateOutputDir validates a directory that batch exports are written to.
// Relative and absolute paths are both accepted; the path is cleaned and
// must not contain control characters.
func ValidateOutputDir(dir string) error {
	if dir == "" {
		return New(ErrCodeInvalidPath, "output directory cannot be empty").WithField("output")
	}

	const maxPathLength = 1024
	if len(dir) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength).WithField("output")
	}

	for _, r := range dir {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters").WithField("output")
		}
	}

	if filepath.Clean(dir) == string(filepath.Separator) {
		return New(ErrCodeInvalidPath, "refusing to export into the filesystem root").WithField("output")
	}

	return nil
}
