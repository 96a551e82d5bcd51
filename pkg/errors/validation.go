package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// hexColorRegex matches #RGB and #RRGGBB colour literals.
var hexColorRegex = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// ValidateColor validates a colour value for use in a shape style cell.
// Only hex literals are accepted; named CSS colours are rejected because the
// target format stores RGB values.
func ValidateColor(color string) error {
	if color == "" {
		return New(ErrCodeInvalidConfig, "color cannot be empty")
	}
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidConfig, "invalid color %q (want #RRGGBB)", color)
	}
	return nil
}

// NormalizeColor returns color in upper-case #RRGGBB form, expanding the
// short #RGB form. Invalid values are returned unchanged with ok=false.
func NormalizeColor(color string) (string, bool) {
	color = strings.TrimSpace(color)
	if !hexColorRegex.MatchString(color) {
		return color, false
	}
	if len(color) == 4 {
		color = string([]byte{'#', color[1], color[1], color[2], color[2], color[3], color[3]})
	}
	return strings.ToUpper(color), true
}

// ValidatePath validates a file system path passed on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateOutputName validates a derived output file name.
// Output names must be plain base names so concurrent batch workers can never
// write outside the output directory.
func ValidateOutputName(name string) error {
	if name == "" || name == "." || name == ".." {
		return New(ErrCodeInvalidPath, "invalid output name %q", name)
	}
	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return New(ErrCodeInvalidPath, "output name cannot contain path separators: %q", name)
	}
	return ValidatePath(name)
}
