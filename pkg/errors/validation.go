package errors

import (
	"strings"
	"unicode"
)

// maxProjectLen bounds project keys, which end up in file names and store keys.
const maxProjectLen = 128

// ValidateProject checks that a project key is safe to use as a storage key
// component and as a file name.
//
//   - not empty
//   - at most 128 characters
//   - no control characters
//   - no path separators or parent-directory sequences
func ValidateProject(project string) error {
	if project == "" {
		return New(ErrCodeInvalidProject, "project cannot be empty")
	}
	if len(project) > maxProjectLen {
		return New(ErrCodeInvalidProject, "project too long (max %d characters)", maxProjectLen)
	}
	for _, r := range project {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidProject, "project contains invalid control characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(project, pattern) {
			return New(ErrCodeInvalidProject, "project contains invalid characters: %q", pattern)
		}
	}
	return nil
}
