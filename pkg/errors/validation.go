package errors

import (
	"strings"
	"unicode"
)

// MaxQueryLength bounds the search query accepted by the viewer.
const MaxQueryLength = 256

// ValidatePersonID validates a person id before it is placed in a request
// path or a store query. It rejects ids that could be used for path traversal
// or injection.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidatePersonID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "person id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidID, "person id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "person id contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
		"?",    // Query string
		"#",    // Fragment
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidID, "person id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateQuery validates a search query. An empty query is valid and means
// "show everything".
func ValidateQuery(q string) error {
	if len(q) > MaxQueryLength {
		return New(ErrCodeInvalidInput, "search query too long (max %d characters)", MaxQueryLength)
	}
	for _, r := range q {
		if r == '\x00' || (unicode.IsControl(r) && r != '\t') {
			return New(ErrCodeInvalidInput, "search query contains invalid characters")
		}
	}
	return nil
}

// ValidateTheme checks that name is one of the two supported themes.
func ValidateTheme(name string) error {
	switch name {
	case "light", "dark":
		return nil
	case "":
		return New(ErrCodeInvalidTheme, "theme cannot be empty")
	default:
		return New(ErrCodeInvalidTheme, "invalid theme %q (must be light or dark)", name)
	}
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidatePath validates a local data file path.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}
	return nil
}
