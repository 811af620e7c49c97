// Package routepath converts route identifiers into the URL pathnames and
// bundle paths they stand for.
package routepath

import (
	"errors"
	"strings"
)

// Path canonicalization errors.
var (
	ErrBackslashInPath      = errors.New("path contains backslash")
	ErrNullByteInPath       = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
)

// CanonicalizePath normalizes a route pathname:
//   - Ensure a leading slash
//   - Remove trailing slash (except for root "/")
//   - Collapse multiple slashes (/blog//post → /blog/post)
//   - Remove "." segments and resolve ".." segments
//
// Backslashes, NUL bytes, invalid percent-escapes and ".." segments that
// would escape the root are rejected.
func CanonicalizePath(input string) (string, error) {
	if input == "" {
		return "/", nil
	}

	if strings.Contains(input, "\\") {
		return "", ErrBackslashInPath
	}
	if strings.Contains(input, "\x00") || strings.Contains(strings.ToUpper(input), "%00") {
		return "", ErrNullByteInPath
	}
	if strings.Contains(input, "%") {
		if err := validatePercentEscapes(input); err != nil {
			return "", err
		}
	}

	segments := strings.Split(input, "/")
	result := make([]string, 0, len(segments))

	for _, seg := range segments {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(result) == 0 {
				return "", ErrPathEscapesRoot
			}
			result = result[:len(result)-1]
		default:
			result = append(result, seg)
		}
	}

	return "/" + strings.Join(result, "/"), nil
}

// validatePercentEscapes checks that all percent-escapes are valid.
// Valid escapes are %XX where X is a hex digit (0-9, a-f, A-F).
func validatePercentEscapes(path string) error {
	i := 0
	for i < len(path) {
		if path[i] == '%' {
			if i+2 >= len(path) {
				return ErrInvalidPercentEscape
			}
			if !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
				return ErrInvalidPercentEscape
			}
			i += 3
		} else {
			i++
		}
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
