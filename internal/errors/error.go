package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryManifest   Category = "manifest"
	CategoryResolve    Category = "resolve"
	CategoryValidation Category = "validation"
	CategoryConfig     Category = "config"
	CategoryCLI        Category = "cli"
)

// Source identifies the manifest entry an error refers to.
type Source struct {
	// Manifest is the manifest key (e.g., "pages-manifest.json").
	Manifest string

	// Page is the route identifier inside the manifest, if any.
	Page string
}

// String returns the source as "manifest[page]" or just the manifest key.
func (s *Source) String() string {
	if s == nil {
		return ""
	}
	if s.Page != "" {
		return fmt.Sprintf("%s[%s]", s.Manifest, s.Page)
	}
	return s.Manifest
}

// RouteError is a structured error with a code, an optional manifest source and a hint.
type RouteError struct {
	// Code is a unique error identifier (e.g., "R001").
	Code string

	// Category is the error type (manifest, resolve, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Source is the manifest entry where the error occurred.
	Source *Source

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *RouteError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Source != nil {
		msg += " (" + e.Source.String() + ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *RouteError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a RouteError carrying the same code.
// This lets callers compare against the exported sentinels with errors.Is.
func (e *RouteError) Is(target error) bool {
	t, ok := target.(*RouteError)
	if !ok || t.Code == "" {
		return false
	}
	return e.Code == t.Code
}

// WithSource records the manifest and page the error refers to.
func (e *RouteError) WithSource(manifest, page string) *RouteError {
	e.Source = &Source{Manifest: manifest, Page: page}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *RouteError) WithSuggestion(s string) *RouteError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *RouteError) WithDetail(d string) *RouteError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detail.
func (e *RouteError) WithDetailf(format string, args ...any) *RouteError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *RouteError) Wrap(err error) *RouteError {
	e.Wrapped = err
	return e
}

// New creates a RouteError from a registered error code.
func New(code string) *RouteError {
	template, ok := registry[code]
	if !ok {
		return &RouteError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &RouteError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
	}
}

// Newf creates a new RouteError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *RouteError {
	return &RouteError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a RouteError.
func FromError(err error, code string) *RouteError {
	if err == nil {
		return nil
	}
	if re, ok := err.(*RouteError); ok {
		return re
	}
	return New(code).Wrap(err)
}

// Code returns the code of the first RouteError in err's chain, or "".
func Code(err error) string {
	for err != nil {
		if re, ok := err.(*RouteError); ok {
			return re.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
