// Package errors provides structured, coded errors for route resolution.
//
// Every failure the resolver can surface has a code (e.g., "R003") that maps
// to a category, a short message and a documentation URL. Errors carry the
// manifest key and route identifier they refer to, plus an optional hint:
//
//	err := errors.New("R003").
//	    WithSource("pages-manifest.json", "/api/users").
//	    WithSuggestion("Rebuild the application to regenerate the manifest")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR R003: Duplicate route definition
//	//
//	//   pages-manifest.json[/api/users]
//	//   ...
//
// The exported sentinels compare by code, so callers can branch on the kind
// of failure no matter how many times it was wrapped:
//
//	if errors.Is(err, rerrors.ErrManifestNotFound) { ... }
//
// # Error Codes
//
//   - R001-R099: manifest and resolution errors
//   - R100-R119: configuration errors
package errors
