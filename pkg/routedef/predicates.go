package routedef

import "strings"

// Predicate decides whether a route identifier belongs to a kind.
// Predicates are total and never panic.
type Predicate func(page string) bool

// IsAPIRoute matches pages-router API routes: "/api" and everything below it.
func IsAPIRoute(page string) bool {
	return page == "/api" || strings.HasPrefix(page, "/api/")
}

// IsAppRouteRoute matches app-router route handlers (".../route").
func IsAppRouteRoute(page string) bool {
	return strings.HasSuffix(page, "/route")
}

// IsAppPageRoute matches app-router pages (".../page").
func IsAppPageRoute(page string) bool {
	return strings.HasSuffix(page, "/page")
}

// IsInternalPage matches the pages-router documents that wrap every page
// but are not routable themselves.
func IsInternalPage(page string) bool {
	switch page {
	case "/_app", "/_document", "/_error":
		return true
	}
	return false
}

// IsPagesRoute matches routable pages-router pages.
func IsPagesRoute(page string) bool {
	return page != "" && !IsAPIRoute(page) && !IsInternalPage(page)
}
