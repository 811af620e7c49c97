package routepath

import (
	"path"
	"strings"
)

// EnsureLeadingSlash prefixes p with "/" when missing.
func EnsureLeadingSlash(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}

// IsDynamic reports whether the identifier contains a bracketed segment
// such as "[id]" or "[...slug]".
func IsDynamic(page string) bool {
	for _, seg := range strings.Split(page, "/") {
		if len(seg) > 2 && strings.HasPrefix(seg, "[") && strings.HasSuffix(seg, "]") {
			return true
		}
	}
	return false
}

// NormalizePagePath maps a page identifier to the name its bundle is stored
// under: "/" becomes "/index" and static pages below "/index" keep an extra
// "/index" prefix so they cannot collide with the root index bundle.
//
//	"/"          → "/index"
//	"/index/foo" → "/index/index/foo"
//	"/about"     → "/about"
func NormalizePagePath(page string) string {
	if page == "/" || page == "" {
		return "/index"
	}
	page = EnsureLeadingSlash(page)
	if (page == "/index" || strings.HasPrefix(page, "/index/")) && !IsDynamic(page) {
		return "/index" + page
	}
	return page
}

// isGroupSegment reports whether seg is an app-router route group "(name)".
func isGroupSegment(seg string) bool {
	return len(seg) > 2 && strings.HasPrefix(seg, "(") && strings.HasSuffix(seg, ")")
}

// NormalizeAppPath returns the URL pathname served by an app-router entry.
// Route groups and parallel-route slots do not contribute to the URL and the
// trailing "page" or "route" segment names the handler, not a path segment.
//
//	"/(marketing)/about/page" → "/about"
//	"/blog/[slug]/route"      → "/blog/[slug]"
//	"/@modal/login/page"      → "/login"
//	"/page"                   → "/"
func NormalizeAppPath(route string) string {
	segments := strings.Split(route, "/")
	kept := make([]string, 0, len(segments))

	for i, seg := range segments {
		if seg == "" || isGroupSegment(seg) || strings.HasPrefix(seg, "@") {
			continue
		}
		if i == len(segments)-1 && (seg == "page" || seg == "route") {
			continue
		}
		kept = append(kept, seg)
	}

	return "/" + strings.Join(kept, "/")
}

// BundlePath joins a bundle directory ("pages", "app") with the normalized
// page path of an identifier.
func BundlePath(dir, page string) string {
	return path.Join(dir, NormalizePagePath(page))
}
