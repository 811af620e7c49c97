package routepath

import "strings"

type metadataFile struct {
	static   []string
	rootOnly bool
	numbered bool
	dynamic  bool
}

var metadataFiles = map[string]metadataFile{
	"robots":          {static: []string{"txt"}, rootOnly: true, dynamic: true},
	"manifest":        {static: []string{"json", "webmanifest"}, rootOnly: true, dynamic: true},
	"favicon":         {static: []string{"ico"}, rootOnly: true},
	"sitemap":         {static: []string{"xml"}, dynamic: true},
	"icon":            {static: []string{"ico", "jpg", "jpeg", "png", "svg"}, numbered: true, dynamic: true},
	"apple-icon":      {static: []string{"jpg", "jpeg", "png"}, numbered: true, dynamic: true},
	"opengraph-image": {static: []string{"jpg", "jpeg", "png", "gif"}, numbered: true, dynamic: true},
	"twitter-image":   {static: []string{"jpg", "jpeg", "png", "gif"}, numbered: true, dynamic: true},
}

// IsMetadataRoute reports whether an app-router route handler identifier
// serves a metadata file such as "/robots.txt/route", "/sitemap/route" or
// "/blog/opengraph-image2/route". A generated metadata route may keep its
// source extension ("/icon.tsx/route"); pageExtensions lists the ones that
// count, with or without the leading dot.
func IsMetadataRoute(page string, pageExtensions []string) bool {
	rest, ok := strings.CutSuffix(page, "/route")
	if !ok {
		return false
	}
	dir, seg := "", rest
	if i := strings.LastIndex(rest, "/"); i >= 0 {
		dir, seg = rest[:i], rest[i+1:]
	}

	name, ext, _ := strings.Cut(seg, ".")
	file, ok := metadataFiles[name]
	if !ok && len(name) > 0 {
		base := strings.TrimRight(name, "0123456789")
		if base != name {
			file, ok = metadataFiles[base]
			ok = ok && file.numbered
		}
	}
	if !ok {
		return false
	}
	if file.rootOnly && dir != "" {
		return false
	}

	ext = strings.ToLower(ext)
	if ext == "" {
		return file.dynamic
	}
	for _, s := range file.static {
		if ext == s {
			return true
		}
	}
	if !file.dynamic {
		return false
	}
	for _, pe := range pageExtensions {
		if ext == strings.ToLower(strings.TrimPrefix(pe, ".")) {
			return true
		}
	}
	return false
}
