// file: internal/assets/assets.go
// version: 1.2.0
// guid: 98ee2b94-d0e1-4752-9cd7-cbd7ba53acfd

// Package assets resolves storage paths from the API into browser-ready
// URLs. Resolution is pure: the same inputs always produce the same URL.
package assets

import (
	"fmt"
	"net/url"
	"strings"
)

// bucketPrefix is the storage bucket name some thumbnail paths leak.
const bucketPrefix = "idea-foundation-vault/"

// Resolver holds the configured URL bases, all optional.
type Resolver struct {
	R2PublicDomain string
	AssetsBaseURL  string
	APIBaseURL     string
	PathPrefix     string
}

// Placeholder returns the deterministic stand-in image URL for the
// given dimensions.
func Placeholder(width, height int) string {
	return fmt.Sprintf("https://picsum.photos/seed/idea-%dx%d/%d/%d", width, height, width, height)
}

func isAbsolute(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// origin extracts scheme://host from base, or returns the empty string.
func origin(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// CoverURL resolves a book thumbnail path. Absolute URLs pass through;
// relative storage paths are cleaned of the bucket prefix and based on
// the R2 public domain. Without a domain or a path, the deterministic
// placeholder stands in.
func (r Resolver) CoverURL(path string, width, height int) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return Placeholder(width, height)
	}
	if isAbsolute(p) {
		return p
	}
	base := strings.TrimRight(r.R2PublicDomain, "/")
	if base == "" {
		return Placeholder(width, height)
	}
	cleaned := strings.TrimLeft(p, "/")
	cleaned = strings.TrimPrefix(cleaned, bucketPrefix)
	return base + "/" + cleaned
}

// AssetURL resolves a general asset path. Absolute URLs pass through.
// Relative paths get the configured prefix, then are based on the
// assets base origin, the API base origin, or the document root, in
// that order.
func (r Resolver) AssetURL(path string) string {
	if path == "" {
		return ""
	}
	p := path
	if isAbsolute(p) {
		return p
	}

	if prefix := strings.Trim(r.PathPrefix, "/"); prefix != "" && !strings.HasPrefix(strings.TrimLeft(p, "/"), prefix+"/") {
		p = prefix + "/" + strings.TrimLeft(p, "/")
	}
	p = strings.TrimLeft(p, "/")

	if r.AssetsBaseURL != "" {
		if o := origin(r.AssetsBaseURL); o != "" {
			return o + "/" + p
		}
		return strings.TrimRight(r.AssetsBaseURL, "/") + "/" + p
	}
	if o := origin(r.APIBaseURL); o != "" {
		return o + "/" + p
	}
	return "/" + p
}
