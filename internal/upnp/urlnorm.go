package upnp

import (
	"fmt"
	"net/url"
	"strings"
)

// ResolveControlURL resolves a possibly-relative service URL against the
// origin (scheme + host + port) of the device-description URL.
//
// UPnP control URLs are conventionally absolute-from-origin, so the base
// path is deliberately ignored: "/upnp/control/avt" against
// "http://host:80/desc/root.xml" yields "http://host:80/upnp/control/avt",
// not ".../desc/upnp/control/avt". Runs of consecutive path separators are
// collapsed to one. Returns an error if either input is not a well-formed
// URL; callers treat that as resolution failure for the service.
func ResolveControlURL(base, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return "", fmt.Errorf("base URL %q has no origin", base)
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid control URL %q: %w", ref, err)
	}

	// Already absolute: keep as-is apart from separator cleanup
	if refURL.Scheme != "" && refURL.Host != "" {
		refURL.Path = collapseSlashes(refURL.Path)
		return refURL.String(), nil
	}

	result := url.URL{
		Scheme:   baseURL.Scheme,
		Host:     baseURL.Host,
		Path:     collapseSlashes("/" + refURL.Path),
		RawQuery: refURL.RawQuery,
	}
	return result.String(), nil
}

// collapseSlashes reduces every run of consecutive '/' in a path to a single
// separator.
func collapseSlashes(p string) string {
	if !strings.Contains(p, "//") {
		return p
	}
	var b strings.Builder
	b.Grow(len(p))
	var prevSlash bool
	for i := 0; i < len(p); i++ {
		if p[i] == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteByte(p[i])
	}
	return b.String()
}
