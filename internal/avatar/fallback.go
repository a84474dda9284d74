package avatar

import (
	"net/url"
	"strings"
)

// Fallback builds placeholder avatar URLs from a seed. It never touches the network.
type Fallback struct {
	Base       string
	Background string
}

// URL returns the identicon URL for seed. The same seed always yields the same URL.
func (f Fallback) URL(seed string) string {
	sep := "?"
	if strings.Contains(f.Base, "?") {
		sep = "&"
	}
	u := f.Base + sep + "seed=" + url.QueryEscape(seed)
	if f.Background != "" {
		u += "&backgroundColor=" + url.QueryEscape(f.Background)
	}
	return u
}

// Seed picks the fallback seed for a party: the handle when given, else the display name.
func Seed(handle, name string) string {
	if h := strings.TrimSpace(handle); h != "" {
		return h
	}
	return strings.TrimSpace(name)
}
