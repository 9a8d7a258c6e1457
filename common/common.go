package common

import (
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// EncodeURLValues concatenates url values onto a url string and returns a
// string
func EncodeURLValues(urlPath string, values url.Values) string {
	u := urlPath
	if len(values) > 0 {
		u += "?" + values.Encode()
	}
	return u
}

// SortedRawEncode returns the url values as "k=v" pairs joined by "&", keys
// sorted, without percent-encoding. Some exchanges sign the raw parameter
// string rather than the encoded query.
func SortedRawEncode(values url.Values) string {
	if len(values) == 0 {
		return ""
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(values.Get(k))
	}
	return b.String()
}

// NewHTTPClientWithTimeout initialises a new HTTP client and its underlying
// transport with the specified timeout
func NewHTTPClientWithTimeout(t time.Duration) *http.Client {
	tr := &http.Transport{
		MaxIdleConns:       32,
		IdleConnTimeout:    90 * time.Second,
		DisableCompression: false,
	}
	return &http.Client{
		Transport: tr,
		Timeout:   t,
	}
}

// StringSliceContains returns whether case sensitive needle is contained
// within haystack
func StringSliceContains(haystack []string, needle string) bool {
	for x := range haystack {
		if haystack[x] == needle {
			return true
		}
	}
	return false
}
