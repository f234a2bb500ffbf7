package utils

import (
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips any markup from user supplied text such as reward names
// and descriptions.
func SanitizeText(input string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(input))
}

// SanitizeURL strips markup from a social profile link and rejects anything
// that is not an absolute http(s) URL. Empty input stays empty.
func SanitizeURL(input string) string {
	cleaned := SanitizeText(input)
	if cleaned == "" {
		return ""
	}
	u, err := url.Parse(cleaned)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return u.String()
}
