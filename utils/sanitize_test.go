package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "Coffee Mug", SanitizeText("  Coffee Mug  "))
	assert.Equal(t, "Mug", SanitizeText("<b>Mug</b>"))
	assert.Empty(t, SanitizeText("<script>alert(1)</script>"))
}

func TestSanitizeURL(t *testing.T) {
	assert.Equal(t, "https://facebook.com/kenth", SanitizeURL("https://facebook.com/kenth"))
	assert.Equal(t, "http://example.com/a?b=c", SanitizeURL(" http://example.com/a?b=c "))

	for _, bad := range []string{"", "javascript:alert(1)", "ftp://host/file", "not a url", "//relative.example.com", "/just/a/path"} {
		assert.Empty(t, SanitizeURL(bad), bad)
	}
}
