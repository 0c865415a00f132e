package utils

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

var (
	reScript = regexp.MustCompile(`(?i)<script[^>]*>[\s\S]*?</script>`)
	reStyle  = regexp.MustCompile(`(?i)<style[^>]*>[\s\S]*?</style>`)
	stripAll = bluemonday.StripTagsPolicy()
)

// SanitizeText turns user-supplied text into plain, NFC-normalized text
// with collapsed whitespace.
func SanitizeText(s string) string {
	// Decode entities first so encoded tags are recognized
	s = html.UnescapeString(s)

	s = reScript.ReplaceAllString(s, "")
	s = reStyle.ReplaceAllString(s, "")

	s = stripAll.Sanitize(s)

	// bluemonday escapes what it keeps; we want plain text back
	s = html.UnescapeString(s)

	s = norm.NFC.String(strings.ToValidUTF8(s, ""))

	return strings.Join(strings.Fields(s), " ")
}
