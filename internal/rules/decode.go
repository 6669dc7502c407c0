package rules

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decode converts a downloaded rules file to text with LF line endings.
// A UTF-8 or UTF-16 byte order mark selects that encoding; otherwise the
// bytes are read as UTF-8, or as Windows-1252 when they are not valid UTF-8.
func Decode(raw []byte) string {
	var fallback transform.Transformer = unicode.UTF8.NewDecoder()
	if !utf8.Valid(raw) {
		fallback = charmap.Windows1252.NewDecoder()
	}

	out, _, err := transform.Bytes(unicode.BOMOverride(fallback), raw)
	if err != nil {
		out = raw
	}

	text := strings.ReplaceAll(string(out), "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
