package card

import (
	"strings"
	"unicode"
)

// Filename is the download name for a card addressed to receiver.
func Filename(prefix, receiver string) string {
	slug := slugify(receiver)
	if slug == "" {
		slug = "card"
	}
	if prefix == "" {
		return slug + ".jpg"
	}
	return prefix + "_" + slug + ".jpg"
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsSpace(r):
			dash = true
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' || r == '-'):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), ".")
}
