package util

import (
	"regexp"
	"strings"

	slug2 "github.com/gosimple/slug"
	"github.com/gosimple/unidecode"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9\s-]`)

// Slugify derives the URL-safe identifier of a display name. Accented letters
// are folded to ASCII first; any other punctuation is dropped rather than
// turned into a hyphen, so "Men's Wear" becomes "mens-wear". An empty result
// means the name has no usable characters.
func Slugify(name string) string {
	s := strings.ToLower(unidecode.Unidecode(name))
	s = nonSlugChars.ReplaceAllString(s, "")
	return slug2.Make(s)
}
