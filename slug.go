package blogify

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SlugPolicy derives a URL-safe identifier from a post title. Generate is
// pure: the same title, published time, and format always produce the same
// slug. now is used as the date source only when publishedAt is nil.
//
// The built-in policy handles every format including "custom", which falls
// back to plain parameterization; hosts that want their own custom scheme
// pass a replacement policy via WithSlugPolicy.
type SlugPolicy interface {
	Generate(title string, publishedAt *time.Time, format string, now time.Time) string
}

// DefaultSlugPolicy is the engine's built-in slug derivation.
var DefaultSlugPolicy SlugPolicy = defaultSlugPolicy{}

type defaultSlugPolicy struct{}

func (defaultSlugPolicy) Generate(title string, publishedAt *time.Time, format string, now time.Time) string {
	base := Slugify(title)
	at := now
	if publishedAt != nil {
		at = *publishedAt
	}
	switch format {
	case SlugFormatDatePrefix:
		return at.Format("2006-01-02") + "-" + base
	case SlugFormatDateMonthPrefix:
		return at.Format("2006-01") + "-" + base
	default:
		return base
	}
}

// asciiFold decomposes accented characters and strips the combining marks,
// so "Café" folds to "Cafe" before slug characters are filtered.
var asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify converts a title to a URL-safe slug: transliterated to ASCII
// where feasible, lowercased, with runs of non-alphanumeric characters
// collapsed to single hyphens. Idempotent.
func Slugify(s string) string {
	if folded, _, err := transform.String(asciiFold, s); err == nil {
		s = folded
	}
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	hyphen := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			hyphen = false
		default:
			if !hyphen && b.Len() > 0 {
				b.WriteByte('-')
				hyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
