package scraper

import (
	"net/url"
	"path"
	"strings"
	"unicode"
)

const maxSlugLength = 200

// slugFor uses the last path segment of link, or a slug of title when the
// link has none.
func slugFor(link, title string) string {
	if u, err := url.Parse(strings.TrimSpace(link)); err == nil {
		seg := path.Base(strings.TrimSuffix(u.Path, "/"))
		seg = strings.TrimSuffix(seg, path.Ext(seg))
		if s := slugify(seg); s != "" {
			return s
		}
	}
	return slugify(title)
}

// slugify lowercases s and joins runs of letters and digits with dashes.
func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	out := b.String()
	if len(out) > maxSlugLength {
		out = strings.TrimRight(out[:maxSlugLength], "-")
	}
	return out
}
