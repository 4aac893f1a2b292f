package utils

import "strings"

// Slugify converts a display name into a URL-safe slug: lowercase, runs of
// non-alphanumeric characters collapsed into single hyphens, leading and
// trailing hyphens trimmed. "St. Edward Parish" becomes "st-edward-parish".
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// TitleFromSlug turns a slug back into a readable name: "st-edward" becomes
// "St Edward". Only used for bootstrap records an administrator will rename.
func TitleFromSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.TrimSpace(strings.Join(words, " "))
}
