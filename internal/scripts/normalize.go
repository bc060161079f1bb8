package scripts

import (
	"strings"
)

var slugStripper = strings.NewReplacer(
	" ", "-",
	"'", "",
	":", "",
	",", "",
	"!", "",
	"?", "",
)

// Slug converts a raw, possibly "Title | Director" formatted, movie title into
// the path component used by the script archive. The result is not URL-encoded.
func Slug(title string) string {
	core := strings.TrimSpace(title)
	if idx := strings.Index(core, "|"); idx >= 0 {
		core = core[:idx]
	}
	return slugStripper.Replace(strings.TrimSpace(core))
}

// CacheKey returns the canonical lookup key for a raw title. Script cache and
// conversation history both key on this value.
func CacheKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// ArchiveURL joins the archive base URL and a slug into the script page URL.
func ArchiveURL(baseURL, slug string) string {
	return strings.TrimRight(baseURL, "/") + "/scripts/" + slug + ".html"
}
