package years

import (
	"net/url"
	"regexp"
	"strings"
)

const embedPrefix = "https://www.youtube.com/embed/"

var bareVideoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{10,}$`)

// NormalizeVideoLink converts the video-sharing URL shapes admins paste into
// the canonical embeddable form. Unrecognized input passes through unchanged;
// the function never fails.
func NormalizeVideoLink(raw string) string {
	link := strings.TrimSpace(raw)
	if link == "" {
		return raw
	}

	parsed, err := url.Parse(link)
	if err != nil || parsed.Host == "" {
		if bareVideoIDRe.MatchString(link) {
			return embedPrefix + link
		}
		return raw
	}

	host := strings.ToLower(strings.TrimPrefix(parsed.Host, "www."))
	switch host {
	case "youtu.be":
		if id := firstSegment(parsed.Path); id != "" {
			return embedPrefix + id
		}
	case "youtube.com", "m.youtube.com":
		if strings.HasPrefix(parsed.Path, "/embed/") {
			return link
		}
		if id := parsed.Query().Get("v"); id != "" {
			return embedPrefix + id
		}
		if id := lastSegment(parsed.Path); id != "" {
			return embedPrefix + id
		}
	}

	return raw
}

func firstSegment(path string) string {
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			return seg
		}
	}
	return ""
}

func lastSegment(path string) string {
	segments := strings.Split(path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return ""
}
