package media

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	versionSegmentRe = regexp.MustCompile(`^v[0-9]+$`)
	trailingExtRe    = regexp.MustCompile(`\.[A-Za-z0-9]+$`)
)

// ResolvePublicID derives the remote store's deletion key from a stored media
// reference. The input may already be a public ID, or a full delivery URL of
// the shape .../upload/v<digits>/<folder>/<name>.<ext>, or any path-ish
// string. The function is total: no input raises, and the worst case returns
// the input's last path segment or the input itself.
func ResolvePublicID(input string) string {
	value := strings.TrimSpace(input)
	if value == "" {
		return ""
	}

	hasScheme := strings.Contains(value, "://")
	if !hasScheme && !strings.Contains(value, "/") {
		// Already a bare public ID.
		return value
	}

	if hasScheme {
		if parsed, err := url.Parse(value); err == nil && parsed.Host != "" {
			if id := publicIDFromPath(parsed.Path); id != "" {
				return id
			}
			return value
		}
	}

	return lastSegmentFallback(value)
}

func publicIDFromPath(path string) string {
	segments := splitSegments(path)
	if len(segments) == 0 {
		return ""
	}

	remaining := segments
	for i, seg := range segments {
		if seg == "upload" || seg == "uploads" {
			remaining = segments[i+1:]
			break
		}
	}

	if len(remaining) > 0 && versionSegmentRe.MatchString(remaining[0]) {
		remaining = remaining[1:]
	}

	joined := stripExtension(strings.Join(remaining, "/"))
	if joined != "" {
		return joined
	}

	// Joined result came up empty: fall back to the last raw segment.
	return stripExtension(segments[len(segments)-1])
}

func lastSegmentFallback(value string) string {
	last := value
	if idx := strings.LastIndex(value, "/"); idx >= 0 {
		last = value[idx+1:]
	}
	if stripped := stripExtension(last); stripped != "" {
		return stripped
	}
	return value
}

func splitSegments(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

func stripExtension(value string) string {
	return trailingExtRe.ReplaceAllString(value, "")
}
