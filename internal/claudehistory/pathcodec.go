package claudehistory

import (
	"strings"
	"time"
)

// DecodeProjectPath recovers a project path from the Claude CLI's sanitized
// directory name: one leading hyphen is stripped, every remaining hyphen
// becomes a path separator, and a root separator is prefixed.
//
//	-home-alice-proj -> /home/alice/proj
//	home-alice-proj  -> /home/alice/proj
//
// The encoding cannot distinguish a literal hyphen from an encoded separator,
// so decoding is lossy for paths that contained hyphens. The Claude CLI never
// disambiguates either; callers that need the true path should prefer the
// index field or the log-embedded cwd.
func DecodeProjectPath(name string) string {
	name = strings.TrimPrefix(name, "-")
	return "/" + strings.ReplaceAll(name, "-", "/")
}

// EncodeProjectPath is the inverse transform: strip the leading separator,
// replace separators with hyphens, prepend one leading hyphen.
func EncodeProjectPath(path string) string {
	return "-" + strings.ReplaceAll(strings.TrimPrefix(path, "/"), "/", "-")
}

// ParseInstant parses an ISO-8601 timestamp with or without a trailing "Z"
// zone marker. Malformed or empty input yields the current wall-clock time
// with ok=false so a garbled session stays discoverable and orderable;
// callers should log when ok is false so silently-wrong ordering stays
// diagnosable.
func ParseInstant(text string) (t time.Time, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Now(), false
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Now(), false
}
