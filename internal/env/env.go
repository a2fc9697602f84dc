package env

import (
	"strings"
)

// Shell returns the user's shell from an environ-style list, defaulting to
// /bin/bash when SHELL is unset or blank.
func Shell(base []string) string {
	m := toMap(base)
	if sh := strings.TrimSpace(m["SHELL"]); sh != "" {
		return sh
	}
	return "/bin/bash"
}

// HasDisplay reports whether a graphical session is reachable from the
// given environment.
func HasDisplay(base []string) bool {
	m := toMap(base)
	return strings.TrimSpace(m["DISPLAY"]) != "" || strings.TrimSpace(m["WAYLAND_DISPLAY"]) != ""
}

// WithVars returns base with the given key/value pairs set, replacing any
// existing values for those keys.
func WithVars(base []string, vars map[string]string) []string {
	m := toMap(base)
	for k, v := range vars {
		m[k] = v
	}
	return fromMap(m)
}

// Lookup reads one variable from an environ-style list.
func Lookup(base []string, key string) (string, bool) {
	m := toMap(base)
	v, ok := m[key]
	return v, ok
}

func toMap(env []string) map[string]string {
	out := make(map[string]string, len(env))
	for _, kv := range env {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		out[k] = v
	}
	return out
}

func fromMap(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k, v := range m {
		out = append(out, k+"="+v)
	}
	return out
}
