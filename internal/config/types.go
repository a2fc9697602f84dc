package config

import "time"

const CurrentVersion = 1

type Config struct {
	Version int `json:"version"`
	// Terminal pins the adapter ("kitty", "konsole", "direct"); empty
	// means auto-detect.
	Terminal string `json:"terminal,omitempty"`
	// Shell overrides $SHELL for launched sessions.
	Shell string `json:"shell,omitempty"`
	// ClaudeDir overrides the ~/.claude location.
	ClaudeDir string   `json:"claudeDir,omitempty"`
	Debug     bool     `json:"debug,omitempty"`
	Launches  []Launch `json:"launches"`
}

// Launch records one session opened through a terminal adapter so profiles
// can be cleaned up after the session's process dies.
type Launch struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"sessionId"`
	Profile    string    `json:"profile,omitempty"`
	Terminal   string    `json:"terminal"`
	PID        int       `json:"pid"`
	LaunchedAt time.Time `json:"launchedAt"`
}
