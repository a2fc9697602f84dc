package claudehistory

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

const EnvClaudeDir = "CLAUDE_DIR"

// IndexFileName is the per-project manifest written by the Claude CLI.
const IndexFileName = "sessions-index.json"

// Session is one recorded conversation with the Claude CLI. A fresh set is
// built on every Discover call; continuity across calls is by SessionID only.
type Session struct {
	SessionID    string    `json:"sessionId"`
	ProjectPath  string    `json:"projectPath"`
	CreatedAt    time.Time `json:"created"`
	ModifiedAt   time.Time `json:"modified"`
	CustomTitle  string    `json:"customTitle,omitempty"`
	FirstPrompt  string    `json:"firstPrompt,omitempty"`
	MessageCount int       `json:"messageCount"`
	Model        string    `json:"model,omitempty"`
	GitBranch    string    `json:"gitBranch,omitempty"`
	Unindexed    bool      `json:"unindexed,omitempty"`

	// FilePath points at the backing .jsonl log when one is known.
	FilePath string `json:"-"`

	// Carried for forward compatibility; discovery never populates these.
	Archived bool    `json:"archived,omitempty"`
	Notes    string  `json:"notes,omitempty"`
	Cost     float64 `json:"cost,omitempty"`
}

func (s Session) DisplayTitle() string {
	if s.CustomTitle != "" {
		return s.CustomTitle
	}
	if s.FirstPrompt != "" {
		if len(s.FirstPrompt) > 50 {
			return s.FirstPrompt[:50] + "..."
		}
		return s.FirstPrompt
	}
	return "[" + s.ShortID() + "]"
}

func (s Session) ShortID() string {
	if len(s.SessionID) > 8 {
		return s.SessionID[:8]
	}
	return s.SessionID
}

func DefaultClaudeDir() string {
	if v := os.Getenv(EnvClaudeDir); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".claude")
}

func ResolveClaudeDir(override string) (string, error) {
	if v := strings.TrimSpace(override); v != "" {
		return filepath.Clean(os.ExpandEnv(v)), nil
	}
	if v := strings.TrimSpace(os.Getenv(EnvClaudeDir)); v != "" {
		return filepath.Clean(os.ExpandEnv(v)), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".claude"), nil
}

// ResolveProjectsDir returns the projects root used by discovery. Candidates
// are checked in order: <claude-dir>/projects, the WSL Windows home, and the
// XDG location. The first existing directory wins; when none exist the
// primary candidate is returned so discovery yields an empty result.
func ResolveProjectsDir(override string) (string, error) {
	root, err := ResolveClaudeDir(override)
	if err != nil {
		return "", err
	}
	primary := filepath.Join(root, "projects")

	candidates := []string{primary}
	if override == "" && os.Getenv(EnvClaudeDir) == "" {
		if winHome := windowsHomeDir(); winHome != "" {
			candidates = append(candidates, filepath.Join(winHome, ".claude", "projects"))
		}
		if base, err := os.UserConfigDir(); err == nil {
			candidates = append(candidates, filepath.Join(base, "claude", "projects"))
		}
	}

	for _, c := range candidates {
		if isDir(c) {
			return c, nil
		}
	}
	return primary, nil
}

// windowsHomeDir locates the Windows user home when running under WSL by
// probing /mnt/c/Users for a directory that contains .claude.
func windowsHomeDir() string {
	if !IsWSL() {
		return ""
	}
	entries, err := os.ReadDir("/mnt/c/Users")
	if err != nil {
		return ""
	}
	skip := map[string]bool{"Public": true, "Default": true, "Default User": true, "All Users": true}
	for _, e := range entries {
		if !e.IsDir() || skip[e.Name()] {
			continue
		}
		userDir := filepath.Join("/mnt/c/Users", e.Name())
		if isDir(filepath.Join(userDir, ".claude")) {
			return userDir
		}
	}
	return ""
}

// IsWSL reports whether the process runs inside Windows Subsystem for Linux.
func IsWSL() bool {
	b, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(b)), "microsoft")
}
