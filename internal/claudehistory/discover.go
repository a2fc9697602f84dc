package claudehistory

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scanner walks a projects root and turns its per-project directories into
// Sessions. The zero value is not usable; build one with NewScanner.
type Scanner struct {
	ProjectsDir string
	Log         *slog.Logger
}

func NewScanner(projectsDir string, log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Scanner{ProjectsDir: projectsDir, Log: log}
}

// Discover returns every known session, most recently modified first. A
// missing projects root, an unreadable project directory, or a corrupt
// index all degrade to fewer sessions, never to an error.
func (sc *Scanner) Discover() []Session {
	entries, err := os.ReadDir(sc.ProjectsDir)
	if err != nil {
		sc.Log.Debug("projects root unreadable", "dir", sc.ProjectsDir, "error", err)
		return nil
	}

	var sessions []Session
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		projectDir := filepath.Join(sc.ProjectsDir, entry.Name())
		sessions = append(sessions, sc.scanProjectDir(projectDir, entry.Name())...)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ModifiedAt.After(sessions[j].ModifiedAt)
	})
	return sessions
}

// scanProjectDir reads one project directory. When the directory carries a
// sessions index that index is authoritative and raw logs are not parsed;
// otherwise every .jsonl log is parsed individually.
func (sc *Scanner) scanProjectDir(projectDir, dirName string) []Session {
	indexPath := filepath.Join(projectDir, IndexFileName)
	if isFile(indexPath) {
		sessions := loadIndexSessions(indexPath, dirName, sc.Log)
		for i := range sessions {
			logPath := filepath.Join(projectDir, sessions[i].SessionID+".jsonl")
			if isFile(logPath) {
				sessions[i].FilePath = logPath
			}
		}
		return sessions
	}
	return sc.scanLogFiles(projectDir, dirName)
}

func (sc *Scanner) scanLogFiles(projectDir, dirName string) []Session {
	matches, err := filepath.Glob(filepath.Join(projectDir, "*.jsonl"))
	if err != nil {
		return nil
	}
	sessions := make([]Session, 0, len(matches))
	for _, logPath := range matches {
		if sess, ok := cachedSession(logPath); ok {
			sessions = append(sessions, sess)
			continue
		}
		sess := parseLogFile(logPath, dirName, sc.Log)
		if sess == nil {
			continue
		}
		sess.FilePath = logPath
		storeSession(logPath, *sess)
		sessions = append(sessions, *sess)
	}
	return sessions
}

// FindSessionByID locates a single session by full ID or unique prefix.
func (sc *Scanner) FindSessionByID(sessionID string) (*Session, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return nil, fmt.Errorf("empty session ID")
	}

	var match *Session
	for _, sess := range sc.Discover() {
		if sess.SessionID == id {
			found := sess
			return &found, nil
		}
		if strings.HasPrefix(sess.SessionID, id) {
			if match != nil {
				return nil, fmt.Errorf("session ID prefix %q is ambiguous", id)
			}
			found := sess
			match = &found
		}
	}
	if match != nil {
		return match, nil
	}
	return nil, fmt.Errorf("session not found: %s", id)
}

// Projects groups sessions by project path, preserving the incoming
// session order inside each group.
func Projects(sessions []Session) []Project {
	groups := map[string][]Session{}
	var keys []string
	for _, sess := range sessions {
		key := strings.TrimSpace(sess.ProjectPath)
		if key == "" {
			key = "(unknown)"
		}
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], sess)
	}
	sort.Slice(keys, func(i, j int) bool {
		return strings.ToLower(keys[i]) < strings.ToLower(keys[j])
	})
	projects := make([]Project, 0, len(keys))
	for _, key := range keys {
		path := key
		if path == "(unknown)" {
			path = ""
		}
		projects = append(projects, Project{Key: key, Path: path, Sessions: groups[key]})
	}
	return projects
}

// Project is a set of sessions sharing a working directory.
type Project struct {
	Key      string
	Path     string
	Sessions []Session
}
