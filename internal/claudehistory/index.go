package claudehistory

import (
	"encoding/json"
	"log/slog"
	"os"
)

// sessionsIndex is the container shape of sessions-index.json. Older versions
// of the Claude CLI wrote a "sessions" array instead of "entries".
type sessionsIndex struct {
	Entries  []json.RawMessage `json:"entries"`
	Sessions []json.RawMessage `json:"sessions"`
}

// Synonym groups for index entry fields. Different CLI versions used
// different key names; the first present key wins.
var (
	idKeys       = []string{"sessionId", "session_id", "id"}
	createdKeys  = []string{"created", "createdAt", "timestamp"}
	modifiedKeys = []string{"modified", "modifiedAt", "lastModified"}
	pathKeys     = []string{"projectPath", "project_path", "cwd"}
	titleKeys    = []string{"summary", "customTitle", "title"}
	promptKeys   = []string{"firstPrompt", "first_prompt"}
	branchKeys   = []string{"gitBranch", "git_branch"}
	countKeys    = []string{"messageCount", "message_count"}
)

// loadIndexSessions reads a project's sessions-index.json and returns every
// entry that parses into a Session. A malformed container contributes zero
// sessions; a malformed entry is skipped. Neither aborts discovery.
func loadIndexSessions(indexPath, dirName string, log *slog.Logger) []Session {
	b, err := os.ReadFile(indexPath)
	if err != nil {
		log.Warn("read sessions index", "path", indexPath, "error", err)
		return nil
	}

	var idx sessionsIndex
	if err := json.Unmarshal(b, &idx); err != nil {
		log.Warn("parse sessions index", "path", indexPath, "error", err)
		return nil
	}

	entries := idx.Entries
	if len(entries) == 0 {
		entries = idx.Sessions
	}

	sessions := make([]Session, 0, len(entries))
	for i, raw := range entries {
		sess := parseIndexEntry(raw, dirName, log)
		if sess == nil {
			log.Debug("index entry rejected", "path", indexPath, "entry", i)
			continue
		}
		sessions = append(sessions, *sess)
	}
	return sessions
}

// parseIndexEntry converts one raw index entry into a Session. Entries with
// no identifier under any synonym, or entries that are not JSON objects,
// yield nil rather than an error.
func parseIndexEntry(raw json.RawMessage, dirName string, log *slog.Logger) *Session {
	var entry map[string]any
	if err := json.Unmarshal(raw, &entry); err != nil {
		log.Warn("malformed index entry", "error", err)
		return nil
	}

	sessionID := firstString(entry, idKeys)
	if sessionID == "" {
		return nil
	}

	created, createdOK := ParseInstant(firstString(entry, createdKeys))
	if !createdOK {
		log.Warn("unparseable created timestamp", "session", sessionID)
	}
	modified := created
	if v := firstString(entry, modifiedKeys); v != "" {
		var ok bool
		if modified, ok = ParseInstant(v); !ok {
			log.Warn("unparseable modified timestamp", "session", sessionID)
		}
	}

	projectPath := firstString(entry, pathKeys)
	if projectPath == "" {
		projectPath = DecodeProjectPath(dirName)
	}

	return &Session{
		SessionID:    sessionID,
		ProjectPath:  projectPath,
		CreatedAt:    created,
		ModifiedAt:   modified,
		CustomTitle:  firstString(entry, titleKeys),
		FirstPrompt:  firstString(entry, promptKeys),
		MessageCount: firstInt(entry, countKeys),
		GitBranch:    firstString(entry, branchKeys),
	}
}

func firstString(entry map[string]any, keys []string) string {
	for _, k := range keys {
		if s, ok := entry[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstInt(entry map[string]any, keys []string) int {
	for _, k := range keys {
		switch v := entry[k].(type) {
		case float64:
			return int(v)
		case int:
			return v
		}
	}
	return 0
}
