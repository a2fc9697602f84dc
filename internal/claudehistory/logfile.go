package claudehistory

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const firstPromptLimit = 100

// logRecord is the subset of a session log line that discovery cares about.
type logRecord struct {
	Type    string          `json:"type"`
	Cwd     string          `json:"cwd"`
	Message json.RawMessage `json:"message"`
}

// parseLogFile builds a Session from a raw session log when no index entry
// covers it. Timestamps come from file metadata; the project path comes from
// the first summary record carrying a cwd, falling back to the decoded
// directory name. Unreadable files yield nil.
func parseLogFile(path, dirName string, log *slog.Logger) *Session {
	f, err := os.Open(path)
	if err != nil {
		log.Warn("open session log", "path", path, "error", err)
		return nil
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		log.Warn("stat session log", "path", path, "error", err)
		return nil
	}

	var (
		cwd          string
		firstPrompt  string
		messageCount int
	)
	reader := bufio.NewReaderSize(f, 64*1024)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			log.Warn("read session log", "path", path, "error", err)
			return nil
		}
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			var rec logRecord
			if json.Unmarshal(line, &rec) == nil {
				if cwd == "" && rec.Type == "summary" && rec.Cwd != "" {
					cwd = rec.Cwd
				}
				if rec.Type == "user" {
					messageCount++
					if firstPrompt == "" {
						text := strings.TrimSpace(extractMessageText(rec.Message))
						if !shouldSkipFirstPrompt(text) {
							firstPrompt = truncatePrompt(text, firstPromptLimit)
						}
					}
				}
			}
		}
		if err == io.EOF {
			break
		}
	}

	projectPath := cwd
	if projectPath == "" {
		projectPath = DecodeProjectPath(dirName)
	}

	mtime := info.ModTime()
	return &Session{
		SessionID:    strings.TrimSuffix(filepath.Base(path), ".jsonl"),
		ProjectPath:  projectPath,
		CreatedAt:    mtime,
		ModifiedAt:   mtime,
		FirstPrompt:  firstPrompt,
		MessageCount: messageCount,
		Unindexed:    true,
	}
}

// extractMessageText pulls display text out of a record's message field,
// which is either a plain string, a list of content blocks, or an object
// wrapping such a list under "content".
func extractMessageText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var text string
	if json.Unmarshal(raw, &text) == nil {
		return text
	}

	var blocks []contentBlock
	if json.Unmarshal(raw, &blocks) == nil {
		return firstBlockText(blocks)
	}

	var wrapped struct {
		Content json.RawMessage `json:"content"`
	}
	if json.Unmarshal(raw, &wrapped) == nil && len(wrapped.Content) > 0 {
		if json.Unmarshal(wrapped.Content, &text) == nil {
			return text
		}
		if json.Unmarshal(wrapped.Content, &blocks) == nil {
			return firstBlockText(blocks)
		}
	}
	return ""
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func firstBlockText(blocks []contentBlock) string {
	for _, b := range blocks {
		if b.Text != "" {
			return b.Text
		}
	}
	return ""
}

func truncatePrompt(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
