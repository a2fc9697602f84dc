package claudehistory

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// SessionFilePath returns the session's backing .jsonl log, deriving it
// from the encoded project path when discovery did not record one.
func (sc *Scanner) SessionFilePath(s Session) string {
	if s.FilePath != "" {
		return s.FilePath
	}
	if s.SessionID == "" {
		return ""
	}
	return filepath.Join(sc.ProjectsDir, EncodeProjectPath(s.ProjectPath), s.SessionID+".jsonl")
}

// Enrich fills the fields a discovery pass leaves empty because they need
// session-specific re-reads: the model from the session log and the git
// branch from the project checkout.
func (sc *Scanner) Enrich(ctx context.Context, s *Session) {
	if s.FilePath == "" {
		s.FilePath = sc.SessionFilePath(*s)
	}
	if s.Model == "" {
		s.Model = SessionModel(s.FilePath)
	}
	if s.GitBranch == "" {
		s.GitBranch = GitBranch(ctx, s.ProjectPath)
	}
}

// SessionModel scans a session log for the model recorded on assistant
// turns and reduces it to a short family name. The last assistant turn
// wins. Returns "" when the log has no model information.
func SessionModel(filePath string) string {
	f, err := os.Open(filePath)
	if err != nil {
		return ""
	}
	defer f.Close()

	var model string
	reader := bufio.NewReaderSize(f, 64*1024)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return simplifyModel(model)
		}
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			var rec struct {
				Type    string `json:"type"`
				Message struct {
					Model string `json:"model"`
				} `json:"message"`
			}
			if json.Unmarshal(line, &rec) == nil && rec.Type == "assistant" && rec.Message.Model != "" {
				model = rec.Message.Model
			}
		}
		if err == io.EOF {
			break
		}
	}
	return simplifyModel(model)
}

// simplifyModel collapses a full model identifier down to its family.
func simplifyModel(model string) string {
	lower := strings.ToLower(model)
	for _, family := range []string{"opus", "sonnet", "haiku"} {
		if strings.Contains(lower, family) {
			return family
		}
	}
	return model
}

// GitBranch returns the checked-out branch of dir, or "" when dir is not a
// git work tree or git does not answer promptly.
func GitBranch(ctx context.Context, dir string) string {
	if !isDir(dir) {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--abbrev-ref", "HEAD")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	branch := strings.TrimSpace(string(out))
	if branch == "HEAD" {
		// Detached checkout, not useful as a label
		return ""
	}
	return branch
}
