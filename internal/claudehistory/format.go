package claudehistory

import (
	"fmt"
	"strings"
	"time"
)

func FormatSession(s Session) string {
	var b strings.Builder
	b.WriteString("Session: ")
	b.WriteString(s.SessionID)
	b.WriteString("\n")
	if s.ProjectPath != "" {
		b.WriteString("Project: ")
		b.WriteString(s.ProjectPath)
		b.WriteString("\n")
	}
	if s.GitBranch != "" {
		b.WriteString("Branch:  ")
		b.WriteString(s.GitBranch)
		b.WriteString("\n")
	}
	if s.Model != "" {
		b.WriteString("Model:   ")
		b.WriteString(s.Model)
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("Messages: %d\n", s.MessageCount))
	if title := s.DisplayTitle(); title != "" {
		b.WriteString(title)
		b.WriteString("\n")
	}
	return b.String()
}

func FormatMessages(msgs []Message, maxLen int) string {
	var b strings.Builder
	for _, m := range msgs {
		content := m.Content
		if maxLen > 0 {
			if runes := []rune(content); len(runes) > maxLen {
				content = string(runes[:maxLen]) + "..."
			}
		}
		b.WriteString("[")
		b.WriteString(m.Role)
		b.WriteString("] ")
		b.WriteString(content)
		b.WriteString("\n\n")
	}
	return b.String()
}

// FormatRelativeTime renders t relative to now, matching the labels the
// session list shows.
func FormatRelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
