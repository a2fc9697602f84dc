package claudehistory

import "strings"

func shouldSkipFirstPrompt(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return true
	}
	// XML-wrapped system content: <command-name>...</command-name> etc.
	if strings.HasPrefix(trimmed, "<") && strings.HasSuffix(trimmed, ">") {
		return true
	}
	// The CLI injects a caveat banner before pasted transcript content
	if strings.HasPrefix(trimmed, "Caveat:") {
		return true
	}
	if strings.Contains(trimmed, "<system-reminder>") {
		return true
	}
	return false
}
