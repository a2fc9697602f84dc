package claudehistory

import "strings"

// FilterEmptySessions drops sessions with no messages, no first prompt,
// and no title. Discovery itself returns them; views that only offer
// resumable work call this before presenting the list.
func FilterEmptySessions(sessions []Session) []Session {
	if len(sessions) == 0 {
		return sessions
	}
	out := make([]Session, 0, len(sessions))
	for _, sess := range sessions {
		if isEmptySession(sess) {
			continue
		}
		out = append(out, sess)
	}
	return out
}

func isEmptySession(session Session) bool {
	if session.MessageCount > 0 {
		return false
	}
	if strings.TrimSpace(session.FirstPrompt) != "" {
		return false
	}
	if strings.TrimSpace(session.CustomTitle) != "" {
		return false
	}
	return true
}
