package claudehistory

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"time"
)

type Message struct {
	Role      string
	Content   string
	Timestamp time.Time
}

// ReadSessionMessages returns up to the last maxMessages displayable
// messages of a session log. Lines that are not valid JSON or carry no
// displayable text are skipped.
func ReadSessionMessages(filePath string, maxMessages int) ([]Message, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ring []Message
	reader := bufio.NewReaderSize(f, 64*1024)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			if msg, ok := parseLineMessage(line); ok {
				appendMessage(&ring, msg, maxMessages)
			}
		}
		if err == io.EOF {
			break
		}
	}
	return ring, nil
}

func appendMessage(ring *[]Message, msg Message, maxMessages int) {
	if maxMessages > 0 && len(*ring) >= maxMessages {
		*ring = append((*ring)[1:], msg)
		return
	}
	*ring = append(*ring, msg)
}

func parseLineMessage(line []byte) (Message, bool) {
	var rec struct {
		Type      string          `json:"type"`
		Timestamp string          `json:"timestamp"`
		Message   json.RawMessage `json:"message"`
	}
	if json.Unmarshal(line, &rec) != nil {
		return Message{}, false
	}
	if rec.Type != "user" && rec.Type != "assistant" {
		return Message{}, false
	}

	text := strings.TrimSpace(extractMessageText(rec.Message))
	if text == "" {
		return Message{}, false
	}
	if rec.Type == "user" && shouldSkipFirstPrompt(text) {
		return Message{}, false
	}

	ts, _ := ParseInstant(rec.Timestamp)
	return Message{Role: rec.Type, Content: text, Timestamp: ts}, true
}
