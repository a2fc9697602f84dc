package claudehistory

import (
	"testing"
)

// ---------------------------------------------------------------------------
// appendMessage
// ---------------------------------------------------------------------------

func TestAppendMessage_UnderLimit(t *testing.T) {
	var ring []Message
	appendMessage(&ring, Message{Role: "user", Content: "a"}, 5)
	appendMessage(&ring, Message{Role: "assistant", Content: "b"}, 5)
	if len(ring) != 2 {
		t.Fatalf("len = %d, want 2", len(ring))
	}
}

func TestAppendMessage_AtLimit(t *testing.T) {
	var ring []Message
	appendMessage(&ring, Message{Content: "1"}, 2)
	appendMessage(&ring, Message{Content: "2"}, 2)
	appendMessage(&ring, Message{Content: "3"}, 2)
	if len(ring) != 2 {
		t.Fatalf("len = %d, want 2", len(ring))
	}
	if ring[0].Content != "2" || ring[1].Content != "3" {
		t.Errorf("ring = [%q, %q], want [2, 3]", ring[0].Content, ring[1].Content)
	}
}

func TestAppendMessage_ZeroLimitUnlimited(t *testing.T) {
	var ring []Message
	for i := 0; i < 100; i++ {
		appendMessage(&ring, Message{Content: "x"}, 0)
	}
	if len(ring) != 100 {
		t.Fatalf("len = %d, want 100", len(ring))
	}
}

// ---------------------------------------------------------------------------
// parseLineMessage
// ---------------------------------------------------------------------------

func TestParseLineMessage_InvalidJSON(t *testing.T) {
	if _, ok := parseLineMessage([]byte(`{broken`)); ok {
		t.Error("expected no message for invalid JSON")
	}
}

func TestParseLineMessage_SummaryRecordSkipped(t *testing.T) {
	if _, ok := parseLineMessage([]byte(`{"type":"summary","summary":"s"}`)); ok {
		t.Error("summary records carry no displayable message")
	}
}

func TestParseLineMessage_UserString(t *testing.T) {
	msg, ok := parseLineMessage([]byte(`{"type":"user","message":"hello","timestamp":"2026-01-01T00:00:00Z"}`))
	if !ok {
		t.Fatal("expected message")
	}
	if msg.Role != "user" || msg.Content != "hello" {
		t.Errorf("msg = %+v", msg)
	}
	if msg.Timestamp.Year() != 2026 {
		t.Errorf("Timestamp = %v", msg.Timestamp)
	}
}

func TestParseLineMessage_AssistantBlocks(t *testing.T) {
	line := `{"type":"assistant","message":{"model":"claude-sonnet-4","content":[{"type":"text","text":"answer"}]}}`
	msg, ok := parseLineMessage([]byte(line))
	if !ok {
		t.Fatal("expected message")
	}
	if msg.Role != "assistant" || msg.Content != "answer" {
		t.Errorf("msg = %+v", msg)
	}
}

func TestParseLineMessage_InjectedUserSkipped(t *testing.T) {
	if _, ok := parseLineMessage([]byte(`{"type":"user","message":"<local-command-stdout></local-command-stdout>"}`)); ok {
		t.Error("injected command output should be skipped")
	}
}

// ---------------------------------------------------------------------------
// ReadSessionMessages
// ---------------------------------------------------------------------------

func TestReadSessionMessages_TailWindow(t *testing.T) {
	dir := t.TempDir()
	path := writeLog(t, dir, "s.jsonl",
		`{"type":"user","message":"one"}`,
		`{"type":"assistant","message":{"content":[{"type":"text","text":"two"}]}}`,
		`{"type":"user","message":"three"}`,
	)
	msgs, err := ReadSessionMessages(path, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 {
		t.Fatalf("len = %d, want 2", len(msgs))
	}
	if msgs[0].Content != "two" || msgs[1].Content != "three" {
		t.Errorf("msgs = %+v", msgs)
	}
}

func TestReadSessionMessages_MissingFile(t *testing.T) {
	if _, err := ReadSessionMessages("/nonexistent/file.jsonl", 10); err == nil {
		t.Error("expected error")
	}
}
