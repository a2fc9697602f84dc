package claudehistory

import (
	"os"
	"sync"
	"time"
)

type logFileCacheEntry struct {
	mtime   time.Time
	session Session
}

var logFileCache = struct {
	mu      sync.Mutex
	entries map[string]logFileCacheEntry
}{
	entries: map[string]logFileCacheEntry{},
}

// ResetCache drops all cached log file parses. Mainly useful in tests and
// after operations that rewrite session logs in place.
func ResetCache() {
	logFileCache.mu.Lock()
	logFileCache.entries = map[string]logFileCacheEntry{}
	logFileCache.mu.Unlock()
}

// cachedSession returns the cached parse for filePath when the file's mtime
// has not moved since the parse was taken.
func cachedSession(filePath string) (Session, bool) {
	info, err := os.Stat(filePath)
	if err != nil {
		logFileCache.mu.Lock()
		delete(logFileCache.entries, filePath)
		logFileCache.mu.Unlock()
		return Session{}, false
	}
	logFileCache.mu.Lock()
	entry, ok := logFileCache.entries[filePath]
	logFileCache.mu.Unlock()
	if ok && entry.mtime.Equal(info.ModTime()) {
		return entry.session, true
	}
	return Session{}, false
}

func storeSession(filePath string, sess Session) {
	info, err := os.Stat(filePath)
	if err != nil {
		return
	}
	logFileCache.mu.Lock()
	logFileCache.entries[filePath] = logFileCacheEntry{mtime: info.ModTime(), session: sess}
	logFileCache.mu.Unlock()
}
