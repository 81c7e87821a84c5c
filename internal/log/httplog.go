package log

import (
	"fmt"
	"sync"
	"time"
)

// HTTP log buffer is separate from the main log output
var httpLogBuffer *LogBuffer
var httpLogBufferOnce sync.Once

// GetHTTPLogBuffer returns the HTTP log buffer instance, creating it if necessary
func GetHTTPLogBuffer() *LogBuffer {
	httpLogBufferOnce.Do(func() {
		httpLogBuffer = NewLogBuffer(1000) // Keep last 1000 HTTP log entries
	})
	return httpLogBuffer
}

// LogHTTPRequest records a served request in the HTTP log buffer
func LogHTTPRequest(method, path string, status int, duration time.Duration, size int, remoteAddr, userAgent string) {
	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     "info",
		Message:   fmt.Sprintf("%s %s %d %v %d bytes", method, path, status, duration, size),
		Fields: map[string]any{
			"method":      method,
			"path":        path,
			"status":      status,
			"duration_ms": duration.Milliseconds(),
			"size":        size,
			"remote_addr": remoteAddr,
			"user_agent":  userAgent,
		},
	}

	if status >= 500 {
		entry.Level = "error"
	} else if status >= 400 {
		entry.Level = "warn"
	}

	GetHTTPLogBuffer().AddEntry(entry)
}
