package learnify

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LLMLog records every request and response exchanged with the LLM for
// one generation, in a per-generation file under log/.
type LLMLog struct {
	file *os.File
	mu   sync.Mutex
}

// NewLLMLog creates a log file for the given generation id.
func NewLLMLog(id string) (*LLMLog, error) {
	if err := os.MkdirAll("log", 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := filepath.Join("log", fmt.Sprintf("%s.log", id))
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	l := &LLMLog{file: file}
	l.Logf("=== LLM Interaction Log ===\n")
	l.Logf("ID: %s\n", id)
	l.Logf("Started: %s\n\n", time.Now().Format(time.RFC3339))
	return l, nil
}

// Logf writes a formatted entry with a timestamp.
func (l *LLMLog) Logf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(l.file, "[%s] %s", timestamp, fmt.Sprintf(format, args...))
	l.file.Sync()
}

// LogRequest records an outgoing prompt.
func (l *LLMLog) LogRequest(module, prompt string) {
	l.Logf("=== REQUEST (%s) ===\n%s\n\n", module, prompt)
}

// LogResponse records the raw response payload.
func (l *LLMLog) LogResponse(module, response string) {
	l.Logf("=== RESPONSE (%s) ===\n%s\n\n", module, response)
}

// Close finishes and closes the log file.
func (l *LLMLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(l.file, "[%s] Completed: %s\n", timestamp, time.Now().Format(time.RFC3339))
	return l.file.Close()
}
