// Package agentlog collects the reconciliation agents' activity in a small
// ring buffer so the health endpoint can surface recent entries without
// scraping process logs.
package agentlog

import (
	"sync"
	"time"

	"github.com/smiledental/clinic-platform/pkg/logging"
)

// Level classifies an entry's severity.
type Level string

const (
	LevelInfo     Level = "INFO"
	LevelError    Level = "ERROR"
	LevelCritical Level = "CRITICAL"
)

// Entry is one recorded agent event.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Agent     string    `json:"agent"`
	Message   string    `json:"message"`
	Level     Level     `json:"level"`
}

// Sink receives agent events. Tests substitute an in-memory sink and assert
// on entries deterministically.
type Sink interface {
	Record(agent, message string, level Level)
	Recent(n int) []Entry
}

const ringCapacity = 100

// RingSink keeps the newest entries first, capped at 100, and mirrors each
// entry to the structured logger.
type RingSink struct {
	mu      sync.Mutex
	entries []Entry
	logger  *logging.Logger
}

// NewRingSink creates a sink. logger may be nil.
func NewRingSink(logger *logging.Logger) *RingSink {
	return &RingSink{logger: logger}
}

// Record stores an entry at the head of the ring.
func (s *RingSink) Record(agent, message string, level Level) {
	if level == "" {
		level = LevelInfo
	}
	entry := Entry{Timestamp: time.Now().UTC(), Agent: agent, Message: message, Level: level}

	s.mu.Lock()
	s.entries = append([]Entry{entry}, s.entries...)
	if len(s.entries) > ringCapacity {
		s.entries = s.entries[:ringCapacity]
	}
	s.mu.Unlock()

	if s.logger == nil {
		return
	}
	switch level {
	case LevelError:
		s.logger.Error(message, "agent", agent)
	case LevelCritical:
		s.logger.Error(message, "agent", agent, "severity", "critical")
	default:
		s.logger.Info(message, "agent", agent)
	}
}

// Recent returns up to n entries, newest first.
func (s *RingSink) Recent(n int) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > len(s.entries) {
		n = len(s.entries)
	}
	out := make([]Entry, n)
	copy(out, s.entries[:n])
	return out
}
