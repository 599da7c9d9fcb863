package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"
)

// SessionFileName is the record written into each session directory.
const SessionFileName = "session.json"

// Session records one agent launch in a workspace.
type Session struct {
	ID        string     `json:"id"`
	Agent     string     `json:"agent"`
	Project   string     `json:"project"`
	Workspace string     `json:"workspace"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
	ExitCode  *int       `json:"exit_code"`
	PlanMode  bool       `json:"plan_mode"`
	HasPrompt bool       `json:"has_prompt"`
}

// NewSessionID returns a fresh random session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Finish returns a copy of s marked as ended with exitCode.
func (s Session) Finish(at time.Time, exitCode int) Session {
	ended := at.UTC()
	s.EndedAt = &ended
	s.ExitCode = &exitCode
	return s
}

// WriteSession stores s as <dir>/session.json, creating dir.
func WriteSession(dir string, s Session) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return atomic.WriteFile(filepath.Join(dir, SessionFileName), bytes.NewReader(append(data, '\n')))
}

// ReadSession loads <dir>/session.json.
func ReadSession(dir string) (Session, error) {
	var s Session
	data, err := os.ReadFile(filepath.Join(dir, SessionFileName))
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("failed to parse session: %w", err)
	}
	return s, nil
}
