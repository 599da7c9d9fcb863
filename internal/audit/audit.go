// Package audit provides structured event logging for workspace lifecycle
// events. Events are stored as JSON Lines (JSONL), one file per project.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/firefly-engineering/agentspaces/internal/paths"
)

// EventType classifies a lifecycle event.
type EventType string

const (
	EventCreate   EventType = "create"
	EventRemove   EventType = "remove"
	EventActivate EventType = "activate"
	EventSync     EventType = "sync"
	EventLaunch   EventType = "launch"
	EventRollback EventType = "rollback"
)

// Event represents a single audit log entry.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Project   string    `json:"project"`
	Workspace string    `json:"workspace"`
	Details   string    `json:"details,omitempty"`
}

// Logger writes and reads audit events.
// Events are stored in {base}/{project}/.events.jsonl.
type Logger struct {
	resolver *paths.Resolver
}

// NewLogger creates a new audit logger using resolver for file locations.
func NewLogger(resolver *paths.Resolver) *Logger {
	return &Logger{resolver: resolver}
}

// Log appends an event to the project's audit log.
func (l *Logger) Log(event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Timestamp = event.Timestamp.UTC()

	path, err := l.resolver.EventsFile(event.Project)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// LogEvent is a convenience method that creates and logs an event.
func (l *Logger) LogEvent(eventType EventType, project, workspace, details string) error {
	return l.Log(Event{
		Timestamp: time.Now(),
		Type:      eventType,
		Project:   project,
		Workspace: workspace,
		Details:   details,
	})
}

// Events reads all events for a project in chronological order.
func (l *Logger) Events(project string) ([]Event, error) {
	path, err := l.resolver.EventsFile(project)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // Skip malformed lines
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading audit log: %w", err)
	}

	return events, nil
}

// WorkspaceEvents returns the project's events that concern one workspace.
func (l *Logger) WorkspaceEvents(project, workspace string) ([]Event, error) {
	all, err := l.Events(project)
	var filtered []Event
	for _, e := range all {
		if e.Workspace == workspace {
			filtered = append(filtered, e)
		}
	}
	return filtered, err
}
