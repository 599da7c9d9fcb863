// Package metadata persists the descriptive record of one workspace as
// schema-versioned JSON.
//
// Writes go through a temporary file in the target directory followed by
// a rename, so readers never observe a partial file. Reads never fail:
// a missing, oversized, corrupt or incomplete file loads as nil.
package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"github.com/firefly-engineering/agentspaces/internal/errors"
	"github.com/firefly-engineering/agentspaces/internal/logging"
)

const (
	// SchemaVersion is written to every saved file.
	SchemaVersion = "3"

	// MaxFileSize caps how much of a metadata file is parsed.
	MaxFileSize = 1 << 20
)

// Status is the lifecycle status of a workspace.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Metadata is the descriptive record of a workspace. It is a value type:
// updates return a modified copy. Attached marks a workspace that checked
// out an existing branch instead of creating one.
type Metadata struct {
	Name           string
	Project        string
	Branch         string
	BaseBranch     string
	CreatedAt      time.Time
	Attached       bool
	Purpose        *string
	PythonVersion  *string
	HasVenv        bool
	Status         Status
	DepsSyncedAt   *time.Time
	LastActivityAt *time.Time
}

// New returns metadata for a freshly created workspace.
func New(name, project, branch, baseBranch string, createdAt time.Time) Metadata {
	return Metadata{
		Name:       name,
		Project:    project,
		Branch:     branch,
		BaseBranch: baseBranch,
		CreatedAt:  createdAt.UTC(),
		Status:     StatusActive,
	}
}

// WithDepsSyncedAt returns a copy with DepsSyncedAt set.
func (m Metadata) WithDepsSyncedAt(t time.Time) Metadata {
	u := t.UTC()
	m.DepsSyncedAt = &u
	return m
}

// WithLastActivityAt returns a copy with LastActivityAt set.
func (m Metadata) WithLastActivityAt(t time.Time) Metadata {
	u := t.UTC()
	m.LastActivityAt = &u
	return m
}

// WithEnvironment returns a copy with venv fields set.
func (m Metadata) WithEnvironment(hasVenv bool, pythonVersion *string) Metadata {
	m.HasVenv = hasVenv
	m.PythonVersion = pythonVersion
	return m
}

// Validate checks that identity fields are present.
func (m Metadata) Validate() error {
	missing := m.missingFields()
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (m Metadata) missingFields() []string {
	var missing []string
	if m.Name == "" {
		missing = append(missing, "name")
	}
	if m.Project == "" {
		missing = append(missing, "project")
	}
	if m.Branch == "" {
		missing = append(missing, "branch")
	}
	if m.CreatedAt.IsZero() {
		missing = append(missing, "created_at")
	}
	return missing
}

// record is the on-disk JSON form.
type record struct {
	Version        string     `json:"version"`
	Name           string     `json:"name"`
	Project        string     `json:"project"`
	Branch         string     `json:"branch"`
	BaseBranch     *string    `json:"base_branch"`
	CreatedAt      *timestamp `json:"created_at"`
	Attached       *bool      `json:"attached"`
	Purpose        *string    `json:"purpose"`
	PythonVersion  *string    `json:"python_version"`
	HasVenv        *bool      `json:"has_venv"`
	Status         *string    `json:"status"`
	DepsSyncedAt   *timestamp `json:"deps_synced_at"`
	LastActivityAt *timestamp `json:"last_activity_at"`
}

// Save writes m to path atomically.
func Save(m Metadata, path string) error {
	if err := m.Validate(); err != nil {
		return errors.PersistenceError("refusing to save invalid metadata", err)
	}

	status := string(m.Status)
	if status == "" {
		status = string(StatusActive)
	}
	hasVenv := m.HasVenv
	attached := m.Attached
	baseBranch := m.BaseBranch
	rec := record{
		Version:        SchemaVersion,
		Name:           m.Name,
		Project:        m.Project,
		Branch:         m.Branch,
		BaseBranch:     &baseBranch,
		CreatedAt:      newTimestamp(&m.CreatedAt),
		Attached:       &attached,
		Purpose:        m.Purpose,
		PythonVersion:  m.PythonVersion,
		HasVenv:        &hasVenv,
		Status:         &status,
		DepsSyncedAt:   newTimestamp(m.DepsSyncedAt),
		LastActivityAt: newTimestamp(m.LastActivityAt),
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.PersistenceError("failed to encode metadata", err)
	}
	data = append(data, '\n')

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return errors.PersistenceError(fmt.Sprintf("failed to save metadata to %s", path), err)
	}
	return nil
}

// Load reads metadata from path, returning nil when the file is missing,
// larger than MaxFileSize, not valid JSON or missing an identity field.
// A different schema version is logged and loaded on a best-effort basis.
func Load(path string) *Metadata {
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Debug("cannot open metadata", "path", path, "error", err)
		}
		return nil
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		logging.Debug("cannot read metadata", "path", path, "error", err)
		return nil
	}
	if len(data) > MaxFileSize {
		logging.Warn("metadata file too large, ignoring", "path", path, "limit", MaxFileSize)
		return nil
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		logging.Warn("invalid metadata JSON, ignoring", "path", path, "error", err)
		return nil
	}
	if rec.Version != SchemaVersion {
		logging.Warn("metadata schema version mismatch", "path", path, "found", rec.Version, "expected", SchemaVersion)
	}

	m := Metadata{
		Name:           rec.Name,
		Project:        rec.Project,
		Branch:         rec.Branch,
		Purpose:        rec.Purpose,
		PythonVersion:  rec.PythonVersion,
		Status:         StatusActive,
		DepsSyncedAt:   rec.DepsSyncedAt.timePtr(),
		LastActivityAt: rec.LastActivityAt.timePtr(),
	}
	if t := rec.CreatedAt.timePtr(); t != nil {
		m.CreatedAt = *t
	}
	if rec.BaseBranch != nil {
		m.BaseBranch = *rec.BaseBranch
	}
	if rec.HasVenv != nil {
		m.HasVenv = *rec.HasVenv
	}
	if rec.Attached != nil {
		m.Attached = *rec.Attached
	} else {
		// Files written before the attached flag existed.
		m.Attached = m.Branch != "" && m.Branch == m.BaseBranch
	}
	if rec.Status != nil {
		switch s := Status(*rec.Status); s {
		case StatusActive, StatusArchived:
			m.Status = s
		default:
			logging.Debug("unknown workspace status, defaulting to active", "path", path, "status", *rec.Status)
		}
	}

	missing := m.missingFields()
	if rec.BaseBranch == nil {
		missing = append(missing, "base_branch")
	}
	if len(missing) > 0 {
		logging.Warn("metadata missing required fields, ignoring", "path", path, "fields", missing)
		return nil
	}
	return &m
}

// FileStore implements metadata persistence on the local filesystem.
type FileStore struct{}

// Save writes m to path atomically.
func (FileStore) Save(m Metadata, path string) error { return Save(m, path) }

// Load reads metadata from path, or returns nil.
func (FileStore) Load(path string) *Metadata { return Load(path) }
