package metadata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/firefly-engineering/agentspaces/internal/errors"
)

func strPtr(s string) *string { return &s }

func sample() Metadata {
	created := time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.UTC)
	return New("eager-turing", "myproject", "eager-turing", "main", created)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "workspace.json")

	synced := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	active := time.Date(2025, 3, 16, 11, 30, 0, 123000000, time.UTC)
	m := sample()
	m.Purpose = strPtr("Fix the auth flow")
	m.PythonVersion = strPtr("3.12")
	m.HasVenv = true
	m.Attached = true
	m.Status = StatusArchived
	m = m.WithDepsSyncedAt(synced).WithLastActivityAt(active)

	if err := Save(m, path); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got := Load(path)
	if got == nil {
		t.Fatal("Load returned nil")
	}
	if !reflect.DeepEqual(*got, m) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", *got, m)
	}
}

func TestSaveLoad_OptionalFieldsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workspace.json")
	m := sample()

	if err := Save(m, path); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	got := Load(path)
	if got == nil {
		t.Fatal("Load returned nil")
	}
	if got.Purpose != nil || got.PythonVersion != nil || got.DepsSyncedAt != nil || got.LastActivityAt != nil {
		t.Errorf("optional fields should stay nil: %+v", got)
	}
	if got.Status != StatusActive || got.HasVenv {
		t.Errorf("defaults not applied: %+v", got)
	}
}

func TestSave_WritesVersionAndUTC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workspace.json")
	loc := time.FixedZone("UTC+2", 2*60*60)
	m := New("ws", "proj", "ws", "HEAD", time.Date(2025, 1, 1, 12, 0, 0, 0, loc))

	if err := Save(m, path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["version"] != SchemaVersion {
		t.Errorf("version = %v, want %q", raw["version"], SchemaVersion)
	}
	if raw["created_at"] != "2025-01-01T10:00:00Z" {
		t.Errorf("created_at = %v, want UTC", raw["created_at"])
	}
	if _, ok := raw["purpose"]; !ok {
		t.Error("purpose should be written as null")
	}
}

func TestSave_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "workspace.json")

	for i := 0; i < 3; i++ {
		if err := Save(sample(), path); err != nil {
			t.Fatal(err)
		}
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory should only hold workspace.json, got %v", names)
	}
}

func TestSave_Failure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "workspace.json")

	err := Save(sample(), path)
	if !errors.IsKind(err, errors.KindPersistence) {
		t.Fatalf("error = %v, want PersistenceError", err)
	}
	if _, statErr := os.Stat(filepath.Dir(path)); !os.IsNotExist(statErr) {
		t.Error("Save must not create the parent directory")
	}
}

func TestSave_InvalidMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workspace.json")
	m := sample()
	m.Branch = ""

	if err := Save(m, path); !errors.IsKind(err, errors.KindPersistence) {
		t.Errorf("error = %v, want PersistenceError", err)
	}
}

func TestLoad_DegradesToNil(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", "{not json"},
		{"missing name", `{"version":"3","project":"p","branch":"b","base_branch":"main","created_at":"2025-01-01T00:00:00Z"}`},
		{"missing created_at", `{"version":"3","name":"n","project":"p","branch":"b","base_branch":"main"}`},
		{"bad timestamp", `{"version":"3","name":"n","project":"p","branch":"b","base_branch":"main","created_at":"yesterday"}`},
		{"not an object", `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "workspace.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if got := Load(path); got != nil {
				t.Errorf("Load = %+v, want nil", got)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if got := Load(filepath.Join(t.TempDir(), "nope.json")); got != nil {
		t.Errorf("Load = %+v, want nil", got)
	}
}

func TestLoad_Oversized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workspace.json")
	padding := strings.Repeat(" ", MaxFileSize)
	content := `{"version":"3","name":"n","project":"p","branch":"b","base_branch":"main","created_at":"2025-01-01T00:00:00Z"}` + padding
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if got := Load(path); got != nil {
		t.Error("oversized file should load as nil")
	}
}

func TestLoad_VersionMismatchAndLegacyFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workspace.json")
	content := `{
  "version": "2",
  "name": "bold-curie",
  "project": "proj",
  "branch": "bold-curie",
  "base_branch": "main",
  "created_at": "2024-06-01T08:00:00.123456",
  "purpose": "legacy",
  "unknown_field": {"nested": true},
  "status": "frozen"
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got := Load(path)
	if got == nil {
		t.Fatal("version mismatch must not block loading")
	}
	want := time.Date(2024, 6, 1, 8, 0, 0, 123456000, time.UTC)
	if !got.CreatedAt.Equal(want) || got.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt = %v, want %v in UTC", got.CreatedAt, want)
	}
	if got.Purpose == nil || *got.Purpose != "legacy" {
		t.Errorf("Purpose = %v", got.Purpose)
	}
	if got.HasVenv {
		t.Error("HasVenv should default to false")
	}
	if got.Status != StatusActive {
		t.Errorf("unknown status should default to active, got %q", got.Status)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-01-02T03:04:05Z", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2025-01-02T03:04:05+00:00", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2025-01-02T05:04:05+02:00", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2025-01-02T03:04:05", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2025-01-02 03:04:05.5", time.Date(2025, 1, 2, 3, 4, 5, 500000000, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTimestamp(tt.in)
			if err != nil {
				t.Fatalf("parseTimestamp error: %v", err)
			}
			if !got.Equal(tt.want) || got.Location() != time.UTC {
				t.Errorf("parseTimestamp(%q) = %v, want %v UTC", tt.in, got, tt.want)
			}
		})
	}

	if _, err := parseTimestamp("not a time"); err == nil {
		t.Error("expected error for garbage")
	}
}

func TestWithUpdatesDoNotMutate(t *testing.T) {
	m := sample()
	updated := m.WithDepsSyncedAt(time.Now())

	if m.DepsSyncedAt != nil {
		t.Error("original must not be modified")
	}
	if updated.DepsSyncedAt == nil {
		t.Error("copy should carry the new timestamp")
	}
	if updated.Name != m.Name || !updated.CreatedAt.Equal(m.CreatedAt) {
		t.Error("identity fields must be preserved")
	}
}

func TestValidate(t *testing.T) {
	if err := sample().Validate(); err != nil {
		t.Errorf("Validate error: %v", err)
	}
	err := Metadata{Name: "x"}.Validate()
	if err == nil || !strings.Contains(err.Error(), "project") {
		t.Errorf("Validate error = %v, want missing project", err)
	}
	if strings.Contains(err.Error(), "base_branch") {
		t.Errorf("empty base_branch should be accepted, got %v", err)
	}
}

func TestLoad_BaseBranchPresence(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantNil bool
	}{
		{"empty base branch", `{"version":"3","name":"n","project":"p","branch":"b","base_branch":"","created_at":"2025-01-01T00:00:00Z"}`, false},
		{"absent base branch", `{"version":"3","name":"n","project":"p","branch":"b","created_at":"2025-01-01T00:00:00Z"}`, true},
		{"null base branch", `{"version":"3","name":"n","project":"p","branch":"b","base_branch":null,"created_at":"2025-01-01T00:00:00Z"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "workspace.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			got := Load(path)
			if (got == nil) != tt.wantNil {
				t.Fatalf("Load = %+v, wantNil %v", got, tt.wantNil)
			}
			if got != nil && got.BaseBranch != "" {
				t.Errorf("BaseBranch = %q, want empty", got.BaseBranch)
			}
		})
	}
}

func TestSaveLoad_EmptyBaseBranch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workspace.json")
	m := sample()
	m.BaseBranch = ""

	if err := Save(m, path); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	got := Load(path)
	if got == nil {
		t.Fatal("Load returned nil")
	}
	if !reflect.DeepEqual(*got, m) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", *got, m)
	}
}

func TestLoad_Attached(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"explicit true", `{"version":"3","name":"n","project":"p","branch":"feature","base_branch":"main","attached":true,"created_at":"2025-01-01T00:00:00Z"}`, true},
		{"explicit false with matching branches", `{"version":"3","name":"n","project":"p","branch":"main","base_branch":"main","attached":false,"created_at":"2025-01-01T00:00:00Z"}`, false},
		{"legacy matching branches", `{"version":"2","name":"n","project":"p","branch":"bugfix","base_branch":"bugfix","created_at":"2025-01-01T00:00:00Z"}`, true},
		{"legacy generated branch", `{"version":"2","name":"n","project":"p","branch":"n","base_branch":"main","created_at":"2025-01-01T00:00:00Z"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "workspace.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			got := Load(path)
			if got == nil {
				t.Fatal("Load returned nil")
			}
			if got.Attached != tt.want {
				t.Errorf("Attached = %v, want %v", got.Attached, tt.want)
			}
		})
	}
}
