package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/natefinch/atomic"
	"github.com/tidwall/jsonc"

	"github.com/firefly-engineering/agentspaces/internal/errors"
	"github.com/firefly-engineering/agentspaces/internal/logging"
)

const (
	// SchemaVersion is written to every saved config.
	SchemaVersion = "1"

	// MaxFileSize caps how much of config.json is parsed.
	MaxFileSize = 1 << 20
)

// GlobalConfig is the user's global configuration from <base>/config.json.
type GlobalConfig struct {
	Version string `json:"version"`

	// PlanModeByDefault launches agents in plan mode unless overridden.
	PlanModeByDefault bool `json:"plan_mode_by_default"`
}

// Default returns the configuration used when no file exists.
func Default() GlobalConfig {
	return GlobalConfig{Version: SchemaVersion}
}

// keys maps config keys to their accessors.
var keys = map[string]struct {
	get func(GlobalConfig) string
	set func(*GlobalConfig, string) error
}{
	"plan_mode_by_default": {
		get: func(c GlobalConfig) string { return strconv.FormatBool(c.PlanModeByDefault) },
		set: func(c *GlobalConfig, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return errors.ValidationErrorf("plan_mode_by_default must be true or false, got %q", v)
			}
			c.PlanModeByDefault = b
			return nil
		},
	},
}

// Keys returns the settable configuration keys, sorted.
func Keys() []string {
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Get returns the string form of key.
func (c GlobalConfig) Get(key string) (string, error) {
	k, ok := keys[key]
	if !ok {
		return "", errors.ValidationErrorf("unknown config key %q", key)
	}
	return k.get(c), nil
}

// Set returns a copy of c with key set to value.
func (c GlobalConfig) Set(key, value string) (GlobalConfig, error) {
	k, ok := keys[key]
	if !ok {
		return c, errors.ValidationErrorf("unknown config key %q", key)
	}
	if err := k.set(&c, value); err != nil {
		return c, err
	}
	return c, nil
}

// Load reads the config at path. Comments and trailing commas are
// accepted. A missing, oversized or unparsable file yields Default.
func Load(path string) GlobalConfig {
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("cannot read config", "path", path, "error", err)
		} else {
			logging.Debug("config not found, using defaults", "path", path)
		}
		return Default()
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		logging.Warn("cannot read config", "path", path, "error", err)
		return Default()
	}
	if len(data) > MaxFileSize {
		logging.Warn("config file too large, using defaults", "path", path, "limit", MaxFileSize)
		return Default()
	}

	cfg := Default()
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		logging.Warn("invalid config, using defaults", "path", path, "error", err)
		return Default()
	}
	if cfg.Version != "" && cfg.Version != SchemaVersion {
		logging.Warn("config schema version mismatch", "path", path, "found", cfg.Version, "expected", SchemaVersion)
	}
	return cfg
}

// Save writes cfg to path atomically, creating the parent directory.
func Save(cfg GlobalConfig, path string) error {
	cfg.Version = SchemaVersion

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.PersistenceError("failed to encode config", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.PersistenceError("failed to create config directory", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return errors.PersistenceError(fmt.Sprintf("failed to save config to %s", path), err)
	}
	logging.Debug("config saved", "path", path)
	return nil
}
