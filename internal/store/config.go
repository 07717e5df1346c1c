package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"threadcut/internal/model"
)

// Config is the user's default cleaning setup. Only non-nil fields override
// the built-in defaults.
type Config struct {
	StripHeaderTags     *bool `json:"stripHeaderTags,omitempty"`
	StripUsernameParens *bool `json:"stripUsernameParens,omitempty"`
	AddContentBr        *bool `json:"addContentBr,omitempty"`

	// ExportDir is the default directory for exported files.
	ExportDir string `json:"exportDir,omitempty"`
}

// Option keys as used by `config set`, scripts and env overrides.
const (
	KeyStripHeaderTags     = "strip-header-tags"
	KeyStripUsernameParens = "strip-username-parens"
	KeyAddContentBr        = "add-content-br"
	KeyExportDir           = "export-dir"
)

var envByKey = map[string]string{
	KeyStripHeaderTags:     "THREADCUT_STRIP_HEADER",
	KeyStripUsernameParens: "THREADCUT_STRIP_USERNAME_PARENS",
	KeyAddContentBr:        "THREADCUT_ADD_BR",
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.threadcut).
	if v := strings.TrimSpace(os.Getenv("THREADCUT_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".threadcut"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &cfg, nil
}

func SaveConfig(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

// Set updates one key from its string form.
func (c *Config) Set(key, value string) error {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == KeyExportDir {
		c.ExportDir = strings.TrimSpace(value)
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid value for %s: %q (want true|false)", key, value)
	}
	switch key {
	case KeyStripHeaderTags:
		c.StripHeaderTags = &b
	case KeyStripUsernameParens:
		c.StripUsernameParens = &b
	case KeyAddContentBr:
		c.AddContentBr = &b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// Cleaning resolves the effective cleaning options: env > config file > defaults.
// CLI flags are layered on top by the caller.
func (c *Config) Cleaning() (model.CleaningOptions, error) {
	out := model.DefaultCleaningOptions()
	if c != nil {
		if c.StripHeaderTags != nil {
			out.StripHeaderTags = *c.StripHeaderTags
		}
		if c.StripUsernameParens != nil {
			out.StripUsernameParens = *c.StripUsernameParens
		}
		if c.AddContentBr != nil {
			out.AddContentBr = *c.AddContentBr
		}
	}
	for key, env := range envByKey {
		v := strings.TrimSpace(os.Getenv(env))
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return out, fmt.Errorf("invalid %s: %q", env, v)
		}
		if err := SetCleaningOption(&out, key, b); err != nil {
			return out, err
		}
	}
	return out, nil
}

// SetCleaningOption sets one cleaning option by key.
func SetCleaningOption(o *model.CleaningOptions, key string, v bool) error {
	switch strings.TrimSpace(strings.ToLower(key)) {
	case KeyStripHeaderTags:
		o.StripHeaderTags = v
	case KeyStripUsernameParens:
		o.StripUsernameParens = v
	case KeyAddContentBr:
		o.AddContentBr = v
	default:
		return fmt.Errorf("unknown cleaning option: %s", key)
	}
	return nil
}
