package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	ConfigDirName = ".nlsh"
	EnvFileName   = ".env"

	// ProviderKey selects the active provider in the persisted store.
	ProviderKey = "NLSH_PROVIDER"
	// ModelKey overrides the model name for providers that send one.
	ModelKey = "NLSH_MODEL"
)

// profileFiles are the shell startup files that receive export lines so new
// interactive shells inherit the configuration without re-running nlsh.
var profileFiles = []string{".zshrc", ".zprofile", ".bashrc", ".bash_profile"}

// Env is the layered configuration view: values from the persisted env file
// take precedence over the live process environment.
type Env struct {
	values map[string]string
}

// Get returns the value for key, preferring the persisted file over the
// process environment. Missing keys return "".
func (e *Env) Get(key string) string {
	if e != nil {
		if v, ok := e.values[key]; ok {
			return v
		}
	}
	return os.Getenv(key)
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ConfigDirName), nil
}

// EnvFilePath returns the path to the persisted KEY=VALUE file
func EnvFilePath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, EnvFileName), nil
}

// Load reads the persisted env file into a layered Env. A missing file or an
// unresolvable home directory is not an error: the tool still works for the
// current session with whatever the live environment supplies. Malformed
// lines are skipped.
func Load() (*Env, error) {
	env := &Env{values: map[string]string{}}

	path, err := EnvFilePath()
	if err != nil {
		return env, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return env, nil
		}
		return env, fmt.Errorf("failed to read config file: %w", err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		key, value, ok := splitEntry(trimmed)
		if !ok {
			continue
		}
		env.values[key] = value
	}

	return env, nil
}

// Set merges key=value into the persisted file, re-reading it first so keys
// written by other invocations survive, then rewrites the whole file with
// keys in sorted order. When the home directory cannot be resolved this is
// a no-op: persistence is simply unavailable.
func Set(key, value string) error {
	path, err := EnvFilePath()
	if err != nil {
		return nil
	}

	vars := map[string]string{}
	if data, err := os.ReadFile(path); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			if k, v, ok := splitEntry(line); ok {
				vars[k] = v
			}
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	vars[key] = value

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s=%s\n", k, vars[k])
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// MirrorToShellProfiles rewrites each shell startup file so it holds exactly
// one export line for key, preserving all other lines. Running it again with
// the same or a new value replaces that line rather than duplicating it.
// Files that do not exist are created; an unresolvable home directory is a
// no-op.
func MirrorToShellProfiles(key, value string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	exportPrefix := fmt.Sprintf("export %s=", key)
	exportLine := fmt.Sprintf("export %s=%q", key, value)

	for _, rc := range profileFiles {
		path := filepath.Join(home, rc)

		var kept []string
		if data, err := os.ReadFile(path); err == nil {
			for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
				if strings.HasPrefix(strings.TrimLeft(line, " \t"), exportPrefix) {
					continue
				}
				kept = append(kept, line)
			}
			// A previously empty file leaves one empty element behind.
			if len(kept) == 1 && kept[0] == "" {
				kept = nil
			}
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read %s: %w", rc, err)
		}

		kept = append(kept, exportLine)
		content := strings.Join(kept, "\n") + "\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", rc, err)
		}
	}

	return nil
}

// splitEntry parses a KEY=VALUE line at the first '='. Lines without '=' or
// with an empty key are rejected.
func splitEntry(line string) (string, string, bool) {
	idx := strings.Index(line, "=")
	if idx < 0 {
		return "", "", false
	}
	key := strings.TrimSpace(line[:idx])
	value := strings.TrimSpace(line[idx+1:])
	if key == "" {
		return "", "", false
	}
	return key, value, true
}
