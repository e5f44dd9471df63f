// Package setup registers the MCP server with desktop MCP clients that read
// a JSON "mcpServers" file, such as Claude Desktop.
package setup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/health-signal-classifier/internal/config"
)

// ServerName is the key the server is registered under.
const ServerName = "health-signal-classifier"

// ClientConfig is the client's configuration file. Unknown top-level keys
// are preserved.
type ClientConfig struct {
	MCPServers map[string]ServerEntry `json:"mcpServers"`
	extra      map[string]json.RawMessage
}

// ServerEntry launches one MCP server.
type ServerEntry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// Options describe the entry to register.
type Options struct {
	BinaryPath string
	ConfigFile string
	DataDir    string
}

// Status reports whether the server is registered and runnable.
type Status struct {
	ConfigPath string   `json:"config_path"`
	Registered bool     `json:"registered"`
	Command    string   `json:"command,omitempty"`
	DataDir    string   `json:"data_dir,omitempty"`
	Issues     []string `json:"issues,omitempty"`
}

// DefaultClientConfigPath returns the platform location of the Claude
// Desktop configuration file.
func DefaultClientConfigPath() (string, error) {
	var dir string
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, "Library", "Application Support", "Claude")
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			dir = filepath.Join(xdg, "Claude")
			break
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".config", "Claude")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", errors.New("APPDATA environment variable not set")
		}
		dir = filepath.Join(appData, "Claude")
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
	return filepath.Join(dir, "claude_desktop_config.json"), nil
}

// Load reads the client configuration. A missing file is an empty config.
func Load(path string) (*ClientConfig, error) {
	cfg := &ClientConfig{MCPServers: make(map[string]ServerEntry)}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read client config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg.extra); err != nil {
		return nil, fmt.Errorf("failed to parse client config: %w", err)
	}
	if raw, ok := cfg.extra["mcpServers"]; ok {
		if err := json.Unmarshal(raw, &cfg.MCPServers); err != nil {
			return nil, fmt.Errorf("failed to parse mcpServers: %w", err)
		}
		delete(cfg.extra, "mcpServers")
	}
	if cfg.MCPServers == nil {
		cfg.MCPServers = make(map[string]ServerEntry)
	}
	return cfg, nil
}

// Save writes the configuration, creating the directory if needed.
func Save(path string, cfg *ClientConfig) error {
	out := make(map[string]any, len(cfg.extra)+1)
	for k, v := range cfg.extra {
		out[k] = v
	}
	out["mcpServers"] = cfg.MCPServers

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal client config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write client config: %w", err)
	}
	return nil
}

// Register adds or replaces the server entry in the client config at path.
func Register(path string, opts Options) (ServerEntry, error) {
	if opts.BinaryPath == "" {
		exe, err := os.Executable()
		if err != nil {
			return ServerEntry{}, fmt.Errorf("could not determine binary path: %w", err)
		}
		opts.BinaryPath = exe
	}
	binary, err := filepath.Abs(opts.BinaryPath)
	if err != nil {
		return ServerEntry{}, err
	}

	cfg, err := Load(path)
	if err != nil {
		return ServerEntry{}, err
	}

	entry := ServerEntry{Command: binary, Args: []string{"mcp"}}
	if opts.ConfigFile != "" {
		configFile, err := filepath.Abs(opts.ConfigFile)
		if err != nil {
			return ServerEntry{}, err
		}
		entry.Args = append(entry.Args, "--config", configFile)
	}
	if opts.DataDir != "" {
		entry.Env = map[string]string{config.EnvPrefix + "_STORAGE_DATA_DIR": opts.DataDir}
	}
	cfg.MCPServers[ServerName] = entry

	return entry, Save(path, cfg)
}

// Unregister removes the server entry. It reports whether one existed.
func Unregister(path string) (bool, error) {
	cfg, err := Load(path)
	if err != nil {
		return false, err
	}
	if _, ok := cfg.MCPServers[ServerName]; !ok {
		return false, nil
	}
	delete(cfg.MCPServers, ServerName)
	return true, Save(path, cfg)
}

// Check inspects the registration at path.
func Check(path string) (*Status, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	status := &Status{ConfigPath: path}
	entry, ok := cfg.MCPServers[ServerName]
	if !ok {
		status.Issues = append(status.Issues, "server is not registered")
		return status, nil
	}

	status.Registered = true
	status.Command = entry.Command
	status.DataDir = entry.Env[config.EnvPrefix+"_STORAGE_DATA_DIR"]

	info, err := os.Stat(entry.Command)
	switch {
	case err != nil:
		status.Issues = append(status.Issues, fmt.Sprintf("server binary not found: %s", entry.Command))
	case runtime.GOOS != "windows" && info.Mode()&0o111 == 0:
		status.Issues = append(status.Issues, fmt.Sprintf("server binary is not executable: %s", entry.Command))
	}
	return status, nil
}
