package app

import "fmt"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// TypesPath points at the node type manifests (.hcl file or directory).
	TypesPath string
	// GraphPath points at the user's graph definition, optional.
	GraphPath string
	// ListenPort is the port for the editor bridge server. 0 disables it.
	ListenPort int
	LogFormat  string
	LogLevel   string
	// WorkerCount is the executor's worker pool size.
	WorkerCount int
	// Shell starts the interactive shell instead of a one-shot evaluation.
	Shell bool
}

// NewConfig validates a Config and applies defaults.
func NewConfig(c Config) (*Config, error) {
	if c.TypesPath == "" {
		return nil, fmt.Errorf("types path must not be empty")
	}
	if c.ListenPort < 0 || c.ListenPort > 65535 {
		return nil, fmt.Errorf("listen port out of range: %d", c.ListenPort)
	}
	if c.WorkerCount < 1 {
		c.WorkerCount = 1
	}
	if c.LogFormat == "" {
		c.LogFormat = "json"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return &c, nil
}
