package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(data []byte) []byte {
	return []byte(os.ExpandEnv(string(data)))
}

// WebConfig represents the web front-end configuration
type WebConfig struct {
	Server  HTTPServer    `yaml:"server"`
	Backend BackendConfig `yaml:"backend"`
	Session SessionConfig `yaml:"session"`
	Logging LoggingConfig `yaml:"logging"`
}

// HTTPServer holds HTTP server configuration
type HTTPServer struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// BackendConfig holds the gRPC backend connection info
type BackendConfig struct {
	Address    string `yaml:"address"`
	ServerName string `yaml:"server_name"` // TLS server name override
}

// SessionConfig holds cookie session configuration
type SessionConfig struct {
	Secret string `yaml:"secret"` // 32-byte base64-encoded string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfigPaths defines the default locations to search for web configuration files
var DefaultConfigPaths = []string{
	"./config.yaml",
	"./config.yml",
	"./configs/web.yaml",
	"./configs/web.yml",
	"/etc/goblog/web.yaml",
	"/etc/goblog/web.yml",
}

// Load loads the web configuration from the specified file or default locations
func Load(configPath string) (*WebConfig, error) {
	config := &WebConfig{
		Server: HTTPServer{
			Host: "localhost",
			Port: 8081,
		},
		Backend: BackendConfig{
			Address: "localhost:9091",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	paths := DefaultConfigPaths
	if configPath != "" {
		paths = []string{configPath}
	}

	var data []byte
	var err error
	for _, path := range paths {
		data, err = os.ReadFile(path)
		if err == nil {
			break
		}
	}

	// No config file found is fine for local development, defaults apply
	if data != nil {
		data = expandEnvVars(data)
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if configPath != "" {
		return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid server port: %d", config.Server.Port)
	}
	if config.Backend.Address == "" {
		return nil, fmt.Errorf("backend address is required")
	}

	return config, nil
}
