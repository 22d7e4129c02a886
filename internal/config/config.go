package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// DefaultSnapshotFile is the name of the snapshot kept inside a scripted
// directory.
const DefaultSnapshotFile = ".treedelta"

type Config struct {
	Exclude      []string `yaml:"exclude"`
	SnapshotFile string   `yaml:"snapshot_file"`
	Workers      int      `yaml:"workers"`
	LogLevel     string   `yaml:"log_level"`
	LogFile      string   `yaml:"log_file"`
	BackupPrefix string   `yaml:"backup_prefix"`
}

func DefaultConfig() *Config {
	return &Config{
		Exclude: []string{
			".git/",
			".svn/",
			"node_modules/",
			"__pycache__/",
			"*.tmp",
			"*.swp",
			".DS_Store",
			"Thumbs.db",
		},
		SnapshotFile: DefaultSnapshotFile,
		Workers:      runtime.NumCPU() * 2,
		LogLevel:     "error",
	}
}

// LoadConfig reads a YAML config file. A missing file yields the defaults;
// keys absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Exclude = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	// Initialize Exclude slice if nil (for empty configs)
	if cfg.Exclude == nil {
		cfg.Exclude = []string{}
	}
	if cfg.SnapshotFile == "" {
		cfg.SnapshotFile = DefaultSnapshotFile
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU() * 2
	}

	return cfg, nil
}
