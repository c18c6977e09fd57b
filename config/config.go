// Package config loads VeriMinutes configuration from a YAML file.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/veriminutes/veriminutes/merkle"
)

// Anchoring configures the optional external ledger collaborator.
type Anchoring struct {
	Enabled         bool   `yaml:"enabled"`
	RPCURL          string `yaml:"rpc_url"`
	ContractAddress string `yaml:"contract_address"`
	ChainID         int64  `yaml:"chain_id"`
}

// RemoteCAS configures the optional replication archive.
type RemoteCAS struct {
	Addr    string        `yaml:"addr"`
	Timeout time.Duration `yaml:"timeout"`
}

// Config is the full configuration surface of the CLI and daemon.
type Config struct {
	OutputDir string    `yaml:"output_dir"`
	KeysDir   string    `yaml:"keys_dir"`
	ChunkSize int       `yaml:"chunk_size"`
	LeafAlgo  string    `yaml:"leaf_algo"`
	Anchoring Anchoring `yaml:"anchoring"`
	RemoteCAS RemoteCAS `yaml:"remote_cas"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		OutputDir: "./output",
		ChunkSize: merkle.DefaultChunkSize,
		LeafAlgo:  merkle.DefaultLeafAlgo,
		RemoteCAS: RemoteCAS{Timeout: 5 * time.Second},
	}
}

// DefaultPath returns ~/.veriminutes/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".veriminutes", "config.yaml"), nil
}

// Load reads a YAML config from path, applying defaults for absent fields.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = merkle.DefaultChunkSize
	}
	if cfg.LeafAlgo == "" {
		cfg.LeafAlgo = merkle.DefaultLeafAlgo
	}
	return cfg, nil
}
