package config

import (
	"encoding/json"
	"os"
	"strings"
	"time"
)

const (
	// DefaultContractAddress is the WavePortal deployment the app talks to
	DefaultContractAddress = "0x8bE8DEbF36A198d6F10841CeFF135eAAF01c14af"
	// DefaultGasLimit is the fixed gas ceiling sent with every wave
	DefaultGasLimit uint64 = 300000
	// DefaultPollInterval is used when the endpoint cannot push logs
	DefaultPollInterval = 4
)

// Config represents the application configuration
type Config struct {
	RPCURL          string `json:"rpc_url"`
	ContractAddress string `json:"contract_address"`
	GasLimit        uint64 `json:"gas_limit"`
	PollInterval    int    `json:"poll_interval_seconds"`
	Logger          bool   `json:"logger"`
	ResolveENS      bool   `json:"resolve_ens"`
	LogFile         string `json:"log_file,omitempty"`
}

// Load reads the config from the specified path
func Load(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}

	return cfg
}

// Save writes the config to the specified path
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns a new configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		ContractAddress: DefaultContractAddress,
		GasLimit:        DefaultGasLimit,
		PollInterval:    DefaultPollInterval,
		Logger:          false,
	}
}

// LoadOrCreate loads config from path, or creates a default one if not found
func LoadOrCreate(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		cfg := DefaultConfig()
		_ = Save(path, cfg)
		return cfg
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		// Invalid config, return default
		return DefaultConfig()
	}

	return cfg.WithDefaults()
}

// WithDefaults fills zero fields from DefaultConfig
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if strings.TrimSpace(c.ContractAddress) == "" {
		c.ContractAddress = d.ContractAddress
	}
	if c.GasLimit == 0 {
		c.GasLimit = d.GasLimit
	}
	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	return c
}

// ApplyEnv fills RPCURL from WAVEPORTAL_RPC_URL, then ETH_RPC_URL, when unset
func (c Config) ApplyEnv() Config {
	if strings.TrimSpace(c.RPCURL) != "" {
		return c
	}
	for _, key := range []string{"WAVEPORTAL_RPC_URL", "ETH_RPC_URL"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			c.RPCURL = v
			break
		}
	}
	return c
}

// PollEvery returns the log polling interval as a duration
func (c Config) PollEvery() time.Duration {
	if c.PollInterval <= 0 {
		return DefaultPollInterval * time.Second
	}
	return time.Duration(c.PollInterval) * time.Second
}
