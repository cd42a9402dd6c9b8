// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package config loads the service configuration file.
package config

import (
	"os"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/repstake/account"
	"github.com/vechain/repstake/ledger"
	"github.com/vechain/repstake/log"
)

type Ledger struct {
	Owner                string `yaml:"owner"`
	MinimumStake         string `yaml:"minimumStake"`
	ReputationMultiplier uint64 `yaml:"reputationMultiplier"`
}

// API configures the REST service. RequireSignature only covers staking
// requests, owner and registry requests are always signed.
type API struct {
	Addr             string `yaml:"addr"`
	CORS             string `yaml:"cors"`
	RequireSignature bool   `yaml:"requireSignature"`
}

type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type Log struct {
	Verbosity int  `yaml:"verbosity"`
	JSON      bool `yaml:"json"`
}

// Config holds all service configuration.
type Config struct {
	Ledger  Ledger  `yaml:"ledger"`
	API     API     `yaml:"api"`
	Metrics Metrics `yaml:"metrics"`
	Log     Log     `yaml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Ledger: Ledger{
			MinimumStake:         "100",
			ReputationMultiplier: 5000,
		},
		API: API{
			Addr:             "localhost:8680",
			RequireSignature: true,
		},
		Metrics: Metrics{
			Addr: "localhost:2112",
		},
		Log: Log{
			Verbosity: log.LegacyLevelInfo,
		},
	}
}

// Load reads the YAML file at path on top of the defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the ledger policy values.
func (c *Config) Validate() error {
	if c.Ledger.Owner != "" {
		if _, err := account.ParseAddress(c.Ledger.Owner); err != nil {
			return errors.Wrap(err, "ledger.owner")
		}
	}
	if _, err := ledger.ParseAmount(c.Ledger.MinimumStake); err != nil {
		return errors.Wrap(err, "ledger.minimumStake")
	}
	if c.Ledger.ReputationMultiplier > ledger.MaxReputationMultiplier {
		return errors.New("ledger.reputationMultiplier must not exceed 50000")
	}
	return nil
}

// OwnerAddress returns the configured owner, the zero address if unset.
func (l Ledger) OwnerAddress() (account.Address, error) {
	if l.Owner == "" {
		return account.Address{}, nil
	}
	return account.ParseAddress(l.Owner)
}

func (l Ledger) MinimumStakeAmount() (*uint256.Int, error) {
	return ledger.ParseAmount(l.MinimumStake)
}

// Write stores c as YAML at path.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o600), "write config")
}
