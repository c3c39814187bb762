// Copyright 2025 Knowhaven Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix is the prefix for server environment variables, e.g.
// KNOWHAVEN_SERVER_PORT.
const envPrefix = "KNOWHAVEN_SERVER"

// Config holds the HTTP server settings.
type Config struct {
	Host            string        `default:"0.0.0.0"`
	Port            int           `default:"8080"`
	RequestTimeout  time.Duration `default:"60s" split_words:"true"`
	ShutdownTimeout time.Duration `default:"10s" split_words:"true"`
}

// LoadConfig builds a Config from defaults overridden by
// KNOWHAVEN_SERVER_* environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("loading server config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns the configuration used when no environment
// overrides are present.
func DefaultConfig() *Config {
	return &Config{
		Host:            "0.0.0.0",
		Port:            8080,
		RequestTimeout:  60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d", ErrInvalidConfig, c.Port)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout %v", ErrInvalidConfig, c.RequestTimeout)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: shutdown timeout %v", ErrInvalidConfig, c.ShutdownTimeout)
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
