// Copyright 2026 The CO2Meter Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config loads the meter configuration from YAML and the
// environment.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full configuration of the meter process.
type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Interval int    `yaml:"interval"` // seconds between samples
	LogDir   string `yaml:"log_dir"`

	Device  Device  `yaml:"device"`
	Log     Log     `yaml:"log"`
	Influx  Influx  `yaml:"influx"`
	HomeKit HomeKit `yaml:"homekit"`
	Display Display `yaml:"display"`
}

// Device selects and configures the sensor.
type Device struct {
	Path          string `yaml:"path"`
	BypassDecrypt bool   `yaml:"bypass_decrypt"`
}

// Log configures logging output.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Influx configures the optional InfluxDB export. It is enabled when
// URL is non-empty.
type Influx struct {
	URL    string `yaml:"url"`
	Token  string `yaml:"token"`
	Org    string `yaml:"org"`
	Bucket string `yaml:"bucket"`
}

// HomeKit configures the optional HomeKit bridge.
type HomeKit struct {
	Enabled  bool   `yaml:"enabled"`
	Pin      string `yaml:"pin"`
	StoreDir string `yaml:"store_dir"`
	Addr     string `yaml:"addr"`
}

// Display configures the dashboard and console output.
type Display struct {
	Fahrenheit bool `yaml:"fahrenheit"`
	Console    bool `yaml:"console"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Host:     "127.0.0.1",
		Port:     1201,
		Interval: 5,
		LogDir:   ".",
		Log:      Log{Level: "info", Format: "text"},
		HomeKit:  HomeKit{Pin: "80011400", StoreDir: "./homekit", Addr: ":51826"},
	}
}

// Load reads the configuration file at path, if any, on top of the
// defaults, then applies environment overrides. An empty path loads
// defaults only.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("INFLUX_URL"); v != "" {
		c.Influx.URL = v
	}
	if v := os.Getenv("INFLUX_TOKEN"); v != "" {
		c.Influx.Token = v
	}
	if v := os.Getenv("INFLUX_ORG"); v != "" {
		c.Influx.Org = v
	}
	if v := os.Getenv("INFLUX_BUCKET"); v != "" {
		c.Influx.Bucket = v
	}
	if v := os.Getenv("CO2METER_LOG_DIR"); v != "" {
		c.LogDir = v
	}
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Port)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("config: interval must be positive, got %d", c.Interval)
	}
	return nil
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
