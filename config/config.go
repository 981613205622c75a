/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config holds the engine configuration and loads it from TOML or
// JSON files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"

	"github.com/rulego/colframe/logger"
)

// Config is the engine configuration
type Config struct {
	Log     LogConfig     `json:"log" toml:"log"`
	Storage StorageConfig `json:"storage" toml:"storage"`
	Eval    EvalConfig    `json:"eval" toml:"eval"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `json:"level" toml:"level"` // debug, info, warn, error, off
}

// StorageConfig configures the file provider and column snapshots
type StorageConfig struct {
	FileMode uint32 `json:"fileMode" toml:"file_mode"` // permission bits for created files
	UseMmap  bool   `json:"useMmap" toml:"use_mmap"`   // map uncompressed snapshots instead of reading them
	Compress bool   `json:"compress" toml:"compress"`  // snappy-compress written snapshots
}

// EvalConfig configures expression head evaluation
type EvalConfig struct {
	MatrixColumnPrefix string `json:"matrixColumnPrefix" toml:"matrix_column_prefix"` // generated names: prefix + index
	IndexPolicy        string `json:"indexPolicy" toml:"index_policy"`                // "drop" or "demote"
	IndexColumnName    string `json:"indexColumnName" toml:"index_column_name"`       // name of a demoted unnamed index
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Storage: StorageConfig{
			FileMode: 0o644,
			UseMmap:  true,
		},
		Eval: DefaultEval(),
	}
}

// DefaultEval returns the default evaluation settings
func DefaultEval() EvalConfig {
	return EvalConfig{
		MatrixColumnPrefix: "C",
		IndexPolicy:        "demote",
		IndexColumnName:    "index",
	}
}

// Validate checks enumerated fields
func (c Config) Validate() error {
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Eval.IndexPolicy) {
	case "drop", "demote":
	default:
		return fmt.Errorf("invalid index policy %q, expected drop or demote", c.Eval.IndexPolicy)
	}
	if c.Eval.MatrixColumnPrefix == "" {
		return fmt.Errorf("matrix column prefix must not be empty")
	}
	if c.Storage.FileMode&^0o777 != 0 {
		return fmt.Errorf("file mode %o has bits outside 0777", c.Storage.FileMode)
	}
	return nil
}

// Load reads a configuration file. The format follows the extension:
// .toml for TOML, .json for JSON. Missing fields keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("parse toml config %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse json config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// NewLogger builds the logger described by the Log section.
func (c Config) NewLogger() (logger.Logger, error) {
	level, err := logger.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	return logger.NewLogger(level, os.Stderr), nil
}
