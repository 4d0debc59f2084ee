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

package streamagg

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rulego/streamagg/logger"
)

// TwoPhaseMode selects how the compiler treats decomposable aggregations.
type TwoPhaseMode string

const (
	// TwoPhaseAuto compiles to the two-phase form whenever every aggregate
	// allows it and falls back to one-phase otherwise.
	TwoPhaseAuto TwoPhaseMode = "auto"
	// TwoPhaseRequired fails compilation when the two-phase form is unavailable.
	TwoPhaseRequired TwoPhaseMode = "required"
	// TwoPhaseDisabled always plans whole-window recomputation.
	TwoPhaseDisabled TwoPhaseMode = "disabled"
)

// ParseTwoPhaseMode resolves a mode name; the empty string is auto.
func ParseTwoPhaseMode(s string) (TwoPhaseMode, error) {
	switch m := TwoPhaseMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return TwoPhaseAuto, nil
	case TwoPhaseAuto, TwoPhaseRequired, TwoPhaseDisabled:
		return m, nil
	}
	return "", fmt.Errorf("unknown two-phase mode %q", s)
}

// Config 编译配置
type Config struct {
	// TwoPhase 两阶段聚合模式: auto, required, disabled
	TwoPhase TwoPhaseMode `json:"twoPhase" yaml:"twoPhase"`
	// LogLevel 日志级别，只过滤本编译器的输出，为空时沿用日志器自身级别
	LogLevel string `json:"logLevel" yaml:"logLevel"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{TwoPhase: TwoPhaseAuto}
}

// Validate normalizes the mode and checks the log level.
func (c *Config) Validate() error {
	mode, err := ParseTwoPhaseMode(string(c.TwoPhase))
	if err != nil {
		return err
	}
	c.TwoPhase = mode
	if c.LogLevel != "" {
		if _, err := logger.ParseLevel(c.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

// LoadConfig parses a YAML configuration document. Missing keys keep their
// defaults.
//
// Example:
//
//	twoPhase: required
//	logLevel: debug
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
