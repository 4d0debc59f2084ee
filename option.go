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
	"github.com/rulego/streamagg/logger"
)

// Option 表示对Compiler默认行为的修改配置
type Option func(*Compiler)

// WithConfig applies a loaded configuration. A log level in cfg adjusts the
// compiler's logger.
//
// Example:
//
//	cfg, err := streamagg.LoadConfig(data)
//	c := streamagg.New(streamagg.WithConfig(cfg))
func WithConfig(cfg Config) Option {
	return func(c *Compiler) {
		c.config = cfg
	}
}

// WithTwoPhaseMode overrides only the two-phase mode.
func WithTwoPhaseMode(mode TwoPhaseMode) Option {
	return func(c *Compiler) {
		c.config.TwoPhase = mode
	}
}

// WithLogger 设置自定义日志记录器
//
// Example:
//
//	c := streamagg.New(streamagg.WithLogger(logger.NewLogger(logger.DEBUG, os.Stderr)))
func WithLogger(log logger.Logger) Option {
	return func(c *Compiler) {
		c.log = log
	}
}

// WithLogLevel 设置日志级别
func WithLogLevel(level logger.Level) Option {
	return func(c *Compiler) {
		c.config.LogLevel = level.String()
	}
}

// WithDiscardLog 禁用日志输出
func WithDiscardLog() Option {
	return func(c *Compiler) {
		c.log = logger.NewDiscardLogger()
	}
}
