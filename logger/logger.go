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

// Package logger is the leveled logger used by the streamagg compiler.
// The aggregation core itself never logs; only the planner-facing compile
// step reports its decisions here.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// Level defines log levels
type Level int

const (
	// DEBUG shows derived bin and memory layouts
	DEBUG Level = iota
	// INFO shows compile decisions
	INFO
	// WARN shows aggregations that fell back to one-phase evaluation
	WARN
	// ERROR shows compile failures only
	ERROR
	// OFF disables logging
	OFF
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "OFF"}

func (l Level) String() string {
	if l >= DEBUG && l <= OFF {
		return levelNames[l]
	}
	return "UNKNOWN"
}

// ParseLevel resolves a level name as written in config files,
// case-insensitively. "warning" is accepted for WARN.
func ParseLevel(name string) (Level, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "WARNING" {
		return WARN, nil
	}
	for i, n := range levelNames {
		if n == upper {
			return Level(i), nil
		}
	}
	return INFO, fmt.Errorf("unknown log level %q", name)
}

// Logger is a printf-style leveled logger.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	SetLevel(level Level)
}

type defaultLogger struct {
	level  Level
	logger *log.Logger
}

// NewLogger creates a logger writing to output.
//
// Example:
//
//	log := NewLogger(INFO, os.Stderr)
//	log.Info("compiled %d aggregates", 3)
func NewLogger(level Level, output io.Writer) Logger {
	return &defaultLogger{
		level:  level,
		logger: log.New(output, "", 0), // 使用自定义格式
	}
}

func (l *defaultLogger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

func (l *defaultLogger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

func (l *defaultLogger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

func (l *defaultLogger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

func (l *defaultLogger) SetLevel(level Level) {
	l.level = level
}

func (l *defaultLogger) log(level Level, format string, args ...interface{}) {
	if l.level == OFF || level < l.level {
		return
	}
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	l.logger.Printf("[%s] [%s] %s", timestamp, level, fmt.Sprintf(format, args...))
}

type namedLogger struct {
	Logger
	prefix string
}

// Named prefixes every message of l with "[component] ".
func Named(l Logger, component string) Logger {
	return &namedLogger{Logger: l, prefix: "[" + component + "] "}
}

func (n *namedLogger) Debug(format string, args ...interface{}) {
	n.Logger.Debug(n.prefix+format, args...)
}

func (n *namedLogger) Info(format string, args ...interface{}) {
	n.Logger.Info(n.prefix+format, args...)
}

func (n *namedLogger) Warn(format string, args ...interface{}) {
	n.Logger.Warn(n.prefix+format, args...)
}

func (n *namedLogger) Error(format string, args ...interface{}) {
	n.Logger.Error(n.prefix+format, args...)
}

type levelFilter struct {
	Logger
	level Level
}

// WithLevel returns a view of l that drops messages below level. It can only
// narrow what l already writes; SetLevel on the view leaves l untouched.
func WithLevel(l Logger, level Level) Logger {
	return &levelFilter{Logger: l, level: level}
}

func (f *levelFilter) Debug(format string, args ...interface{}) {
	if f.enabled(DEBUG) {
		f.Logger.Debug(format, args...)
	}
}

func (f *levelFilter) Info(format string, args ...interface{}) {
	if f.enabled(INFO) {
		f.Logger.Info(format, args...)
	}
}

func (f *levelFilter) Warn(format string, args ...interface{}) {
	if f.enabled(WARN) {
		f.Logger.Warn(format, args...)
	}
}

func (f *levelFilter) Error(format string, args ...interface{}) {
	if f.enabled(ERROR) {
		f.Logger.Error(format, args...)
	}
}

func (f *levelFilter) SetLevel(level Level) {
	f.level = level
}

func (f *levelFilter) enabled(level Level) bool {
	return f.level != OFF && level >= f.level
}

type discardLogger struct{}

// NewDiscardLogger creates a logger that drops everything.
func NewDiscardLogger() Logger {
	return discardLogger{}
}

func (discardLogger) Debug(string, ...interface{}) {}
func (discardLogger) Info(string, ...interface{})  {}
func (discardLogger) Warn(string, ...interface{})  {}
func (discardLogger) Error(string, ...interface{}) {}
func (discardLogger) SetLevel(Level)               {}

var defaultInstance Logger = NewLogger(INFO, os.Stderr)

// SetDefault replaces the global logger.
func SetDefault(logger Logger) {
	defaultInstance = logger
}

// GetDefault returns the global logger.
func GetDefault() Logger {
	return defaultInstance
}
