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

// Package log provides the minimal structured-logging facade used across
// pagesim: a named Logger obtained from a source, backed by a swappable
// Backend so tests can capture messages instead of writing to stderr.
package log

import (
	"fmt"
	"os"
	"strings"
)

// Level is the log message severity.
type Level int32

const (
	// LevelDebug corresponds to debug messages.
	LevelDebug Level = iota
	// LevelInfo corresponds to informational messages.
	LevelInfo
	// LevelWarn corresponds to warning messages.
	LevelWarn
	// LevelError corresponds to error messages.
	LevelError
)

// Logger is the interface for producing log messages from a single source.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	Fatal(format string, args ...interface{})
}

type logger struct {
	source string
}

var (
	loggers = map[string]*logger{}
	active  Backend
)

func init() {
	active = &fmtBackend{level: LevelInfo}
}

// SetBackend replaces the active logging backend. Intended for tests that
// want to capture log output instead of writing to stderr.
func SetBackend(b Backend) {
	active = b
}

// SetLevel sets the minimum severity level emitted by the default fmt
// backend. Has no effect once a custom Backend has been installed.
func SetLevel(l Level) {
	if fb, ok := active.(*fmtBackend); ok {
		fb.level = l
	}
}

// Get returns the logger for the given source, creating it on first use.
func Get(source string) Logger {
	source = strings.Trim(source, "[] ")
	if l, ok := loggers[source]; ok {
		return l
	}
	l := &logger{source: source}
	loggers[source] = l
	return l
}

var defLogger = Get("pagesim")

// Default returns the package-wide default logger.
func Default() Logger {
	return defLogger
}

func (l *logger) format(format string, args ...interface{}) string {
	return "[" + l.source + "] " + fmt.Sprintf(format, args...)
}

func (l *logger) Debug(format string, args ...interface{}) {
	if !active.Enabled(LevelDebug) {
		return
	}
	active.Debug(l.format(format, args...))
}

func (l *logger) Info(format string, args ...interface{}) {
	if !active.Enabled(LevelInfo) {
		return
	}
	active.Info(l.format(format, args...))
}

func (l *logger) Warn(format string, args ...interface{}) {
	if !active.Enabled(LevelWarn) {
		return
	}
	active.Warn(l.format(format, args...))
}

func (l *logger) Error(format string, args ...interface{}) {
	if !active.Enabled(LevelError) {
		return
	}
	active.Error(l.format(format, args...))
}

func (l *logger) Fatal(format string, args ...interface{}) {
	active.Error(l.format(format, args...))
	os.Exit(1)
}

// Debug emits a debug message from the default logger.
func Debug(format string, args ...interface{}) { defLogger.Debug(format, args...) }

// Info emits an info message from the default logger.
func Info(format string, args ...interface{}) { defLogger.Info(format, args...) }

// Warn emits a warning message from the default logger.
func Warn(format string, args ...interface{}) { defLogger.Warn(format, args...) }

// Error emits an error message from the default logger.
func Error(format string, args ...interface{}) { defLogger.Error(format, args...) }
