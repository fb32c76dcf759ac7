//
//Copyright [2016] [SnapRoute Inc]
//
//Licensed under the Apache License, Version 2.0 (the "License");
//you may not use this file except in compliance with the License.
//You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//	 Unless required by applicable law or agreed to in writing, software
//	 distributed under the License is distributed on an "AS IS" BASIS,
//	 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//	 See the License for the specific language governing permissions and
//	 limitations under the License.
//
// _______  __       __________   ___      _______.____    __    ____  __  .___________.  ______  __    __
// |   ____||  |     |   ____\  \ /  /     /       |\   \  /  \  /   / |  | |           | /      ||  |  |  |
// |  |__   |  |     |  |__   \  V  /     |   (----` \   \/    \/   /  |  | `---|  |----`|  ,----'|  |__|  |
// |   __|  |  |     |   __|   >   <       \   \      \            /   |  |     |  |     |  |     |   __   |
// |  |     |  `----.|  |____ /  .  \  .----)   |      \    /\    /    |  |     |  |     |  `----.|  |  |  |
// |__|     |_______||_______/__/ \__\ |_______/        \__/  \__/     |__|     |__|      \______||__|  |__|
//

// logger.go
package utils

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogWriter is the logging front end used across the BGP packages. It keeps
// the sprintln-style Info/Err calling convention while writing through zap.
type LogWriter struct {
	sugar *zap.SugaredLogger
}

// Logger is the package wide logger. It is replaced via SetLogger when the
// caller wants its own zap configuration.
var Logger *LogWriter = NewLogger("bgpd", false)

func NewLogger(name string, debug bool) *LogWriter {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return &LogWriter{sugar: logger.Named(name).Sugar()}
}

// NewZapLogger wraps an externally built zap logger.
func NewZapLogger(logger *zap.Logger) *LogWriter {
	return &LogWriter{sugar: logger.Sugar()}
}

func SetLogger(logger *LogWriter) {
	if logger != nil {
		Logger = logger
	}
}

func sprint(args ...interface{}) string {
	return strings.TrimSuffix(fmt.Sprintln(args...), "\n")
}

func (l *LogWriter) Info(args ...interface{}) {
	l.sugar.Info(sprint(args...))
}

func (l *LogWriter) Infof(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

func (l *LogWriter) Err(args ...interface{}) {
	l.sugar.Error(sprint(args...))
}

func (l *LogWriter) Errf(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

func (l *LogWriter) Warning(args ...interface{}) {
	l.sugar.Warn(sprint(args...))
}

func (l *LogWriter) Warningf(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

func (l *LogWriter) Debug(args ...interface{}) {
	l.sugar.Debug(sprint(args...))
}

func (l *LogWriter) Debugf(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

func (l *LogWriter) Sync() error {
	return l.sugar.Sync()
}
