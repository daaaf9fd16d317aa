// The MIT License
//
// Copyright (c) 2021 Temporal Technologies Inc.  All rights reserved.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package log adapts go.uber.org/zap to the SDK logger interface so workers, clients and the defaults interceptor
// can share one structured logger.
package log

import (
	"fmt"

	sdklog "go.temporal.io/sdk/log"
	"go.uber.org/zap"
)

// ZapLogger implements log.Logger and log.WithLogger over a *zap.Logger.
type ZapLogger struct {
	zl *zap.Logger
}

var (
	_ sdklog.Logger     = (*ZapLogger)(nil)
	_ sdklog.WithLogger = (*ZapLogger)(nil)
)

// NewZapLogger wraps zl. The caller skip is adjusted so log sites point at SDK callers rather than this adapter.
func NewZapLogger(zl *zap.Logger) *ZapLogger {
	return &ZapLogger{zl: zl.WithOptions(zap.AddCallerSkip(1))}
}

func (l *ZapLogger) fields(keyvals []interface{}) []zap.Field {
	if len(keyvals)%2 != 0 {
		return []zap.Field{zap.Error(fmt.Errorf("odd number of keyvals pairs: %v", keyvals))}
	}
	fields := make([]zap.Field, 0, len(keyvals)/2)
	for i := 0; i < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", keyvals[i])
		}
		if err, ok := keyvals[i+1].(error); ok {
			fields = append(fields, zap.NamedError(key, err))
			continue
		}
		fields = append(fields, zap.Any(key, keyvals[i+1]))
	}
	return fields
}

// Debug logs at debug level.
func (l *ZapLogger) Debug(msg string, keyvals ...interface{}) {
	l.zl.Debug(msg, l.fields(keyvals)...)
}

// Info logs at info level.
func (l *ZapLogger) Info(msg string, keyvals ...interface{}) {
	l.zl.Info(msg, l.fields(keyvals)...)
}

// Warn logs at warn level.
func (l *ZapLogger) Warn(msg string, keyvals ...interface{}) {
	l.zl.Warn(msg, l.fields(keyvals)...)
}

// Error logs at error level.
func (l *ZapLogger) Error(msg string, keyvals ...interface{}) {
	l.zl.Error(msg, l.fields(keyvals)...)
}

// With returns a logger that always includes keyvals.
func (l *ZapLogger) With(keyvals ...interface{}) sdklog.Logger {
	return &ZapLogger{zl: l.zl.With(l.fields(keyvals)...)}
}

// Zap returns the underlying logger.
func (l *ZapLogger) Zap() *zap.Logger {
	return l.zl
}
