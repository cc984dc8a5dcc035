/*
MIT License

Copyright (c) 2026 sfnul-go contributors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

// Package logger is the leveled diagnostic sink every component in sfnul-go
// writes through (spec §7: "diagnostics are emitted to a leveled sink with
// levels {Error, Warning, Information, Debug}; no exceptions cross the
// library boundary in release builds"). It wraps logrus rather than the
// standard library's log package, matching the teacher's choice of backend.
package logger

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the structured, leveled sink used across the module.
type Logger interface {
	SetLevel(lvl Level)
	GetLevel() Level
	SetOptions(opt *Options)
	GetOptions() *Options

	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warning(msg string, fields Fields)
	Error(msg string, fields Fields)

	// WithFields returns a child Logger that merges fields into every
	// entry, so a resource can pin its correlation id once (logger.WithResource)
	// and log plain messages afterward.
	WithFields(fields Fields) Logger
}

type entry struct {
	mu   *sync.RWMutex
	opt  *Options
	base *logrus.Logger
	flds Fields
}

// New builds a Logger from Options. A nil opt is equivalent to
// &Options{Level: "info"}.
func New(opt *Options) Logger {
	l := logrus.New()
	l.SetOutput(opt.output())
	l.SetLevel(opt.level().logrus())
	if opt != nil && opt.JSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return &entry{
		mu:   &sync.RWMutex{},
		opt:  opt,
		base: l,
		flds: Fields{},
	}
}

func (e *entry) SetLevel(lvl Level) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.base.SetLevel(lvl.logrus())
}

func (e *entry) GetLevel() Level {
	e.mu.RLock()
	defer e.mu.RUnlock()
	switch e.base.GetLevel() {
	case logrus.DebugLevel, logrus.TraceLevel:
		return DebugLevel
	case logrus.WarnLevel:
		return WarnLevel
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func (e *entry) SetOptions(opt *Options) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opt = opt
	e.base.SetOutput(opt.output())
	e.base.SetLevel(opt.level().logrus())
}

func (e *entry) GetOptions() *Options {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.opt
}

func (e *entry) WithFields(fields Fields) Logger {
	e.mu.RLock()
	defer e.mu.RUnlock()
	merged := e.flds.Clone()
	for k, v := range fields {
		merged[k] = v
	}
	return &entry{mu: e.mu, opt: e.opt, base: e.base, flds: merged}
}

func (e *entry) log(lvl logrus.Level, msg string, fields Fields) {
	merged := e.flds.Clone()
	for k, v := range fields {
		merged[k] = v
	}
	e.base.WithFields(logrus.Fields(merged)).Log(lvl, msg)
}

func (e *entry) Debug(msg string, fields Fields)   { e.log(logrus.DebugLevel, msg, fields) }
func (e *entry) Info(msg string, fields Fields)    { e.log(logrus.InfoLevel, msg, fields) }
func (e *entry) Warning(msg string, fields Fields) { e.log(logrus.WarnLevel, msg, fields) }
func (e *entry) Error(msg string, fields Fields)   { e.log(logrus.ErrorLevel, msg, fields) }

// Discard is a Logger that drops every entry; used as a zero-value default
// so components never nil-check their logger field.
var Discard Logger = New(&Options{Level: "error"})
