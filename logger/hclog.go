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

package logger

import (
	"io"
	"log"

	"github.com/hashicorp/go-hclog"
)

// hclogShim adapts a Logger to hclog.Logger, so anything in the reactor's
// worker pool that expects to hand its diagnostics to an hclog consumer
// (golang.org/x/sync's errgroup has none itself, but pooled workers that
// embed third-party clients often do) can share this module's sink instead
// of spinning up a second one.
type hclogShim struct {
	l    Logger
	name string
}

// AsHCLog wraps l as an hclog.Logger.
func AsHCLog(l Logger) hclog.Logger {
	return &hclogShim{l: l}
}

func (h *hclogShim) Log(level hclog.Level, msg string, args ...interface{}) {
	switch level {
	case hclog.Off, hclog.NoLevel:
		return
	case hclog.Trace, hclog.Debug:
		h.Debug(msg, args...)
	case hclog.Info:
		h.Info(msg, args...)
	case hclog.Warn:
		h.Warn(msg, args...)
	case hclog.Error:
		h.Error(msg, args...)
	}
}

func argsToFields(args []interface{}) Fields {
	f := make(Fields, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		if k, ok := args[i].(string); ok {
			f[k] = args[i+1]
		}
	}
	return f
}

func (h *hclogShim) Trace(msg string, args ...interface{}) { h.l.Debug(msg, argsToFields(args)) }
func (h *hclogShim) Debug(msg string, args ...interface{}) { h.l.Debug(msg, argsToFields(args)) }
func (h *hclogShim) Info(msg string, args ...interface{})  { h.l.Info(msg, argsToFields(args)) }
func (h *hclogShim) Warn(msg string, args ...interface{})  { h.l.Warning(msg, argsToFields(args)) }
func (h *hclogShim) Error(msg string, args ...interface{}) { h.l.Error(msg, argsToFields(args)) }

func (h *hclogShim) IsTrace() bool { return h.l.GetLevel() == DebugLevel }
func (h *hclogShim) IsDebug() bool { return h.l.GetLevel() <= DebugLevel }
func (h *hclogShim) IsInfo() bool  { return h.l.GetLevel() <= InfoLevel }
func (h *hclogShim) IsWarn() bool  { return h.l.GetLevel() <= WarnLevel }
func (h *hclogShim) IsError() bool { return h.l.GetLevel() <= ErrorLevel }

func (h *hclogShim) ImpliedArgs() []interface{} { return nil }

func (h *hclogShim) With(args ...interface{}) hclog.Logger {
	return &hclogShim{l: h.l.WithFields(argsToFields(args)), name: h.name}
}

func (h *hclogShim) Name() string { return h.name }

func (h *hclogShim) Named(name string) hclog.Logger {
	return &hclogShim{l: h.l, name: name}
}

func (h *hclogShim) ResetNamed(name string) hclog.Logger {
	return h.Named(name)
}

func (h *hclogShim) SetLevel(level hclog.Level) {
	switch level {
	case hclog.Trace, hclog.Debug:
		h.l.SetLevel(DebugLevel)
	case hclog.Warn:
		h.l.SetLevel(WarnLevel)
	case hclog.Error:
		h.l.SetLevel(ErrorLevel)
	default:
		h.l.SetLevel(InfoLevel)
	}
}

func (h *hclogShim) GetLevel() hclog.Level {
	switch h.l.GetLevel() {
	case DebugLevel:
		return hclog.Debug
	case WarnLevel:
		return hclog.Warn
	case ErrorLevel:
		return hclog.Error
	default:
		return hclog.Info
	}
}

func (h *hclogShim) StandardLogger(opts *hclog.StandardLoggerOptions) *log.Logger {
	return log.New(h.StandardWriter(opts), "", 0)
}

func (h *hclogShim) StandardWriter(_ *hclog.StandardLoggerOptions) io.Writer {
	return &hclogWriter{h: h}
}

type hclogWriter struct{ h *hclogShim }

func (w *hclogWriter) Write(p []byte) (int, error) {
	w.h.Info(string(p))
	return len(p), nil
}
