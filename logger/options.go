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

import "io"

// Options configures a Logger. Loaded through config/viper in a full
// application; constructed directly in tests and examples.
type Options struct {
	Level       string `mapstructure:"level" json:"level" yaml:"level" toml:"level"`
	EnableTrace bool   `mapstructure:"enableTrace" json:"enableTrace" yaml:"enableTrace" toml:"enableTrace"`
	JSON        bool   `mapstructure:"json" json:"json" yaml:"json" toml:"json"`

	// Output is not (de)serialized; it's wired up by the caller (stdout,
	// a file, a syslog writer...). Defaults to io.Discard.
	Output io.Writer `mapstructure:"-" json:"-" yaml:"-" toml:"-"`
}

func (o *Options) level() Level {
	if o == nil {
		return InfoLevel
	}
	return GetLevelString(o.Level)
}

func (o *Options) output() io.Writer {
	if o == nil || o.Output == nil {
		return io.Discard
	}
	return o.Output
}
