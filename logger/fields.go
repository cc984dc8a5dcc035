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

import "github.com/google/uuid"

// Fields carries structured key-value context attached to a log entry. The
// reactor and every socket/link/synchronizer resource stamps its own
// correlation id (see WithResource) so a multi-worker log stream can be
// reconstructed per-resource.
type Fields map[string]interface{}

// Clone returns a shallow copy, letting a caller extend a base Fields value
// without mutating the original.
func (f Fields) Clone() Fields {
	n := make(Fields, len(f))
	for k, v := range f {
		n[k] = v
	}
	return n
}

func (f Fields) Add(key string, val interface{}) Fields {
	n := f.Clone()
	n[key] = val
	return n
}

// WithResource stamps a freshly-generated correlation id under "resource_id"
// plus a "resource_kind" label (e.g. "tcp.socket", "link", "objsync.server").
func WithResource(kind string) Fields {
	return Fields{
		"resource_kind": kind,
		"resource_id":   uuid.NewString(),
	}
}
