/*
 * MIT License
 *
 * Copyright (c) 2026 sfnul-go contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package errors

import "fmt"

// FuncMap is used by Error.Map to walk an error and its parent chain.
// Returning false stops the walk.
type FuncMap func(e error) bool

// Error extends the standard error with a numeric code, a parent chain and
// the call-site it was created at. Every error crossing a component
// boundary in this module (§7 of the design) is an Error.
type Error interface {
	error

	IsCode(code CodeError) bool
	HasCode(code CodeError) bool
	GetCode() CodeError
	GetParentCode() []CodeError

	Is(e error) bool
	IsError(e error) bool
	HasError(err error) bool
	HasParent() bool
	GetParent(withMainError bool) []error
	Map(fct FuncMap) bool
	ContainsString(s string) bool

	Add(parent ...error)
	SetParent(parent ...error)

	Code() uint16
	GetFile() string
	GetLine() int
	GetFunc() string

	String() string
}

// Make adapts an arbitrary error into Error, wrapping it at UnknownError if
// it isn't already one.
func Make(err error) Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(Error); ok {
		return e
	}
	return &ers{e: err.Error(), t: getFrame()}
}

// New builds an Error with the given code, message and optional parents.
func New(code uint16, message string, parent ...error) Error {
	p := make([]Error, 0, len(parent))
	for _, e := range parent {
		if er := Make(e); er != nil {
			p = append(p, er)
		}
	}
	return &ers{c: code, e: message, p: p, t: getFrame()}
}

// Newf is New with fmt.Sprintf-style message formatting.
func Newf(code uint16, pattern string, args ...any) Error {
	return &ers{c: code, e: fmt.Sprintf(pattern, args...), t: getFrame()}
}

// IfError returns nil unless at least one non-nil parent is given, in which
// case it wraps them under code/message. Useful at the bottom of a function
// that collected zero-or-more failures along the way.
func IfError(code uint16, message string, parent ...error) Error {
	p := make([]Error, 0, len(parent))
	for _, e := range parent {
		if er := Make(e); er != nil {
			p = append(p, er)
		}
	}
	if len(p) == 0 {
		return nil
	}
	return &ers{c: code, e: message, p: p, t: getFrame()}
}
