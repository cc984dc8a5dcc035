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

// Package errors provides the numeric-coded error taxonomy used across every
// component of sfnul-go: each error carries a CodeError classifying it into
// one of the kinds from the Error Handling Design (Transient, RemoteClosed,
// ConnectionReset, InvalidArgument, ProtocolViolation, TLSVerification,
// ResourceExhaustion), a message, an optional parent chain, and the call
// frame where it was created.
package errors

import (
	"fmt"
	"strings"
)

type ers struct {
	c uint16
	e string
	p []Error
	t Frame
}

// Frame is the captured call-site of an Error.
type Frame struct {
	Function string
	File     string
	Line     int
}

func (e *ers) Error() string { return e.e }

func (e *ers) Code() uint16       { return e.c }
func (e *ers) GetCode() CodeError { return CodeError(e.c) }

func (e *ers) IsCode(code CodeError) bool { return e.c == code.Uint16() }

func (e *ers) HasCode(code CodeError) bool {
	if e.IsCode(code) {
		return true
	}
	for _, p := range e.p {
		if p.HasCode(code) {
			return true
		}
	}
	return false
}

func (e *ers) IsError(err error) bool {
	if err == nil {
		return false
	}
	return strings.EqualFold(e.e, err.Error())
}

func (e *ers) HasError(err error) bool {
	if e.IsError(err) {
		return true
	}
	for _, p := range e.p {
		if p.IsError(err) || p.HasError(err) {
			return true
		}
	}
	return false
}

func (e *ers) Is(err error) bool {
	if err == nil {
		return false
	}
	if er, ok := err.(*ers); ok {
		return e.c == er.c && strings.EqualFold(e.e, er.e)
	}
	return e.IsError(err)
}

func (e *ers) HasParent() bool { return len(e.p) > 0 }

func (e *ers) GetParent(withMainError bool) []error {
	res := make([]error, 0, len(e.p)+1)
	if withMainError {
		res = append(res, &ers{c: e.c, e: e.e})
	}
	for _, p := range e.p {
		res = append(res, p)
	}
	return res
}

func (e *ers) GetParentCode() []CodeError {
	res := []CodeError{e.GetCode()}
	for _, p := range e.p {
		res = append(res, p.GetParentCode()...)
	}
	return uniqueCodes(res)
}

func (e *ers) Add(parent ...error) {
	for _, v := range parent {
		if v == nil {
			continue
		}
		if er, ok := v.(*ers); ok {
			e.p = append(e.p, er)
		} else if er, ok := v.(Error); ok {
			e.p = append(e.p, er)
		} else {
			e.p = append(e.p, &ers{e: v.Error()})
		}
	}
}

func (e *ers) SetParent(parent ...error) {
	e.p = make([]Error, 0, len(parent))
	e.Add(parent...)
}

func (e *ers) Map(fct FuncMap) bool {
	if !fct(e) {
		return false
	}
	for _, p := range e.p {
		if !p.Map(fct) {
			return false
		}
	}
	return true
}

func (e *ers) ContainsString(s string) bool {
	if strings.Contains(e.e, s) {
		return true
	}
	for _, p := range e.p {
		if p.ContainsString(s) {
			return true
		}
	}
	return false
}

func (e *ers) GetFile() string { return e.t.File }
func (e *ers) GetLine() int    { return e.t.Line }
func (e *ers) GetFunc() string { return e.t.Function }

func (e *ers) String() string {
	if e.c != 0 {
		return fmt.Sprintf("[%d] %s", e.c, e.e)
	}
	return e.e
}

func uniqueCodes(in []CodeError) []CodeError {
	seen := make(map[CodeError]struct{}, len(in))
	out := make([]CodeError, 0, len(in))
	for _, c := range in {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
