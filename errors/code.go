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

import (
	"math"
	"strconv"
)

// idMsgFct stores the mapping between error codes and their message functions.
var idMsgFct = make(map[CodeError]Message)

// Message generates a message string for a registered CodeError.
type Message func(code CodeError) (message string)

// CodeError is a numeric error classification, in the spirit of an HTTP
// status code, attached to every Error returned by this package. The
// networking-specific codes are registered in kind.go.
type CodeError uint16

const (
	// UnknownError is the fallback code when none was set.
	UnknownError CodeError = 0

	UnknownMessage = "unknown error"
	NullMessage    = ""
)

// ParseCodeError clamps an arbitrary int64 into the CodeError range.
func ParseCodeError(i int64) CodeError {
	if i < 0 {
		return UnknownError
	} else if i >= int64(math.MaxUint16) {
		return math.MaxUint16
	}
	return CodeError(i)
}

func (c CodeError) Uint16() uint16 { return uint16(c) }
func (c CodeError) Int() int       { return int(c) }
func (c CodeError) String() string { return strconv.Itoa(c.Int()) }

// Message returns the registered message for c, or UnknownMessage.
func (c CodeError) Message() string {
	if c == UnknownError {
		return UnknownMessage
	}

	if f, ok := idMsgFct[c]; ok {
		if m := f(c); m != "" {
			return m
		}
	}

	return UnknownMessage
}

// Error builds a new Error carrying this code and its registered message.
func (c CodeError) Error(parent ...error) Error {
	return New(c.Uint16(), c.Message(), parent...)
}

// RegisterIdFctMessage associates a message-generating function with a code.
// Networking kinds in kind.go register themselves this way at init time.
func RegisterIdFctMessage(code CodeError, fct Message) {
	if fct != nil {
		idMsgFct[code] = fct
	}
}
