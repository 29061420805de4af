/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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
 *
 *
 */

package wire

import (
	"fmt"

	liberr "github/sabouaram/golib/errors"
)

const (
	ErrorTransportClosed liberr.CodeError = iota + liberr.MinPkgNntpWire
	ErrorProtocolOverflow
	ErrorShortWrite
)

func init() {
	if liberr.ExistInMapMessage(ErrorTransportClosed) {
		panic(fmt.Errorf("error code collision with package nntp/wire"))
	}
	liberr.RegisterIdFctMessage(ErrorTransportClosed, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorTransportClosed:
		return "wire: transport closed before a complete line was read"
	case ErrorProtocolOverflow:
		return "wire: line exceeded the maximum buffer size"
	case ErrorShortWrite:
		return "wire: short write sending command"
	}

	return liberr.NullMessage
}
