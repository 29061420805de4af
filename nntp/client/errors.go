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

package client

import (
	"fmt"

	liberr "github/sabouaram/golib/errors"
)

const (
	ErrorGreetingRejected liberr.CodeError = iota + liberr.MinPkgNntpClient
	ErrorAuthFailed
	ErrorGroupSelectFailed
	ErrorNNTPCommandFailed
	ErrorNotInitialized
)

func init() {
	if liberr.ExistInMapMessage(ErrorGreetingRejected) {
		panic(fmt.Errorf("error code collision with package nntp/client"))
	}
	liberr.RegisterIdFctMessage(ErrorGreetingRejected, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorGreetingRejected:
		return "nntp client: server rejected the connection at greeting"
	case ErrorAuthFailed:
		return "nntp client: AUTHINFO was rejected"
	case ErrorGroupSelectFailed:
		return "nntp client: GROUP command was rejected"
	case ErrorNNTPCommandFailed:
		return "nntp client: command returned a non-2xx status"
	case ErrorNotInitialized:
		return "nntp client: instance seems to not be initialized"
	}

	return liberr.NullMessage
}
