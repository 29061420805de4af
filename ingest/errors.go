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

package ingest

import (
	"fmt"

	liberr "github/sabouaram/golib/errors"
	"github/sabouaram/golib/nntp/transport"
)

const (
	ErrorArgsError liberr.CodeError = iota + liberr.MinPkgIngest
	ErrorConfigError
	ErrorGroupEmpty
	ErrorInitDBFailed
)

func init() {
	if liberr.ExistInMapMessage(ErrorArgsError) {
		panic(fmt.Errorf("error code collision with package ingest"))
	}
	liberr.RegisterIdFctMessage(ErrorArgsError, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorArgsError:
		return "ingest: missing or unknown argument"
	case ErrorConfigError:
		return "ingest: contradictory or invalid configuration"
	case ErrorGroupEmpty:
		return "ingest: selected group contains no articles in range"
	case ErrorInitDBFailed:
		return "ingest: init-db (CREATE DATABASE) failed"
	}

	return liberr.NullMessage
}

// ExitCode maps a liberr.Error's code to the process exit code from the
// error taxonomy. Consulted only at the cmd/ boundary.
func ExitCode(err liberr.Error) int {
	if err == nil {
		return 0
	}

	switch err.GetCode() {
	case ErrorArgsError:
		return 2
	case ErrorConfigError:
		return 3
	}

	// Fall through to the sub-package taxonomies by matching their
	// registered code ranges, coarsest-grained first.
	code := uint16(err.GetCode())
	switch {
	case code >= uint16(liberr.MinPkgNntpTransport) && code < uint16(liberr.MinPkgNntpClient):
		return exitFromTransport(err)
	case code >= uint16(liberr.MinPkgNntpClient) && code < uint16(liberr.MinPkgOverview):
		return exitFromClient(err)
	case code >= uint16(liberr.MinPkgStore) && code < uint16(liberr.MinPkgPool):
		return exitFromStore(err)
	default:
		return 30
	}
}

func exitFromTransport(err liberr.Error) int {
	switch err.GetCode() {
	case transport.ErrorTLSFailure:
		return 12
	case transport.ErrorDNSFailure:
		return 10
	default:
		return 11
	}
}

func exitFromClient(err liberr.Error) int {
	switch {
	case err.ContainsString("auth"):
		return 15
	case err.ContainsString("greeting"):
		return 13
	default:
		return 14
	}
}

func exitFromStore(err liberr.Error) int {
	switch {
	case err.ContainsString("prepare"):
		return 22
	case err.ContainsString("schema"):
		return 21
	default:
		return 20
	}
}
