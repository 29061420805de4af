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

package store

import (
	"fmt"

	liberr "github/sabouaram/golib/errors"
)

const (
	ErrorValidatorError liberr.CodeError = iota + liberr.MinPkgStore
	ErrorDatabaseOpen
	ErrorDatabaseOpenPool
	ErrorSchemaProvision
	ErrorStatementPrepare
	ErrorWriteFailed
	ErrorNotInitialized
)

func init() {
	if liberr.ExistInMapMessage(ErrorValidatorError) {
		panic(fmt.Errorf("error code collision with package store"))
	}
	liberr.RegisterIdFctMessage(ErrorValidatorError, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorValidatorError:
		return "store: invalid config"
	case ErrorDatabaseOpen:
		return "store: cannot open database connection"
	case ErrorDatabaseOpenPool:
		return "store: cannot access underlying connection pool"
	case ErrorSchemaProvision:
		return "store: schema provisioning failed"
	case ErrorStatementPrepare:
		return "store: prepared statement creation failed, falling back to raw SQL"
	case ErrorWriteFailed:
		return "store: write to persistence backend failed"
	case ErrorNotInitialized:
		return "store: instance seems to not be initialized"
	}

	return liberr.NullMessage
}
