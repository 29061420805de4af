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

// Package ingest orchestrates one end-to-end run: connect, select group,
// compute the fetch range, dispatch to bulk-overview or the worker pool,
// and close out. Grounded on main.c's main() flow.
package ingest

import (
	"fmt"
	"io"

	libval "github.com/go-playground/validator/v10"
	liberr "github/sabouaram/golib/errors"
	"github/sabouaram/golib/store"
)

// TransportMode selects how the main session reaches the server.
type TransportMode string

const (
	TransportPlain     TransportMode = "plain"
	TransportDirectTLS TransportMode = "direct-tls"
	TransportSTARTTLS  TransportMode = "starttls"
)

// FetchMode selects bulk-overview vs. per-article HEAD dispatch.
type FetchMode string

const (
	FetchBulkOverview FetchMode = "bulk-overview"
	FetchHeaders      FetchMode = "headers"
)

// Request is the realization of spec §6's IngestionRequest input surface.
type Request struct {
	Host string `validate:"required"`
	Port string `validate:"required"`

	Transport TransportMode `validate:"required,oneof=plain direct-tls starttls"`
	User      string
	Pass      string

	DB store.Config `validate:"required"`

	InitDB bool

	Group string `validate:"required"`

	Fetch   FetchMode `validate:"required,oneof=bulk-overview headers"`
	Limit   int64
	Workers int `validate:"gte=0,lte=64"`
	Retries int `validate:"gte=0,lte=10"`

	ProgressWidth int

	Out io.Writer
}

// Normalize clamps Workers to [1,64] and ProgressWidth to its defaults,
// matching the original CLI's post-parse clamping.
func (r *Request) Normalize() {
	if r.Workers < 1 {
		r.Workers = 1
	}
	if r.Workers > 64 {
		r.Workers = 64
	}
	if r.ProgressWidth <= 0 {
		r.ProgressWidth = 40
	}
}

// Validate checks the struct tags, following the same libval.New().Struct
// pattern as store.Config.Validate. Called from Run, after Normalize and
// before anything is dialed, so an unknown Transport/Fetch value or an
// out-of-range Retries is rejected up front instead of silently falling
// through. Workers never fails here: Normalize has already clamped it to
// [1,64].
func (r *Request) Validate() liberr.Error {
	e := ErrorConfigError.Error(nil)

	if err := libval.New().Struct(r); err != nil {
		if er, ok := err.(*libval.InvalidValidationError); ok {
			e.Add(er)
		}
		for _, er := range err.(libval.ValidationErrors) {
			e.Add(fmt.Errorf("request field '%s' is not validated by constraint '%s'", er.Namespace(), er.ActualTag()))
		}
	}

	if !e.HasParent() {
		return nil
	}

	return e
}

func (r *Request) String() string {
	return fmt.Sprintf("ingest.Request{host=%s group=%s fetch=%s workers=%d}", r.Host, r.Group, r.Fetch, r.Workers)
}
