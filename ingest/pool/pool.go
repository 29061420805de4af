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

package pool

import (
	"context"
	"sync"

	liberr "github/sabouaram/golib/errors"
	"github/sabouaram/golib/nntp/client"
	"github/sabouaram/golib/nntp/header"
	"github/sabouaram/golib/store"
)

// Connector performs the full per-worker bring-up sequence (dial, optional
// direct-TLS, greeting, optional STARTTLS, optional AUTH, SelectGroup) and
// hands back a ready-to-drain session. It mirrors thread_connect's role.
type Connector func(ctx context.Context) (*client.Client, liberr.Error)

// Writer persists one parsed article row. Implemented by *store.Store in
// production; a plain func in tests.
type Writer func(ctx context.Context, row store.ArticleRow) liberr.Error

// WarnFunc receives a non-fatal condition worth logging (worker bring-up
// failure, retry exhaustion). Pool never logs directly; it only reports
// through this hook, matching the teacher's RegisterX late-binding style.
type WarnFunc func(err liberr.Error)

// Config wires everything a Pool needs without coupling it to how the
// caller dials sessions or opens the store.
type Config struct {
	Workers   int
	Retries   int
	GroupName string
	Connect   Connector
	Write     Writer
	Warn      WarnFunc
	Progress  *Progress
}

// Pool drains a Queue of article numbers across Config.Workers goroutines,
// each owning its own NNTP session, writing through a single writer mutex.
// Grounded on main.c's WorkQueue/WorkerArgs/thread_connect/head_worker.
type Pool struct {
	cfg Config
	wmu sync.Mutex
}

// New builds a Pool from cfg. Workers is clamped to at least 1.
func New(cfg Config) *Pool {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Pool{cfg: cfg}
}

// Run starts Config.Workers goroutines draining q and blocks until every
// worker has exited (either by draining the queue or failing bring-up).
func (p *Pool) Run(ctx context.Context, q *Queue) {
	var wg sync.WaitGroup

	for i := 0; i < p.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.runWorker(ctx, q)
		}()
	}

	wg.Wait()
}

func (p *Pool) runWorker(ctx context.Context, q *Queue) {
	c, err := p.cfg.Connect(ctx)
	if err != nil {
		p.warn(ErrorWorkerConnectFailed.Error(err))
		return
	}
	defer func() { _ = c.Session().Close() }()

	for {
		artnum, ok := q.Pop()
		if !ok {
			return
		}

		lines := p.headWithRetry(c, artnum)
		if lines == nil {
			p.warn(ErrorHeadExhausted.Error(nil))
			continue
		}

		fields := header.Parse(lines)
		row := store.ArticleRow{
			GroupName: p.cfg.GroupName,
			ArtNum:    artnum,
			Subject:   fields.Subject,
			Author:    fields.From,
			Date:      fields.Date,
			MessageID: fields.MessageID,
			Refs:      fields.References,
			Bytes:     fields.Bytes,
			Lines:     fields.Lines,
		}

		p.wmu.Lock()
		werr := p.cfg.Write(ctx, row)
		p.wmu.Unlock()

		if werr != nil {
			p.warn(werr)
		}

		if p.cfg.Progress != nil {
			p.cfg.Progress.Increment()
		}
	}
}

// headWithRetry reissues HEAD on the same session up to Retries times,
// matching the original's "attempt <= retries" loop. Returns nil once
// exhausted.
func (p *Pool) headWithRetry(c *client.Client, artnum int64) []string {
	for attempt := 0; attempt <= p.cfg.Retries; attempt++ {
		lines, err := c.Head(artnum)
		if err == nil && len(lines) > 0 {
			return lines
		}
	}
	return nil
}

func (p *Pool) warn(err liberr.Error) {
	if p.cfg.Warn != nil && err != nil {
		p.cfg.Warn(err)
	}
}
