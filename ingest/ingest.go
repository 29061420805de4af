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
	"context"
	"fmt"
	"io"
	"os"

	liberr "github/sabouaram/golib/errors"
	liblog "github/sabouaram/golib/logger"
	"github/sabouaram/golib/ingest/pool"
	"github/sabouaram/golib/nntp/client"
	"github/sabouaram/golib/nntp/overview"
	"github/sabouaram/golib/nntp/transport"
	"github/sabouaram/golib/store"
)

// Run executes the full orchestrator sequence described in SPEC_FULL.md
// §4.8: open the main session, select the group, compute the fetch range,
// dispatch to bulk-overview or the worker pool, and close out.
func Run(ctx context.Context, req Request, logFct func() liblog.Logger) liberr.Error {
	req.Normalize()

	if req.Group == "" {
		return ErrorArgsError.Error(nil)
	}

	if err := req.Validate(); err != nil {
		return err
	}

	if req.DB.Driver == store.DriverMysql && req.InitDB {
		if err := store.EnsureMySQLDatabase(ctx, req.DB.DSN); err != nil {
			return ErrorInitDBFailed.Error(err)
		}
	}

	db, err := store.New(ctx, req.DB, logFct)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	mainSession, c, err := dialAndPrepare(ctx, req)
	if err != nil {
		return err
	}
	defer func() { _ = mainSession.Close() }()

	count, first, last, err := c.SelectGroup(req.Group)
	if err != nil {
		return err
	}

	if err = db.UpsertGroup(ctx, store.GroupRow{Name: req.Group, ArticleCount: count, First: first, Last: last}); err != nil {
		return err
	}

	if count == 0 {
		logInfo(logFct, "group "+req.Group+" has no articles in range, exiting")
		return nil
	}

	fetchFirst, fetchLast := fetchRange(first, last, req.Limit)

	out := req.Out
	if out == nil {
		out = os.Stdout
	}

	switch req.Fetch {
	case FetchBulkOverview:
		return runBulkOverview(ctx, c, db, req.Group, fetchFirst, fetchLast, logFct)
	default:
		return runPool(ctx, req, db, fetchFirst, fetchLast, out, logFct)
	}
}

// dialAndPrepare performs steps 1-4 of the orchestrator sequence on the
// main session: dial, optional direct-TLS, greeting, optional STARTTLS
// upgrade, optional AUTH.
func dialAndPrepare(ctx context.Context, req Request) (*transport.Session, *client.Client, liberr.Error) {
	sess, err := transport.Dial(ctx, req.Host, req.Port)
	if err != nil {
		return nil, nil, err
	}

	if req.Transport == TransportDirectTLS {
		if err = sess.StartDirectTLS(ctx); err != nil {
			_ = sess.Close()
			return nil, nil, err
		}
	}

	c := client.New(sess)

	if _, err = c.ReadGreeting(); err != nil {
		_ = sess.Close()
		return nil, nil, err
	}

	if req.Transport == TransportSTARTTLS {
		code, err := c.STARTTLS()
		if err != nil {
			_ = sess.Close()
			return nil, nil, err
		}
		if code < 200 || code >= 300 {
			_ = sess.Close()
			return nil, nil, ErrorConfigError.Error(nil)
		}
		if err = sess.StartTLSUpgrade(ctx); err != nil {
			_ = sess.Close()
			return nil, nil, err
		}
	}

	if req.User != "" && req.Pass != "" {
		if _, err = c.AuthInfo(req.User, req.Pass); err != nil {
			_ = sess.Close()
			return nil, nil, err
		}
	}

	return sess, c, nil
}

// fetchRange computes [fetchFirst, fetchLast] per SPEC_FULL.md §4.8 step 6.
func fetchRange(first, last, limit int64) (int64, int64) {
	if limit > 0 && limit < last-first+1 {
		fetchFirst := last - limit + 1
		if fetchFirst < first {
			fetchFirst = first
		}
		return fetchFirst, last
	}
	return first, last
}

// runBulkOverview implements the single-threaded XOVER dispatch path.
func runBulkOverview(ctx context.Context, c *client.Client, db *store.Store, group string, first, last int64, logFct func() liblog.Logger) liberr.Error {
	lines, err := c.Overview(first, last)
	if err != nil {
		return err
	}

	if lines == nil {
		logWarnMsg(logFct, fmt.Sprintf("XOVER %d-%d returned a non-2xx status for group %s, no rows written", first, last, group))
		return nil
	}

	for _, line := range lines {
		r := overview.ParseLine(line)
		row := store.ArticleRow{
			GroupName: group,
			ArtNum:    r.ArtNum,
			Subject:   r.Subject,
			Author:    r.Author,
			Date:      r.Date,
			MessageID: r.MessageID,
			Refs:      r.References,
			Bytes:     r.Bytes,
			Lines:     r.Lines,
		}
		if err = db.UpsertArticle(ctx, row); err != nil {
			return err
		}
	}

	return nil
}

// runPool implements the per-article HEAD dispatch path, starting one
// worker goroutine per configured worker, each with its own NNTP session.
func runPool(ctx context.Context, req Request, db *store.Store, first, last int64, out io.Writer, logFct func() liblog.Logger) liberr.Error {
	q := pool.NewQueue(first, last)

	workers := req.Workers
	if size := int(last - first + 1); size < workers {
		workers = size
	}
	if workers < 1 {
		workers = 1
	}

	progress := pool.NewProgress(out, "Headers", q.Len(), req.ProgressWidth)

	cfg := pool.Config{
		Workers:   workers,
		Retries:   req.Retries,
		GroupName: req.Group,
		Progress:  progress,
		Connect: func(ctx context.Context) (*client.Client, liberr.Error) {
			sess, c, err := dialAndPrepare(ctx, req)
			if err != nil {
				return nil, err
			}
			if _, _, _, err = c.SelectGroup(req.Group); err != nil {
				_ = sess.Close()
				return nil, err
			}
			return c, nil
		},
		Write: func(ctx context.Context, row store.ArticleRow) liberr.Error {
			return db.UpsertArticle(ctx, row)
		},
		Warn: func(err liberr.Error) {
			logWarn(logFct, err)
		},
	}

	p := pool.New(cfg)
	p.Run(ctx, q)
	progress.Finish()

	return nil
}

func logInfo(logFct func() liblog.Logger, msg string) {
	if logFct == nil || logFct() == nil {
		return
	}
	logFct().Info(msg, nil)
}

func logWarn(logFct func() liblog.Logger, err liberr.Error) {
	if logFct == nil || logFct() == nil || err == nil {
		return
	}
	logFct().Warning(err.Error(), nil)
}

func logWarnMsg(logFct func() liblog.Logger, msg string) {
	if logFct == nil || logFct() == nil {
		return
	}
	logFct().Warning(msg, nil)
}
