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
	"fmt"
	"io"
	"strings"
	"sync"
)

const (
	defaultProgressWidth = 40
	minProgressWidth     = 5
	maxProgressWidth     = 200
)

// Progress renders a textual "[####......]  42% (42/100)" bar, one write
// per increment, the same shape as head_worker's inline bar-drawing code.
// It writes straight to the given writer (normally os.Stdout), deliberately
// bypassing the structured logger: this is a live status line, not a log
// record.
type Progress struct {
	mu        sync.Mutex
	out       io.Writer
	width     int
	total     int
	processed int
	label     string
}

// NewProgress builds a progress bar for total units of work. width is
// clamped to [5, 200], matching the original's progress_width bounds.
func NewProgress(out io.Writer, label string, total, width int) *Progress {
	if width < minProgressWidth {
		width = minProgressWidth
	}
	if width > maxProgressWidth {
		width = maxProgressWidth
	}

	return &Progress{out: out, width: width, total: total, label: label}
}

// Increment advances the counter by one and redraws the bar in place.
func (p *Progress) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processed++

	denom := p.total
	if denom == 0 {
		denom = 1
	}

	filled := p.width * p.processed / denom
	if filled > p.width {
		filled = p.width
	}

	pct := p.processed * 100 / denom

	bar := strings.Repeat("#", filled) + strings.Repeat(".", p.width-filled)
	fmt.Fprintf(p.out, "\r%s: [%s] %3d%% (%d/%d)", p.label, bar, pct, p.processed, p.total)
}

// Done reports whether every unit of work has been accounted for.
func (p *Progress) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.processed >= p.total
}

// Finish writes the trailing newline once all work is reported, leaving the
// final bar state on the line above.
func (p *Progress) Finish() {
	fmt.Fprintln(p.out)
}
