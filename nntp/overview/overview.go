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

// Package overview parses NNTP XOVER response lines: a fixed, tab-delimited
// positional record per article.
package overview

import (
	"strconv"
	"strings"
)

// Record is one parsed XOVER line.
type Record struct {
	ArtNum     int64
	Subject    string
	Author     string
	Date       string
	MessageID  string
	References string
	Bytes      int64
	Lines      int64
}

// ParseLine extracts the first eight tab-delimited fields of an XOVER line
// in fixed positional order. Missing fields default to the zero value for
// their type; extra trailing fields (xref and beyond) are ignored.
func ParseLine(line string) Record {
	fields := strings.Split(line, "\t")
	get := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}

	return Record{
		ArtNum:     parseInt(get(0)),
		Subject:    get(1),
		Author:     get(2),
		Date:       get(3),
		MessageID:  get(4),
		References: get(5),
		Bytes:      parseInt(get(6)),
		Lines:      parseInt(get(7)),
	}
}

// Join re-serializes a Record into the tab-delimited wire form. It exists
// primarily to let tests assert ParseLine(Join(r)) == r for records with no
// embedded tab, CR, or LF.
func Join(r Record) string {
	f := []string{
		strconv.FormatInt(r.ArtNum, 10),
		r.Subject,
		r.Author,
		r.Date,
		r.MessageID,
		r.References,
		strconv.FormatInt(r.Bytes, 10),
		strconv.FormatInt(r.Lines, 10),
	}
	return strings.Join(f, "\t")
}

func parseInt(s string) int64 {
	s = strings.TrimSpace(s)
	n, e := strconv.ParseInt(s, 10, 64)
	if e != nil {
		return 0
	}
	return n
}
