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

// Package header extracts named fields from an NNTP HEAD multi-line header
// block, including folded (continuation) header values.
package header

import (
	"strconv"
	"strings"
)

// Fields is the subset of header values the persistence layer needs.
type Fields struct {
	Subject    string
	From       string
	Date       string
	MessageID  string
	References string
	Bytes      int64
	Lines      int64
}

// known maps a lower-cased header name to the Fields member it fills.
var known = map[string]bool{
	"subject":    true,
	"from":       true,
	"date":       true,
	"message-id": true,
	"references": true,
	"bytes":      true,
	"lines":      true,
}

// Parse walks the logical lines of a HEAD response and fills a Fields value.
// Each line's case-insensitive prefix up to the first ':' is matched against
// the known header names; the value is the remainder with one leading space
// stripped. A line starting with whitespace is a continuation of the
// previous known header and is appended with a single separating space.
// Unknown headers are ignored. Bytes and Lines parse as base-10 integers,
// defaulting to 0 when absent or non-numeric.
func Parse(lines []string) Fields {
	var f Fields
	last := ""

	set := func(name, value string) {
		switch name {
		case "subject":
			f.Subject = value
		case "from":
			f.From = value
		case "date":
			f.Date = value
		case "message-id":
			f.MessageID = value
		case "references":
			f.References = value
		case "bytes":
			f.Bytes = parseInt(value)
		case "lines":
			f.Lines = parseInt(value)
		}
	}

	appendTo := func(name, extra string) {
		switch name {
		case "subject":
			f.Subject += " " + extra
		case "from":
			f.From += " " + extra
		case "date":
			f.Date += " " + extra
		case "message-id":
			f.MessageID += " " + extra
		case "references":
			f.References += " " + extra
		}
	}

	for _, line := range lines {
		if line == "" {
			continue
		}

		if (line[0] == ' ' || line[0] == '\t') && last != "" {
			appendTo(last, strings.TrimSpace(line))
			continue
		}

		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}

		name := strings.ToLower(strings.TrimSpace(line[:idx]))
		value := line[idx+1:]
		value = strings.TrimPrefix(value, " ")

		if !known[name] {
			last = ""
			continue
		}

		set(name, value)
		last = name
	}

	return f
}

func parseInt(s string) int64 {
	s = strings.TrimSpace(s)
	n, e := strconv.ParseInt(s, 10, 64)
	if e != nil {
		return 0
	}
	return n
}
