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
	"strings"

	drvmys "gorm.io/driver/mysql"
	drvsql "gorm.io/driver/sqlite"
	gormdb "gorm.io/gorm"
)

// Driver tags one of the two interchangeable relational backends this
// pipeline supports. Modelled directly on database/gorm.Driver's tagged
// dialector-selection shape, trimmed to the two backends the spec allows.
type Driver string

const (
	DriverNone   Driver = ""
	DriverMysql  Driver = "mysql"
	DriverSQLite Driver = "sqlite"
)

// DriverFromString accepts "mysql"/"mariadb" and "sqlite" case-insensitively.
func DriverFromString(drv string) Driver {
	switch strings.ToLower(drv) {
	case DriverMysql.String(), "mariadb":
		return DriverMysql
	case DriverSQLite.String():
		return DriverSQLite
	default:
		return DriverNone
	}
}

func (d Driver) String() string {
	return string(d)
}

// Dialector returns the gorm.io dialector for this backend given a DSN.
func (d Driver) Dialector(dsn string) gormdb.Dialector {
	switch d {
	case DriverMysql:
		return drvmys.Open(dsn)
	case DriverSQLite:
		return drvsql.Open(dsn)
	default:
		return nil
	}
}

// escape returns this backend's native string-escaping routine, used only
// when prepared-statement creation failed and writes fall back to
// string-formatted SQL.
func (d Driver) escape(s string) string {
	switch d {
	case DriverMysql:
		return escapeMySQL(s)
	default:
		return escapeSQLite(s)
	}
}

// escapeSQLite doubles embedded single quotes, the standard SQL-92 escape
// also used by SQLite.
func escapeSQLite(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// escapeMySQL mirrors the characters mysql_real_escape_string treats
// specially for a string destined for a single-quoted literal.
func escapeMySQL(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '\'', '"':
			b.WriteByte('\\')
			b.WriteRune(r)
		case 0:
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case 0x1a:
			b.WriteString(`\Z`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
