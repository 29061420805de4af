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
	"context"
	"database/sql"
	"fmt"

	drvmys "github.com/go-sql-driver/mysql"
	liberr "github/sabouaram/golib/errors"
)

// EnsureMySQLDatabase realizes the "init-db" request: it opens the server
// named by dsn without selecting a database, issues CREATE DATABASE IF NOT
// EXISTS for the database named in the DSN, and closes the connection. It
// is a pre-connection step and has no SQLite equivalent (there is no
// server-level database to create).
func EnsureMySQLDatabase(ctx context.Context, dsn string) liberr.Error {
	cfg, e := drvmys.ParseDSN(dsn)
	if e != nil {
		return ErrorValidatorError.Error(e)
	}

	name := cfg.DBName
	cfg.DBName = ""

	db, e := sql.Open("mysql", cfg.FormatDSN())
	if e != nil {
		return ErrorDatabaseOpen.Error(e)
	}
	defer func() { _ = db.Close() }()

	stmt := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", name)
	if _, e = db.ExecContext(ctx, stmt); e != nil {
		return ErrorSchemaProvision.Error(e)
	}

	return nil
}
