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
	"strings"

	liberr "github/sabouaram/golib/errors"
)

// Column names avoid reserved words: "references" -> refs, "lines" -> line_count.

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS groups (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	article_count INTEGER NOT NULL DEFAULT 0,
	first INTEGER NOT NULL DEFAULT 0,
	last INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS articles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	artnum INTEGER NOT NULL,
	subject TEXT,
	author TEXT,
	date TEXT,
	message_id TEXT,
	refs TEXT,
	bytes INTEGER NOT NULL DEFAULT 0,
	line_count INTEGER NOT NULL DEFAULT 0,
	group_name TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_articles_group_artnum ON articles(group_name, artnum);
`

const mysqlSchemaGroups = "" +
	"CREATE TABLE IF NOT EXISTS `groups` (" +
	"`id` BIGINT PRIMARY KEY AUTO_INCREMENT," +
	"`name` VARCHAR(255) NOT NULL," +
	"`article_count` BIGINT NOT NULL DEFAULT 0," +
	"`first` BIGINT NOT NULL DEFAULT 0," +
	"`last` BIGINT NOT NULL DEFAULT 0," +
	"UNIQUE KEY `uq_groups_name` (`name`)" +
	") ENGINE=InnoDB"

const mysqlSchemaArticles = "" +
	"CREATE TABLE IF NOT EXISTS `articles` (" +
	"`id` BIGINT PRIMARY KEY AUTO_INCREMENT," +
	"`artnum` BIGINT NOT NULL," +
	"`subject` TEXT," +
	"`author` TEXT," +
	"`date` TEXT," +
	"`message_id` VARCHAR(512)," +
	"`refs` TEXT," +
	"`bytes` BIGINT NOT NULL DEFAULT 0," +
	"`line_count` BIGINT NOT NULL DEFAULT 0," +
	"`group_name` VARCHAR(255) NOT NULL" +
	") ENGINE=InnoDB"

// mysqlUniqueArticleKey is attempted as an ALTER after table creation, so
// that a pre-existing schema (created before this unique key existed) gets
// upgraded in place. A duplicate-key error from this specific statement is
// expected and non-fatal.
const mysqlUniqueArticleKey = "ALTER TABLE `articles` ADD UNIQUE KEY `uq_articles_group_artnum` (`group_name`, `artnum`)"

// provision creates both tables and the group_name/artnum unique constraint,
// idempotently. On MySQL it also attempts the upgrade ALTER, swallowing a
// duplicate-key error (MySQL error 1061 / "Duplicate key name").
func (s *Store) provision(ctx context.Context) liberr.Error {
	switch s.drv {
	case DriverSQLite:
		for _, stmt := range strings.Split(sqliteSchema, ";\n") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if _, e := s.db.ExecContext(ctx, stmt); e != nil {
				return ErrorSchemaProvision.Error(e)
			}
		}
		return nil

	case DriverMysql:
		if _, e := s.db.ExecContext(ctx, mysqlSchemaGroups); e != nil {
			return ErrorSchemaProvision.Error(e)
		}
		if _, e := s.db.ExecContext(ctx, mysqlSchemaArticles); e != nil {
			return ErrorSchemaProvision.Error(e)
		}
		if _, e := s.db.ExecContext(ctx, mysqlUniqueArticleKey); e != nil && !isMySQLDuplicateKey(e) {
			return ErrorSchemaProvision.Error(e)
		}
		return nil

	default:
		return ErrorSchemaProvision.Error(nil)
	}
}

// isMySQLDuplicateKey reports whether e looks like MySQL error 1061
// (duplicate key name), the expected outcome when the unique-key upgrade
// ALTER runs against a schema that already has it.
func isMySQLDuplicateKey(e error) bool {
	if e == nil {
		return false
	}
	msg := e.Error()
	return strings.Contains(msg, "1061") || strings.Contains(strings.ToLower(msg), "duplicate key name")
}
