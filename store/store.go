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

// Package store persists groups and articles into either a MySQL/MariaDB
// or SQLite backend, modelled on database/gorm.Config/New for connection
// setup and on the original nntp2sql db.c for the update-then-insert write
// semantics gorm's clause.OnConflict cannot express (it has no hook to
// check the affected-row count before deciding whether to insert).
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	libval "github.com/go-playground/validator/v10"
	liberr "github/sabouaram/golib/errors"
	liblog "github/sabouaram/golib/logger"
	moncfg "github.com/nabbar/golib/monitor/types"
	gormdb "gorm.io/gorm"
)

// Config mirrors the shape of database/gorm.Config, trimmed to the knobs
// this pipeline's two backends actually need.
type Config struct {
	Driver Driver `mapstructure:"driver" json:"driver" yaml:"driver" toml:"driver" validate:"required,oneof=mysql sqlite"`
	DSN    string `mapstructure:"dsn" json:"dsn" yaml:"dsn" toml:"dsn" validate:"required"`

	// Upsert enables the insert-after-failed-update fallback. When false, a
	// write whose UPDATE affects zero rows is only logged as a warning.
	Upsert bool `mapstructure:"upsert" json:"upsert" yaml:"upsert" toml:"upsert"`

	PoolMaxIdleConns    int           `mapstructure:"pool-max-idle-conns" json:"pool-max-idle-conns" yaml:"pool-max-idle-conns" toml:"pool-max-idle-conns"`
	PoolMaxOpenConns    int           `mapstructure:"pool-max-open-conns" json:"pool-max-open-conns" yaml:"pool-max-open-conns" toml:"pool-max-open-conns"`
	PoolConnMaxLifetime time.Duration `mapstructure:"pool-conn-max-lifetime" json:"pool-conn-max-lifetime" yaml:"pool-conn-max-lifetime" toml:"pool-conn-max-lifetime"`

	Monitor moncfg.Config `mapstructure:"monitor" json:"monitor" yaml:"monitor" toml:"monitor"`
}

// Validate checks the struct tags, following the same pattern as
// database/gorm.Config.Validate.
func (c *Config) Validate() liberr.Error {
	e := ErrorValidatorError.Error(nil)

	if err := libval.New().Struct(c); err != nil {
		if er, ok := err.(*libval.InvalidValidationError); ok {
			e.Add(er)
		}
		for _, er := range err.(libval.ValidationErrors) {
			e.Add(fmt.Errorf("config field '%s' is not validated by constraint '%s'", er.Namespace(), er.ActualTag()))
		}
	}

	if !e.HasParent() {
		return nil
	}

	return e
}

// GroupRow is one row of the groups table.
type GroupRow struct {
	Name         string
	ArticleCount int64
	First        int64
	Last         int64
}

// ArticleRow is one row of the articles table.
type ArticleRow struct {
	GroupName string
	ArtNum    int64
	Subject   string
	Author    string
	Date      string
	MessageID string
	Refs      string
	Bytes     int64
	Lines     int64
}

// Store holds the open connection and whatever prepared statements the
// backend managed to create. Every exported method is safe to call
// concurrently: the *sql.DB pool handles serialization, and the prepared
// statements are each safe for concurrent use per database/sql.
type Store struct {
	drv    Driver
	db     *sql.DB
	gdb    *gormdb.DB
	upsert bool
	logFct func() liblog.Logger

	updArticle *sql.Stmt
	insArticle *sql.Stmt
}

// New opens the configured backend, provisions the schema idempotently and
// prepares the article statements, falling back to raw escaped SQL for any
// statement that fails to prepare (logged, not fatal).
func New(ctx context.Context, cfg Config, logFct func() liblog.Logger) (*Store, liberr.Error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dial := cfg.Driver.Dialector(cfg.DSN)
	if dial == nil {
		return nil, ErrorValidatorError.Error(fmt.Errorf("unsupported driver %q", cfg.Driver))
	}

	o, e := gormdb.Open(dial, &gormdb.Config{})
	if e != nil {
		return nil, ErrorDatabaseOpen.Error(e)
	}

	db, e := o.DB()
	if e != nil {
		return nil, ErrorDatabaseOpenPool.Error(e)
	}

	if cfg.PoolMaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.PoolMaxIdleConns)
	}
	if cfg.PoolMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.PoolMaxOpenConns)
	}
	if cfg.PoolConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.PoolConnMaxLifetime)
	}

	s := &Store{
		drv:    cfg.Driver,
		db:     db,
		gdb:    o,
		upsert: cfg.Upsert,
		logFct: logFct,
	}

	if err := s.provision(ctx); err != nil {
		return nil, err
	}

	s.prepare(ctx)

	return s, nil
}

// prepare creates the article update/insert statements. Group writes always
// go through raw escaped SQL, matching the original implementation, which
// never prepares the groups statements on the MySQL backend.
func (s *Store) prepare(ctx context.Context) {
	var updSQL, insSQL string

	switch s.drv {
	case DriverSQLite:
		updSQL = "UPDATE articles SET subject=?, author=?, date=?, message_id=?, refs=?, bytes=?, line_count=? WHERE group_name=? AND artnum=?"
		insSQL = "INSERT INTO articles (artnum, subject, author, date, message_id, refs, bytes, line_count, group_name) VALUES (?,?,?,?,?,?,?,?,?)"
	case DriverMysql:
		updSQL = "UPDATE `articles` SET `subject`=?, `author`=?, `date`=?, `message_id`=?, `refs`=?, `bytes`=?, `line_count`=? WHERE `group_name`=? AND `artnum`=?"
		insSQL = "INSERT INTO `articles` (`artnum`, `subject`, `author`, `date`, `message_id`, `refs`, `bytes`, `line_count`, `group_name`) VALUES (?,?,?,?,?,?,?,?,?)"
	default:
		return
	}

	if st, e := s.db.PrepareContext(ctx, updSQL); e == nil {
		s.updArticle = st
	} else {
		s.warn(ErrorStatementPrepare.Error(e))
	}

	if st, e := s.db.PrepareContext(ctx, insSQL); e == nil {
		s.insArticle = st
	} else {
		s.warn(ErrorStatementPrepare.Error(e))
	}
}

func (s *Store) warn(err liberr.Error) {
	if s.logFct == nil || s.logFct() == nil || err == nil {
		return
	}
	s.logFct().Warning(err.Error(), nil)
}

// Close releases the prepared statements and the underlying connection.
func (s *Store) Close() liberr.Error {
	if s == nil || s.db == nil {
		return ErrorNotInitialized.Error(nil)
	}

	if s.updArticle != nil {
		_ = s.updArticle.Close()
	}
	if s.insArticle != nil {
		_ = s.insArticle.Close()
	}

	if e := s.db.Close(); e != nil {
		return ErrorWriteFailed.Error(e)
	}

	return nil
}

// UpsertGroup updates a group's rollup counters, inserting a new row only
// when the update affects no rows and upsert is enabled. This always runs
// as raw escaped SQL: the original tool never prepares the groups
// statements, since they run at most once per group per run.
func (s *Store) UpsertGroup(ctx context.Context, g GroupRow) liberr.Error {
	if s == nil || s.db == nil {
		return ErrorNotInitialized.Error(nil)
	}

	var updSQL, insSQL string
	name := s.drv.escape(g.Name)

	switch s.drv {
	case DriverMysql:
		updSQL = fmt.Sprintf("UPDATE `groups` SET `article_count`=%d, `first`=%d, `last`=%d WHERE `name`='%s'", g.ArticleCount, g.First, g.Last, name)
		insSQL = fmt.Sprintf("INSERT INTO `groups` (`name`,`article_count`,`first`,`last`) VALUES ('%s',%d,%d,%d)", name, g.ArticleCount, g.First, g.Last)
	default:
		updSQL = fmt.Sprintf("UPDATE groups SET article_count=%d, first=%d, last=%d WHERE name='%s'", g.ArticleCount, g.First, g.Last, name)
		insSQL = fmt.Sprintf("INSERT INTO groups (name, article_count, first, last) VALUES ('%s',%d,%d,%d)", name, g.ArticleCount, g.First, g.Last)
	}

	res, e := s.db.ExecContext(ctx, updSQL)
	if e != nil {
		return ErrorWriteFailed.Error(e)
	}

	n, _ := res.RowsAffected()
	if n > 0 {
		return nil
	}

	if !s.upsert {
		s.warn(ErrorWriteFailed.Error(fmt.Errorf("group not found for update: %s", g.Name)))
		return nil
	}

	if _, e = s.db.ExecContext(ctx, insSQL); e != nil {
		return ErrorWriteFailed.Error(e)
	}

	return nil
}

// UpsertArticle updates an article row, inserting a new one only when the
// update affects no rows and upsert is enabled. Prefers the prepared
// statements from prepare(); falls back to raw escaped SQL when either
// failed to prepare.
func (s *Store) UpsertArticle(ctx context.Context, a ArticleRow) liberr.Error {
	if s == nil || s.db == nil {
		return ErrorNotInitialized.Error(nil)
	}

	if s.updArticle != nil {
		return s.upsertArticlePrepared(ctx, a)
	}

	return s.upsertArticleRaw(ctx, a)
}

func (s *Store) upsertArticlePrepared(ctx context.Context, a ArticleRow) liberr.Error {
	res, e := s.updArticle.ExecContext(ctx, a.Subject, a.Author, a.Date, a.MessageID, a.Refs, a.Bytes, a.Lines, a.GroupName, a.ArtNum)
	if e != nil {
		return ErrorWriteFailed.Error(e)
	}

	n, _ := res.RowsAffected()
	if n > 0 {
		return nil
	}

	if !s.upsert {
		s.warn(ErrorWriteFailed.Error(fmt.Errorf("article not found for update: %s #%d", a.GroupName, a.ArtNum)))
		return nil
	}

	if s.insArticle == nil {
		return s.upsertArticleRaw(ctx, a)
	}

	if _, e = s.insArticle.ExecContext(ctx, a.ArtNum, a.Subject, a.Author, a.Date, a.MessageID, a.Refs, a.Bytes, a.Lines, a.GroupName); e != nil {
		return ErrorWriteFailed.Error(e)
	}

	return nil
}

func (s *Store) upsertArticleRaw(ctx context.Context, a ArticleRow) liberr.Error {
	esc := s.drv.escape
	group, subject, author, date, msgID, refs := esc(a.GroupName), esc(a.Subject), esc(a.Author), esc(a.Date), esc(a.MessageID), esc(a.Refs)

	updSQL := fmt.Sprintf(
		"UPDATE articles SET subject='%s', author='%s', date='%s', message_id='%s', refs='%s', bytes=%d, line_count=%d WHERE group_name='%s' AND artnum=%d",
		subject, author, date, msgID, refs, a.Bytes, a.Lines, group, a.ArtNum,
	)

	res, e := s.db.ExecContext(ctx, updSQL)
	if e != nil {
		return ErrorWriteFailed.Error(e)
	}

	n, _ := res.RowsAffected()
	if n > 0 || !s.upsert {
		if n == 0 {
			s.warn(ErrorWriteFailed.Error(fmt.Errorf("article not found for update: %s #%d", a.GroupName, a.ArtNum)))
		}
		return nil
	}

	insSQL := fmt.Sprintf(
		"INSERT INTO articles (artnum, subject, author, date, message_id, refs, bytes, line_count, group_name) VALUES (%d,'%s','%s','%s','%s','%s',%d,%d,'%s')",
		a.ArtNum, subject, author, date, msgID, refs, a.Bytes, a.Lines, group,
	)

	if _, e = s.db.ExecContext(ctx, insSQL); e != nil {
		return ErrorWriteFailed.Error(e)
	}

	return nil
}
