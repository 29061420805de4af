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

// Command nntp2sql dumps an NNTP newsgroup's headers into a SQL backend.
// The CLI layer is intentionally thin: it only populates an
// ingest.Request and hands off to ingest.Run, per spec's Non-goal on a
// fully-featured config loader.
package main

import (
	"fmt"
	"os"

	liblog "github/sabouaram/golib/logger"
	logcfg "github/sabouaram/golib/logger/config"
	"github/sabouaram/golib/ingest"
	"github/sabouaram/golib/store"

	spfcbr "github.com/spf13/cobra"
	spfvpr "github.com/spf13/viper"
)

func main() {
	v := spfvpr.New()
	root := buildCommand(v)

	// runE exits directly via ingest.ExitCode for every error ingest.Run can
	// return (a missing --group as ErrorArgsError, a missing --host or any
	// other invalid field through Request.Validate). This only catches
	// cobra-level failures, such as an unparsable flag, that never reach
	// runE at all; those are usage errors.
	if e := root.Execute(); e != nil {
		fmt.Fprintln(os.Stderr, e)
		os.Exit(2)
	}
}

func buildCommand(v *spfvpr.Viper) *spfcbr.Command {
	cmd := &spfcbr.Command{
		Use:   "nntp2sql",
		Short: "Dump an NNTP newsgroup's headers into a SQL database",
		RunE: func(cmd *spfcbr.Command, args []string) error {
			return runE(cmd, v)
		},
	}

	flags := cmd.Flags()
	flags.String("host", "", "NNTP server host")
	flags.String("port", "119", "NNTP server port")
	flags.String("transport", "plain", "plain, direct-tls or starttls")
	flags.String("user", "", "AUTHINFO username")
	flags.String("pass", "", "AUTHINFO password")

	flags.String("db-type", "sqlite", "sqlite or mysql")
	flags.String("dsn", "", "backend DSN (SQLite path or MySQL DSN)")
	flags.Bool("init-db", false, "create the MySQL database before connecting")
	flags.Bool("upsert", false, "insert a row when an update affects none")

	flags.String("group", "", "NNTP group to ingest")
	flags.String("fetch", "headers", "bulk-overview or headers")
	flags.Int64("limit", 0, "restrict to the newest N articles (0 = no limit)")
	flags.Int("workers", 4, "worker count for headers fetch mode (1-64)")
	flags.Int("retries", 2, "HEAD retry count per article (0-10)")
	flags.Int("progress-width", 40, "progress bar width in columns")

	_ = v.BindPFlags(flags)
	v.SetEnvPrefix("NNTP2SQL")
	v.AutomaticEnv()

	return cmd
}

func runE(cmd *spfcbr.Command, v *spfvpr.Viper) error {
	req := ingest.Request{
		Host:      v.GetString("host"),
		Port:      v.GetString("port"),
		Transport: ingest.TransportMode(v.GetString("transport")),
		User:      v.GetString("user"),
		Pass:      v.GetString("pass"),
		DB: store.Config{
			Driver: store.DriverFromString(v.GetString("db-type")),
			DSN:    v.GetString("dsn"),
			Upsert: v.GetBool("upsert"),
		},
		InitDB:        v.GetBool("init-db"),
		Group:         v.GetString("group"),
		Fetch:         ingest.FetchMode(v.GetString("fetch")),
		Limit:         v.GetInt64("limit"),
		Workers:       v.GetInt("workers"),
		Retries:       v.GetInt("retries"),
		ProgressWidth: v.GetInt("progress-width"),
		Out:           os.Stdout,
	}

	log := liblog.New(cmd.Context())
	_ = log.SetOptions(&logcfg.Options{
		Stdout: &logcfg.OptionsStd{DisableColor: false},
	})
	logFct := func() liblog.Logger { return log }

	err := ingest.Run(cmd.Context(), req, logFct)
	if err != nil {
		code := ingest.ExitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}

	return nil
}
