package ingest_test

import (
	"bufio"
	"context"
	"database/sql"
	"net"
	"path/filepath"
	"strings"
	"testing"

	"github/sabouaram/golib/ingest"
	"github/sabouaram/golib/store"
)

// fakeServer drives one accepted connection through a scripted exchange,
// the same simulated-server fixture shape spec.md's end-to-end scenarios
// require.
type fakeServer struct {
	t    *testing.T
	ln   net.Listener
	conn net.Conn
}

func newFakeServer(t *testing.T) *fakeServer {
	ln, e := net.Listen("tcp", "127.0.0.1:0")
	if e != nil {
		t.Fatalf("listen: %v", e)
	}
	return &fakeServer{t: t, ln: ln}
}

func (f *fakeServer) addr() (string, string) {
	host, port, _ := net.SplitHostPort(f.ln.Addr().String())
	return host, port
}

func (f *fakeServer) accept() {
	c, e := f.ln.Accept()
	if e != nil {
		f.t.Fatalf("accept: %v", e)
	}
	f.conn = c
}

func (f *fakeServer) send(line string) {
	_, _ = f.conn.Write([]byte(line + "\r\n"))
}

func (f *fakeServer) expect(prefix string) string {
	r := bufio.NewReader(f.conn)
	line, _ := r.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, prefix) {
		f.t.Fatalf("expected prefix %q, got %q", prefix, line)
	}
	return line
}

func (f *fakeServer) close() {
	if f.conn != nil {
		_ = f.conn.Close()
	}
	_ = f.ln.Close()
}

func newMemStore(t *testing.T) store.Config {
	t.Helper()
	return store.Config{
		Driver: store.DriverSQLite,
		DSN:    "file::memory:?cache=shared",
		Upsert: true,
	}
}

// newFileStore returns a store.Config backed by a file under the test's
// temp dir rather than an in-memory database, so the data survives past
// ingest.Run's internal db.Close() for a read-back assertion.
func newFileStore(t *testing.T) store.Config {
	t.Helper()
	return store.Config{
		Driver: store.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "ingest.db"),
		Upsert: true,
	}
}

// openReadBack opens a second connection to an already-ingested SQLite
// file, relying on the "sqlite3" database/sql driver name registered
// transitively by gorm.io/driver/sqlite's own mattn/go-sqlite3 import.
func openReadBack(t *testing.T, dsn string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open read-back db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// TestBulkOverviewEmptyGroup covers spec scenario 1: GROUP returns a
// zero-article reply, no XOVER is issued, and the run exits cleanly.
func TestBulkOverviewEmptyGroup(t *testing.T) {
	srv := newFakeServer(t)
	defer srv.close()

	host, port := srv.addr()
	done := make(chan struct{})
	go func() {
		srv.accept()
		srv.send("200 server ready")
		srv.expect("GROUP misc.test")
		srv.send("211 0 0 0 misc.test")
		close(done)
	}()

	db := newFileStore(t)
	req := ingest.Request{
		Host:      host,
		Port:      port,
		Transport: ingest.TransportPlain,
		DB:        db,
		Group:     "misc.test",
		Fetch:     ingest.FetchBulkOverview,
		Workers:   1,
		Retries:   1,
	}

	if err := ingest.Run(context.Background(), req, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	<-done

	raw := openReadBack(t, db.DSN)

	var groupCount, groupFirst, groupLast int64
	if err := raw.QueryRow("SELECT article_count, first, last FROM groups WHERE name = ?", "misc.test").
		Scan(&groupCount, &groupFirst, &groupLast); err != nil {
		t.Fatalf("read back groups row: %v", err)
	}
	if groupCount != 0 || groupFirst != 0 || groupLast != 0 {
		t.Fatalf("expected groups row (misc.test, 0, 0, 0), got (%d, %d, %d)", groupCount, groupFirst, groupLast)
	}

	var articleRows int
	if err := raw.QueryRow("SELECT COUNT(*) FROM articles WHERE group_name = ?", "misc.test").Scan(&articleRows); err != nil {
		t.Fatalf("read back article count: %v", err)
	}
	if articleRows != 0 {
		t.Fatalf("expected zero article rows for an empty group, found %d", articleRows)
	}
}

// TestBulkOverviewThreeArticles covers spec scenario 2.
func TestBulkOverviewThreeArticles(t *testing.T) {
	srv := newFakeServer(t)
	defer srv.close()

	host, port := srv.addr()
	done := make(chan struct{})
	go func() {
		srv.accept()
		srv.send("200 server ready")
		srv.expect("GROUP test")
		srv.send("211 3 1 3 test")
		srv.expect("XOVER 1-3")
		srv.send("224 overview follows")
		srv.send("1\ta\tauth\tdate\t<1@x>\t\t10\t1")
		srv.send("2\tb\tauth\tdate\t<2@x>\t\t10\t1")
		srv.send("3\tc\tauth\tdate\t<3@x>\t\t10\t1")
		srv.send(".")
		close(done)
	}()

	db := newFileStore(t)
	req := ingest.Request{
		Host:      host,
		Port:      port,
		Transport: ingest.TransportPlain,
		DB:        db,
		Group:     "test",
		Fetch:     ingest.FetchBulkOverview,
		Workers:   1,
		Retries:   1,
	}

	if err := ingest.Run(context.Background(), req, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	<-done

	raw := openReadBack(t, db.DSN)

	rows, err := raw.Query("SELECT artnum, subject FROM articles WHERE group_name = ? ORDER BY artnum", "test")
	if err != nil {
		t.Fatalf("read back articles: %v", err)
	}
	defer rows.Close()

	wantSubjects := []string{"a", "b", "c"}
	var got int
	for rows.Next() {
		var artnum int64
		var subject string
		if err := rows.Scan(&artnum, &subject); err != nil {
			t.Fatalf("scan article row: %v", err)
		}
		if artnum != int64(got+1) {
			t.Fatalf("expected artnum %d at position %d, got %d", got+1, got, artnum)
		}
		if subject != wantSubjects[got] {
			t.Fatalf("expected subject %q for artnum %d, got %q", wantSubjects[got], artnum, subject)
		}
		got++
	}
	if got != 3 {
		t.Fatalf("expected exactly 3 article rows, found %d", got)
	}

	var groupCount, groupFirst, groupLast int64
	if err := raw.QueryRow("SELECT article_count, first, last FROM groups WHERE name = ?", "test").
		Scan(&groupCount, &groupFirst, &groupLast); err != nil {
		t.Fatalf("read back groups row: %v", err)
	}
	if groupCount != 3 || groupFirst != 1 || groupLast != 3 {
		t.Fatalf("expected groups row (test, 3, 1, 3), got (%d, %d, %d)", groupCount, groupFirst, groupLast)
	}
}

func TestRequestNormalizeDefaults(t *testing.T) {
	// checks the exported Request normalization defaults: Workers clamped
	// up to 1 and ProgressWidth defaulted to 40.
	req := ingest.Request{Workers: 0, ProgressWidth: 0}
	req.Normalize()

	if req.Workers != 1 {
		t.Fatalf("expected Workers clamped to 1, got %d", req.Workers)
	}
	if req.ProgressWidth != 40 {
		t.Fatalf("expected ProgressWidth defaulted to 40, got %d", req.ProgressWidth)
	}
}

func TestRunRejectsEmptyGroup(t *testing.T) {
	req := ingest.Request{DB: newMemStore(t)}
	if err := ingest.Run(context.Background(), req, nil); err == nil {
		t.Fatal("expected ErrorArgsError for empty group")
	}
}
