package wire_test

import (
	"net"
	"strings"
	"testing"

	"github/sabouaram/golib/nntp/wire"
)

func pipe() (client, server net.Conn) {
	return net.Pipe()
}

func TestReadLine(t *testing.T) {
	c, s := pipe()
	defer c.Close()
	defer s.Close()

	go func() {
		_, _ = s.Write([]byte("211 3 1 3 test\r\n"))
	}()

	f := wire.New(c)
	line, err := f.ReadLine()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line != "211 3 1 3 test" {
		t.Fatalf("got %q", line)
	}
}

func TestReadLineClosed(t *testing.T) {
	c, s := pipe()
	defer c.Close()

	go func() { _ = s.Close() }()

	f := wire.New(c)
	if _, err := f.ReadLine(); err == nil {
		t.Fatalf("expected error on closed transport")
	}
}

func TestReadMultilineDotUnstuffing(t *testing.T) {
	c, s := pipe()
	defer c.Close()
	defer s.Close()

	go func() {
		_, _ = s.Write([]byte("Subject: hi\r\n..leading dot\r\nplain\r\n.\r\n"))
	}()

	f := wire.New(c)
	lines, err := f.ReadMultiline()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"Subject: hi", ".leading dot", "plain"}
	if len(lines) != len(want) {
		t.Fatalf("got %v", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: got %q want %q", i, lines[i], want[i])
		}
	}
}

func TestSendfAppendsCRLF(t *testing.T) {
	c, s := pipe()
	defer c.Close()
	defer s.Close()

	done := make(chan string, 1)
	go func() {
		buf := make([]byte, 64)
		n, _ := s.Read(buf)
		done <- string(buf[:n])
	}()

	f := wire.New(c)
	if err := f.Sendf("GROUP %s", "misc.test"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := <-done
	if !strings.HasSuffix(got, "\r\n") || !strings.HasPrefix(got, "GROUP misc.test") {
		t.Fatalf("got %q", got)
	}
}

func TestSendfNoDoubleCRLF(t *testing.T) {
	c, s := pipe()
	defer c.Close()
	defer s.Close()

	done := make(chan string, 1)
	go func() {
		buf := make([]byte, 64)
		n, _ := s.Read(buf)
		done <- string(buf[:n])
	}()

	f := wire.New(c)
	if err := f.Sendf("STARTTLS\r\n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := <-done
	if got != "STARTTLS\r\n" {
		t.Fatalf("got %q", got)
	}
}
