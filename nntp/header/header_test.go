package header_test

import (
	"testing"

	"github/sabouaram/golib/nntp/header"
)

func TestParseBasicFields(t *testing.T) {
	lines := []string{
		"Subject: hello world",
		"From: someone@example.com",
		"Date: Mon, 01 Jan 2024 00:00:00 +0000",
		"Message-ID: <abc@example.com>",
		"References: <parent@example.com>",
		"Bytes: 1024",
		"Lines: 20",
	}

	f := header.Parse(lines)

	if f.Subject != "hello world" || f.From != "someone@example.com" {
		t.Fatalf("unexpected fields: %+v", f)
	}
	if f.Bytes != 1024 || f.Lines != 20 {
		t.Fatalf("unexpected numeric fields: %+v", f)
	}
}

func TestParseFoldedContinuation(t *testing.T) {
	lines := []string{
		"Subject: first part",
		" second part",
		"From: a@example.com",
	}

	f := header.Parse(lines)
	if f.Subject != "first part second part" {
		t.Fatalf("got subject %q", f.Subject)
	}
}

func TestParseUnknownHeaderIgnored(t *testing.T) {
	lines := []string{
		"X-Custom: whatever",
		"Subject: kept",
	}

	f := header.Parse(lines)
	if f.Subject != "kept" {
		t.Fatalf("got %+v", f)
	}
}

func TestParseMissingDefaults(t *testing.T) {
	f := header.Parse(nil)
	if f.Subject != "" || f.Bytes != 0 || f.Lines != 0 {
		t.Fatalf("expected zero value defaults: %+v", f)
	}
}

func TestParseCaseInsensitiveNames(t *testing.T) {
	f := header.Parse([]string{"SUBJECT: shout"})
	if f.Subject != "shout" {
		t.Fatalf("got %+v", f)
	}
}
