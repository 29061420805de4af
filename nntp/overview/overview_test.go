package overview_test

import (
	"testing"

	"github/sabouaram/golib/nntp/overview"
)

func TestParseLineFullRecord(t *testing.T) {
	line := "1\ta\tauthor@example.com\tMon, 01 Jan 2024\t<id1@example.com>\t<ref1@example.com>\t1234\t42\tXref: misc.test:1"

	r := overview.ParseLine(line)

	if r.ArtNum != 1 || r.Subject != "a" || r.Author != "author@example.com" {
		t.Fatalf("unexpected record: %+v", r)
	}
	if r.Bytes != 1234 || r.Lines != 42 {
		t.Fatalf("unexpected numeric fields: %+v", r)
	}
}

func TestParseLineMissingFields(t *testing.T) {
	r := overview.ParseLine("2\tsubject")

	if r.ArtNum != 2 || r.Subject != "subject" {
		t.Fatalf("unexpected record: %+v", r)
	}
	if r.Author != "" || r.Bytes != 0 || r.Lines != 0 {
		t.Fatalf("expected zero-value defaults: %+v", r)
	}
}

func TestParseLineNonNumeric(t *testing.T) {
	r := overview.ParseLine("notanumber\tsubj\ta\td\tm\tr\tbad\tbad")
	if r.ArtNum != 0 || r.Bytes != 0 || r.Lines != 0 {
		t.Fatalf("expected 0 for non-numeric fields: %+v", r)
	}
}

func TestJoinParseRoundTrip(t *testing.T) {
	want := overview.Record{
		ArtNum:     3,
		Subject:    "c",
		Author:     "someone@example.com",
		Date:       "Wed, 03 Jan 2024",
		MessageID:  "<id3@example.com>",
		References: "<ref3@example.com>",
		Bytes:      999,
		Lines:      10,
	}

	got := overview.ParseLine(overview.Join(want))
	if got != want {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
	}
}
