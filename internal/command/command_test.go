package command

import (
	"errors"
	"testing"
)

func TestResultConstructors(t *testing.T) {
	if r := OK("saved"); r.Status != StatusOK || r.String() != "saved" {
		t.Fatalf("OK = %#v", r)
	}
	if r := Cancelled(); r.Status != StatusCancelled {
		t.Fatalf("Cancelled status = %v", r.Status)
	}
	r := NotImplemented("Print")
	if r.Status != StatusNotImplemented {
		t.Fatalf("NotImplemented status = %v", r.Status)
	}
	if r.String() != "Print: not implemented" {
		t.Fatalf("NotImplemented message = %q", r.String())
	}
	err := errors.New("disk full")
	r = Failed(err)
	if r.Status != StatusFailed || !errors.Is(r.Err, err) || r.Message != "disk full" {
		t.Fatalf("Failed = %#v", r)
	}
}

func TestKnown(t *testing.T) {
	for _, id := range All {
		if !Known(id) {
			t.Fatalf("Known(%q) = false", id)
		}
	}
	if Known("file_format_disk") {
		t.Fatalf("Known accepted an unknown id")
	}
}

func TestStatusString(t *testing.T) {
	if got := StatusNotImplemented.String(); got != "not implemented" {
		t.Fatalf("String = %q", got)
	}
	if got := Status(42).String(); got != "status(42)" {
		t.Fatalf("String = %q", got)
	}
}
