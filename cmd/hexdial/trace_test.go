package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hexdial/pkg/picker"
)

func TestSettleTrace_HeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	tr := newSettleTrace(&buf)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := tr.Record(picker.Selection{Index: 4, Angle: 4.1888, At: at}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := tr.Record(picker.Selection{Index: 5, Angle: 5.236, At: at.Add(time.Second)}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %q", buf.String())
	}
	if lines[0] != "time,tile,label,angle" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2026-03-01T12:00:00Z,4,5,") {
		t.Errorf("row 1 = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "2026-03-01T12:00:01Z,5,6,") {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestOpenSettleTrace_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settles.csv")

	for i := 0; i < 2; i++ {
		tr, err := openSettleTrace(path)
		if err != nil {
			t.Fatalf("openSettleTrace: %v", err)
		}
		if err := tr.Record(picker.Selection{Index: i, At: time.Unix(1000, 0)}); err != nil {
			t.Fatalf("Record: %v", err)
		}
		if err := tr.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read trace: %v", err)
	}
	if n := strings.Count(string(b), "time,tile,label,angle"); n != 1 {
		t.Errorf("expected one header, found %d in %q", n, b)
	}
	if n := strings.Count(strings.TrimSpace(string(b)), "\n"); n != 2 {
		t.Errorf("expected 3 lines, got %q", b)
	}
}

func TestSettleTrace_Disabled(t *testing.T) {
	tr, err := openSettleTrace("")
	if err != nil || tr != nil {
		t.Fatalf("expected nil trace for empty path, got %v, %v", tr, err)
	}
	if err := tr.Record(picker.Selection{}); err != nil {
		t.Errorf("Record on nil trace: %v", err)
	}
	if err := tr.Close(); err != nil {
		t.Errorf("Close on nil trace: %v", err)
	}
}
