package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gocarina/gocsv"

	"hexdial/pkg/picker"
)

// settleRecord is one row of the settle trace.
type settleRecord struct {
	Time  string  `csv:"time"`
	Tile  int     `csv:"tile"`
	Label string  `csv:"label"`
	Angle float64 `csv:"angle"`
}

// settleTrace appends settle events to a CSV file. A nil *settleTrace is a
// disabled trace.
type settleTrace struct {
	w      io.Writer
	closer io.Closer

	headerWritten bool
}

// openSettleTrace opens (or creates) path for appending. Returns nil if path is
// empty (tracing disabled).
func openSettleTrace(path string) (*settleTrace, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.OpenFile(ExpandPath(path), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open settle trace: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat settle trace: %w", err)
	}

	t := newSettleTrace(f)
	t.closer = f
	// Appending to an existing trace: the header is already there.
	t.headerWritten = st.Size() > 0
	return t, nil
}

func newSettleTrace(w io.Writer) *settleTrace {
	return &settleTrace{w: w}
}

// Record writes one settle.
func (t *settleTrace) Record(sel picker.Selection) error {
	if t == nil {
		return nil
	}

	records := []settleRecord{{
		Time:  sel.At.UTC().Format(time.RFC3339Nano),
		Tile:  sel.Index,
		Label: tileLabel(sel.Index),
		Angle: sel.Angle,
	}}

	if !t.headerWritten {
		if err := gocsv.Marshal(records, t.w); err != nil {
			return fmt.Errorf("writing settle trace: %w", err)
		}
		t.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, t.w); err != nil {
		return fmt.Errorf("writing settle trace: %w", err)
	}
	return nil
}

// Close closes the underlying file, if any.
func (t *settleTrace) Close() error {
	if t == nil || t.closer == nil {
		return nil
	}
	return t.closer.Close()
}
