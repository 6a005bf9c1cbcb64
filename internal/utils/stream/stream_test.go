package stream

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"
)

func TestWriterReaderFraming(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteString("stdio.h")
	w.WriteVarUint(0)
	w.WriteVarUint(300)
	w.WriteVarUint(math.MaxUint64)
	w.WriteUint64(1700000000123456789)
	w.WriteString("")
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	r := NewReader(&buf)
	if s, err := r.ReadString(); err != nil || s != "stdio.h" {
		t.Fatalf("ReadString = %q, %v", s, err)
	}
	for _, want := range []uint64{0, 300, math.MaxUint64} {
		if v, err := r.ReadVarUint(); err != nil || v != want {
			t.Fatalf("ReadVarUint = %d, %v; want %d", v, err, want)
		}
	}
	if v, err := r.ReadUint64(); err != nil || v != 1700000000123456789 {
		t.Fatalf("ReadUint64 = %d, %v", v, err)
	}
	if s, err := r.ReadString(); err != nil || s != "" {
		t.Fatalf("ReadString = %q, %v", s, err)
	}
	if !r.AtEOF() {
		t.Error("expected end of stream")
	}
}

func TestUint64IsFixedWidth(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteUint64(1)
	w.Flush()
	if buf.Len() != 8 {
		t.Errorf("expected 8 bytes, got %d", buf.Len())
	}
}

func TestTruncatedInput(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteString("a-long-header-name.h")
	w.Flush()

	truncated := buf.Bytes()[:5]

	tests := []struct {
		name string
		read func(r *Reader) error
	}{
		{"string", func(r *Reader) error { _, err := r.ReadString(); return err }},
		{"uint64", func(r *Reader) error { _, err := r.ReadUint64(); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.read(NewReader(bytes.NewReader(truncated)))
			if !errors.Is(err, io.ErrUnexpectedEOF) {
				t.Errorf("expected io.ErrUnexpectedEOF, got %v", err)
			}
		})
	}

	if _, err := NewReader(bytes.NewReader(nil)).ReadVarUint(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected io.ErrUnexpectedEOF on empty input, got %v", err)
	}
}

func TestVarUintOverflow(t *testing.T) {
	bad := bytes.Repeat([]byte{0xff}, 11)
	if _, err := NewReader(bytes.NewReader(bad)).ReadVarUint(); !errors.Is(err, ErrVarUintOverflow) {
		t.Errorf("expected ErrVarUintOverflow, got %v", err)
	}
}

// failingReader yields its bytes and then fails with err.
type failingReader struct {
	data []byte
	err  error
}

func (f *failingReader) Read(p []byte) (int, error) {
	if len(f.data) == 0 {
		return 0, f.err
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}

func TestVarUintReadErrors(t *testing.T) {
	diskErr := errors.New("disk unplugged")

	tests := []struct {
		name    string
		reader  io.Reader
		wantErr error
	}{
		{"truncated", bytes.NewReader([]byte{0x80, 0x80}), io.ErrUnexpectedEOF},
		{"empty", bytes.NewReader(nil), io.ErrUnexpectedEOF},
		{"reader fails mid value", &failingReader{data: []byte{0x80}, err: diskErr}, diskErr},
		{"reader fails at start", &failingReader{err: diskErr}, diskErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(tt.reader).ReadVarUint()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
			if errors.Is(err, ErrVarUintOverflow) {
				t.Error("read failure reported as overflow")
			}
		})
	}
}
