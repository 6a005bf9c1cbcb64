// Package stream implements the binary framing shared by the import cache
// metadata and the brawl module-interface format: length-prefixed strings,
// unsigned varints and fixed 64-bit little-endian integers.
package stream

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrVarUintOverflow is returned when a varint does not fit in 64 bits.
var ErrVarUintOverflow = errors.New("varuint overflows 64 bits")

// maxStringLen bounds a single string so a corrupted length prefix cannot
// trigger a huge allocation.
const maxStringLen = 1 << 26

type Writer struct {
	w   *bufio.Writer
	buf [binary.MaxVarintLen64]byte
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) write(p []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(p)
}

func (w *Writer) WriteVarUint(v uint64) {
	n := binary.PutUvarint(w.buf[:], v)
	w.write(w.buf[:n])
}

func (w *Writer) WriteUint64(v uint64) {
	binary.LittleEndian.PutUint64(w.buf[:8], v)
	w.write(w.buf[:8])
}

func (w *Writer) WriteString(s string) {
	w.WriteVarUint(uint64(len(s)))
	if w.err != nil {
		return
	}
	_, w.err = w.w.WriteString(s)
}

// Flush pushes buffered bytes to the underlying writer and returns the
// first error seen by any write.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

type Reader struct {
	r *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return &Reader{r: br}
	}
	return &Reader{r: bufio.NewReader(r)}
}

// byteReader remembers the last error of the underlying reader, so a
// decoding failure can be told apart from a failed read.
type byteReader struct {
	r   *bufio.Reader
	err error
}

func (b *byteReader) ReadByte() (byte, error) {
	c, err := b.r.ReadByte()
	if err != nil {
		b.err = err
	}
	return c, err
}

func (r *Reader) ReadVarUint() (uint64, error) {
	br := byteReader{r: r.r}
	v, err := binary.ReadUvarint(&br)
	switch {
	case err == nil:
		return v, nil
	case br.err == nil:
		return 0, ErrVarUintOverflow
	case errors.Is(err, io.EOF):
		return 0, io.ErrUnexpectedEOF
	default:
		return 0, err
	}
}

func (r *Reader) ReadUint64() (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, io.ErrUnexpectedEOF
		}
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadVarUint()
	if err != nil {
		return "", err
	}
	if n > maxStringLen {
		return "", fmt.Errorf("string length %d exceeds limit", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		if errors.Is(err, io.EOF) {
			return "", io.ErrUnexpectedEOF
		}
		return "", err
	}
	return string(buf), nil
}

// AtEOF reports whether the stream has no more bytes.
func (r *Reader) AtEOF() bool {
	_, err := r.r.Peek(1)
	return err != nil
}
