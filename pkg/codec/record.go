package codec

import (
	"bufio"
	"fmt"
	"io"
)

const (
	RecordSize = 16 // Size of every record in a grid shift file
	KeySize    = 8  // Size of the key region of a header record
	ValueSize  = 8  // Size of the value region of a header record
)

// Record is one fixed-size chunk of a grid shift file
type Record [RecordSize]byte

// Key returns the 8-byte key region
func (r Record) Key() [KeySize]byte {
	var k [KeySize]byte
	copy(k[:], r[:KeySize])
	return k
}

// Value returns the 8-byte value region
func (r Record) Value() [ValueSize]byte {
	var v [ValueSize]byte
	copy(v[:], r[KeySize:])
	return v
}

// KeyText returns the key region as trimmed Latin-1 text
func (r Record) KeyText() string {
	return DecodeText(r[:KeySize])
}

// TruncatedRecordError reports a short final record
type TruncatedRecordError struct {
	Offset int64 // Byte offset where the short record starts
	Read   int   // Number of bytes actually available (1..15)
}

func (e *TruncatedRecordError) Error() string {
	return fmt.Sprintf("truncated record at offset %d: read %d of %d bytes", e.Offset, e.Read, RecordSize)
}

// RecordReader provides sequential access to the 16-byte records of a grid file
type RecordReader struct {
	reader *bufio.Reader
	offset int64
}

// NewRecordReader creates a record reader over r
func NewRecordReader(r io.Reader) *RecordReader {
	return &RecordReader{reader: bufio.NewReader(r)}
}

// Next reads the next record. It returns io.EOF when no bytes remain and a
// *TruncatedRecordError when the stream ends inside a record.
func (r *RecordReader) Next() (Record, error) {
	var rec Record
	n, err := io.ReadFull(r.reader, rec[:])
	if err != nil {
		if err == io.EOF {
			return rec, io.EOF
		}
		if err == io.ErrUnexpectedEOF {
			return rec, &TruncatedRecordError{Offset: r.offset, Read: n}
		}
		return rec, err
	}
	r.offset += int64(n)
	return rec, nil
}

// Offset returns the number of bytes consumed so far
func (r *RecordReader) Offset() int64 {
	return r.offset
}
