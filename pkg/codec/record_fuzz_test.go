//go:build fuzz
// +build fuzz

package codec

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// FuzzRecordReader checks that every stream is consumed in whole records
// followed by either io.EOF or a single truncated record
func FuzzRecordReader(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("NUM_OREC"))
	f.Add(bytes.Repeat([]byte{0xFF}, 33))

	f.Fuzz(func(t *testing.T, data []byte) {
		rr := NewRecordReader(bytes.NewReader(data))
		full := 0
		for {
			_, err := rr.Next()
			if err == nil {
				full++
				continue
			}
			var trunc *TruncatedRecordError
			switch {
			case err == io.EOF:
				if len(data)%RecordSize != 0 {
					t.Fatalf("EOF with %d trailing bytes", len(data)%RecordSize)
				}
			case errors.As(err, &trunc):
				if trunc.Read != len(data)%RecordSize {
					t.Fatalf("Read = %d, want %d", trunc.Read, len(data)%RecordSize)
				}
			default:
				t.Fatalf("unexpected error: %v", err)
			}
			break
		}
		if full != len(data)/RecordSize {
			t.Fatalf("read %d records, want %d", full, len(data)/RecordSize)
		}
		if rr.Offset() != int64(full*RecordSize) {
			t.Fatalf("Offset = %d, want %d", rr.Offset(), full*RecordSize)
		}
	})
}

func FuzzDecodeText(f *testing.F) {
	f.Add([]byte("SECONDS "))
	f.Add([]byte{0, 0, 0xE9, 0})

	f.Fuzz(func(t *testing.T, data []byte) {
		s := DecodeText(data)
		if len(s) > 2*len(data) {
			t.Fatalf("decoded text longer than possible: %q", s)
		}
	})
}
