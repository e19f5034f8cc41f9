// Package inspect dumps the raw records of a grid shift file for low-level
// debugging. Every record's value region is shown under several
// interpretations so that undocumented fields can be identified by eye.
package inspect

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/ssargent/gsbgrid/pkg/codec"
)

const separator = "--------------------------------------------------"

// Options controls a dump
type Options struct {
	Limit int // Stop after this many records (0 = no limit)
}

// Stats summarizes a dump
type Stats struct {
	Records  int  // Complete records printed
	Trailing int  // Bytes of an incomplete final record
	Limited  bool // The dump stopped at Options.Limit
}

// Interpretation is one record's value region decoded several ways
type Interpretation struct {
	Offset   int64
	Raw      codec.Record
	Key      string
	DoubleLE float64
	Int64LE  int64
	DoubleBE float64
	Int64BE  int64
}

// Interpret decodes a record at offset
func Interpret(offset int64, rec codec.Record) Interpretation {
	key := rec.Key()
	value := rec.Value()
	return Interpretation{
		Offset:   offset,
		Raw:      rec,
		Key:      codec.DecodeLatin1(key[:]),
		DoubleLE: math.Float64frombits(binary.LittleEndian.Uint64(value[:])),
		Int64LE:  int64(binary.LittleEndian.Uint64(value[:])),
		DoubleBE: math.Float64frombits(binary.BigEndian.Uint64(value[:])),
		Int64BE:  int64(binary.BigEndian.Uint64(value[:])),
	}
}

// Dump writes one block per record of r to w
func Dump(w io.Writer, r io.Reader, opts Options) (Stats, error) {
	var stats Stats
	rr := codec.NewRecordReader(r)

	for {
		if opts.Limit > 0 && stats.Records >= opts.Limit {
			stats.Limited = true
			fmt.Fprintf(w, "--- stopped after %d records ---\n", stats.Records)
			return stats, nil
		}

		offset := rr.Offset()
		rec, err := rr.Next()
		if err == io.EOF {
			fmt.Fprintln(w, "--- end of file ---")
			return stats, nil
		}
		var trunc *codec.TruncatedRecordError
		if errors.As(err, &trunc) {
			stats.Trailing = trunc.Read
			fmt.Fprintf(w, "incomplete final record (size %d): %s\n", trunc.Read, spacedHex(rec[:trunc.Read]))
			return stats, nil
		}
		if err != nil {
			return stats, fmt.Errorf("read record at offset %d: %w", offset, err)
		}

		writeRecord(w, Interpret(offset, rec))
		stats.Records++
	}
}

func writeRecord(w io.Writer, in Interpretation) {
	value := in.Raw.Value()
	fmt.Fprintf(w, "--- record at offset %d (0x%X) ---\n", in.Offset, in.Offset)
	fmt.Fprintf(w, "  [raw hex]         : %s\n", spacedHex(in.Raw[:]))
	fmt.Fprintf(w, "  [text]  key       : '%s'\n", in.Key)
	fmt.Fprintf(w, "  > value (hex)     : %s\n", spacedHex(value[:]))
	fmt.Fprintf(w, "    - double (le)   : %v\n", in.DoubleLE)
	fmt.Fprintf(w, "    - int64 (le)    : %d\n", in.Int64LE)
	fmt.Fprintf(w, "    - double (be)   : %v\n", in.DoubleBE)
	fmt.Fprintf(w, "    - int64 (be)    : %d\n", in.Int64BE)
	fmt.Fprintln(w, separator)
}

func spacedHex(b []byte) string {
	parts := make([]string, len(b))
	for i := range b {
		parts[i] = hex.EncodeToString(b[i : i+1])
	}
	return strings.Join(parts, " ")
}
