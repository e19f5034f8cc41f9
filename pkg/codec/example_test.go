package codec_test

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"math"

	"github.com/ssargent/gsbgrid/pkg/codec"
)

// ExampleRecordReader demonstrates walking header records
func ExampleRecordReader() {
	var buf bytes.Buffer

	rec := make([]byte, codec.RecordSize)
	copy(rec, "NUM_FILE")
	binary.LittleEndian.PutUint32(rec[8:], 2)
	buf.Write(rec)

	rec = make([]byte, codec.RecordSize)
	copy(rec, "MAJOR_F ")
	binary.LittleEndian.PutUint64(rec[8:], math.Float64bits(6378137.0))
	buf.Write(rec)

	rr := codec.NewRecordReader(&buf)
	for {
		r, err := rr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s = %s\n", r.KeyText(), codec.DecodeHeaderValue(r.KeyText(), r.Value()))
	}

	// Output:
	// NUM_FILE = 2
	// MAJOR_F = 6.378137e+06
}

// ExampleDecodeShift demonstrates decoding a shift record
func ExampleDecodeShift() {
	var rec codec.Record
	binary.LittleEndian.PutUint32(rec[0:], math.Float32bits(1800))
	binary.LittleEndian.PutUint32(rec[4:], math.Float32bits(-900))
	binary.LittleEndian.PutUint32(rec[8:], math.Float32bits(0.05))
	binary.LittleEndian.PutUint32(rec[12:], math.Float32bits(0.05))

	s := codec.DecodeShift(rec)
	fmt.Printf("lat %.4f lon %.4f\n", s.LatShift, s.LonShift)

	// Output:
	// lat 0.5000 lon -0.2500
}
