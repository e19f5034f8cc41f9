// Package codec provides the record-level primitives for reading NTv2 style
// grid shift files (".gsb").
//
// A grid shift file is a flat sequence of fixed 16-byte records. Every record
// carries an 8-byte key region followed by an 8-byte value region, except for
// shift records which pack four 32-bit floats into the full 16 bytes.
//
// # Record Format
//
// Header records:
//
//	[Key(8)][Value(8)]
//
// Fields:
//   - Key: Latin-1 field name, padded with spaces or NUL bytes
//   - Value: one of text (Latin-1), int32 (first 4 bytes, little-endian),
//     uint32 (first 4 bytes, little-endian) or float64 (little-endian)
//
// Shift records:
//
//	[LatShift(4)][LonShift(4)][LatAccuracy(4)][LonAccuracy(4)]
//
// All four are little-endian IEEE-754 float32. Shifts are stored in
// arc-seconds and decoded to degrees; accuracies are left as stored.
//
// # Field Decoding
//
// The interpretation of a value region depends only on the field name and on
// whether the record belongs to the overview header or to a sub-grid header.
// Both rule sets are static tables (see MainHeaderRule and SubGridRule), so
// decoding never branches on string content outside of the table lookup.
//
// # Usage
//
//	rr := codec.NewRecordReader(f)
//	for {
//	    rec, err := rr.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err // *TruncatedRecordError or an I/O error
//	    }
//	    v := codec.DecodeHeaderValue(rec.KeyText(), rec.Value())
//	    fmt.Println(rec.KeyText(), v)
//	}
//
// # Thread Safety
//
// RecordReader is not safe for concurrent use. Values and Shift structs are
// immutable and safe to share.
package codec
