// Package gridtest builds synthetic grid shift files for tests.
package gridtest

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// Builder appends 16-byte records to an in-memory grid file
type Builder struct {
	buf bytes.Buffer
}

// New creates an empty builder
func New() *Builder {
	return &Builder{}
}

func (b *Builder) record(key string, value []byte) *Builder {
	rec := bytes.Repeat([]byte{' '}, 16)
	copy(rec[:8], key)
	copy(rec[8:], make([]byte, 8))
	copy(rec[8:], value)
	b.buf.Write(rec)
	return b
}

// Int32 appends a little-endian int32 record
func (b *Builder) Int32(key string, v int32) *Builder {
	value := make([]byte, 8)
	binary.LittleEndian.PutUint32(value, uint32(v))
	return b.record(key, value)
}

// Uint32 appends a little-endian uint32 record
func (b *Builder) Uint32(key string, v uint32) *Builder {
	value := make([]byte, 8)
	binary.LittleEndian.PutUint32(value, v)
	return b.record(key, value)
}

// Float64 appends a little-endian float64 record
func (b *Builder) Float64(key string, v float64) *Builder {
	value := make([]byte, 8)
	binary.LittleEndian.PutUint64(value, math.Float64bits(v))
	return b.record(key, value)
}

// Text appends a space-padded text record
func (b *Builder) Text(key, v string) *Builder {
	value := bytes.Repeat([]byte{' '}, 8)
	copy(value, v)
	return b.record(key, value)
}

// Shift appends a shift record, values in arc-seconds
func (b *Builder) Shift(dlat, dlon, accLat, accLon float32) *Builder {
	rec := make([]byte, 16)
	binary.LittleEndian.PutUint32(rec[0:], math.Float32bits(dlat))
	binary.LittleEndian.PutUint32(rec[4:], math.Float32bits(dlon))
	binary.LittleEndian.PutUint32(rec[8:], math.Float32bits(accLat))
	binary.LittleEndian.PutUint32(rec[12:], math.Float32bits(accLon))
	b.buf.Write(rec)
	return b
}

// Raw appends arbitrary bytes
func (b *Builder) Raw(p []byte) *Builder {
	b.buf.Write(p)
	return b
}

// Overview appends a standard 11-record overview header
func (b *Builder) Overview(numFile int32) *Builder {
	return b.Int32("NUM_OREC", 11).
		Int32("NUM_SREC", 11).
		Int32("NUM_FILE", numFile).
		Text("GS_TYPE", "SECONDS").
		Text("VERSION", "IBGE").
		Text("SYSTEM_F", "SAD69").
		Text("SYSTEM_T", "SIRGAS").
		Float64("MAJOR_F", 6378160.0).
		Float64("MINOR_F", 6356774.719).
		Float64("MAJOR_T", 6378137.0).
		Float64("MINOR_T", 6356752.314)
}

// SubGrid describes one sub-grid. Bounds and increments are arc-seconds.
type SubGrid struct {
	Name    string
	Parent  string
	Created string
	Updated string
	SLat    float64
	NLat    float64
	WLon    float64
	ELon    float64
	LatInc  float64
	LonInc  float64
	Shifts  [][4]float32
}

// SubGrid appends a sub-grid header with GS_COUNT = len(sg.Shifts) and its shifts
func (b *Builder) SubGrid(sg SubGrid) *Builder {
	b.SubGridHeader(sg, uint32(len(sg.Shifts)))
	for _, s := range sg.Shifts {
		b.Shift(s[0], s[1], s[2], s[3])
	}
	return b
}

// SubGridHeader appends only the 11 header records with an explicit GS_COUNT
func (b *Builder) SubGridHeader(sg SubGrid, count uint32) *Builder {
	return b.Text("SUB_NAME", sg.Name).
		Text("PARENT", sg.Parent).
		Text("CREATED", sg.Created).
		Text("UPDATED", sg.Updated).
		Float64("S_LAT", sg.SLat).
		Float64("N_LAT", sg.NLat).
		Float64("W_LON", sg.WLon).
		Float64("E_LON", sg.ELon).
		Float64("LAT_INC", sg.LatInc).
		Float64("LON_INC", sg.LonInc).
		Uint32("GS_COUNT", count)
}

// Bytes returns the file contents
func (b *Builder) Bytes() []byte {
	out := make([]byte, b.buf.Len())
	copy(out, b.buf.Bytes())
	return out
}

// WriteFile writes the file into dir and returns its path
func (b *Builder) WriteFile(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b.Bytes(), 0600); err != nil {
		t.Fatalf("write grid fixture: %v", err)
	}
	return path
}

// Sample returns a two sub-grid file: a parent "BRASIL" with four nodes and
// a child "RIO" with two nodes
func Sample() *Builder {
	return New().Overview(2).
		SubGrid(SubGrid{
			Name: "BRASIL", Parent: "NONE", Created: "20050101", Updated: "20050101",
			SLat: -122400, NLat: 18000, WLon: 266400, ELon: 104400,
			LatInc: 3600, LonInc: 3600,
			Shifts: [][4]float32{
				{1800, -1800, 0.05, 0.05},
				{3600, 3600, 0.1, 0.1},
				{0, 0, 0, 0},
				{-900, 900, 0.2, 0.2},
			},
		}).
		SubGrid(SubGrid{
			Name: "RIO", Parent: "BRASIL", Created: "20050101", Updated: "20050101",
			SLat: -82800, NLat: -79200, WLon: 158400, ELon: 154800,
			LatInc: 1800, LonInc: 1800,
			Shifts: [][4]float32{
				{7200, 0, 1, 1},
				{0, 7200, 1, 1},
			},
		})
}
