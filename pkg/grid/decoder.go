package grid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ssargent/gsbgrid/pkg/codec"
)

// maxPrealloc caps the shift slice capacity taken from GS_COUNT before the
// records have actually been read
const maxPrealloc = 1 << 16

// Observer receives decode statistics
type Observer interface {
	RecordsRead(n int)
	SubGridDecoded(name string, shifts int)
	DecodeFinished(d time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) RecordsRead(int)                     {}
func (nopObserver) SubGridDecoded(string, int)          {}
func (nopObserver) DecodeFinished(time.Duration, error) {}

type options struct {
	logger   *slog.Logger
	observer Observer
}

// Option configures Decode
type Option func(*options)

// WithLogger sets the logger used for progress and warnings
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver sets the decode statistics observer
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// DecodeFile opens path and decodes it. The file is closed on every path.
func DecodeFile(path string, opts ...Option) (*GridFile, error) {
	f, err := os.Open(path)
	if err != nil {
		derr := &DecodeError{Kind: ErrInvalidFile, SubGrid: -1, Err: err}
		newOptions(opts).observer.DecodeFinished(0, derr)
		return nil, derr
	}
	defer f.Close()

	return Decode(f, opts...)
}

func newOptions(opts []Option) options {
	o := options{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Decode reads a complete grid file from r in one forward pass. Any
// truncation aborts the decode; no partial tree is returned.
func Decode(r io.Reader, opts ...Option) (*GridFile, error) {
	o := newOptions(opts)

	start := time.Now()
	d := &decoder{
		rr:   codec.NewRecordReader(r),
		log:  o.logger,
		grid: &GridFile{Header: NewHeaderMap(), SubGrids: []*SubGrid{}},
	}

	err := d.decode(o.observer)
	o.observer.RecordsRead(int(d.rr.Offset() / codec.RecordSize))
	o.observer.DecodeFinished(time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return d.grid, nil
}

type decoder struct {
	rr   *codec.RecordReader
	log  *slog.Logger
	grid *GridFile
}

func (d *decoder) decode(obs Observer) error {
	count, err := d.readCount()
	if err != nil {
		return err
	}
	if err := d.readFields(count); err != nil {
		return err
	}

	numFile, err := d.checkCounts()
	if err != nil {
		return err
	}

	for i := 0; i < numFile; i++ {
		sg, err := d.readSubGrid(i, numFile)
		if err != nil {
			return err
		}
		d.grid.SubGrids = append(d.grid.SubGrids, sg)
		obs.SubGridDecoded(sg.Name(), len(sg.Shifts))
	}

	d.log.Debug("grid decoded",
		"sub_grids", len(d.grid.SubGrids),
		"shifts", d.grid.ShiftCount(),
		"bytes", d.rr.Offset())
	return nil
}

// next reads one record. A short or missing record is reported as the
// number of bytes available plus the original error.
func (d *decoder) next() (codec.Record, int, error) {
	rec, err := d.rr.Next()
	if err == nil {
		return rec, codec.RecordSize, nil
	}
	var trunc *codec.TruncatedRecordError
	if errors.As(err, &trunc) {
		return rec, trunc.Read, err
	}
	return rec, 0, err
}

// shortRead builds the error for a record that could not be read in full.
// Faults other than end of stream become ErrDecodeFailure.
func (d *decoder) shortRead(kind *GridError, read int, err error) *DecodeError {
	var trunc *codec.TruncatedRecordError
	if err != io.EOF && !errors.As(err, &trunc) {
		kind = ErrDecodeFailure
	}
	return &DecodeError{
		Kind:    kind,
		Offset:  d.rr.Offset(),
		Read:    read,
		SubGrid: -1,
		Err:     err,
	}
}

func (d *decoder) warn(msg string, args ...interface{}) {
	w := Warning{
		Kind:    WarnHeaderMismatch,
		Offset:  d.rr.Offset(),
		Message: fmt.Sprintf(msg, args...),
	}
	d.grid.Warnings = append(d.grid.Warnings, w)
	d.log.Warn(w.Message, "kind", string(w.Kind), "offset", w.Offset)
}

// readCount reads the first record and returns NUM_OREC
func (d *decoder) readCount() (int, error) {
	rec, read, err := d.next()
	if err != nil {
		e := d.shortRead(ErrInvalidFile, read, err)
		if e.Kind == ErrInvalidFile {
			if read == 0 {
				e.Detail = "file is empty"
			} else {
				e.Detail = "first record is incomplete"
			}
		}
		return 0, e
	}

	if key := rec.KeyText(); key != KeyNumORec {
		d.warn("first record key is %q, expected %s", key, KeyNumORec)
	}

	count := int32(binary.LittleEndian.Uint32(rec[codec.KeySize : codec.KeySize+4]))
	if count < 1 {
		return 0, &DecodeError{
			Kind:    ErrInvalidFile,
			SubGrid: -1,
			Detail:  fmt.Sprintf("%s must be at least 1, got %d", KeyNumORec, count),
		}
	}
	d.grid.Header.Set(KeyNumORec, codec.Int32Value(count))
	return int(count), nil
}

// readFields reads the remaining count-1 overview records
func (d *decoder) readFields(count int) error {
	for i := 1; i < count; i++ {
		rec, read, err := d.next()
		if err != nil {
			e := d.shortRead(ErrTruncatedHeader, read, err)
			e.Index = i + 1
			e.Count = count
			return e
		}

		key := rec.KeyText()
		if key == KeyNumORec {
			d.warn("repeated %s record ignored", KeyNumORec)
			continue
		}
		d.grid.Header.Set(key, codec.DecodeHeaderValue(key, rec.Value()))
	}
	return nil
}

// checkCounts validates NUM_FILE and NUM_SREC and returns the sub-grid count
func (d *decoder) checkCounts() (int, error) {
	h := d.grid.Header

	if n, ok := h.Int(KeyNumSRec); ok {
		if n < 0 {
			return 0, &DecodeError{
				Kind:    ErrInvalidFile,
				SubGrid: -1,
				Detail:  fmt.Sprintf("%s is negative: %d", KeyNumSRec, n),
			}
		}
		if n != int64(codec.SubGridFieldCount) {
			d.warn("%s declares %d sub-grid header records, decoding the fixed %d",
				KeyNumSRec, n, codec.SubGridFieldCount)
		}
	}

	numFile, ok := h.Int(KeyNumFile)
	if !ok {
		d.log.Debug("no NUM_FILE in overview header, no sub-grids")
		return 0, nil
	}
	if numFile < 0 {
		return 0, &DecodeError{
			Kind:    ErrInvalidFile,
			SubGrid: -1,
			Detail:  fmt.Sprintf("%s is negative: %d", KeyNumFile, numFile),
		}
	}
	return int(numFile), nil
}

// readSubGrid reads the fixed sub-grid header schedule followed by GS_COUNT
// shift records. Field identity is positional.
func (d *decoder) readSubGrid(index, total int) (*SubGrid, error) {
	header := NewHeaderMap()
	for _, field := range codec.SubGridFields {
		rec, read, err := d.next()
		if err != nil {
			e := d.shortRead(ErrTruncatedSubGridHeader, read, err)
			e.SubGrid = index
			e.Key = field.String()
			return nil, e
		}
		if key := rec.KeyText(); key != field.String() {
			d.warn("sub-grid %d: record key %q in position of %s", index+1, key, field)
		}
		header.Set(field.String(), codec.DecodeSubGridValue(field, rec.Value()))
	}

	count, _ := header.Int(KeyGSCount)
	sg := &SubGrid{Header: header}
	d.log.Debug("decoding sub-grid",
		"index", index+1,
		"of", total,
		"name", sg.Name(),
		"parent", sg.Parent(),
		"gs_count", count)

	capacity := count
	if capacity > maxPrealloc {
		capacity = maxPrealloc
	}
	sg.Shifts = make([]codec.Shift, 0, capacity)
	for i := int64(0); i < count; i++ {
		rec, read, err := d.next()
		if err != nil {
			e := d.shortRead(ErrTruncatedShiftData, read, err)
			e.SubGrid = index
			e.Index = int(i + 1)
			e.Count = int(count)
			return nil, e
		}
		sg.Shifts = append(sg.Shifts, codec.DecodeShift(rec))
	}
	return sg, nil
}
