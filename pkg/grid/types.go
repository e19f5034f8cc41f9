package grid

import (
	"github.com/ssargent/gsbgrid/pkg/codec"
)

// Well-known header keys
const (
	KeyNumORec = "NUM_OREC"
	KeyNumSRec = "NUM_SREC"
	KeyNumFile = "NUM_FILE"
	KeySubName = "SUB_NAME"
	KeyParent  = "PARENT"
	KeyGSCount = "GS_COUNT"
)

// GridFile is a fully decoded grid shift file
type GridFile struct {
	Header   *HeaderMap // Overview header, file order
	SubGrids []*SubGrid // Sub-grids, file order
	Warnings []Warning  // Soft inconsistencies; never serialized
}

// SubGrid is one sub-grid header and its shift records
type SubGrid struct {
	Header *HeaderMap
	Shifts []codec.Shift
}

// Name returns SUB_NAME
func (s *SubGrid) Name() string {
	name, _ := s.Header.Text(KeySubName)
	return name
}

// Parent returns PARENT
func (s *SubGrid) Parent() string {
	parent, _ := s.Header.Text(KeyParent)
	return parent
}

// Count returns the declared GS_COUNT
func (s *SubGrid) Count() int64 {
	n, _ := s.Header.Int(KeyGSCount)
	return n
}

// SubGrid returns the first sub-grid named name
func (g *GridFile) SubGrid(name string) (*SubGrid, bool) {
	for _, sg := range g.SubGrids {
		if sg.Name() == name {
			return sg, true
		}
	}
	return nil, false
}

// ShiftCount returns the total number of shift records across sub-grids
func (g *GridFile) ShiftCount() int {
	total := 0
	for _, sg := range g.SubGrids {
		total += len(sg.Shifts)
	}
	return total
}

// HeaderMap is an insertion-ordered map of header fields
type HeaderMap struct {
	keys   []string
	values map[string]codec.Value
}

// NewHeaderMap creates an empty header map
func NewHeaderMap() *HeaderMap {
	return &HeaderMap{values: make(map[string]codec.Value)}
}

// Set stores a value. A repeated key keeps its first position.
func (h *HeaderMap) Set(key string, v codec.Value) {
	if _, ok := h.values[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.values[key] = v
}

// Get returns the value stored under key
func (h *HeaderMap) Get(key string) (codec.Value, bool) {
	v, ok := h.values[key]
	return v, ok
}

// Has reports whether key is present
func (h *HeaderMap) Has(key string) bool {
	_, ok := h.values[key]
	return ok
}

// Keys returns the keys in file order
func (h *HeaderMap) Keys() []string {
	out := make([]string, len(h.keys))
	copy(out, h.keys)
	return out
}

// Len returns the number of fields
func (h *HeaderMap) Len() int {
	return len(h.keys)
}

// Int returns an integer field
func (h *HeaderMap) Int(key string) (int64, bool) {
	v, ok := h.values[key]
	if !ok {
		return 0, false
	}
	return v.Int()
}

// Float returns a float field
func (h *HeaderMap) Float(key string) (float64, bool) {
	v, ok := h.values[key]
	if !ok {
		return 0, false
	}
	return v.Float()
}

// Text returns a text field
func (h *HeaderMap) Text(key string) (string, bool) {
	v, ok := h.values[key]
	if !ok {
		return "", false
	}
	return v.Text()
}
