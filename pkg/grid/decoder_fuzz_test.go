//go:build fuzz
// +build fuzz

package grid

import (
	"bytes"
	"testing"

	"github.com/ssargent/gsbgrid/pkg/grid/gridtest"
)

// FuzzDecode checks that arbitrary input either decodes into a consistent
// tree or fails with an error, never a panic
func FuzzDecode(f *testing.F) {
	f.Add([]byte{})
	f.Add(gridtest.New().Int32("NUM_OREC", 1).Bytes())
	f.Add(gridtest.Sample().Bytes())

	f.Fuzz(func(t *testing.T, data []byte) {
		g, err := Decode(bytes.NewReader(data))
		if err != nil {
			if g != nil {
				t.Fatalf("partial tree returned with error %v", err)
			}
			return
		}
		numFile, _ := g.Header.Int(KeyNumFile)
		if int64(len(g.SubGrids)) != numFile {
			t.Fatalf("sub-grids = %d, NUM_FILE = %d", len(g.SubGrids), numFile)
		}
		for _, sg := range g.SubGrids {
			if sg.Count() != int64(len(sg.Shifts)) {
				t.Fatalf("sub-grid %q shifts = %d, GS_COUNT = %d", sg.Name(), len(sg.Shifts), sg.Count())
			}
		}
	})
}
