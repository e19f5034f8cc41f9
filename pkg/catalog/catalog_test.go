package catalog

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/ssargent/gsbgrid/pkg/grid"
	"github.com/ssargent/gsbgrid/pkg/grid/gridtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sampleEntry(t *testing.T, source string, at time.Time) *Entry {
	t.Helper()
	g, err := grid.Decode(bytes.NewReader(gridtest.Sample().Bytes()))
	require.NoError(t, err)
	e, err := NewEntry(source, g, at)
	require.NoError(t, err)
	return e
}

func TestNewEntry(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	e := sampleEntry(t, "brasil.gsb", at)

	assert.Equal(t, "brasil.gsb", e.Source)
	assert.Equal(t, at, e.ImportedAt)
	assert.Equal(t, 2, e.SubGrids)
	assert.Equal(t, 6, e.Shifts)
	assert.Equal(t, ksuid.Nil, e.ID)

	doc, err := e.Decode()
	require.NoError(t, err)
	assert.Contains(t, doc, "header")
	assert.Len(t, doc["sub_grids"], 2)
}

func TestNewEntry_NonFiniteShift(t *testing.T) {
	data := gridtest.New().
		Int32("NUM_OREC", 3).
		Int32("NUM_SREC", 11).
		Int32("NUM_FILE", 1).
		SubGrid(gridtest.SubGrid{
			Name:   "NAN",
			Parent: "NONE",
			Shifts: [][4]float32{{float32(math.Inf(1)), 0, float32(math.NaN()), -1}},
		}).
		Bytes()
	g, err := grid.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	e, err := NewEntry("nan.gsb", g, time.Now())
	require.NoError(t, err)

	c := openTestCatalog(t)
	id, err := c.Put(e)
	require.NoError(t, err)

	got, err := c.Get(id)
	require.NoError(t, err)
	doc, err := got.Decode()
	require.NoError(t, err)
	subGrids := doc["sub_grids"].([]interface{})
	shifts := subGrids[0].(map[string]interface{})["shifts"].([]interface{})
	assert.Equal(t, []interface{}{nil, 0.0, nil, -1.0}, shifts[0])
}

func TestCatalog_PutGet(t *testing.T) {
	c := openTestCatalog(t)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	id, err := c.Put(sampleEntry(t, "brasil.gsb", at))
	require.NoError(t, err)
	assert.Equal(t, at, id.Time().UTC())

	got, err := c.Get(id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "brasil.gsb", got.Source)
	assert.True(t, at.Equal(got.ImportedAt))
	assert.Equal(t, 6, got.Shifts)
	assert.JSONEq(t, string(sampleEntry(t, "x", at).Grid), string(got.Grid))
}

func TestCatalog_GetMissing(t *testing.T) {
	c := openTestCatalog(t)

	_, err := c.Get(ksuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalog_ListNewestFirst(t *testing.T) {
	c := openTestCatalog(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, name := range []string{"a.gsb", "b.gsb", "c.gsb"} {
		_, err := c.Put(sampleEntry(t, name, base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	entries, err := c.List()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "c.gsb", entries[0].Source)
	assert.Equal(t, "b.gsb", entries[1].Source)
	assert.Equal(t, "a.gsb", entries[2].Source)
}

func TestCatalog_ListEmpty(t *testing.T) {
	c := openTestCatalog(t)

	entries, err := c.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCatalog_Delete(t *testing.T) {
	c := openTestCatalog(t)

	id, err := c.Put(sampleEntry(t, "brasil.gsb", time.Now()))
	require.NoError(t, err)

	require.NoError(t, c.Delete(id))
	_, err = c.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, c.Delete(id), ErrNotFound)
}

func TestCatalog_Reopen(t *testing.T) {
	dir := t.TempDir()

	c, err := Open(dir)
	require.NoError(t, err)
	id, err := c.Put(sampleEntry(t, "brasil.gsb", time.Now()))
	require.NoError(t, err)
	require.NoError(t, c.Close())

	c, err = Open(dir)
	require.NoError(t, err)
	defer c.Close()

	got, err := c.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "brasil.gsb", got.Source)
}

func TestParseID(t *testing.T) {
	id := ksuid.New()

	got, err := ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseID("not-an-id")
	assert.ErrorContains(t, err, "invalid catalog id")
}
