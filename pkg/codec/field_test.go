package codec

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func float64Raw(f float64) [ValueSize]byte {
	var raw [ValueSize]byte
	binary.LittleEndian.PutUint64(raw[:], math.Float64bits(f))
	return raw
}

func textRaw(s string) [ValueSize]byte {
	var raw [ValueSize]byte
	copy(raw[:], s)
	return raw
}

func TestDecodeHeaderValue(t *testing.T) {
	var numFile [ValueSize]byte
	binary.LittleEndian.PutUint32(numFile[:4], 3)
	var negative [ValueSize]byte
	binary.LittleEndian.PutUint32(negative[:4], uint32(0xFFFFFFFF))

	testCases := []struct {
		name string
		key  string
		raw  [ValueSize]byte
		want Value
	}{
		{name: "NUM_FILE is int32", key: "NUM_FILE", raw: numFile, want: Int32Value(3)},
		{name: "NUM_SREC is signed", key: "NUM_SREC", raw: negative, want: Int32Value(-1)},
		{name: "MAJOR_F is float64", key: "MAJOR_F", raw: float64Raw(6378137.0), want: Float64Value(6378137.0)},
		{name: "MINOR_T is float64", key: "MINOR_T", raw: float64Raw(6356752.314), want: Float64Value(6356752.314)},
		{name: "GS_TYPE is text", key: "GS_TYPE", raw: textRaw("SECONDS "), want: TextValue("SECONDS")},
		{name: "unknown key is text", key: "DATUM_X", raw: textRaw("SIRGAS\x00\x00"), want: TextValue("SIRGAS")},
		{name: "arc-second fields are not converted in the overview", key: "S_LAT", raw: textRaw("abc"), want: TextValue("abc")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DecodeHeaderValue(tc.key, tc.raw))
		})
	}
}

func TestDecodeSubGridValue(t *testing.T) {
	var count [ValueSize]byte
	binary.LittleEndian.PutUint32(count[:4], 0xFFFFFFFE)

	t.Run("bounds convert arc-seconds to degrees", func(t *testing.T) {
		v := DecodeSubGridValue(FieldSLat, float64Raw(3600.0))
		f, ok := v.Float()
		assert.True(t, ok)
		assert.Equal(t, 1.0, f)
	})

	t.Run("increments convert arc-seconds to degrees", func(t *testing.T) {
		v := DecodeSubGridValue(FieldLonInc, float64Raw(-1800.0))
		f, _ := v.Float()
		assert.Equal(t, -0.5, f)
	})

	t.Run("GS_COUNT is unsigned", func(t *testing.T) {
		v := DecodeSubGridValue(FieldGSCount, count)
		assert.Equal(t, KindUint32, v.Kind())
		n, ok := v.Int()
		assert.True(t, ok)
		assert.Equal(t, int64(0xFFFFFFFE), n)
		assert.Equal(t, uint32(0xFFFFFFFE), v.Interface())
	})

	t.Run("names are text", func(t *testing.T) {
		v := DecodeSubGridValue(FieldSubName, textRaw("BRASIL  "))
		s, ok := v.Text()
		assert.True(t, ok)
		assert.Equal(t, "BRASIL", s)
	})
}

func TestDecode_LittleEndianDouble(t *testing.T) {
	raw := [ValueSize]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xF0, 0x3F}

	f, ok := Decode(RuleFloat64, raw).Float()
	assert.True(t, ok)
	assert.Equal(t, 1.0, f)
}

func TestDecodeText(t *testing.T) {
	testCases := []struct {
		name string
		in   []byte
		want string
	}{
		{name: "plain", in: []byte("NONE"), want: "NONE"},
		{name: "space padded", in: []byte("NAD27   "), want: "NAD27"},
		{name: "nul padded", in: []byte("AB\x00\x00\x00\x00\x00\x00"), want: "AB"},
		{name: "nul then spaces", in: []byte("\x00 X  \x00"), want: "X"},
		{name: "latin-1 high bytes", in: []byte{'S', 0xE3, 'O', ' '}, want: "SãO"},
		{name: "all nul", in: make([]byte, 8), want: ""},
		{name: "separator controls", in: []byte("\x1cABC\x1f \x1d"), want: "ABC"},
		{name: "tabs and newlines", in: []byte("\tAB\r\n"), want: "AB"},
		{name: "latin-1 nbsp", in: []byte{0xA0, 'A', 0x85}, want: "A"},
		{name: "inner separator kept", in: []byte("A\x1eB"), want: "A\x1eB"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DecodeText(tc.in))
		})
	}
}

func TestLookupField(t *testing.T) {
	assert.Equal(t, FieldNumORec, LookupField("NUM_OREC"))
	assert.Equal(t, FieldGSCount, LookupField("GS_COUNT"))
	assert.Equal(t, FieldUnknown, LookupField("num_orec"))
	assert.Equal(t, "GS_COUNT", FieldGSCount.String())
	assert.Equal(t, "UNKNOWN", FieldUnknown.String())
}

func TestSubGridFields(t *testing.T) {
	names := make([]string, 0, SubGridFieldCount)
	for _, f := range SubGridFields {
		names = append(names, f.String())
	}
	assert.Equal(t, []string{
		"SUB_NAME", "PARENT", "CREATED", "UPDATED", "S_LAT", "N_LAT",
		"W_LON", "E_LON", "LAT_INC", "LON_INC", "GS_COUNT",
	}, names)
	assert.Equal(t, 11, SubGridFieldCount)
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "42", Int32Value(42).String())
	assert.Equal(t, "0.5", Float64Value(0.5).String())
	assert.Equal(t, "abc", TextValue("abc").String())
	assert.Equal(t, "float64", KindFloat64.String())
}

func TestDecodeLatin1_KeepsWhitespace(t *testing.T) {
	assert.Equal(t, "GS_TYPE ", DecodeLatin1([]byte("GS_TYPE ")))
	assert.Equal(t, " é", DecodeLatin1([]byte{0, ' ', 0xE9, 0}))
}
