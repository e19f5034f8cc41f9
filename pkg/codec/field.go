package codec

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
)

// ArcSecondsPerDegree converts stored arc-second values to degrees
const ArcSecondsPerDegree = 3600.0

// Field identifies a known header key
type Field int

const (
	FieldUnknown Field = iota

	// Overview header
	FieldNumORec
	FieldNumSRec
	FieldNumFile
	FieldGSType
	FieldVersion
	FieldSystemF
	FieldSystemT
	FieldMajorF
	FieldMinorF
	FieldMajorT
	FieldMinorT

	// Sub-grid header
	FieldSubName
	FieldParent
	FieldCreated
	FieldUpdated
	FieldSLat
	FieldNLat
	FieldWLon
	FieldELon
	FieldLatInc
	FieldLonInc
	FieldGSCount
)

var fieldNames = map[Field]string{
	FieldNumORec: "NUM_OREC",
	FieldNumSRec: "NUM_SREC",
	FieldNumFile: "NUM_FILE",
	FieldGSType:  "GS_TYPE",
	FieldVersion: "VERSION",
	FieldSystemF: "SYSTEM_F",
	FieldSystemT: "SYSTEM_T",
	FieldMajorF:  "MAJOR_F",
	FieldMinorF:  "MINOR_F",
	FieldMajorT:  "MAJOR_T",
	FieldMinorT:  "MINOR_T",
	FieldSubName: "SUB_NAME",
	FieldParent:  "PARENT",
	FieldCreated: "CREATED",
	FieldUpdated: "UPDATED",
	FieldSLat:    "S_LAT",
	FieldNLat:    "N_LAT",
	FieldWLon:    "W_LON",
	FieldELon:    "E_LON",
	FieldLatInc:  "LAT_INC",
	FieldLonInc:  "LON_INC",
	FieldGSCount: "GS_COUNT",
}

var fieldsByName = func() map[string]Field {
	m := make(map[string]Field, len(fieldNames))
	for f, name := range fieldNames {
		m[name] = f
	}
	return m
}()

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "UNKNOWN"
}

// LookupField maps a decoded key name to its Field
func LookupField(name string) Field {
	return fieldsByName[name]
}

// SubGridFields is the positional schedule of a sub-grid header
var SubGridFields = [...]Field{
	FieldSubName,
	FieldParent,
	FieldCreated,
	FieldUpdated,
	FieldSLat,
	FieldNLat,
	FieldWLon,
	FieldELon,
	FieldLatInc,
	FieldLonInc,
	FieldGSCount,
}

// SubGridFieldCount is the number of records in a sub-grid header
const SubGridFieldCount = len(SubGridFields)

// Rule selects how an 8-byte value region is interpreted
type Rule int

const (
	RuleText       Rule = iota // Latin-1, NUL-stripped, trimmed
	RuleInt32                  // little-endian int32 from the first 4 bytes
	RuleUint32                 // little-endian uint32 from the first 4 bytes
	RuleFloat64                // little-endian float64 over all 8 bytes
	RuleArcSeconds             // RuleFloat64 divided by 3600
)

var mainHeaderRules = map[Field]Rule{
	FieldNumSRec: RuleInt32,
	FieldNumFile: RuleInt32,
	FieldMajorF:  RuleFloat64,
	FieldMinorF:  RuleFloat64,
	FieldMajorT:  RuleFloat64,
	FieldMinorT:  RuleFloat64,
}

var subGridRules = map[Field]Rule{
	FieldSubName: RuleText,
	FieldParent:  RuleText,
	FieldCreated: RuleText,
	FieldUpdated: RuleText,
	FieldSLat:    RuleArcSeconds,
	FieldNLat:    RuleArcSeconds,
	FieldWLon:    RuleArcSeconds,
	FieldELon:    RuleArcSeconds,
	FieldLatInc:  RuleArcSeconds,
	FieldLonInc:  RuleArcSeconds,
	FieldGSCount: RuleUint32,
}

// MainHeaderRule returns the rule for an overview header field. Fields
// without an entry, including unknown keys, are text.
func MainHeaderRule(f Field) Rule {
	if rule, ok := mainHeaderRules[f]; ok {
		return rule
	}
	return RuleText
}

// SubGridRule returns the rule for a sub-grid header field
func SubGridRule(f Field) Rule {
	if rule, ok := subGridRules[f]; ok {
		return rule
	}
	return RuleText
}

// Kind tags the variant held by a Value
type Kind int

const (
	KindText Kind = iota
	KindInt32
	KindUint32
	KindFloat64
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt32:
		return "int32"
	case KindUint32:
		return "uint32"
	case KindFloat64:
		return "float64"
	default:
		return "unknown"
	}
}

// Value is a decoded header value
type Value struct {
	kind Kind
	text string
	num  int64
	f64  float64
}

// TextValue creates a text value
func TextValue(s string) Value { return Value{kind: KindText, text: s} }

// Int32Value creates an int32 value
func Int32Value(i int32) Value { return Value{kind: KindInt32, num: int64(i)} }

// Uint32Value creates a uint32 value
func Uint32Value(u uint32) Value { return Value{kind: KindUint32, num: int64(u)} }

// Float64Value creates a float64 value
func Float64Value(f float64) Value { return Value{kind: KindFloat64, f64: f} }

// Kind returns the variant tag
func (v Value) Kind() Kind { return v.kind }

// Text returns the text and whether the value is text
func (v Value) Text() (string, bool) { return v.text, v.kind == KindText }

// Int returns the integer and whether the value is an int32 or uint32
func (v Value) Int() (int64, bool) {
	return v.num, v.kind == KindInt32 || v.kind == KindUint32
}

// Float returns the float and whether the value is a float64
func (v Value) Float() (float64, bool) { return v.f64, v.kind == KindFloat64 }

// Interface returns the value as a plain Go scalar for serializers
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindInt32:
		return int32(v.num)
	case KindUint32:
		return uint32(v.num)
	case KindFloat64:
		return v.f64
	default:
		return v.text
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindInt32, KindUint32:
		return strconv.FormatInt(v.num, 10)
	case KindFloat64:
		return strconv.FormatFloat(v.f64, 'g', -1, 64)
	default:
		return v.text
	}
}

// Decode applies rule to an 8-byte value region
func Decode(rule Rule, raw [ValueSize]byte) Value {
	switch rule {
	case RuleInt32:
		return Int32Value(int32(binary.LittleEndian.Uint32(raw[:4])))
	case RuleUint32:
		return Uint32Value(binary.LittleEndian.Uint32(raw[:4]))
	case RuleFloat64:
		return Float64Value(math.Float64frombits(binary.LittleEndian.Uint64(raw[:])))
	case RuleArcSeconds:
		return Float64Value(math.Float64frombits(binary.LittleEndian.Uint64(raw[:])) / ArcSecondsPerDegree)
	default:
		return TextValue(DecodeText(raw[:]))
	}
}

// DecodeHeaderValue decodes the value of an overview header record
func DecodeHeaderValue(key string, raw [ValueSize]byte) Value {
	return Decode(MainHeaderRule(LookupField(key)), raw)
}

// DecodeSubGridValue decodes the value of a sub-grid header record. The
// field comes from the positional schedule, not from the record's key.
func DecodeSubGridValue(f Field, raw [ValueSize]byte) Value {
	return Decode(SubGridRule(f), raw)
}

var latin1 = charmap.ISO8859_1

// DecodeLatin1 decodes Latin-1 bytes after stripping surrounding NUL bytes.
// Whitespace is kept.
func DecodeLatin1(b []byte) string {
	b = bytes.Trim(b, "\x00")
	out, err := latin1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// DecodeText decodes Latin-1 bytes, strips surrounding NUL bytes and trims
// whitespace. The ASCII separators 0x1C-0x1F count as whitespace.
func DecodeText(b []byte) string {
	return strings.TrimFunc(DecodeLatin1(b), isTextSpace)
}

func isTextSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
