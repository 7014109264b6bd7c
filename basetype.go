// Package f4r encodes and decodes FIT activity files: self-describing
// binary streams in which every data record is laid out by an earlier
// definition record. The codec preserves byte-level structure (field
// widths, string padding, CRCs, declaration order) so that re-encoded
// output survives strict third-party validation. Field values are
// returned raw; scaling, units and sub-field expansion are out of scope.
package f4r

import (
	"fmt"
	"math"
)

// Canonical base type numbers (bits 0-4 of the packed wire byte).
const (
	BaseEnum    uint8 = 0x00
	BaseSint8   uint8 = 0x01
	BaseUint8   uint8 = 0x02
	BaseSint16  uint8 = 0x03
	BaseUint16  uint8 = 0x04
	BaseSint32  uint8 = 0x05
	BaseUint32  uint8 = 0x06
	BaseString  uint8 = 0x07
	BaseFloat32 uint8 = 0x08
	BaseFloat64 uint8 = 0x09
	BaseUint8z  uint8 = 0x0A
	BaseUint16z uint8 = 0x0B
	BaseUint32z uint8 = 0x0C
	BaseByte    uint8 = 0x0D
	BaseSint64  uint8 = 0x0E
	BaseUint64  uint8 = 0x0F
	BaseUint64z uint8 = 0x10
)

const baseEndianFlag = 0x80

// BaseType describes one row of the FIT base type table: the primitive
// wire type behind every field, with its width and undef sentinel.
type BaseType struct {
	Number     uint8
	Name       string
	Size       int
	EndianAble bool
	Signed     bool
	Floating   bool
	ZeroUndef  bool
}

var baseTypes = []BaseType{
	{Number: BaseEnum, Name: "enum", Size: 1},
	{Number: BaseSint8, Name: "sint8", Size: 1, Signed: true},
	{Number: BaseUint8, Name: "uint8", Size: 1},
	{Number: BaseSint16, Name: "sint16", Size: 2, EndianAble: true, Signed: true},
	{Number: BaseUint16, Name: "uint16", Size: 2, EndianAble: true},
	{Number: BaseSint32, Name: "sint32", Size: 4, EndianAble: true, Signed: true},
	{Number: BaseUint32, Name: "uint32", Size: 4, EndianAble: true},
	{Number: BaseString, Name: "string", Size: 1},
	{Number: BaseFloat32, Name: "float32", Size: 4, EndianAble: true, Floating: true},
	{Number: BaseFloat64, Name: "float64", Size: 8, EndianAble: true, Floating: true},
	{Number: BaseUint8z, Name: "uint8z", Size: 1, ZeroUndef: true},
	{Number: BaseUint16z, Name: "uint16z", Size: 2, EndianAble: true, ZeroUndef: true},
	{Number: BaseUint32z, Name: "uint32z", Size: 4, EndianAble: true, ZeroUndef: true},
	{Number: BaseByte, Name: "byte", Size: 1},
	{Number: BaseSint64, Name: "sint64", Size: 8, EndianAble: true, Signed: true},
	{Number: BaseUint64, Name: "uint64", Size: 8, EndianAble: true},
	{Number: BaseUint64z, Name: "uint64z", Size: 8, EndianAble: true, ZeroUndef: true},
}

var (
	baseTypesByNumber = func() map[uint8]BaseType {
		m := make(map[uint8]BaseType, len(baseTypes))
		for _, bt := range baseTypes {
			m[bt.Number] = bt
		}
		return m
	}()
	baseTypesByName = func() map[string]BaseType {
		m := make(map[string]BaseType, len(baseTypes))
		for _, bt := range baseTypes {
			m[bt.Name] = bt
		}
		return m
	}()
)

// BaseTypes returns the full base type table in canonical number order.
func BaseTypes() []BaseType {
	out := make([]BaseType, len(baseTypes))
	copy(out, baseTypes)
	return out
}

// BaseTypeByNumber looks up a base type by canonical number.
func BaseTypeByNumber(num uint8) (BaseType, bool) {
	bt, ok := baseTypesByNumber[num]
	return bt, ok
}

// BaseTypeByName looks up a base type by profile name.
func BaseTypeByName(name string) (BaseType, bool) {
	bt, ok := baseTypesByName[name]
	return bt, ok
}

// WireByte returns the packed byte written into a field definition
// entry: endian ability in bit 7, the canonical number in bits 0-4.
func (bt BaseType) WireByte() uint8 {
	b := bt.Number
	if bt.EndianAble {
		b |= baseEndianFlag
	}
	return b
}

// Undef returns the base type's undef sentinel as a decoded value:
// all-ones for unsigned integers, enum, byte and floats, the largest
// positive value for signed integers, zero for *z* types, the empty
// string for strings.
func (bt BaseType) Undef() any {
	switch bt.Number {
	case BaseEnum, BaseUint8, BaseByte:
		return uint8(0xFF)
	case BaseSint8:
		return int8(0x7F)
	case BaseSint16:
		return int16(0x7FFF)
	case BaseUint16:
		return uint16(0xFFFF)
	case BaseSint32:
		return int32(0x7FFFFFFF)
	case BaseUint32:
		return uint32(0xFFFFFFFF)
	case BaseString:
		return ""
	case BaseFloat32:
		return float64(math.Float32frombits(0xFFFFFFFF))
	case BaseFloat64:
		return math.Float64frombits(0xFFFFFFFFFFFFFFFF)
	case BaseUint8z:
		return uint8(0)
	case BaseUint16z:
		return uint16(0)
	case BaseUint32z:
		return uint32(0)
	case BaseSint64:
		return int64(0x7FFFFFFFFFFFFFFF)
	case BaseUint64:
		return uint64(0xFFFFFFFFFFFFFFFF)
	case BaseUint64z:
		return uint64(0)
	default:
		return uint8(0xFF)
	}
}

// unknownBaseType synthesizes a table row for a wire byte whose number
// is absent from the table. Values decode as raw bytes.
func unknownBaseType(wire uint8) BaseType {
	return BaseType{
		Number: wire & 0x1F,
		Name:   fmt.Sprintf("unknown_0x%02X", wire&0x1F),
		Size:   1,
	}
}
