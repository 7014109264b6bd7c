package f4r

import (
	"testing"
)

func TestBaseTypeTable(t *testing.T) {
	tests := []struct {
		name       string
		number     uint8
		size       int
		endianAble bool
		wire       uint8
	}{
		{"enum", BaseEnum, 1, false, 0x00},
		{"sint8", BaseSint8, 1, false, 0x01},
		{"uint8", BaseUint8, 1, false, 0x02},
		{"sint16", BaseSint16, 2, true, 0x83},
		{"uint16", BaseUint16, 2, true, 0x84},
		{"sint32", BaseSint32, 4, true, 0x85},
		{"uint32", BaseUint32, 4, true, 0x86},
		{"string", BaseString, 1, false, 0x07},
		{"float32", BaseFloat32, 4, true, 0x88},
		{"float64", BaseFloat64, 8, true, 0x89},
		{"uint8z", BaseUint8z, 1, false, 0x0A},
		{"uint16z", BaseUint16z, 2, true, 0x8B},
		{"uint32z", BaseUint32z, 4, true, 0x8C},
		{"byte", BaseByte, 1, false, 0x0D},
		{"sint64", BaseSint64, 8, true, 0x8E},
		{"uint64", BaseUint64, 8, true, 0x8F},
		{"uint64z", BaseUint64z, 8, true, 0x90},
	}
	for _, tc := range tests {
		bt, ok := BaseTypeByNumber(tc.number)
		if !ok {
			t.Fatalf("BaseTypeByNumber(%d): not found", tc.number)
		}
		if bt.Name != tc.name {
			t.Errorf("base type %d: name %q, want %q", tc.number, bt.Name, tc.name)
		}
		if bt.Size != tc.size {
			t.Errorf("base type %s: size %d, want %d", tc.name, bt.Size, tc.size)
		}
		if bt.EndianAble != tc.endianAble {
			t.Errorf("base type %s: endian able %v, want %v", tc.name, bt.EndianAble, tc.endianAble)
		}
		if got := bt.WireByte(); got != tc.wire {
			t.Errorf("base type %s: wire byte 0x%02X, want 0x%02X", tc.name, got, tc.wire)
		}
		if byName, ok := BaseTypeByName(tc.name); !ok || byName.Number != tc.number {
			t.Errorf("BaseTypeByName(%q): got %+v, %v", tc.name, byName, ok)
		}
	}
}

func TestBaseTypeUndefSentinels(t *testing.T) {
	tests := []struct {
		number uint8
		want   any
	}{
		{BaseEnum, uint8(0xFF)},
		{BaseSint8, int8(0x7F)},
		{BaseUint8, uint8(0xFF)},
		{BaseSint16, int16(0x7FFF)},
		{BaseUint16, uint16(0xFFFF)},
		{BaseSint32, int32(0x7FFFFFFF)},
		{BaseUint32, uint32(0xFFFFFFFF)},
		{BaseString, ""},
		{BaseUint8z, uint8(0)},
		{BaseUint16z, uint16(0)},
		{BaseUint32z, uint32(0)},
		{BaseByte, uint8(0xFF)},
		{BaseSint64, int64(0x7FFFFFFFFFFFFFFF)},
		{BaseUint64, uint64(0xFFFFFFFFFFFFFFFF)},
		{BaseUint64z, uint64(0)},
	}
	for _, tc := range tests {
		bt, ok := BaseTypeByNumber(tc.number)
		if !ok {
			t.Fatalf("BaseTypeByNumber(%d): not found", tc.number)
		}
		if got := bt.Undef(); got != tc.want {
			t.Errorf("%s undef = %v (%T), want %v (%T)", bt.Name, got, got, tc.want, tc.want)
		}
	}
}

func TestUnknownBaseTypeSynthesis(t *testing.T) {
	bt := unknownBaseType(0x9E)
	if bt.Number != 0x1E {
		t.Fatalf("number = 0x%02X, want 0x1E", bt.Number)
	}
	if bt.Name != "unknown_0x1E" {
		t.Fatalf("name = %q", bt.Name)
	}
	if bt.Size != 1 {
		t.Fatalf("size = %d, want 1", bt.Size)
	}
}
