package f4r

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jpablobr/f4r/profile"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDecodeDefinitionBigEndianFileID(t *testing.T) {
	// reserved, architecture=1, global=0 (big-endian), 5 fields:
	// (3,4,8C) (4,4,86) (1,2,84) (2,2,84) (0,1,00)
	raw := []byte{
		0x00, 0x01, 0x00, 0x00, 0x05,
		0x03, 0x04, 0x8C,
		0x04, 0x04, 0x86,
		0x01, 0x02, 0x84,
		0x02, 0x02, 0x84,
		0x00, 0x01, 0x00,
	}
	def, next, err := decodeDefinition(raw, 0, RecordHeader{Definition: true}, profile.Default(), discardLogger())
	if err != nil {
		t.Fatalf("decodeDefinition: %v", err)
	}
	if next != len(raw) {
		t.Fatalf("consumed %d bytes, want %d", next, len(raw))
	}
	if def.Architecture != 1 {
		t.Fatalf("architecture = %d, want 1", def.Architecture)
	}
	if def.GlobalMessageNumber != 0 || def.MessageName != "file_id" {
		t.Fatalf("global message = %d (%s), want 0 (file_id)", def.GlobalMessageNumber, def.MessageName)
	}
	if len(def.Fields) != 5 {
		t.Fatalf("field count = %d, want 5", len(def.Fields))
	}

	wantFields := []struct {
		number uint8
		size   uint8
		raw    uint8
		name   string
	}{
		{3, 4, 0x8C, "serial_number"},
		{4, 4, 0x86, "time_created"},
		{1, 2, 0x84, "manufacturer"},
		{2, 2, 0x84, "product"},
		{0, 1, 0x00, "type"},
	}
	for i, want := range wantFields {
		got := def.Fields[i]
		if got.Number != want.number || got.Size != want.size || got.BaseTypeRaw != want.raw {
			t.Errorf("field %d: (%d,%d,0x%02X), want (%d,%d,0x%02X)",
				i, got.Number, got.Size, got.BaseTypeRaw, want.number, want.size, want.raw)
		}
		if got.Name != want.name {
			t.Errorf("field %d: name %q, want %q", i, got.Name, want.name)
		}
		if got.Shape.Kind != ShapeScalar {
			t.Errorf("field %d: shape %v, want scalar", i, got.Shape.Kind)
		}
	}

	// The data payload decodes big-endian per the architecture byte.
	payload := []byte{0x7F, 0xFF, 0xFF, 0xFF, 0x29, 0xE6, 0x07, 0x12, 0x00, 0x0F, 0x00, 0x01, 0x04}
	fields, pos, err := decodeDataFields(payload, 0, def)
	if err != nil {
		t.Fatalf("decodeDataFields: %v", err)
	}
	if pos != len(payload) {
		t.Fatalf("consumed %d bytes, want %d", pos, len(payload))
	}
	wantValues := map[string]any{
		"serial_number": uint32(2147483647),
		"time_created":  uint32(702940946),
		"manufacturer":  uint16(15),
		"product":       uint16(1),
		"type":          uint8(4),
	}
	for name, want := range wantValues {
		fv, ok := fields[name]
		if !ok {
			t.Fatalf("missing field %q", name)
		}
		if fv.Value != want {
			t.Errorf("field %s = %v (%T), want %v (%T)", name, fv.Value, fv.Value, want, want)
		}
	}
}

func TestDefinitionEncodeRoundTrip(t *testing.T) {
	raw := []byte{
		0x00, 0x01, 0x00, 0x00, 0x05,
		0x03, 0x04, 0x8C,
		0x04, 0x04, 0x86,
		0x01, 0x02, 0x84,
		0x02, 0x02, 0x84,
		0x00, 0x01, 0x00,
	}
	def, _, err := decodeDefinition(raw, 0, RecordHeader{Definition: true}, profile.Default(), discardLogger())
	if err != nil {
		t.Fatalf("decodeDefinition: %v", err)
	}
	got := def.encode(false)
	if len(got) != len(raw) {
		t.Fatalf("encoded %d bytes, want %d", len(got), len(raw))
	}
	for i := range raw {
		if got[i] != raw[i] {
			t.Fatalf("byte %d = 0x%02X, want 0x%02X", i, got[i], raw[i])
		}
	}
}

func TestDecodeDefinitionInvalidArchitecture(t *testing.T) {
	raw := []byte{0x00, 0x02, 0x00, 0x00, 0x00}
	_, _, err := decodeDefinition(raw, 0, RecordHeader{Definition: true}, profile.Default(), discardLogger())
	var ia *InvalidArchitectureError
	if !errors.As(err, &ia) {
		t.Fatalf("expected InvalidArchitectureError, got %v", err)
	}
	if ia.Value != 2 {
		t.Fatalf("value = %d, want 2", ia.Value)
	}
}

func TestDecodeDefinitionUnknownGlobalMessage(t *testing.T) {
	raw := []byte{0x00, 0x00, 0xFF, 0xFB, 0x00} // 64511, not in catalog
	_, _, err := decodeDefinition(raw, 0, RecordHeader{Definition: true}, profile.Default(), discardLogger())
	var ug *UnknownGlobalMessageError
	if !errors.As(err, &ug) {
		t.Fatalf("expected UnknownGlobalMessageError, got %v", err)
	}
	if ug.Number != 64511 {
		t.Fatalf("number = %d, want 64511", ug.Number)
	}
}

func TestDecodeDefinitionRejectsDeveloperFields(t *testing.T) {
	raw := []byte{
		0x00, 0x00, 0x00, 0x00, 0x01,
		0x00, 0x01, 0x00,
		0x01, // nonzero developer field count
	}
	_, _, err := decodeDefinition(raw, 0, RecordHeader{Definition: true, DeveloperDataFlag: true}, profile.Default(), discardLogger())
	if !errors.Is(err, ErrDeveloperFields) {
		t.Fatalf("expected ErrDeveloperFields, got %v", err)
	}
}

func TestDecodeDefinitionAcceptsEmptyDeveloperSection(t *testing.T) {
	raw := []byte{
		0x00, 0x00, 0x00, 0x00, 0x01,
		0x00, 0x01, 0x00,
		0x00,
	}
	def, next, err := decodeDefinition(raw, 0, RecordHeader{Definition: true, DeveloperDataFlag: true}, profile.Default(), discardLogger())
	if err != nil {
		t.Fatalf("decodeDefinition: %v", err)
	}
	if next != len(raw) {
		t.Fatalf("consumed %d, want %d", next, len(raw))
	}
	if def.MessageName != "file_id" {
		t.Fatalf("message = %q", def.MessageName)
	}
}

func TestDecodeDefinitionSynthesizesUndocumentedField(t *testing.T) {
	// file_id has no field 9 anywhere in the catalog.
	raw := []byte{
		0x00, 0x00, 0x00, 0x00, 0x01,
		0x09, 0x02, 0x84,
	}
	def, _, err := decodeDefinition(raw, 0, RecordHeader{Definition: true}, profile.Default(), discardLogger())
	if err != nil {
		t.Fatalf("decodeDefinition: %v", err)
	}
	f := def.Fields[0]
	if f.Name != "undocumented_field_9" {
		t.Fatalf("name = %q, want undocumented_field_9", f.Name)
	}
	if f.Profile != nil {
		t.Fatalf("expected nil profile field")
	}
	if f.Base.Number != BaseUint16 {
		t.Fatalf("base = %s, want uint16", f.Base.Name)
	}
}

func TestResolveShapeInvalidWidth(t *testing.T) {
	bt, _ := BaseTypeByNumber(BaseUint32)
	fd := FieldDefinition{Name: "speed", Size: 6, Base: bt, baseKnown: true}
	_, err := resolveShape(fd)
	var iw *InvalidFieldWidthError
	if !errors.As(err, &iw) {
		t.Fatalf("expected InvalidFieldWidthError, got %v", err)
	}
	if iw.ByteCount != 6 || iw.BaseWidth != 4 {
		t.Fatalf("byte count/base width = %d/%d", iw.ByteCount, iw.BaseWidth)
	}
}

func TestResolveShapeVariants(t *testing.T) {
	u16, _ := BaseTypeByNumber(BaseUint16)
	str, _ := BaseTypeByNumber(BaseString)

	scalar, err := resolveShape(FieldDefinition{Size: 2, Base: u16, baseKnown: true})
	if err != nil || scalar.Kind != ShapeScalar || scalar.Length != 1 {
		t.Fatalf("scalar shape = %+v, err %v", scalar, err)
	}
	array, err := resolveShape(FieldDefinition{Size: 8, Base: u16, baseKnown: true})
	if err != nil || array.Kind != ShapeArray || array.Length != 4 {
		t.Fatalf("array shape = %+v, err %v", array, err)
	}
	s, err := resolveShape(FieldDefinition{Size: 16, Base: str, baseKnown: true})
	if err != nil || s.Kind != ShapeString || s.Length != 16 {
		t.Fatalf("string shape = %+v, err %v", s, err)
	}
}
