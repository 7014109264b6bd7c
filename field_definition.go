package f4r

import (
	"fmt"
	"log/slog"

	"github.com/jpablobr/f4r/profile"
)

// ShapeKind tags the per-record layout of one field.
type ShapeKind int

const (
	// ShapeScalar is a single value of the base type.
	ShapeScalar ShapeKind = iota
	// ShapeArray is byte_count/base_width consecutive values.
	ShapeArray
	// ShapeString is a fixed-width NUL-padded byte sequence.
	ShapeString
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeScalar:
		return "scalar"
	case ShapeArray:
		return "array"
	case ShapeString:
		return "string"
	default:
		return fmt.Sprintf("shape(%d)", int(k))
	}
}

// FieldShape is the resolved read/write template for one field: the
// variant the data codec branches on once per field.
type FieldShape struct {
	Kind   ShapeKind
	Length int
}

// FieldDefinition is one three-byte field entry of a definition record,
// resolved against the base type table and the profile catalog.
type FieldDefinition struct {
	Number      uint8
	Size        uint8
	BaseTypeRaw uint8

	Base      BaseType
	baseKnown bool

	// Name is the profile field name, or undocumented_field_<n> when
	// the field number is absent from the profile message.
	Name    string
	Profile *profile.Field
	Shape   FieldShape
}

// decodeFieldDefinition resolves one wire entry. An unknown base type
// number is downgraded to a warning and the value passes through as raw
// bytes; an inconsistent byte count is fatal.
func decodeFieldDefinition(raw [3]byte, msg *profile.Message, log *slog.Logger) (FieldDefinition, error) {
	fd := FieldDefinition{
		Number:      raw[0],
		Size:        raw[1],
		BaseTypeRaw: raw[2],
	}

	base, ok := BaseTypeByNumber(raw[2] & 0x1F)
	if ok {
		fd.Base = base
		fd.baseKnown = true
	} else {
		fd.Base = unknownBaseType(raw[2])
		log.Warn("unknown base type, decoding field as raw bytes",
			"base_type", fmt.Sprintf("0x%02X", raw[2]),
			"field_number", raw[0],
			"message", msg.Name)
	}

	if pf, ok := msg.FieldByNum(int(raw[0])); ok {
		fd.Name = pf.Name
		fd.Profile = pf
	} else {
		fd.Name = undocumentedFieldName(raw[0])
		log.Warn("field number not in profile message, synthesizing name",
			"message", msg.Name, "field_number", raw[0], "name", fd.Name)
	}

	shape, err := resolveShape(fd)
	if err != nil {
		return FieldDefinition{}, err
	}
	fd.Shape = shape
	return fd, nil
}

// resolveShape maps (base type, byte count) onto the tagged shape
// variant. Non-string byte counts must be a positive multiple of the
// base width; the quotient is the array length.
func resolveShape(fd FieldDefinition) (FieldShape, error) {
	if fd.baseKnown && fd.Base.Number == BaseString {
		return FieldShape{Kind: ShapeString, Length: int(fd.Size)}, nil
	}
	width := fd.Base.Size
	switch {
	case fd.Size == 0 || int(fd.Size)%width != 0:
		return FieldShape{}, &InvalidFieldWidthError{
			Field:     fd.Name,
			ByteCount: fd.Size,
			BaseWidth: width,
		}
	case int(fd.Size) == width:
		return FieldShape{Kind: ShapeScalar, Length: 1}, nil
	default:
		return FieldShape{Kind: ShapeArray, Length: int(fd.Size) / width}, nil
	}
}

func (fd FieldDefinition) encode() [3]byte {
	return [3]byte{fd.Number, fd.Size, fd.BaseTypeRaw}
}

func undocumentedFieldName(num uint8) string {
	return fmt.Sprintf("undocumented_field_%d", num)
}
