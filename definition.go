package f4r

import (
	"encoding/binary"
	"log/slog"

	"github.com/jpablobr/f4r/profile"
)

// Architecture byte values.
const (
	archLittleEndian = 0
	archBigEndian    = 1
)

// Definition is a decoded definition record: the on-the-wire schema for
// subsequent data records at its local slot. Definitions are immutable
// once installed; a later definition record may overwrite the slot.
type Definition struct {
	Reserved            uint8
	Architecture        uint8
	GlobalMessageNumber uint16
	Fields              []FieldDefinition

	// MessageName and MessageSource come from the profile catalog
	// entry for GlobalMessageNumber.
	MessageName   string
	MessageSource string
}

// ByteOrder returns the integer byte order declared by the
// architecture byte. It is bound once when the definition is decoded
// and carried through every data record that resolves to it.
func (d *Definition) ByteOrder() binary.ByteOrder {
	if d.Architecture == archBigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// FieldByName returns the definition field with the given resolved
// name.
func (d *Definition) FieldByName(name string) (*FieldDefinition, bool) {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return &d.Fields[i], true
		}
	}
	return nil, false
}

// decodeDefinition reads a definition record body at pos. The record
// header has already been consumed; hdr carries its flags. Returns the
// definition and the position after the record.
func decodeDefinition(data []byte, pos int, hdr RecordHeader, cat *profile.Catalog, log *slog.Logger) (*Definition, int, error) {
	read := func(n int) ([]byte, error) {
		if pos+n > len(data) {
			return nil, &truncatedError{what: "definition record", offset: pos}
		}
		out := data[pos : pos+n]
		pos += n
		return out, nil
	}

	fixed, err := read(5)
	if err != nil {
		return nil, 0, err
	}
	d := &Definition{
		Reserved:     fixed[0],
		Architecture: fixed[1],
	}
	if d.Architecture != archLittleEndian && d.Architecture != archBigEndian {
		return nil, 0, &InvalidArchitectureError{Value: d.Architecture}
	}
	d.GlobalMessageNumber = d.ByteOrder().Uint16(fixed[2:4])

	msg, ok := cat.MessageByNumber(d.GlobalMessageNumber)
	if !ok {
		return nil, 0, &UnknownGlobalMessageError{Number: d.GlobalMessageNumber}
	}
	d.MessageName = msg.Name
	d.MessageSource = msg.Source

	fieldCount := int(fixed[4])
	d.Fields = make([]FieldDefinition, 0, fieldCount)
	for i := 0; i < fieldCount; i++ {
		raw, err := read(3)
		if err != nil {
			return nil, 0, err
		}
		fd, err := decodeFieldDefinition([3]byte{raw[0], raw[1], raw[2]}, msg, log)
		if err != nil {
			return nil, 0, err
		}
		d.Fields = append(d.Fields, fd)
	}

	// The developer-field section is parsed for wire compatibility but
	// only an empty one is accepted.
	if hdr.DeveloperDataFlag {
		devCount, err := read(1)
		if err != nil {
			return nil, 0, err
		}
		if devCount[0] != 0 {
			return nil, 0, ErrDeveloperFields
		}
	}

	return d, pos, nil
}

// encode serializes the definition record body (without its record
// header byte). withDevSection mirrors the developer-data flag of the
// record header that will precede it.
func (d *Definition) encode(withDevSection bool) []byte {
	out := make([]byte, 0, 5+3*len(d.Fields)+1)
	out = append(out, 0, d.Architecture)

	var global [2]byte
	d.ByteOrder().PutUint16(global[:], d.GlobalMessageNumber)
	out = append(out, global[0], global[1])

	out = append(out, uint8(len(d.Fields)))
	for _, f := range d.Fields {
		entry := f.encode()
		out = append(out, entry[0], entry[1], entry[2])
	}
	if withDevSection {
		out = append(out, 0)
	}
	return out
}
