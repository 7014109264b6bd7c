package f4r

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Encoder writes registries back out as FIT files. Definitions are
// emitted lazily: a (local number, message name) pair's definition is
// written ahead of its data record when the pair has not been written
// yet and the record's local slot differs from the previous record's.
// A written pair is never written again, and a pair first seen on the
// same slot as the previous record is not written at all; its data
// goes out under the slot's standing definition.
type Encoder struct {
	opts codecOptions
}

// NewEncoder returns an encoder with the given options applied.
func NewEncoder(opts ...Option) *Encoder {
	return &Encoder{opts: resolveOptions(opts)}
}

type defKey struct {
	local uint8
	name  string
}

// Encode writes reg as one FIT segment. The registry is trusted: its
// definitions are used directly, so a registry cloned from a decoded
// file reproduces that file's definition records byte for byte.
func (e *Encoder) Encode(w io.Writer, reg *Registry) error {
	out, err := e.appendSegment(nil, reg)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("f4r: write fit stream: %w", err)
	}
	return nil
}

// EncodeFile writes reg to the file at path, replacing any previous
// contents. The file handle is closed on every exit path.
func (e *Encoder) EncodeFile(path string, reg *Registry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("f4r: create fit file: %w", err)
	}
	defer f.Close()

	if err := e.Encode(f, reg); err != nil {
		return err
	}
	return f.Sync()
}

func (e *Encoder) appendSegment(out []byte, reg *Registry) ([]byte, error) {
	h := reg.Header
	if h.Size == 0 {
		h = NewHeader()
	}

	// Header placeholder; data_size and crc are patched at finalize.
	h.DataSize = 0
	h.CRC = 0
	headerStart := len(out)
	out = append(out, h.encode()...)
	bodyStart := len(out)

	installed := make(map[defKey]bool)
	lastLocal := -1
	var err error

	for _, rec := range reg.Records {
		entry, ok := reg.FindDefinition(rec.LocalMessageNumber, rec.MessageName)
		if !ok {
			return nil, fmt.Errorf("f4r: no definition for message %q at local %d", rec.MessageName, rec.LocalMessageNumber)
		}

		key := defKey{local: rec.LocalMessageNumber, name: rec.MessageName}
		if !installed[key] && int(rec.LocalMessageNumber) != lastLocal {
			out = append(out, entry.Header.encode())
			out = append(out, entry.Definition.encode(entry.Header.DeveloperDataFlag)...)
			installed[key] = true
		}

		out = append(out, dataHeader(rec.LocalMessageNumber).encode())
		out, err = appendDataFields(out, rec, entry.Definition)
		if err != nil {
			return nil, err
		}
		lastLocal = int(rec.LocalMessageNumber)
	}

	// Trailing CRC over the segment body, then backfill the header.
	bodyLen := len(out) - bodyStart
	var trailer [2]byte
	binary.LittleEndian.PutUint16(trailer[:], Checksum(out[bodyStart:]))
	out = append(out, trailer[0], trailer[1])

	binary.LittleEndian.PutUint32(out[headerStart+4:headerStart+8], uint32(bodyLen))
	if h.Size == headerSizeCRC {
		crc := Checksum(out[headerStart : headerStart+headerSizeCRC-2])
		binary.LittleEndian.PutUint16(out[headerStart+headerSizeCRC-2:headerStart+headerSizeCRC], crc)
	}
	return out, nil
}

// Encode writes reg as one FIT segment using the default encoder.
func Encode(w io.Writer, reg *Registry) error {
	return NewEncoder().Encode(w, reg)
}

// EncodeFile writes reg to path using the default encoder.
func EncodeFile(path string, reg *Registry) error {
	return NewEncoder().EncodeFile(path, reg)
}
