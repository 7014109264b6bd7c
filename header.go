package f4r

import (
	"encoding/binary"
)

const (
	headerSizeNoCRC = 12
	headerSizeCRC   = 14

	fileMagic = ".FIT"

	defaultProtocolVersion = 16
	defaultProfileVersion  = 2093
)

// Header is the fixed-width preamble of one file segment. A file holds
// one or more chained segments, each with its own header, body and
// trailing CRC.
type Header struct {
	Size            uint8
	ProtocolVersion uint8
	ProfileVersion  uint16
	DataSize        uint32
	DataType        string
	CRC             uint16
}

// NewHeader returns a 14-byte header with the protocol defaults and a
// zero data size. The encoder backfills DataSize and CRC at finalize.
func NewHeader() Header {
	return Header{
		Size:            headerSizeCRC,
		ProtocolVersion: defaultProtocolVersion,
		ProfileVersion:  defaultProfileVersion,
		DataType:        fileMagic,
	}
}

// decodeHeader reads and validates one segment header at offset. The
// file CRC over the segment body is verified here as well, so callers
// past this point can trust the body bytes.
func decodeHeader(data []byte, offset int) (Header, error) {
	if len(data)-offset < headerSizeNoCRC {
		return Header{}, &truncatedError{what: "file header", offset: offset}
	}
	raw := data[offset:]

	h := Header{
		Size:            raw[0],
		ProtocolVersion: raw[1],
		ProfileVersion:  binary.LittleEndian.Uint16(raw[2:4]),
		DataSize:        binary.LittleEndian.Uint32(raw[4:8]),
		DataType:        string(raw[8:12]),
	}
	if h.Size != headerSizeNoCRC && h.Size != headerSizeCRC {
		return Header{}, &UnsupportedHeaderError{Size: h.Size}
	}
	if h.DataType != fileMagic {
		return Header{}, &BadMagicError{Got: h.DataType}
	}
	if h.Size == headerSizeCRC {
		if len(raw) < headerSizeCRC {
			return Header{}, &truncatedError{what: "file header crc", offset: offset}
		}
		h.CRC = binary.LittleEndian.Uint16(raw[12:14])
		if h.CRC != 0 {
			computed := Checksum(raw[:headerSizeCRC-2])
			if computed != h.CRC {
				return Header{}, &HeaderCRCMismatchError{Computed: computed, Found: h.CRC}
			}
		}
	}

	bodyStart := offset + int(h.Size)
	bodyEnd := bodyStart + int(h.DataSize)
	if bodyEnd+2 > len(data) {
		return Header{}, &truncatedError{what: "segment body", offset: bodyStart}
	}
	stored := binary.LittleEndian.Uint16(data[bodyEnd : bodyEnd+2])
	computed := Checksum(data[bodyStart:bodyEnd])
	if computed != stored {
		return Header{}, &FileCRCMismatchError{Computed: computed, Found: stored}
	}

	return h, nil
}

func (h Header) encode() []byte {
	out := make([]byte, h.Size)
	out[0] = h.Size
	out[1] = h.ProtocolVersion
	binary.LittleEndian.PutUint16(out[2:4], h.ProfileVersion)
	binary.LittleEndian.PutUint32(out[4:8], h.DataSize)
	copy(out[8:12], h.DataType)
	if h.Size == headerSizeCRC {
		binary.LittleEndian.PutUint16(out[12:14], h.CRC)
	}
	return out
}
