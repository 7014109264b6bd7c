package f4r

import (
	"errors"
	"fmt"
)

// Sentinel errors for record features the codec does not support.
var (
	// ErrCompressedTimestamp is returned for compressed-timestamp
	// record headers (bit 7 set).
	ErrCompressedTimestamp = errors.New("f4r: compressed timestamp record headers are not supported")

	// ErrDeveloperFields is returned when a definition declares a
	// nonzero developer-field count.
	ErrDeveloperFields = errors.New("f4r: developer data fields are not supported")
)

// UnsupportedHeaderError reports a header size outside {12, 14}.
type UnsupportedHeaderError struct {
	Size uint8
}

func (e *UnsupportedHeaderError) Error() string {
	return fmt.Sprintf("f4r: unsupported header size %d (want 12 or 14)", e.Size)
}

// BadMagicError reports a data_type field that is not ".FIT".
type BadMagicError struct {
	Got string
}

func (e *BadMagicError) Error() string {
	return fmt.Sprintf("f4r: bad header magic %q (want %q)", e.Got, fileMagic)
}

// HeaderCRCMismatchError reports a stored header CRC that does not
// match the CRC computed over the first header_size-2 bytes.
type HeaderCRCMismatchError struct {
	Computed uint16
	Found    uint16
}

func (e *HeaderCRCMismatchError) Error() string {
	return fmt.Sprintf("f4r: header crc mismatch: computed 0x%04X, found 0x%04X", e.Computed, e.Found)
}

// FileCRCMismatchError reports a trailing segment CRC that does not
// match the CRC computed over the segment body.
type FileCRCMismatchError struct {
	Computed uint16
	Found    uint16
}

func (e *FileCRCMismatchError) Error() string {
	return fmt.Sprintf("f4r: file crc mismatch: computed 0x%04X, found 0x%04X", e.Computed, e.Found)
}

// InvalidArchitectureError reports a definition architecture byte other
// than 0 (little-endian) or 1 (big-endian).
type InvalidArchitectureError struct {
	Value uint8
}

func (e *InvalidArchitectureError) Error() string {
	return fmt.Sprintf("f4r: invalid architecture byte %d", e.Value)
}

// UnknownGlobalMessageError reports a definition whose global message
// number is absent from the profile catalog.
type UnknownGlobalMessageError struct {
	Number uint16
}

func (e *UnknownGlobalMessageError) Error() string {
	return fmt.Sprintf("f4r: unknown global message number %d", e.Number)
}

// InvalidFieldWidthError reports a field byte count that is not a
// positive multiple of its base type width.
type InvalidFieldWidthError struct {
	Field     string
	ByteCount uint8
	BaseWidth int
}

func (e *InvalidFieldWidthError) Error() string {
	return fmt.Sprintf("f4r: field %s: byte count %d is not a multiple of base width %d", e.Field, e.ByteCount, e.BaseWidth)
}

// UnknownBaseTypeError reports a base type number absent from the base
// type table. The decoder does not return or log this error: it logs a
// warning message and continues with the value passed through as raw
// bytes.
type UnknownBaseTypeError struct {
	Number uint8
}

func (e *UnknownBaseTypeError) Error() string {
	return fmt.Sprintf("f4r: unknown base type number 0x%02X", e.Number)
}

// truncatedError reports input that ends before a declared structure.
type truncatedError struct {
	what   string
	offset int
}

func (e *truncatedError) Error() string {
	return fmt.Sprintf("f4r: truncated %s at offset %d", e.what, e.offset)
}

// MissingProfileMessageError reports an encode request for a message
// name the profile catalog does not know.
type MissingProfileMessageError struct {
	Name string
}

func (e *MissingProfileMessageError) Error() string {
	return fmt.Sprintf("f4r: message %q is not in the profile catalog", e.Name)
}
