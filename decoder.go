package f4r

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jpablobr/f4r/profile"
)

// codecOptions is shared decoder/encoder configuration.
type codecOptions struct {
	catalog *profile.Catalog
	log     *slog.Logger
}

// Option configures a Decoder or Encoder.
type Option func(*codecOptions)

// WithCatalog sets the profile catalog. Defaults to the embedded
// profile tables.
func WithCatalog(cat *profile.Catalog) Option {
	return func(o *codecOptions) { o.catalog = cat }
}

// WithLogger sets the sink for decode warnings (unknown base types,
// unknown field numbers). Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(o *codecOptions) { o.log = log }
}

func resolveOptions(opts []Option) codecOptions {
	o := codecOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.catalog == nil {
		o.catalog = profile.Default()
	}
	if o.log == nil {
		o.log = slog.Default()
	}
	return o
}

// Decoder reads FIT files into registries. A Decoder is stateless
// between calls and may be reused; one call owns its stream
// exclusively.
type Decoder struct {
	opts codecOptions
}

// NewDecoder returns a decoder with the given options applied.
func NewDecoder(opts ...Option) *Decoder {
	return &Decoder{opts: resolveOptions(opts)}
}

// Decode reads every chained segment from r.
func (d *Decoder) Decode(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("f4r: read stream: %w", err)
	}
	return d.DecodeBytes(data)
}

// DecodeFile decodes the FIT file at path. The file handle is closed
// on every exit path.
func (d *Decoder) DecodeFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("f4r: open fit file: %w", err)
	}
	defer f.Close()
	return d.Decode(f)
}

// DecodeBytes decodes an in-memory FIT image. One registry is produced
// per chained segment; any error aborts the whole decode with no
// partial result.
func (d *Decoder) DecodeBytes(data []byte) (*File, error) {
	if len(data) < headerSizeNoCRC {
		return nil, &truncatedError{what: "fit file", offset: 0}
	}

	file := &File{}
	offset := 0
	for offset < len(data) {
		reg, next, err := d.decodeSegment(data, offset)
		if err != nil {
			return nil, err
		}
		file.Registries = append(file.Registries, reg)
		offset = next
	}
	return file, nil
}

func (d *Decoder) decodeSegment(data []byte, offset int) (*Registry, int, error) {
	h, err := decodeHeader(data, offset)
	if err != nil {
		return nil, 0, err
	}

	reg := &Registry{Header: h}
	pos := offset + int(h.Size)
	end := pos + int(h.DataSize)

	for pos < end {
		hdr, err := decodeRecordHeader(data[pos])
		if err != nil {
			return nil, 0, err
		}
		pos++

		if hdr.Definition {
			def, next, err := decodeDefinition(data, pos, hdr, d.opts.catalog, d.opts.log)
			if err != nil {
				return nil, 0, err
			}
			reg.InstallDefinition(hdr.LocalMessageType, hdr, def)
			pos = next
			continue
		}

		entry, ok := reg.FindDefinition(hdr.LocalMessageType, "")
		if !ok {
			return nil, 0, fmt.Errorf("f4r: no active definition for local message %d at offset %d", hdr.LocalMessageType, pos-1)
		}
		fields, next, err := decodeDataFields(data, pos, entry.Definition)
		if err != nil {
			return nil, 0, err
		}
		def := entry.Definition
		reg.AppendRecord(&Record{
			MessageName:        def.MessageName,
			MessageNumber:      def.GlobalMessageNumber,
			MessageSource:      def.MessageSource,
			LocalMessageNumber: hdr.LocalMessageType,
			Fields:             fields,
		})
		pos = next
	}
	if pos != end {
		return nil, 0, fmt.Errorf("f4r: record overran segment body: consumed to %d, body ends at %d", pos, end)
	}

	// The trailing CRC was verified alongside the header.
	return reg, end + 2, nil
}

// Decode reads every chained segment from r using the default decoder.
func Decode(r io.Reader) (*File, error) {
	return NewDecoder().Decode(r)
}

// DecodeFile decodes the FIT file at path using the default decoder.
func DecodeFile(path string) (*File, error) {
	return NewDecoder().DecodeFile(path)
}
