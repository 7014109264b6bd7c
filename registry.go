package f4r

import (
	"github.com/jpablobr/f4r/profile"
)

// FieldValue is one decoded field of a data record.
type FieldValue struct {
	Value         any
	BaseType      BaseType
	Properties    *profile.Field
	MessageName   string
	MessageNumber uint16
}

// Record is one decoded data record, in stream order.
type Record struct {
	Index              int
	MessageName        string
	MessageNumber      uint16
	MessageSource      string
	LocalMessageNumber uint8
	Fields             map[string]FieldValue
}

// Field returns the raw decoded value for name, or nil when the record
// does not carry the field.
func (r *Record) Field(name string) any {
	if fv, ok := r.Fields[name]; ok {
		return fv.Value
	}
	return nil
}

// DefinitionEntry binds a definition record to the local slot it was
// installed at.
type DefinitionEntry struct {
	LocalMessageNumber uint8
	MessageName        string
	Header             RecordHeader
	Definition         *Definition
}

// Registry holds one segment's header, its records in stream order and
// the active definition table. The table is append-only: redefining a
// local slot appends, and lookup scans newest-to-oldest so the new
// binding shadows the old.
type Registry struct {
	Header      Header
	Records     []*Record
	Definitions []DefinitionEntry
}

// NewRegistry returns a registry with a default header and no records.
func NewRegistry() *Registry {
	return &Registry{Header: NewHeader()}
}

// AppendRecord adds rec to the registry, stamping its stream index.
func (r *Registry) AppendRecord(rec *Record) {
	rec.Index = len(r.Records)
	r.Records = append(r.Records, rec)
}

// InstallDefinition appends a definition binding for a local slot.
func (r *Registry) InstallDefinition(local uint8, hdr RecordHeader, def *Definition) {
	r.Definitions = append(r.Definitions, DefinitionEntry{
		LocalMessageNumber: local,
		MessageName:        def.MessageName,
		Header:             hdr,
		Definition:         def,
	})
}

// FindDefinition resolves a local message number to its newest
// definition. A non-empty messageName narrows the scan to bindings for
// that message.
func (r *Registry) FindDefinition(local uint8, messageName string) (*DefinitionEntry, bool) {
	for i := len(r.Definitions) - 1; i >= 0; i-- {
		e := &r.Definitions[i]
		if e.LocalMessageNumber != local {
			continue
		}
		if messageName != "" && e.MessageName != messageName {
			continue
		}
		return e, true
	}
	return nil, false
}

// RecordsFor returns the registry's records for one message name, in
// stream order.
func (r *Registry) RecordsFor(messageName string) []*Record {
	var out []*Record
	for _, rec := range r.Records {
		if rec.MessageName == messageName {
			out = append(out, rec)
		}
	}
	return out
}

// File is one decoded FIT file: one registry per chained segment.
type File struct {
	Registries []*Registry
}

// Registry returns the first segment's registry, which is the whole
// file for the single-segment case.
func (f *File) Registry() *Registry {
	if len(f.Registries) == 0 {
		return nil
	}
	return f.Registries[0]
}

// Records returns every data record across all segments, in stream
// order.
func (f *File) Records() []*Record {
	var out []*Record
	for _, reg := range f.Registries {
		out = append(out, reg.Records...)
	}
	return out
}
