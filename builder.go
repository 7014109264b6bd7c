package f4r

import (
	"fmt"
	"io"
	"reflect"
	"sort"

	"github.com/jpablobr/f4r/profile"
)

// Message is one untrusted user record handed to the encoder: a
// profile message name, the local slot to write it under, and raw field
// values keyed by profile field name. Omitted or nil fields encode as
// the base type's undef sentinel.
type Message struct {
	Name               string
	LocalMessageNumber uint8
	Fields             map[string]any
}

// EncodeMessages builds minimal definitions from msgs and writes them
// as one FIT segment.
func (e *Encoder) EncodeMessages(w io.Writer, msgs []Message) error {
	reg, err := e.BuildRegistry(msgs)
	if err != nil {
		return err
	}
	return e.Encode(w, reg)
}

// EncodeMessagesWithTemplate writes msgs using the definitions of an
// existing FIT file, preserving its byte-level layout.
func (e *Encoder) EncodeMessagesWithTemplate(w io.Writer, msgs []Message, templatePath string) error {
	reg, err := e.BuildRegistryFromTemplate(msgs, templatePath)
	if err != nil {
		return err
	}
	return e.Encode(w, reg)
}

// BuildRegistry derives little-endian definitions from msgs. For each
// distinct message name the record with the most fields is the
// archetype; its fields, ordered by field definition number, become the
// definition. Field widths come from the supplied values (strings
// round up to the next multiple of 8 strictly above the longest value;
// array lengths follow the longest sibling).
func (e *Encoder) BuildRegistry(msgs []Message) (*Registry, error) {
	reg := NewRegistry()

	var names []string
	groups := make(map[string][]Message)
	for _, m := range msgs {
		if _, ok := groups[m.Name]; !ok {
			names = append(names, m.Name)
		}
		groups[m.Name] = append(groups[m.Name], m)
	}

	defs := make(map[string]*Definition, len(names))
	for _, name := range names {
		def, err := e.buildDefinition(name, groups[name])
		if err != nil {
			return nil, err
		}
		defs[name] = def
	}

	seen := make(map[defKey]bool)
	for _, m := range msgs {
		key := defKey{local: m.LocalMessageNumber, name: m.Name}
		if seen[key] {
			continue
		}
		reg.InstallDefinition(m.LocalMessageNumber, definitionHeader(m.LocalMessageNumber), defs[m.Name])
		seen[key] = true
	}

	if err := e.buildRecords(reg, msgs); err != nil {
		return nil, err
	}
	return reg, nil
}

// BuildRegistryFromTemplate clones the header and definition table of
// the FIT file at templatePath and overlays msgs onto them. Field
// order, byte counts and architecture of the template are preserved
// verbatim; the template's data records are discarded.
func (e *Encoder) BuildRegistryFromTemplate(msgs []Message, templatePath string) (*Registry, error) {
	dec := &Decoder{opts: e.opts}
	file, err := dec.DecodeFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("f4r: decode template: %w", err)
	}
	tmpl := file.Registry()

	reg := &Registry{
		Header:      tmpl.Header,
		Definitions: append([]DefinitionEntry(nil), tmpl.Definitions...),
	}
	if err := e.buildRecords(reg, msgs); err != nil {
		return nil, err
	}
	return reg, nil
}

func (e *Encoder) buildDefinition(name string, records []Message) (*Definition, error) {
	profMsg, ok := e.opts.catalog.MessageByName(name)
	if !ok {
		return nil, &MissingProfileMessageError{Name: name}
	}

	archetype := records[0]
	for _, m := range records[1:] {
		if len(m.Fields) > len(archetype.Fields) {
			archetype = m
		}
	}

	type pending struct {
		pf *profile.Field
		bt BaseType
	}
	var fields []pending
	for fname := range archetype.Fields {
		pf, ok := profMsg.FieldByName(fname)
		if !ok {
			return nil, fmt.Errorf("f4r: message %q has no profile field %q", name, fname)
		}
		btName := e.opts.catalog.BaseTypeName(pf.Type)
		bt, ok := BaseTypeByName(btName)
		if !ok {
			return nil, fmt.Errorf("f4r: field %s.%s: unresolvable type %q", name, fname, pf.Type)
		}
		fields = append(fields, pending{pf: pf, bt: bt})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].pf.Num < fields[j].pf.Num })

	def := &Definition{
		Architecture:        archLittleEndian,
		GlobalMessageNumber: profMsg.Num,
		MessageName:         profMsg.Name,
		MessageSource:       profMsg.Source,
	}
	for _, p := range fields {
		fd := FieldDefinition{
			Number:      uint8(p.pf.Num),
			BaseTypeRaw: p.bt.WireByte(),
			Base:        p.bt,
			baseKnown:   true,
			Name:        p.pf.Name,
			Profile:     p.pf,
		}
		fd.Size = fieldByteCount(p.pf.Name, p.bt, records)
		shape, err := resolveShape(fd)
		if err != nil {
			return nil, err
		}
		fd.Shape = shape
		def.Fields = append(def.Fields, fd)
	}
	return def, nil
}

// fieldByteCount sizes one definition field from the values the user
// records carry. Strings take the next multiple of 8 strictly greater
// than the longest observed value; arrays take the longest observed
// sibling length.
func fieldByteCount(fieldName string, bt BaseType, records []Message) uint8 {
	if bt.Number == BaseString {
		longest := 0
		for _, m := range records {
			if s, ok := m.Fields[fieldName].(string); ok && len(s) > longest {
				longest = len(s)
			}
		}
		return uint8((longest/8)*8 + 8)
	}

	length := 1
	for _, m := range records {
		v, ok := m.Fields[fieldName]
		if !ok || v == nil || !isSliceValue(v) {
			continue
		}
		if n := len(valueSlice(v)); n > length {
			length = n
		}
	}
	return uint8(bt.Size * length)
}

func isSliceValue(v any) bool {
	if _, ok := v.(string); ok {
		return false
	}
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

// buildRecords overlays user values onto the registry's definitions.
// Every definition field is materialized: a value the user did not
// supply becomes the undef sentinel, sized by the definition shape.
func (e *Encoder) buildRecords(reg *Registry, msgs []Message) error {
	for _, m := range msgs {
		entry, ok := reg.FindDefinition(m.LocalMessageNumber, m.Name)
		if !ok {
			return fmt.Errorf("f4r: no definition for message %q at local %d", m.Name, m.LocalMessageNumber)
		}
		def := entry.Definition

		fields := make(map[string]FieldValue, len(def.Fields))
		for _, fd := range def.Fields {
			v := m.Fields[fd.Name]
			if v == nil {
				v = undefFor(fd)
			}
			fields[fd.Name] = FieldValue{
				Value:         v,
				BaseType:      fd.Base,
				Properties:    fd.Profile,
				MessageName:   def.MessageName,
				MessageNumber: def.GlobalMessageNumber,
			}
		}
		for fname := range m.Fields {
			if _, ok := def.FieldByName(fname); !ok {
				e.opts.log.Warn("field not in definition, dropping",
					"message", m.Name, "field", fname)
			}
		}

		reg.AppendRecord(&Record{
			MessageName:        def.MessageName,
			MessageNumber:      def.GlobalMessageNumber,
			MessageSource:      def.MessageSource,
			LocalMessageNumber: m.LocalMessageNumber,
			Fields:             fields,
		})
	}
	return nil
}

func undefFor(fd FieldDefinition) any {
	switch fd.Shape.Kind {
	case ShapeString:
		return ""
	case ShapeArray:
		out := make([]any, fd.Shape.Length)
		for i := range out {
			out[i] = fd.Base.Undef()
		}
		return out
	default:
		return fd.Base.Undef()
	}
}
