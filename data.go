package f4r

import (
	"fmt"
)

// decodeDataFields reads one data payload laid out by def, starting at
// pos. Values come back raw: sentinel encodings decode to their
// sentinel values, string padding is preserved.
func decodeDataFields(data []byte, pos int, def *Definition) (map[string]FieldValue, int, error) {
	order := def.ByteOrder()
	fields := make(map[string]FieldValue, len(def.Fields))

	for _, fd := range def.Fields {
		if pos+int(fd.Size) > len(data) {
			return nil, 0, &truncatedError{what: "data record", offset: pos}
		}
		raw := data[pos : pos+int(fd.Size)]
		pos += int(fd.Size)

		var value any
		switch fd.Shape.Kind {
		case ShapeString:
			value = string(raw)
		case ShapeScalar:
			value = decodeScalar(raw, fd.Base, order)
		case ShapeArray:
			width := fd.Base.Size
			values := make([]any, 0, fd.Shape.Length)
			for i := 0; i < fd.Shape.Length; i++ {
				values = append(values, decodeScalar(raw[i*width:(i+1)*width], fd.Base, order))
			}
			value = values
		}

		fields[fd.Name] = FieldValue{
			Value:         value,
			BaseType:      fd.Base,
			Properties:    fd.Profile,
			MessageName:   def.MessageName,
			MessageNumber: def.GlobalMessageNumber,
		}
	}
	return fields, pos, nil
}

// appendDataFields serializes one data payload for rec against def, in
// declared field order. A field the record does not carry, or carries
// as nil, is written as the base type's undef sentinel (an array of
// sentinels for array shapes).
func appendDataFields(out []byte, rec *Record, def *Definition) ([]byte, error) {
	order := def.ByteOrder()
	var err error

	for _, fd := range def.Fields {
		var value any
		if fv, ok := rec.Fields[fd.Name]; ok {
			value = fv.Value
		}

		switch fd.Shape.Kind {
		case ShapeString:
			s, ok := value.(string)
			if value != nil && !ok {
				return nil, fmt.Errorf("f4r: field %s: cannot encode %T as string", fd.Name, value)
			}
			out = appendPaddedString(out, s, fd.Shape.Length)
		case ShapeScalar:
			out, err = appendScalar(out, value, fd.Base, order)
			if err != nil {
				return nil, fmt.Errorf("f4r: field %s: %w", fd.Name, err)
			}
		case ShapeArray:
			elems := valueSlice(value)
			for i := 0; i < fd.Shape.Length; i++ {
				var elem any
				if i < len(elems) {
					elem = elems[i]
				}
				out, err = appendScalar(out, elem, fd.Base, order)
				if err != nil {
					return nil, fmt.Errorf("f4r: field %s[%d]: %w", fd.Name, i, err)
				}
			}
		}
	}
	return out, nil
}

// appendPaddedString writes s into a fixed-width field, NUL padded.
// Values longer than the field are cut to fit; padding already present
// in s is carried through untouched.
func appendPaddedString(out []byte, s string, width int) []byte {
	b := []byte(s)
	if len(b) > width {
		b = b[:width]
	}
	out = append(out, b...)
	for i := len(b); i < width; i++ {
		out = append(out, 0)
	}
	return out
}
