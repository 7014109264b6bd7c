package f4r

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
)

// decodeScalar reads one value of the base type from part, which is
// exactly the base width long. Integer values honor the definition's
// byte order. Floats widen to float64.
func decodeScalar(part []byte, bt BaseType, order binary.ByteOrder) any {
	switch bt.Number {
	case BaseEnum, BaseUint8, BaseByte, BaseUint8z:
		return part[0]
	case BaseSint8:
		return int8(part[0])
	case BaseSint16:
		return int16(order.Uint16(part))
	case BaseUint16, BaseUint16z:
		return order.Uint16(part)
	case BaseSint32:
		return int32(order.Uint32(part))
	case BaseUint32, BaseUint32z:
		return order.Uint32(part)
	case BaseFloat32:
		return float64(math.Float32frombits(order.Uint32(part)))
	case BaseFloat64:
		return math.Float64frombits(order.Uint64(part))
	case BaseSint64:
		return int64(order.Uint64(part))
	case BaseUint64, BaseUint64z:
		return order.Uint64(part)
	default:
		return part[0]
	}
}

// appendScalar serializes one value of the base type. nil writes the
// undef sentinel.
func appendScalar(out []byte, v any, bt BaseType, order binary.ByteOrder) ([]byte, error) {
	if v == nil {
		v = bt.Undef()
	}

	var scratch [8]byte
	switch bt.Number {
	case BaseEnum, BaseUint8, BaseByte, BaseUint8z:
		u, ok := coerceUint(v)
		if !ok {
			return nil, coerceError(v, bt)
		}
		return append(out, uint8(u)), nil
	case BaseSint8:
		i, ok := coerceInt(v)
		if !ok {
			return nil, coerceError(v, bt)
		}
		return append(out, uint8(int8(i))), nil
	case BaseSint16:
		i, ok := coerceInt(v)
		if !ok {
			return nil, coerceError(v, bt)
		}
		order.PutUint16(scratch[:2], uint16(int16(i)))
		return append(out, scratch[:2]...), nil
	case BaseUint16, BaseUint16z:
		u, ok := coerceUint(v)
		if !ok {
			return nil, coerceError(v, bt)
		}
		order.PutUint16(scratch[:2], uint16(u))
		return append(out, scratch[:2]...), nil
	case BaseSint32:
		i, ok := coerceInt(v)
		if !ok {
			return nil, coerceError(v, bt)
		}
		order.PutUint32(scratch[:4], uint32(int32(i)))
		return append(out, scratch[:4]...), nil
	case BaseUint32, BaseUint32z:
		u, ok := coerceUint(v)
		if !ok {
			return nil, coerceError(v, bt)
		}
		order.PutUint32(scratch[:4], uint32(u))
		return append(out, scratch[:4]...), nil
	case BaseFloat32:
		f, ok := coerceFloat(v)
		if !ok {
			return nil, coerceError(v, bt)
		}
		order.PutUint32(scratch[:4], math.Float32bits(float32(f)))
		return append(out, scratch[:4]...), nil
	case BaseFloat64:
		f, ok := coerceFloat(v)
		if !ok {
			return nil, coerceError(v, bt)
		}
		order.PutUint64(scratch[:8], math.Float64bits(f))
		return append(out, scratch[:8]...), nil
	case BaseSint64:
		i, ok := coerceInt(v)
		if !ok {
			return nil, coerceError(v, bt)
		}
		order.PutUint64(scratch[:8], uint64(i))
		return append(out, scratch[:8]...), nil
	case BaseUint64, BaseUint64z:
		u, ok := coerceUint(v)
		if !ok {
			return nil, coerceError(v, bt)
		}
		order.PutUint64(scratch[:8], u)
		return append(out, scratch[:8]...), nil
	default:
		u, ok := coerceUint(v)
		if !ok {
			return nil, coerceError(v, bt)
		}
		return append(out, uint8(u)), nil
	}
}

func coerceError(v any, bt BaseType) error {
	return fmt.Errorf("f4r: cannot encode %T as %s", v, bt.Name)
}

// coerceUint accepts the codec's own decoded types plus the plain
// integer kinds callers naturally supply.
func coerceUint(v any) (uint64, bool) {
	switch x := v.(type) {
	case uint8:
		return uint64(x), true
	case uint16:
		return uint64(x), true
	case uint32:
		return uint64(x), true
	case uint64:
		return x, true
	case uint:
		return uint64(x), true
	case int8:
		return uint64(x), x >= 0
	case int16:
		return uint64(x), x >= 0
	case int32:
		return uint64(x), x >= 0
	case int64:
		return uint64(x), x >= 0
	case int:
		return uint64(x), x >= 0
	case float64:
		return uint64(x), x >= 0 && x == math.Trunc(x)
	default:
		return 0, false
	}
}

func coerceInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case int:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), x <= math.MaxInt64
	case uint:
		return int64(x), true
	case float64:
		return int64(x), x == math.Trunc(x)
	default:
		return 0, false
	}
}

func coerceFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}

// valueSlice views v as a slice of elements for array encoding. A
// scalar becomes a one-element slice.
func valueSlice(v any) []any {
	if v == nil {
		return nil
	}
	if vs, ok := v.([]any); ok {
		return vs
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
