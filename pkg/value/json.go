package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// FromInterface converts a Go value produced by encoding/json (or built by
// hand from map[string]interface{}/[]interface{}/string/float64/bool/nil)
// into a Value. Unsupported types (channels, funcs, etc.) produce an error.
//
// Because Go maps have no defined iteration order, object keys are sorted
// lexicographically here. Callers that need to preserve the original
// declaration order of a JSON document should decode with ParseJSON instead
// of unmarshaling into map[string]interface{} first.
func FromInterface(in interface{}) (Value, error) {
	switch x := in.(type) {
	case nil:
		return NullValue, nil
	case bool:
		return NewBool(x), nil
	case float64:
		return NewNumber(x), nil
	case float32:
		return NewNumber(float64(x)), nil
	case int:
		return NewNumber(float64(x)), nil
	case int64:
		return NewNumber(float64(x)), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return NullValue, fmt.Errorf("value: invalid json.Number %q: %w", x, err)
		}
		return NewNumber(f), nil
	case string:
		return NewString(x), nil
	case []interface{}:
		items := make([]Value, len(x))
		for i, e := range x {
			v, err := FromInterface(e)
			if err != nil {
				return NullValue, err
			}
			items[i] = v
		}
		return NewArray(items), nil
	case map[string]interface{}:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]Member, len(keys))
		for i, k := range keys {
			v, err := FromInterface(x[k])
			if err != nil {
				return NullValue, err
			}
			members[i] = Member{Key: k, Val: v}
		}
		return NewObject(members), nil
	default:
		return NullValue, fmt.Errorf("value: unsupported Go type %T", in)
	}
}

// ToInterface converts a Value back into plain Go data suitable for
// encoding/json.Marshal (map[string]interface{}, []interface{}, string,
// float64, bool, nil).
func (v Value) ToInterface() interface{} {
	switch v.kind {
	case Null:
		return nil
	case Bool:
		return v.b
	case Number:
		return v.n
	case String:
		return v.s
	case Array:
		out := make([]interface{}, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.ToInterface()
		}
		return out
	case Object:
		out := make(map[string]interface{}, len(v.obj))
		for _, m := range v.obj {
			out[m.Key] = m.Val.ToInterface()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler, preserving object key order
// (encoding/json's map marshaling would otherwise sort keys alphabetically).
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case Null:
		return []byte("null"), nil
	case Bool:
		return json.Marshal(v.b)
	case Number:
		return json.Marshal(v.n)
	case String:
		return json.Marshal(v.s)
	case Array:
		buf := []byte{'['}
		for i, e := range v.arr {
			if i > 0 {
				buf = append(buf, ',')
			}
			b, err := e.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf = append(buf, b...)
		}
		buf = append(buf, ']')
		return buf, nil
	case Object:
		buf := []byte{'{'}
		for i, m := range v.obj {
			if i > 0 {
				buf = append(buf, ',')
			}
			kb, err := json.Marshal(m.Key)
			if err != nil {
				return nil, err
			}
			buf = append(buf, kb...)
			buf = append(buf, ':')
			vb, err := m.Val.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf = append(buf, vb...)
		}
		buf = append(buf, '}')
		return buf, nil
	default:
		return []byte("null"), nil
	}
}

// ParseJSON decodes JSON text into a Value, preserving object key
// declaration order (unlike naive unmarshaling through map[string]any,
// which Go's map iteration would scramble).
func ParseJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return NullValue, err
	}
	if dec.More() {
		return NullValue, fmt.Errorf("value: trailing data after JSON value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return NullValue, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return NullValue, nil
	case bool:
		return NewBool(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return NullValue, fmt.Errorf("value: invalid number %q: %w", t, err)
		}
		return NewNumber(f), nil
	case string:
		return NewString(t), nil
	case json.Delim:
		switch t {
		case '[':
			items := []Value{}
			for dec.More() {
				e, err := decodeValue(dec)
				if err != nil {
					return NullValue, err
				}
				items = append(items, e)
			}
			if _, err := dec.Token(); err != nil { // closing ']'
				return NullValue, err
			}
			return NewArray(items), nil
		case '{':
			members := []Member{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return NullValue, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return NullValue, fmt.Errorf("value: expected object key, got %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return NullValue, err
				}
				members = append(members, Member{Key: key, Val: val})
			}
			if _, err := dec.Token(); err != nil { // closing '}'
				return NullValue, err
			}
			return NewObjectDedup(members), nil
		}
	}
	return NullValue, fmt.Errorf("value: unexpected token %v", tok)
}

// UnmarshalJSON implements json.Unmarshaler via ParseJSON, preserving
// object key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	decoded, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}
