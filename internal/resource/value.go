package resource

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
)

// ValueKind enumerates the variants of Value.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

// String returns a human-readable kind name.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a closed union of the values a resource can hold.
// The zero Value is Null.
type Value struct {
	kind ValueKind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []Value
	obj  *Object
}

// Object is an object value with a stable key order.
type Object struct {
	keys   []string
	fields map[string]Value
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{fields: make(map[string]Value)}
}

// Set adds or replaces a field, keeping first-insertion order.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.fields[key]; !ok {
		o.keys = append(o.keys, key)
	}

	o.fields[key] = v
}

// Get returns the field value for key.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.fields[key]
	return v, ok
}

// Keys returns the field names in insertion order.
func (o *Object) Keys() []string {
	return o.keys
}

// Len returns the number of fields.
func (o *Object) Len() int {
	return len(o.keys)
}

// Constructors for each variant.

func Null() Value { return Value{} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }
func Int(i int64) Value { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func String(s string) Value { return Value{kind: KindString, s: s} }
func Array(items []Value) Value { return Value{kind: KindArray, arr: items} }

// ObjectValue wraps an object.
func ObjectValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}

	return Value{kind: KindObject, obj: o}
}

// Strings builds an array of string values.
func Strings(items ...string) Value {
	out := make([]Value, len(items))
	for i, s := range items {
		out[i] = String(s)
	}

	return Array(out)
}

// Kind returns the variant held by v.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsScalar reports whether v is neither an array nor an object.
func (v Value) IsScalar() bool { return v.kind != KindArray && v.kind != KindObject }

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer payload.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the numeric payload as a float.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// AsString returns the string payload.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsArray returns the array items.
func (v Value) AsArray() ([]Value, bool) { return v.arr, v.kind == KindArray }

// AsObject returns the object payload.
func (v Value) AsObject() (*Object, bool) { return v.obj, v.kind == KindObject }

// Len returns the number of children of a container, or 0 for scalars.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return v.obj.Len()
	default:
		return 0
	}
}

// Child returns the child selected by idx.
func (v Value) Child(idx Index) (Value, bool) {
	switch v.kind {
	case KindArray:
		if idx.IsStr || idx.Int < 0 || idx.Int >= len(v.arr) {
			return Value{}, false
		}

		return v.arr[idx.Int], true
	case KindObject:
		if idx.IsStr {
			return v.obj.Get(idx.Str)
		}

		return v.obj.Get(strconv.Itoa(idx.Int))
	default:
		return Value{}, false
	}
}

// Key returns a canonical string used to hash and compare scalar values.
// Integral floats share the key of the equal integer so that values coming
// from different formats join.
func (v Value) Key() string {
	switch v.kind {
	case KindNull:
		return "z"
	case KindBool:
		if v.b {
			return "b:1"
		}

		return "b:0"
	case KindInt:
		return "n:" + strconv.FormatInt(v.i, 10)
	case KindFloat:
		if v.f == math.Trunc(v.f) && math.Abs(v.f) < 1e15 {
			return "n:" + strconv.FormatInt(int64(v.f), 10)
		}

		return "n:" + strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return "s:" + v.s
	default:
		return "x:" + v.String()
	}
}

// String returns the lexical form of a scalar, or JSON for containers.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	default:
		data, err := json.Marshal(v.ToAny())
		if err != nil {
			return fmt.Sprintf("<%s>", v.kind)
		}

		return string(data)
	}
}

// ToAny converts v to plain Go values (nil, bool, int64, float64, string,
// []any, map[string]any).
func (v Value) ToAny() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.ToAny()
		}

		return out
	case KindObject:
		out := make(map[string]any, v.obj.Len())
		for _, k := range v.obj.keys {
			out[k] = v.obj.fields[k].ToAny()
		}

		return out
	default:
		return nil
	}
}

// FromAny converts decoded JSON or YAML data into a Value. Map keys are
// sorted because decoders do not preserve document order.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return Float(float64(t)), nil
		}

		return Int(int64(t)), nil
	case float64:
		return Float(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i), nil
		}

		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", t.String(), err)
		}

		return Float(f), nil
	case string:
		return String(t), nil
	case []any:
		items := make([]Value, len(t))

		for i, item := range t {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}

			items[i] = v
		}

		return Array(items), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		obj := NewObject()

		for _, k := range keys {
			v, err := FromAny(t[k])
			if err != nil {
				return Value{}, err
			}

			obj.Set(k, v)
		}

		return ObjectValue(obj), nil
	case map[any]any:
		conv := make(map[string]any, len(t))
		for k, v := range t {
			conv[fmt.Sprint(k)] = v
		}

		return FromAny(conv)
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", x)
	}
}
