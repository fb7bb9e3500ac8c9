// Package qsf decodes survey definition documents (QSF) into a generic,
// order-preserving tree and exposes the document-level structure on top of it.
//
// # Architecture
//
// Decoding is the first of two phases:
//  1. Parse turns JSON bytes into a tree of Values. Objects keep their key
//     insertion order because the survey platform encodes display order in
//     map iteration order more often than it should.
//  2. The survey package walks SQ-tagged elements of the Document and upgrades
//     them into concrete question variants.
//
// Nothing in this package knows about question kinds.
package qsf

import (
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies the JSON type held by a Value
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
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

// Value is one node of the decoded document.
// A nil *Value behaves like JSON null, so lookups can be chained without checks.
type Value struct {
	kind Kind
	b    bool
	num  float64
	str  string // string value, or raw literal for numbers
	arr  []*Value
	obj  *Object
}

// Object is an insertion-ordered JSON object
type Object struct {
	fields *orderedmap.OrderedMap[string, *Value]
}

// NewObject returns an empty ordered object
func NewObject() *Object {
	return &Object{fields: orderedmap.New[string, *Value]()}
}

// Null returns a null value
func Null() *Value { return &Value{kind: KindNull} }

// Bool wraps a boolean
func Bool(b bool) *Value { return &Value{kind: KindBool, b: b} }

// Number wraps a number
func Number(f float64) *Value {
	return &Value{kind: KindNumber, num: f, str: FormatNumber(f)}
}

// String wraps a string
func String(s string) *Value { return &Value{kind: KindString, str: s} }

// Array wraps a list of values
func Array(items ...*Value) *Value { return &Value{kind: KindArray, arr: items} }

// ObjectValue wraps an object
func ObjectValue(o *Object) *Value {
	if o == nil {
		o = NewObject()
	}
	return &Value{kind: KindObject, obj: o}
}

// Kind reports the JSON type; nil values are null
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether the value is absent or JSON null
func (v *Value) IsNull() bool { return v.Kind() == KindNull }

// Object returns the object payload, or nil when v is not an object
func (v *Value) Object() *Object {
	if v.Kind() != KindObject {
		return nil
	}
	return v.obj
}

// Array returns the array items, or nil when v is not an array
func (v *Value) Array() []*Value {
	if v.Kind() != KindArray {
		return nil
	}
	return v.arr
}

// Get looks up a key when v is an object; any other kind yields nil
func (v *Value) Get(key string) *Value {
	return v.Object().Get(key)
}

// Path follows a chain of object keys
func (v *Value) Path(keys ...string) *Value {
	cur := v
	for _, k := range keys {
		cur = cur.Get(k)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Str renders scalars as text. Numbers use their normalized form, booleans
// "true"/"false"; null and containers yield "".
func (v *Value) Str() string {
	switch v.Kind() {
	case KindString, KindNumber:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Float converts numbers and numeric strings. ok is false for anything else.
func (v *Value) Float() (float64, bool) {
	switch v.Kind() {
	case KindNumber:
		return v.num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Truthy interprets the loose booleans found in QSF payloads: true,
// "true" (any case), and non-zero numbers.
func (v *Value) Truthy() bool {
	switch v.Kind() {
	case KindBool:
		return v.b
	case KindString:
		return strings.EqualFold(strings.TrimSpace(v.str), "true")
	case KindNumber:
		return v.num != 0
	default:
		return false
	}
}

// Len returns the number of entries of an object or array
func (v *Value) Len() int {
	switch v.Kind() {
	case KindObject:
		return v.obj.Len()
	case KindArray:
		return len(v.arr)
	default:
		return 0
	}
}

// Empty reports whether v is null, an empty container, or the literal false.
// The platform writes `false` where it means "no map".
func (v *Value) Empty() bool {
	switch v.Kind() {
	case KindNull:
		return true
	case KindBool:
		return !v.b
	case KindObject, KindArray:
		return v.Len() == 0
	case KindString:
		return v.str == ""
	default:
		return false
	}
}

// Get returns the value stored under key, or nil
func (o *Object) Get(key string) *Value {
	if o == nil {
		return nil
	}
	v, _ := o.fields.Get(key)
	return v
}

// Has reports whether key is present, even with a null value
func (o *Object) Has(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o.fields.Get(key)
	return ok
}

// Set stores a value, keeping the original position of an existing key
func (o *Object) Set(key string, v *Value) {
	o.fields.Set(key, v)
}

// Len returns the number of keys
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return o.fields.Len()
}

// Keys returns the keys in insertion order
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, 0, o.fields.Len())
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Each visits entries in insertion order until fn returns false
func (o *Object) Each(fn func(key string, v *Value) bool) {
	if o == nil {
		return
	}
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Entries normalizes an object or an array into ordered (key, value) pairs.
// Array items are keyed by their index. Several QSF maps (block payloads,
// choice lists of empty questions) arrive in either shape.
func (v *Value) Entries() []Entry {
	switch v.Kind() {
	case KindObject:
		out := make([]Entry, 0, v.obj.Len())
		v.obj.Each(func(k string, item *Value) bool {
			out = append(out, Entry{Key: k, Value: item})
			return true
		})
		return out
	case KindArray:
		out := make([]Entry, 0, len(v.arr))
		for i, item := range v.arr {
			out = append(out, Entry{Key: strconv.Itoa(i), Value: item})
		}
		return out
	default:
		return nil
	}
}

// Entry is one key/value pair of an object or indexed array item
type Entry struct {
	Key   string
	Value *Value
}
