// Copyright 2015-2017 Piprate Limited
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ld

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	NullKind Kind = iota
	BoolKind
	NumberKind
	StringKind
	ArrayKind
	ObjectKind
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case BoolKind:
		return "boolean"
	case NumberKind:
		return "number"
	case StringKind:
		return "string"
	case ArrayKind:
		return "array"
	case ObjectKind:
		return "object"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Value is a JSON value: null, boolean, number, string, array or object.
// The zero Value is null.
//
// Values are treated as immutable. Arrays and objects wrapped in a Value
// must not be modified after wrapping; algorithms build new values instead.
type Value struct {
	kind  Kind
	b     bool
	isInt bool
	i     int64
	f     float64
	s     string
	arr   []Value
	obj   *Object
}

// Null is the JSON null value.
var Null = Value{}

func NewBool(b bool) Value {
	return Value{kind: BoolKind, b: b}
}

// NewInt returns an integer number.
func NewInt(i int64) Value {
	return Value{kind: NumberKind, isInt: true, i: i, f: float64(i)}
}

// NewFloat returns a double number. The value keeps its double-ness even when
// it has no fractional part.
func NewFloat(f float64) Value {
	return Value{kind: NumberKind, f: f}
}

func NewString(s string) Value {
	return Value{kind: StringKind, s: s}
}

// NewArray wraps the given values. The slice is owned by the returned Value.
func NewArray(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: ArrayKind, arr: items}
}

// NewObjectValue wraps an object. The object must not be modified afterwards.
func NewObjectValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: ObjectKind, obj: o}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool   { return v.kind == NullKind }
func (v Value) IsBool() bool   { return v.kind == BoolKind }
func (v Value) IsNumber() bool { return v.kind == NumberKind }
func (v Value) IsString() bool { return v.kind == StringKind }
func (v Value) IsArray() bool  { return v.kind == ArrayKind }
func (v Value) IsObject() bool { return v.kind == ObjectKind }

// IsScalar reports whether v is a string, number or boolean.
func (v Value) IsScalar() bool {
	return v.kind == StringKind || v.kind == NumberKind || v.kind == BoolKind
}

// IsInteger reports whether v is a number that was created as an integer.
func (v Value) IsInteger() bool { return v.kind == NumberKind && v.isInt }

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == BoolKind
}

func (v Value) AsString() (string, bool) {
	return v.s, v.kind == StringKind
}

// Str returns the string held by v, or "" when v is not a string.
func (v Value) Str() string {
	return v.s
}

func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == NumberKind && v.isInt
}

// AsFloat returns any number as float64.
func (v Value) AsFloat() (float64, bool) {
	return v.f, v.kind == NumberKind
}

func (v Value) AsArray() ([]Value, bool) {
	return v.arr, v.kind == ArrayKind
}

func (v Value) AsObject() (*Object, bool) {
	return v.obj, v.kind == ObjectKind
}

// Items returns the elements of an array, or nil for other kinds.
func (v Value) Items() []Value {
	if v.kind != ArrayKind {
		return nil
	}
	return v.arr
}

// Object returns the object held by v, or nil. All read methods of a nil
// *Object behave like an empty object.
func (v Value) Object() *Object {
	if v.kind != ObjectKind {
		return nil
	}
	return v.obj
}

// Get is a shortcut for v.Object().Get(key).
func (v Value) Get(key string) (Value, bool) {
	return v.Object().Get(key)
}

// Val is a shortcut for v.Object().Val(key).
func (v Value) Val(key string) Value {
	return v.Object().Val(key)
}

// Has is a shortcut for v.Object().Has(key).
func (v Value) Has(key string) bool {
	return v.Object().Has(key)
}

// Equal performs a deep comparison. Object key order is ignored, array order
// is not. Integers and doubles with the same numeric value are equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case NullKind:
		return true
	case BoolKind:
		return v.b == other.b
	case NumberKind:
		if v.isInt && other.isInt {
			return v.i == other.i
		}
		return v.f == other.f
	case StringKind:
		return v.s == other.s
	case ArrayKind:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case ObjectKind:
		return v.obj.Equal(other.obj)
	}
	return false
}

// Interface converts v into the generic Go representation used by
// encoding/json: nil, bool, int64/float64, string, []interface{} and
// map[string]interface{}.
func (v Value) Interface() interface{} {
	switch v.kind {
	case BoolKind:
		return v.b
	case NumberKind:
		if v.isInt {
			return v.i
		}
		return v.f
	case StringKind:
		return v.s
	case ArrayKind:
		res := make([]interface{}, len(v.arr))
		for i, item := range v.arr {
			res[i] = item.Interface()
		}
		return res
	case ObjectKind:
		res := make(map[string]interface{}, v.obj.Len())
		for _, k := range v.obj.keys {
			res[k] = v.obj.values[k].Interface()
		}
		return res
	}
	return nil
}

// String returns the JSON text of v.
func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return string(b)
}

// FromInterface converts a generic Go value (as produced by encoding/json
// or written by hand) into a Value. Keys of Go maps carry no order, so they
// are inserted in lexicographic order.
func FromInterface(in interface{}) (Value, error) {
	switch t := in.(type) {
	case nil:
		return Null, nil
	case Value:
		return t, nil
	case *Object:
		return NewObjectValue(t), nil
	case bool:
		return NewBool(t), nil
	case string:
		return NewString(t), nil
	case int:
		return NewInt(int64(t)), nil
	case int32:
		return NewInt(int64(t)), nil
	case int64:
		return NewInt(t), nil
	case uint32:
		return NewInt(int64(t)), nil
	case float32:
		return NewFloat(float64(t)), nil
	case float64:
		return NewFloat(t), nil
	case json.Number:
		return numberFromText(string(t))
	case []interface{}:
		items := make([]Value, len(t))
		for i, item := range t {
			val, err := FromInterface(item)
			if err != nil {
				return Null, err
			}
			items[i] = val
		}
		return NewArray(items...), nil
	case []string:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = NewString(item)
		}
		return NewArray(items...), nil
	case []map[string]interface{}:
		items := make([]Value, len(t))
		for i, item := range t {
			val, err := FromInterface(item)
			if err != nil {
				return Null, err
			}
			items[i] = val
		}
		return NewArray(items...), nil
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		o := NewObject()
		for _, k := range keys {
			val, err := FromInterface(t[k])
			if err != nil {
				return Null, err
			}
			o.Set(k, val)
		}
		return NewObjectValue(o), nil
	case map[string]string:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		o := NewObject()
		for _, k := range keys {
			o.Set(k, NewString(t[k]))
		}
		return NewObjectValue(o), nil
	}
	return Null, fmt.Errorf("unsupported JSON value type %T", in)
}

// MustValue is like FromInterface but panics on unsupported input. It is
// meant for literals in tests and examples.
func MustValue(in interface{}) Value {
	v, err := FromInterface(in)
	if err != nil {
		panic(err)
	}
	return v
}

// Arrayify returns the elements of an array, a one element slice holding v,
// or nothing when v is null.
func Arrayify(v Value) []Value {
	switch v.kind {
	case ArrayKind:
		return v.arr
	case NullKind:
		return nil
	}
	return []Value{v}
}

func isFiniteNumber(v Value) bool {
	return v.kind == NumberKind && !math.IsInf(v.f, 0) && !math.IsNaN(v.f)
}

// Object is a JSON object that remembers key insertion order.
type Object struct {
	keys   []string
	values map[string]Value
}

func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.keys...)
}

// SortedKeys returns the keys in lexicographic order.
func (o *Object) SortedKeys() []string {
	keys := o.Keys()
	sort.Strings(keys)
	return keys
}

func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Null, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Val returns the value under key, or null.
func (o *Object) Val(key string) Value {
	v, _ := o.Get(key)
	return v
}

func (o *Object) Has(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o.values[key]
	return ok
}

// Set adds or replaces a key. A replaced key keeps its position.
func (o *Object) Set(key string, v Value) *Object {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
	return o
}

func (o *Object) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i:i], o.keys[i+1:]...)
			break
		}
	}
}

// Clone returns a shallow copy that can be modified independently.
func (o *Object) Clone() *Object {
	res := &Object{
		keys:   o.Keys(),
		values: make(map[string]Value, o.Len()),
	}
	if o != nil {
		for k, v := range o.values {
			res.values[k] = v
		}
	}
	return res
}

// Value wraps o. The object must not be modified afterwards.
func (o *Object) Value() Value {
	return NewObjectValue(o)
}

// Equal compares two objects ignoring key order.
func (o *Object) Equal(other *Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	if o == nil || other == nil {
		return true
	}
	for k, v := range o.values {
		ov, ok := other.values[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
