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
	"os"
	"regexp"
	"sort"
	"strings"
)

var keywords = map[string]bool{
	"@base": true, "@container": true, "@context": true, "@default": true, "@direction": true,
	"@embed": true, "@explicit": true, "@graph": true, "@id": true, "@import": true,
	"@included": true, "@index": true, "@json": true, "@language": true, "@list": true,
	"@nest": true, "@none": true, "@omitDefault": true, "@prefix": true, "@preserve": true,
	"@propagate": true, "@protected": true, "@requireAll": true, "@reverse": true, "@set": true,
	"@type": true, "@value": true, "@version": true, "@vocab": true,
}

// IsKeyword returns whether or not the given value is a keyword.
func IsKeyword(key string) bool {
	return keywords[key]
}

var keywordFormPattern = regexp.MustCompile(`^@[a-zA-Z]+$`)

// hasKeywordForm reports whether s looks like a keyword. Such strings are
// reserved and ignored when they are not actual keywords.
func hasKeywordForm(s string) bool {
	return keywordFormPattern.MatchString(s)
}

// IsBlankNodeID reports whether s is a blank node identifier (_:label).
func IsBlankNodeID(s string) bool {
	return strings.HasPrefix(s, "_:")
}

// IsValue returns true if the given value is a value object.
func IsValue(v Value) bool {
	return v.Has("@value")
}

// IsList returns true if the given value is a list object.
func IsList(v Value) bool {
	return v.Has("@list")
}

// IsGraph returns true if v is a graph object: an object with @graph and
// optionally @id and @index, nothing else.
func IsGraph(v Value) bool {
	o := v.Object()
	if !o.Has("@graph") {
		return false
	}
	for _, k := range o.keys {
		if k != "@graph" && k != "@id" && k != "@index" {
			return false
		}
	}
	return true
}

// IsSimpleGraph returns true if v is a graph object without @id.
func IsSimpleGraph(v Value) bool {
	return IsGraph(v) && !v.Has("@id")
}

// IsSubject returns true if v is a node object with properties, i.e. an
// object which is not a value, set or list object and has either more
// than one key or no @id.
func IsSubject(v Value) bool {
	o := v.Object()
	if o == nil || o.Has("@value") || o.Has("@set") || o.Has("@list") {
		return false
	}
	return o.Len() > 1 || !o.Has("@id")
}

// IsSubjectReference returns true if v is an object with a single @id key.
func IsSubjectReference(v Value) bool {
	o := v.Object()
	return o.Len() == 1 && o.Has("@id")
}

// IsNodeObject returns true if v is an object that is neither a value,
// list nor set object.
func IsNodeObject(v Value) bool {
	o := v.Object()
	return o != nil && !o.Has("@value") && !o.Has("@list") && !o.Has("@set")
}

// IsBlankNodeValue returns true if v is a node object identified by a
// blank node identifier or carrying no @id at all.
func IsBlankNodeValue(v Value) bool {
	o := v.Object()
	if o == nil {
		return false
	}
	if id, found := o.Get("@id"); found {
		return IsBlankNodeID(id.Str())
	}
	return !(o.Has("@value") || o.Has("@set") || o.Has("@list"))
}

func isEmptyObject(v Value) bool {
	return v.IsObject() && v.obj.Len() == 0
}

// CompareShortestLeast compares two strings first based on length and then lexicographically.
func CompareShortestLeast(a string, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// ShortestLeast is a struct which allows sorting using CompareShortestLeast function.
type ShortestLeast []string

func (s ShortestLeast) Len() int           { return len(s) }
func (s ShortestLeast) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s ShortestLeast) Less(i, j int) bool { return CompareShortestLeast(s[i], s[j]) }

// CompareValues compares two JSON-LD values for equality. Two values are
// equal if they are equal scalars, value objects with the same @value,
// @type, @language and @index, or node objects with the same @id.
func CompareValues(v1 Value, v2 Value) bool {
	if v1.IsScalar() || v2.IsScalar() {
		return v1.Equal(v2)
	}
	if IsValue(v1) && IsValue(v2) {
		for _, k := range []string{"@value", "@type", "@language", "@direction", "@index"} {
			a, aFound := v1.Get(k)
			b, bFound := v2.Get(k)
			if aFound != bFound || !a.Equal(b) {
				return false
			}
		}
		return true
	}
	id1, found1 := v1.Get("@id")
	id2, found2 := v2.Get("@id")
	return found1 && found2 && id1.Equal(id2)
}

// HasValue reports whether subject[property] holds value (see CompareValues).
func HasValue(subject *Object, property string, value Value) bool {
	existing, found := subject.Get(property)
	if !found {
		return false
	}
	for _, v := range Arrayify(existing) {
		if CompareValues(v, value) {
			return true
		}
	}
	return false
}

// AddValue appends value to subject[property]. Array values are appended
// item by item. With propertyIsArray the property always holds an array.
// Without allowDuplicate values already present (see CompareValues) are
// skipped.
func AddValue(subject *Object, property string, value Value, propertyIsArray, allowDuplicate bool) {
	if value.IsArray() {
		if len(value.arr) == 0 && propertyIsArray && !subject.Has(property) {
			subject.Set(property, NewArray())
		}
		for _, v := range value.arr {
			AddValue(subject, property, v, propertyIsArray, allowDuplicate)
		}
		return
	}

	existing, found := subject.Get(property)
	if !found {
		if propertyIsArray {
			subject.Set(property, NewArray(value))
		} else {
			subject.Set(property, value)
		}
		return
	}
	if !allowDuplicate && HasValue(subject, property, value) {
		if propertyIsArray && !existing.IsArray() {
			subject.Set(property, NewArray(existing))
		}
		return
	}
	items := append(append(make([]Value, 0, len(Arrayify(existing))+1), Arrayify(existing)...), value)
	subject.Set(property, NewArray(items...))
}

// MergeValue adds value to the array under key unless an identical value is
// already present. List objects are always added.
func MergeValue(obj *Object, key string, value Value) {
	items := obj.Val(key).Items()
	if key != "@list" && !IsList(value) {
		for _, v := range items {
			if v.Equal(value) {
				if !obj.Has(key) {
					obj.Set(key, NewArray())
				}
				return
			}
		}
	}
	obj.Set(key, NewArray(append(append(make([]Value, 0, len(items)+1), items...), value)...))
}

// sortedStrings returns the string members of values, sorted.
func sortedStrings(values []Value) []string {
	res := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.AsString(); ok {
			res = append(res, s)
		}
	}
	sort.Strings(res)
	return res
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// PrintDocument prints a JSON-LD document. This is useful for debugging.
func PrintDocument(msg string, doc Value) {
	b, _ := MarshalIndent(doc)
	if msg != "" {
		_, _ = os.Stdout.WriteString(msg)
		_, _ = os.Stdout.WriteString("\n")
	}
	_, _ = os.Stdout.Write(b)
	_, _ = os.Stdout.WriteString("\n")
}
