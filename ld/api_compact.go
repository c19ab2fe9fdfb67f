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
	"sort"
)

// Compact operation compacts the given expanded element using the context
// according to the steps in the Compaction Algorithm:
//
// https://www.w3.org/TR/json-ld11-api/#compaction-algorithm
//
// activeProperty is empty at the top level.
func (api *JsonLdApi) Compact(activeCtx *Context, activeProperty string, element Value) (Value, error) {
	typeScopedCtx := activeCtx

	switch element.Kind() {
	case ArrayKind:
		result := make([]Value, 0, len(element.arr))
		for _, item := range element.arr {
			compacted, err := api.Compact(activeCtx, activeProperty, item)
			if err != nil {
				return Null, err
			}
			if !compacted.IsNull() {
				result = append(result, compacted)
			}
		}
		td := activeCtx.terms[activeProperty]
		if len(result) != 1 || !api.opts.CompactArrays || activeProperty == "@graph" || activeProperty == "@set" ||
			td.HasContainer("@list") || td.HasContainer("@set") {
			return NewArray(result...), nil
		}
		return result[0], nil
	case ObjectKind:
	default:
		return element, nil
	}

	elem := element.obj

	if activeCtx.previous != nil && !IsValue(element) && !IsSubjectReference(element) {
		activeCtx = activeCtx.previous
	}

	propertyDef := typeScopedCtx.terms[activeProperty]
	if propertyDef != nil && propertyDef.HasContext {
		var err error
		activeCtx, err = activeCtx.parse(propertyDef.Context, propertyDef.BaseURL, nil, true, true, true)
		if err != nil {
			return Null, err
		}
	}

	if elem.Has("@value") || IsSubjectReference(element) {
		compacted := activeCtx.CompactValue(activeProperty, element)
		td := activeCtx.terms[activeProperty]
		if !compacted.IsObject() || (td != nil && td.Type == "@json") {
			return compacted, nil
		}
	}

	if list, isList := elem.Get("@list"); isList && activeCtx.terms[activeProperty].HasContainer("@list") {
		return api.Compact(activeCtx, activeProperty, list)
	}

	insideReverse := activeProperty == "@reverse"
	result := NewObject()

	if types, hasType := elem.Get("@type"); hasType {
		compactedTypes := make([]string, 0, len(Arrayify(types)))
		for _, t := range Arrayify(types) {
			compactedTypes = append(compactedTypes, activeCtx.CompactIri(t.Str(), Null, true, false))
		}
		sort.Strings(compactedTypes)
		for _, term := range compactedTypes {
			if td := typeScopedCtx.terms[term]; td != nil && td.HasContext {
				var err error
				activeCtx, err = activeCtx.parse(td.Context, td.BaseURL, nil, false, false, true)
				if err != nil {
					return Null, err
				}
			}
		}
	}

	for _, expandedProperty := range elem.SortedKeys() {
		expandedValue := elem.values[expandedProperty]

		switch expandedProperty {
		case "@id":
			alias := activeCtx.CompactIri("@id", Null, true, false)
			result.Set(alias, NewString(activeCtx.CompactIri(expandedValue.Str(), Null, false, false)))
			continue

		case "@type":
			items := Arrayify(expandedValue)
			compacted := make([]Value, len(items))
			for i, t := range items {
				compacted[i] = NewString(typeScopedCtx.CompactIri(t.Str(), Null, true, false))
			}
			alias := activeCtx.CompactIri("@type", Null, true, false)
			asArray := !api.opts.CompactArrays
			if !api.opts.processingMode(JsonLd_1_0) {
				asArray = asArray || activeCtx.terms[alias].HasContainer("@set")
			}
			if len(compacted) == 1 && !asArray {
				AddValue(result, alias, compacted[0], false, true)
			} else {
				AddValue(result, alias, NewArray(compacted...), true, true)
			}
			continue

		case "@reverse":
			compactedValue, err := api.Compact(activeCtx, "@reverse", expandedValue)
			if err != nil {
				return Null, err
			}
			remaining := NewObject()
			for _, property := range compactedValue.Object().keys {
				value := compactedValue.obj.values[property]
				if td := activeCtx.terms[property]; td != nil && td.Reverse {
					asArray := td.HasContainer("@set") || !api.opts.CompactArrays
					AddValue(result, property, value, asArray, true)
				} else {
					remaining.Set(property, value)
				}
			}
			if remaining.Len() > 0 {
				result.Set(activeCtx.CompactIri("@reverse", Null, true, false), remaining.Value())
			}
			continue

		case "@preserve":
			compactedValue, err := api.Compact(activeCtx, activeProperty, expandedValue)
			if err != nil {
				return Null, err
			}
			if !(compactedValue.IsArray() && len(compactedValue.arr) == 0) {
				result.Set("@preserve", compactedValue)
			}
			continue

		case "@index":
			if activeCtx.terms[activeProperty].HasContainer("@index") {
				continue
			}
			result.Set(activeCtx.CompactIri("@index", Null, true, false), expandedValue)
			continue

		case "@direction", "@language", "@value":
			result.Set(activeCtx.CompactIri(expandedProperty, Null, true, false), expandedValue)
			continue
		}

		if expandedValue.IsArray() && len(expandedValue.arr) == 0 {
			itemActiveProperty := activeCtx.CompactIri(expandedProperty, expandedValue, true, insideReverse)
			nestResult, err := api.nestResult(activeCtx, result, itemActiveProperty)
			if err != nil {
				return Null, err
			}
			AddValue(nestResult, itemActiveProperty, NewArray(), true, true)
		}

		for _, expandedItem := range Arrayify(expandedValue) {
			if err := api.compactItem(activeCtx, result, expandedProperty, expandedItem, insideReverse); err != nil {
				return Null, err
			}
		}
	}

	return result.Value(), nil
}

// nestResult returns the object that values of itemActiveProperty go
// into: result itself, or the object under the term's @nest property.
func (api *JsonLdApi) nestResult(activeCtx *Context, result *Object, itemActiveProperty string) (*Object, error) {
	td := activeCtx.terms[itemActiveProperty]
	if td == nil || td.Nest == "" {
		return result, nil
	}
	if expanded, _ := activeCtx.ExpandIri(td.Nest, false, true); expanded != "@nest" {
		return nil, NewJsonLdError(InvalidNestValue, "nested property must have an @nest value resolving to @nest")
	}
	return childObject(result, td.Nest), nil
}

// childObject returns the object stored under key in parent, creating it
// when key is missing or holds something else.
func childObject(parent *Object, key string) *Object {
	if child := parent.Val(key).Object(); child != nil {
		return child
	}
	child := NewObject()
	parent.Set(key, child.Value())
	return child
}

func (api *JsonLdApi) compactItem(activeCtx *Context, result *Object, expandedProperty string, expandedItem Value,
	insideReverse bool) error {

	itemActiveProperty := activeCtx.CompactIri(expandedProperty, expandedItem, true, insideReverse)
	nestResult, err := api.nestResult(activeCtx, result, itemActiveProperty)
	if err != nil {
		return err
	}

	td := activeCtx.terms[itemActiveProperty]
	asArray := td.HasContainer("@set") || itemActiveProperty == "@graph" || itemActiveProperty == "@list" ||
		!api.opts.CompactArrays

	item := expandedItem.Object()
	isList := IsList(expandedItem)
	isGraph := IsGraph(expandedItem)

	elementToCompact := expandedItem
	switch {
	case isList:
		elementToCompact = item.Val("@list")
	case isGraph:
		elementToCompact = item.Val("@graph")
	}

	compactedItem, err := api.Compact(activeCtx, itemActiveProperty, elementToCompact)
	if err != nil {
		return err
	}

	switch {
	case isList:
		compactedItem = NewArray(Arrayify(compactedItem)...)
		if td.HasContainer("@list") {
			nestResult.Set(itemActiveProperty, compactedItem)
			return nil
		}
		wrapper := NewObject().Set(activeCtx.CompactIri("@list", Null, true, false), compactedItem)
		if index, hasIndex := item.Get("@index"); hasIndex {
			wrapper.Set(activeCtx.CompactIri("@index", Null, true, false), index)
		}
		AddValue(nestResult, itemActiveProperty, wrapper.Value(), asArray, true)

	case isGraph:
		switch {
		case td.HasContainer("@graph") && td.HasContainer("@id"):
			mapObject := childObject(nestResult, itemActiveProperty)
			mapKey := ""
			if id, hasID := item.Get("@id"); hasID {
				mapKey = activeCtx.CompactIri(id.Str(), Null, false, false)
			} else {
				mapKey = activeCtx.CompactIri("@none", Null, true, false)
			}
			AddValue(mapObject, mapKey, compactedItem, asArray, true)
		case td.HasContainer("@graph") && td.HasContainer("@index") && IsSimpleGraph(expandedItem):
			mapObject := childObject(nestResult, itemActiveProperty)
			mapKey := item.Val("@index").Str()
			if mapKey == "" {
				mapKey = activeCtx.CompactIri("@none", Null, true, false)
			}
			AddValue(mapObject, mapKey, compactedItem, asArray, true)
		case td.HasContainer("@graph") && IsSimpleGraph(expandedItem):
			// several nodes in one graph would read back as several graphs
			if compactedItem.IsArray() && len(compactedItem.arr) > 1 {
				compactedItem = NewObject().
					Set(activeCtx.CompactIri("@included", Null, true, false), compactedItem).Value()
			}
			AddValue(nestResult, itemActiveProperty, compactedItem, asArray, true)
		default:
			wrapper := NewObject().Set(activeCtx.CompactIri("@graph", Null, true, false), compactedItem)
			if id, hasID := item.Get("@id"); hasID {
				wrapper.Set(activeCtx.CompactIri("@id", Null, true, false),
					NewString(activeCtx.CompactIri(id.Str(), Null, false, false)))
			}
			if index, hasIndex := item.Get("@index"); hasIndex {
				wrapper.Set(activeCtx.CompactIri("@index", Null, true, false), index)
			}
			AddValue(nestResult, itemActiveProperty, wrapper.Value(), asArray, true)
		}

	case td.HasContainer("@language") || td.HasContainer("@index") || td.HasContainer("@id") ||
		td.HasContainer("@type"):
		mapObject := childObject(nestResult, itemActiveProperty)
		mapKey := ""

		switch {
		case td.HasContainer("@language"):
			if IsValue(expandedItem) {
				compactedItem = item.Val("@value")
			}
			mapKey = item.Val("@language").Str()
		case td.HasContainer("@index") && (td.Index == "" || td.Index == "@index"):
			mapKey = item.Val("@index").Str()
		case td.HasContainer("@index"):
			indexIRI, _ := activeCtx.ExpandIri(td.Index, false, true)
			containerKey := activeCtx.CompactIri(indexIRI, Null, true, false)
			mapKey, compactedItem = takeFirstString(compactedItem, containerKey)
		case td.HasContainer("@id"):
			containerKey := activeCtx.CompactIri("@id", Null, true, false)
			if obj := compactedItem.Object(); obj != nil {
				mapKey = obj.Val(containerKey).Str()
				obj = obj.Clone()
				obj.Delete(containerKey)
				compactedItem = obj.Value()
			}
		case td.HasContainer("@type"):
			containerKey := activeCtx.CompactIri("@type", Null, true, false)
			mapKey, compactedItem = takeFirstString(compactedItem, containerKey)
			if compactedItem.Object().Len() == 1 && item.Has("@id") {
				ref := NewObject().Set("@id", item.Val("@id")).Value()
				compactedItem, err = api.Compact(activeCtx, itemActiveProperty, ref)
				if err != nil {
					return err
				}
			}
		}

		if mapKey == "" {
			mapKey = activeCtx.CompactIri("@none", Null, true, false)
		}
		AddValue(mapObject, mapKey, compactedItem, asArray, true)

	default:
		AddValue(nestResult, itemActiveProperty, compactedItem, asArray, true)
	}
	return nil
}

// takeFirstString removes the first value of key from a compacted object
// and returns it when it is a string. Remaining values stay in place.
func takeFirstString(compacted Value, key string) (string, Value) {
	obj := compacted.Object()
	values := Arrayify(obj.Val(key))
	if len(values) == 0 {
		return "", compacted
	}
	first, isString := values[0].AsString()
	if !isString {
		return "", compacted
	}

	obj = obj.Clone()
	switch rest := values[1:]; len(rest) {
	case 0:
		obj.Delete(key)
	case 1:
		obj.Set(key, rest[0])
	default:
		obj.Set(key, NewArray(rest...))
	}
	return first, obj.Value()
}
