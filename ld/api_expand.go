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
	"strings"
)

var frameKeywords = map[string]bool{
	"@default": true, "@embed": true, "@explicit": true, "@omitDefault": true, "@requireAll": true,
}

// Expand expands element according to the Expansion algorithm:
//
// https://www.w3.org/TR/json-ld11-api/#expansion-algorithm
//
// activeProperty is empty at the top level. The result is null, a single
// expanded object or an array of them; callers normalise it to an array.
func (api *JsonLdApi) Expand(activeCtx *Context, activeProperty string, element Value) (Value, error) {
	return api.expand(activeCtx, activeProperty, element, false, false)
}

func (api *JsonLdApi) expand(activeCtx *Context, activeProperty string, element Value, frameExpansion,
	fromMap bool) (Value, error) {

	if element.IsNull() {
		return Null, nil
	}
	if activeProperty == "@default" {
		frameExpansion = false
	}

	propertyDef := activeCtx.terms[activeProperty]

	switch element.Kind() {
	case ArrayKind:
		result := make([]Value, 0, len(element.arr))
		inList := activeProperty == "@list" || propertyDef.HasContainer("@list")
		for _, item := range element.arr {
			if inList && item.IsArray() {
				return Null, NewJsonLdError(ListOfLists, "lists of lists are not permitted")
			}
			v, err := api.expand(activeCtx, activeProperty, item, frameExpansion, fromMap)
			if err != nil {
				return Null, err
			}
			if inList && IsList(v) {
				return Null, NewJsonLdError(ListOfLists, "lists of lists are not permitted")
			}
			switch {
			case v.IsArray():
				result = append(result, v.arr...)
			case !v.IsNull():
				result = append(result, v)
			}
		}
		return NewArray(result...), nil

	case ObjectKind:
		return api.expandMap(activeCtx, activeProperty, propertyDef, element.obj, frameExpansion, fromMap)

	default:
		if activeProperty == "" || activeProperty == "@graph" {
			return Null, api.drop("free-floating scalar", element)
		}
		if propertyDef != nil && propertyDef.HasContext {
			var err error
			activeCtx, err = activeCtx.parse(propertyDef.Context, propertyDef.BaseURL, nil, true, true, true)
			if err != nil {
				return Null, err
			}
		}
		return activeCtx.ExpandValue(activeProperty, element), nil
	}
}

func (api *JsonLdApi) expandMap(activeCtx *Context, activeProperty string, propertyDef *TermDefinition,
	elem *Object, frameExpansion, fromMap bool) (Value, error) {

	// a node object leaves the scope of a non-propagated context
	if activeCtx.previous != nil && !fromMap {
		revert := true
		for _, k := range elem.keys {
			expanded, _ := activeCtx.ExpandIri(k, false, true)
			if expanded == "@value" || (elem.Len() == 1 && expanded == "@id") {
				revert = false
				break
			}
		}
		if revert {
			activeCtx = activeCtx.previous
		}
	}

	var err error
	if propertyDef != nil && propertyDef.HasContext {
		activeCtx, err = activeCtx.parse(propertyDef.Context, propertyDef.BaseURL, nil, true, true, true)
		if err != nil {
			return Null, err
		}
	}

	if ctx, hasContext := elem.Get("@context"); hasContext {
		activeCtx, err = activeCtx.Parse(ctx)
		if err != nil {
			return Null, err
		}
	}

	typeScopedCtx := activeCtx

	// type-scoped contexts apply in lexicographical order of the type keys
	// and their values
	inputType := ""
	inputTypeSet := false
	for _, key := range elem.SortedKeys() {
		if expanded, _ := activeCtx.ExpandIri(key, false, true); expanded != "@type" {
			continue
		}
		types := sortedStrings(Arrayify(elem.values[key]))
		for _, t := range types {
			td := typeScopedCtx.terms[t]
			if td != nil && td.HasContext {
				activeCtx, err = activeCtx.parse(td.Context, td.BaseURL, nil, false, false, true)
				if err != nil {
					return Null, err
				}
			}
		}
		if !inputTypeSet {
			if items := Arrayify(elem.values[key]); len(items) > 0 {
				inputType, _ = activeCtx.ExpandIri(items[len(items)-1].Str(), false, true)
			}
			inputTypeSet = true
		}
	}

	result := NewObject()
	expandedActiveProperty, _ := activeCtx.ExpandIri(activeProperty, false, true)
	state := &expansionState{
		activeCtx:              activeCtx,
		typeScopedCtx:          typeScopedCtx,
		activeProperty:         activeProperty,
		expandedActiveProperty: expandedActiveProperty,
		inputType:              inputType,
		frameExpansion:         frameExpansion,
	}
	if err = api.expandObject(state, elem, result); err != nil {
		return Null, err
	}

	if rval, hasValue := result.Get("@value"); hasValue {
		for _, k := range result.keys {
			switch k {
			case "@value", "@index", "@language", "@type", "@direction":
			default:
				return Null, NewJsonLdError(InvalidValueObject, "value object has unknown keys")
			}
		}
		if result.Has("@type") && (result.Has("@language") || result.Has("@direction")) {
			return Null, NewJsonLdError(InvalidValueObject,
				"an element containing @value may not contain both @type and @language or @direction")
		}
		typeVal := result.Val("@type")
		if typeVal.Str() == "@json" && !api.opts.processingMode(JsonLd_1_0) {
			return result.Value(), nil
		}
		if rval.IsNull() || (rval.IsArray() && len(rval.arr) == 0) {
			return Null, nil
		}
		if !frameExpansion {
			if !rval.IsScalar() {
				return Null, NewJsonLdError(InvalidValueObjectValue, rval)
			}
			if result.Has("@language") && !rval.IsString() {
				return Null, NewJsonLdError(InvalidLanguageTaggedValue, "only strings may be language-tagged")
			}
			if t, hasType := result.Get("@type"); hasType {
				ts, isString := t.AsString()
				if !isString || !IsAbsoluteIri(ts) || IsBlankNodeID(ts) {
					return Null, NewJsonLdError(InvalidTypedValue,
						"an element containing @value and @type must have an absolute IRI for the value of @type")
				}
			}
		}
	} else if rtype, hasType := result.Get("@type"); hasType {
		if !rtype.IsArray() {
			result.Set("@type", NewArray(rtype))
		}
	} else if result.Has("@set") || result.Has("@list") {
		maxSize := 1
		if result.Has("@index") {
			maxSize = 2
		}
		if result.Len() > maxSize {
			return Null, NewJsonLdError(InvalidSetOrListObject, "@set or @list may only contain @index")
		}
		if rset, hasSet := result.Get("@set"); hasSet {
			return rset, nil
		}
	}

	if result.Len() == 1 && result.Has("@language") {
		return Null, nil
	}

	if (activeProperty == "" || activeProperty == "@graph") && !frameExpansion {
		if result.Has("@value") || result.Has("@list") {
			return Null, api.drop("free-floating value", result.Value())
		}
		if result.Len() == 0 || (result.Len() == 1 && result.Has("@id")) {
			return Null, nil
		}
	}

	return result.Value(), nil
}

type expansionState struct {
	activeCtx              *Context
	typeScopedCtx          *Context
	activeProperty         string
	expandedActiveProperty string
	inputType              string
	frameExpansion         bool
}

// expandObject expands the entries of elem into result. It is called again
// for the content of @nest entries.
func (api *JsonLdApi) expandObject(state *expansionState, elem *Object, result *Object) error {
	activeCtx := state.activeCtx
	frameExpansion := state.frameExpansion
	is10 := api.opts.processingMode(JsonLd_1_0)
	var nests []string

	for _, key := range elem.keys {
		value := elem.values[key]
		if key == "@context" {
			continue
		}

		expandedProperty, ok := activeCtx.ExpandIri(key, false, true)
		if !ok || (!strings.Contains(expandedProperty, ":") && !IsKeyword(expandedProperty)) {
			if err := api.drop("unmapped property", key); err != nil {
				return err
			}
			continue
		}

		if IsKeyword(expandedProperty) {
			if state.expandedActiveProperty == "@reverse" {
				return NewJsonLdError(InvalidReversePropertyMap, "a keyword cannot be used as a @reverse property")
			}
			if result.Has(expandedProperty) && (is10 || (expandedProperty != "@included" && expandedProperty != "@type")) {
				return NewJsonLdError(CollidingKeywords, expandedProperty+" already exists in result")
			}

			expandedValue, skip, err := api.expandKeyword(state, result, key, expandedProperty, value)
			if err != nil {
				return err
			}
			if expandedProperty == "@nest" && !is10 {
				nests = append(nests, key)
			}
			if skip {
				continue
			}

			switch {
			case expandedProperty == "@type" && result.Has("@type"):
				items := append(Arrayify(result.Val("@type")), Arrayify(expandedValue)...)
				result.Set("@type", NewArray(items...))
			case expandedProperty == "@included" && result.Has("@included"):
				items := append(Arrayify(result.Val("@included")), expandedValue.Items()...)
				result.Set("@included", NewArray(items...))
			case !expandedValue.IsNull() || expandedProperty == "@value" || expandedProperty == "@set":
				result.Set(expandedProperty, expandedValue)
			}
			continue
		}

		td := activeCtx.terms[key]
		var expandedValue Value
		var err error

		switch {
		case td != nil && td.Type == "@json":
			expandedValue = NewObject().Set("@value", value).Set("@type", NewString("@json")).Value()
		case td.HasContainer("@language") && value.IsObject():
			expandedValue, err = api.expandLanguageMap(activeCtx, td, value.obj)
		case (td.HasContainer("@index") || td.HasContainer("@type") || td.HasContainer("@id")) && value.IsObject():
			expandedValue, err = api.expandIndexMap(activeCtx, key, td, value.obj, frameExpansion)
		default:
			expandedValue, err = api.expand(activeCtx, key, value, frameExpansion, false)
		}
		if err != nil {
			return err
		}
		if expandedValue.IsNull() {
			continue
		}

		if td.HasContainer("@list") && !IsList(expandedValue) {
			expandedValue = NewObject().Set("@list", NewArray(Arrayify(expandedValue)...)).Value()
		}
		if td.HasContainer("@graph") && !td.HasContainer("@id") && !td.HasContainer("@index") {
			items := Arrayify(expandedValue)
			graphs := make([]Value, len(items))
			for i, item := range items {
				graphs[i] = NewObject().Set("@graph", NewArray(Arrayify(item)...)).Value()
			}
			expandedValue = NewArray(graphs...)
		}

		if td != nil && td.Reverse {
			reverseMap := result.Val("@reverse").Object()
			if reverseMap == nil {
				reverseMap = NewObject()
			} else {
				reverseMap = reverseMap.Clone()
			}
			for _, item := range Arrayify(expandedValue) {
				if IsValue(item) || IsList(item) {
					return NewJsonLdError(InvalidReversePropertyValue, item)
				}
				AddValue(reverseMap, expandedProperty, item, true, true)
			}
			result.Set("@reverse", reverseMap.Value())
		} else {
			AddValue(result, expandedProperty, expandedValue, true, true)
		}
	}

	for _, nestKey := range nests {
		if elem.values[nestKey].IsNull() {
			return NewJsonLdError(InvalidNestValue, "@nest value must be an object")
		}
		for _, nested := range Arrayify(elem.values[nestKey]) {
			nestedObj, isObject := nested.AsObject()
			if !isObject {
				return NewJsonLdError(InvalidNestValue, nested)
			}
			for _, k := range nestedObj.keys {
				if expanded, _ := activeCtx.ExpandIri(k, false, true); expanded == "@value" {
					return NewJsonLdError(InvalidNestValue, nested)
				}
			}
			if err := api.expandObject(state, nestedObj, result); err != nil {
				return err
			}
		}
	}
	return nil
}

// expandKeyword expands the value of a keyword entry. skip reports that
// nothing is to be added to result for it.
func (api *JsonLdApi) expandKeyword(state *expansionState, result *Object, key, expandedProperty string,
	value Value) (expandedValue Value, skip bool, err error) {

	activeCtx := state.activeCtx
	frameExpansion := state.frameExpansion
	is10 := api.opts.processingMode(JsonLd_1_0)

	switch expandedProperty {
	case "@id":
		switch {
		case value.IsString():
			iri, ok := activeCtx.ExpandIri(value.Str(), true, false)
			if !ok {
				return Null, true, nil
			}
			return NewString(iri), false, nil
		case frameExpansion && isEmptyObject(value):
			return NewArray(value), false, nil
		case frameExpansion && value.IsArray():
			ids := make([]Value, 0, len(value.arr))
			for _, v := range value.arr {
				s, isString := v.AsString()
				if !isString {
					return Null, false, NewJsonLdError(InvalidIDValue,
						"@id value must be a string, an array of strings or an empty dictionary")
				}
				iri, _ := activeCtx.ExpandIri(s, true, false)
				ids = append(ids, NewString(iri))
			}
			return NewArray(ids...), false, nil
		default:
			return Null, false, NewJsonLdError(InvalidIDValue, "value of @id must be a string")
		}

	case "@type":
		if frameExpansion && value.IsObject() {
			if isEmptyObject(value) {
				return NewArray(value), false, nil
			}
			if def, found := value.Get("@default"); found && value.obj.Len() == 1 {
				iri, _ := state.typeScopedCtx.ExpandIri(def.Str(), true, true)
				return NewArray(NewObject().Set("@default", NewString(iri)).Value()), false, nil
			}
		}
		if value.IsNull() {
			return Null, false, NewJsonLdError(InvalidTypeValue, "@type value must be a string or array of strings")
		}
		items := Arrayify(value)
		types := make([]Value, 0, len(items))
		for _, t := range items {
			s, isString := t.AsString()
			if !isString {
				if frameExpansion && isEmptyObject(t) {
					types = append(types, t)
					continue
				}
				return Null, false, NewJsonLdError(InvalidTypeValue, "@type value must be a string or array of strings")
			}
			iri, ok := state.typeScopedCtx.ExpandIri(s, true, true)
			if ok {
				types = append(types, NewString(iri))
			}
		}
		if value.IsArray() || result.Has("@type") {
			return NewArray(types...), false, nil
		}
		if len(types) == 0 {
			return Null, true, nil
		}
		return types[0], false, nil

	case "@graph":
		expanded, err := api.expand(activeCtx, "@graph", value, frameExpansion, false)
		if err != nil {
			return Null, false, err
		}
		return NewArray(Arrayify(expanded)...), false, nil

	case "@included":
		if is10 {
			return Null, true, nil
		}
		expanded, err := api.expand(activeCtx, "", value, frameExpansion, false)
		if err != nil {
			return Null, false, err
		}
		items := Arrayify(expanded)
		for _, item := range items {
			if !IsNodeObject(item) {
				return Null, false, NewJsonLdError(InvalidIncludedValue, item)
			}
		}
		return NewArray(items...), false, nil

	case "@value":
		if state.inputType == "@json" && !is10 {
			return value, false, nil
		}
		if !value.IsScalar() && !value.IsNull() && !frameExpansion {
			return Null, false, NewJsonLdError(InvalidValueObjectValue, value)
		}
		if frameExpansion && !value.IsNull() {
			return NewArray(Arrayify(value)...), false, nil
		}
		return value, false, nil

	case "@language":
		if s, isString := value.AsString(); isString {
			return NewString(strings.ToLower(s)), false, nil
		}
		if frameExpansion && (isEmptyObject(value) || value.IsArray()) {
			return NewArray(Arrayify(value)...), false, nil
		}
		return Null, false, NewJsonLdError(InvalidLanguageTaggedString, value)

	case "@direction":
		if is10 {
			return Null, true, nil
		}
		if s := value.Str(); s == "ltr" || s == "rtl" {
			return value, false, nil
		}
		if frameExpansion && (isEmptyObject(value) || value.IsArray()) {
			return NewArray(Arrayify(value)...), false, nil
		}
		return Null, false, NewJsonLdError(InvalidBaseDirection, value)

	case "@index":
		if !value.IsString() {
			return Null, false, NewJsonLdError(InvalidIndexValue, value)
		}
		return value, false, nil

	case "@list":
		if state.activeProperty == "" || state.activeProperty == "@graph" {
			return Null, true, api.drop("free-floating list", value)
		}
		for _, item := range Arrayify(value) {
			if item.IsArray() {
				return Null, false, NewJsonLdError(ListOfLists, "lists of lists are not permitted")
			}
		}
		expanded, err := api.expand(activeCtx, state.activeProperty, value, frameExpansion, false)
		if err != nil {
			return Null, false, err
		}
		items := Arrayify(expanded)
		for _, item := range items {
			if IsList(item) {
				return Null, false, NewJsonLdError(ListOfLists, "lists of lists are not permitted")
			}
		}
		return NewArray(items...), false, nil

	case "@set":
		expanded, err := api.expand(activeCtx, state.activeProperty, value, frameExpansion, false)
		return expanded, false, err

	case "@reverse":
		if !value.IsObject() {
			return Null, false, NewJsonLdError(InvalidReverseValue, "@reverse value must be an object")
		}
		expanded, err := api.expand(activeCtx, "@reverse", value, frameExpansion, false)
		if err != nil {
			return Null, false, err
		}
		return Null, true, api.mergeReverse(result, expanded.Object())

	case "@nest":
		// handled once all other entries are expanded
		return Null, true, nil
	}

	if frameKeywords[expandedProperty] {
		if !frameExpansion {
			return Null, true, nil
		}
		expanded, err := api.expand(activeCtx, expandedProperty, value, frameExpansion, false)
		return expanded, false, err
	}

	// @context is skipped by the caller, other keywords carry no content
	return Null, true, nil
}

// mergeReverse folds an expanded @reverse map into result: double reversed
// properties become regular ones, the rest go to result's @reverse map.
func (api *JsonLdApi) mergeReverse(result *Object, expanded *Object) error {
	if doubleReversed, found := expanded.Get("@reverse"); found {
		for _, property := range doubleReversed.Object().keys {
			AddValue(result, property, doubleReversed.obj.values[property], true, true)
		}
	}

	if expanded.Len() == 0 || (expanded.Len() == 1 && expanded.Has("@reverse")) {
		return nil
	}

	reverseMap := result.Val("@reverse").Object()
	if reverseMap == nil {
		reverseMap = NewObject()
	} else {
		reverseMap = reverseMap.Clone()
	}
	for _, property := range expanded.keys {
		if property == "@reverse" {
			continue
		}
		for _, item := range Arrayify(expanded.values[property]) {
			if IsValue(item) || IsList(item) {
				return NewJsonLdError(InvalidReversePropertyValue, item)
			}
			AddValue(reverseMap, property, item, true, true)
		}
	}
	result.Set("@reverse", reverseMap.Value())
	return nil
}

// expandLanguageMap turns a language map into language-tagged values,
// processing languages in lexicographical order.
func (api *JsonLdApi) expandLanguageMap(activeCtx *Context, td *TermDefinition, languageMap *Object) (Value, error) {
	direction := activeCtx.direction
	if td.HasDirection {
		direction = td.Direction
	}

	result := make([]Value, 0, languageMap.Len())
	for _, language := range languageMap.SortedKeys() {
		expandedLanguage, _ := activeCtx.ExpandIri(language, false, true)
		for _, item := range Arrayify(languageMap.values[language]) {
			if item.IsNull() {
				continue
			}
			if !item.IsString() {
				return Null, NewJsonLdError(InvalidLanguageMapValue, item)
			}
			v := NewObject().Set("@value", item)
			if expandedLanguage != "@none" {
				v.Set("@language", NewString(strings.ToLower(language)))
			}
			if direction != "" {
				v.Set("@direction", NewString(direction))
			}
			result = append(result, v.Value())
		}
	}
	return NewArray(result...), nil
}

// expandIndexMap expands @index, @id and @type maps. The map keys are
// processed in lexicographical order.
func (api *JsonLdApi) expandIndexMap(activeCtx *Context, activeProperty string, td *TermDefinition, value *Object,
	frameExpansion bool) (Value, error) {

	indexKey := "@index"
	if td.Index != "" {
		indexKey = td.Index
	}
	byType := td.HasContainer("@type")
	byID := td.HasContainer("@id")

	result := make([]Value, 0, value.Len())
	for _, index := range value.SortedKeys() {
		mapCtx := activeCtx
		if byType {
			typeCtx := activeCtx
			if activeCtx.previous != nil {
				typeCtx = activeCtx.previous
			}
			if indexDef := typeCtx.terms[index]; indexDef != nil && indexDef.HasContext {
				var err error
				mapCtx, err = typeCtx.parse(indexDef.Context, indexDef.BaseURL, nil, false, true, true)
				if err != nil {
					return Null, err
				}
			}
		}

		expandedIndex, _ := activeCtx.ExpandIri(index, false, true)

		expanded, err := api.expand(mapCtx, activeProperty, NewArray(Arrayify(value.values[index])...),
			frameExpansion, true)
		if err != nil {
			return Null, err
		}

		for _, item := range Arrayify(expanded) {
			if td.HasContainer("@graph") && !IsGraph(item) {
				item = NewObject().Set("@graph", NewArray(Arrayify(item)...)).Value()
			}
			if expandedIndex == "@none" {
				result = append(result, item)
				continue
			}

			obj := item.Object().Clone()
			switch {
			case td.HasContainer("@index") && indexKey != "@index":
				if IsValue(item) {
					return Null, NewJsonLdError(InvalidValueObject,
						"a value object cannot be indexed by a property")
				}
				reExpanded := activeCtx.ExpandValue(indexKey, NewString(index))
				expandedIndexKey, _ := activeCtx.ExpandIri(indexKey, false, true)
				values := append([]Value{reExpanded}, Arrayify(obj.Val(expandedIndexKey))...)
				obj.Set(expandedIndexKey, NewArray(values...))
			case td.HasContainer("@index") && !obj.Has("@index"):
				obj.Set("@index", NewString(index))
			case byID && !obj.Has("@id"):
				id, _ := activeCtx.ExpandIri(index, true, false)
				obj.Set("@id", NewString(id))
			case byType:
				types := append([]Value{NewString(expandedIndex)}, Arrayify(obj.Val("@type"))...)
				obj.Set("@type", NewArray(types...))
			}
			result = append(result, obj.Value())
		}
	}
	return NewArray(result...), nil
}
