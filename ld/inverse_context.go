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
	"strings"
)

// inverseContext maps IRI -> container key -> type/language selections.
// Container keys are the sorted container mappings concatenated, or @none.
type inverseContext map[string]map[string]*typeLanguageMap

type typeLanguageMap struct {
	language map[string]string
	typ      map[string]string
	any      map[string]string
}

func (tl *typeLanguageMap) selection(typeLanguage string) map[string]string {
	switch typeLanguage {
	case "@type":
		return tl.typ
	case "@any":
		return tl.any
	default:
		return tl.language
	}
}

func setIfMissing(m map[string]string, key, term string) {
	if _, found := m[key]; !found {
		m[key] = term
	}
}

func languageDirectionKey(language, direction string) string {
	if direction == "" {
		return language
	}
	return strings.ToLower(language + "_" + direction)
}

func (c *Context) defaultLanguageKey() string {
	if c.direction != "" {
		return languageDirectionKey(c.language, c.direction)
	}
	if c.language != "" {
		return c.language
	}
	return "@none"
}

// getInverse returns the inverse context used by term selection. It is
// computed on first use.
// See https://www.w3.org/TR/json-ld11-api/#inverse-context-creation
func (c *Context) getInverse() inverseContext {
	c.inverseOnce.Do(func() {
		c.inverse = c.buildInverse()
	})
	return c.inverse
}

func (c *Context) buildInverse() inverseContext {
	inverse := make(inverseContext)
	defaultLanguage := c.defaultLanguageKey()

	// shortest, then lexicographically least terms win
	terms := make([]string, 0, len(c.terms))
	for term := range c.terms {
		terms = append(terms, term)
	}
	sort.Sort(ShortestLeast(terms))

	for _, term := range terms {
		td := c.terms[term]
		if td == nil || td.IRI == "" {
			continue
		}

		container := "@none"
		if len(td.Container) > 0 {
			container = strings.Join(td.Container, "")
		}

		containerMap, found := inverse[td.IRI]
		if !found {
			containerMap = make(map[string]*typeLanguageMap)
			inverse[td.IRI] = containerMap
		}
		tl, found := containerMap[container]
		if !found {
			tl = &typeLanguageMap{
				language: make(map[string]string),
				typ:      make(map[string]string),
				any:      map[string]string{"@none": term},
			}
			containerMap[container] = tl
		}

		switch {
		case td.Reverse:
			setIfMissing(tl.typ, "@reverse", term)
		case td.Type == "@none":
			setIfMissing(tl.language, "@any", term)
			setIfMissing(tl.typ, "@any", term)
		case td.Type != "":
			setIfMissing(tl.typ, td.Type, term)
		case td.HasLanguage && td.HasDirection:
			key := "@null"
			switch {
			case td.Language != "" && td.Direction != "":
				key = languageDirectionKey(td.Language, td.Direction)
			case td.Language != "":
				key = td.Language
			case td.Direction != "":
				key = "_" + td.Direction
			}
			setIfMissing(tl.language, key, term)
		case td.HasLanguage:
			key := "@null"
			if td.Language != "" {
				key = td.Language
			}
			setIfMissing(tl.language, key, term)
		case td.HasDirection:
			key := "@none"
			if td.Direction != "" {
				key = "_" + td.Direction
			}
			setIfMissing(tl.language, key, term)
		default:
			setIfMissing(tl.language, defaultLanguage, term)
			setIfMissing(tl.language, "@none", term)
			setIfMissing(tl.typ, "@none", term)
		}
	}
	return inverse
}

// SelectTerm picks the preferred term for iri from the inverse context.
// containers and preferredValues are tried in order; typeLanguage is one of
// @language, @type or @any. An empty string means no term fits.
// See https://www.w3.org/TR/json-ld11-api/#term-selection
func (c *Context) SelectTerm(iri string, containers []string, typeLanguage string, preferredValues []string) string {
	containerMap, found := c.getInverse()[iri]
	if !found {
		return ""
	}
	for _, container := range containers {
		tl, found := containerMap[container]
		if !found {
			continue
		}
		selection := tl.selection(typeLanguage)
		for _, item := range preferredValues {
			if term, found := selection[item]; found {
				return term
			}
		}
	}
	return ""
}

// CompactIri compacts an absolute IRI or keyword to a term, a vocabulary
// relative IRI, a compact IRI or a base relative IRI, in that order of
// preference. value is the value the IRI is used with, if any: it steers
// term selection toward terms whose type, language and container fit.
// With vocab false, terms and the vocabulary mapping are not considered.
// See https://www.w3.org/TR/json-ld11-api/#iri-compaction
func (c *Context) CompactIri(iri string, value Value, vocab bool, reverse bool) string {
	if iri == "" {
		return ""
	}

	if vocab {
		if _, found := c.getInverse()[iri]; found {
			if term := c.selectTermForValue(iri, value, reverse); term != "" {
				return term
			}
		}

		if c.hasVocab && strings.HasPrefix(iri, c.vocab) && len(iri) > len(c.vocab) {
			suffix := iri[len(c.vocab):]
			if _, defined := c.terms[suffix]; !defined {
				return suffix
			}
		}
	}

	compactIRI := ""
	for term, td := range c.terms {
		if td == nil || td.IRI == "" || iri == td.IRI || !strings.HasPrefix(iri, td.IRI) {
			continue
		}
		if c.options.processingMode(JsonLd_1_0) {
			if strings.Contains(term, ":") {
				continue
			}
		} else if !td.Prefix {
			continue
		}

		candidate := term + ":" + iri[len(td.IRI):]
		candidateDef, defined := c.terms[candidate]
		usable := !defined || (candidateDef != nil && candidateDef.IRI == iri && value.IsNull())
		if usable && (compactIRI == "" || CompareShortestLeast(candidate, compactIRI)) {
			compactIRI = candidate
		}
	}
	if compactIRI != "" {
		return compactIRI
	}

	if !vocab && c.hasBase {
		return RemoveBase(c.base, iri)
	}
	return iri
}

// selectTermForValue builds the container and preferred value lists for
// value and runs term selection.
func (c *Context) selectTermForValue(iri string, value Value, reverse bool) string {
	if p, found := value.Get("@preserve"); found {
		if items := Arrayify(p); len(items) > 0 {
			value = items[0]
		}
	}

	obj := value.Object()
	containers := make([]string, 0, 8)
	typeLanguage := "@language"
	typeLanguageValue := "@null"

	hasIndex := obj.Has("@index")
	if hasIndex && !IsGraph(value) {
		containers = append(containers, "@index", "@index@set")
	}

	switch {
	case reverse:
		typeLanguage = "@type"
		typeLanguageValue = "@reverse"
		containers = append(containers, "@set")
	case IsList(value):
		if !hasIndex {
			containers = append(containers, "@list")
		}
		list := obj.Val("@list").Items()
		commonType, commonLanguage := "", ""
		if len(list) == 0 {
			commonLanguage = c.defaultLanguageKey()
		}
		for _, item := range list {
			itemLanguage, itemType := "@none", "@none"
			if IsValue(item) {
				switch {
				case item.Has("@direction"):
					itemLanguage = languageDirectionKey(item.Val("@language").Str(), item.Val("@direction").Str())
				case item.Has("@language"):
					itemLanguage = item.Val("@language").Str()
				case item.Has("@type"):
					itemType = item.Val("@type").Str()
				default:
					itemLanguage = "@null"
				}
			} else {
				itemType = "@id"
			}

			if commonLanguage == "" {
				commonLanguage = itemLanguage
			} else if commonLanguage != itemLanguage && IsValue(item) {
				commonLanguage = "@none"
			}
			if commonType == "" {
				commonType = itemType
			} else if commonType != itemType {
				commonType = "@none"
			}
			if commonLanguage == "@none" && commonType == "@none" {
				break
			}
		}
		if commonLanguage == "" {
			commonLanguage = "@none"
		}
		if commonType == "" {
			commonType = "@none"
		}
		if commonType != "@none" {
			typeLanguage = "@type"
			typeLanguageValue = commonType
		} else {
			typeLanguageValue = commonLanguage
		}
	case IsGraph(value):
		if hasIndex {
			containers = append(containers, "@graph@index", "@graph@index@set")
		}
		if obj.Has("@id") {
			containers = append(containers, "@graph@id", "@graph@id@set")
		}
		containers = append(containers, "@graph", "@graph@set", "@set")
		if !hasIndex {
			containers = append(containers, "@graph@index", "@graph@index@set")
		}
		if !obj.Has("@id") {
			containers = append(containers, "@graph@id", "@graph@id@set")
		}
		containers = append(containers, "@index", "@index@set")
		typeLanguage = "@type"
		typeLanguageValue = "@id"
	default:
		if IsValue(value) {
			switch {
			case obj.Has("@direction") && !hasIndex:
				typeLanguageValue = languageDirectionKey(obj.Val("@language").Str(), obj.Val("@direction").Str())
				containers = append(containers, "@language", "@language@set")
			case obj.Has("@language") && !hasIndex:
				typeLanguageValue = obj.Val("@language").Str()
				containers = append(containers, "@language", "@language@set")
			case obj.Has("@type"):
				typeLanguage = "@type"
				typeLanguageValue = obj.Val("@type").Str()
			}
		} else {
			typeLanguage = "@type"
			typeLanguageValue = "@id"
			containers = append(containers, "@id", "@id@set", "@type", "@set@type")
		}
		containers = append(containers, "@set")
	}

	containers = append(containers, "@none")
	if !c.options.processingMode(JsonLd_1_0) {
		if !hasIndex {
			containers = append(containers, "@index", "@index@set")
		}
		if obj.Len() == 1 && obj.Has("@value") {
			containers = append(containers, "@language", "@language@set")
		}
	}

	if typeLanguageValue == "" {
		typeLanguageValue = "@null"
	}

	preferredValues := make([]string, 0, 5)
	if typeLanguageValue == "@reverse" {
		preferredValues = append(preferredValues, "@reverse")
	}
	if id, found := obj.Get("@id"); found && (typeLanguageValue == "@id" || typeLanguageValue == "@reverse") {
		compactedID := c.CompactIri(id.Str(), Null, true, false)
		if td, defined := c.terms[compactedID]; defined && td != nil && td.IRI == id.Str() {
			preferredValues = append(preferredValues, "@vocab", "@id", "@none")
		} else {
			preferredValues = append(preferredValues, "@id", "@vocab", "@none")
		}
	} else {
		preferredValues = append(preferredValues, typeLanguageValue, "@none")
		if IsList(value) && len(obj.Val("@list").Items()) == 0 {
			typeLanguage = "@any"
		}
	}
	preferredValues = append(preferredValues, "@any")

	for _, pv := range preferredValues {
		if i := strings.Index(pv, "_"); i >= 0 {
			preferredValues = append(preferredValues, pv[i:])
			break
		}
	}

	return c.SelectTerm(iri, containers, typeLanguage, preferredValues)
}

// CompactValue compacts a value object or node reference used with
// activeProperty. The result is a scalar when nothing is lost by doing so.
// See https://www.w3.org/TR/json-ld11-api/#value-compaction
func (c *Context) CompactValue(activeProperty string, value Value) Value {
	td := c.terms[activeProperty]
	obj := value.Object()

	language := c.language
	direction := c.direction
	typeMapping := ""
	if td != nil {
		if td.HasLanguage {
			language = td.Language
		}
		if td.HasDirection {
			direction = td.Direction
		}
		typeMapping = td.Type
	}
	indexContainer := td.HasContainer("@index")

	if obj.Has("@id") {
		onlyID := obj.Len() == 1 || (obj.Len() == 2 && obj.Has("@index") && indexContainer)
		if onlyID {
			switch typeMapping {
			case "@id":
				return NewString(c.CompactIri(obj.Val("@id").Str(), Null, false, false))
			case "@vocab":
				return NewString(c.CompactIri(obj.Val("@id").Str(), Null, true, false))
			}
		}
		return c.aliasKeys(obj)
	}

	indexFits := !obj.Has("@index") || indexContainer
	typeVal, hasType := obj.Get("@type")
	v := obj.Val("@value")

	switch {
	case hasType && typeVal.Str() == typeMapping && indexFits:
		return v
	case typeMapping == "@none" || hasType:
		res := c.aliasKeys(obj)
		if hasType {
			compactedType := NewString(c.CompactIri(typeVal.Str(), Null, true, false))
			res.Object().Set(c.CompactIri("@type", Null, true, false), compactedType)
		}
		return res
	case !v.IsString():
		if indexFits {
			return v
		}
	case obj.Val("@language").Str() == language && obj.Val("@direction").Str() == direction:
		if indexFits {
			return v
		}
	}
	return c.aliasKeys(obj)
}

// aliasKeys copies a value object, replacing keywords with their aliases.
func (c *Context) aliasKeys(obj *Object) Value {
	res := NewObject()
	for _, k := range obj.keys {
		res.Set(c.CompactIri(k, Null, true, false), obj.values[k])
	}
	return res.Value()
}
