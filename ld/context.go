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
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Context is an active context: the term definitions, base IRI, vocabulary
// mapping and defaults in effect at some point of a document.
//
// A Context is immutable. Processing a local context returns a new Context
// that shares the unchanged term definitions with its parent, so a Context
// may be used from several goroutines.
type Context struct {
	options *JsonLdOptions

	base         string
	hasBase      bool
	originalBase string
	vocab        string
	hasVocab     bool
	language     string
	direction    string

	terms    map[string]*TermDefinition
	previous *Context

	inverseOnce sync.Once
	inverse     inverseContext
}

// TermDefinition describes how a term expands. Term definitions are shared
// between contexts and never modified once created.
type TermDefinition struct {
	// IRI is the IRI mapping, possibly a keyword. An empty IRI means the
	// term is explicitly mapped to null.
	IRI     string
	Reverse bool
	// Type is the type mapping: an IRI, @id, @vocab, @json or @none.
	Type string
	// Language is only meaningful with HasLanguage. An empty Language with
	// HasLanguage set means "no language".
	Language     string
	HasLanguage  bool
	Direction    string
	HasDirection bool
	// Container holds the container mapping, sorted.
	Container []string
	Index     string
	// Context is the scoped context, applied when the term is used.
	Context    Value
	HasContext bool
	BaseURL    string
	Protected  bool
	Prefix     bool
	Nest       string
}

// HasContainer reports whether the container mapping includes c.
func (td *TermDefinition) HasContainer(c string) bool {
	if td == nil {
		return false
	}
	return containsString(td.Container, c)
}

func (td *TermDefinition) sameAs(other *TermDefinition) bool {
	return td.IRI == other.IRI &&
		td.Reverse == other.Reverse &&
		td.Type == other.Type &&
		td.Language == other.Language && td.HasLanguage == other.HasLanguage &&
		td.Direction == other.Direction && td.HasDirection == other.HasDirection &&
		strings.Join(td.Container, ",") == strings.Join(other.Container, ",") &&
		td.Index == other.Index &&
		td.HasContext == other.HasContext && td.Context.Equal(other.Context) &&
		td.Prefix == other.Prefix &&
		td.Nest == other.Nest
}

// NewContext creates an empty active context with the base IRI taken
// from options.
func NewContext(options *JsonLdOptions) *Context {
	if options == nil {
		options = NewJsonLdOptions("")
	}
	return &Context{
		options:      options,
		base:         options.Base,
		hasBase:      options.Base != "",
		originalBase: options.Base,
		terms:        make(map[string]*TermDefinition),
	}
}

// derive returns a copy of c that can be populated before being returned
// to callers. Term definitions are shared.
func (c *Context) derive() *Context {
	terms := make(map[string]*TermDefinition, len(c.terms))
	for k, v := range c.terms {
		terms[k] = v
	}
	return &Context{
		options:      c.options,
		base:         c.base,
		hasBase:      c.hasBase,
		originalBase: c.originalBase,
		vocab:        c.vocab,
		hasVocab:     c.hasVocab,
		language:     c.language,
		direction:    c.direction,
		terms:        terms,
		previous:     c.previous,
	}
}

// Base returns the base IRI and whether one is set.
func (c *Context) Base() (string, bool) { return c.base, c.hasBase }

// Vocab returns the vocabulary mapping and whether one is set.
func (c *Context) Vocab() (string, bool) { return c.vocab, c.hasVocab }

// Language returns the default language, or "".
func (c *Context) Language() string { return c.language }

// Direction returns the default base direction, or "".
func (c *Context) Direction() string { return c.direction }

// Previous returns the context that was active before a non-propagated
// context was applied, or nil.
func (c *Context) Previous() *Context { return c.previous }

// GetTermDefinition returns the definition of term.
func (c *Context) GetTermDefinition(term string) (*TermDefinition, bool) {
	td, found := c.terms[term]
	return td, found
}

// Terms returns all defined terms, sorted.
func (c *Context) Terms() []string {
	res := make([]string, 0, len(c.terms))
	for t := range c.terms {
		res = append(res, t)
	}
	sort.Strings(res)
	return res
}

func (c *Context) hasProtectedTerms() bool {
	for _, td := range c.terms {
		if td != nil && td.Protected {
			return true
		}
	}
	return false
}

// Parse processes a local context, retrieving any remote contexts through
// the document loader, and returns the resulting active context.
// local may be an object, an IRI string, null or an array of those.
func (c *Context) Parse(local Value) (*Context, error) {
	return c.parse(local, c.originalBase, nil, false, true, true)
}

// parse implements the context processing algorithm.
//
// baseURL resolves relative context IRIs; remoteContexts holds the IRIs of
// the remote contexts being processed, for cycle detection.
func (c *Context) parse(local Value, baseURL string, remoteContexts []string, overrideProtected, propagate,
	validateScoped bool) (*Context, error) {

	if p, found := local.Get("@propagate"); found {
		b, isBool := p.AsBool()
		if !isBool {
			return nil, NewJsonLdError(InvalidPropagateValue, p)
		}
		propagate = b
	}

	result := c.derive()
	if !propagate && result.previous == nil {
		result.previous = c
	}

	contexts := Arrayify(local)
	if local.IsNull() {
		contexts = []Value{Null}
	}
	for _, ctx := range contexts {
		switch ctx.Kind() {
		case NullKind:
			if !overrideProtected && result.hasProtectedTerms() {
				return nil, NewJsonLdError(InvalidContextNullification,
					"tried to nullify a context with protected terms")
			}
			reset := NewContext(c.options)
			reset.base, reset.hasBase = c.originalBase, c.originalBase != ""
			reset.originalBase = c.originalBase
			if !propagate {
				reset.previous = result
			}
			result = reset
		case StringKind:
			var err error
			result, err = result.parseRemote(ctx.Str(), baseURL, remoteContexts, overrideProtected, validateScoped)
			if err != nil {
				return nil, err
			}
		case ObjectKind:
			var err error
			if err = result.parseObject(ctx.Object(), baseURL, remoteContexts, overrideProtected); err != nil {
				return nil, err
			}
		default:
			return nil, NewJsonLdError(InvalidLocalContext, ctx)
		}
	}
	return result, nil
}

func (c *Context) loader() DocumentLoader {
	if c.options.DocumentLoader == nil {
		return NewDefaultDocumentLoader(nil)
	}
	return c.options.DocumentLoader
}

func (c *Context) parseRemote(ref string, baseURL string, remoteContexts []string, overrideProtected,
	validateScoped bool) (*Context, error) {

	uri := ref
	if baseURL != "" {
		uri = Resolve(baseURL, ref)
	} else if c.hasBase {
		uri = Resolve(c.base, ref)
	}

	if containsString(remoteContexts, uri) {
		if !validateScoped {
			return c, nil
		}
		return nil, NewJsonLdError(RecursiveContextInclusion, uri)
	}

	c.options.logger().Debug("loading remote context", "url", uri)
	rd, err := c.loader().LoadDocument(uri)
	if err != nil {
		return nil, NewJsonLdError(LoadingRemoteContextFailed, fmt.Errorf("%s: %w", uri, err))
	}
	remoteCtx, found := rd.Document.Get("@context")
	if !found {
		return nil, NewJsonLdError(InvalidRemoteContext, uri)
	}

	docURL := rd.DocumentURL
	if docURL == "" {
		docURL = uri
	}
	stack := append(append([]string(nil), remoteContexts...), uri)
	return c.parse(remoteCtx, docURL, stack, overrideProtected, true, validateScoped)
}

var contextKeywords = map[string]bool{
	"@base": true, "@direction": true, "@import": true, "@language": true, "@propagate": true,
	"@protected": true, "@version": true, "@vocab": true,
}

// parseObject applies one context definition object to c, which is still
// under construction.
func (c *Context) parseObject(ctx *Object, baseURL string, remoteContexts []string, overrideProtected bool) error {
	if v, found := ctx.Get("@version"); found {
		if f, isNum := v.AsFloat(); !isNum || f != 1.1 {
			return NewJsonLdError(InvalidVersionValue, v)
		}
		if c.options.processingMode(JsonLd_1_0) {
			return NewJsonLdError(ProcessingModeConflict, v)
		}
	}

	if v, found := ctx.Get("@import"); found {
		if c.options.processingMode(JsonLd_1_0) {
			return NewJsonLdError(InvalidContextEntry, "@import is not supported in JSON-LD 1.0")
		}
		ref, isString := v.AsString()
		if !isString {
			return NewJsonLdError(InvalidImportValue, v)
		}
		imported, err := c.loadImport(Resolve(baseURL, ref))
		if err != nil {
			return err
		}
		for _, k := range ctx.keys {
			imported.Set(k, ctx.values[k])
		}
		imported.Delete("@import")
		ctx = imported
	}

	if v, found := ctx.Get("@base"); found && len(remoteContexts) == 0 {
		switch {
		case v.IsNull():
			c.base, c.hasBase = "", false
		case v.IsString() && IsAbsoluteIri(v.Str()):
			c.base, c.hasBase = v.Str(), true
		case v.IsString() && c.hasBase:
			c.base = Resolve(c.base, v.Str())
		case v.IsString() && v.Str() == "":
			// an empty relative base with no base to resolve against
		default:
			return NewJsonLdError(InvalidBaseIRI, v)
		}
	}

	if v, found := ctx.Get("@vocab"); found {
		switch {
		case v.IsNull():
			c.vocab, c.hasVocab = "", false
		case v.IsString():
			s := v.Str()
			if !IsAbsoluteIri(s) && !IsBlankNodeID(s) && c.options.processingMode(JsonLd_1_0) {
				return NewJsonLdError(InvalidVocabMapping, "@vocab must be an absolute IRI in JSON-LD 1.0")
			}
			iri, ok, err := c.expandIri(s, true, true, nil, nil)
			if err != nil {
				return err
			}
			if !ok || (!IsAbsoluteIri(iri) && !IsBlankNodeID(iri)) {
				return NewJsonLdError(InvalidVocabMapping, v)
			}
			c.vocab, c.hasVocab = iri, true
		default:
			return NewJsonLdError(InvalidVocabMapping, v)
		}
	}

	if v, found := ctx.Get("@language"); found {
		switch {
		case v.IsNull():
			c.language = ""
		case v.IsString():
			c.language = strings.ToLower(v.Str())
		default:
			return NewJsonLdError(InvalidDefaultLanguage, v)
		}
	}

	if v, found := ctx.Get("@direction"); found {
		if c.options.processingMode(JsonLd_1_0) {
			return NewJsonLdError(InvalidContextEntry, "@direction is not supported in JSON-LD 1.0")
		}
		switch {
		case v.IsNull():
			c.direction = ""
		case v.Str() == "ltr" || v.Str() == "rtl":
			c.direction = v.Str()
		default:
			return NewJsonLdError(InvalidBaseDirection, v)
		}
	}

	if ctx.Has("@propagate") && c.options.processingMode(JsonLd_1_0) {
		return NewJsonLdError(InvalidContextEntry, "@propagate is not supported in JSON-LD 1.0")
	}

	protected := false
	if v, found := ctx.Get("@protected"); found {
		b, isBool := v.AsBool()
		if !isBool {
			return NewJsonLdError(InvalidContextEntry, fmt.Sprintf("invalid @protected value: %v", v))
		}
		protected = b
	}

	defined := make(map[string]bool)
	for _, term := range ctx.keys {
		if contextKeywords[term] {
			continue
		}
		if err := c.createTermDefinition(ctx, term, defined, baseURL, protected, overrideProtected,
			remoteContexts); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) loadImport(uri string) (*Object, error) {
	rd, err := c.loader().LoadDocument(uri)
	if err != nil {
		return nil, NewJsonLdError(LoadingRemoteContextFailed, fmt.Errorf("%s: %w", uri, err))
	}
	imported := rd.Document.Val("@context")
	importedObj, isObject := imported.AsObject()
	if !isObject {
		return nil, NewJsonLdError(InvalidRemoteContext, uri)
	}
	if importedObj.Has("@import") {
		return nil, NewJsonLdError(InvalidContextEntry, fmt.Sprintf("imported context %s contains @import", uri))
	}
	return importedObj.Clone(), nil
}

var validTermKeys = map[string]bool{
	"@id": true, "@reverse": true, "@container": true, "@context": true, "@direction": true,
	"@index": true, "@language": true, "@nest": true, "@prefix": true, "@protected": true, "@type": true,
}

const genDelims = ":/?#[]@"

// createTermDefinition defines term from the local context object local.
// defined tracks terms being defined (false) or done (true), which lets
// terms refer to each other in any order and detects cycles.
func (c *Context) createTermDefinition(local *Object, term string, defined map[string]bool, baseURL string,
	protected, overrideProtected bool, remoteContexts []string) error {

	if done, found := defined[term]; found {
		if done {
			return nil
		}
		return NewJsonLdError(CyclicIRIMapping, term)
	}
	if term == "" {
		return NewJsonLdError(InvalidTermDefinition, "empty term")
	}
	defined[term] = false

	value := local.Val(term)
	is10 := c.options.processingMode(JsonLd_1_0)

	if term == "@type" && !is10 && value.IsObject() {
		for _, k := range value.obj.keys {
			if k != "@container" && k != "@protected" {
				return NewJsonLdError(KeywordRedefinition, term)
			}
		}
		if cont, found := value.Get("@container"); found && cont.Str() != "@set" {
			return NewJsonLdError(KeywordRedefinition, term)
		}
	} else if IsKeyword(term) {
		return NewJsonLdError(KeywordRedefinition, term)
	} else if hasKeywordForm(term) {
		c.options.logger().Debug("ignoring term with the form of a keyword", "term", term)
		defined[term] = true
		return nil
	}

	previous := c.terms[term]
	delete(c.terms, term)

	simpleTerm := false
	var def *Object
	switch value.Kind() {
	case NullKind:
		def = NewObject().Set("@id", Null)
	case StringKind:
		def = NewObject().Set("@id", value)
		simpleTerm = true
	case ObjectKind:
		def = value.obj
	default:
		return NewJsonLdError(InvalidTermDefinition, value)
	}

	for _, k := range def.keys {
		if !validTermKeys[k] {
			return NewJsonLdError(InvalidTermDefinition, fmt.Sprintf("term %s has invalid key %s", term, k))
		}
	}

	td := &TermDefinition{Protected: protected}

	if v, found := def.Get("@protected"); found {
		if is10 {
			return NewJsonLdError(InvalidTermDefinition, "@protected is not supported in JSON-LD 1.0")
		}
		b, isBool := v.AsBool()
		if !isBool {
			return NewJsonLdError(InvalidTermDefinition, fmt.Sprintf("invalid @protected value: %v", v))
		}
		td.Protected = b
	}

	if v, found := def.Get("@type"); found {
		typeStr, isString := v.AsString()
		if !isString {
			return NewJsonLdError(InvalidTypeMapping, v)
		}
		typeIRI, _, err := c.expandIri(typeStr, false, true, local, defined)
		if err != nil {
			return err
		}
		switch typeIRI {
		case "@id", "@vocab":
		case "@json", "@none":
			if is10 {
				return NewJsonLdError(InvalidTypeMapping, typeIRI)
			}
		default:
			if !IsAbsoluteIri(typeIRI) {
				return NewJsonLdError(InvalidTypeMapping, typeIRI)
			}
		}
		td.Type = typeIRI
	}

	if v, found := def.Get("@reverse"); found {
		if def.Has("@id") || def.Has("@nest") {
			return NewJsonLdError(InvalidReverseProperty, term)
		}
		rev, isString := v.AsString()
		if !isString {
			return NewJsonLdError(InvalidIRIMapping, v)
		}
		if hasKeywordForm(rev) {
			c.options.logger().Debug("ignoring reverse term mapped to a keyword-like value", "term", term)
			defined[term] = true
			return nil
		}
		iri, _, err := c.expandIri(rev, false, true, local, defined)
		if err != nil {
			return err
		}
		if !strings.Contains(iri, ":") {
			return NewJsonLdError(InvalidIRIMapping, iri)
		}
		td.IRI = iri
		td.Reverse = true
	} else if v, found := def.Get("@id"); found && v.Str() != term {
		switch {
		case v.IsNull():
			// explicitly unmapped term
		case v.IsString():
			id := v.Str()
			if !IsKeyword(id) && hasKeywordForm(id) {
				c.options.logger().Debug("ignoring term mapped to a keyword-like value", "term", term)
				defined[term] = true
				return nil
			}
			iri, _, err := c.expandIri(id, false, true, local, defined)
			if err != nil {
				return err
			}
			if !IsKeyword(iri) && !strings.Contains(iri, ":") {
				return NewJsonLdError(InvalidIRIMapping, iri)
			}
			if iri == "@context" {
				return NewJsonLdError(InvalidKeywordAlias, term)
			}
			if !is10 && (strings.Contains(strings.TrimSuffix(term[1:], ":"), ":") || strings.Contains(term, "/")) {
				defined[term] = true
				termIRI, _, err := c.expandIri(term, false, true, local, defined)
				if err != nil {
					return err
				}
				if termIRI != iri {
					return NewJsonLdError(InvalidIRIMapping,
						fmt.Sprintf("term %s expands to %s, not %s", term, termIRI, iri))
				}
			}
			td.IRI = iri
			if !strings.ContainsAny(term, ":/") && simpleTerm &&
				(strings.ContainsAny(iri[len(iri)-1:], genDelims) || IsBlankNodeID(iri)) {
				td.Prefix = true
			}
		default:
			return NewJsonLdError(InvalidIRIMapping, v)
		}
	} else if idx := strings.Index(term[1:], ":"); idx >= 0 {
		prefix, suffix := term[:idx+1], term[idx+2:]
		if local.Has(prefix) {
			if err := c.createTermDefinition(local, prefix, defined, baseURL, protected, overrideProtected,
				remoteContexts); err != nil {
				return err
			}
		}
		if pd := c.terms[prefix]; pd != nil && pd.IRI != "" {
			td.IRI = pd.IRI + suffix
		} else {
			td.IRI = term
		}
	} else if strings.Contains(term, "/") {
		iri, _, err := c.expandIri(term, false, true, local, defined)
		if err != nil {
			return err
		}
		if !IsAbsoluteIri(iri) {
			return NewJsonLdError(InvalidIRIMapping, iri)
		}
		td.IRI = iri
	} else if term == "@type" {
		td.IRI = "@type"
	} else if c.hasVocab {
		td.IRI = c.vocab + term
	} else {
		return NewJsonLdError(InvalidIRIMapping, fmt.Sprintf("relative term %s with no vocabulary mapping", term))
	}

	if v, found := def.Get("@container"); found {
		containers, err := c.validateContainer(v, td)
		if err != nil {
			return err
		}
		td.Container = containers
		if td.HasContainer("@type") {
			if td.Type == "" {
				td.Type = "@id"
			}
			if td.Type != "@id" && td.Type != "@vocab" {
				return NewJsonLdError(InvalidTypeMapping, td.Type)
			}
		}
	}

	if v, found := def.Get("@index"); found {
		if is10 || !td.HasContainer("@index") {
			return NewJsonLdError(InvalidTermDefinition, fmt.Sprintf("@index without @index container on %s", term))
		}
		idx, isString := v.AsString()
		if !isString {
			return NewJsonLdError(InvalidTermDefinition, v)
		}
		expandedIdx, _, err := c.expandIri(idx, false, true, local, defined)
		if err != nil {
			return err
		}
		if !IsAbsoluteIri(expandedIdx) {
			return NewJsonLdError(InvalidTermDefinition, fmt.Sprintf("invalid @index %s", idx))
		}
		td.Index = idx
	}

	if v, found := def.Get("@context"); found {
		if is10 {
			return NewJsonLdError(InvalidTermDefinition, "scoped contexts are not supported in JSON-LD 1.0")
		}
		if _, err := c.parse(v, baseURL, remoteContexts, true, true, false); err != nil {
			return NewJsonLdError(InvalidScopedContext, err)
		}
		td.Context = v
		td.HasContext = true
		td.BaseURL = baseURL
	}

	if v, found := def.Get("@language"); found && !def.Has("@type") {
		switch {
		case v.IsNull():
		case v.IsString():
			td.Language = strings.ToLower(v.Str())
		default:
			return NewJsonLdError(InvalidLanguageMapping, v)
		}
		td.HasLanguage = true
	}

	if v, found := def.Get("@direction"); found && !def.Has("@type") {
		switch {
		case v.IsNull():
		case v.Str() == "ltr" || v.Str() == "rtl":
			td.Direction = v.Str()
		default:
			return NewJsonLdError(InvalidBaseDirection, v)
		}
		td.HasDirection = true
	}

	if v, found := def.Get("@nest"); found {
		if is10 {
			return NewJsonLdError(InvalidTermDefinition, "@nest is not supported in JSON-LD 1.0")
		}
		nest, isString := v.AsString()
		if !isString || (IsKeyword(nest) && nest != "@nest") {
			return NewJsonLdError(InvalidNestValue, v)
		}
		td.Nest = nest
	}

	if v, found := def.Get("@prefix"); found {
		if is10 || strings.ContainsAny(term, ":/") {
			return NewJsonLdError(InvalidTermDefinition, fmt.Sprintf("@prefix not allowed on %s", term))
		}
		b, isBool := v.AsBool()
		if !isBool {
			return NewJsonLdError(InvalidPrefixValue, v)
		}
		if b && IsKeyword(td.IRI) {
			return NewJsonLdError(InvalidTermDefinition, fmt.Sprintf("keyword alias %s cannot be a prefix", term))
		}
		td.Prefix = b
	}

	if !overrideProtected && previous != nil && previous.Protected {
		if !td.sameAs(previous) {
			return NewJsonLdError(ProtectedTermRedefinition, term)
		}
		td = previous
	}

	c.terms[term] = td
	defined[term] = true
	return nil
}

var validContainers = map[string]bool{
	"@graph": true, "@id": true, "@index": true, "@language": true, "@list": true, "@set": true, "@type": true,
}

func (c *Context) validateContainer(v Value, td *TermDefinition) ([]string, error) {
	if c.options.processingMode(JsonLd_1_0) {
		s, isString := v.AsString()
		if !isString || s == "@graph" || s == "@id" || s == "@type" {
			return nil, NewJsonLdError(InvalidContainerMapping, v)
		}
	}

	if v.IsNull() {
		return nil, NewJsonLdError(InvalidContainerMapping, v)
	}
	items := Arrayify(v)
	containers := make([]string, 0, len(items))
	for _, item := range items {
		s, isString := item.AsString()
		if !isString || !validContainers[s] {
			return nil, NewJsonLdError(InvalidContainerMapping, v)
		}
		if !containsString(containers, s) {
			containers = append(containers, s)
		}
	}
	sort.Strings(containers)

	if td.Reverse {
		for _, cont := range containers {
			if cont != "@set" && cont != "@index" {
				return nil, NewJsonLdError(InvalidReverseProperty, v)
			}
		}
	}

	has := func(s string) bool { return containsString(containers, s) }
	valid := true
	switch {
	case len(containers) <= 1:
	case has("@list"):
		valid = false
	case has("@graph"):
		// @graph combines with @id or @index, plus @set
		for _, cont := range containers {
			if cont != "@graph" && cont != "@id" && cont != "@index" && cont != "@set" {
				valid = false
			}
		}
		valid = valid && !(has("@id") && has("@index"))
	case has("@set"):
		valid = len(containers) == 2
	default:
		valid = false
	}
	if !valid {
		return nil, NewJsonLdError(InvalidContainerMapping, v)
	}
	return containers, nil
}

// ExpandIri expands a term, compact IRI or relative IRI. With vocab set,
// terms and the vocabulary mapping are used; with relative set, relative
// IRIs are resolved against the base IRI. ok is false when value maps to
// null.
func (c *Context) ExpandIri(value string, relative bool, vocab bool) (iri string, ok bool) {
	iri, ok, _ = c.expandIri(value, relative, vocab, nil, nil)
	return iri, ok
}

func (c *Context) expandIri(value string, relative bool, vocab bool, local *Object,
	defined map[string]bool) (string, bool, error) {

	if IsKeyword(value) {
		return value, true, nil
	}
	if hasKeywordForm(value) {
		return "", false, nil
	}

	if local != nil && local.Has(value) && !defined[value] {
		if err := c.createTermDefinition(local, value, defined, c.originalBase, false, false, nil); err != nil {
			return "", false, err
		}
	}

	if td, found := c.terms[value]; found {
		if td == nil || td.IRI == "" {
			return "", false, nil
		}
		if vocab || IsKeyword(td.IRI) {
			return td.IRI, true, nil
		}
	}

	if idx := strings.Index(value, ":"); idx > 0 {
		prefix, suffix := value[:idx], value[idx+1:]
		if prefix == "_" || strings.HasPrefix(suffix, "//") {
			return value, true, nil
		}
		if local != nil && local.Has(prefix) && !defined[prefix] {
			if err := c.createTermDefinition(local, prefix, defined, c.originalBase, false, false, nil); err != nil {
				return "", false, err
			}
		}
		if pd := c.terms[prefix]; pd != nil && pd.IRI != "" && !IsKeyword(pd.IRI) {
			return pd.IRI + suffix, true, nil
		}
		if IsAbsoluteIri(value) {
			return value, true, nil
		}
	}

	if vocab && c.hasVocab {
		return c.vocab + value, true, nil
	}
	if relative && c.hasBase {
		return Resolve(c.base, value), true, nil
	}
	return value, true, nil
}

// ExpandValue expands a scalar value of activeProperty into a value object,
// or a node reference when the property is @id or @vocab typed.
func (c *Context) ExpandValue(activeProperty string, value Value) Value {
	td := c.terms[activeProperty]

	if s, isString := value.AsString(); isString && td != nil && (td.Type == "@id" || td.Type == "@vocab") {
		iri, ok := c.ExpandIri(s, true, td.Type == "@vocab")
		if !ok {
			return Null
		}
		return NewObject().Set("@id", NewString(iri)).Value()
	}

	result := NewObject().Set("@value", value)
	if td != nil && td.Type != "" && td.Type != "@id" && td.Type != "@vocab" && td.Type != "@none" {
		result.Set("@type", NewString(td.Type))
	} else if value.IsString() {
		language := c.language
		if td != nil && td.HasLanguage {
			language = td.Language
		}
		direction := c.direction
		if td != nil && td.HasDirection {
			direction = td.Direction
		}
		if language != "" {
			result.Set("@language", NewString(language))
		}
		if direction != "" {
			result.Set("@direction", NewString(direction))
		}
	}
	return result.Value()
}

// Serialize renders the term definitions of c back into a context object.
// It is mainly useful for debugging.
func (c *Context) Serialize() Value {
	ctx := NewObject()
	if c.hasBase && c.base != c.originalBase {
		ctx.Set("@base", NewString(c.base))
	}
	if c.hasVocab {
		ctx.Set("@vocab", NewString(c.vocab))
	}
	if c.language != "" {
		ctx.Set("@language", NewString(c.language))
	}
	if c.direction != "" {
		ctx.Set("@direction", NewString(c.direction))
	}
	for _, term := range c.Terms() {
		td := c.terms[term]
		if td == nil || td.IRI == "" {
			ctx.Set(term, Null)
			continue
		}
		def := NewObject()
		if td.Reverse {
			def.Set("@reverse", NewString(td.IRI))
		} else {
			def.Set("@id", NewString(td.IRI))
		}
		if td.Type != "" {
			def.Set("@type", NewString(td.Type))
		}
		if td.HasLanguage {
			if td.Language == "" {
				def.Set("@language", Null)
			} else {
				def.Set("@language", NewString(td.Language))
			}
		}
		if len(td.Container) == 1 {
			def.Set("@container", NewString(td.Container[0]))
		} else if len(td.Container) > 1 {
			conts := make([]Value, len(td.Container))
			for i, cont := range td.Container {
				conts[i] = NewString(cont)
			}
			def.Set("@container", NewArray(conts...))
		}
		if def.Len() == 1 && def.Has("@id") {
			ctx.Set(term, NewString(td.IRI))
		} else {
			ctx.Set(term, def.Value())
		}
	}
	return ctx.Value()
}
