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
	"math"
	"regexp"
	"strconv"
)

// Node is an RDF term: an IRI, a blank node or a literal.
type Node interface {
	// GetValue returns the node's value.
	GetValue() string

	// Equal returns true id this node is equal to the given node.
	Equal(n Node) bool
}

// Literal is an RDF literal. Language is set only for rdf:langString.
type Literal struct {
	Value    string
	Datatype string
	Language string
}

// NewLiteral creates a literal. An empty datatype means xsd:string, or
// rdf:langString when a language is given.
func NewLiteral(value string, datatype string, language string) *Literal {
	l := &Literal{
		Value:    value,
		Datatype: datatype,
		Language: language,
	}
	if datatype == "" {
		if language != "" {
			l.Datatype = RDFLangString
		} else {
			l.Datatype = XSDString
		}
	}
	return l
}

func (l *Literal) GetValue() string {
	return l.Value
}

func (l *Literal) Equal(n Node) bool {
	ol, ok := n.(*Literal)
	if !ok {
		return false
	}
	return l.Value == ol.Value && l.Language == ol.Language && l.Datatype == ol.Datatype
}

type IRI struct {
	Value string
}

func NewIRI(iri string) *IRI {
	return &IRI{Value: iri}
}

func (iri *IRI) GetValue() string {
	return iri.Value
}

func (iri *IRI) Equal(n Node) bool {
	if oiri, ok := n.(*IRI); ok {
		return iri.Value == oiri.Value
	}
	return false
}

// BlankNode is a blank node. Attribute holds the full label, including
// the "_:" prefix.
type BlankNode struct {
	Attribute string
}

func NewBlankNode(attribute string) *BlankNode {
	return &BlankNode{Attribute: attribute}
}

func (bn *BlankNode) GetValue() string {
	return bn.Attribute
}

func (bn *BlankNode) Equal(n Node) bool {
	if obn, ok := n.(*BlankNode); ok {
		return bn.Attribute == obn.Attribute
	}
	return false
}

func IsBlankNode(node Node) bool {
	_, isBlankNode := node.(*BlankNode)
	return isBlankNode
}

func IsIRI(node Node) bool {
	_, isIRI := node.(*IRI)
	return isIRI
}

func IsLiteral(node Node) bool {
	_, isLiteral := node.(*Literal)
	return isLiteral
}

// nodeFor returns a blank node for "_:" labels and an IRI otherwise.
func nodeFor(id string) Node {
	if IsBlankNodeID(id) {
		return NewBlankNode(id)
	}
	return NewIRI(id)
}

var (
	patternInteger = regexp.MustCompile(`^[\-+]?\d+$`)
	patternDouble  = regexp.MustCompile(`^(\+|-)?(\d+(\.\d*)?|\.\d+)([Ee](\+|-)?\d+)?$`)
)

// RdfToObject converts an RDF term into its expanded JSON-LD form: a node
// reference for IRIs and blank nodes, a value object for literals.
// See https://www.w3.org/TR/json-ld11-api/#rdf-to-object-conversion
func RdfToObject(n Node, useNativeTypes bool) (Value, error) {
	if IsIRI(n) || IsBlankNode(n) {
		return NewObject().Set("@id", NewString(n.GetValue())).Value(), nil
	}

	literal, isLiteral := n.(*Literal)
	if !isLiteral {
		return Null, NewJsonLdError(InvalidQuad, fmt.Sprintf("unsupported RDF term %T", n))
	}

	rval := NewObject().Set("@value", NewString(literal.Value))
	datatype := literal.Datatype

	switch {
	case literal.Language != "":
		rval.Set("@language", NewString(literal.Language))
	case datatype == RDFJSONLiteral:
		parsed, err := ParseJSON([]byte(literal.Value))
		if err != nil {
			return Null, NewJsonLdError(InvalidJSONLiteral, err)
		}
		rval.Set("@value", parsed)
		rval.Set("@type", NewString("@json"))
	case useNativeTypes && datatype == XSDString:
		// plain strings carry no type
	case useNativeTypes && datatype == XSDBoolean:
		switch literal.Value {
		case "true":
			rval.Set("@value", NewBool(true))
		case "false":
			rval.Set("@value", NewBool(false))
		default:
			rval.Set("@type", NewString(datatype))
		}
	case useNativeTypes && datatype == XSDInteger && patternInteger.MatchString(literal.Value):
		i, err := strconv.ParseInt(literal.Value, 10, 64)
		if err == nil && strconv.FormatInt(i, 10) == literal.Value {
			rval.Set("@value", NewInt(i))
		} else {
			rval.Set("@type", NewString(datatype))
		}
	case useNativeTypes && datatype == XSDDouble && patternDouble.MatchString(literal.Value):
		d, err := strconv.ParseFloat(literal.Value, 64)
		if err == nil && !math.IsNaN(d) && !math.IsInf(d, 0) {
			rval.Set("@value", NewFloat(d))
		} else {
			rval.Set("@type", NewString(datatype))
		}
	case datatype != XSDString:
		rval.Set("@type", NewString(datatype))
	}

	return rval.Value(), nil
}

// objectToRDF converts an expanded value, node reference or list into an RDF
// term. List cells are appended to triples. A nil Node means the item has
// no RDF form (relative IRI or malformed datatype/language) and is skipped.
// See https://www.w3.org/TR/json-ld11-api/#object-to-rdf-conversion
func objectToRDF(item Value, issuer *IdentifierIssuer, graphName string, triples []*Quad) (Node, []*Quad, error) {
	if IsNodeObject(item) {
		id := item.Val("@id").Str()
		if IsRelativeIri(id) {
			return nil, triples, nil
		}
		return nodeFor(id), triples, nil
	}

	if IsList(item) {
		return parseList(item.Val("@list").Items(), issuer, graphName, triples)
	}

	if !IsValue(item) {
		return nil, triples, nil
	}

	value := item.Val("@value")
	datatype := item.Val("@type").Str()

	if datatype != "" && datatype != "@json" && !wellFormedIRI(datatype) {
		return nil, triples, nil
	}
	language := item.Val("@language").Str()
	if language != "" && !validLanguageRegex.MatchString(language) {
		return nil, triples, nil
	}

	if datatype == "@json" {
		canonical, err := CanonicalJSON(value)
		if err != nil {
			return nil, triples, NewJsonLdError(InvalidRdfLiteralValue, err)
		}
		return NewLiteral(canonical, RDFJSONLiteral, ""), triples, nil
	}

	switch value.Kind() {
	case BoolKind:
		b, _ := value.AsBool()
		return NewLiteral(strconv.FormatBool(b), orDefault(datatype, XSDBoolean), ""), triples, nil
	case NumberKind:
		f, _ := value.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, triples, NewJsonLdError(InvalidRdfLiteralValue, value)
		}
		isIntegral := value.IsInteger() || (f == math.Trunc(f) && math.Abs(f) < 1e21)
		if !isIntegral || datatype == XSDDouble {
			return NewLiteral(GetCanonicalDouble(f), orDefault(datatype, XSDDouble), ""), triples, nil
		}
		lexical := strconv.FormatFloat(f, 'f', 0, 64)
		if i, isInt := value.AsInt(); isInt {
			lexical = strconv.FormatInt(i, 10)
		}
		return NewLiteral(lexical, orDefault(datatype, XSDInteger), ""), triples, nil
	case StringKind:
		if language != "" {
			return NewLiteral(value.Str(), RDFLangString, language), triples, nil
		}
		return NewLiteral(value.Str(), orDefault(datatype, XSDString), ""), triples, nil
	}

	return nil, triples, NewJsonLdError(InvalidRdfLiteralValue, value)
}

func orDefault(s string, def string) string {
	if s == "" {
		return def
	}
	return s
}

// parseList encodes list items as an rdf:first/rdf:rest chain with a fresh
// blank node per cell. The empty list is rdf:nil.
func parseList(list []Value, issuer *IdentifierIssuer, graphName string, triples []*Quad) (Node, []*Quad, error) {
	if len(list) == 0 {
		return nilIRI, triples, nil
	}

	head := NewBlankNode(issuer.GetId(""))
	subj := head
	for i, item := range list {
		var obj Node
		var err error
		if obj, triples, err = objectToRDF(item, issuer, graphName, triples); err != nil {
			return nil, triples, err
		}

		var next Node = nilIRI
		if i < len(list)-1 {
			next = NewBlankNode(issuer.GetId(""))
		}
		if obj != nil {
			triples = append(triples, NewQuad(subj, first, obj, graphName))
		}
		triples = append(triples, NewQuad(subj, rest, next, graphName))
		if bn, isBlank := next.(*BlankNode); isBlank {
			subj = bn
		}
	}
	return head, triples, nil
}
