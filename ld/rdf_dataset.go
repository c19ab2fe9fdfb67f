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
	"io"
	"regexp"
	"sort"
	"strings"
)

// Quad represents an RDF quad. Graph is nil for the default graph.
type Quad struct {
	Subject   Node
	Predicate Node
	Object    Node
	Graph     Node
}

// NewQuad creates a new instance of Quad. An empty graph name or
// "@default" puts the quad in the default graph.
func NewQuad(subject Node, predicate Node, object Node, graph string) *Quad {
	q := &Quad{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
	}
	if graph != "" && graph != "@default" {
		q.Graph = nodeFor(graph)
	}
	return q
}

// GraphName returns the quad's graph name, "@default" for the default graph.
func (q *Quad) GraphName() string {
	if q.Graph == nil {
		return "@default"
	}
	return q.Graph.GetValue()
}

// Equal returns true if this quad is equal to the given quad.
func (q *Quad) Equal(o *Quad) bool {
	if o == nil {
		return false
	}
	if (q.Graph != nil && !q.Graph.Equal(o.Graph)) || (q.Graph == nil && o.Graph != nil) {
		return false
	}
	return q.Subject.Equal(o.Subject) && q.Predicate.Equal(o.Predicate) && q.Object.Equal(o.Object)
}

// Valid reports whether every term of the quad is well-formed.
func (q *Quad) Valid() bool {
	for _, n := range []Node{q.Subject, q.Predicate, q.Object, q.Graph} {
		if n != nil && InvalidNode(n) {
			return false
		}
	}
	return true
}

// RDFDataset is a set of quads grouped by graph name. The default graph
// is stored under "@default". Duplicate quads are kept.
type RDFDataset struct {
	Graphs map[string][]*Quad
}

// RDFSerializer can serialize and de-serialize RDFDatasets.
type RDFSerializer interface {
	// Parse the input into an RDF dataset.
	Parse(input interface{}) (*RDFDataset, error)

	// Serialize an RDFDataset
	Serialize(dataset *RDFDataset) (interface{}, error)
}

// RDFSerializerTo can serialize RDFDatasets into io.Writer.
type RDFSerializerTo interface {
	SerializeTo(w io.Writer, dataset *RDFDataset) error
}

// NewRDFDataset creates a new instance of RDFDataset.
func NewRDFDataset() *RDFDataset {
	return &RDFDataset{
		Graphs: map[string][]*Quad{"@default": {}},
	}
}

// AddQuad appends q to the graph it names.
func (ds *RDFDataset) AddQuad(q *Quad) {
	name := q.GraphName()
	ds.Graphs[name] = append(ds.Graphs[name], q)
}

// GetQuads returns a list of quads for the given graph
func (ds *RDFDataset) GetQuads(graphName string) []*Quad {
	return ds.Graphs[graphName]
}

// GraphNames returns the dataset's graph names, "@default" first and the
// rest sorted.
func (ds *RDFDataset) GraphNames() []string {
	names := make([]string, 0, len(ds.Graphs))
	for name := range ds.Graphs {
		if name != "@default" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, found := ds.Graphs["@default"]; found {
		names = append([]string{"@default"}, names...)
	}
	return names
}

// Quads returns all quads of the dataset, graph by graph in GraphNames order.
func (ds *RDFDataset) Quads() []*Quad {
	res := make([]*Quad, 0)
	for _, name := range ds.GraphNames() {
		res = append(res, ds.Graphs[name]...)
	}
	return res
}

// Len returns the number of quads in the dataset.
func (ds *RDFDataset) Len() int {
	n := 0
	for _, quads := range ds.Graphs {
		n += len(quads)
	}
	return n
}

// graphToRDF adds the triples of one node map graph to the dataset.
// Relative IRIs and, unless generalized RDF is requested, blank node
// predicates have no RDF form and are skipped.
// See https://www.w3.org/TR/json-ld11-api/#deserialize-json-ld-to-rdf-algorithm
func (api *JsonLdApi) graphToRDF(ds *RDFDataset, graphName string, graph map[string]*Object,
	issuer *IdentifierIssuer) error {

	triples := make([]*Quad, 0)
	for _, id := range sortedNodeIDs(graph) {
		if IsRelativeIri(id) {
			api.logger.Debug("skipping node with relative IRI", "id", id)
			continue
		}
		node := graph[id]
		subject := nodeFor(id)

		for _, property := range node.SortedKeys() {
			values := Arrayify(node.values[property])
			switch {
			case property == "@type":
				property = RDFType
			case IsKeyword(property):
				continue
			case IsBlankNodeID(property) && !api.opts.ProduceGeneralizedRdf:
				continue
			case IsRelativeIri(property):
				api.logger.Debug("skipping property with relative IRI", "property", property)
				continue
			}
			predicate := nodeFor(property)

			for _, item := range values {
				if property == RDFType {
					// types are plain IRI strings
					if t := item.Str(); !IsRelativeIri(t) {
						triples = append(triples, NewQuad(subject, predicate, nodeFor(t), graphName))
					}
					continue
				}
				var object Node
				var err error
				if object, triples, err = objectToRDF(item, issuer, graphName, triples); err != nil {
					return err
				}
				if object != nil {
					triples = append(triples, NewQuad(subject, predicate, object, graphName))
				}
			}
		}
	}

	// drop statements with malformed terms
	sanitised := make([]*Quad, 0, len(triples))
	for _, t := range triples {
		if t.Valid() {
			sanitised = append(sanitised, t)
		}
	}
	ds.Graphs[graphName] = sanitised
	return nil
}

var canonicalDoubleRegEx = regexp.MustCompile(`(\d)0*E(-?)\+?0*(\d)`)

// GetCanonicalDouble returns the canonical xsd:double lexical form of v,
// for example 1.1E0.
func GetCanonicalDouble(v float64) string {
	return canonicalDoubleRegEx.ReplaceAllString(fmt.Sprintf("%1.15E", v), "${1}E${2}${3}")
}

var validLanguageRegex = regexp.MustCompile("^[a-zA-Z]+(-[a-zA-Z0-9]+)*$")

// InvalidNode reports whether n is a malformed IRI or a literal with a
// malformed language tag or datatype.
func InvalidNode(n Node) bool {
	switch v := n.(type) {
	case *IRI:
		return !wellFormedIRI(v.Value)
	case *Literal:
		if v.Language != "" && !validLanguageRegex.MatchString(v.Language) {
			return true
		}
		return v.Datatype != "" && !wellFormedIRI(v.Datatype)
	}
	return false
}

// wellFormedIRI checks an IRI is absolute and free of the characters the
// N-Quads IRIREF production excludes.
func wellFormedIRI(iri string) bool {
	if !IsAbsoluteIri(iri) || IsBlankNodeID(iri) {
		return false
	}
	return !strings.ContainsAny(iri, " <>\"{}|^`\\\t\n\r")
}
