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
	"strconv"
	"strings"

	"github.com/cayleygraph/quad"
)

// ToCayleyQuads converts a dataset into Cayley quads, graph by graph in
// GraphNames order. Default graph quads have no label.
func ToCayleyQuads(ds *RDFDataset) []quad.Quad {
	res := make([]quad.Quad, 0, ds.Len())
	for _, q := range ds.Quads() {
		cq := quad.Quad{
			Subject:   toCayleyValue(q.Subject),
			Predicate: toCayleyValue(q.Predicate),
			Object:    toCayleyValue(q.Object),
		}
		if q.Graph != nil {
			cq.Label = toCayleyValue(q.Graph)
		}
		res = append(res, cq)
	}
	return res
}

func toCayleyValue(n Node) quad.Value {
	switch t := n.(type) {
	case *IRI:
		return quad.IRI(t.Value)
	case *BlankNode:
		return quad.BNode(strings.TrimPrefix(t.Attribute, "_:"))
	case *Literal:
		switch t.Datatype {
		case XSDString:
			return quad.String(t.Value)
		case RDFLangString:
			return quad.LangString{Value: quad.String(t.Value), Lang: t.Language}
		}
		return quad.TypedString{Value: quad.String(t.Value), Type: quad.IRI(t.Datatype)}
	}
	return nil
}

// FromCayleyQuads builds a dataset from Cayley quads. Native Cayley values
// (integers, floats, booleans) become xsd typed literals.
func FromCayleyQuads(quads []quad.Quad) (*RDFDataset, error) {
	ds := NewRDFDataset()
	for i, cq := range quads {
		subject, err := fromCayleyValue(cq.Subject)
		if err != nil {
			return nil, fmt.Errorf("quad %d subject: %w", i, err)
		}
		predicate, err := fromCayleyValue(cq.Predicate)
		if err != nil {
			return nil, fmt.Errorf("quad %d predicate: %w", i, err)
		}
		object, err := fromCayleyValue(cq.Object)
		if err != nil {
			return nil, fmt.Errorf("quad %d object: %w", i, err)
		}
		if IsLiteral(subject) || !IsIRI(predicate) {
			return nil, NewJsonLdError(InvalidQuad, fmt.Sprintf("quad %d: %v", i, cq))
		}

		q := &Quad{Subject: subject, Predicate: predicate, Object: object}
		if cq.Label != nil {
			if q.Graph, err = fromCayleyValue(cq.Label); err != nil {
				return nil, fmt.Errorf("quad %d label: %w", i, err)
			}
			if IsLiteral(q.Graph) {
				return nil, NewJsonLdError(InvalidQuad, fmt.Sprintf("quad %d: literal graph label", i))
			}
		}
		ds.AddQuad(q)
	}
	return ds, nil
}

func fromCayleyValue(v quad.Value) (Node, error) {
	switch t := v.(type) {
	case quad.IRI:
		return NewIRI(string(t)), nil
	case quad.BNode:
		return NewBlankNode("_:" + string(t)), nil
	case quad.String:
		return NewLiteral(string(t), XSDString, ""), nil
	case quad.LangString:
		return NewLiteral(string(t.Value), RDFLangString, t.Lang), nil
	case quad.TypedString:
		return NewLiteral(string(t.Value), string(t.Type), ""), nil
	case quad.Int:
		return NewLiteral(strconv.FormatInt(int64(t), 10), XSDInteger, ""), nil
	case quad.Float:
		return NewLiteral(GetCanonicalDouble(float64(t)), XSDDouble, ""), nil
	case quad.Bool:
		return NewLiteral(strconv.FormatBool(bool(t)), XSDBoolean, ""), nil
	case nil:
		return nil, NewJsonLdError(InvalidQuad, "missing term")
	}
	return nil, NewJsonLdError(InvalidQuad, fmt.Sprintf("unsupported Cayley value %T", v))
}
