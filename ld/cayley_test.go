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

package ld_test

import (
	"testing"
	"time"

	"github.com/cayleygraph/quad"
	. "github.com/piprate/json-gold/v2/ld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCayleyQuads(t *testing.T) {
	ds, err := ParseNQuads(`<http://ex/s> <http://ex/name> "Ada" .
<http://ex/s> <http://ex/label> "Ada"@en .
<http://ex/s> <http://ex/born> "1815-12-10"^^<http://www.w3.org/2001/XMLSchema#date> .
_:b0 <http://ex/knows> <http://ex/s> <http://ex/g> .
`)
	require.NoError(t, err)

	quads := ToCayleyQuads(ds)
	require.Len(t, quads, 4)

	assert.Contains(t, quads, quad.Quad{
		Subject:   quad.IRI("http://ex/s"),
		Predicate: quad.IRI("http://ex/name"),
		Object:    quad.String("Ada"),
	})
	assert.Contains(t, quads, quad.Quad{
		Subject:   quad.IRI("http://ex/s"),
		Predicate: quad.IRI("http://ex/label"),
		Object:    quad.LangString{Value: "Ada", Lang: "en"},
	})
	assert.Contains(t, quads, quad.Quad{
		Subject:   quad.IRI("http://ex/s"),
		Predicate: quad.IRI("http://ex/born"),
		Object:    quad.TypedString{Value: "1815-12-10", Type: quad.IRI(XSDNS + "date")},
	})
	// named graph quads come after the default graph
	assert.Equal(t, quad.Quad{
		Subject:   quad.BNode("b0"),
		Predicate: quad.IRI("http://ex/knows"),
		Object:    quad.IRI("http://ex/s"),
		Label:     quad.IRI("http://ex/g"),
	}, quads[3])
}

func TestFromCayleyQuads(t *testing.T) {
	ds, err := FromCayleyQuads([]quad.Quad{
		{Subject: quad.IRI("http://ex/s"), Predicate: quad.IRI("http://ex/n"), Object: quad.Int(42)},
		{Subject: quad.IRI("http://ex/s"), Predicate: quad.IRI("http://ex/d"), Object: quad.Float(2.5)},
		{Subject: quad.IRI("http://ex/s"), Predicate: quad.IRI("http://ex/b"), Object: quad.Bool(true)},
		{Subject: quad.BNode("x"), Predicate: quad.IRI("http://ex/p"), Object: quad.String("v"), Label: quad.IRI("http://ex/g")},
	})
	require.NoError(t, err)

	assertIsomorphic(t, `<http://ex/s> <http://ex/n> "42"^^<http://www.w3.org/2001/XMLSchema#integer> .
<http://ex/s> <http://ex/d> "2.5E0"^^<http://www.w3.org/2001/XMLSchema#double> .
<http://ex/s> <http://ex/b> "true"^^<http://www.w3.org/2001/XMLSchema#boolean> .
_:x <http://ex/p> "v" <http://ex/g> .
`, ds)
	assert.Equal(t, []string{"@default", "http://ex/g"}, ds.GraphNames())
}

func TestFromCayleyQuads_Errors(t *testing.T) {
	tests := []struct {
		name string
		q    quad.Quad
	}{
		{
			name: "literal subject",
			q:    quad.Quad{Subject: quad.String("s"), Predicate: quad.IRI("http://ex/p"), Object: quad.String("o")},
		},
		{
			name: "blank predicate",
			q:    quad.Quad{Subject: quad.IRI("http://ex/s"), Predicate: quad.BNode("p"), Object: quad.String("o")},
		},
		{
			name: "missing object",
			q:    quad.Quad{Subject: quad.IRI("http://ex/s"), Predicate: quad.IRI("http://ex/p")},
		},
		{
			name: "literal label",
			q: quad.Quad{Subject: quad.IRI("http://ex/s"), Predicate: quad.IRI("http://ex/p"),
				Object: quad.String("o"), Label: quad.String("g")},
		},
		{
			name: "unsupported value",
			q: quad.Quad{Subject: quad.IRI("http://ex/s"), Predicate: quad.IRI("http://ex/p"),
				Object: quad.Time(time.Unix(0, 0))},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromCayleyQuads([]quad.Quad{tc.q})
			assert.True(t, IsErrorCode(err, InvalidQuad), "got %v", err)
		})
	}
}

func TestCayleyRoundTrip(t *testing.T) {
	proc := NewJsonLdProcessor()
	ds, err := proc.ToRDF(parse(t, `{
		"@context": {"@vocab": "http://schema.org/"},
		"@id": "http://example.org/ada",
		"name": "Ada",
		"birthYear": 1815,
		"knows": {"name": "Charles"}
	}`), nil)
	require.NoError(t, err)

	back, err := FromCayleyQuads(ToCayleyQuads(ds))
	require.NoError(t, err)

	expected, err := SerializeNQuads(ds)
	require.NoError(t, err)
	assertIsomorphic(t, expected, back)
}
