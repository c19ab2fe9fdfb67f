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

	. "github.com/piprate/json-gold/v2/ld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonLdProcessor_ToRDF(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		opts     func(*JsonLdOptions)
		expected string
	}{
		{
			name:     "node reference",
			input:    `{"@id": "http://ex/s", "http://ex/p": {"@id": "http://ex/o"}}`,
			expected: "<http://ex/s> <http://ex/p> <http://ex/o> .\n",
		},
		{
			name: "native literals",
			input: `{
				"@id": "http://ex/s",
				"http://ex/int": 5,
				"http://ex/integral": 2.0,
				"http://ex/double": 5.3,
				"http://ex/bool": true,
				"http://ex/str": "text",
				"http://ex/lang": {"@value": "hi", "@language": "en"},
				"http://ex/typed": {"@value": "2024-01-01", "@type": "http://www.w3.org/2001/XMLSchema#date"},
				"http://ex/forced": {"@value": 7, "@type": "http://www.w3.org/2001/XMLSchema#double"}
			}`,
			expected: `<http://ex/s> <http://ex/bool> "true"^^<http://www.w3.org/2001/XMLSchema#boolean> .
<http://ex/s> <http://ex/double> "5.3E0"^^<http://www.w3.org/2001/XMLSchema#double> .
<http://ex/s> <http://ex/forced> "7.0E0"^^<http://www.w3.org/2001/XMLSchema#double> .
<http://ex/s> <http://ex/int> "5"^^<http://www.w3.org/2001/XMLSchema#integer> .
<http://ex/s> <http://ex/integral> "2"^^<http://www.w3.org/2001/XMLSchema#integer> .
<http://ex/s> <http://ex/lang> "hi"@en .
<http://ex/s> <http://ex/str> "text" .
<http://ex/s> <http://ex/typed> "2024-01-01"^^<http://www.w3.org/2001/XMLSchema#date> .
`,
		},
		{
			name:  "types",
			input: `{"@id": "http://ex/s", "@type": ["http://ex/A", "http://ex/B"]}`,
			expected: `<http://ex/s> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://ex/A> .
<http://ex/s> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://ex/B> .
`,
		},
		{
			name:  "list",
			input: `{"@id": "http://ex/s", "http://ex/l": {"@list": ["a", "b"]}}`,
			expected: `<http://ex/s> <http://ex/l> _:l1 .
_:l1 <http://www.w3.org/1999/02/22-rdf-syntax-ns#first> "a" .
_:l1 <http://www.w3.org/1999/02/22-rdf-syntax-ns#rest> _:l2 .
_:l2 <http://www.w3.org/1999/02/22-rdf-syntax-ns#first> "b" .
_:l2 <http://www.w3.org/1999/02/22-rdf-syntax-ns#rest> <http://www.w3.org/1999/02/22-rdf-syntax-ns#nil> .
`,
		},
		{
			name:     "empty list",
			input:    `{"@id": "http://ex/s", "http://ex/l": {"@list": []}}`,
			expected: "<http://ex/s> <http://ex/l> <http://www.w3.org/1999/02/22-rdf-syntax-ns#nil> .\n",
		},
		{
			name:     "blank nodes",
			input:    `{"http://ex/knows": {"http://ex/name": "B"}}`,
			expected: "_:x <http://ex/knows> _:y .\n_:y <http://ex/name> \"B\" .\n",
		},
		{
			name:     "named graph",
			input:    `{"@id": "http://ex/g", "@graph": {"@id": "http://ex/s", "http://ex/p": "v"}}`,
			expected: "<http://ex/s> <http://ex/p> \"v\" <http://ex/g> .\n",
		},
		{
			name: "json literal",
			input: `{
				"@context": {"data": {"@id": "http://ex/data", "@type": "@json"}},
				"@id": "http://ex/s",
				"data": {"b": 1, "a": [true, null]}
			}`,
			expected: `<http://ex/s> <http://ex/data> "{\"a\":[true,null],\"b\":1}"^^<http://www.w3.org/1999/02/22-rdf-syntax-ns#JSON> .
`,
		},
		{
			name:     "relative IRIs are skipped",
			input:    `[{"@id": "relative", "http://ex/p": "v"}, {"@id": "http://ex/s", "http://ex/p": {"@id": "also-relative"}}]`,
			expected: "",
		},
		{
			name:     "base resolves relative IRIs",
			input:    `{"@id": "s", "http://ex/p": "v"}`,
			opts:     func(o *JsonLdOptions) { o.Base = "http://ex/" },
			expected: "<http://ex/s> <http://ex/p> \"v\" .\n",
		},
		{
			name:     "blank node predicates need generalized RDF",
			input:    `{"@id": "http://ex/s", "_:p": "v"}`,
			expected: "",
		},
		{
			name:     "generalized RDF",
			input:    `{"@id": "http://ex/s", "_:p": "v"}`,
			opts:     func(o *JsonLdOptions) { o.ProduceGeneralizedRdf = true },
			expected: "<http://ex/s> _:b0 \"v\" .\n",
		},
	}

	proc := NewJsonLdProcessor()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := NewJsonLdOptions("")
			if tc.opts != nil {
				tc.opts(opts)
			}
			ds, err := proc.ToRDF(parse(t, tc.input), opts)
			require.NoError(t, err)
			assertIsomorphic(t, tc.expected, ds)
		})
	}
}

func TestJsonLdProcessor_ToRDF_BlankNodeLabels(t *testing.T) {
	input := parse(t, `{"http://ex/knows": {"http://ex/name": "B"}}`)

	proc := NewJsonLdProcessor()
	ds, err := proc.ToRDF(input, nil)
	require.NoError(t, err)

	out, err := SerializeNQuads(ds)
	require.NoError(t, err)
	assert.Equal(t, "_:b0 <http://ex/knows> _:b1 .\n_:b1 <http://ex/name> \"B\" .\n", out)

	// labels are issued per call
	again, err := proc.ToRDF(input, nil)
	require.NoError(t, err)
	againOut, err := SerializeNQuads(again)
	require.NoError(t, err)
	assert.Equal(t, out, againOut)
}

func TestJsonLdProcessor_FromRDF(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		opts     func(*JsonLdOptions)
		expected string
	}{
		{
			name:     "literal",
			input:    `<http://ex/s> <http://ex/p> "v" .`,
			expected: `[{"@id": "http://ex/s", "http://ex/p": [{"@value": "v"}]}]`,
		},
		{
			name: "typed and language literals",
			input: `<http://ex/s> <http://ex/n> "5"^^<http://www.w3.org/2001/XMLSchema#integer> .
<http://ex/s> <http://ex/l> "hi"@en .`,
			expected: `[{
				"@id": "http://ex/s",
				"http://ex/n": [{"@value": "5", "@type": "http://www.w3.org/2001/XMLSchema#integer"}],
				"http://ex/l": [{"@value": "hi", "@language": "en"}]
			}]`,
		},
		{
			name: "native types",
			input: `<http://ex/s> <http://ex/n> "5"^^<http://www.w3.org/2001/XMLSchema#integer> .
<http://ex/s> <http://ex/d> "1.5E0"^^<http://www.w3.org/2001/XMLSchema#double> .
<http://ex/s> <http://ex/b> "true"^^<http://www.w3.org/2001/XMLSchema#boolean> .
<http://ex/s> <http://ex/bad> "maybe"^^<http://www.w3.org/2001/XMLSchema#boolean> .`,
			opts: func(o *JsonLdOptions) { o.UseNativeTypes = true },
			expected: `[{
				"@id": "http://ex/s",
				"http://ex/n": [{"@value": 5}],
				"http://ex/d": [{"@value": 1.5}],
				"http://ex/b": [{"@value": true}],
				"http://ex/bad": [{"@value": "maybe", "@type": "http://www.w3.org/2001/XMLSchema#boolean"}]
			}]`,
		},
		{
			name:     "rdf:type",
			input:    `<http://ex/s> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://ex/T> .`,
			expected: `[{"@id": "http://ex/s", "@type": ["http://ex/T"]}]`,
		},
		{
			name:  "rdf:type kept as property",
			input: `<http://ex/s> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://ex/T> .`,
			opts:  func(o *JsonLdOptions) { o.UseRdfType = true },
			expected: `[{
				"@id": "http://ex/s",
				"http://www.w3.org/1999/02/22-rdf-syntax-ns#type": [{"@id": "http://ex/T"}]
			}]`,
		},
		{
			name: "list",
			input: `<http://ex/s> <http://ex/l> _:l1 .
_:l1 <http://www.w3.org/1999/02/22-rdf-syntax-ns#first> "a" .
_:l1 <http://www.w3.org/1999/02/22-rdf-syntax-ns#rest> _:l2 .
_:l2 <http://www.w3.org/1999/02/22-rdf-syntax-ns#first> "b" .
_:l2 <http://www.w3.org/1999/02/22-rdf-syntax-ns#rest> <http://www.w3.org/1999/02/22-rdf-syntax-ns#nil> .`,
			expected: `[{"@id": "http://ex/s", "http://ex/l": [{"@list": [{"@value": "a"}, {"@value": "b"}]}]}]`,
		},
		{
			name:     "empty list",
			input:    `<http://ex/s> <http://ex/l> <http://www.w3.org/1999/02/22-rdf-syntax-ns#nil> .`,
			expected: `[{"@id": "http://ex/s", "http://ex/l": [{"@list": []}]}]`,
		},
		{
			name: "shared list cell is not a list",
			input: `<http://ex/s> <http://ex/l> _:l1 .
<http://ex/t> <http://ex/l> _:l1 .
_:l1 <http://www.w3.org/1999/02/22-rdf-syntax-ns#first> "a" .
_:l1 <http://www.w3.org/1999/02/22-rdf-syntax-ns#rest> <http://www.w3.org/1999/02/22-rdf-syntax-ns#nil> .`,
			expected: `[
				{
					"@id": "_:l1",
					"http://www.w3.org/1999/02/22-rdf-syntax-ns#first": [{"@value": "a"}],
					"http://www.w3.org/1999/02/22-rdf-syntax-ns#rest": [{"@list": []}]
				},
				{"@id": "http://ex/s", "http://ex/l": [{"@id": "_:l1"}]},
				{"@id": "http://ex/t", "http://ex/l": [{"@id": "_:l1"}]}
			]`,
		},
		{
			name: "named graph",
			input: `<http://ex/s> <http://ex/p> "v" <http://ex/g> .
<http://ex/g> <http://ex/label> "graph" .`,
			expected: `[{
				"@id": "http://ex/g",
				"http://ex/label": [{"@value": "graph"}],
				"@graph": [{"@id": "http://ex/s", "http://ex/p": [{"@value": "v"}]}]
			}]`,
		},
		{
			name:     "json literal",
			input:    `<http://ex/s> <http://ex/data> "{\"a\":[true,null]}"^^<http://www.w3.org/1999/02/22-rdf-syntax-ns#JSON> .`,
			expected: `[{"@id": "http://ex/s", "http://ex/data": [{"@value": {"a": [true, null]}, "@type": "@json"}]}]`,
		},
	}

	proc := NewJsonLdProcessor()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := NewJsonLdOptions("")
			if tc.opts != nil {
				tc.opts(opts)
			}
			result, err := proc.FromRDF(tc.input, opts)
			require.NoError(t, err)
			assertJSON(t, tc.expected, result)
		})
	}
}

func TestJsonLdProcessor_FromRDF_Errors(t *testing.T) {
	proc := NewJsonLdProcessor()

	_, err := proc.FromRDF(`<http://ex/s> <http://ex/p> "unterminated .`, nil)
	assert.True(t, IsErrorCode(err, SyntaxError), "got %v", err)

	_, err = proc.FromRDF(`<http://ex/s> <http://ex/data> "{oops"^^<http://www.w3.org/1999/02/22-rdf-syntax-ns#JSON> .`, nil)
	assert.True(t, IsErrorCode(err, InvalidJSONLiteral), "got %v", err)

	ds := NewRDFDataset()
	ds.AddQuad(NewQuad(NewLiteral("s", "", ""), NewIRI("http://ex/p"), NewIRI("http://ex/o"), ""))
	_, err = proc.FromRDF(ds, nil)
	assert.True(t, IsErrorCode(err, InvalidQuad), "got %v", err)
}

func TestJsonLdProcessor_RDFRoundTrip(t *testing.T) {
	input := parse(t, `{
		"@context": {
			"@vocab": "http://schema.org/",
			"knows": {"@type": "@id"},
			"steps": {"@id": "http://example.org/steps", "@container": "@list"}
		},
		"@id": "http://example.org/ada",
		"@type": "Person",
		"name": {"@value": "Ada", "@language": "en"},
		"knows": "http://example.org/charles",
		"steps": ["first", "second", {"@id": "http://example.org/third"}],
		"friend": {"name": "anonymous", "age": 36}
	}`)

	proc := NewJsonLdProcessor()
	ds, err := proc.ToRDF(input, nil)
	require.NoError(t, err)
	nquads, err := SerializeNQuads(ds)
	require.NoError(t, err)

	fromRDF, err := proc.FromRDF(nquads, nil)
	require.NoError(t, err)

	ds2, err := proc.ToRDF(fromRDF, nil)
	require.NoError(t, err)
	assertIsomorphic(t, nquads, ds2)
}
