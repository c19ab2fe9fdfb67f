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
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	. "github.com/piprate/json-gold/v2/ld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNQuads(t *testing.T) {
	ds, err := ParseNQuads(`<http://example.org/a> <http://xmlns.com/foaf/0.1/name> "Alice" .` + "\n")
	require.NoError(t, err)

	quads := ds.GetQuads("@default")
	require.Len(t, quads, 1)
	q := quads[0]
	assert.Equal(t, "http://example.org/a", q.Subject.GetValue())
	assert.True(t, IsIRI(q.Subject))
	assert.Equal(t, "http://xmlns.com/foaf/0.1/name", q.Predicate.GetValue())
	assert.Equal(t, NewLiteral("Alice", XSDString, ""), q.Object)
	assert.Nil(t, q.Graph)
}

func TestParseNQuads_Terms(t *testing.T) {
	input := `# leading comment

<http://example.org/s> <http://example.org/p> "chat"@fr-BE .
<http://example.org/s> <http://example.org/p> "5"^^<http://www.w3.org/2001/XMLSchema#integer> <http://example.org/g> .
_:b0 <http://example.org/p> _:b1.	# trailing comment
_:b1 <http://example.org/p> "tab\there \"quoted\" é\U0001F600" _:g .
`
	ds, err := ParseNQuads(input)
	require.NoError(t, err)

	assert.Equal(t, []string{"@default", "_:g", "http://example.org/g"}, ds.GraphNames())
	assert.Equal(t, 4, ds.Len())

	def := ds.GetQuads("@default")
	require.Len(t, def, 2)
	assert.Equal(t, NewLiteral("chat", RDFLangString, "fr-BE"), def[0].Object)
	assert.Equal(t, NewBlankNode("_:b0"), def[1].Subject)
	assert.Equal(t, NewBlankNode("_:b1"), def[1].Object)

	typed := ds.GetQuads("http://example.org/g")[0]
	assert.Equal(t, NewLiteral("5", XSDInteger, ""), typed.Object)

	escaped := ds.GetQuads("_:g")[0]
	assert.Equal(t, "tab\there \"quoted\" é😀", escaped.Object.GetValue())
	assert.True(t, IsBlankNode(escaped.Graph))
}

func TestParseNQuads_KeepsDuplicates(t *testing.T) {
	line := `<http://example.org/s> <http://example.org/p> <http://example.org/o> .` + "\n"
	ds, err := ParseNQuads(line + line)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
}

func TestParseNQuads_SyntaxErrors(t *testing.T) {
	valid := `<http://example.org/s> <http://example.org/p> "ok" .` + "\n"

	for name, bad := range map[string]string{
		"missing dot":         `<http://example.org/s> <http://example.org/p> "x"`,
		"literal subject":     `"x" <http://example.org/p> "y" .`,
		"blank predicate":     `<http://example.org/s> _:p "y" .`,
		"relative IRI":        `<s> <http://example.org/p> "y" .`,
		"unterminated IRI":    `<http://example.org/s <http://example.org/p> "y" .`,
		"unterminated string": `<http://example.org/s> <http://example.org/p> "y .`,
		"bad escape":          `<http://example.org/s> <http://example.org/p> "\q" .`,
		"bad language":        `<http://example.org/s> <http://example.org/p> "y"@-en .`,
		"trailing garbage":    `<http://example.org/s> <http://example.org/p> "y" . x`,
		"missing object":      `<http://example.org/s> <http://example.org/p> .`,
		"empty blank label":   `_: <http://example.org/p> "y" .`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseNQuads(valid + valid + bad + "\n")
			require.Error(t, err)
			assert.True(t, IsErrorCode(err, SyntaxError), "got %v", err)

			var syntaxErr *NQuadsSyntaxError
			require.True(t, errors.As(err, &syntaxErr))
			assert.Equal(t, 3, syntaxErr.Line)
		})
	}
}

func TestParseNQuadsFrom(t *testing.T) {
	data, err := os.ReadFile("testdata/library.nq")
	require.NoError(t, err)

	for name, input := range map[string]interface{}{
		"string": string(data),
		"bytes":  data,
		"reader": bytes.NewReader(data),
	} {
		t.Run(name, func(t *testing.T) {
			ds, err := ParseNQuadsFrom(input)
			require.NoError(t, err)
			assert.Equal(t, 4, ds.Len())
			assert.Equal(t, []string{"@default", "http://example.org/graphs/bio"}, ds.GraphNames())
		})
	}

	_, err = ParseNQuadsFrom(42)
	assert.True(t, IsErrorCode(err, InvalidInput))
}

func TestSerializeNQuads(t *testing.T) {
	ds := NewRDFDataset()
	ds.AddQuad(NewQuad(NewIRI("http://example.org/s"), NewIRI("http://example.org/p"),
		NewLiteral("line\nbreak \"quoted\" back\\slash", "", ""), ""))
	ds.AddQuad(NewQuad(NewBlankNode("_:b0"), NewIRI("http://example.org/p"),
		NewLiteral("bonjour", "", "fr"), "http://example.org/g"))
	ds.AddQuad(NewQuad(NewIRI("http://example.org/a"), NewIRI("http://example.org/p"),
		NewLiteral("1", XSDInteger, ""), ""))

	out, err := SerializeNQuads(ds)
	require.NoError(t, err)

	expected := `<http://example.org/a> <http://example.org/p> "1"^^<http://www.w3.org/2001/XMLSchema#integer> .
<http://example.org/s> <http://example.org/p> "line\nbreak \"quoted\" back\\slash" .
_:b0 <http://example.org/p> "bonjour"@fr <http://example.org/g> .
`
	assert.Equal(t, expected, out)

	// serializing and parsing again gives the same dataset
	reparsed, err := ParseNQuads(out)
	require.NoError(t, err)
	again, err := SerializeNQuads(reparsed)
	require.NoError(t, err)
	assert.Equal(t, out, again)

	var buf bytes.Buffer
	require.NoError(t, (&NQuadRDFSerializer{}).SerializeTo(&buf, ds))
	assert.Equal(t, out, buf.String())
	assert.Equal(t, 3, strings.Count(out, "\n"))
}

func TestSerializeNQuads_IRIEscapes(t *testing.T) {
	ds := NewRDFDataset()
	ds.AddQuad(NewQuad(NewIRI(`http://example.org/a\b c`), NewIRI("http://example.org/p"),
		NewLiteral("x", `http://example.org/{type}`, ""), ""))

	out, err := SerializeNQuads(ds)
	require.NoError(t, err)
	assert.Equal(t,
		`<http://example.org/a\u005Cb\u0020c> <http://example.org/p> "x"^^<http://example.org/\u007Btype\u007D> .`+"\n",
		out)

	reparsed, err := ParseNQuads(out)
	require.NoError(t, err)
	q := reparsed.GetQuads("@default")[0]
	assert.Equal(t, `http://example.org/a\b c`, q.Subject.GetValue())
	assert.Equal(t, NewLiteral("x", `http://example.org/{type}`, ""), q.Object)
}

func BenchmarkLoadNQuads(b *testing.B) {
	var sb strings.Builder
	for i := 0; i < 1000; i++ {
		sb.WriteString(`_:b0 <http://example.org/p> "value with \"escapes\"\n"@en <http://example.org/g> .` + "\n")
	}
	data := []byte(sb.String())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := ParseNQuadsFrom(data)
		require.NoError(b, err)
	}
}
