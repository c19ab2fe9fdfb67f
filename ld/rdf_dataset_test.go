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
)

func TestGetCanonicalDouble(t *testing.T) {
	assert.Equal(t, "5.3E0", GetCanonicalDouble(5.3))
	assert.Equal(t, "1.1E1", GetCanonicalDouble(11))
	assert.Equal(t, "1.0E0", GetCanonicalDouble(1))
	assert.Equal(t, "-2.5E-3", GetCanonicalDouble(-0.0025))
	assert.Equal(t, "1.0E21", GetCanonicalDouble(1e21))
}

func TestRDFDataset(t *testing.T) {
	ds := NewRDFDataset()
	ds.AddQuad(NewQuad(NewIRI("http://example.org/s"), NewIRI("http://example.org/p"),
		NewLiteral("o", "", ""), ""))
	ds.AddQuad(NewQuad(NewBlankNode("_:b0"), NewIRI("http://example.org/p"),
		NewIRI("http://example.org/o"), "http://example.org/g"))
	ds.AddQuad(NewQuad(NewIRI("http://example.org/s"), NewIRI("http://example.org/p"),
		NewLiteral("o", "", ""), ""))

	assert.Equal(t, []string{"@default", "http://example.org/g"}, ds.GraphNames())
	assert.Equal(t, 3, ds.Len())
	assert.Len(t, ds.GetQuads("@default"), 2)
	assert.Empty(t, ds.GetQuads("http://example.org/missing"))

	named := ds.GetQuads("http://example.org/g")[0]
	assert.Equal(t, "http://example.org/g", named.GraphName())
	assert.True(t, IsBlankNode(named.Subject))

	first := ds.GetQuads("@default")[0]
	assert.Equal(t, "@default", first.GraphName())
	assert.True(t, first.Equal(ds.GetQuads("@default")[1]))
	assert.False(t, first.Equal(named))
	assert.Equal(t, XSDString, first.Object.(*Literal).Datatype)
}

func TestNewLiteral(t *testing.T) {
	assert.Equal(t, XSDString, NewLiteral("x", "", "").Datatype)
	assert.Equal(t, RDFLangString, NewLiteral("x", "", "en").Datatype)
	assert.Equal(t, XSDInteger, NewLiteral("5", XSDInteger, "").Datatype)

	assert.True(t, NewLiteral("x", "", "en").Equal(NewLiteral("x", RDFLangString, "en")))
	assert.False(t, NewLiteral("x", "", "en").Equal(NewLiteral("x", "", "fr")))
	assert.False(t, NewLiteral("x", "", "").Equal(NewIRI("x")))
}
