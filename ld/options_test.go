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
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJsonLdOptions_Copy(t *testing.T) {
	expected := JsonLdOptions{
		Base:                  "base",
		CompactArrays:         true,
		ExpandContext:         NewString("http://example.org/context.jsonld"),
		Graph:                 true,
		ProcessingMode:        JsonLd_1_1,
		DocumentLoader:        NewDefaultDocumentLoader(nil),
		Embed:                 EmbedLast,
		Explicit:              true,
		RequireAll:            true,
		OmitDefault:           true,
		OmitGraph:             true,
		UseRdfType:            true,
		UseNativeTypes:        true,
		ProduceGeneralizedRdf: true,
		SafeMode:              true,
		Logger:                slog.Default(),
	}
	assert.Equal(t, expected, *expected.Copy())
}

func TestJsonLdOptions_Defaults(t *testing.T) {
	opts := NewJsonLdOptions("http://example.org/")

	assert.Equal(t, "http://example.org/", opts.Base)
	assert.True(t, opts.CompactArrays)
	assert.True(t, opts.RequireAll)
	assert.Equal(t, EmbedAlways, opts.Embed)
	assert.True(t, opts.ExpandContext.IsNull())
	assert.True(t, opts.processingMode(JsonLd_1_1))
	assert.False(t, opts.processingMode(JsonLd_1_0))
	assert.NotNil(t, opts.logger())

	var nilOpts *JsonLdOptions
	assert.True(t, nilOpts.processingMode(JsonLd_1_1))
}
