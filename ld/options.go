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
	"io"
	"log/slog"
	"math"
)

// Embed is a framing embed policy.
type Embed string

const (
	JsonLd_1_0 = "json-ld-1.0" //nolint:stylecheck
	JsonLd_1_1 = "json-ld-1.1" //nolint:stylecheck

	// EmbedAlways embeds a matched node at every place it is referenced.
	EmbedAlways Embed = "@always"
	// EmbedOnce embeds a node the first time it is referenced and uses
	// node references afterwards.
	EmbedOnce Embed = "@once"
	// EmbedLast is the JSON-LD 1.0 spelling of EmbedOnce.
	EmbedLast  Embed = "@last"
	EmbedNever Embed = "@never"
)

// JsonLdOptions type as specified in the JSON-LD-API specification:
// http://www.w3.org/TR/json-ld-api/#the-jsonldoptions-type
type JsonLdOptions struct { //nolint:stylecheck

	// Base is the IRI used to resolve relative IRIs in the input.
	Base string
	// CompactArrays collapses single element arrays during compaction.
	CompactArrays bool
	// ExpandContext is applied to the input before its own contexts.
	// Null means none.
	ExpandContext Value
	// Graph forces a top-level @graph in compacted, flattened and framed output.
	Graph bool
	// ProcessingMode is JsonLd_1_1 (default) or JsonLd_1_0.
	ProcessingMode string
	DocumentLoader DocumentLoader

	// Framing

	Embed       Embed
	Explicit    bool
	RequireAll  bool
	OmitDefault bool
	// OmitGraph lets a framed result with a single top-level node drop @graph.
	OmitGraph bool

	// RDF conversion

	UseRdfType            bool
	UseNativeTypes        bool
	ProduceGeneralizedRdf bool

	// SafeMode turns silently dropped keys and values into errors.
	SafeMode bool

	// Logger receives debug records about dropped data and document loads.
	// Nil discards them.
	Logger *slog.Logger
}

// NewJsonLdOptions creates and returns new instance of JsonLdOptions with the given base.
func NewJsonLdOptions(base string) *JsonLdOptions { //nolint:stylecheck
	return &JsonLdOptions{
		Base:           base,
		CompactArrays:  true,
		ProcessingMode: JsonLd_1_1,
		DocumentLoader: NewDefaultDocumentLoader(nil),
		Embed:          EmbedAlways,
		RequireAll:     true,
	}
}

// Copy creates a copy of JsonLdOptions. The loader and logger are shared.
func (opt *JsonLdOptions) Copy() *JsonLdOptions {
	c := *opt
	return &c
}

func (opt *JsonLdOptions) logger() *slog.Logger {
	if opt == nil || opt.Logger == nil {
		return discardLogger
	}
	return opt.Logger
}

func (opt *JsonLdOptions) processingMode(mode string) bool {
	if opt == nil || opt.ProcessingMode == "" {
		return mode == JsonLd_1_1
	}
	return opt.ProcessingMode == mode
}

// Equivalent of slog.DiscardHandler (Go 1.24+) for older toolchains.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
