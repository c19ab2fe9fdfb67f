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
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// JsonLdProcessor implements the JsonLdProcessor interface, see
// https://www.w3.org/TR/json-ld11-api/#the-jsonldprocessor-interface
//
// Input documents are Values. A string Value is treated as the IRI of a
// document and loaded with the options' document loader.
type JsonLdProcessor struct { //nolint:stylecheck
}

// NewJsonLdProcessor creates an instance of JsonLdProcessor.
func NewJsonLdProcessor() *JsonLdProcessor { //nolint:stylecheck
	return &JsonLdProcessor{}
}

func prepareOptions(opts *JsonLdOptions) *JsonLdOptions {
	if opts == nil {
		return NewJsonLdOptions("")
	}
	opts = opts.Copy()
	if opts.DocumentLoader == nil {
		opts.DocumentLoader = NewDefaultDocumentLoader(nil)
	}
	return opts
}

// loadedDocument is an input after IRI resolution.
type loadedDocument struct {
	document   Value
	contextURL string
}

// documentOrIri loads input when it is an IRI. The document URL becomes
// the base unless the options already have one.
func documentOrIri(input Value, opts *JsonLdOptions) (*loadedDocument, error) {
	iri, isString := input.AsString()
	if !isString {
		return &loadedDocument{document: input}, nil
	}
	if opts.Base != "" {
		iri = Resolve(opts.Base, iri)
	}

	opts.logger().Debug("loading document", "url", iri)
	rd, err := opts.DocumentLoader.LoadDocument(iri)
	if err != nil {
		if IsErrorCode(err, LoadingDocumentFailed) {
			return nil, err
		}
		return nil, NewJsonLdError(LoadingDocumentFailed, fmt.Errorf("%s: %w", iri, err))
	}
	if opts.Base == "" {
		opts.Base = rd.DocumentURL
	}
	return &loadedDocument{document: rd.Document, contextURL: rd.ContextURL}, nil
}

// unwrapContext returns the value of @context when ctx is a document
// carrying one, and ctx itself otherwise.
func unwrapContext(ctx Value) Value {
	if inner, found := ctx.Get("@context"); found {
		return inner
	}
	return ctx
}

// isEmptyContext reports whether ctx carries no definitions worth emitting.
func isEmptyContext(ctx Value) bool {
	switch ctx.Kind() {
	case NullKind:
		return true
	case ObjectKind:
		return ctx.obj.Len() == 0
	case ArrayKind:
		return len(ctx.arr) == 0
	}
	return false
}

// Expand operation expands the given input according to the steps in the Expansion algorithm:
// https://www.w3.org/TR/json-ld11-api/#expansion-algorithm
//
// The result is always an array of node objects.
func (jldp *JsonLdProcessor) Expand(input Value, opts *JsonLdOptions) (Value, error) {
	return jldp.expand(input, prepareOptions(opts), false)
}

// ExpandAll expands independent documents concurrently. Results are in
// input order. The first failure cancels the remaining work.
func (jldp *JsonLdProcessor) ExpandAll(ctx context.Context, inputs []Value, opts *JsonLdOptions) ([]Value, error) {
	results := make([]Value, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, input := range inputs {
		i, input := i, input // per-iteration copies (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			expanded, err := jldp.Expand(input, opts)
			if err != nil {
				return fmt.Errorf("document %d: %w", i, err)
			}
			results[i] = expanded
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (jldp *JsonLdProcessor) expand(input Value, opts *JsonLdOptions, frameExpansion bool) (Value, error) {
	doc, err := documentOrIri(input, opts)
	if err != nil {
		return Null, err
	}

	activeCtx := NewContext(opts)

	if !frameExpansion && !opts.ExpandContext.IsNull() {
		if activeCtx, err = activeCtx.Parse(unwrapContext(opts.ExpandContext)); err != nil {
			return Null, err
		}
	}

	if doc.contextURL != "" {
		if activeCtx, err = activeCtx.Parse(NewString(doc.contextURL)); err != nil {
			return Null, err
		}
	}

	api := NewJsonLdApi(opts)
	expanded, err := api.expand(activeCtx, "", doc.document, frameExpansion, false)
	if err != nil {
		return Null, err
	}

	// final step of Expansion Algorithm
	if obj := expanded.Object(); obj != nil && obj.Len() == 1 && obj.Has("@graph") {
		expanded = obj.Val("@graph")
	}
	switch {
	case expanded.IsNull():
		return NewArray(), nil
	case expanded.IsArray():
		return expanded, nil
	}
	return NewArray(expanded), nil
}

// Compact operation compacts the given input using the context according to the steps
// in the Compaction algorithm: https://www.w3.org/TR/json-ld11-api/#compaction-algorithm
func (jldp *JsonLdProcessor) Compact(input Value, context Value, opts *JsonLdOptions) (Value, error) {
	opts = prepareOptions(opts)

	expanded, err := jldp.expand(input, opts, false)
	if err != nil {
		return Null, err
	}

	return jldp.compactExpanded(expanded, context, opts)
}

// compactExpanded runs compaction on an expanded document and applies the
// final steps: @graph wrapping and the @context entry.
func (jldp *JsonLdProcessor) compactExpanded(expanded Value, context Value, opts *JsonLdOptions) (Value, error) {
	context = unwrapContext(context)
	activeCtx, err := NewContext(opts).Parse(context)
	if err != nil {
		return Null, err
	}

	api := NewJsonLdApi(opts)
	compacted, err := api.Compact(activeCtx, "", expanded)
	if err != nil {
		return Null, err
	}

	graphAlias := activeCtx.CompactIri("@graph", Null, true, false)
	var result *Object
	switch {
	case compacted.IsArray() && len(compacted.arr) == 0:
		result = NewObject()
	case compacted.IsArray():
		result = NewObject().Set(graphAlias, compacted)
	case opts.Graph && !compacted.Has(graphAlias):
		result = NewObject().Set(graphAlias, NewArray(compacted))
	default:
		result = compacted.Object()
	}

	return withContext(result, context, opts), nil
}

// withContext returns a copy of result whose first entry is @context.
func withContext(result *Object, context Value, opts *JsonLdOptions) Value {
	if isEmptyContext(context) || result.Len() == 0 {
		return result.Value()
	}
	if items := context.Items(); len(items) == 1 && opts.CompactArrays {
		context = items[0]
	}
	rval := NewObject().Set("@context", context)
	for _, k := range result.keys {
		rval.Set(k, result.values[k])
	}
	return rval.Value()
}

// Flatten operation flattens the given input and compacts it using the passed context
// according to the steps in the Flattening algorithm:
// https://www.w3.org/TR/json-ld11-api/#flattening-algorithm
//
// A null context leaves the flattened document expanded.
func (jldp *JsonLdProcessor) Flatten(input Value, context Value, opts *JsonLdOptions) (Value, error) {
	opts = prepareOptions(opts)

	expanded, err := jldp.expand(input, opts, false)
	if err != nil {
		return Null, err
	}

	api := NewJsonLdApi(opts)
	flattened, err := api.Flatten(expanded)
	if err != nil {
		return Null, err
	}

	if context.IsNull() {
		return flattened, nil
	}
	return jldp.compactExpanded(flattened, context, opts)
}

// Frame operation frames the given input using the frame according to the steps in the Framing Algorithm:
// https://www.w3.org/TR/json-ld11-framing/#framing-algorithm
//
// input: The input JSON-LD document
// frame: The frame to use when re-arranging the data of input; either in the form of an JSON object or as IRI.
//
// Returns the framed JSON-LD document, compacted with the frame's context.
func (jldp *JsonLdProcessor) Frame(input Value, frame Value, opts *JsonLdOptions) (Value, error) {
	opts = prepareOptions(opts)

	expandedInput, err := jldp.expand(input, opts, false)
	if err != nil {
		return Null, err
	}

	frameDoc, err := documentOrIri(frame, opts)
	if err != nil {
		return Null, err
	}
	if !frameDoc.document.IsObject() {
		return Null, NewJsonLdError(InvalidFrame, "frame must be a JSON object")
	}
	frameCtx := frameDoc.document.Val("@context")

	expandedFrame, err := jldp.expand(frameDoc.document, opts, true)
	if err != nil {
		return Null, err
	}
	if len(expandedFrame.arr) == 0 {
		expandedFrame = NewArray(NewObject().Value())
	}

	api := NewJsonLdApi(opts)
	framed, err := api.Frame(expandedInput, expandedFrame)
	if err != nil {
		return Null, err
	}

	activeCtx, err := NewContext(opts).Parse(frameCtx)
	if err != nil {
		return Null, err
	}
	compacted, err := api.Compact(activeCtx, "", NewArray(framed...))
	if err != nil {
		return Null, err
	}

	items := Arrayify(compacted)
	var result Value
	if opts.OmitGraph && len(items) == 1 {
		result = items[0]
	} else {
		graphAlias := activeCtx.CompactIri("@graph", Null, true, false)
		result = NewObject().Set(graphAlias, NewArray(items...)).Value()
	}
	result = RemovePreserve(activeCtx, result, opts.CompactArrays)

	return withContext(result.Object(), frameCtx, opts), nil
}

// ToRDF outputs the RDF dataset found in the given JSON-LD input, see
// https://www.w3.org/TR/json-ld11-api/#deserialize-json-ld-to-rdf-algorithm
func (jldp *JsonLdProcessor) ToRDF(input Value, opts *JsonLdOptions) (*RDFDataset, error) {
	opts = prepareOptions(opts)

	expanded, err := jldp.expand(input, opts, false)
	if err != nil {
		return nil, err
	}

	api := NewJsonLdApi(opts)
	return api.ToRDF(expanded)
}

// FromRDF converts an RDF dataset into an expanded JSON-LD document, see
// https://www.w3.org/TR/json-ld11-api/#serialize-rdf-as-json-ld-algorithm
//
// input is an *RDFDataset, or N-Quads as a string, []byte or io.Reader.
func (jldp *JsonLdProcessor) FromRDF(input interface{}, opts *JsonLdOptions) (Value, error) {
	opts = prepareOptions(opts)

	dataset, isDataset := input.(*RDFDataset)
	if !isDataset {
		var err error
		if dataset, err = ParseNQuadsFrom(input); err != nil {
			return Null, err
		}
	}

	api := NewJsonLdApi(opts)
	return api.FromRDF(dataset)
}
