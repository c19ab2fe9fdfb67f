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
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	. "github.com/piprate/json-gold/v2/ld"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, s string) Value {
	t.Helper()
	v, err := ParseJSON([]byte(s))
	require.NoError(t, err)
	return v
}

// assertJSON compares actual with the expected JSON text, ignoring
// formatting and object key order.
func assertJSON(t *testing.T, expected string, actual Value) {
	t.Helper()

	var want, got interface{}
	require.NoError(t, json.Unmarshal([]byte(expected), &want))
	data, err := actual.MarshalJSON()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &got))

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected JSON (-want +got):\n%s", diff)
	}
}

// preloadedOptions returns options whose loader serves the given documents
// and fails for anything else.
func preloadedOptions(t *testing.T, docs map[string]string) *JsonLdOptions {
	t.Helper()

	loader := NewCachingDocumentLoader(DocumentLoaderFunc(func(u string) (*RemoteDocument, error) {
		return nil, NewJsonLdError(LoadingDocumentFailed, "unexpected load of "+u)
	}))
	for u, doc := range docs {
		loader.AddDocument(u, parse(t, doc))
	}
	opts := NewJsonLdOptions("")
	opts.DocumentLoader = loader
	return opts
}
