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

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/piprate/json-gold/v2/ld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personDoc = `{
  "@context": {"@vocab": "http://schema.org/", "knows": {"@type": "@id"}},
  "@id": "http://example.org/ada",
  "@type": "Person",
  "name": "Ada",
  "knows": "http://example.org/charles"
}`

// execute runs the command line and returns its standard output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := rootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

func assertJSONOutput(t *testing.T, expected, actual string) {
	t.Helper()

	want, err := ld.ParseJSON([]byte(expected))
	require.NoError(t, err)
	got, err := ld.ParseJSON([]byte(actual))
	require.NoError(t, err, actual)
	assert.True(t, want.Equal(got), "expected %s, got %s", want, got)
}

func TestExpandCommand(t *testing.T) {
	input := writeFile(t, t.TempDir(), "person.jsonld", personDoc)

	out, err := execute(t, "", "expand", input)
	require.NoError(t, err)
	assertJSONOutput(t, `[{
		"@id": "http://example.org/ada",
		"@type": ["http://schema.org/Person"],
		"http://schema.org/name": [{"@value": "Ada"}],
		"http://schema.org/knows": [{"@id": "http://example.org/charles"}]
	}]`, out)

	// standard input
	stdinOut, err := execute(t, personDoc, "expand")
	require.NoError(t, err)
	assert.Equal(t, out, stdinOut)
}

func TestExpandCommand_Several(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "a.jsonld", `{"http://ex/p": "a"}`)
	second := writeFile(t, dir, "b.jsonld", `{"http://ex/p": "b"}`)

	out, err := execute(t, "", "expand", first, second)
	require.NoError(t, err)
	assertJSONOutput(t, `[
		[{"http://ex/p": [{"@value": "a"}]}],
		[{"http://ex/p": [{"@value": "b"}]}]
	]`, out)
}

func TestExpandCommand_ExpandContext(t *testing.T) {
	dir := t.TempDir()
	ctx := writeFile(t, dir, "ctx.jsonld", `{"@context": {"name": "http://schema.org/name"}}`)

	out, err := execute(t, `{"name": "Ada"}`, "expand", "--expand-context", ctx)
	require.NoError(t, err)
	assertJSONOutput(t, `[{"http://schema.org/name": [{"@value": "Ada"}]}]`, out)
}

func TestExpandCommand_SafeMode(t *testing.T) {
	_, err := execute(t, `{"unmapped": 1, "http://ex/p": 2}`, "expand", "--safe")
	assert.True(t, ld.IsErrorCode(err, ld.InvalidPropertyDropped), "got %v", err)

	out, err := execute(t, `{"unmapped": 1, "http://ex/p": 2}`, "expand")
	require.NoError(t, err)
	assertJSONOutput(t, `[{"http://ex/p": [{"@value": 2}]}]`, out)
}

func TestCompactCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "person.jsonld", personDoc)
	ctx := writeFile(t, dir, "ctx.jsonld", `{"@context": {"name": "http://schema.org/name"}}`)

	out, err := execute(t, "", "compact", input, "--context", ctx)
	require.NoError(t, err)
	assertJSONOutput(t, `{
		"@context": {"name": "http://schema.org/name"},
		"@id": "http://example.org/ada",
		"@type": "http://schema.org/Person",
		"name": "Ada",
		"http://schema.org/knows": {"@id": "http://example.org/charles"}
	}`, out)

	_, err = execute(t, "", "compact", input)
	assert.ErrorContains(t, err, `required flag(s) "context" not set`)
}

func TestFlattenCommand(t *testing.T) {
	out, err := execute(t, `{"@id": "http://ex/a", "http://ex/knows": {"@id": "http://ex/b", "http://ex/name": "B"}}`,
		"flatten")
	require.NoError(t, err)
	assertJSONOutput(t, `[
		{"@id": "http://ex/a", "http://ex/knows": [{"@id": "http://ex/b"}]},
		{"@id": "http://ex/b", "http://ex/name": [{"@value": "B"}]}
	]`, out)
}

func TestFrameCommand(t *testing.T) {
	dir := t.TempDir()
	frame := writeFile(t, dir, "frame.jsonld", `{
		"@context": {"@vocab": "http://schema.org/"},
		"@type": "Person"
	}`)

	out, err := execute(t, personDoc, "frame", "--frame", frame, "--omit-graph")
	require.NoError(t, err)
	assertJSONOutput(t, `{
		"@context": {"@vocab": "http://schema.org/"},
		"@id": "http://example.org/ada",
		"@type": "Person",
		"name": "Ada",
		"knows": {"@id": "http://example.org/charles"}
	}`, out)

	_, err = execute(t, personDoc, "frame", "--frame", frame, "--embed", "@sometimes")
	assert.True(t, ld.IsErrorCode(err, ld.InvalidEmbedValue), "got %v", err)
}

func TestToRDFCommand(t *testing.T) {
	out, err := execute(t, personDoc, "tordf")
	require.NoError(t, err)
	assert.Equal(t, `<http://example.org/ada> <http://schema.org/knows> <http://example.org/charles> .
<http://example.org/ada> <http://schema.org/name> "Ada" .
<http://example.org/ada> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://schema.org/Person> .
`, out)
}

func TestFromRDFCommand(t *testing.T) {
	nquads := `<http://example.org/ada> <http://schema.org/age> "36"^^<http://www.w3.org/2001/XMLSchema#integer> .
<http://example.org/ada> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://schema.org/Person> .
`
	input := writeFile(t, t.TempDir(), "ada.nq", nquads)

	out, err := execute(t, "", "fromrdf", input, "--native-types")
	require.NoError(t, err)
	assertJSONOutput(t, `[{
		"@id": "http://example.org/ada",
		"@type": ["http://schema.org/Person"],
		"http://schema.org/age": [{"@value": 36}]
	}]`, out)

	ctx := writeFile(t, t.TempDir(), "ctx.jsonld", `{"@context": {"@vocab": "http://schema.org/"}}`)
	out, err = execute(t, nquads, "fromrdf", "--context", ctx)
	require.NoError(t, err)
	assertJSONOutput(t, `{
		"@context": {"@vocab": "http://schema.org/"},
		"@id": "http://example.org/ada",
		"@type": "Person",
		"age": {"@value": "36", "@type": "http://www.w3.org/2001/XMLSchema#integer"}
	}`, out)

	_, err = execute(t, "<http://example.org/ada> .", "fromrdf")
	assert.True(t, ld.IsErrorCode(err, ld.SyntaxError), "got %v", err)
}

func TestRootCommand_Config(t *testing.T) {
	dir := t.TempDir()
	config := writeFile(t, dir, "jsonld.yaml", "processingMode: json-ld-2.0\n")

	_, err := execute(t, personDoc, "expand", "--config", config)
	assert.ErrorContains(t, err, "unsupported processing mode")

	// flags override the file
	out, err := execute(t, personDoc, "expand", "--config", config, "--processing-mode", ld.JsonLd_1_1)
	require.NoError(t, err)
	assert.Contains(t, out, "http://schema.org/name")

	_, err = execute(t, "", "expand", "does-not-exist.jsonld")
	assert.ErrorContains(t, err, "open input")
}
