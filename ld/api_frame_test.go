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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFrame(t *testing.T, s string) *Object {
	t.Helper()
	v, err := ParseJSON([]byte(s))
	require.NoError(t, err)
	require.True(t, v.IsObject())
	return v.Object()
}

func TestGetFrameFlag(t *testing.T) {
	tests := []struct {
		frame      string
		theDefault bool
		expected   bool
	}{
		{`{"test": true}`, false, true},
		{`{"test": false}`, true, false},
		{`{"test": [true, false]}`, false, true},
		{`{"test": {"@value": true}}`, false, true},
		{`{"test": [{"@value": false}]}`, true, false},
		// only booleans count
		{`{"test": {"@value": "true"}}`, false, false},
		{`{"test": "false"}`, true, true},
		{`{"test": []}`, true, true},
		{`{}`, true, true},
		{`{}`, false, false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, getFrameFlag(parseFrame(t, tc.frame), "test", tc.theDefault), tc.frame)
	}
}

func TestGetFrameEmbed(t *testing.T) {
	tests := []struct {
		frame    string
		expected Embed
	}{
		{`{}`, EmbedAlways},
		{`{"@embed": true}`, EmbedOnce},
		{`{"@embed": false}`, EmbedNever},
		{`{"@embed": "@last"}`, EmbedOnce},
		{`{"@embed": "@once"}`, EmbedOnce},
		{`{"@embed": ["@never"]}`, EmbedNever},
		{`{"@embed": {"@value": "@always"}}`, EmbedAlways},
	}
	for _, tc := range tests {
		embed, err := getFrameEmbed(parseFrame(t, tc.frame), EmbedAlways)
		require.NoError(t, err, tc.frame)
		assert.Equal(t, tc.expected, embed, tc.frame)
	}

	for _, frame := range []string{`{"@embed": "@sometimes"}`, `{"@embed": 1}`} {
		_, err := getFrameEmbed(parseFrame(t, frame), EmbedAlways)
		assert.True(t, IsErrorCode(err, InvalidEmbedValue), "%s: %v", frame, err)
	}

	embed, err := getFrameEmbed(NewObject(), EmbedLast)
	require.NoError(t, err)
	assert.Equal(t, EmbedOnce, embed)
}

func TestValueMatch(t *testing.T) {
	tests := []struct {
		pattern  string
		value    string
		expected bool
	}{
		{`{}`, `{"@value": "a"}`, true},
		{`{"@value": ["a"]}`, `{"@value": "a"}`, true},
		{`{"@value": ["a"]}`, `{"@value": "b"}`, false},
		{`{"@value": [{}]}`, `{"@value": "a", "@language": "en"}`, false},
		{`{"@value": [{}], "@language": [{}]}`, `{"@value": "a", "@language": "en"}`, true},
		{`{"@value": [{}], "@language": ["fr"]}`, `{"@value": "a", "@language": "en"}`, false},
		{`{"@value": [{}], "@type": ["http://example.org/t"]}`, `{"@value": "a", "@type": "http://example.org/t"}`, true},
		{`{"@value": [{}], "@type": ["http://example.org/t"]}`, `{"@value": "a"}`, false},
		{`{"@value": [{}]}`, `{"@value": "a", "@type": "http://example.org/t"}`, false},
	}

	for _, tc := range tests {
		value, err := ParseJSON([]byte(tc.value))
		require.NoError(t, err)
		assert.Equal(t, tc.expected, valueMatch(parseFrame(t, tc.pattern), value), "%s against %s", tc.pattern, tc.value)
	}
}

func TestValidateFrame(t *testing.T) {
	for _, frame := range []string{`{}`, `{"@type": [{}]}`, `{"@id": ["http://example.org/a"]}`, `{"@type": []}`} {
		_, err := validateFrame(parseFrame(t, frame).Value())
		assert.NoError(t, err, frame)
	}

	for _, frame := range []string{`{"@id": ["not an iri"]}`, `{"@type": [5]}`} {
		_, err := validateFrame(parseFrame(t, frame).Value())
		assert.True(t, IsErrorCode(err, InvalidFrame), frame)
	}
}
