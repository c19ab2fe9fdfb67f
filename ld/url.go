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
	"regexp"
	"strings"
)

// iriRef holds the five RFC 3986 components of an IRI reference.
type iriRef struct {
	scheme       string
	authority    string
	hasAuthority bool
	path         string
	query        string
	hasQuery     bool
	fragment     string
	hasFragment  bool
}

// RFC 3986, appendix B
var iriRefPattern = regexp.MustCompile(`^(?:([^:/?#]+):)?(//([^/?#]*))?([^?#]*)(\?([^#]*))?(#(.*))?$`)

var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*:`)

func parseIRIRef(s string) iriRef {
	m := iriRefPattern.FindStringSubmatch(s)
	if m == nil {
		return iriRef{path: s}
	}
	return iriRef{
		scheme:       m[1],
		hasAuthority: m[2] != "",
		authority:    m[3],
		path:         m[4],
		hasQuery:     m[5] != "",
		query:        m[6],
		hasFragment:  m[7] != "",
		fragment:     m[8],
	}
}

func (r iriRef) String() string {
	var sb strings.Builder
	if r.scheme != "" {
		sb.WriteString(r.scheme)
		sb.WriteByte(':')
	}
	if r.hasAuthority {
		sb.WriteString("//")
		sb.WriteString(r.authority)
	}
	sb.WriteString(r.path)
	if r.hasQuery {
		sb.WriteByte('?')
		sb.WriteString(r.query)
	}
	if r.hasFragment {
		sb.WriteByte('#')
		sb.WriteString(r.fragment)
	}
	return sb.String()
}

// IsAbsoluteIri returns true if the given value is an absolute IRI, i.e.
// it starts with a scheme.
func IsAbsoluteIri(value string) bool {
	return schemePattern.MatchString(value)
}

// IsRelativeIri returns true if the value is neither an absolute IRI nor
// a keyword nor a blank node identifier.
func IsRelativeIri(value string) bool {
	return !(IsKeyword(value) || IsAbsoluteIri(value) || strings.HasPrefix(value, "_:"))
}

// Resolve resolves ref against base following RFC 3986 section 5.2.
// An empty base leaves ref untouched.
func Resolve(base string, ref string) string {
	if base == "" {
		return ref
	}

	r := parseIRIRef(ref)
	b := parseIRIRef(base)
	var t iriRef

	switch {
	case r.scheme != "":
		t = r
		t.path = removeDotSegments(r.path)
	case r.hasAuthority:
		t = r
		t.scheme = b.scheme
		t.path = removeDotSegments(r.path)
	default:
		t.scheme = b.scheme
		t.authority, t.hasAuthority = b.authority, b.hasAuthority
		if r.path == "" {
			t.path = b.path
			if r.hasQuery {
				t.query, t.hasQuery = r.query, true
			} else {
				t.query, t.hasQuery = b.query, b.hasQuery
			}
		} else {
			if strings.HasPrefix(r.path, "/") {
				t.path = removeDotSegments(r.path)
			} else {
				t.path = removeDotSegments(mergePaths(b, r.path))
			}
			t.query, t.hasQuery = r.query, r.hasQuery
		}
		t.fragment, t.hasFragment = r.fragment, r.hasFragment
	}
	return t.String()
}

func mergePaths(base iriRef, path string) string {
	if base.hasAuthority && base.path == "" {
		return "/" + path
	}
	if i := strings.LastIndex(base.path, "/"); i >= 0 {
		return base.path[:i+1] + path
	}
	return path
}

// removeDotSegments implements RFC 3986 section 5.2.4.
func removeDotSegments(path string) string {
	in := path
	var out []string
	popLast := func() {
		if len(out) > 0 {
			out = out[:len(out)-1]
		}
	}
	for in != "" {
		switch {
		case strings.HasPrefix(in, "../"):
			in = in[3:]
		case strings.HasPrefix(in, "./"):
			in = in[2:]
		case strings.HasPrefix(in, "/./"):
			in = in[2:]
		case in == "/.":
			in = "/"
		case strings.HasPrefix(in, "/../"):
			in = in[3:]
			popLast()
		case in == "/..":
			in = "/"
			popLast()
		case in == "." || in == "..":
			in = ""
		default:
			end := strings.IndexByte(in[1:], '/')
			if end < 0 {
				out = append(out, in)
				in = ""
			} else {
				out = append(out, in[:end+1])
				in = in[end+1:]
			}
		}
	}
	return strings.Join(out, "")
}

// RemoveBase turns iri into a reference relative to base, when both share
// the same scheme and authority. Otherwise iri is returned unchanged.
func RemoveBase(base string, iri string) string {
	if base == "" {
		return iri
	}
	b := parseIRIRef(base)

	root := ""
	if b.scheme != "" {
		root = b.scheme + ":"
	}
	if b.hasAuthority {
		root += "//" + b.authority
	}
	if root == "" || !strings.HasPrefix(iri, root) {
		return iri
	}

	rest := iri[len(root):]
	if rest != "" && !strings.ContainsAny(rest[:1], "/?#") {
		return iri
	}
	rel := parseIRIRef(rest)

	baseSegments := strings.Split(removeDotSegments(b.path), "/")
	iriSegments := strings.Split(removeDotSegments(rel.path), "/")

	last := 1
	if rel.hasQuery || rel.hasFragment {
		last = 0
	}
	for len(baseSegments) > 0 && len(iriSegments) > last && baseSegments[0] == iriSegments[0] {
		baseSegments = baseSegments[1:]
		iriSegments = iriSegments[1:]
	}

	var sb strings.Builder
	if len(baseSegments) > 0 {
		// the last base segment is a file name or empty
		for range baseSegments[:len(baseSegments)-1] {
			sb.WriteString("../")
		}
	}
	sb.WriteString(strings.Join(iriSegments, "/"))
	if rel.hasQuery {
		sb.WriteString("?" + rel.query)
	}
	if rel.hasFragment {
		sb.WriteString("#" + rel.fragment)
	}

	res := sb.String()
	if res == "" {
		res = "./"
	}
	return res
}
