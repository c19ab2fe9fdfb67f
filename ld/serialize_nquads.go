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
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NQuadRDFSerializer parses and serializes N-Quads.
type NQuadRDFSerializer struct {
}

// Parse N-Quads from string, []byte or io.Reader into an RDFDataset.
func (s *NQuadRDFSerializer) Parse(input interface{}) (*RDFDataset, error) {
	return ParseNQuadsFrom(input)
}

// SerializeTo writes RDFDataset as N-Quads into a writer. Lines are sorted.
func (s *NQuadRDFSerializer) SerializeTo(w io.Writer, dataset *RDFDataset) error {
	lines := make([]string, 0, dataset.Len())
	for _, q := range dataset.Quads() {
		lines = append(lines, toNQuad(q))
	}
	sort.Strings(lines)

	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line); err != nil {
			return NewJsonLdError(IOError, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return NewJsonLdError(IOError, err)
	}
	return nil
}

// Serialize an RDFDataset into N-Quad string.
func (s *NQuadRDFSerializer) Serialize(dataset *RDFDataset) (interface{}, error) {
	return SerializeNQuads(dataset)
}

// SerializeNQuads returns the N-Quads text of dataset, one sorted line per quad.
func SerializeNQuads(dataset *RDFDataset) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := (&NQuadRDFSerializer{}).SerializeTo(buf, dataset); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toNQuad(q *Quad) string {
	var sb strings.Builder

	writeTerm(&sb, q.Subject)
	sb.WriteByte(' ')
	writeTerm(&sb, q.Predicate)
	sb.WriteByte(' ')
	writeTerm(&sb, q.Object)
	if q.Graph != nil {
		sb.WriteByte(' ')
		writeTerm(&sb, q.Graph)
	}
	sb.WriteString(" .\n")

	return sb.String()
}

func writeTerm(sb *strings.Builder, n Node) {
	switch t := n.(type) {
	case *IRI:
		sb.WriteString("<" + escapeIRI(t.Value) + ">")
	case *BlankNode:
		sb.WriteString(t.Attribute)
	case *Literal:
		sb.WriteString("\"" + escape(t.Value) + "\"")
		if t.Datatype == RDFLangString {
			sb.WriteString("@" + t.Language)
		} else if t.Datatype != XSDString {
			sb.WriteString("^^<" + escapeIRI(t.Datatype) + ">")
		}
	}
}

var escaper = strings.NewReplacer(
	"\\", "\\\\",
	"\"", "\\\"",
	"\n", "\\n",
	"\r", "\\r",
	"\t", "\\t",
)

func escape(str string) string {
	return escaper.Replace(str)
}

// escapeIRI writes the characters IRIREF excludes as UCHAR escapes.
func escapeIRI(iri string) string {
	if !strings.ContainsFunc(iri, iriNeedsEscape) {
		return iri
	}
	var sb strings.Builder
	for _, r := range iri {
		if iriNeedsEscape(r) {
			fmt.Fprintf(&sb, "\\u%04X", r)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func iriNeedsEscape(r rune) bool {
	return r <= 0x20 || strings.ContainsRune("<>\"{}|^`\\", r)
}

type lineScanner interface {
	Bytes() []byte
	Scan() bool
	Err() error
}

type bytesLineScanner struct {
	err   error
	b     []byte
	token []byte
	i     int
}

func (ls *bytesLineScanner) Err() error { return ls.err }
func (ls *bytesLineScanner) Scan() bool {
	b, i := ls.b, ls.i
	if ls.err != nil || i >= len(b) {
		return false
	}
	di, token, err := bufio.ScanLines(b[i:], true)
	if err != nil {
		ls.err = err
		return false
	}
	ls.token = token
	ls.i += di
	return true
}
func (ls *bytesLineScanner) Bytes() []byte {
	return ls.token
}

func newScannerFor(o interface{}) (lineScanner, error) {
	switch inp := o.(type) {
	case []byte:
		return &bytesLineScanner{b: inp}, nil
	case string:
		return &bytesLineScanner{b: []byte(inp)}, nil
	case io.Reader:
		s := bufio.NewScanner(inp)
		s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		return s, nil
	default:
		return nil, NewJsonLdError(InvalidInput, "expected []byte, string or io.Reader")
	}
}

// ParseNQuadsFrom parses RDF in the form of N-Quads from io.Reader, []byte or string.
// Blank lines and comments are skipped. A malformed line fails the whole
// parse with a SyntaxError whose details are an *NQuadsSyntaxError.
func ParseNQuadsFrom(o interface{}) (*RDFDataset, error) {
	dataset := NewRDFDataset()

	scanner, err := newScannerFor(o)
	if err != nil {
		return nil, err
	}

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		lex := &nquadsLexer{line: string(scanner.Bytes()), number: lineNumber}
		q, err := lex.quad()
		if err != nil {
			return nil, err
		}
		if q != nil {
			dataset.AddQuad(q)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, NewJsonLdError(IOError, err)
	}

	return dataset, nil
}

// ParseNQuads parses RDF in the form of N-Quads.
func ParseNQuads(input string) (*RDFDataset, error) {
	return ParseNQuadsFrom(input)
}

// nquadsLexer reads one N-Quads statement.
// See https://www.w3.org/TR/n-quads/#sec-grammar
type nquadsLexer struct {
	line   string
	pos    int
	number int
}

func (l *nquadsLexer) fail(format string, args ...interface{}) error {
	return NewJsonLdError(SyntaxError, &NQuadsSyntaxError{Line: l.number, Reason: fmt.Sprintf(format, args...)})
}

func (l *nquadsLexer) skipWS() {
	for l.pos < len(l.line) && (l.line[l.pos] == ' ' || l.line[l.pos] == '\t') {
		l.pos++
	}
}

// done reports whether only whitespace or a comment is left.
func (l *nquadsLexer) done() bool {
	l.skipWS()
	return l.pos >= len(l.line) || l.line[l.pos] == '#'
}

func (l *nquadsLexer) peek() byte {
	if l.pos >= len(l.line) {
		return 0
	}
	return l.line[l.pos]
}

// quad returns nil for blank and comment lines.
func (l *nquadsLexer) quad() (*Quad, error) {
	if l.done() {
		return nil, nil
	}

	subject, err := l.term("subject", false)
	if err != nil {
		return nil, err
	}
	l.skipWS()
	if l.peek() != '<' {
		return nil, l.fail("expected IRI predicate at column %d", l.pos+1)
	}
	predicate, err := l.term("predicate", false)
	if err != nil {
		return nil, err
	}
	l.skipWS()
	object, err := l.term("object", true)
	if err != nil {
		return nil, err
	}

	l.skipWS()
	graph := ""
	if c := l.peek(); c == '<' || c == '_' {
		g, err := l.term("graph", false)
		if err != nil {
			return nil, err
		}
		graph = g.GetValue()
		l.skipWS()
	}

	if l.peek() != '.' {
		return nil, l.fail("expected '.' at column %d", l.pos+1)
	}
	l.pos++
	if !l.done() {
		return nil, l.fail("unexpected content after '.' at column %d", l.pos+1)
	}

	return NewQuad(subject, predicate, object, graph), nil
}

func (l *nquadsLexer) term(role string, allowLiteral bool) (Node, error) {
	switch c := l.peek(); {
	case c == '<':
		iri, err := l.iri()
		if err != nil {
			return nil, err
		}
		return NewIRI(iri), nil
	case c == '_':
		label, err := l.blankNode()
		if err != nil {
			return nil, err
		}
		return NewBlankNode(label), nil
	case c == '"' && allowLiteral:
		return l.literal()
	case c == 0:
		return nil, l.fail("missing %s", role)
	default:
		return nil, l.fail("unexpected character %q in %s at column %d", c, role, l.pos+1)
	}
}

func (l *nquadsLexer) iri() (string, error) {
	start := l.pos
	l.pos++ // <
	var sb strings.Builder
	for {
		if l.pos >= len(l.line) {
			return "", l.fail("unterminated IRI at column %d", start+1)
		}
		c := l.line[l.pos]
		switch {
		case c == '>':
			l.pos++
			iri := sb.String()
			if !IsAbsoluteIri(iri) {
				return "", l.fail("relative IRI <%s>", iri)
			}
			return iri, nil
		case c == '\\':
			r, err := l.uchar()
			if err != nil {
				return "", err
			}
			sb.WriteRune(r)
		case c <= 0x20 || strings.IndexByte("<\"{}|^`", c) >= 0:
			return "", l.fail("invalid character %q in IRI at column %d", c, l.pos+1)
		default:
			sb.WriteByte(c)
			l.pos++
		}
	}
}

// uchar decodes a \uXXXX or \UXXXXXXXX escape at the current position.
func (l *nquadsLexer) uchar() (rune, error) {
	if l.pos+1 >= len(l.line) {
		return 0, l.fail("incomplete escape at column %d", l.pos+1)
	}
	size := 0
	switch l.line[l.pos+1] {
	case 'u':
		size = 4
	case 'U':
		size = 8
	default:
		return 0, l.fail("invalid escape %q at column %d", l.line[l.pos:l.pos+2], l.pos+1)
	}
	end := l.pos + 2 + size
	if end > len(l.line) {
		return 0, l.fail("incomplete escape at column %d", l.pos+1)
	}
	code, err := strconv.ParseUint(l.line[l.pos+2:end], 16, 32)
	if err != nil || !utf8.ValidRune(rune(code)) {
		return 0, l.fail("invalid escape %q at column %d", l.line[l.pos:end], l.pos+1)
	}
	l.pos = end
	return rune(code), nil
}

func isBlankLabelChar(r rune) bool {
	return r == '_' || r == '-' || r == '.' || r == 0xB7 || unicode.IsLetter(r) || unicode.IsDigit(r) ||
		unicode.Is(unicode.Mn, r) || (r >= 0x203F && r <= 0x2040)
}

func (l *nquadsLexer) blankNode() (string, error) {
	start := l.pos
	if !strings.HasPrefix(l.line[l.pos:], "_:") {
		return "", l.fail("invalid blank node at column %d", start+1)
	}
	l.pos += 2
	for l.pos < len(l.line) {
		r, size := utf8.DecodeRuneInString(l.line[l.pos:])
		if !isBlankLabelChar(r) {
			break
		}
		l.pos += size
	}
	// a label cannot end with '.'
	for l.pos > start+2 && l.line[l.pos-1] == '.' {
		l.pos--
	}
	label := l.line[start:l.pos]
	if len(label) == 2 {
		return "", l.fail("empty blank node label at column %d", start+1)
	}
	if first, _ := utf8.DecodeRuneInString(label[2:]); first == '-' || first == '.' || first == 0xB7 {
		return "", l.fail("invalid blank node label %s", label)
	}
	return label, nil
}

func (l *nquadsLexer) literal() (Node, error) {
	start := l.pos
	l.pos++ // "
	var sb strings.Builder
	closed := false
	for !closed {
		if l.pos >= len(l.line) {
			return nil, l.fail("unterminated literal at column %d", start+1)
		}
		c := l.line[l.pos]
		switch c {
		case '"':
			l.pos++
			closed = true
		case '\\':
			if l.pos+1 >= len(l.line) {
				return nil, l.fail("incomplete escape at column %d", l.pos+1)
			}
			if unescaped, ok := echars[l.line[l.pos+1]]; ok {
				sb.WriteByte(unescaped)
				l.pos += 2
				continue
			}
			r, err := l.uchar()
			if err != nil {
				return nil, err
			}
			sb.WriteRune(r)
		case '\n', '\r':
			return nil, l.fail("line break in literal at column %d", l.pos+1)
		default:
			sb.WriteByte(c)
			l.pos++
		}
	}

	switch l.peek() {
	case '@':
		l.pos++
		langStart := l.pos
		for l.pos < len(l.line) {
			c := l.line[l.pos]
			if !(c == '-' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
				break
			}
			l.pos++
		}
		lang := l.line[langStart:l.pos]
		if !validLanguageRegex.MatchString(lang) {
			return nil, l.fail("invalid language tag %q", lang)
		}
		return NewLiteral(sb.String(), RDFLangString, lang), nil
	case '^':
		if !strings.HasPrefix(l.line[l.pos:], "^^<") {
			return nil, l.fail("expected datatype IRI at column %d", l.pos+1)
		}
		l.pos += 2
		datatype, err := l.iri()
		if err != nil {
			return nil, err
		}
		return NewLiteral(sb.String(), datatype, ""), nil
	}
	return NewLiteral(sb.String(), XSDString, ""), nil
}

var echars = map[byte]byte{
	't':  '\t',
	'b':  '\b',
	'n':  '\n',
	'r':  '\r',
	'f':  '\f',
	'"':  '"',
	'\'': '\'',
	'\\': '\\',
}
