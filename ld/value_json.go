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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/piprate/json-gold/v2/ld/internal/jsoncanonicalizer"
)

// ParseJSON decodes JSON text into a Value, keeping object key order and
// the distinction between integers and doubles.
func ParseJSON(data []byte) (Value, error) {
	return DecodeJSON(bytes.NewReader(data))
}

// DecodeJSON reads exactly one JSON value from r.
func DecodeJSON(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Null, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Null, errors.New("unexpected data after top-level JSON value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Null, err
	}
	switch t := tok.(type) {
	case nil:
		return Null, nil
	case bool:
		return NewBool(t), nil
	case string:
		return NewString(t), nil
	case json.Number:
		return numberFromText(string(t))
	case json.Delim:
		switch t {
		case '[':
			items := make([]Value, 0)
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Null, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Null, err
			}
			return NewArray(items...), nil
		case '{':
			o := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Null, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Null, fmt.Errorf("invalid object key %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return Null, err
				}
				o.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return Null, err
			}
			return NewObjectValue(o), nil
		}
	}
	return Null, fmt.Errorf("unexpected JSON token %v", tok)
}

func numberFromText(s string) (Value, error) {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return NewInt(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Null, fmt.Errorf("invalid number %s: %w", s, err)
	}
	return NewFloat(f), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	val, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// MarshalJSON implements json.Marshaler. Object keys are written in
// insertion order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v, false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent renders v as indented JSON text.
func MarshalIndent(v Value) ([]byte, error) {
	raw, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// CanonicalJSON renders v per RFC 8785: keys sorted by UTF-16 code units,
// no whitespace, numbers in ES6 form.
func CanonicalJSON(v Value) (string, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v, true); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeJSON(buf *bytes.Buffer, v Value, canonical bool) error {
	switch v.kind {
	case NullKind:
		buf.WriteString("null")
	case BoolKind:
		buf.WriteString(strconv.FormatBool(v.b))
	case NumberKind:
		if v.isInt {
			buf.WriteString(strconv.FormatInt(v.i, 10))
			return nil
		}
		if math.IsInf(v.f, 0) || math.IsNaN(v.f) {
			return fmt.Errorf("number %v has no JSON representation", v.f)
		}
		if canonical {
			s, err := jsoncanonicalizer.NumberToJSON(v.f)
			if err != nil {
				return err
			}
			buf.WriteString(s)
			return nil
		}
		buf.WriteString(formatDouble(v.f))
	case StringKind:
		writeJSONString(buf, v.s)
	case ArrayKind:
		buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item, canonical); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case ObjectKind:
		keys := v.obj.Keys()
		if canonical {
			sort.Slice(keys, func(i, j int) bool {
				return lessUTF16(keys[i], keys[j])
			})
		}
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, k)
			buf.WriteByte(':')
			if err := writeJSON(buf, v.obj.values[k], canonical); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// formatDouble keeps a decimal point on integral doubles so that they read
// back as doubles.
func formatDouble(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func writeJSONString(buf *bytes.Buffer, s string) {
	const hex = "0123456789abcdef"
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				buf.WriteString(`\u00`)
				buf.WriteByte(hex[r>>4])
				buf.WriteByte(hex[r&0xF])
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

func lessUTF16(a, b string) bool {
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			return ua[i] < ub[i]
		}
	}
	return len(ua) < len(ub)
}
