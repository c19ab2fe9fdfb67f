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
	"errors"
	"fmt"
)

// ErrorCode is a JSON-LD error code. Values match the error strings of the
// JSON-LD 1.1 API where one exists.
type ErrorCode string

// JsonLdError is returned by every processing step. Details holds the
// offending value, a message or the underlying error.
type JsonLdError struct { //nolint:stylecheck
	Code    ErrorCode
	Details interface{}
}

// context processing
const (
	InvalidLocalContext         ErrorCode = "invalid local context"
	InvalidContextEntry         ErrorCode = "invalid context entry"
	InvalidContextNullification ErrorCode = "invalid context nullification"
	LoadingRemoteContextFailed  ErrorCode = "loading remote context failed"
	InvalidRemoteContext        ErrorCode = "invalid remote context"
	RecursiveContextInclusion   ErrorCode = "recursive context inclusion"
	InvalidBaseIRI              ErrorCode = "invalid base IRI"
	InvalidVocabMapping         ErrorCode = "invalid vocab mapping"
	InvalidDefaultLanguage      ErrorCode = "invalid default language"
	InvalidBaseDirection        ErrorCode = "invalid base direction"
	InvalidVersionValue         ErrorCode = "invalid @version value"
	ProcessingModeConflict      ErrorCode = "processing mode conflict"
	InvalidPropagateValue       ErrorCode = "invalid @propagate value"
	InvalidImportValue          ErrorCode = "invalid @import value"
	KeywordRedefinition         ErrorCode = "keyword redefinition"
	InvalidTermDefinition       ErrorCode = "invalid term definition"
	InvalidReverseProperty      ErrorCode = "invalid reverse property"
	InvalidIRIMapping           ErrorCode = "invalid IRI mapping"
	CyclicIRIMapping            ErrorCode = "cyclic IRI mapping"
	InvalidKeywordAlias         ErrorCode = "invalid keyword alias"
	InvalidTypeMapping          ErrorCode = "invalid type mapping"
	InvalidLanguageMapping      ErrorCode = "invalid language mapping"
	InvalidContainerMapping     ErrorCode = "invalid container mapping"
	InvalidPrefixValue          ErrorCode = "invalid @prefix value"
	InvalidNestValue            ErrorCode = "invalid @nest value"
	InvalidScopedContext        ErrorCode = "invalid scoped context"
	ProtectedTermRedefinition   ErrorCode = "protected term redefinition"
)

// expansion
const (
	InvalidIDValue              ErrorCode = "invalid @id value"
	InvalidIndexValue           ErrorCode = "invalid @index value"
	ConflictingIndexes          ErrorCode = "conflicting indexes"
	CollidingKeywords           ErrorCode = "colliding keywords"
	InvalidTypeValue            ErrorCode = "invalid type value"
	InvalidValueObject          ErrorCode = "invalid value object"
	InvalidValueObjectValue     ErrorCode = "invalid value object value"
	InvalidLanguageTaggedString ErrorCode = "invalid language-tagged string"
	InvalidLanguageTaggedValue  ErrorCode = "invalid language-tagged value"
	InvalidTypedValue           ErrorCode = "invalid typed value"
	InvalidSetOrListObject      ErrorCode = "invalid set or list object"
	InvalidLanguageMapValue     ErrorCode = "invalid language map value"
	InvalidReversePropertyMap   ErrorCode = "invalid reverse property map"
	InvalidReverseValue         ErrorCode = "invalid @reverse value"
	InvalidReversePropertyValue ErrorCode = "invalid reverse property value"
	InvalidIncludedValue        ErrorCode = "invalid @included value"
	ListOfLists                 ErrorCode = "list of lists"
	InvalidPropertyDropped      ErrorCode = "invalid property dropped"
)

// framing, RDF and I/O
const (
	InvalidFrame               ErrorCode = "invalid frame"
	InvalidEmbedValue          ErrorCode = "invalid @embed value"
	InvalidRdfLiteralValue     ErrorCode = "invalid RDF literal value"
	InvalidJSONLiteral         ErrorCode = "invalid JSON literal"
	InvalidQuad                ErrorCode = "invalid quad"
	LoadingDocumentFailed      ErrorCode = "loading document failed"
	MultipleContextLinkHeaders ErrorCode = "multiple context link headers"
	SyntaxError                ErrorCode = "syntax error"
	InvalidInput               ErrorCode = "invalid input"
	IOError                    ErrorCode = "io error"
	UnknownError               ErrorCode = "unknown error"
)

func (e JsonLdError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%v: %v", e.Code, e.Details)
	}
	return string(e.Code)
}

// Unwrap returns JsonLdError.Details if it is an error, otherwise nil.
func (e JsonLdError) Unwrap() error {
	cause, _ := e.Details.(error)
	return cause
}

// NewJsonLdError creates a new instance of JsonLdError.
func NewJsonLdError(code ErrorCode, details interface{}) *JsonLdError { //nolint:stylecheck
	return &JsonLdError{Code: code, Details: details}
}

// IsErrorCode reports whether err, or any error it wraps, is a JsonLdError
// with the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	var ldErr *JsonLdError
	for err != nil {
		if !errors.As(err, &ldErr) {
			return false
		}
		if ldErr.Code == code {
			return true
		}
		err = ldErr.Unwrap()
	}
	return false
}

// NQuadsSyntaxError describes a malformed N-Quads line.
type NQuadsSyntaxError struct {
	Line   int
	Reason string
}

func (e *NQuadsSyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}
