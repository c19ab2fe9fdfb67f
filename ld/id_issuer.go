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
	"strconv"
)

// IdentifierIssuer issues blank node identifiers for a single top-level call
// and remembers which source identifier each issued one replaces.
// It is not safe for concurrent use; every call creates its own.
type IdentifierIssuer struct {
	prefix  string
	counter int
	issued  map[string]string
}

// NewIdentifierIssuer creates an issuer producing prefix0, prefix1, ...
func NewIdentifierIssuer(prefix string) *IdentifierIssuer {
	return &IdentifierIssuer{
		prefix: prefix,
		issued: make(map[string]string),
	}
}

// GetId returns the identifier issued for oldId, issuing one if needed.
// An empty oldId always yields a fresh identifier.
func (ii *IdentifierIssuer) GetId(oldId string) string { //nolint:stylecheck
	if oldId != "" {
		if id, found := ii.issued[oldId]; found {
			return id
		}
	}

	id := ii.prefix + strconv.Itoa(ii.counter)
	ii.counter++

	if oldId != "" {
		ii.issued[oldId] = id
	}
	return id
}

// HasId reports whether oldId has already been relabelled.
func (ii *IdentifierIssuer) HasId(oldId string) bool { //nolint:stylecheck
	_, found := ii.issued[oldId]
	return found
}
