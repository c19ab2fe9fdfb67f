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

// Package jsoncanonicalizer formats IEEE-754 doubles the way ECMAScript 6
// serialises JSON numbers, as required by the JSON Canonicalization Scheme
// (RFC 8785).
package jsoncanonicalizer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NumberToJSON returns the shortest ES6 representation of f.
// NaN and infinities have no JSON form and yield an error.
func NumberToJSON(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("invalid JSON number: %v", f)
	}
	// -0 is written as 0
	if f == 0 {
		return "0", nil
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	if f >= 1e-6 && f < 1e21 {
		return sign + strconv.FormatFloat(f, 'f', -1, 64), nil
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	expSign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return sign + mantissa + "e" + expSign + digits, nil
}
