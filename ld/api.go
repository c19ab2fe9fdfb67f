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
	"fmt"
	"log/slog"
)

// JsonLdApi holds the state of one top-level JSON-LD operation and
// implements the individual algorithms. A JsonLdApi is not safe for
// concurrent use; JsonLdProcessor creates one per call.
type JsonLdApi struct { //nolint:stylecheck
	opts   *JsonLdOptions
	logger *slog.Logger
}

// NewJsonLdApi creates a JsonLdApi for one operation.
func NewJsonLdApi(opts *JsonLdOptions) *JsonLdApi { //nolint:stylecheck
	if opts == nil {
		opts = NewJsonLdOptions("")
	}
	return &JsonLdApi{
		opts:   opts,
		logger: opts.logger(),
	}
}

// drop reports content that an algorithm discards. In safe mode this is
// an InvalidPropertyDropped error.
func (api *JsonLdApi) drop(reason string, item any) error {
	if api.opts.SafeMode {
		return NewJsonLdError(InvalidPropertyDropped, fmt.Sprintf("%s: %v", reason, item))
	}
	api.logger.Debug("dropping content", "reason", reason, "item", item)
	return nil
}
