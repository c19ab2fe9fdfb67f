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
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/piprate/json-gold/v2/ld"
	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration of the jsonld command. Command line
// flags override the values read from the file.
type Config struct {
	Base           string        `yaml:"base"`
	ProcessingMode string        `yaml:"processingMode"`
	CompactArrays  bool          `yaml:"compactArrays"`
	SafeMode       bool          `yaml:"safeMode"`
	Loader         LoaderConfig  `yaml:"loader"`
	Framing        FramingConfig `yaml:"framing"`
	RDF            RDFConfig     `yaml:"rdf"`
}

// LoaderConfig controls how remote documents and contexts are fetched.
type LoaderConfig struct {
	// HTTPCache keeps remote documents for as long as their HTTP caching
	// headers allow.
	HTTPCache bool          `yaml:"httpCache"`
	Timeout   time.Duration `yaml:"timeout"`
	// Preload maps document URLs to local files. Relative paths are
	// resolved against the directory of the config file.
	Preload map[string]string `yaml:"preload"`
}

type FramingConfig struct {
	Embed       string `yaml:"embed"`
	Explicit    bool   `yaml:"explicit"`
	RequireAll  bool   `yaml:"requireAll"`
	OmitDefault bool   `yaml:"omitDefault"`
	OmitGraph   bool   `yaml:"omitGraph"`
}

type RDFConfig struct {
	UseNativeTypes        bool `yaml:"useNativeTypes"`
	UseRdfType            bool `yaml:"useRdfType"`
	ProduceGeneralizedRdf bool `yaml:"produceGeneralizedRdf"`
}

// DefaultConfig returns the processor defaults.
func DefaultConfig() *Config {
	defaults := ld.NewJsonLdOptions("")
	return &Config{
		ProcessingMode: defaults.ProcessingMode,
		CompactArrays:  defaults.CompactArrays,
		Loader: LoaderConfig{
			Timeout: 30 * time.Second,
		},
		Framing: FramingConfig{
			Embed:      string(defaults.Embed),
			RequireAll: defaults.RequireAll,
		},
	}
}

// LoadConfig reads a YAML config file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	dir := filepath.Dir(path)
	for u, location := range config.Loader.Preload {
		if !isRemote(location) && !filepath.IsAbs(location) {
			config.Loader.Preload[u] = filepath.Join(dir, location)
		}
	}

	return config, nil
}

// Validate checks the values the processor would otherwise reject late.
func (c *Config) Validate() error {
	switch c.ProcessingMode {
	case ld.JsonLd_1_0, ld.JsonLd_1_1:
	default:
		return fmt.Errorf("unsupported processing mode %q", c.ProcessingMode)
	}
	switch ld.Embed(c.Framing.Embed) {
	case ld.EmbedAlways, ld.EmbedOnce, ld.EmbedLast, ld.EmbedNever:
	default:
		return fmt.Errorf("unsupported embed policy %q", c.Framing.Embed)
	}
	if c.Loader.Timeout < 0 {
		return fmt.Errorf("loader timeout must not be negative")
	}
	return nil
}

// Options builds processor options, including the document loader chain.
func (c *Config) Options(logger *slog.Logger) (*ld.JsonLdOptions, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: c.Loader.Timeout}
	var next ld.DocumentLoader = ld.NewDefaultDocumentLoader(client)
	if c.Loader.HTTPCache {
		next = ld.NewRFC7234CachingDocumentLoader(client)
	}
	loader := ld.NewCachingDocumentLoader(next)
	if len(c.Loader.Preload) > 0 {
		if err := loader.PreloadWithMapping(c.Loader.Preload); err != nil {
			return nil, fmt.Errorf("preload documents: %w", err)
		}
		logger.Debug("preloaded documents", "count", len(c.Loader.Preload))
	}

	opts := ld.NewJsonLdOptions(c.Base)
	opts.ProcessingMode = c.ProcessingMode
	opts.CompactArrays = c.CompactArrays
	opts.SafeMode = c.SafeMode
	opts.DocumentLoader = loader
	opts.Embed = ld.Embed(c.Framing.Embed)
	opts.Explicit = c.Framing.Explicit
	opts.RequireAll = c.Framing.RequireAll
	opts.OmitDefault = c.Framing.OmitDefault
	opts.OmitGraph = c.Framing.OmitGraph
	opts.UseNativeTypes = c.RDF.UseNativeTypes
	opts.UseRdfType = c.RDF.UseRdfType
	opts.ProduceGeneralizedRdf = c.RDF.ProduceGeneralizedRdf
	opts.Logger = logger
	return opts, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
