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
	"io"
	"log/slog"
	"os"

	"github.com/piprate/json-gold/v2/ld"
	"github.com/spf13/cobra"
)

// app holds the state shared by all subcommands.
type app struct {
	configPath     string
	verbose        bool
	base           string
	processingMode string
	safeMode       bool

	opts *ld.JsonLdOptions
	proc *ld.JsonLdProcessor
}

func rootCmd() *cobra.Command {
	a := &app{proc: ld.NewJsonLdProcessor()}

	cmd := &cobra.Command{
		Use:   "jsonld",
		Short: "JSON-LD processor",
		Long: `jsonld expands, compacts, flattens and frames JSON-LD documents and
converts them to and from N-Quads.

Inputs are file paths, http(s) URLs or "-" for standard input.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Config file path (YAML)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Log debug records to stderr")
	flags.StringVar(&a.base, "base", "", "Base IRI of the input")
	flags.StringVar(&a.processingMode, "processing-mode", ld.JsonLd_1_1, "Processing mode (json-ld-1.0, json-ld-1.1)")
	flags.BoolVar(&a.safeMode, "safe", false, "Fail instead of silently dropping data")

	cmd.AddCommand(
		a.expandCmd(),
		a.compactCmd(),
		a.flattenCmd(),
		a.frameCmd(),
		a.toRDFCmd(),
		a.fromRDFCmd(),
	)
	return cmd
}

// setup merges the config file with the flags and builds the options.
func (a *app) setup(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	config := DefaultConfig()
	if a.configPath != "" {
		var err error
		if config, err = LoadConfig(a.configPath); err != nil {
			return err
		}
		logger.Debug("loaded config", "path", a.configPath)
	}

	flags := cmd.Flags()
	if flags.Changed("base") {
		config.Base = a.base
	}
	if flags.Changed("processing-mode") {
		config.ProcessingMode = a.processingMode
	}
	if flags.Changed("safe") {
		config.SafeMode = a.safeMode
	}

	opts, err := config.Options(logger)
	if err != nil {
		return err
	}
	a.opts = opts
	return nil
}

func (a *app) expandCmd() *cobra.Command {
	var expandContext string

	cmd := &cobra.Command{
		Use:   "expand [input...]",
		Short: "Expand documents",
		Long:  "Expand one or more documents. Several inputs are expanded concurrently and printed as an array of results.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if expandContext != "" {
				ctx, err := readDocument(cmd, expandContext)
				if err != nil {
					return err
				}
				a.opts.ExpandContext = ctx
			}

			if len(args) <= 1 {
				input, err := readDocument(cmd, firstArg(args))
				if err != nil {
					return err
				}
				expanded, err := a.proc.Expand(input, a.opts)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), expanded)
			}

			inputs := make([]ld.Value, len(args))
			for i, arg := range args {
				input, err := readDocument(cmd, arg)
				if err != nil {
					return err
				}
				inputs[i] = input
			}
			results, err := a.proc.ExpandAll(cmd.Context(), inputs, a.opts)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), ld.NewArray(results...))
		},
	}
	cmd.Flags().StringVar(&expandContext, "expand-context", "", "Context applied before the input's own contexts")
	return cmd
}

func (a *app) compactCmd() *cobra.Command {
	var contextArg string
	var graph bool

	cmd := &cobra.Command{
		Use:   "compact [input]",
		Short: "Compact a document with a context",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readDocument(cmd, firstArg(args))
			if err != nil {
				return err
			}
			ctx, err := readDocument(cmd, contextArg)
			if err != nil {
				return err
			}
			a.opts.Graph = graph
			compacted, err := a.proc.Compact(input, ctx, a.opts)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), compacted)
		},
	}
	cmd.Flags().StringVar(&contextArg, "context", "", "Context document (file or URL)")
	cmd.Flags().BoolVar(&graph, "graph", false, "Always wrap the result in @graph")
	_ = cmd.MarkFlagRequired("context")
	return cmd
}

func (a *app) flattenCmd() *cobra.Command {
	var contextArg string

	cmd := &cobra.Command{
		Use:   "flatten [input]",
		Short: "Flatten a document, optionally compacting the result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readDocument(cmd, firstArg(args))
			if err != nil {
				return err
			}
			ctx := ld.Null
			if contextArg != "" {
				if ctx, err = readDocument(cmd, contextArg); err != nil {
					return err
				}
			}
			flattened, err := a.proc.Flatten(input, ctx, a.opts)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), flattened)
		},
	}
	cmd.Flags().StringVar(&contextArg, "context", "", "Context document used to compact the result")
	return cmd
}

func (a *app) frameCmd() *cobra.Command {
	var frameArg, embed string
	var explicit, requireAll, omitDefault, omitGraph bool

	cmd := &cobra.Command{
		Use:   "frame [input]",
		Short: "Frame a document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readDocument(cmd, firstArg(args))
			if err != nil {
				return err
			}
			frame, err := readDocument(cmd, frameArg)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("embed") {
				a.opts.Embed = ld.Embed(embed)
			}
			if flags.Changed("explicit") {
				a.opts.Explicit = explicit
			}
			if flags.Changed("require-all") {
				a.opts.RequireAll = requireAll
			}
			if flags.Changed("omit-default") {
				a.opts.OmitDefault = omitDefault
			}
			if flags.Changed("omit-graph") {
				a.opts.OmitGraph = omitGraph
			}

			framed, err := a.proc.Frame(input, frame, a.opts)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), framed)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&frameArg, "frame", "", "Frame document (file or URL)")
	flags.StringVar(&embed, "embed", string(ld.EmbedAlways), "Embed policy (@always, @once, @never)")
	flags.BoolVar(&explicit, "explicit", false, "Only output properties named in the frame")
	flags.BoolVar(&requireAll, "require-all", true, "Require all frame properties to match")
	flags.BoolVar(&omitDefault, "omit-default", false, "Omit missing properties instead of adding defaults")
	flags.BoolVar(&omitGraph, "omit-graph", false, "Drop @graph when a single node matches")
	_ = cmd.MarkFlagRequired("frame")
	return cmd
}

func (a *app) toRDFCmd() *cobra.Command {
	var generalized bool

	cmd := &cobra.Command{
		Use:   "tordf [input]",
		Short: "Convert a document to N-Quads",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readDocument(cmd, firstArg(args))
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("generalized") {
				a.opts.ProduceGeneralizedRdf = generalized
			}
			dataset, err := a.proc.ToRDF(input, a.opts)
			if err != nil {
				return err
			}
			serializer := &ld.NQuadRDFSerializer{}
			return serializer.SerializeTo(cmd.OutOrStdout(), dataset)
		},
	}
	cmd.Flags().BoolVar(&generalized, "generalized", false, "Keep triples with blank node predicates")
	return cmd
}

func (a *app) fromRDFCmd() *cobra.Command {
	var contextArg string
	var nativeTypes, rdfType bool

	cmd := &cobra.Command{
		Use:   "fromrdf [input]",
		Short: "Convert N-Quads to JSON-LD",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, closeInput, err := openInput(cmd, firstArg(args))
			if err != nil {
				return err
			}
			defer closeInput()

			flags := cmd.Flags()
			if flags.Changed("native-types") {
				a.opts.UseNativeTypes = nativeTypes
			}
			if flags.Changed("rdf-type") {
				a.opts.UseRdfType = rdfType
			}

			doc, err := a.proc.FromRDF(r, a.opts)
			if err != nil {
				return err
			}
			if contextArg != "" {
				ctx, err := readDocument(cmd, contextArg)
				if err != nil {
					return err
				}
				if doc, err = a.proc.Compact(doc, ctx, a.opts); err != nil {
					return err
				}
			}
			return writeJSON(cmd.OutOrStdout(), doc)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&contextArg, "context", "", "Context document used to compact the result")
	flags.BoolVar(&nativeTypes, "native-types", false, "Convert xsd:integer, xsd:double and xsd:boolean to JSON")
	flags.BoolVar(&rdfType, "rdf-type", false, "Keep rdf:type as a property instead of @type")
	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}

// openInput opens a local file, or standard input for "-".
func openInput(cmd *cobra.Command, location string) (io.Reader, func(), error) {
	if location == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(location)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// readDocument returns a URL as a string Value so that the processor loads
// it through the document loader. Files and standard input are parsed here.
func readDocument(cmd *cobra.Command, location string) (ld.Value, error) {
	if isRemote(location) {
		return ld.NewString(location), nil
	}
	r, closeInput, err := openInput(cmd, location)
	if err != nil {
		return ld.Null, err
	}
	defer closeInput()
	return ld.DocumentFromReader(r)
}

func writeJSON(w io.Writer, v ld.Value) error {
	out, err := ld.MarshalIndent(v)
	if err != nil {
		return err
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}
