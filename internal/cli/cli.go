// Package cli implements the rdfa command-line interface.
//
// The CLI converts RDF data (N-Triples or JSON-LD) into RDFa-annotated
// XHTML markup, inspects graph statistics, and manages an on-disk triple
// database backed by Badger.
//
// # Commands
//
//   - convert: read a graph and write RDFa markup
//   - inspect: print statistics about a graph
//   - db import: load a graph file into a database
//   - db export: serialize a database as RDFa markup
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context.
package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Execute runs the rdfa CLI and returns an error if any command fails.
//
// Logging defaults to info level on stderr; --verbose (-v) raises it to
// debug. The logger is attached to the command context and retrieved by
// subcommands via loggerFromContext.
func Execute() error {
	var verbose bool

	root := &cobra.Command{
		Use:          "rdfa",
		Short:        "rdfa converts RDF graphs into RDFa-annotated XHTML markup",
		Long:         `rdfa reads RDF data in N-Triples or JSON-LD form and serializes it as nested XHTML div elements carrying RDFa attributes, suitable for embedding structured data in web pages.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newConvertCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newDBCmd())

	return root.ExecuteContext(context.Background())
}
