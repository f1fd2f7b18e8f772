package cli

import (
	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdfa-go/rdfa"
	"github.com/geoknoesis/rdfa-go/store"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage an on-disk triple database",
	}
	cmd.AddCommand(newDBImportCmd())
	cmd.AddCommand(newDBExportCmd())
	return cmd
}

func newDBImportCmd() *cobra.Command {
	var dbPath string
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load an RDF graph file into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			logger := loggerFromContext(c.Context())

			g, err := readGraphFile(args[0], format, "")
			if err != nil {
				return err
			}

			s, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Add(g.Triples()...); err != nil {
				return err
			}
			total, err := s.Len()
			if err != nil {
				return err
			}
			logger.Infof("imported %d statements (%d total)", g.Len(), total)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "rdfa.db", "database directory")
	cmd.Flags().StringVar(&format, "format", "", "input format (ntriples or jsonld, default: by extension)")
	return cmd
}

func newDBExportCmd() *cobra.Command {
	var dbPath string
	var opts serializeOpts

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Serialize the database contents as RDFa markup",
		Long: `Export serializes every statement in the database as RDFa markup.
The database is read directly, without loading the graph into memory.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			logger := loggerFromContext(c.Context())

			s, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			settings, err := opts.resolve(c)
			if err != nil {
				return err
			}

			out, err := openOutput(opts.output)
			if err != nil {
				return err
			}
			if err := rdfa.Serialize(out, s, settings.options(logger)...); err != nil {
				out.Close()
				return err
			}
			return out.Close()
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "rdfa.db", "database directory")
	opts.register(cmd)
	return cmd
}
