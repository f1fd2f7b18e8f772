package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdfa-go/rdfa"
)

// serializeOpts holds the flags shared by the commands that produce
// RDFa output.
type serializeOpts struct {
	maxDepth int
	base     string
	prefixes map[string]string
	config   string
	output   string
}

func (o *serializeOpts) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.maxDepth, "max-depth", rdfa.DefaultMaxDepth, "maximum nesting depth for inlined subjects")
	cmd.Flags().StringVar(&o.base, "base", "", "base IRI stripped from subject and resource identifiers")
	cmd.Flags().StringToStringVar(&o.prefixes, "prefix", nil, "namespace prefix binding (prefix=namespace, repeatable)")
	cmd.Flags().StringVar(&o.config, "config", "", "TOML config file with serialization settings")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (stdout if empty)")
}

// serializeSettings are the merged serialization settings after the
// config file and the command-line flags are reconciled. They are
// computed before the input is read, so the base IRI resolving relative
// identifiers at parse time is the same one relativizing them on output.
type serializeSettings struct {
	maxDepth int
	base     string
	prefixes map[string]string
}

// resolve merges the config file (if any) with the command-line flags.
// Explicitly set flags win over config values.
func (o *serializeOpts) resolve(cmd *cobra.Command) (serializeSettings, error) {
	settings := serializeSettings{
		maxDepth: o.maxDepth,
		base:     o.base,
		prefixes: map[string]string{},
	}
	if o.config != "" {
		cfg, err := loadConfig(o.config)
		if err != nil {
			return serializeSettings{}, err
		}
		if cfg.MaxDepth != 0 && !cmd.Flags().Changed("max-depth") {
			settings.maxDepth = cfg.MaxDepth
		}
		if cfg.Base != "" && !cmd.Flags().Changed("base") {
			settings.base = cfg.Base
		}
		for prefix, ns := range cfg.Prefixes {
			settings.prefixes[prefix] = ns
		}
	}
	for prefix, ns := range o.prefixes {
		settings.prefixes[prefix] = ns
	}
	return settings, nil
}

func (s serializeSettings) options(logger *log.Logger) []rdfa.Option {
	opts := []rdfa.Option{
		rdfa.OptMaxDepth(s.maxDepth),
		rdfa.OptLogger(logger),
	}
	if s.base != "" {
		opts = append(opts, rdfa.OptBase(s.base))
	}
	if len(s.prefixes) > 0 {
		opts = append(opts, rdfa.OptPrefixes(s.prefixes))
	}
	return opts
}

func newConvertCmd() *cobra.Command {
	var opts serializeOpts
	var format string

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert an RDF graph file into RDFa markup",
		Long: `Convert reads an RDF graph in N-Triples or JSON-LD form and writes
RDFa-annotated XHTML markup.

The input format is detected from the file extension (.nt, .ntriples,
.jsonld, .json) unless --format is given. Use "-" to read from stdin,
in which case --format is required.

Examples:
  rdfa convert data.nt
  rdfa convert data.jsonld --max-depth 5 -o out.html
  cat data.nt | rdfa convert - --format ntriples`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runConvert(c, &opts, format, args[0])
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&format, "format", "", "input format (ntriples or jsonld, default: by extension)")
	return cmd
}

func runConvert(cmd *cobra.Command, opts *serializeOpts, format, path string) error {
	logger := loggerFromContext(cmd.Context())

	settings, err := opts.resolve(cmd)
	if err != nil {
		return err
	}

	g, err := readGraphFile(path, format, settings.base)
	if err != nil {
		return err
	}
	logger.Debugf("loaded %d statements from %s", g.Len(), path)

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	if err := rdfa.Serialize(out, g, settings.options(logger)...); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if opts.output != "" {
		logger.Infof("wrote %s", opts.output)
	}
	return nil
}

// readGraphFile loads an RDF graph from path, or stdin when path is "-".
func readGraphFile(path, format, base string) (*rdfa.Graph, error) {
	f, name, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	detected, err := resolveFormat(format, name)
	if err != nil {
		return nil, err
	}
	return rdfa.ReadGraph(f, detected, base)
}

func openInput(path string) (io.ReadCloser, string, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), "", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	return f, path, nil
}

// resolveFormat maps an explicit format flag or a file extension to an
// input format.
func resolveFormat(format, path string) (rdfa.Format, error) {
	switch strings.ToLower(format) {
	case "ntriples", "nt":
		return rdfa.FormatNTriples, nil
	case "jsonld", "json-ld":
		return rdfa.FormatJSONLD, nil
	case "":
	default:
		return "", fmt.Errorf("unknown format %q (expected ntriples or jsonld)", format)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".nt", ".ntriples":
		return rdfa.FormatNTriples, nil
	case ".jsonld", ".json":
		return rdfa.FormatJSONLD, nil
	}
	if path == "" {
		return "", fmt.Errorf("--format is required when reading from stdin")
	}
	return "", fmt.Errorf("cannot detect format of %q (use --format)", path)
}

// nopWriteCloser wraps an io.Writer with a no-op Close method.
type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// openOutput returns a WriteCloser for path, or stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
