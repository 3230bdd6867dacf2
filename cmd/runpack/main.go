package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/loykin/runpack/internal/metrics"
)

func main() {
	root := buildRoot()
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildRoot creates the root command and wires subcommands
func buildRoot() *cobra.Command {
	globalFlags := &GlobalFlags{}
	exportFlags := &ExportFlags{}
	dumpFlags := &DumpFlags{}
	catalogFlags := &CatalogFlags{}

	root := createRootCommand(globalFlags)
	root.AddCommand(createExportCommand(globalFlags, exportFlags))
	root.AddCommand(createDumpCommand(dumpFlags))
	root.AddCommand(createCatalogCommand(globalFlags, catalogFlags))
	return root
}

func createRootCommand(flags *GlobalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:   "runpack",
		Short: "Export experiment document streams to msgpack artifacts",
		Long: `runpack serializes an ordered stream of (name, document) pairs from a
data-acquisition run into a single msgpack file, and can decode such a
file back into its document stream.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "path to TOML config file (optional)")
	return root
}

func createExportCommand(global *GlobalFlags, f *ExportFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a document stream to a msgpack artifact",
		Long: `Reads documents as JSON lines (one ["name", {...}] pair per line) from
--input or stdin and writes them, in order, to <prefix>primary.msgpack
inside --directory. Prints the artifact path on success.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = metrics.Register(prometheus.DefaultRegisterer)
			lg, closeLog := newLogger(global.ConfigPath)
			defer func() { _ = closeLog() }()
			c := &command{out: cmd.OutOrStdout(), log: lg}
			return c.Export(*global, *f)
		},
	}
	cmd.Flags().StringVar(&f.Input, "input", "", "documents file, JSON lines (default: stdin)")
	cmd.Flags().StringVar(&f.Directory, "directory", "", "output directory (required unless set in config)")
	cmd.Flags().StringVar(&f.FilePrefix, "file-prefix", "", "artifact file name prefix; may use {start[field]} placeholders")
	cmd.Flags().BoolVar(&f.UniquePrefix, "unique-prefix", false, "use a generated UUID- prefix")
	cmd.Flags().BoolVar(&f.Flush, "flush", false, "sync the file after every document")
	cmd.Flags().StringVar(&f.CatalogDSN, "catalog-dsn", "", "record the artifact in this catalog (sqlite path or postgres DSN)")
	return cmd
}

func createDumpCommand(f *DumpFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Decode a msgpack artifact back to JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.File = args[0]
			lg, closeLog := newLogger("")
			defer func() { _ = closeLog() }()
			c := &command{out: cmd.OutOrStdout(), log: lg}
			return c.Dump(*f)
		},
	}
	return cmd
}

func createCatalogCommand(global *GlobalFlags, f *CatalogFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the artifact catalog",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List recorded artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			lg, closeLog := newLogger(global.ConfigPath)
			defer func() { _ = closeLog() }()
			c := &command{out: cmd.OutOrStdout(), log: lg}
			return c.CatalogList(*global, *f)
		},
	}

	get := &cobra.Command{
		Use:   "get RUN_UID",
		Short: "Show the latest artifact for a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.RunUID = args[0]
			lg, closeLog := newLogger(global.ConfigPath)
			defer func() { _ = closeLog() }()
			c := &command{out: cmd.OutOrStdout(), log: lg}
			return c.CatalogGet(*global, *f)
		},
	}

	cmd.PersistentFlags().StringVar(&f.DSN, "dsn", "", "catalog DSN (sqlite path or postgres DSN)")
	cmd.AddCommand(list, get)
	return cmd
}
