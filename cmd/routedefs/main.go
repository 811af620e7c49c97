package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routedefs/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	distDir    string
	kinds      []string
	source     string
	bucket     string
	prefix     string
	region     string
	verbose    bool
	noColor    bool
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "routedefs",
		Short: "Resolve route definitions from build manifests",
		Long: `routedefs reads the pages and app-paths manifests of a build and
resolves them into typed route definitions, one set per route kind:

  • APP_PAGE    app-router pages
  • APP_ROUTE   app-router route handlers
  • PAGES       pages-router pages
  • PAGES_API   pages-router API routes

Manifests are read from <distDir>/server or from an S3 bucket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.noColor {
				errors.DisableColors()
			}
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Path to routedefs.json (default: search from the working directory)")
	pf.StringVarP(&flags.distDir, "dist", "d", "", "Build output directory (default from routedefs.json)")
	pf.StringSliceVarP(&flags.kinds, "kind", "k", nil, "Route kinds to resolve (repeatable)")
	pf.StringVar(&flags.source, "source", "", "Manifest source: file or s3")
	pf.StringVar(&flags.bucket, "bucket", "", "S3 bucket holding the manifests")
	pf.StringVar(&flags.prefix, "prefix", "", "S3 key prefix of the manifests")
	pf.StringVar(&flags.region, "region", "", "AWS region of the bucket")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable colored error output")

	rootCmd.AddCommand(
		resolveCmd(flags),
		serveCmd(flags),
		kindsCmd(),
		versionCmd(),
	)

	return rootCmd
}

// newLogger returns the process logger writing to w.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
