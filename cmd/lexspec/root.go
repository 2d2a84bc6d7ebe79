package main

import (
	"fmt"

	"github.com/Zachacious/go-lexspec/cmd/lexspec/internal/clierr"
	"github.com/Zachacious/go-lexspec/internal/config"
	"github.com/Zachacious/go-lexspec/internal/logging"
	"github.com/Zachacious/go-lexspec/internal/output"
	"github.com/Zachacious/go-lexspec/lexspec"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

type rootFlags struct {
	lexicons    string
	output      string
	format      string
	concurrency int
	verify      bool
	verbose     bool
	noColor     bool
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	rootCmd := &cobra.Command{
		Use:   "lexspec [dir]",
		Short: "lexspec converts AT Protocol lexicons into a single OpenAPI 3.1 document.",
		Long: `lexspec reads every *.json lexicon below a directory and writes one OpenAPI
3.1 document describing its records, objects and XRPC endpoints. Settings are
read from .lexspec.yaml in [dir], then LEXSPEC_* environment variables, then
flags.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx := logging.Setup(cmd.Context(), cmd.ErrOrStderr(), logging.Options{
				Verbose: flags.verbose,
				NoColor: flags.noColor,
			})
			cmd.SetContext(ctx)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			projectPath := "."
			if len(args) == 1 {
				projectPath = args[0]
			}

			cfg, err := config.Load(projectPath)
			if err != nil {
				return clierr.Wrap(clierr.CodeFailure, err, "loading configuration")
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}

			res, err := lexspec.Run(cmd.Context(), lexspec.Options{
				Lexicons:    cfg.Lexicons,
				Output:      cfg.Output,
				Format:      cfg.Format,
				Concurrency: cfg.Concurrency,
				Verify:      cfg.Verify,
			})
			if err != nil {
				if errors.Is(err, lexspec.ErrMalformedLexicon) || errors.Is(err, lexspec.ErrUnknownDefinitionType) {
					return clierr.Wrap(clierr.CodeInput, err, "generating OpenAPI document")
				}
				return clierr.Wrap(clierr.CodeFailure, err, "generating OpenAPI document")
			}

			s := res.Stats
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %d schemas, %d operations, %d tags from %d files (%d skipped, %d dropped)\n",
				cfg.Output, s.Schemas, s.Operations, s.Tags, s.Files, s.Skipped, s.Dropped+s.Unrepresentable)

			if res.Report != nil && !res.Report.OK() {
				return clierr.Newf(clierr.CodeFindings,
					"verification found %d problems in %s", len(res.Report.Findings), cfg.Output)
			}
			return nil
		},
	}

	f := rootCmd.Flags()
	f.StringVarP(&flags.lexicons, "lexicons", "l", "", "Directory searched for lexicon files (default ./lexicons)")
	f.StringVarP(&flags.output, "output", "o", "", "Output file for the OpenAPI document (default ./spec/api.json)")
	f.StringVarP(&flags.format, "format", "f", "", "Output format: json or yaml")
	f.IntVarP(&flags.concurrency, "concurrency", "j", 0, "Files processed in parallel (0 means one per CPU)")
	f.BoolVar(&flags.verify, "verify", false, "Verify the written document")

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log debug output")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable colored log output")

	rootCmd.AddCommand(newVerifyCmd(), newVersionCmd())
	return rootCmd
}

// apply overrides cfg with the flags given on the command line.
func (f *rootFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("lexicons") {
		cfg.Lexicons = f.lexicons
	}
	if changed("output") {
		cfg.Output = f.output
	}
	if changed("format") {
		cfg.Format = output.Format(f.format)
	}
	if changed("concurrency") {
		cfg.Concurrency = f.concurrency
	}
	if changed("verify") {
		cfg.Verify = f.verify
	}
	if err := cfg.Validate(); err != nil {
		return clierr.Wrap(clierr.CodeFailure, err, "invalid flags")
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of lexspec",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "lexspec version %s\n", version)
			fmt.Fprintf(out, "commit: %s\n", commit)
			fmt.Fprintf(out, "built at: %s\n", date)
		},
	}
}
