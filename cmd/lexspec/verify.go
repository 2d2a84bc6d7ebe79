package main

import (
	"fmt"
	"os"

	"github.com/Zachacious/go-lexspec/cmd/lexspec/internal/clierr"
	"github.com/Zachacious/go-lexspec/internal/verify"
	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file>",
		Short: "Check a generated OpenAPI document",
		Long: `verify loads an OpenAPI document, resolves its component references,
validates it and compiles each component schema as JSON Schema 2020-12.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return clierr.Wrap(clierr.CodeFailure, err, "reading document")
			}

			report, err := verify.Document(cmd.Context(), data)
			if err != nil {
				return clierr.Wrap(clierr.CodeInput, err, path)
			}

			out := cmd.OutOrStdout()
			for _, f := range report.Findings {
				fmt.Fprintln(out, f)
			}
			if !report.OK() {
				return clierr.Newf(clierr.CodeFindings,
					"%s: %d problems in %d schemas", path, len(report.Findings), report.Schemas)
			}
			fmt.Fprintf(out, "%s: OK (%d schemas)\n", path, report.Schemas)
			return nil
		},
	}
}
