package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"semantic-mapper/internal/description"
)

var exampleForCheckCmd = `  semantic-mapper check -d company.yml`

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "check",
		Short:   "Validate a description and print its diagnostics",
		Example: exampleForCheckCmd,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.v.GetString(keyDescription)
			if path == "" {
				return fmt.Errorf("--%s is required", keyDescription)
			}

			f, err := description.LoadFile(path)
			if err != nil {
				return err
			}

			diags := description.Validate(f)

			out := cmd.OutOrStdout()
			for _, d := range diags.All() {
				fmt.Fprintf(out, "%s: %s\n", d.Severity, d)
			}

			if diags.HasErrors() {
				return fmt.Errorf("%s: %d error(s)", path, len(diags.Errors))
			}

			fmt.Fprintf(out, "%s: ok (%d resources, %d attributes, %d classes)\n",
				path, len(f.Resources), len(f.Attributes), len(f.SemanticModel.Classes))

			return nil
		},
	}

	addDescriptionFlag(cmd)

	return cmd
}
