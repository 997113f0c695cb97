package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccoe-dev/pexp/pkg/schema"
)

type SchemaArgs struct {
	*RootArgs

	Output string
}

func NewSchemaArgs(rootArgs *RootArgs) *SchemaArgs {
	return &SchemaArgs{
		RootArgs: rootArgs,
	}
}

func (sa *SchemaArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&sa.Output, "output", "o", "", "Write the schema to a file instead of stdout")
}

func NewSchemaCmd(sa *SchemaArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema for the exceptions document format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sa.Output != "" {
				err := os.WriteFile(sa.Output, schema.SchemaJSON(), 0o600)
				if err != nil {
					return fmt.Errorf("write schema file: %w", err)
				}

				return nil
			}

			mustN(cmd.OutOrStdout().Write(schema.SchemaJSON()))

			return nil
		},
	}
	sa.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}
