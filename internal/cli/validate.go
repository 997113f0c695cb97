package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type ValidateArgs struct {
	*RootArgs

	SchemaFile string
	SchemaJSON string
}

func NewValidateArgs(rootArgs *RootArgs) *ValidateArgs {
	return &ValidateArgs{
		RootArgs: rootArgs,
	}
}

func (va *ValidateArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&va.SchemaFile, "schema-file", "", "Path to the exceptions document")
	cmd.Flags().StringVar(&va.SchemaJSON, "schema-json", "", "Raw JSON string containing the exceptions document")

	err := cmd.MarkFlagFilename("schema-file", "json", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark schema-file flag: %w", err))
	}

	cmd.MarkFlagsOneRequired("schema-file", "schema-json")
	cmd.MarkFlagsMutuallyExclusive("schema-file", "schema-json")
}

func NewValidateCmd(va *ValidateArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an exceptions document and report every violation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := loadDocument(va.SchemaFile, va.SchemaJSON)
			if err != nil {
				return err
			}

			mustN(fmt.Fprintf(cmd.OutOrStdout(), "document valid: version %s, %d exception(s)\n",
				doc.Version, len(doc.Exceptions)))

			return nil
		},
	}
	va.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}
