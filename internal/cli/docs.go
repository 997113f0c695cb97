package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccoe-dev/pexp/pkg/schema"
)

type DocsArgs struct {
	*RootArgs

	SchemaFile string
	SchemaJSON string
	Output     string
}

func NewDocsArgs(rootArgs *RootArgs) *DocsArgs {
	return &DocsArgs{
		RootArgs: rootArgs,
	}
}

func (da *DocsArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&da.SchemaFile, "schema-file", "", "Path to the exceptions document")
	cmd.Flags().StringVar(&da.SchemaJSON, "schema-json", "", "Raw JSON string containing the exceptions document")
	cmd.Flags().StringVarP(&da.Output, "output", "o", "", "Write the docs to a file instead of stdout")

	err := cmd.MarkFlagFilename("schema-file", "json", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark schema-file flag: %w", err))
	}

	cmd.MarkFlagsOneRequired("schema-file", "schema-json")
	cmd.MarkFlagsMutuallyExclusive("schema-file", "schema-json")
}

func NewDocsCmd(da *DocsArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Render a Markdown summary of an exceptions document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := loadDocument(da.SchemaFile, da.SchemaJSON)
			if err != nil {
				return err
			}

			md := renderMarkdown(doc)

			if da.Output != "" {
				err := os.WriteFile(da.Output, []byte(md), 0o600)
				if err != nil {
					return fmt.Errorf("write docs file: %w", err)
				}

				return nil
			}

			mustN(fmt.Fprint(cmd.OutOrStdout(), md))

			return nil
		},
	}
	da.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func renderMarkdown(doc *schema.Document) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Project exceptions (v%s)\n\n", doc.Version)
	fmt.Fprintf(&sb, "%d exception(s).\n\n", len(doc.Exceptions))

	for _, ex := range doc.Exceptions {
		fmt.Fprintf(&sb, "## %s: %s\n\n", ex.ID, ex.Description)
		fmt.Fprintf(&sb, "- Pattern: `%s`\n", ex.ProjectIDRegex)
		fmt.Fprintf(&sb, "- Type: `%s`\n\n", ex.Type)

		sb.WriteString("| Name Suffix | IAM Roles | JSON Key | Description |\n")
		sb.WriteString("|---|---|---|---|\n")

		for _, sa := range ex.Spec.ServiceAccounts {
			fmt.Fprintf(&sb, "| `%s` | %s | %t | %s |\n",
				sa.NameSuffix, strings.Join(sa.IAMRoles, ", "), sa.CreateJSONKey, sa.Description)
		}

		sb.WriteString("\n")
	}

	return sb.String()
}
