package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ccoe-dev/pexp/pkg/log"
	"github.com/ccoe-dev/pexp/pkg/merge"
	"github.com/ccoe-dev/pexp/pkg/rule"
	"github.com/ccoe-dev/pexp/pkg/schema"
	"github.com/ccoe-dev/pexp/pkg/tfvars"
)

const (
	cmdExamples = `  # Resolve a project against a document file:
  pexp --schema-file exceptions.json --project-id lab-dev-1

  # Resolve against an inline document:
  pexp --schema-json "$(cat exceptions.json)" --project-id lab-dev-1

  # Send the variables to a custom path:
  pexp --schema-file exceptions.json --project-id lab-dev-1 -o out/terraform.tfvars.json

  # Validate a document without resolving:
  pexp validate --schema-file exceptions.json

  # Print the document JSON schema:
  pexp schema`
)

type ResolveArgs struct {
	*RootArgs

	SchemaFile string
	SchemaJSON string
	ProjectID  string
	Output     string
	Region     string
}

func NewResolveArgs(rootArgs *RootArgs) *ResolveArgs {
	return &ResolveArgs{
		RootArgs: rootArgs,
	}
}

func (ra *ResolveArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ra.SchemaFile, "schema-file", "", "Path to the exceptions document")
	cmd.Flags().StringVar(&ra.SchemaJSON, "schema-json", "", "Raw JSON string containing the exceptions document")
	cmd.Flags().StringVar(&ra.ProjectID, "project-id", "", "The project id to evaluate")
	cmd.Flags().StringVarP(&ra.Output, "output", "o", "terraform.tfvars.json", "Path for the output variables file")
	cmd.Flags().StringVar(&ra.Region, "region", "", "Region to include in the output")

	err := cmd.MarkFlagFilename("schema-file", "json", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark schema-file flag: %w", err))
	}

	err = cmd.MarkFlagRequired("project-id")
	if err != nil {
		panic(fmt.Errorf("mark project-id flag: %w", err))
	}

	cmd.MarkFlagsOneRequired("schema-file", "schema-json")
	cmd.MarkFlagsMutuallyExclusive("schema-file", "schema-json")
}

func NewResolveCmd(ra *ResolveArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Default command, resolves one project id against an exceptions document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return resolve(cmd, ra)
		},
	}
	ra.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func resolve(cmd *cobra.Command, ra *ResolveArgs) error {
	logger := log.WithContext(cmd.Context())

	if ra.ProjectID == "" {
		return errors.New("project id must not be empty")
	}

	doc, err := loadDocument(ra.SchemaFile, ra.SchemaJSON)
	if err != nil {
		return err
	}

	logger.Info("document loaded",
		slog.String("version", doc.Version),
		slog.Int("exceptions", len(doc.Exceptions)),
	)

	rules, err := rule.FromDocument(doc)
	if err != nil {
		return err
	}

	matched := rules.Match(ra.ProjectID)
	for _, r := range matched {
		logger.Info("exception matches",
			slog.String("id", r.Exception.ID),
			slog.String("pattern", r.Exception.ProjectIDRegex),
		)
	}

	if len(matched) == 0 {
		logger.Info("no exceptions matched the project id",
			slog.String("project_id", ra.ProjectID),
		)
	}

	accounts, err := merge.Accounts(matched)
	if err != nil {
		return err
	}

	f := tfvars.New(ra.ProjectID, accounts)
	f.Region = ra.Region

	err = f.Write(ra.Output)
	if err != nil {
		return fmt.Errorf("write variables file %q: %w", ra.Output, err)
	}

	logger.Info("wrote variables file",
		slog.String("path", ra.Output),
		slog.Int("service_accounts", len(accounts)),
	)

	return nil
}

// loadDocument loads the document from whichever source was provided.
// Exactly one source is accepted per run, enforced by the flag definitions.
func loadDocument(schemaFile, schemaJSON string) (*schema.Document, error) {
	if schemaFile != "" {
		l, err := schema.NewLoaderFromFile(schemaFile)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", schemaFile, err)
		}

		return l.Load()
	}

	return schema.NewLoaderFromBytes([]byte(schemaJSON)).Load()
}
