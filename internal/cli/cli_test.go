package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccoe-dev/pexp/internal/cli"
)

const singleRuleDoc = `{
  "version": "1.0.0",
  "exceptions": [
    {
      "id": "100",
      "type": "create_service_accounts",
      "project_id_regex": "^lab-.*$",
      "description": "Lab projects",
      "spec": {
        "service_accounts": [
          {
            "name_suffix": "api",
            "iam_roles": ["roles/viewer"],
            "create_json_key": true,
            "description": "API SA"
          }
        ]
      }
    }
  ]
}`

const conflictingRulesDoc = `{
  "version": "1.0.0",
  "exceptions": [
    {
      "id": "100",
      "type": "create_service_accounts",
      "project_id_regex": "^lab-.*$",
      "description": "Lab projects",
      "spec": {
        "service_accounts": [
          {
            "name_suffix": "api",
            "iam_roles": ["roles/viewer"],
            "create_json_key": true,
            "description": "API SA"
          }
        ]
      }
    },
    {
      "id": "200",
      "type": "create_service_accounts",
      "project_id_regex": "dev",
      "description": "Dev projects",
      "spec": {
        "service_accounts": [
          {
            "name_suffix": "api",
            "iam_roles": ["roles/viewer"],
            "create_json_key": false,
            "description": "API SA"
          }
        ]
      }
    }
  ]
}`

func writeDoc(t *testing.T, doc string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "exceptions.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCmd()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	var stdout, stderr bytes.Buffer

	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), err
}

func TestResolve_MatchingProject(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "terraform.tfvars.json")

	_, err := execute(t,
		"--schema-file", writeDoc(t, singleRuleDoc),
		"--project-id", "lab-dev-1",
		"-o", out,
	)
	require.NoError(t, err)

	b, err := os.ReadFile(out)
	require.NoError(t, err)

	want := `{
    "project_id": "lab-dev-1",
    "service_accounts": [
        {
            "name_suffix": "api",
            "iam_roles": [
                "roles/viewer"
            ],
            "create_json_key": true,
            "description": "API SA"
        }
    ]
}
`
	assert.Equal(t, want, string(b))
}

func TestResolve_NoMatchingProject(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "terraform.tfvars.json")

	_, err := execute(t,
		"--schema-file", writeDoc(t, singleRuleDoc),
		"--project-id", "prod-1",
		"-o", out,
	)
	require.NoError(t, err)

	b, err := os.ReadFile(out)
	require.NoError(t, err)

	want := `{
    "project_id": "prod-1",
    "service_accounts": []
}
`
	assert.Equal(t, want, string(b))
}

func TestResolve_InlineDocument(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "terraform.tfvars.json")

	_, err := execute(t,
		"resolve",
		"--schema-json", singleRuleDoc,
		"--project-id", "lab-dev-1",
		"-o", out,
	)
	require.NoError(t, err)

	_, err = os.Stat(out)
	require.NoError(t, err)
}

func TestResolve_Region(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "terraform.tfvars.json")

	_, err := execute(t,
		"--schema-file", writeDoc(t, singleRuleDoc),
		"--project-id", "lab-dev-1",
		"--region", "europe-west1",
		"-o", out,
	)
	require.NoError(t, err)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"region": "europe-west1"`)
}

func TestResolve_ConflictWritesNoFile(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "terraform.tfvars.json")

	_, err := execute(t,
		"--schema-file", writeDoc(t, conflictingRulesDoc),
		"--project-id", "lab-dev-1",
		"-o", out,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "100")
	assert.Contains(t, err.Error(), "200")
	assert.Contains(t, err.Error(), "create_json_key")

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err), "conflict must not produce an output file")
}

func TestResolve_InvalidDocument(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "terraform.tfvars.json")

	_, err := execute(t,
		"--schema-json", `{"version": "banana", "exceptions": []}`,
		"--project-id", "lab-dev-1",
		"-o", out,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "$.version")

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestResolve_FlagValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "project id required",
			args:    []string{"--schema-json", singleRuleDoc},
			wantErr: "project-id",
		},
		{
			name:    "one document source required",
			args:    []string{"--project-id", "lab-dev-1"},
			wantErr: "schema-file",
		},
		{
			name: "document sources are exclusive",
			args: []string{
				"--schema-file", "exceptions.json",
				"--schema-json", singleRuleDoc,
				"--project-id", "lab-dev-1",
			},
			wantErr: "schema-file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	stdout, err := execute(t, "validate", "--schema-file", writeDoc(t, singleRuleDoc))
	require.NoError(t, err)
	assert.Equal(t, "document valid: version 1.0.0, 1 exception(s)\n", stdout)
}

func TestValidate_Invalid(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "validate", "--schema-json", `{"version": "1.0.0"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceptions")
}

func TestSchema(t *testing.T) {
	t.Parallel()

	stdout, err := execute(t, "schema")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"$schema"`)
	assert.Contains(t, stdout, "create_service_accounts")
}

func TestSchema_OutputFile(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "schema.json")

	_, err := execute(t, "schema", "-o", out)
	require.NoError(t, err)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"$schema"`)
}

func TestDocs(t *testing.T) {
	t.Parallel()

	stdout, err := execute(t, "docs", "--schema-file", writeDoc(t, singleRuleDoc))
	require.NoError(t, err)
	assert.Contains(t, stdout, "# Project exceptions (v1.0.0)")
	assert.Contains(t, stdout, "## 100: Lab projects")
	assert.Contains(t, stdout, "| `api` | roles/viewer | true | API SA |")
}
