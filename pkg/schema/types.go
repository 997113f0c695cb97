package schema

import (
	"regexp"
	"strconv"

	"github.com/invopop/jsonschema"

	pexpyaml "github.com/ccoe-dev/pexp/pkg/yaml"
)

// KindCreateServiceAccounts is the only exception type currently supported.
// The field exists so that new exception kinds can be introduced without a
// breaking document format change.
const KindCreateServiceAccounts = "create_service_accounts"

// ValidKinds contains all valid exception types.
var ValidKinds = []string{KindCreateServiceAccounts}

// Document is the root of an exceptions document.
type Document struct {
	// Version is the document format version, tracked as MAJOR.MINOR.PATCH.
	Version string `json:"version" jsonschema:"title=Schema Version,pattern=^[0-9]+\\.[0-9]+\\.[0-9]+$"`
	// Exceptions are evaluated in order; multiple exceptions can match the
	// same project.
	Exceptions []Exception `json:"exceptions" jsonschema:"title=Exceptions"`
}

// Exception matches project ids against a regex pattern and declares the
// service accounts to create for matching projects.
type Exception struct {
	// ID uniquely identifies this exception within the document.
	ID string `json:"id" jsonschema:"title=Exception ID,pattern=^[0-9]{3}$"`
	// Type of the exception.
	Type string `json:"type" jsonschema:"title=Type"`
	// ProjectIDRegex is matched against the target project id. Patterns are
	// not implicitly anchored; authors anchor explicitly when they intend a
	// full-string match.
	ProjectIDRegex string `json:"project_id_regex" jsonschema:"title=Project ID Regex,minLength=1"`
	// Description explains what this exception is for.
	Description string `json:"description" jsonschema:"title=Description,minLength=1"`
	// Spec declares what to create when this exception matches.
	Spec ServiceAccountSpec `json:"spec" jsonschema:"title=Spec"`
}

// ServiceAccountSpec declares the service accounts to create when an
// exception matches.
type ServiceAccountSpec struct {
	ServiceAccounts []ServiceAccount `json:"service_accounts" jsonschema:"title=Service Accounts,minItems=1"`
}

// ServiceAccount is a single account declaration. NameSuffix is appended to a
// fixed base name by the provisioning layer to form the cloud identity name.
type ServiceAccount struct {
	// NameSuffix is a short identifier, 1-4 lowercase characters starting
	// with a letter.
	NameSuffix string `json:"name_suffix" jsonschema:"title=Name Suffix,minLength=1,maxLength=4,pattern=^[a-z](?:[-a-z0-9]*[a-z0-9])?$"`
	// IAMRoles to attach at the project scope.
	IAMRoles []string `json:"iam_roles" jsonschema:"title=IAM Roles,minItems=1"`
	// CreateJSONKey controls whether a credential key is generated and stored
	// as a secret by the provisioning layer.
	CreateJSONKey bool `json:"create_json_key" jsonschema:"title=Create JSON Key"`
	// Description explains the account's purpose.
	Description string `json:"description" jsonschema:"title=Description,maxLength=256"`
}

func (Exception) JSONSchemaExtend(jss *jsonschema.Schema) {
	kind, ok := jss.Properties.Get("type")
	if !ok {
		panic("type property not found in schema")
	}

	for _, kindValue := range ValidKinds {
		kind.OneOf = append(kind.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: kindValue,
			Title: "Type",
		})
	}

	_, _ = jss.Properties.Set("type", kind)
}

// Validate runs the checks that the JSON schema cannot express: every pattern
// compiles, exception ids are unique document-wide, and name suffixes are
// unique within one exception's spec. All findings are returned, none stop
// the walk.
func (d *Document) Validate() []Violation {
	var violations []Violation

	seenIDs := make(map[string]bool, len(d.Exceptions))

	for i, ex := range d.Exceptions {
		excPath := func(fields ...string) string {
			pb := pexpyaml.NewPathBuilder()
			//nolint:gosec // G115: slice index is non-negative.
			node := pb.Root().Child("exceptions").Index(uint(i))
			for _, f := range fields {
				node = node.Child(f)
			}

			return node.Build().String()
		}

		if seenIDs[ex.ID] {
			violations = append(violations, Violation{
				Path:    excPath("id"),
				Message: "duplicate exception id " + strconv.Quote(ex.ID),
			})
		}
		seenIDs[ex.ID] = true

		if ex.ProjectIDRegex != "" {
			if _, err := regexp.Compile(ex.ProjectIDRegex); err != nil {
				violations = append(violations, Violation{
					Path:    excPath("project_id_regex"),
					Message: "invalid regular expression: " + err.Error(),
				})
			}
		}

		seenSuffixes := make(map[string]bool, len(ex.Spec.ServiceAccounts))
		for j, sa := range ex.Spec.ServiceAccounts {
			if seenSuffixes[sa.NameSuffix] {
				pb := pexpyaml.NewPathBuilder()
				//nolint:gosec // G115: slice indices are non-negative.
				path := pb.Root().
					Child("exceptions").Index(uint(i)).
					Child("spec").Child("service_accounts").Index(uint(j)).
					Child("name_suffix").
					Build().String()

				violations = append(violations, Violation{
					Path:    path,
					Message: "duplicate name suffix " + strconv.Quote(sa.NameSuffix),
				})
			}
			seenSuffixes[sa.NameSuffix] = true
		}
	}

	return violations
}
