// Package tfvars emits the resolved configuration in the structural form
// consumed by the downstream provisioning variables.
package tfvars

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ccoe-dev/pexp/pkg/merge"
)

var ErrEmptyProjectID = errors.New("project id must not be empty")

// File is the emitted variables document. Field names and types are fixed by
// the provisioning layer; list order is stable for reproducible diffs.
type File struct {
	ProjectID       string                 `json:"project_id"`
	Region          string                 `json:"region,omitempty"`
	ServiceAccounts []merge.ResolvedAccount `json:"service_accounts"`
}

// New creates a [File] for one resolved run.
func New(projectID string, accounts []merge.ResolvedAccount) *File {
	if accounts == nil {
		// An empty run still emits a list, never null.
		accounts = []merge.ResolvedAccount{}
	}

	return &File{
		ProjectID:       projectID,
		ServiceAccounts: accounts,
	}
}

// Marshal renders the canonical JSON document.
func (f *File) Marshal() ([]byte, error) {
	if f.ProjectID == "" {
		return nil, ErrEmptyProjectID
	}

	b, err := json.MarshalIndent(f, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal variables: %w", err)
	}

	return append(b, '\n'), nil
}

// Write renders the document and writes it to path, creating missing parent
// directories. The file appears atomically via a temp file and rename, so a
// failed run never leaves a partial output file behind.
func (f *File) Write(path string) error {
	b, err := f.Marshal()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)

	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	_, err = tmp.Write(b)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("write temp file: %w", err)
	}

	err = tmp.Close()
	if err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("close temp file: %w", err)
	}

	err = os.Rename(tmp.Name(), path)
	if err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
