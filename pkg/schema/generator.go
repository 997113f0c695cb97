package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"
)

const modulePath = "github.com/ccoe-dev/pexp"

// Generator reflects Go types into a JSON schema document, enriched with the
// Go doc comments of the listed packages.
type Generator struct {
	obj  any
	pkgs []string
}

// NewGenerator creates a [Generator] for obj. The pkgs are module package
// paths whose doc comments should be included as schema descriptions.
func NewGenerator(obj any, pkgs ...string) *Generator {
	return &Generator{
		obj:  obj,
		pkgs: pkgs,
	}
}

func (g *Generator) Generate() ([]byte, error) {
	r := &jsonschema.Reflector{
		Anonymous: true,
	}

	root, err := findModuleRoot()
	if err != nil {
		return nil, err
	}

	for _, pkg := range g.pkgs {
		rel := strings.TrimPrefix(strings.TrimPrefix(pkg, modulePath), "/")

		err := r.AddGoComments(pkg, filepath.Join(root, rel))
		if err != nil {
			return nil, fmt.Errorf("add go comments for %s: %w", pkg, err)
		}
	}

	jss := r.Reflect(g.obj)

	b, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(b, '\n'), nil
}

// findModuleRoot walks up from the working directory until it finds go.mod,
// so the generator works regardless of which package go:generate runs in.
func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		_, err := os.Stat(filepath.Join(dir, "go.mod"))
		if err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found in any parent directory")
		}

		dir = parent
	}
}
