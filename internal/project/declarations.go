package project

import (
	_ "embed"
	"fmt"

	"go.yaml.in/yaml/v3"
)

//go:embed declarations.yaml
var rawDeclarations []byte

// Entry is one named declaration.
type Entry struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Declarations lists what the installer adds to package.json, in order.
type Declarations struct {
	Scripts         []Entry `yaml:"scripts"`
	DevDependencies []Entry `yaml:"devDependencies"`
}

// DefaultDeclarations returns the embedded declarations.
func DefaultDeclarations() (*Declarations, error) {
	var d Declarations
	if err := yaml.Unmarshal(rawDeclarations, &d); err != nil {
		return nil, fmt.Errorf("parsing embedded declarations: %w", err)
	}
	return &d, nil
}

// ScriptNames returns the script names in declaration order.
func (d *Declarations) ScriptNames() []string {
	names := make([]string, 0, len(d.Scripts))
	for _, s := range d.Scripts {
		names = append(names, s.Name)
	}
	return names
}
