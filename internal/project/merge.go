package project

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/takt-sdd/create-takt-sdd/internal/errors"
)

// FileName is the project declaration file.
const FileName = "package.json"

// DependencyChange records a devDependency whose range was replaced.
type DependencyChange struct {
	Name string
	From string
	To   string
}

// Report describes the outcome of a merge.
type Report struct {
	// Created is set when the file did not exist.
	Created     bool
	Added       []string
	Skipped     []string
	DepsAdded   []string
	DepsUpdated []DependencyChange
}

// Changed reports whether the merge alters the file.
func (r *Report) Changed() bool {
	return r.Created || len(r.Added) > 0 || len(r.DepsAdded) > 0 || len(r.DepsUpdated) > 0
}

// Plan computes the merge of decl into the file at path without writing it.
func Plan(fs afero.Fs, path string, decl *Declarations) (*Report, error) {
	report, _, err := merge(fs, path, decl)
	return report, err
}

// Merge adds decl to the file at path, creating the file when it is missing.
// The file is only rewritten when something changes.
func Merge(fs afero.Fs, path string, decl *Declarations) (*Report, error) {
	report, doc, err := merge(fs, path, decl)
	if err != nil {
		return nil, err
	}
	if !report.Changed() {
		return report, nil
	}

	data, err := doc.encode()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDeclarationFile, "encoding %s", path)
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDeclarationFile, "writing %s", path)
	}
	return report, nil
}

func merge(fs afero.Fs, path string, decl *Declarations) (*Report, *object, error) {
	report := &Report{}

	data, err := afero.ReadFile(fs, path)
	if os.IsNotExist(err) {
		doc, err := create(decl)
		if err != nil {
			return nil, nil, errors.Wrapf(err, errors.ErrDeclarationFile, "building %s", path)
		}
		report.Created = true
		report.Added = decl.ScriptNames()
		for _, d := range decl.DevDependencies {
			report.DepsAdded = append(report.DepsAdded, d.Name)
		}
		return report, doc, nil
	}
	if err != nil {
		return nil, nil, errors.Wrapf(err, errors.ErrDeclarationFile, "reading %s", path)
	}

	doc, err := parseObject(data)
	if err != nil {
		return nil, nil, errors.Wrapf(err, errors.ErrDeclarationFile, "parsing %s", path)
	}

	scripts, err := section(doc, "scripts")
	if err != nil {
		return nil, nil, errors.Wrapf(err, errors.ErrDeclarationFile, "parsing %s", path)
	}
	for _, s := range decl.Scripts {
		if scripts.has(s.Name) {
			report.Skipped = append(report.Skipped, s.Name)
			continue
		}
		if err := scripts.setString(s.Name, s.Value); err != nil {
			return nil, nil, errors.Wrapf(err, errors.ErrDeclarationFile, "adding script %s", s.Name)
		}
		report.Added = append(report.Added, s.Name)
	}

	deps, err := section(doc, "devDependencies")
	if err != nil {
		return nil, nil, errors.Wrapf(err, errors.ErrDeclarationFile, "parsing %s", path)
	}
	for _, d := range decl.DevDependencies {
		current, isString := deps.stringValue(d.Name)
		switch {
		case !deps.has(d.Name):
			report.DepsAdded = append(report.DepsAdded, d.Name)
		case isString && current == d.Value:
			continue
		default:
			report.DepsUpdated = append(report.DepsUpdated, DependencyChange{Name: d.Name, From: current, To: d.Value})
		}
		if err := deps.setString(d.Name, d.Value); err != nil {
			return nil, nil, errors.Wrapf(err, errors.ErrDeclarationFile, "adding dependency %s", d.Name)
		}
	}

	if len(report.Added) > 0 {
		if err := setObject(doc, "scripts", scripts); err != nil {
			return nil, nil, err
		}
	}
	if len(report.DepsAdded) > 0 || len(report.DepsUpdated) > 0 {
		if err := setObject(doc, "devDependencies", deps); err != nil {
			return nil, nil, err
		}
	}
	return report, doc, nil
}

// section returns the member object named key, or an empty one when absent.
func section(doc *object, key string) (*object, error) {
	raw := doc.get(key)
	if raw == nil || string(raw) == "null" {
		return newObject(), nil
	}
	obj, err := parseObject(raw)
	if err != nil {
		return nil, fmt.Errorf("%q must be an object: %w", key, err)
	}
	return obj, nil
}

func setObject(doc *object, key string, value *object) error {
	raw, err := value.compact()
	if err != nil {
		return errors.Wrapf(err, errors.ErrDeclarationFile, "encoding %s", key)
	}
	doc.set(key, raw)
	return nil
}

func create(decl *Declarations) (*object, error) {
	doc := newObject()
	doc.set("private", json.RawMessage("true"))

	scripts := newObject()
	for _, s := range decl.Scripts {
		if err := scripts.setString(s.Name, s.Value); err != nil {
			return nil, err
		}
	}
	if err := setObject(doc, "scripts", scripts); err != nil {
		return nil, err
	}

	if len(decl.DevDependencies) > 0 {
		deps := newObject()
		for _, d := range decl.DevDependencies {
			if err := deps.setString(d.Name, d.Value); err != nil {
				return nil, err
			}
		}
		if err := setObject(doc, "devDependencies", deps); err != nil {
			return nil, err
		}
	}
	return doc, nil
}
