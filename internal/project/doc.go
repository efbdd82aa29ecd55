// Package project merges the installer's npm scripts and devDependencies
// into a project's package.json.
//
// The merge is additive. A script the project already defines is reported as
// skipped and keeps its value; a devDependency is added when missing and
// updated when its range differs. Existing keys keep their order and values;
// the file is re-indented with two spaces, as npm writes it.
package project
