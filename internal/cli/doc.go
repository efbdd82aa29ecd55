// Package cli defines the Cobra command tree for create-takt-sdd. The root
// command performs the install; version and config are subcommands. Commands
// only parse flags, read user configuration and wire collaborators together;
// the work itself lives in package installer.
package cli
