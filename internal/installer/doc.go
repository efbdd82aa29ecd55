// Package installer sequences one install or update of takt-sdd assets into a
// project.
//
// A run detects its mode before touching the project:
//
//	ledger valid                               Update
//	no usable ledger, .takt/pieces empty       Fresh
//	no usable ledger, populated, --force       ForcedFresh
//	no usable ledger, populated, no --force    refused (DESTINATION_POPULATED)
//
// It then resolves the release tag, downloads and unpacks the bundle into a
// temporary directory that is removed on every exit path, resolves the
// layout, and synchronizes pieces, facet categories, .gitignore, skills and
// the takt reference bundle in that order. package.json is merged last and
// the ledger is written only after everything else succeeded.
//
// A dry run stops once the layout is resolved. It prints the action each file
// and package.json would get and writes nothing; the reference bundle is not
// fetched.
package installer
