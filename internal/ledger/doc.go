// Package ledger stores the install manifest: the record of every file the
// installer wrote into a project together with the fingerprint of the content
// it shipped. An update run compares on-disk files against this record to tell
// untouched files from ones the user has customized.
//
// The ledger lives at .takt/.sdd-manifest.json. It is read once at the start
// of a run and replaced wholesale at the end of a successful one; a failed run
// never writes it.
package ledger
