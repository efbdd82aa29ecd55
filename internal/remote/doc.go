// Package remote fetches asset bundles published as GitHub source archives.
// It resolves release tags through the GitHub API (or a configured API base),
// downloads the tag's tar.gz from github.com (or a configured mirror), and
// unpacks it onto an afero filesystem.
package remote
