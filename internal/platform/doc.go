// Package platform provides the filesystem operations whose behavior differs
// between operating systems. Symlinks are created through afero's Linker
// interface; where that is unavailable (Windows without developer mode, or an
// in-memory filesystem) the target tree is copied instead.
package platform
