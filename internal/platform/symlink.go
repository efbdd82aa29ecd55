package platform

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// LinkResult reports what CreateSymlink did.
type LinkResult int

const (
	// Linked means a native symlink was created.
	Linked LinkResult = iota
	// Copied means the target was copied because symlinks were unavailable.
	Copied
	// Existing means something already occupied link and was left alone.
	Existing
)

// CreateSymlink makes link point at target. A relative target is resolved
// against link's parent directory, as the OS does. An existing link, file or
// directory at link is never replaced.
func CreateSymlink(fs afero.Fs, target, link string) (LinkResult, error) {
	exists, err := Exists(fs, link)
	if err != nil {
		return 0, err
	}
	if exists {
		return Existing, nil
	}

	if err := fs.MkdirAll(filepath.Dir(link), 0o755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", filepath.Dir(link), err)
	}

	if linker, ok := fs.(afero.Linker); ok {
		if err := linker.SymlinkIfPossible(target, link); err == nil {
			return Linked, nil
		}
	}

	src := target
	if !filepath.IsAbs(src) {
		src = filepath.Join(filepath.Dir(link), target)
	}
	if err := copyTree(fs, src, link); err != nil {
		return 0, fmt.Errorf("symlink fallback (copy) failed: %w", err)
	}
	return Copied, nil
}

// Exists reports whether anything, including a dangling symlink, is at path.
func Exists(fs afero.Fs, path string) (bool, error) {
	var err error
	if lstater, ok := fs.(afero.Lstater); ok {
		_, _, err = lstater.LstatIfPossible(path)
	} else {
		_, err = fs.Stat(path)
	}
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("inspecting %s: %w", path, err)
}

// ReadSymlinkTarget returns the target of the symlink at path.
func ReadSymlinkTarget(fs afero.Fs, path string) (string, error) {
	reader, ok := fs.(afero.LinkReader)
	if !ok {
		return "", fmt.Errorf("reading link %s: filesystem does not support symlinks", path)
	}
	return reader.ReadlinkIfPossible(path)
}

func copyTree(fs afero.Fs, src, dst string) error {
	return afero.Walk(fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return fs.MkdirAll(target, 0o755)
		}
		return copyFile(fs, path, target, info.Mode().Perm())
	})
}

func copyFile(fs afero.Fs, src, dst string, mode os.FileMode) error {
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
