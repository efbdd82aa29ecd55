package remote

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/takt-sdd/create-takt-sdd/internal/errors"
)

// Download saves the body of url to dest on fs. Redirects are followed; any
// final status other than 200 is an error.
func (c *Client) Download(ctx context.Context, fs afero.Fs, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrDownload, "creating download request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, errors.ErrDownload, "downloading %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf(errors.ErrDownload, "download failed: HTTP %d", resp.StatusCode).
			WithDetail("url", url)
	}

	f, err := fs.Create(dest)
	if err != nil {
		return errors.Wrap(err, errors.ErrDownload, "creating download file")
	}
	n, err := io.Copy(f, resp.Body)
	if err != nil {
		f.Close()
		return errors.Wrap(err, errors.ErrDownload, "reading download stream")
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrDownload, "writing %s", dest)
	}
	c.logger.Debug().Str("url", url).Int64("bytes", n).Msg("downloaded archive")
	return nil
}

// Extract unpacks the gzip-compressed tar at archive into destDir. Entries
// that would land outside destDir are rejected. When the archive has a single
// top-level directory, as GitHub source archives do, its path is returned;
// otherwise destDir is.
func Extract(fs afero.Fs, archive, destDir string) (string, error) {
	f, err := fs.Open(archive)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrExtract, "opening archive")
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrExtract, "creating gzip reader")
	}
	defer gz.Close()

	tops := map[string]bool{}
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.Wrap(err, errors.ErrExtract, "reading tar entry")
		}

		name, ok := safeName(hdr.Name)
		if !ok {
			return "", errors.Newf(errors.ErrExtract, "archive entry %q escapes the extraction directory", hdr.Name)
		}
		if name == "" {
			continue
		}
		target := filepath.Join(destDir, filepath.FromSlash(name))

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := fs.MkdirAll(target, 0o755); err != nil {
				return "", errors.Wrapf(err, errors.ErrExtract, "creating %s", name)
			}
		case tar.TypeReg:
			if err := writeEntry(fs, target, tr, os.FileMode(hdr.Mode).Perm()); err != nil {
				return "", errors.Wrapf(err, errors.ErrExtract, "extracting %s", name)
			}
		default:
			// Links, devices and pax headers carry no asset content.
			continue
		}
		tops[strings.SplitN(name, "/", 2)[0]] = true
	}

	if len(tops) == 1 {
		for top := range tops {
			root := filepath.Join(destDir, top)
			if ok, _ := afero.DirExists(fs, root); ok {
				return root, nil
			}
		}
	}
	return destDir, nil
}

// Fetch downloads repo at tag into workDir and extracts it there, returning
// the extracted root.
func (c *Client) Fetch(ctx context.Context, fs afero.Fs, repo, tag, workDir string) (string, error) {
	if err := fs.MkdirAll(workDir, 0o755); err != nil {
		return "", errors.Wrap(err, errors.ErrDownload, "creating work directory")
	}
	archive := filepath.Join(workDir, "archive.tar.gz")
	if err := c.Download(ctx, fs, c.ArchiveURL(repo, tag), archive); err != nil {
		return "", err
	}
	extractDir := filepath.Join(workDir, "extract")
	if err := fs.MkdirAll(extractDir, 0o755); err != nil {
		return "", errors.Wrap(err, errors.ErrExtract, "creating extraction directory")
	}
	return Extract(fs, archive, extractDir)
}

// safeName cleans a tar entry name. It reports false for absolute names and
// names that climb out of the archive root.
func safeName(name string) (string, bool) {
	name = strings.ReplaceAll(name, "\\", "/")
	if strings.HasPrefix(name, "/") {
		return "", false
	}
	clean := path.Clean(name)
	if clean == "." {
		return "", true
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}
	return clean, true
}

func writeEntry(fs afero.Fs, target string, r io.Reader, mode os.FileMode) error {
	if err := fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	if mode == 0 {
		mode = 0o644
	}
	out, err := fs.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return out.Close()
}
