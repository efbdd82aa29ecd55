package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/takt-sdd/create-takt-sdd/internal/errors"
)

// Latest is the tag request that resolves to the newest release.
const Latest = "latest"

// NormalizeTag validates an explicit x.y.z or vx.y.z tag and returns it as vX.Y.Z.
func NormalizeTag(tag string) (string, error) {
	v, err := semver.StrictNewVersion(strings.TrimPrefix(strings.TrimSpace(tag), "v"))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidOption,
			"invalid tag %q: expected latest, x.y.z or vx.y.z", tag)
	}
	return "v" + v.String(), nil
}

// ResolveTag turns a requested tag into a concrete release tag of repo.
// "latest" asks the API; an explicit version is normalized; an empty request
// uses fallback when it is a release version and the newest release otherwise.
func (c *Client) ResolveTag(ctx context.Context, repo, requested, fallback string) (string, error) {
	switch requested {
	case Latest:
		return c.LatestTag(ctx, repo)
	case "":
		if tag, err := NormalizeTag(fallback); err == nil {
			return tag, nil
		}
		return c.LatestTag(ctx, repo)
	}
	return NormalizeTag(requested)
}

// LatestTag returns the tag of repo's newest published release.
func (c *Client) LatestTag(ctx context.Context, repo string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", c.apiBase, repo)
	release, err := c.fetchRelease(ctx, url)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrTagResolve, "resolving latest release of %s", repo)
	}
	if release.TagName == "" {
		return "", errors.Newf(errors.ErrTagResolve, "latest release of %s has no tag", repo)
	}
	c.logger.Debug().Str("repo", repo).Str("tag", release.TagName).Msg("resolved latest release")
	return release.TagName, nil
}

func (c *Client) fetchRelease(ctx context.Context, url string) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching release: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("release not found")
	case resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("GitHub API rate limit exceeded. Set GITHUB_TOKEN for higher limits")
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var release Release
	if err := json.Unmarshal(body, &release); err != nil {
		return nil, fmt.Errorf("parsing release JSON: %w", err)
	}
	return &release, nil
}
