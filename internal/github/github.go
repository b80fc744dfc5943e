// Package github looks up published releases of a GitHub repository.
package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-version"
	jsoniter "github.com/json-iterator/go"
)

const defaultBaseURL = "https://api.github.com"

var ErrHttpError = errors.New("HTTP error")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Release is a published release as reported by the GitHub API.
type Release struct {
	Name        string    `json:"name"`
	TagName     string    `json:"tag_name"`
	HTMLURL     string    `json:"html_url"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at"`
}

// Update is the outcome of comparing the running version with the latest release.
type Update struct {
	Current   string
	Latest    Release
	Available bool
}

// Releases fetches release information for one repository.
type Releases struct {
	Owner string
	Repo  string

	// Client defaults to http.DefaultClient.
	Client *http.Client
	// BaseURL defaults to the public GitHub API.
	BaseURL string
}

// Latest returns the newest non-draft release.
func (r Releases) Latest(ctx context.Context) (Release, error) {
	base := r.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", strings.TrimSuffix(base, "/"), r.Owner, r.Repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Release{}, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Release{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return Release{}, fmt.Errorf("%s: %s: %w", url, resp.Status, ErrHttpError)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Release{}, err
	}
	var rel Release
	if err := json.Unmarshal(body, &rel); err != nil {
		return Release{}, fmt.Errorf("decode release: %w", err)
	}
	return rel, nil
}

// CheckUpdate compares current with the latest release.
// An invalid current version is reported before any request is made.
func (r Releases) CheckUpdate(ctx context.Context, current string) (Update, error) {
	have, err := version.NewVersion(current)
	if err != nil {
		return Update{}, err
	}
	rel, err := r.Latest(ctx)
	if err != nil {
		return Update{}, err
	}
	latest, err := version.NewVersion(rel.TagName)
	if err != nil {
		return Update{}, fmt.Errorf("release %q: %w", rel.TagName, err)
	}
	u := Update{Current: current, Latest: rel, Available: have.LessThan(latest)}
	return u, nil
}
