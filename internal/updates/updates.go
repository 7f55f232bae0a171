// Package updates checks GitHub for a newer release of this program.
package updates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultReleasesURL = "https://api.github.com/repos/timrogers/litra-autotoggle/releases/latest"

// Checker fetches the latest published release tag.
type Checker struct {
	url  string
	http *http.Client
}

func NewChecker() *Checker {
	return NewCheckerWithURL(defaultReleasesURL)
}

// NewCheckerWithURL is NewChecker with an explicit endpoint, for tests.
func NewCheckerWithURL(url string) *Checker {
	return &Checker{
		url:  url,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

type releaseResponse struct {
	TagName string `json:"tag_name"`
}

// Latest returns the newest release version, without any "v" prefix.
func (c *Checker) Latest(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release endpoint returned %s", resp.Status)
	}

	var release releaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("decode release response: %w", err)
	}
	tag := strings.TrimPrefix(strings.TrimSpace(release.TagName), "v")
	if tag == "" {
		return "", fmt.Errorf("release response carries no tag")
	}
	return tag, nil
}

// Notify runs one check and logs the outcome. Failures are debug-level
// only; an update check must never disturb the session.
func Notify(ctx context.Context, c *Checker, current string, log zerolog.Logger) {
	latest, err := c.Latest(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("update check failed")
		return
	}

	current = strings.TrimPrefix(current, "v")
	if current == "" || current == "dev" || current == latest {
		return
	}
	log.Info().
		Str("current", current).
		Str("latest", latest).
		Msg("a newer version is available")
}
