// Package config resolves runtime settings that do not come from flags.
package config

import (
	"errors"
	"os"

	"github.com/cli/go-gh/v2/pkg/auth"
	"github.com/joho/godotenv"

	"github.com/naka-gawa/pr-reactions/internal/domain"
)

// ErrNoToken is returned when no GitHub token can be found.
var ErrNoToken = errors.New("GITHUB_TOKEN is not set and gh CLI has no stored token")

// githubHost is the host whose gh CLI credentials are used as a fallback.
const githubHost = "github.com"

// LoadEnv loads a .env file from the working directory if one exists.
// Variables already present in the environment win.
func LoadEnv() {
	_ = godotenv.Load()
}

// GitHubToken returns the token to authenticate with and where it came from.
// GITHUB_TOKEN takes precedence over credentials stored by the gh CLI.
func GitHubToken() (token, source string, err error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, "GITHUB_TOKEN", nil
	}
	token, source = auth.TokenForHost(githubHost)
	if token == "" {
		return "", "", ErrNoToken
	}
	return token, source, nil
}

// PointTable returns the table from path, or the default table when path is empty.
func PointTable(path string) (domain.PointTable, error) {
	if path == "" {
		return domain.DefaultPointTable(), nil
	}
	return domain.LoadPointTable(path)
}
