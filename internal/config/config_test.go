package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/pr-reactions/internal/domain"
)

func TestGitHubToken_FromEnvironment(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_test")

	token, source, err := GitHubToken()
	require.NoError(t, err)
	assert.Equal(t, "ghp_test", token)
	assert.Equal(t, "GITHUB_TOKEN", source)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PR_REACTIONS_TEST_VAR=from-dotenv\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("PR_REACTIONS_TEST_VAR", "")
	os.Unsetenv("PR_REACTIONS_TEST_VAR")

	LoadEnv()
	assert.Equal(t, "from-dotenv", os.Getenv("PR_REACTIONS_TEST_VAR"))
}

func TestPointTable(t *testing.T) {
	table, err := PointTable("")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPointTable(), table)

	path := filepath.Join(t.TempDir(), "points.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ROCKET: 4\n"), 0o600))
	table, err = PointTable(path)
	require.NoError(t, err)
	assert.Equal(t, domain.PointTable{"ROCKET": 4}, table)
}
