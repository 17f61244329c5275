package app

import (
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfig_LoadsApplicationTestYml(t *testing.T) {
	// Reset singleton for this test.
	cfg = nil
	once = sync.Once{}

	res := Config()
	require.True(t, res.IsOk())
	v := res.MustGet()
	require.NotNil(t, v)

	// This value comes from application_test.yml at the repo root.
	require.Equal(t, "sqlite3", v.GetString("datasource.default.driver"))
	require.NotEmpty(t, v.GetString("datasource.default.url"))
}

func TestFindProjectRoot(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	root, ok := findProjectRoot(cwd)
	require.True(t, ok)
	require.NotEmpty(t, root)

	_, ok = findProjectRoot("/")
	require.False(t, ok)
}

func TestIsTestProcess(t *testing.T) {
	// We are literally inside `go test` here.
	require.True(t, isTestProcess())
}
