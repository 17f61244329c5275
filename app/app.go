package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

const (
	cfgName     = "application"
	testCfgName = "application_test"
)

var (
	cfg  *viper.Viper
	once sync.Once
)

// Config loads the application configuration.
//
// Rules:
//  1. If the current process is running `go test`, it tries application_test.yml.
//  2. Otherwise it tries application.yml.
//  3. It searches the project root (nearest parent containing go.mod), its
//     ./config subdir, the current working directory, and ./config under it.
//
// The configuration carries the datasource map consumed by the store package,
// most importantly the location of the SQLite database file.
func Config() mo.Result[*viper.Viper] {
	once.Do(func() {
		cfg, _ = loadViper(false)
	})
	return lo.If(cfg == nil, mo.Err[*viper.Viper](fmt.Errorf("can not find application.yml"))).Else(mo.Ok(cfg))
}

func loadViper(required bool) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	addDefaultConfigPaths(v)

	cwd, _ := os.Getwd()

	tryRead := func(cand string) bool {
		if _, err := os.Stat(cand); err == nil {
			v.SetConfigFile(cand)
			if err := v.ReadInConfig(); err == nil {
				return true
			}
		}
		return false
	}

	// If application_test.yml exists in the project root or CWD prefer it;
	// this keeps test runs from different package dirs stable.
	if root, ok := findProjectRoot(cwd); ok {
		for _, cand := range []string{
			filepath.Join(root, testCfgName+".yml"),
			filepath.Join(root, "config", testCfgName+".yml"),
		} {
			if tryRead(cand) {
				return v, nil
			}
		}
	}
	for _, cand := range []string{
		filepath.Join(cwd, testCfgName+".yml"),
		filepath.Join(cwd, "config", testCfgName+".yml"),
	} {
		if tryRead(cand) {
			return v, nil
		}
	}

	name := lo.If(isTestProcess(), testCfgName).Else(cfgName)
	v.SetConfigName(strings.TrimSuffix(name, filepath.Ext(name)))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !required && errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return v, nil
}

// addDefaultConfigPaths registers a stable set of config search paths into viper.
//
// Viper resolves relative paths against the current working directory, which
// varies between IDE runs, `go test` from package folders, and launching the
// binary from a deployment directory. Searching the project root first keeps
// dev-time stable; falling back to CWD keeps runtime flexible (config can be
// shipped next to the binary).
func addDefaultConfigPaths(v *viper.Viper) {
	cwd, err := os.Getwd()
	if err != nil {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		return
	}
	if root, ok := findProjectRoot(cwd); ok {
		v.AddConfigPath(root)
		v.AddConfigPath(filepath.Join(root, "config"))
	}
	v.AddConfigPath(cwd)
	v.AddConfigPath(filepath.Join(cwd, "config"))
}

// findProjectRoot walks upward from `start` until it finds a directory containing a go.mod.
// It returns (root, true) if found, otherwise ("", false).
func findProjectRoot(start string) (string, bool) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// isTestProcess detects whether we are running under `go test`.
// The test binary is invoked with flags like `-test.v`, `-test.run`, which is
// the most reliable signal.
func isTestProcess() bool {
	for _, a := range os.Args {
		if strings.HasPrefix(a, "-test.") {
			return true
		}
	}
	return false
}
