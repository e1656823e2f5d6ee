package util

import (
	"os"
	"path/filepath"
	"sync"
)

var (
	projectRootDir     string
	projectRootDirOnce sync.Once
)

// GetProjectRootDir returns the directory containing go.mod, walking up from the
// working directory. PROJECT_ROOT_DIR overrides the lookup.
func GetProjectRootDir() string {
	projectRootDirOnce.Do(func() {
		if dir, ok := os.LookupEnv("PROJECT_ROOT_DIR"); ok {
			projectRootDir = dir
			return
		}

		dir, err := os.Getwd()
		if err != nil {
			projectRootDir = "."
			return
		}

		for {
			if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
				projectRootDir = dir
				return
			}

			parent := filepath.Dir(dir)
			if parent == dir {
				projectRootDir = "."
				return
			}
			dir = parent
		}
	})

	return projectRootDir
}
