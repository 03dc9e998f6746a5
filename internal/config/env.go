// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"path/filepath"

	"github.com/joho/godotenv"
)

// DotEnvFileName is the environment file read from the working directory.
const DotEnvFileName = ".env"

// LoadDotEnv exports the variables of dir/.env into the process environment so
// VARMERGE_* overrides can live next to the manifests. Variables already set are
// kept. A missing file is not an error; the return value reports whether one was read.
func LoadDotEnv(dir string) (bool, error) {
	path := filepath.Join(dir, DotEnvFileName)
	if !fileExists(path) {
		return false, nil
	}
	if err := godotenv.Load(path); err != nil {
		return false, fmt.Errorf("load %s: %w", path, err)
	}
	return true, nil
}
