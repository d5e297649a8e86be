package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment so
// that MAZEIO_ overrides can live in a local file. Variables already set in
// the environment win. A missing file is not an error.
//
// Postcondition: Returns true if the file was found and loaded.
func LoadDotEnv(path string) (bool, error) {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading %s: %w", path, err)
	}
	return true, nil
}
