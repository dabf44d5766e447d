package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// LoadEnv loads KEY=value pairs from the given dotenv files (".env" when none
// are given) into the process environment. Variables already set are kept.
// Missing files are reported with an error matching fs.ErrNotExist.
func LoadEnv(paths ...string) error {
	return godotenv.Load(paths...)
}

// IsMissing reports whether err from LoadEnv means no dotenv file was found.
func IsMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
