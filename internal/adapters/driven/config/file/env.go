package file

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
)

// envFile is the dotenv file name looked up in each directory.
const envFile = ".env"

// LoadEnv loads API credentials from .env files into the process
// environment. Files are read from each directory in order; variables that
// are already set are never overwritten, so the real environment wins and
// earlier directories take precedence over later ones.
func LoadEnv(dirs ...string) error {
	for _, dir := range dirs {
		path := filepath.Join(dir, envFile)
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}
	return nil
}
